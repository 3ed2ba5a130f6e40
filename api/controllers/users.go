package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/crewdeck-backend/api/middleware"
	"github.com/angelmondragon/crewdeck-backend/api/responses"
	"github.com/angelmondragon/crewdeck-backend/api/validators"
	"github.com/angelmondragon/crewdeck-backend/internal/directory"
	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/crewdeck-backend/pkg/errors"
	"github.com/angelmondragon/crewdeck-backend/pkg/logger"
	"github.com/angelmondragon/crewdeck-backend/pkg/types"
)

// actorFromRequest rebuilds the caller identity seeded by the auth
// middleware. A missing or malformed identity is always unauthorized.
func actorFromRequest(r *http.Request) (directory.Actor, error) {
	userID := middleware.UserIDFromContext(r.Context())
	companyID := middleware.CompanyIDFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())
	if userID == "" || companyID == "" || role == "" {
		return directory.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity context")
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return directory.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	cid, err := uuid.Parse(companyID)
	if err != nil {
		return directory.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid company id")
	}
	parsedRole, err := enums.ParseMemberRole(role)
	if err != nil {
		return directory.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}

	return directory.Actor{UserID: uid, CompanyID: cid, Role: parsedRole}, nil
}

func targetIDFromRequest(r *http.Request) (uuid.UUID, error) {
	param := strings.TrimSpace(chi.URLParam(r, "userId"))
	if param == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

// UsersList returns every user holding a membership in the caller's company.
func UsersList(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListUsers(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// UserGet returns a single company member as the merged profile+role view.
func UserGet(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		targetID, err := targetIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetUser(r.Context(), actor, targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CurrentUser returns the caller's own merged view.
func CurrentUser(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetUser(r.Context(), actor, actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

type userInviteRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=7"`
	Role      string  `json:"role,omitempty" validate:"omitempty,oneof=owner admin manager picker"`
}

func (r userInviteRequest) toInput() (directory.InviteUserInput, error) {
	role := enums.DefaultMemberRole
	if r.Role != "" {
		parsed, err := enums.ParseMemberRole(r.Role)
		if err != nil {
			return directory.InviteUserInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		role = parsed
	}
	return directory.InviteUserInput{
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Password:  r.Password,
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Phone:     r.Phone,
		Role:      role,
	}, nil
}

// UserInvite creates a user or attaches an existing one to the caller's
// company.
func UserInvite(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload userInviteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.InviteUser(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

type userUpdateRequest struct {
	FirstName *string              `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName  *string              `json:"last_name,omitempty" validate:"omitempty,min=1"`
	Phone     types.NullableString `json:"phone,omitempty"`
	Password  *string              `json:"password,omitempty" validate:"omitempty,min=8"`
	Role      *string              `json:"role,omitempty" validate:"omitempty,oneof=owner admin manager picker"`
}

func (r userUpdateRequest) toInput() (directory.UpdateUserInput, error) {
	input := directory.UpdateUserInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}

	if r.Phone.Valid {
		input.PhoneSet = true
		if r.Phone.Value != nil {
			trimmed := strings.TrimSpace(*r.Phone.Value)
			if len(trimmed) < 7 {
				return directory.UpdateUserInput{}, pkgerrors.New(pkgerrors.CodeValidation, "phone must be at least 7 characters")
			}
			input.Phone = &trimmed
		}
	}

	if r.Role != nil {
		parsed, err := enums.ParseMemberRole(*r.Role)
		if err != nil {
			return directory.UpdateUserInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		input.Role = &parsed
	}

	return input, nil
}

// UserUpdate applies a partial update to a member's profile and, when the
// caller is authorized, their company role.
func UserUpdate(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		targetID, err := targetIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload userUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateUser(r.Context(), actor, targetID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// UserRemove deletes a membership and, when it was the user's last one,
// cascades to the identity and its refresh tokens.
func UserRemove(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		targetID, err := targetIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveUser(r.Context(), actor, targetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// UserRefreshTokens lists a member's refresh tokens for management-capable
// callers.
func UserRefreshTokens(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		targetID, err := targetIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListRefreshTokens(r.Context(), actor, targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
