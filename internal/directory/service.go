package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewdeck-backend/internal/memberships"
	"github.com/angelmondragon/crewdeck-backend/internal/tokens"
	"github.com/angelmondragon/crewdeck-backend/internal/users"
	"github.com/angelmondragon/crewdeck-backend/pkg/config"
	"github.com/angelmondragon/crewdeck-backend/pkg/db"
	"github.com/angelmondragon/crewdeck-backend/pkg/db/models"
	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/crewdeck-backend/pkg/errors"
	"github.com/angelmondragon/crewdeck-backend/pkg/security"
)

type usersRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetDefaultMembership(ctx context.Context, userID, membershipID uuid.UUID) error
	UpdateProfileTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, cols map[string]any) (int64, error)
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type membershipsRepository interface {
	GetMembership(ctx context.Context, userID, companyID uuid.UUID) (*models.Membership, error)
	CreateMembership(ctx context.Context, companyID, userID uuid.UUID, role enums.MemberRole) (*models.Membership, error)
	ListCompanyUsers(ctx context.Context, companyID uuid.UUID) ([]memberships.CompanyUserDTO, error)
	UpdateRoleTx(ctx context.Context, tx *gorm.DB, membershipID uuid.UUID, role enums.MemberRole) (int64, error)
	DeleteMembershipTx(ctx context.Context, tx *gorm.DB, membershipID uuid.UUID) (int64, error)
	CountUserMembershipsTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type tokensRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]tokens.RefreshTokenDTO, error)
	DeleteForUserTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the membership-scoped user directory operations.
type Service interface {
	ListUsers(ctx context.Context, actor Actor) ([]memberships.CompanyUserDTO, error)
	GetUser(ctx context.Context, actor Actor, targetID uuid.UUID) (*UserView, error)
	InviteUser(ctx context.Context, actor Actor, input InviteUserInput) (*UserView, error)
	UpdateUser(ctx context.Context, actor Actor, targetID uuid.UUID, input UpdateUserInput) (*UserView, error)
	RemoveUser(ctx context.Context, actor Actor, targetID uuid.UUID) error
	ListRefreshTokens(ctx context.Context, actor Actor, targetID uuid.UUID) ([]tokens.RefreshTokenDTO, error)
}

type service struct {
	users       usersRepository
	memberships membershipsRepository
	tokens      tokensRepository
	tx          transactor
	passwordCfg config.PasswordConfig
}

// NewService builds a directory service with the provided repositories.
func NewService(usersRepo usersRepository, membershipsRepo membershipsRepository, tokensRepo tokensRepository, tx transactor, passwordCfg config.PasswordConfig) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if membershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if tokensRepo == nil {
		return nil, fmt.Errorf("tokens repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	return &service{
		users:       usersRepo,
		memberships: membershipsRepo,
		tokens:      tokensRepo,
		tx:          tx,
		passwordCfg: passwordCfg,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, actor Actor) ([]memberships.CompanyUserDTO, error) {
	list, err := s.memberships.ListCompanyUsers(ctx, actor.CompanyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list company users")
	}
	return list, nil
}

// findMembership loads the (target, company) membership, translating a missing
// row into not-found. A user without a membership in the caller's company is
// indistinguishable from a user that does not exist at all.
func (s *service) findMembership(ctx context.Context, targetID, companyID uuid.UUID) (*models.Membership, error) {
	membership, err := s.memberships.GetMembership(ctx, targetID, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found in company")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return membership, nil
}

func (s *service) GetUser(ctx context.Context, actor Actor, targetID uuid.UUID) (*UserView, error) {
	membership, err := s.findMembership(ctx, targetID, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found in company")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	return mergedView(user, membership), nil
}

func (s *service) InviteUser(ctx context.Context, actor Actor, input InviteUserInput) (*UserView, error) {
	if !actor.Role.CanManageUsers() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient company role")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	role := input.Role
	if role == "" {
		role = enums.DefaultMemberRole
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.attachExistingUser(ctx, actor, user, role)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.inviteNewUser(ctx, actor, email, role, input)
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
}

// attachExistingUser adds a membership for a known identity. The user's
// global role and credentials stay untouched.
func (s *service) attachExistingUser(ctx context.Context, actor Actor, user *models.User, role enums.MemberRole) (*UserView, error) {
	existing, err := s.memberships.GetMembership(ctx, user.ID, actor.CompanyID)
	if err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member of this company")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}

	membership, err := s.memberships.CreateMembership(ctx, actor.CompanyID, user.ID, role)
	if err != nil {
		if db.IsUniqueViolation(err, models.MembershipUniqueConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member of this company")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}

	return mergedView(user, membership), nil
}

func (s *service) inviteNewUser(ctx context.Context, actor Actor, email string, role enums.MemberRole, input InviteUserInput) (*UserView, error) {
	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	membership, err := s.memberships.CreateMembership(ctx, actor.CompanyID, user.ID, role)
	if err != nil {
		if db.IsUniqueViolation(err, models.MembershipUniqueConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member of this company")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}

	if err := s.users.SetDefaultMembership(ctx, user.ID, membership.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default membership")
	}

	return mergedView(user, membership), nil
}

func (s *service) UpdateUser(ctx context.Context, actor Actor, targetID uuid.UUID, input UpdateUserInput) (*UserView, error) {
	membership, err := s.findMembership(ctx, targetID, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	isSelf := actor.UserID == targetID
	canManage := actor.Role.CanManageUsers()
	if !isSelf && !canManage {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient company role")
	}

	userCols := map[string]any{}
	if input.FirstName != nil {
		userCols["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		userCols["last_name"] = *input.LastName
	}
	if input.PhoneSet {
		userCols["phone"] = input.Phone
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		userCols["password_hash"] = hash
	}

	// Role changes require a management-capable caller. An unauthorized role
	// value is dropped, not rejected: the rest of the update still applies.
	applyRole := input.Role != nil && canManage
	if applyRole {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		userCols["role"] = *input.Role
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if len(userCols) > 0 {
			rows, err := s.users.UpdateProfileTx(ctx, tx, targetID, userCols)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
			}
			if rows == 0 {
				return pkgerrors.New(pkgerrors.CodeInternal, "user row vanished during update")
			}
		}
		if applyRole {
			rows, err := s.memberships.UpdateRoleTx(ctx, tx, membership.ID, *input.Role)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update membership role")
			}
			if rows == 0 {
				return pkgerrors.New(pkgerrors.CodeInternal, "membership row vanished during update")
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply update")
	}

	return s.GetUser(ctx, actor, targetID)
}

func (s *service) RemoveUser(ctx context.Context, actor Actor, targetID uuid.UUID) error {
	membership, err := s.findMembership(ctx, targetID, actor.CompanyID)
	if err != nil {
		return err
	}

	isSelf := actor.UserID == targetID
	if !isSelf && !actor.Role.CanManageUsers() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient company role")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.memberships.DeleteMembershipTx(ctx, tx, membership.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete membership")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found in company")
		}

		remaining, err := s.memberships.CountUserMembershipsTx(ctx, tx, targetID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count memberships")
		}
		if remaining > 0 {
			return nil
		}

		// Last membership gone: the user is orphaned, take the tokens and the
		// identity row with it.
		if err := s.tokens.DeleteForUserTx(ctx, tx, targetID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete refresh tokens")
		}
		if err := s.users.DeleteTx(ctx, tx, targetID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove user")
	}

	return nil
}

func (s *service) ListRefreshTokens(ctx context.Context, actor Actor, targetID uuid.UUID) ([]tokens.RefreshTokenDTO, error) {
	if !actor.Role.CanManageUsers() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient company role")
	}

	if _, err := s.findMembership(ctx, targetID, actor.CompanyID); err != nil {
		return nil, err
	}

	list, err := s.tokens.ListForUser(ctx, targetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refresh tokens")
	}
	return list, nil
}
