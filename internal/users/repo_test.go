package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	usersDDL := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL,
  default_membership_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersDDL).Error)
	return db
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@crewdeck.io", prefix, uuid.NewString()[:8])
}

func TestCreateAndFindByEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	email := uniqueEmail("create")
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        email,
		PasswordHash: "hashed",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         enums.MemberRoleAdmin,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.MemberRoleAdmin, found.Role)
}

func TestCreateDefaultsRole(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	created, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        uniqueEmail("default-role"),
		PasswordHash: "hashed",
		FirstName:    "No",
		LastName:     "Role",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.DefaultMemberRole, created.Role)
}

func TestFindByIDMissing(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetDefaultMembershipOnlyFillsEmptyValue(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        uniqueEmail("default-membership"),
		PasswordHash: "hashed",
		FirstName:    "First",
		LastName:     "Member",
	})
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, repo.SetDefaultMembership(ctx, created.ID, first))
	require.NoError(t, repo.SetDefaultMembership(ctx, created.ID, second))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.DefaultMembershipID)
	assert.Equal(t, first, *found.DefaultMembershipID)
}

func TestUpdateProfileTxAppliesPartialColumns(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	phone := "5551230000"
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        uniqueEmail("patch"),
		PasswordHash: "hashed",
		FirstName:    "Before",
		LastName:     "Patch",
		Phone:        &phone,
	})
	require.NoError(t, err)

	rows, err := repo.UpdateProfileTx(ctx, db, created.ID, map[string]any{
		"first_name": "After",
		"phone":      nil,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", found.FirstName)
	assert.Equal(t, "Patch", found.LastName)
	assert.Nil(t, found.Phone)
}

func TestUpdateProfileTxNoColumnsIsNoop(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.UpdateProfileTx(context.Background(), db, uuid.New(), nil)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestUpdateProfileTxMissingRow(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.UpdateProfileTx(context.Background(), db, uuid.New(), map[string]any{"first_name": "Ghost"})
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestDeleteTxRemovesRow(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        uniqueEmail("delete"),
		PasswordHash: "hashed",
		FirstName:    "Gone",
		LastName:     "Soon",
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTx(ctx, db, created.ID))

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
