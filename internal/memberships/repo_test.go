package memberships

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewdeck-backend/pkg/enums"
)

func setupMembershipsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	membershipsDDL := `
CREATE TABLE IF NOT EXISTS memberships (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  company_id TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, company_id)
);`
	require.NoError(t, db.Exec(membershipsDDL).Error)
	return db
}

func TestCreateAndGetMembership(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	companyID := uuid.New()
	created, err := repo.CreateMembership(ctx, companyID, userID, enums.MemberRoleManager)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.GetMembership(ctx, userID, companyID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.MemberRoleManager, found.Role)
}

func TestGetMembershipScopedToCompany(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.CreateMembership(ctx, uuid.New(), userID, enums.MemberRolePicker)
	require.NoError(t, err)

	_, err = repo.GetMembership(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateMembershipRejectsInvalidRole(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.CreateMembership(context.Background(), uuid.New(), uuid.New(), enums.MemberRole("superuser"))
	assert.Error(t, err)
}

func TestCreateMembershipDuplicatePairFails(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	companyID := uuid.New()
	_, err := repo.CreateMembership(ctx, companyID, userID, enums.MemberRolePicker)
	require.NoError(t, err)

	_, err = repo.CreateMembership(ctx, companyID, userID, enums.MemberRoleAdmin)
	assert.Error(t, err)
}

func TestUpdateRoleTx(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	companyID := uuid.New()
	created, err := repo.CreateMembership(ctx, companyID, userID, enums.MemberRolePicker)
	require.NoError(t, err)

	rows, err := repo.UpdateRoleTx(ctx, db, created.ID, enums.MemberRoleOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	found, err := repo.GetMembership(ctx, userID, companyID)
	require.NoError(t, err)
	assert.Equal(t, enums.MemberRoleOwner, found.Role)
}

func TestUpdateRoleTxMissingRow(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.UpdateRoleTx(context.Background(), db, uuid.New(), enums.MemberRoleOwner)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestDeleteMembershipTx(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	companyID := uuid.New()
	created, err := repo.CreateMembership(ctx, companyID, userID, enums.MemberRolePicker)
	require.NoError(t, err)

	rows, err := repo.DeleteMembershipTx(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.DeleteMembershipTx(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestCountUserMembershipsTx(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.CreateMembership(ctx, uuid.New(), userID, enums.MemberRolePicker)
	require.NoError(t, err)
	_, err = repo.CreateMembership(ctx, uuid.New(), userID, enums.MemberRoleOwner)
	require.NoError(t, err)

	count, err := repo.CountUserMembershipsTx(ctx, db, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountUserMembershipsTx(ctx, db, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}
