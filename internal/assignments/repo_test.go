package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/loopcycle/loopcycle-backend/pkg/db"
	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	"github.com/loopcycle/loopcycle-backend/pkg/pagination"
)

func setupAssignmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS assignments (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL,
  driver_id TEXT NOT NULL,
  assigned_by_user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'assigned',
  is_active INTEGER NOT NULL DEFAULT 1,
  driver_notes TEXT,
  assigned_at DATETIME,
  accepted_at DATETIME,
  rejected_at DATETIME,
  started_at DATETIME,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	index := `
CREATE UNIQUE INDEX IF NOT EXISTS ux_assignments_request_active
  ON assignments (request_id) WHERE is_active;`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec(index).Error)
	require.NoError(t, db.Exec("DELETE FROM assignments").Error)
	return db
}

func seedAssignment(t *testing.T, db *gorm.DB, requestID, driverID uuid.UUID, status enums.AssignmentStatus, active bool, created time.Time) *models.Assignment {
	t.Helper()

	row := &models.Assignment{
		ID:               uuid.New(),
		RequestID:        requestID,
		DriverID:         driverID,
		AssignedByUserID: uuid.New(),
		Status:           status,
		IsActive:         active,
		AssignedAt:       created,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestRepoCreate_SingleActivePerRequest(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	requestID := uuid.New()

	first := &models.Assignment{
		ID:               uuid.New(),
		RequestID:        requestID,
		DriverID:         uuid.New(),
		AssignedByUserID: uuid.New(),
		Status:           enums.AssignmentStatusAssigned,
		IsActive:         true,
	}
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := &models.Assignment{
		ID:               uuid.New(),
		RequestID:        requestID,
		DriverID:         uuid.New(),
		AssignedByUserID: uuid.New(),
		Status:           enums.AssignmentStatusAssigned,
		IsActive:         true,
	}
	_, err = repo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, pkgdb.IsUniqueViolation(err, "ux_assignments_request_active"))

	// Inactive history rows are not constrained.
	inactive := &models.Assignment{
		ID:               uuid.New(),
		RequestID:        requestID,
		DriverID:         uuid.New(),
		AssignedByUserID: uuid.New(),
		Status:           enums.AssignmentStatusRejected,
		IsActive:         false,
	}
	_, err = repo.Create(ctx, inactive)
	require.NoError(t, err)
}

func TestRepoFindActiveByRequest(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	requestID := uuid.New()

	found, err := repo.FindActiveByRequest(ctx, requestID)
	require.NoError(t, err)
	assert.Nil(t, found)

	now := time.Now().UTC()
	seedAssignment(t, db, requestID, uuid.New(), enums.AssignmentStatusRejected, false, now.Add(-time.Hour))
	active := seedAssignment(t, db, requestID, uuid.New(), enums.AssignmentStatusInProgress, true, now)

	found, err = repo.FindActiveByRequest(ctx, requestID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, active.ID, found.ID)
}

func TestRepoListByRequest_NewestFirst(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	requestID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	oldest := seedAssignment(t, db, requestID, uuid.New(), enums.AssignmentStatusRejected, false, base)
	middle := seedAssignment(t, db, requestID, uuid.New(), enums.AssignmentStatusRejected, false, base.Add(10*time.Minute))
	newest := seedAssignment(t, db, requestID, uuid.New(), enums.AssignmentStatusAssigned, true, base.Add(20*time.Minute))
	seedAssignment(t, db, uuid.New(), uuid.New(), enums.AssignmentStatusAssigned, true, base)

	rows, err := repo.ListByRequest(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)
	assert.Equal(t, oldest.ID, rows[2].ID)
}

func TestRepoListByDriver_FiltersAndPaginates(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	driverID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	seedAssignment(t, db, uuid.New(), driverID, enums.AssignmentStatusCompleted, false, base)
	seedAssignment(t, db, uuid.New(), driverID, enums.AssignmentStatusRejected, false, base.Add(10*time.Minute))
	newest := seedAssignment(t, db, uuid.New(), driverID, enums.AssignmentStatusAssigned, true, base.Add(20*time.Minute))
	seedAssignment(t, db, uuid.New(), uuid.New(), enums.AssignmentStatusAssigned, true, base)

	list, err := repo.ListByDriver(ctx, driverID, pagination.Params{Limit: 2}, DriverAssignmentFilters{})
	require.NoError(t, err)
	require.Len(t, list.Assignments, 2)
	assert.Equal(t, newest.ID, list.Assignments[0].ID)
	assert.NotEmpty(t, list.NextCursor)

	list, err = repo.ListByDriver(ctx, driverID, pagination.Params{Limit: 2, Cursor: list.NextCursor}, DriverAssignmentFilters{})
	require.NoError(t, err)
	require.Len(t, list.Assignments, 1)
	assert.Empty(t, list.NextCursor)

	status := enums.AssignmentStatusRejected
	list, err = repo.ListByDriver(ctx, driverID, pagination.Params{Limit: 10}, DriverAssignmentFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, list.Assignments, 1)
	assert.Equal(t, enums.AssignmentStatusRejected, list.Assignments[0].Status)
}

func TestRepoListStaleAssigned(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	stale := seedAssignment(t, db, uuid.New(), uuid.New(), enums.AssignmentStatusAssigned, true, now.Add(-3*time.Hour))
	seedAssignment(t, db, uuid.New(), uuid.New(), enums.AssignmentStatusAssigned, true, now.Add(-10*time.Minute))
	seedAssignment(t, db, uuid.New(), uuid.New(), enums.AssignmentStatusInProgress, true, now.Add(-3*time.Hour))
	seedAssignment(t, db, uuid.New(), uuid.New(), enums.AssignmentStatusRejected, false, now.Add(-3*time.Hour))

	rows, err := repo.ListStaleAssigned(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stale.ID, rows[0].ID)
}

func TestRepoUpdate_FlipsActiveFlag(t *testing.T) {
	db := setupAssignmentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := seedAssignment(t, db, uuid.New(), uuid.New(), enums.AssignmentStatusAssigned, true, time.Now().UTC())
	notes := "handed off"
	require.NoError(t, repo.Update(ctx, row.ID, map[string]any{
		"is_active":    false,
		"driver_notes": notes,
	}))

	reloaded, err := repo.FindByID(ctx, row.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	require.NotNil(t, reloaded.DriverNotes)
	assert.Equal(t, notes, *reloaded.DriverNotes)
}
