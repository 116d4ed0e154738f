package assignment

import (
	"context"
	"testing"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
	"github.com/civicfix-dev/civicfix/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWorker(t *testing.T, store *repository.MemoryStore, name string, totalJobs int, rating float64, tags []string, status string) *models.Worker {
	t.Helper()
	ctx := context.Background()

	user := models.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: models.RoleWorker}
	require.NoError(t, store.Users().Create(ctx, &user))

	worker := models.Worker{
		UserID:    user.ID,
		Tags:      tags,
		Status:    status,
		Type:      models.WorkerTypeIndividual,
		Rating:    rating,
		TotalJobs: totalJobs,
	}
	require.NoError(t, store.Workers().Create(ctx, &worker))
	return &worker
}

func seedIssue(t *testing.T, store *repository.MemoryStore, category string) *models.Issue {
	t.Helper()
	ctx := context.Background()

	citizen := models.User{Name: "Citizen", Email: category + "-citizen@example.com", PasswordHash: "x", Role: models.RoleCitizen}
	require.NoError(t, store.Users().Create(ctx, &citizen))

	issue := models.Issue{
		Title:       "Broken street light",
		Description: "The light at the corner has been out for a week",
		Category:    category,
		Location:    "MG Road",
		Status:      models.IssueStatusPending,
		CreatedBy:   citizen.ID,
	}
	require.NoError(t, store.Issues().Create(ctx, &issue))
	return &issue
}

func TestAutoAssignPrefersFewerJobs(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	busy := seedWorker(t, store, "three-jobs", 3, 5.0, []string{"electrical"}, models.WorkerStatusAvailable)
	idle := seedWorker(t, store, "two-jobs", 2, 1.0, []string{"electrical"}, models.WorkerStatusAvailable)
	issue := seedIssue(t, store, "electrical")

	selected, updated, err := NewEngine(store).AutoAssign(ctx, issue.ID)
	require.NoError(t, err)

	assert.Equal(t, idle.ID, selected.ID)
	assert.Equal(t, models.IssueStatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, idle.UserID, *updated.AssignedTo)

	// The selected worker picked up a job and left the pool.
	stored, err := store.Workers().GetByID(ctx, idle.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.TotalJobs)
	assert.Equal(t, models.WorkerStatusBusy, stored.Status)

	untouched, err := store.Workers().GetByID(ctx, busy.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, untouched.TotalJobs)
	assert.Equal(t, models.WorkerStatusAvailable, untouched.Status)
}

func TestAutoAssignTieBreaksOnRating(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	seedWorker(t, store, "lower-rated", 2, 4.0, []string{"plumbing"}, models.WorkerStatusAvailable)
	better := seedWorker(t, store, "higher-rated", 2, 4.5, []string{"plumbing"}, models.WorkerStatusAvailable)
	issue := seedIssue(t, store, "plumbing")

	selected, _, err := NewEngine(store).AutoAssign(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, better.ID, selected.ID)
}

func TestAutoAssignSkipsNonMatchingTags(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	seedWorker(t, store, "gardener", 0, 5.0, []string{"gardening"}, models.WorkerStatusAvailable)
	plumber := seedWorker(t, store, "plumber", 5, 3.0, []string{"plumbing"}, models.WorkerStatusAvailable)
	issue := seedIssue(t, store, "plumbing")

	selected, _, err := NewEngine(store).AutoAssign(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, plumber.ID, selected.ID)
}

func TestAutoAssignNeverSelectsUnavailable(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	seedWorker(t, store, "offline", 0, 5.0, []string{"roads"}, models.WorkerStatusOffline)
	seedWorker(t, store, "busy", 0, 5.0, []string{"roads"}, models.WorkerStatusBusy)
	issue := seedIssue(t, store, "roads")

	_, _, err := NewEngine(store).AutoAssign(ctx, issue.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestAutoAssignSkipsWorkersHoldingActiveIssues(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	// Claims availability but already holds an active issue.
	stale := seedWorker(t, store, "stale", 0, 5.0, []string{"water"}, models.WorkerStatusAvailable)
	fallback := seedWorker(t, store, "fallback", 4, 2.0, []string{"water"}, models.WorkerStatusAvailable)

	held := seedIssue(t, store, "water")
	held.AssignedTo = &stale.UserID
	held.Status = models.IssueStatusInProgress
	require.NoError(t, store.Issues().Update(ctx, held))

	issue := seedIssue(t, store, "water")

	selected, _, err := NewEngine(store).AutoAssign(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, fallback.ID, selected.ID)
}

func TestAutoAssignNoCandidates(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	issue := seedIssue(t, store, "sanitation")

	_, _, err := NewEngine(store).AutoAssign(ctx, issue.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestAutoAssignMissingIssue(t *testing.T) {
	store := repository.NewMemoryStore()

	_, _, err := NewEngine(store).AutoAssign(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestManualAssign(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	worker := seedWorker(t, store, "manual", 7, 4.2, []string{"roads"}, models.WorkerStatusAvailable)
	issue := seedIssue(t, store, "anything")

	updated, err := NewEngine(store).Assign(ctx, worker.ID, issue.ID)
	require.NoError(t, err)

	assert.Equal(t, models.IssueStatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, worker.UserID, *updated.AssignedTo)

	// Manual assignment marks the worker busy but does not touch the job
	// counter; only auto-assignment increments it.
	stored, err := store.Workers().GetByID(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.TotalJobs)
	assert.Equal(t, models.WorkerStatusBusy, stored.Status)
}

func TestManualAssignMissingWorker(t *testing.T) {
	store := repository.NewMemoryStore()
	issue := seedIssue(t, store, "roads")

	_, err := NewEngine(store).Assign(context.Background(), 999, issue.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
