package workflow

import (
	"context"
	"testing"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
	"github.com/civicfix-dev/civicfix/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *repository.MemoryStore
	engine *Engine
	admin  *models.User
	worker *models.Worker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()

	admin := models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, &admin))

	workerUser := models.User{Name: "Ravi Kumar", Email: "ravi@example.com", PasswordHash: "x", Role: models.RoleWorker}
	require.NoError(t, store.Users().Create(ctx, &workerUser))

	worker := models.Worker{
		UserID: workerUser.ID,
		Tags:   []string{"plumbing"},
		Status: models.WorkerStatusBusy,
		Type:   models.WorkerTypeIndividual,
		UPIID:  "ravi@ybl",
	}
	require.NoError(t, store.Workers().Create(ctx, &worker))

	return &fixture{
		store:  store,
		engine: NewEngine(store),
		admin:  &admin,
		worker: &worker,
	}
}

func (f *fixture) seedIssue(t *testing.T, status string, amount float64) *models.Issue {
	t.Helper()
	ctx := context.Background()

	citizen := models.User{Name: "Citizen", Email: "", PasswordHash: "x", Role: models.RoleCitizen}
	require.NoError(t, f.store.Users().Create(ctx, &citizen))

	issue := models.Issue{
		Title:       "Leaking pipe",
		Description: "Water leaking onto the street near the market",
		Category:    "plumbing",
		Location:    "Market Street",
		Status:      status,
		CreatedBy:   citizen.ID,
		AssignedTo:  &f.worker.UserID,
		Amount:      amount,
	}
	require.NoError(t, f.store.Issues().Create(ctx, &issue))
	return &issue
}

func TestMarkCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, models.IssueStatusInProgress, 500)

	updated, err := f.engine.MarkCompleted(ctx, f.worker.UserID, issue.ID, CompletionInput{Notes: "Replaced the joint"})
	require.NoError(t, err)

	assert.Equal(t, models.IssueStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, 500.0, updated.Amount)
	assert.Equal(t, "Replaced the joint", updated.Notes)

	worker, err := f.store.Workers().GetByID(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkerStatusAvailable, worker.Status)
}

func TestMarkCompletedRejectsWrongState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, status := range []string{
		models.IssueStatusPending,
		models.IssueStatusAssigned,
		models.IssueStatusAccepted,
		models.IssueStatusCompleted,
		models.IssueStatusRejected,
	} {
		t.Run(status, func(t *testing.T) {
			issue := f.seedIssue(t, status, 100)

			_, err := f.engine.MarkCompleted(ctx, f.worker.UserID, issue.ID, CompletionInput{})
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
			assert.Equal(t, 400, apperrors.StatusOf(err))

			// The issue must come through unchanged.
			stored, err := f.store.Issues().GetByID(ctx, issue.ID)
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)
			assert.Nil(t, stored.CompletedAt)
		})
	}
}

func TestMarkCompletedOnlyAssignedWorker(t *testing.T) {
	f := newFixture(t)
	issue := f.seedIssue(t, models.IssueStatusInProgress, 100)

	_, err := f.engine.MarkCompleted(context.Background(), f.admin.ID, issue.ID, CompletionInput{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestApproveAndPay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, models.IssueStatusCompleted, 750)

	result, err := f.engine.ApproveAndPay(ctx, f.admin.ID, issue.ID, ApprovalInput{Rating: 5, Comment: "Great work"})
	require.NoError(t, err)

	require.NotNil(t, result.Payment)
	assert.Equal(t, models.PaymentStatusPending, result.Payment.Status)
	assert.Equal(t, 750.0, result.Payment.Amount)
	assert.Equal(t, "INR", result.Payment.Currency)
	assert.Equal(t, f.worker.ID, result.Payment.WorkerID)

	assert.Len(t, result.UPILinks, 5)
	assert.Contains(t, result.UPILinks["generic"], "pa=ravi%40ybl")

	review, err := f.store.Reviews().GetByIssueID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, models.ReviewStatusApproved, review.Status)

	worker, err := f.store.Workers().GetByID(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, worker.Rating)
}

func TestApproveAndPayRequiresCompletedIssue(t *testing.T) {
	f := newFixture(t)
	issue := f.seedIssue(t, models.IssueStatusInProgress, 100)

	_, err := f.engine.ApproveAndPay(context.Background(), f.admin.ID, issue.ID, ApprovalInput{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestApproveAndPayRejectsDuplicatePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, models.IssueStatusCompleted, 300)

	_, err := f.engine.ApproveAndPay(ctx, f.admin.ID, issue.ID, ApprovalInput{Rating: 4})
	require.NoError(t, err)

	_, err = f.engine.ApproveAndPay(ctx, f.admin.ID, issue.ID, ApprovalInput{Rating: 4})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestRatingRecomputesAcrossReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.seedIssue(t, models.IssueStatusCompleted, 100)
	second := f.seedIssue(t, models.IssueStatusCompleted, 200)

	_, err := f.engine.CreateReview(ctx, f.admin.ID, first.ID, 4, "")
	require.NoError(t, err)
	_, err = f.engine.CreateReview(ctx, f.admin.ID, second.ID, 5, "")
	require.NoError(t, err)

	worker, err := f.store.Workers().GetByID(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, worker.Rating)
}

func TestCreateReviewUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, models.IssueStatusCompleted, 100)

	first, err := f.engine.CreateReview(ctx, f.admin.ID, issue.ID, 3, "ok")
	require.NoError(t, err)

	second, err := f.engine.CreateReview(ctx, f.admin.ID, issue.ID, 5, "actually great")
	require.NoError(t, err)

	// One review per issue: the second call replaces the first.
	assert.Equal(t, first.ID, second.ID)

	worker, err := f.store.Workers().GetByID(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, worker.Rating)
}

func TestCreateReviewValidatesRating(t *testing.T) {
	f := newFixture(t)
	issue := f.seedIssue(t, models.IssueStatusCompleted, 100)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.engine.CreateReview(context.Background(), f.admin.ID, issue.ID, rating, "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	}
}

func TestCreatePaymentRequiresUPIID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.worker.UPIID = ""
	require.NoError(t, f.store.Workers().Update(ctx, f.worker))

	issue := f.seedIssue(t, models.IssueStatusCompleted, 100)

	_, err := f.engine.CreatePayment(ctx, f.admin.ID, issue.ID, 100)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestCreatePaymentRequiresApprovedReview(t *testing.T) {
	f := newFixture(t)
	issue := f.seedIssue(t, models.IssueStatusCompleted, 100)

	_, err := f.engine.CreatePayment(context.Background(), f.admin.ID, issue.ID, 100)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestCreatePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, models.IssueStatusCompleted, 100)

	_, err := f.engine.CreateReview(ctx, f.admin.ID, issue.ID, 5, "")
	require.NoError(t, err)

	result, err := f.engine.CreatePayment(ctx, f.admin.ID, issue.ID, 450)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPending, result.Payment.Status)
	assert.Equal(t, 450.0, result.Payment.Amount)
	assert.Contains(t, result.UPILink, "upi://pay?pa=ravi%40ybl")

	// A second payment for the same issue must be refused.
	_, err = f.engine.CreatePayment(ctx, f.admin.ID, issue.ID, 450)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestMarkPaymentComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, models.IssueStatusCompleted, 100)

	payment := models.Payment{
		IssueID:  issue.ID,
		WorkerID: f.worker.ID,
		Amount:   600,
		Currency: "INR",
		Status:   models.PaymentStatusPending,
	}
	require.NoError(t, f.store.Payments().Create(ctx, &payment))

	updated, err := f.engine.MarkPaymentComplete(ctx, f.admin.ID, payment.ID, SettlementInput{
		TransactionID: "TXN123",
		Notes:         "Paid via PhonePe",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, updated.Status)
	assert.Equal(t, "TXN123", updated.TransactionID)
	assert.Equal(t, f.admin.ID, updated.ProcessedBy)
	assert.NotNil(t, updated.ProcessedAt)

	worker, err := f.store.Workers().GetByID(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, worker.TotalEarnings)

	// Settling twice is rejected and earnings stay put.
	_, err = f.engine.MarkPaymentComplete(ctx, f.admin.ID, payment.ID, SettlementInput{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	worker, err = f.store.Workers().GetByID(ctx, f.worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, worker.TotalEarnings)
}

func TestPaymentLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issue := f.seedIssue(t, models.IssueStatusCompleted, 100)

	payment := models.Payment{
		IssueID:  issue.ID,
		WorkerID: f.worker.ID,
		Amount:   250,
		Currency: "INR",
		Status:   models.PaymentStatusPending,
	}
	require.NoError(t, f.store.Payments().Create(ctx, &payment))

	result, err := f.engine.PaymentLinks(ctx, payment.ID)
	require.NoError(t, err)

	assert.Len(t, result.Links, 5)
	assert.Equal(t, "PhonePe", result.Provider)
}

func TestPendingPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, amount := range []float64{100, 250} {
		issue := f.seedIssue(t, models.IssueStatusCompleted, amount)
		payment := models.Payment{
			IssueID:  issue.ID,
			WorkerID: f.worker.ID,
			Amount:   amount,
			Currency: "INR",
			Status:   models.PaymentStatusPending,
		}
		require.NoError(t, f.store.Payments().Create(ctx, &payment))
	}

	summary, err := f.engine.PendingPayments(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 350.0, summary.TotalPending)
	for _, item := range summary.Payments {
		assert.NotEmpty(t, item.UPILinks)
	}
}
