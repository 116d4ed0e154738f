// Package workflow drives an issue through completion, review and payment
// settlement: worker marks the issue completed, admin reviews and approves,
// a pending payment is raised, and a manual UPI transfer settles it.
package workflow

import (
	"context"
	"math"
	"time"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
	"github.com/civicfix-dev/civicfix/internal/repository"
	"github.com/civicfix-dev/civicfix/internal/upi"
)

type Engine struct {
	store repository.Store
}

func NewEngine(store repository.Store) *Engine {
	return &Engine{store: store}
}

type CompletionInput struct {
	Notes  string
	Amount float64
}

// MarkCompleted is the worker-initiated transition in_progress -> completed.
// Only the assigned worker may call it; the worker returns to the available
// pool once the issue is completed.
func (e *Engine) MarkCompleted(ctx context.Context, callerUserID, issueID uint, in CompletionInput) (*models.Issue, error) {
	var issue *models.Issue

	err := e.store.InTransaction(ctx, func(tx repository.Store) error {
		var err error
		issue, err = tx.Issues().GetByID(ctx, issueID)
		if err != nil {
			return err
		}

		if issue.AssignedTo == nil || *issue.AssignedTo != callerUserID {
			return apperrors.Forbidden("Only assigned worker can mark as completed")
		}

		worker, err := tx.Workers().GetByUserID(ctx, *issue.AssignedTo)
		if err != nil {
			return err
		}

		if issue.Status != models.IssueStatusInProgress {
			return apperrors.Validation("Issue must be in progress to mark as completed")
		}

		amount := in.Amount
		if amount == 0 {
			amount = issue.Amount
		}

		now := time.Now()
		issue.Status = models.IssueStatusCompleted
		issue.CompletedAt = &now
		issue.Amount = amount
		if in.Notes != "" {
			issue.Notes = in.Notes
		}
		if err := tx.Issues().Update(ctx, issue); err != nil {
			return err
		}

		worker.Status = models.WorkerStatusAvailable
		return tx.Workers().Update(ctx, worker)
	})
	if err != nil {
		return nil, err
	}

	return issue, nil
}

type ApprovalInput struct {
	Rating  int // 0 means no review
	Comment string
	Amount  float64
}

type ApprovalResult struct {
	Issue     *models.Issue
	Payment   *models.Payment
	UPILinks  map[string]string
	NextSteps []string
}

// ApproveAndPay is the admin-side approval of a completed issue: it upserts
// the issue's review when a rating is given, recomputes the worker's rating,
// raises a pending payment and hands back UPI deep links for settling it.
func (e *Engine) ApproveAndPay(ctx context.Context, adminID, issueID uint, in ApprovalInput) (*ApprovalResult, error) {
	result := &ApprovalResult{}

	err := e.store.InTransaction(ctx, func(tx repository.Store) error {
		issue, err := tx.Issues().GetByID(ctx, issueID)
		if err != nil {
			return err
		}

		if issue.Status != models.IssueStatusCompleted {
			return apperrors.Validation("Issue must be completed first")
		}

		worker, err := e.assignedWorker(ctx, tx, issue)
		if err != nil {
			return err
		}

		amount := in.Amount
		if amount == 0 {
			amount = issue.Amount
		}
		if amount <= 0 {
			return apperrors.Validation("Valid payment amount is required")
		}

		if in.Rating != 0 {
			if in.Rating < 1 || in.Rating > 5 {
				return apperrors.Validation("Rating must be between 1 and 5")
			}
			if _, err := e.upsertReview(ctx, tx, issue, worker, adminID, in.Rating, in.Comment); err != nil {
				return err
			}
			if err := e.recomputeRating(ctx, tx, worker); err != nil {
				return err
			}
		}

		if _, err := tx.Payments().FindActiveByIssue(ctx, issue.ID); err == nil {
			return apperrors.Conflict("Payment already exists for this issue")
		} else if !apperrors.Is(err, apperrors.CodeNotFound) {
			return err
		}

		payment := &models.Payment{
			IssueID:     issue.ID,
			WorkerID:    worker.ID,
			Amount:      amount,
			Currency:    "INR",
			Status:      models.PaymentStatusPending,
			ProcessedBy: adminID,
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}

		if worker.UPIID != "" {
			result.UPILinks = upi.AllProviderLinks(upi.PaymentParams{
				UPIID:           worker.UPIID,
				Name:            worker.User.Name,
				Amount:          amount,
				TransactionNote: "Payment for issue: " + issue.Title,
			})
		}

		result.Issue = issue
		result.Payment = payment
		result.NextSteps = []string{
			"Click any UPI link to open your UPI app",
			"Complete the payment",
			"Update payment status using POST /payments/:paymentId/complete",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CreateReview upserts the issue's review (one per issue) and recomputes the
// worker's average rating over approved reviews.
func (e *Engine) CreateReview(ctx context.Context, adminID, issueID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("Rating must be between 1 and 5")
	}

	var review *models.Review

	err := e.store.InTransaction(ctx, func(tx repository.Store) error {
		issue, err := tx.Issues().GetByID(ctx, issueID)
		if err != nil {
			return err
		}

		if issue.Status != models.IssueStatusCompleted {
			return apperrors.Validation("Issue must be completed before review")
		}

		worker, err := e.assignedWorker(ctx, tx, issue)
		if err != nil {
			return err
		}

		review, err = e.upsertReview(ctx, tx, issue, worker, adminID, rating, comment)
		if err != nil {
			return err
		}

		return e.recomputeRating(ctx, tx, worker)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

type PaymentResult struct {
	Payment   *models.Payment
	UPILink   string
	NextSteps []string
}

// CreatePayment raises a pending payment for a completed, reviewed issue.
// It refuses when the worker has no UPI id, when no approved review exists,
// or when the issue already has a pending or completed payment.
func (e *Engine) CreatePayment(ctx context.Context, adminID, issueID uint, amount float64) (*PaymentResult, error) {
	if issueID == 0 || amount <= 0 {
		return nil, apperrors.Validation("Valid issueId and amount are required")
	}

	result := &PaymentResult{}

	err := e.store.InTransaction(ctx, func(tx repository.Store) error {
		issue, err := tx.Issues().GetByID(ctx, issueID)
		if err != nil {
			return err
		}

		if issue.Status != models.IssueStatusCompleted {
			return apperrors.Validation("Issue must be completed before payment")
		}

		worker, err := e.assignedWorker(ctx, tx, issue)
		if err != nil {
			return err
		}

		if worker.UPIID == "" {
			return apperrors.Validation("Worker UPI ID not set. Please update worker profile with UPI ID.")
		}

		review, err := tx.Reviews().GetByIssueID(ctx, issue.ID)
		if err != nil {
			if apperrors.Is(err, apperrors.CodeNotFound) {
				return apperrors.Validation("Issue must be reviewed and approved before payment")
			}
			return err
		}
		if review.Status != models.ReviewStatusApproved {
			return apperrors.Validation("Issue must be reviewed and approved before payment")
		}

		if _, err := tx.Payments().FindActiveByIssue(ctx, issue.ID); err == nil {
			return apperrors.Conflict("Payment already exists for this issue")
		} else if !apperrors.Is(err, apperrors.CodeNotFound) {
			return err
		}

		payment := &models.Payment{
			IssueID:     issue.ID,
			WorkerID:    worker.ID,
			Amount:      amount,
			Currency:    "INR",
			Status:      models.PaymentStatusPending,
			ProcessedBy: adminID,
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}

		result.Payment = payment
		result.UPILink = upi.GenerateLink(upi.PaymentParams{
			UPIID:           worker.UPIID,
			Name:            worker.User.Name,
			Amount:          amount,
			TransactionNote: "Payment for issue: " + issue.Title,
		})
		result.NextSteps = []string{
			"Click the UPI link to open your UPI app",
			"Complete the payment",
			"Update payment status using /payments/:paymentId/complete",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

type SettlementInput struct {
	TransactionID string
	ScreenshotURL string
	Notes         string
}

// MarkPaymentComplete records the manual UPI transfer: the payment moves to
// completed with its transaction metadata and the worker's lifetime earnings
// grow by the payment amount.
func (e *Engine) MarkPaymentComplete(ctx context.Context, adminID, paymentID uint, in SettlementInput) (*models.Payment, error) {
	var payment *models.Payment

	err := e.store.InTransaction(ctx, func(tx repository.Store) error {
		var err error
		payment, err = tx.Payments().GetByID(ctx, paymentID)
		if err != nil {
			return err
		}

		if payment.Status == models.PaymentStatusCompleted {
			return apperrors.Validation("Payment already completed")
		}

		now := time.Now()
		payment.Status = models.PaymentStatusCompleted
		payment.TransactionID = in.TransactionID
		payment.ScreenshotURL = in.ScreenshotURL
		payment.Notes = in.Notes
		payment.ProcessedBy = adminID
		payment.ProcessedAt = &now
		if err := tx.Payments().Update(ctx, payment); err != nil {
			return err
		}

		worker, err := tx.Workers().GetByID(ctx, payment.WorkerID)
		if err != nil {
			return err
		}
		worker.TotalEarnings += payment.Amount
		return tx.Workers().Update(ctx, worker)
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

type LinksResult struct {
	Payment  *models.Payment
	Links    map[string]string
	Provider string
}

// PaymentLinks returns all provider deep links for a pending payment.
func (e *Engine) PaymentLinks(ctx context.Context, paymentID uint) (*LinksResult, error) {
	payment, err := e.store.Payments().GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentStatusCompleted {
		return nil, apperrors.Validation("Payment already completed")
	}

	if payment.Worker.UPIID == "" {
		return nil, apperrors.Validation("Worker UPI ID not set")
	}
	if !upi.ValidateID(payment.Worker.UPIID) {
		return nil, apperrors.Validation("Invalid UPI ID format")
	}

	params := upi.PaymentParams{
		UPIID:           payment.Worker.UPIID,
		Name:            payment.Worker.User.Name,
		Amount:          payment.Amount,
		TransactionNote: "Payment for issue: " + payment.Issue.Title,
	}

	return &LinksResult{
		Payment:  payment,
		Links:    upi.AllProviderLinks(params),
		Provider: upi.ProviderFromID(payment.Worker.UPIID),
	}, nil
}

type PendingPayment struct {
	Payment  models.Payment
	UPILinks map[string]string
}

type PendingSummary struct {
	TotalPending float64
	Count        int
	Payments     []PendingPayment
}

// PendingPayments lists unsettled payments oldest-first with per-payment UPI
// links and the outstanding total.
func (e *Engine) PendingPayments(ctx context.Context) (*PendingSummary, error) {
	pending, err := e.store.Payments().ListPending(ctx)
	if err != nil {
		return nil, err
	}

	summary := &PendingSummary{Count: len(pending)}
	for _, payment := range pending {
		summary.TotalPending += payment.Amount

		item := PendingPayment{Payment: payment}
		if payment.Worker.UPIID != "" {
			item.UPILinks = upi.AllProviderLinks(upi.PaymentParams{
				UPIID:           payment.Worker.UPIID,
				Name:            payment.Worker.User.Name,
				Amount:          payment.Amount,
				TransactionNote: "Payment for issue: " + payment.Issue.Title,
			})
		}
		summary.Payments = append(summary.Payments, item)
	}

	return summary, nil
}

// assignedWorker resolves the issue's assigned worker profile or fails with a
// validation error when the issue has none.
func (e *Engine) assignedWorker(ctx context.Context, tx repository.Store, issue *models.Issue) (*models.Worker, error) {
	if issue.AssignedTo == nil {
		return nil, apperrors.Validation("Issue has no assigned worker")
	}
	worker, err := tx.Workers().GetByUserID(ctx, *issue.AssignedTo)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, apperrors.Validation("Issue has no assigned worker")
		}
		return nil, err
	}
	return worker, nil
}

func (e *Engine) upsertReview(ctx context.Context, tx repository.Store, issue *models.Issue, worker *models.Worker, adminID uint, rating int, comment string) (*models.Review, error) {
	now := time.Now()

	existing, err := tx.Reviews().GetByIssueID(ctx, issue.ID)
	if err == nil {
		existing.Rating = rating
		existing.Comment = comment
		existing.Status = models.ReviewStatusApproved
		existing.ReviewedAt = now
		if err := tx.Reviews().Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, err
	}

	review := &models.Review{
		IssueID:    issue.ID,
		WorkerID:   worker.ID,
		ReviewerID: adminID,
		Rating:     rating,
		Comment:    comment,
		Status:     models.ReviewStatusApproved,
		ReviewedAt: now,
	}
	if err := tx.Reviews().Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// recomputeRating sets the worker's rating to the mean of all approved
// reviews, rounded to one decimal, and persists it.
func (e *Engine) recomputeRating(ctx context.Context, tx repository.Store, worker *models.Worker) error {
	reviews, err := tx.Reviews().ListApprovedByWorker(ctx, worker.ID)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}

	var sum float64
	for _, review := range reviews {
		sum += float64(review.Rating)
	}
	avg := sum / float64(len(reviews))

	worker.Rating = math.Round(avg*10) / 10
	return tx.Workers().Update(ctx, worker)
}
