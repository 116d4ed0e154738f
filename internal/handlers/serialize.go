package handlers

import (
	"time"

	"github.com/civicfix-dev/civicfix/internal/models"
)

type IssueSummary struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Photo       string     `json:"photo,omitempty"`
	Status      string     `json:"status"`
	CreatedBy   uint       `json:"created_by"`
	AssignedTo  *uint      `json:"assigned_to"`
	Amount      float64    `json:"amount"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type WorkerSummary struct {
	ID               uint      `json:"id"`
	UserID           uint      `json:"user_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Description      string    `json:"description"`
	Tags             []string  `json:"tags"`
	Location         string    `json:"location"`
	Status           string    `json:"status"`
	Type             string    `json:"type"`
	OrganizationName string    `json:"organization_name,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	UPIID            string    `json:"upi_id,omitempty"`
	Rating           float64   `json:"rating"`
	TotalJobs        int       `json:"total_jobs"`
	TotalEarnings    float64   `json:"total_earnings"`
	CreatedAt        time.Time `json:"created_at"`
}

type PaymentSummary struct {
	ID            uint       `json:"id"`
	IssueID       uint       `json:"issue_id"`
	IssueTitle    string     `json:"issue_title,omitempty"`
	WorkerID      uint       `json:"worker_id"`
	WorkerName    string     `json:"worker_name,omitempty"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	ScreenshotURL string     `json:"screenshot_url,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ProcessedBy   uint       `json:"processed_by"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ReviewSummary struct {
	ID         uint      `json:"id"`
	IssueID    uint      `json:"issue_id"`
	WorkerID   uint      `json:"worker_id"`
	ReviewerID uint      `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Status     string    `json:"status"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

func newIssueSummary(issue models.Issue) IssueSummary {
	return IssueSummary{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Category:    issue.Category,
		Location:    issue.Location,
		Photo:       issue.Photo,
		Status:      issue.Status,
		CreatedBy:   issue.CreatedBy,
		AssignedTo:  issue.AssignedTo,
		Amount:      issue.Amount,
		Notes:       issue.Notes,
		CompletedAt: issue.CompletedAt,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

func newIssueSummaries(issues []models.Issue) []IssueSummary {
	summaries := make([]IssueSummary, 0, len(issues))
	for _, issue := range issues {
		summaries = append(summaries, newIssueSummary(issue))
	}
	return summaries
}

func newWorkerSummary(worker models.Worker) WorkerSummary {
	return WorkerSummary{
		ID:               worker.ID,
		UserID:           worker.UserID,
		Name:             worker.User.Name,
		Email:            worker.User.Email,
		Description:      worker.Description,
		Tags:             worker.Tags,
		Location:         worker.Location,
		Status:           worker.Status,
		Type:             worker.Type,
		OrganizationName: worker.OrganizationName,
		Phone:            worker.Phone,
		UPIID:            worker.UPIID,
		Rating:           worker.Rating,
		TotalJobs:        worker.TotalJobs,
		TotalEarnings:    worker.TotalEarnings,
		CreatedAt:        worker.CreatedAt,
	}
}

func newWorkerSummaries(workers []models.Worker) []WorkerSummary {
	summaries := make([]WorkerSummary, 0, len(workers))
	for _, worker := range workers {
		summaries = append(summaries, newWorkerSummary(worker))
	}
	return summaries
}

func newPaymentSummary(payment models.Payment) PaymentSummary {
	return PaymentSummary{
		ID:            payment.ID,
		IssueID:       payment.IssueID,
		IssueTitle:    payment.Issue.Title,
		WorkerID:      payment.WorkerID,
		WorkerName:    payment.Worker.User.Name,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
		ScreenshotURL: payment.ScreenshotURL,
		Notes:         payment.Notes,
		ProcessedBy:   payment.ProcessedBy,
		ProcessedAt:   payment.ProcessedAt,
		CreatedAt:     payment.CreatedAt,
	}
}

func newReviewSummary(review models.Review) ReviewSummary {
	return ReviewSummary{
		ID:         review.ID,
		IssueID:    review.IssueID,
		WorkerID:   review.WorkerID,
		ReviewerID: review.ReviewerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		Status:     review.Status,
		ReviewedAt: review.ReviewedAt,
	}
}
