// Package repository defines typed data-access interfaces for each entity and
// provides two implementations: a gorm/postgres store for production and an
// in-memory store for tests. Engines depend only on the interfaces.
package repository

import (
	"context"

	"github.com/civicfix-dev/civicfix/internal/models"
)

// Store bundles the per-entity repositories. InTransaction runs fn against a
// store whose writes commit or roll back atomically, so multi-entity steps
// (assignment, completion, settlement) cannot half-apply.
type Store interface {
	Users() UserRepository
	Workers() WorkerRepository
	Issues() IssueRepository
	Payments() PaymentRepository
	Reviews() ReviewRepository

	InTransaction(ctx context.Context, fn func(Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
}

type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id uint) (*models.Issue, error)
	Update(ctx context.Context, issue *models.Issue) error
	ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]models.Issue, int64, error)

	// ListActiveByAssignee returns the issues currently held by the given
	// worker's user ID, i.e. those in an active status (assigned, accepted,
	// in_progress).
	ListActiveByAssignee(ctx context.Context, userID uint) ([]models.Issue, error)
}

// WorkerRepository methods that return workers populate the User relationship.
type WorkerRepository interface {
	Create(ctx context.Context, worker *models.Worker) error
	GetByID(ctx context.Context, id uint) (*models.Worker, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Worker, error)
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]models.Worker, int64, error)

	// ListAvailable returns workers with status "available" ordered by
	// total_jobs ascending, then rating descending. The assignment engine
	// relies on this ordering.
	ListAvailable(ctx context.Context) ([]models.Worker, error)

	ListByStatus(ctx context.Context, status string) ([]models.Worker, error)
	ListByTag(ctx context.Context, tag string) ([]models.Worker, error)
	ListByLocation(ctx context.Context, location string) ([]models.Worker, error)
	ListByUserRole(ctx context.Context, role string) ([]models.Worker, error)
}

// PaymentRepository methods that return payments populate the Issue and
// Worker (with its User) relationships.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error

	// FindActiveByIssue returns the issue's pending or completed payment, or
	// a NOT_FOUND error when the issue has none.
	FindActiveByIssue(ctx context.Context, issueID uint) (*models.Payment, error)

	ListPending(ctx context.Context) ([]models.Payment, error)
	List(ctx context.Context, status string, workerID uint, offset, limit int) ([]models.Payment, int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	GetByIssueID(ctx context.Context, issueID uint) (*models.Review, error)
	ListApprovedByWorker(ctx context.Context, workerID uint) ([]models.Review, error)
	List(ctx context.Context, workerID uint, status string, offset, limit int) ([]models.Review, int64, error)
}
