package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
)

// MemoryStore is an in-memory Store used by engine and handler tests. It
// mirrors the gorm store's contracts: NOT_FOUND errors for missing rows,
// candidate ordering in ListAvailable, and populated relationships on reads.
// InTransaction runs fn directly; the fake offers no rollback.
type MemoryStore struct {
	mu sync.Mutex

	users    map[uint]models.User
	issues   map[uint]models.Issue
	workers  map[uint]models.Worker
	payments map[uint]models.Payment
	reviews  map[uint]models.Review

	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uint]models.User),
		issues:   make(map[uint]models.Issue),
		workers:  make(map[uint]models.Worker),
		payments: make(map[uint]models.Payment),
		reviews:  make(map[uint]models.Review),
		nextID:   1,
	}
}

func (s *MemoryStore) Users() UserRepository       { return &memUsers{s} }
func (s *MemoryStore) Workers() WorkerRepository   { return &memWorkers{s} }
func (s *MemoryStore) Issues() IssueRepository     { return &memIssues{s} }
func (s *MemoryStore) Payments() PaymentRepository { return &memPayments{s} }
func (s *MemoryStore) Reviews() ReviewRepository   { return &memReviews{s} }

func (s *MemoryStore) InTransaction(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

type memUsers struct{ s *MemoryStore }

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = r.s.allocID()
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.NotFound("User", nil)
	}
	return &user, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("User", nil)
}

func (r *memUsers) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return apperrors.NotFound("User", nil)
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUsers) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []models.User
	for _, user := range r.s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return paginate(users, offset, limit), int64(len(users)), nil
}

type memIssues struct{ s *MemoryStore }

func (r *memIssues) Create(ctx context.Context, issue *models.Issue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	issue.ID = r.s.allocID()
	issue.CreatedAt = time.Now()
	r.s.issues[issue.ID] = *issue
	return nil
}

func (r *memIssues) GetByID(ctx context.Context, id uint) (*models.Issue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	issue, ok := r.s.issues[id]
	if !ok {
		return nil, apperrors.NotFound("Issue", nil)
	}
	return &issue, nil
}

func (r *memIssues) Update(ctx context.Context, issue *models.Issue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.issues[issue.ID]; !ok {
		return apperrors.NotFound("Issue", nil)
	}
	r.s.issues[issue.ID] = *issue
	return nil
}

func (r *memIssues) ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]models.Issue, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var issues []models.Issue
	for _, issue := range r.s.issues {
		if issue.CreatedBy == creatorID {
			issues = append(issues, issue)
		}
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].ID > issues[j].ID })
	return paginate(issues, offset, limit), int64(len(issues)), nil
}

func (r *memIssues) ListActiveByAssignee(ctx context.Context, userID uint) ([]models.Issue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var issues []models.Issue
	for _, issue := range r.s.issues {
		if issue.AssignedTo == nil || *issue.AssignedTo != userID {
			continue
		}
		for _, status := range models.ActiveIssueStatuses {
			if issue.Status == status {
				issues = append(issues, issue)
				break
			}
		}
	}
	return issues, nil
}

type memWorkers struct{ s *MemoryStore }

func (r *memWorkers) withUser(worker models.Worker) models.Worker {
	if user, ok := r.s.users[worker.UserID]; ok {
		worker.User = user
	}
	return worker
}

func (r *memWorkers) Create(ctx context.Context, worker *models.Worker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	worker.ID = r.s.allocID()
	worker.CreatedAt = time.Now()
	r.s.workers[worker.ID] = *worker
	return nil
}

func (r *memWorkers) GetByID(ctx context.Context, id uint) (*models.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	worker, ok := r.s.workers[id]
	if !ok {
		return nil, apperrors.NotFound("Worker", nil)
	}
	w := r.withUser(worker)
	return &w, nil
}

func (r *memWorkers) GetByUserID(ctx context.Context, userID uint) (*models.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, worker := range r.s.workers {
		if worker.UserID == userID {
			w := r.withUser(worker)
			return &w, nil
		}
	}
	return nil, apperrors.NotFound("Worker", nil)
}

func (r *memWorkers) Update(ctx context.Context, worker *models.Worker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.workers[worker.ID]; !ok {
		return apperrors.NotFound("Worker", nil)
	}
	stored := *worker
	stored.User = models.User{}
	r.s.workers[worker.ID] = stored
	return nil
}

func (r *memWorkers) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.workers, id)
	return nil
}

func (r *memWorkers) List(ctx context.Context, offset, limit int) ([]models.Worker, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	workers := r.collect(func(models.Worker) bool { return true })
	sort.Slice(workers, func(i, j int) bool { return workers[i].ID > workers[j].ID })
	return paginate(workers, offset, limit), int64(len(workers)), nil
}

func (r *memWorkers) ListAvailable(ctx context.Context) ([]models.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	workers := r.collect(func(w models.Worker) bool {
		return w.Status == models.WorkerStatusAvailable
	})
	sort.SliceStable(workers, func(i, j int) bool {
		if workers[i].TotalJobs != workers[j].TotalJobs {
			return workers[i].TotalJobs < workers[j].TotalJobs
		}
		return workers[i].Rating > workers[j].Rating
	})
	return workers, nil
}

func (r *memWorkers) ListByStatus(ctx context.Context, status string) ([]models.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(w models.Worker) bool { return w.Status == status }), nil
}

func (r *memWorkers) ListByTag(ctx context.Context, tag string) ([]models.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(w models.Worker) bool {
		for _, t := range w.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}), nil
}

func (r *memWorkers) ListByLocation(ctx context.Context, location string) ([]models.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	needle := strings.ToLower(location)
	return r.collect(func(w models.Worker) bool {
		return strings.Contains(strings.ToLower(w.Location), needle)
	}), nil
}

func (r *memWorkers) ListByUserRole(ctx context.Context, role string) ([]models.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(func(w models.Worker) bool {
		user, ok := r.s.users[w.UserID]
		return ok && user.Role == role
	}), nil
}

func (r *memWorkers) collect(match func(models.Worker) bool) []models.Worker {
	var workers []models.Worker
	for _, worker := range r.s.workers {
		if match(worker) {
			workers = append(workers, r.withUser(worker))
		}
	}
	return workers
}

type memPayments struct{ s *MemoryStore }

func (r *memPayments) withRelations(payment models.Payment) models.Payment {
	if issue, ok := r.s.issues[payment.IssueID]; ok {
		payment.Issue = issue
	}
	if worker, ok := r.s.workers[payment.WorkerID]; ok {
		if user, uok := r.s.users[worker.UserID]; uok {
			worker.User = user
		}
		payment.Worker = worker
	}
	return payment
}

func (r *memPayments) Create(ctx context.Context, payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment.ID = r.s.allocID()
	payment.CreatedAt = time.Now()
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r *memPayments) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment, ok := r.s.payments[id]
	if !ok {
		return nil, apperrors.NotFound("Payment", nil)
	}
	p := r.withRelations(payment)
	return &p, nil
}

func (r *memPayments) Update(ctx context.Context, payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.payments[payment.ID]; !ok {
		return apperrors.NotFound("Payment", nil)
	}
	stored := *payment
	stored.Issue = models.Issue{}
	stored.Worker = models.Worker{}
	r.s.payments[payment.ID] = stored
	return nil
}

func (r *memPayments) FindActiveByIssue(ctx context.Context, issueID uint) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, payment := range r.s.payments {
		if payment.IssueID != issueID {
			continue
		}
		if payment.Status == models.PaymentStatusPending || payment.Status == models.PaymentStatusCompleted {
			p := r.withRelations(payment)
			return &p, nil
		}
	}
	return nil, apperrors.NotFound("Payment", nil)
}

func (r *memPayments) ListPending(ctx context.Context) ([]models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var payments []models.Payment
	for _, payment := range r.s.payments {
		if payment.Status == models.PaymentStatusPending {
			payments = append(payments, r.withRelations(payment))
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments, nil
}

func (r *memPayments) List(ctx context.Context, status string, workerID uint, offset, limit int) ([]models.Payment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var payments []models.Payment
	for _, payment := range r.s.payments {
		if status != "" && payment.Status != status {
			continue
		}
		if workerID != 0 && payment.WorkerID != workerID {
			continue
		}
		payments = append(payments, r.withRelations(payment))
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID > payments[j].ID })
	return paginate(payments, offset, limit), int64(len(payments)), nil
}

type memReviews struct{ s *MemoryStore }

func (r *memReviews) Create(ctx context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	review.ID = r.s.allocID()
	review.CreatedAt = time.Now()
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *memReviews) Update(ctx context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[review.ID]; !ok {
		return apperrors.NotFound("Review", nil)
	}
	stored := *review
	stored.Issue = models.Issue{}
	stored.Worker = models.Worker{}
	stored.Reviewer = models.User{}
	r.s.reviews[review.ID] = stored
	return nil
}

func (r *memReviews) GetByIssueID(ctx context.Context, issueID uint) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, review := range r.s.reviews {
		if review.IssueID == issueID {
			rv := review
			if user, ok := r.s.users[rv.ReviewerID]; ok {
				rv.Reviewer = user
			}
			return &rv, nil
		}
	}
	return nil, apperrors.NotFound("Review", nil)
}

func (r *memReviews) ListApprovedByWorker(ctx context.Context, workerID uint) ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var reviews []models.Review
	for _, review := range r.s.reviews {
		if review.WorkerID == workerID && review.Status == models.ReviewStatusApproved {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

func (r *memReviews) List(ctx context.Context, workerID uint, status string, offset, limit int) ([]models.Review, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var reviews []models.Review
	for _, review := range r.s.reviews {
		if workerID != 0 && review.WorkerID != workerID {
			continue
		}
		if status != "" && review.Status != status {
			continue
		}
		reviews = append(reviews, review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ReviewedAt.After(reviews[j].ReviewedAt) })
	return paginate(reviews, offset, limit), int64(len(reviews)), nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
