package repository

import (
	"context"

	"gorm.io/gorm"
)

// gormStore implements Store on top of a *gorm.DB handle. The same type backs
// both the root connection and transaction handles, so repositories obtained
// inside InTransaction share the transaction automatically.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection in a Store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository       { return &gormUsers{db: s.db} }
func (s *gormStore) Workers() WorkerRepository   { return &gormWorkers{db: s.db} }
func (s *gormStore) Issues() IssueRepository     { return &gormIssues{db: s.db} }
func (s *gormStore) Payments() PaymentRepository { return &gormPayments{db: s.db} }
func (s *gormStore) Reviews() ReviewRepository   { return &gormReviews{db: s.db} }

func (s *gormStore) InTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
