package repository

import (
	"context"
	"errors"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormPayments struct {
	db *gorm.DB
}

func (r *gormPayments) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Issue").
		Preload("Worker").
		Preload("Worker.User")
}

func (r *gormPayments) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPayments) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.preloaded(ctx).First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Payment", err)
		}
		return nil, err
	}
	return &payment, nil
}

func (r *gormPayments) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(payment).Error
}

func (r *gormPayments) FindActiveByIssue(ctx context.Context, issueID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("issue_id = ? AND status IN ?", issueID,
			[]string{models.PaymentStatusPending, models.PaymentStatusCompleted}).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Payment", err)
		}
		return nil, err
	}
	return &payment, nil
}

func (r *gormPayments) ListPending(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.preloaded(ctx).
		Where("status = ?", models.PaymentStatusPending).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *gormPayments) List(ctx context.Context, status string, workerID uint, offset, limit int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	filtered := func(tx *gorm.DB) *gorm.DB {
		if status != "" {
			tx = tx.Where("status = ?", status)
		}
		if workerID != 0 {
			tx = tx.Where("worker_id = ?", workerID)
		}
		return tx
	}

	if err := filtered(r.db.WithContext(ctx).Model(&models.Payment{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := filtered(r.preloaded(ctx)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}
