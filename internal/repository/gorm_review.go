package repository

import (
	"context"
	"errors"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormReviews struct {
	db *gorm.DB
}

func (r *gormReviews) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *gormReviews) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error
}

func (r *gormReviews) GetByIssueID(ctx context.Context, issueID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Preload("Worker").
		Preload("Worker.User").
		Where("issue_id = ?", issueID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Review", err)
		}
		return nil, err
	}
	return &review, nil
}

func (r *gormReviews) ListApprovedByWorker(ctx context.Context, workerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND status = ?", workerID, models.ReviewStatusApproved).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *gormReviews) List(ctx context.Context, workerID uint, status string, offset, limit int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	filtered := func(tx *gorm.DB) *gorm.DB {
		if workerID != 0 {
			tx = tx.Where("worker_id = ?", workerID)
		}
		if status != "" {
			tx = tx.Where("status = ?", status)
		}
		return tx
	}

	if err := filtered(r.db.WithContext(ctx).Model(&models.Review{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := filtered(r.db.WithContext(ctx).Preload("Issue").Preload("Reviewer")).
		Order("reviewed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
