package repository

import (
	"context"
	"errors"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormIssues struct {
	db *gorm.DB
}

func (r *gormIssues) Create(ctx context.Context, issue *models.Issue) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

func (r *gormIssues) GetByID(ctx context.Context, id uint) (*models.Issue, error) {
	var issue models.Issue
	if err := r.db.WithContext(ctx).First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Issue", err)
		}
		return nil, err
	}
	return &issue, nil
}

func (r *gormIssues) Update(ctx context.Context, issue *models.Issue) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(issue).Error
}

func (r *gormIssues) ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]models.Issue, int64, error) {
	var issues []models.Issue
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Issue{}).Where("created_by = ?", creatorID)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&issues).Error
	if err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

func (r *gormIssues) ListActiveByAssignee(ctx context.Context, userID uint) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.WithContext(ctx).
		Where("assigned_to = ? AND status IN ?", userID, models.ActiveIssueStatuses).
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}
