package repository

import (
	"context"
	"errors"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormWorkers struct {
	db *gorm.DB
}

func (r *gormWorkers) Create(ctx context.Context, worker *models.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *gormWorkers) GetByID(ctx context.Context, id uint) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.WithContext(ctx).Preload("User").First(&worker, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Worker", err)
		}
		return nil, err
	}
	return &worker, nil
}

func (r *gormWorkers) GetByUserID(ctx context.Context, userID uint) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Worker", err)
		}
		return nil, err
	}
	return &worker, nil
}

func (r *gormWorkers) Update(ctx context.Context, worker *models.Worker) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(worker).Error
}

func (r *gormWorkers) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Worker{}, id).Error
}

func (r *gormWorkers) List(ctx context.Context, offset, limit int) ([]models.Worker, int64, error) {
	var workers []models.Worker
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Worker{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&workers).Error
	if err != nil {
		return nil, 0, err
	}

	return workers, total, nil
}

func (r *gormWorkers) ListAvailable(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", models.WorkerStatusAvailable).
		Order("total_jobs ASC").
		Order("rating DESC").
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *gormWorkers) ListByStatus(ctx context.Context, status string) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *gormWorkers) ListByTag(ctx context.Context, tag string) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("? = ANY(tags)", tag).
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *gormWorkers) ListByLocation(ctx context.Context, location string) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("location ILIKE ?", "%"+location+"%").
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *gormWorkers) ListByUserRole(ctx context.Context, role string) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = workers.user_id").
		Where("users.role = ?", role).
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}
