// Package assignment selects workers for issues, either by explicit admin
// choice or automatically by load-based round-robin.
package assignment

import (
	"context"
	"net/http"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/models"
	"github.com/civicfix-dev/civicfix/internal/repository"
)

type Engine struct {
	store repository.Store
}

func NewEngine(store repository.Store) *Engine {
	return &Engine{store: store}
}

// Assign manually assigns the given worker to the issue. The issue moves to
// "assigned" and an available worker becomes busy. Unlike AutoAssign this
// does not touch the worker's job counter.
func (e *Engine) Assign(ctx context.Context, workerID, issueID uint) (*models.Issue, error) {
	var issue *models.Issue

	err := e.store.InTransaction(ctx, func(tx repository.Store) error {
		worker, err := tx.Workers().GetByID(ctx, workerID)
		if err != nil {
			return err
		}

		issue, err = tx.Issues().GetByID(ctx, issueID)
		if err != nil {
			return err
		}

		issue.AssignedTo = &worker.UserID
		issue.Status = models.IssueStatusAssigned
		if err := tx.Issues().Update(ctx, issue); err != nil {
			return err
		}

		if worker.Status == models.WorkerStatusAvailable {
			worker.Status = models.WorkerStatusBusy
			if err := tx.Workers().Update(ctx, worker); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return issue, nil
}

// AutoAssign picks a worker for the issue and assigns it. Candidates are
// available workers whose tags match the issue's category (when it has one),
// ordered by fewest total jobs first and rating second, so load spreads
// evenly across the pool. Workers already holding an active issue are
// skipped even if their status claims availability.
func (e *Engine) AutoAssign(ctx context.Context, issueID uint) (*models.Worker, *models.Issue, error) {
	var (
		issue    *models.Issue
		selected *models.Worker
	)

	err := e.store.InTransaction(ctx, func(tx repository.Store) error {
		var err error
		issue, err = tx.Issues().GetByID(ctx, issueID)
		if err != nil {
			return err
		}

		var searchTags []string
		if issue.Category != "" {
			searchTags = append(searchTags, issue.Category)
		}

		candidates, err := tx.Workers().ListAvailable(ctx)
		if err != nil {
			return err
		}

		for i := range candidates {
			worker := &candidates[i]

			if len(searchTags) > 0 && !tagsMatch(worker.Tags, searchTags) {
				continue
			}

			active, err := tx.Issues().ListActiveByAssignee(ctx, worker.UserID)
			if err != nil {
				return err
			}
			if len(active) > 0 {
				continue
			}

			selected = worker
			break
		}

		if selected == nil {
			return apperrors.New(apperrors.CodeNotFound, "No available workers found", http.StatusNotFound, nil)
		}

		issue.AssignedTo = &selected.UserID
		issue.Status = models.IssueStatusAssigned
		if err := tx.Issues().Update(ctx, issue); err != nil {
			return err
		}

		selected.Status = models.WorkerStatusBusy
		selected.TotalJobs++
		return tx.Workers().Update(ctx, selected)
	})
	if err != nil {
		return nil, nil, err
	}

	return selected, issue, nil
}

func tagsMatch(tags []string, searchTags []string) bool {
	for _, tag := range tags {
		for _, search := range searchTags {
			if tag == search {
				return true
			}
		}
	}
	return false
}
