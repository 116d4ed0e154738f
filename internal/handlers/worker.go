package handlers

import (
	"net/http"
	"sort"

	"github.com/civicfix-dev/civicfix/internal/models"
	"github.com/civicfix-dev/civicfix/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type UpdateWorkerRequest struct {
	Description      *string  `json:"description"`
	Tags             []string `json:"tags"`
	Location         *string  `json:"location"`
	Status           *string  `json:"status" binding:"omitempty,oneof=available busy offline on_leave"`
	Type             *string  `json:"type" binding:"omitempty,oneof=individual organization"`
	OrganizationName *string  `json:"organization_name"`
	Phone            *string  `json:"phone"`
	UPIID            *string  `json:"upi_id"`
	BankAccount      *string  `json:"bank_account"`
	PANCard          *string  `json:"pan_card"`
}

type AssignWorkerRequest struct {
	IssueID uint `json:"issueId" binding:"required"`
}

func ListWorkers(ctx *gin.Context) {
	page, limit, offset := utils.Pagination(ctx)

	workers, total, err := store.Workers().List(ctx, offset, limit)
	if err != nil {
		respondError(ctx, "ListWorkers", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"workers": newWorkerSummaries(workers),
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func AvailableWorkers(ctx *gin.Context) {
	workers, err := store.Workers().ListAvailable(ctx)
	if err != nil {
		respondError(ctx, "AvailableWorkers", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"workers": newWorkerSummaries(workers)})
}

func WorkersByStatus(ctx *gin.Context) {
	status := ctx.Param("status")

	workers, err := store.Workers().ListByStatus(ctx, status)
	if err != nil {
		respondError(ctx, "WorkersByStatus", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"workers": newWorkerSummaries(workers)})
}

func WorkersByTag(ctx *gin.Context) {
	tag := ctx.Param("tag")

	workers, err := store.Workers().ListByTag(ctx, tag)
	if err != nil {
		respondError(ctx, "WorkersByTag", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"workers": newWorkerSummaries(workers)})
}

func WorkersByLocation(ctx *gin.Context) {
	location := ctx.Param("location")

	workers, err := store.Workers().ListByLocation(ctx, location)
	if err != nil {
		respondError(ctx, "WorkersByLocation", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"workers": newWorkerSummaries(workers)})
}

func WorkersByRole(ctx *gin.Context) {
	role := ctx.Param("role")

	workers, err := store.Workers().ListByUserRole(ctx, role)
	if err != nil {
		respondError(ctx, "WorkersByRole", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"workers": newWorkerSummaries(workers)})
}

// WorkersForIssue suggests workers for an issue: anyone tagged with the
// issue's category plus anyone currently available, best rated first.
func WorkersForIssue(ctx *gin.Context) {
	issueID, err := utils.ParseIDParam(ctx, "issueId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	issue, err := store.Issues().GetByID(ctx, issueID)
	if err != nil {
		respondError(ctx, "WorkersForIssue", err)
		return
	}

	available, err := store.Workers().ListByStatus(ctx, models.WorkerStatusAvailable)
	if err != nil {
		respondError(ctx, "WorkersForIssue", err)
		return
	}

	seen := make(map[uint]bool, len(available))
	candidates := make([]models.Worker, 0, len(available))
	for _, worker := range available {
		seen[worker.ID] = true
		candidates = append(candidates, worker)
	}

	if issue.Category != "" {
		tagged, err := store.Workers().ListByTag(ctx, issue.Category)
		if err != nil {
			respondError(ctx, "WorkersForIssue", err)
			return
		}
		for _, worker := range tagged {
			if !seen[worker.ID] {
				candidates = append(candidates, worker)
			}
		}
	}

	sortWorkersByRating(candidates)

	ctx.JSON(http.StatusOK, gin.H{
		"issue":   newIssueSummary(*issue),
		"workers": newWorkerSummaries(candidates),
	})
}

func GetWorker(ctx *gin.Context) {
	workerID, err := utils.ParseIDParam(ctx, "workerId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return
	}

	worker, err := store.Workers().GetByID(ctx, workerID)
	if err != nil {
		respondError(ctx, "GetWorker", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"worker": newWorkerSummary(*worker)})
}

// UpdateWorker lets the profile's owner or an admin change it.
func UpdateWorker(ctx *gin.Context) {
	current, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workerID, err := utils.ParseIDParam(ctx, "workerId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return
	}

	var req UpdateWorkerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker data"})
		return
	}

	worker, err := store.Workers().GetByID(ctx, workerID)
	if err != nil {
		respondError(ctx, "UpdateWorker", err)
		return
	}

	if current.Role != models.RoleAdmin && worker.UserID != current.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to update this worker"})
		return
	}

	if req.Description != nil {
		worker.Description = *req.Description
	}
	if req.Tags != nil {
		worker.Tags = pq.StringArray(req.Tags)
	}
	if req.Location != nil {
		worker.Location = *req.Location
	}
	if req.Status != nil {
		worker.Status = *req.Status
	}
	if req.Type != nil {
		worker.Type = *req.Type
	}
	if req.OrganizationName != nil {
		worker.OrganizationName = *req.OrganizationName
	}
	if req.Phone != nil {
		worker.Phone = *req.Phone
	}
	if req.UPIID != nil {
		worker.UPIID = *req.UPIID
	}
	if req.BankAccount != nil {
		worker.BankAccount = *req.BankAccount
	}
	if req.PANCard != nil {
		worker.PANCard = *req.PANCard
	}

	if err := store.Workers().Update(ctx, worker); err != nil {
		respondError(ctx, "UpdateWorker", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Worker updated successfully",
		"worker":  newWorkerSummary(*worker),
	})
}

// DeleteWorker removes a worker profile unless it still holds active issues.
func DeleteWorker(ctx *gin.Context) {
	workerID, err := utils.ParseIDParam(ctx, "workerId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return
	}

	worker, err := store.Workers().GetByID(ctx, workerID)
	if err != nil {
		respondError(ctx, "DeleteWorker", err)
		return
	}

	active, err := store.Issues().ListActiveByAssignee(ctx, worker.UserID)
	if err != nil {
		respondError(ctx, "DeleteWorker", err)
		return
	}
	if len(active) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":        "Worker has active issue assignments",
			"activeIssues": len(active),
		})
		return
	}

	if err := store.Workers().Delete(ctx, worker.ID); err != nil {
		respondError(ctx, "DeleteWorker", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Worker deleted successfully"})
}

func AssignWorker(ctx *gin.Context) {
	workerID, err := utils.ParseIDParam(ctx, "workerId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
		return
	}

	var req AssignWorkerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Valid issueId is required"})
		return
	}

	issue, err := assignEngine.Assign(ctx, workerID, req.IssueID)
	if err != nil {
		respondError(ctx, "AssignWorker", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Worker assigned successfully",
		"issue":   newIssueSummary(*issue),
	})
}

func AutoAssignWorker(ctx *gin.Context) {
	var req AssignWorkerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Valid issueId is required"})
		return
	}

	worker, issue, err := assignEngine.AutoAssign(ctx, req.IssueID)
	if err != nil {
		respondError(ctx, "AutoAssignWorker", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Worker auto-assigned successfully",
		"worker": gin.H{
			"id":     worker.ID,
			"name":   worker.User.Name,
			"userId": worker.UserID,
		},
		"issue": newIssueSummary(*issue),
	})
}

func sortWorkersByRating(workers []models.Worker) {
	sort.SliceStable(workers, func(i, j int) bool {
		return workers[i].Rating > workers[j].Rating
	})
}
