package handlers

import (
	"net/http"

	"github.com/civicfix-dev/civicfix/internal/middleware"
	"github.com/civicfix-dev/civicfix/internal/models"
	"github.com/civicfix-dev/civicfix/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateIssueRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=200"`
	Description string  `json:"description" binding:"required,min=10"`
	Category    string  `json:"category" binding:"required"`
	Location    string  `json:"location" binding:"required"`
	Photo       string  `json:"photo"`
	Amount      float64 `json:"amount" binding:"omitempty,gte=0"`
}

type UpdateIssueRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string  `json:"description" binding:"omitempty,min=10"`
	Category    *string  `json:"category"`
	Location    *string  `json:"location"`
	Photo       *string  `json:"photo"`
	Status      *string  `json:"status" binding:"omitempty,oneof=pending assigned accepted in_progress completed rejected"`
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0"`
	Notes       *string  `json:"notes"`
}

func CreateIssue(ctx *gin.Context) {
	current, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateIssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue data"})
		return
	}

	issue := models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Photo:       req.Photo,
		Status:      models.IssueStatusPending,
		CreatedBy:   current.ID,
		Amount:      req.Amount,
	}

	if err := store.Issues().Create(ctx, &issue); err != nil {
		respondError(ctx, "CreateIssue", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Issue reported successfully",
		"issue":   newIssueSummary(issue),
	})
}

// ListIssues returns the caller's own reported issues, newest first.
func ListIssues(ctx *gin.Context) {
	current, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, limit, offset := utils.Pagination(ctx)

	issues, total, err := store.Issues().ListByCreator(ctx, current.ID, offset, limit)
	if err != nil {
		respondError(ctx, "ListIssues", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"issues": newIssueSummaries(issues),
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func GetIssue(ctx *gin.Context) {
	current, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	issue, err := store.Issues().GetByID(ctx, issueID)
	if err != nil {
		respondError(ctx, "GetIssue", err)
		return
	}

	if !canViewIssue(current, issue) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to view this issue"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"issue": newIssueSummary(*issue)})
}

// UpdateIssue lets the reporter touch the descriptive fields of their own
// issue; admins may update any field including status and amount.
func UpdateIssue(ctx *gin.Context) {
	current, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var req UpdateIssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue data"})
		return
	}

	issue, err := store.Issues().GetByID(ctx, issueID)
	if err != nil {
		respondError(ctx, "UpdateIssue", err)
		return
	}

	isAdmin := current.Role == models.RoleAdmin
	isOwner := issue.CreatedBy == current.ID

	if !isAdmin && !isOwner {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to update this issue"})
		return
	}

	if req.Title != nil {
		issue.Title = *req.Title
	}
	if req.Description != nil {
		issue.Description = *req.Description
	}
	if req.Category != nil {
		issue.Category = *req.Category
	}
	if req.Location != nil {
		issue.Location = *req.Location
	}
	if req.Photo != nil {
		issue.Photo = *req.Photo
	}

	if isAdmin {
		if req.Status != nil {
			issue.Status = *req.Status
		}
		if req.Amount != nil {
			issue.Amount = *req.Amount
		}
		if req.Notes != nil {
			issue.Notes = *req.Notes
		}
	} else if req.Status != nil || req.Amount != nil || req.Notes != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can update status, amount or notes"})
		return
	}

	if err := store.Issues().Update(ctx, issue); err != nil {
		respondError(ctx, "UpdateIssue", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Issue updated successfully",
		"issue":   newIssueSummary(*issue),
	})
}

func canViewIssue(current middleware.AuthenticatedUser, issue *models.Issue) bool {
	if current.Role == models.RoleAdmin {
		return true
	}
	if issue.CreatedBy == current.ID {
		return true
	}
	return issue.AssignedTo != nil && *issue.AssignedTo == current.ID
}
