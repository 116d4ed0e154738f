package handlers

import (
	"net/http"

	"github.com/civicfix-dev/civicfix/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateReviewRequest struct {
	IssueID uint   `json:"issueId" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview creates or replaces the issue's review and recomputes the
// worker's average rating.
func CreateReview(ctx *gin.Context) {
	currentID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Valid issueId and rating (1-5) are required"})
		return
	}

	review, err := flowEngine.CreateReview(ctx, currentID, req.IssueID, req.Rating, req.Comment)
	if err != nil {
		respondError(ctx, "CreateReview", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Review saved successfully",
		"review":  newReviewSummary(*review),
	})
}

func ListReviews(ctx *gin.Context) {
	page, limit, offset := utils.Pagination(ctx)

	status := ctx.Query("status")

	var workerID uint
	if raw := ctx.Query("workerId"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workerId"})
			return
		}
		workerID = id
	}

	reviews, total, err := store.Reviews().List(ctx, workerID, status, offset, limit)
	if err != nil {
		respondError(ctx, "ListReviews", err)
		return
	}

	summaries := make([]ReviewSummary, 0, len(reviews))
	for _, review := range reviews {
		summaries = append(summaries, newReviewSummary(review))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"reviews": summaries,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func GetReviewByIssue(ctx *gin.Context) {
	issueID, err := utils.ParseIDParam(ctx, "issueId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	review, err := store.Reviews().GetByIssueID(ctx, issueID)
	if err != nil {
		respondError(ctx, "GetReviewByIssue", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"review": newReviewSummary(*review)})
}
