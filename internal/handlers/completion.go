package handlers

import (
	"net/http"

	"github.com/civicfix-dev/civicfix/internal/utils"
	"github.com/civicfix-dev/civicfix/internal/workflow"
	"github.com/gin-gonic/gin"
)

type CompleteIssueRequest struct {
	Notes  string  `json:"completionNotes"`
	Amount float64 `json:"amount" binding:"omitempty,gte=0"`
}

type ApproveAndPayRequest struct {
	Rating  int     `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment string  `json:"comment"`
	Amount  float64 `json:"amount" binding:"omitempty,gte=0"`
}

// CompleteIssue is the assigned worker reporting the job done.
func CompleteIssue(ctx *gin.Context) {
	currentID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var req CompleteIssueRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid completion data"})
			return
		}
	}

	issue, err := flowEngine.MarkCompleted(ctx, currentID, issueID, workflow.CompletionInput{
		Notes:  req.Notes,
		Amount: req.Amount,
	})
	if err != nil {
		respondError(ctx, "CompleteIssue", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Issue marked as completed",
		"issue":   newIssueSummary(*issue),
	})
}

// ApproveAndPay is the admin approval of a completed issue: optional review,
// pending payment and UPI deep links in one step.
func ApproveAndPay(ctx *gin.Context) {
	currentID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	issueID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var req ApproveAndPayRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid approval data"})
			return
		}
	}

	result, err := flowEngine.ApproveAndPay(ctx, currentID, issueID, workflow.ApprovalInput{
		Rating:  req.Rating,
		Comment: req.Comment,
		Amount:  req.Amount,
	})
	if err != nil {
		respondError(ctx, "ApproveAndPay", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Issue approved and payment initiated",
		"issue":     newIssueSummary(*result.Issue),
		"payment":   newPaymentSummary(*result.Payment),
		"upiLinks":  result.UPILinks,
		"nextSteps": result.NextSteps,
	})
}
