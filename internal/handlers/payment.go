package handlers

import (
	"net/http"

	"github.com/civicfix-dev/civicfix/internal/models"
	"github.com/civicfix-dev/civicfix/internal/upi"
	"github.com/civicfix-dev/civicfix/internal/utils"
	"github.com/civicfix-dev/civicfix/internal/workflow"
	"github.com/gin-gonic/gin"
)

type CreatePaymentRequest struct {
	IssueID uint    `json:"issueId" binding:"required"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
}

type CompletePaymentRequest struct {
	TransactionID string `json:"transactionId"`
	ScreenshotURL string `json:"screenshotUrl"`
	Notes         string `json:"notes"`
}

// CreatePayment raises a pending payment for a completed, reviewed issue and
// returns the generic UPI deep link for settling it.
func CreatePayment(ctx *gin.Context) {
	currentID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Valid issueId and amount are required"})
		return
	}

	result, err := flowEngine.CreatePayment(ctx, currentID, req.IssueID, req.Amount)
	if err != nil {
		respondError(ctx, "CreatePayment", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":   "Payment created successfully",
		"payment":   newPaymentSummary(*result.Payment),
		"upiLink":   result.UPILink,
		"nextSteps": result.NextSteps,
	})
}

// CompletePayment records the manual UPI transfer against a pending payment.
func CompletePayment(ctx *gin.Context) {
	currentID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	paymentID, err := utils.ParseIDParam(ctx, "paymentId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	var req CompletePaymentRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment data"})
			return
		}
	}

	payment, err := flowEngine.MarkPaymentComplete(ctx, currentID, paymentID, workflow.SettlementInput{
		TransactionID: req.TransactionID,
		ScreenshotURL: req.ScreenshotURL,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(ctx, "CompletePayment", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Payment marked as completed",
		"payment": newPaymentSummary(*payment),
	})
}

func GetPayment(ctx *gin.Context) {
	paymentID, err := utils.ParseIDParam(ctx, "paymentId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	payment, err := store.Payments().GetByID(ctx, paymentID)
	if err != nil {
		respondError(ctx, "GetPayment", err)
		return
	}

	resp := gin.H{"payment": newPaymentSummary(*payment)}

	if payment.Status == models.PaymentStatusPending && payment.Worker.UPIID != "" {
		resp["upiLink"] = upi.GenerateLink(upi.PaymentParams{
			UPIID:           payment.Worker.UPIID,
			Name:            payment.Worker.User.Name,
			Amount:          payment.Amount,
			TransactionNote: "Payment for issue: " + payment.Issue.Title,
		})
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetPaymentUPILinks returns deep links for every supported UPI app.
func GetPaymentUPILinks(ctx *gin.Context) {
	paymentID, err := utils.ParseIDParam(ctx, "paymentId")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	result, err := flowEngine.PaymentLinks(ctx, paymentID)
	if err != nil {
		respondError(ctx, "GetPaymentUPILinks", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"payment":  newPaymentSummary(*result.Payment),
		"upiLinks": result.Links,
		"provider": result.Provider,
	})
}

// PendingPayments lists unsettled payments with their UPI links and the
// outstanding total.
func PendingPayments(ctx *gin.Context) {
	summary, err := flowEngine.PendingPayments(ctx)
	if err != nil {
		respondError(ctx, "PendingPayments", err)
		return
	}

	payments := make([]gin.H, 0, len(summary.Payments))
	for _, item := range summary.Payments {
		payments = append(payments, gin.H{
			"payment":  newPaymentSummary(item.Payment),
			"upiLinks": item.UPILinks,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"totalPending": summary.TotalPending,
		"count":        summary.Count,
		"payments":     payments,
	})
}

func ListPayments(ctx *gin.Context) {
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

	payments, total, err := store.Payments().List(ctx, status, workerID, offset, limit)
	if err != nil {
		respondError(ctx, "ListPayments", err)
		return
	}

	summaries := make([]PaymentSummary, 0, len(payments))
	for _, payment := range payments {
		summaries = append(summaries, newPaymentSummary(payment))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"payments": summaries,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
