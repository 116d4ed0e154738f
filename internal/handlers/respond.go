package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps typed application errors to their HTTP status and hides
// everything else behind a logged generic 500.
func respondError(ctx *gin.Context, action string, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		ctx.JSON(appErr.Status, gin.H{"error": appErr.Message})
		return
	}

	log.Printf("%s: %v", action, err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
