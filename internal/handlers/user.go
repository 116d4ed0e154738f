package handlers

import (
	"net/http"

	"github.com/civicfix-dev/civicfix/internal/utils"
	"github.com/gin-gonic/gin"
)

type UpdateUserRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=100"`
	Role *string `json:"role" binding:"omitempty,oneof=citizen worker admin"`
}

// ListUsers returns all accounts, newest first. Admin only.
func ListUsers(ctx *gin.Context) {
	page, limit, offset := utils.Pagination(ctx)

	users, total, err := store.Users().List(ctx, offset, limit)
	if err != nil {
		respondError(ctx, "ListUsers", err)
		return
	}

	summaries := make([]any, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, userResponse(user))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users": summaries,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func GetUser(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := store.Users().GetByID(ctx, userID)
	if err != nil {
		respondError(ctx, "GetUser", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(*user)})
}

// UpdateUser lets an admin rename an account or change its role.
func UpdateUser(ctx *gin.Context) {
	userID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user data"})
		return
	}

	user, err := store.Users().GetByID(ctx, userID)
	if err != nil {
		respondError(ctx, "UpdateUser", err)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := store.Users().Update(ctx, user); err != nil {
		respondError(ctx, "UpdateUser", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    userResponse(*user),
	})
}
