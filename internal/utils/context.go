package utils

import (
	"fmt"
	"strconv"

	"github.com/civicfix-dev/civicfix/internal/middleware"
	"github.com/civicfix-dev/civicfix/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// ParseIDParam parses a numeric path parameter.
func ParseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := ParseID(ctx.Param(name))
	if err != nil {
		return 0, fmt.Errorf("Invalid %s", name)
	}

	return id, nil
}

// ParseID parses a decimal entity ID.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

// Pagination extracts page/limit query params with the platform defaults:
// page 1, limit 10, limit capped at 50.
func Pagination(ctx *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	return page, limit, (page - 1) * limit
}
