package handlers

import (
	"net/http"
	"strings"

	"github.com/civicfix-dev/civicfix/internal/apperrors"
	"github.com/civicfix-dev/civicfix/internal/auth"
	"github.com/civicfix-dev/civicfix/internal/models"
	"github.com/civicfix-dev/civicfix/internal/repository"
	"github.com/civicfix-dev/civicfix/internal/types"
	"github.com/civicfix-dev/civicfix/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=citizen worker"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration data"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := store.Users().GetByEmail(ctx, email); err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	} else if !apperrors.Is(err, apperrors.CodeNotFound) {
		respondError(ctx, "Register: lookup email", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, "Register: hash password", err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCitizen
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	err = store.InTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, &user); err != nil {
			return err
		}

		// Workers get an empty profile immediately so assignment can see
		// them once they fill in tags and availability.
		if user.Role == models.RoleWorker {
			worker := models.Worker{
				UserID: user.ID,
				Status: models.WorkerStatusAvailable,
				Type:   models.WorkerTypeIndividual,
			}
			return tx.Workers().Create(ctx, &worker)
		}

		return nil
	})

	if err != nil {
		respondError(ctx, "Register: create user", err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(ctx, "Register: generate token", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login data"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := store.Users().GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(ctx, "Login: lookup email", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(ctx, "Login: generate token", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(*user),
	})
}

func Me(ctx *gin.Context) {
	current, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	resp := gin.H{"user": types.UserResponse{
		ID:    current.ID,
		Name:  current.Name,
		Email: current.Email,
		Role:  current.Role,
	}}

	// Workers also get their profile so the client can render availability
	// and earnings without a second round trip.
	if current.Role == models.RoleWorker {
		worker, err := store.Workers().GetByUserID(ctx, current.ID)
		if err == nil {
			resp["worker"] = newWorkerSummary(*worker)
		} else if !apperrors.Is(err, apperrors.CodeNotFound) {
			respondError(ctx, "Me: load worker profile", err)
			return
		}
	}

	ctx.JSON(http.StatusOK, resp)
}

func Logout(ctx *gin.Context) {
	// Tokens are stateless; the client discards its copy.
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
