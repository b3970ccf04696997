package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"research-repository-api/middleware"
	"research-repository-api/models"
	"research-repository-api/utils"
)

// Accounts is the user storage the auth handlers need.
type Accounts interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
	Message   string      `json:"message"`
}

type AuthController struct {
	accounts Accounts
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthController(accounts Accounts, secret string, ttl time.Duration) *AuthController {
	if ttl <= 0 {
		ttl = 24 * time.Hour // default 24 hours
	}
	return &AuthController{accounts: accounts, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Login handles user authentication
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest

	// Bind request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if !utils.ValidateEmail(req.Email) {
		badRequest(c, "Invalid email address")
		return
	}

	// Find user by email
	user, err := a.accounts.FindByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Generate JWT token
	token, expiresAt, err := a.generateToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	if err := a.accounts.TouchLastLogin(c.Request.Context(), user.UserID, a.now()); err != nil {
		_ = c.Error(err)
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
		Message:   "Login successful",
	})
}

// GetProfile returns current user profile
func (a *AuthController) GetProfile(c *gin.Context) {
	user, err := a.accounts.FindByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// generateToken creates JWT token
func (a *AuthController) generateToken(user models.User) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)

	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}
