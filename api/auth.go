package api

import (
	"cashbook/config"
	"cashbook/database"
	"cashbook/middleware"
	"cashbook/models"
	"cashbook/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves signup, login, logout and profile.
type AuthHandler struct {
	cfg      *config.Config
	sessions service.SessionStore
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(cfg *config.Config, sessions service.SessionStore) *AuthHandler {
	return &AuthHandler{cfg: cfg, sessions: sessions}
}

// SignupRequest is the account creation payload.
type SignupRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=50"`
	FirstName string `json:"first_name" binding:"omitempty,max=30"`
	LastName  string `json:"last_name" binding:"omitempty,max=30"`
}

// LoginRequest accepts a username or email plus password.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the token and the user it belongs to.
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Signup creates an account and logs it in (returns a token).
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		BadRequest(c, "username already exists")
		return
	}
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		BadRequest(c, "a user with this email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "password hashing failed")
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create user failed"))
		return
	}

	// Auto-login on signup.
	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "token generation failed")
		return
	}

	logrus.WithField("user_id", user.ID).Info("account created")
	SuccessWithMessage(c, "account created", LoginResponse{Token: token, UserInfo: user})
}

// Login issues a token for valid credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "invalid username or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "token generation failed")
		return
	}

	Success(c, LoginResponse{Token: token, UserInfo: user})
}

// Logout clears the caller's active business selection. Tokens are stateless
// and simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	if err := h.sessions.ClearActiveBusiness(c.Request.Context(), userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("clear selection failed")
		InternalError(c, "logout failed")
		return
	}
	SuccessWithMessage(c, "logged out", nil)
}

// GetProfile returns the current user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	Success(c, user)
}
