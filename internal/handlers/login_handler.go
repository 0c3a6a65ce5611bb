package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"signboard-admin/internal/attendance"
	"signboard-admin/internal/logger"
	"signboard-admin/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin employee"`
}

// Login checks the password, issues a token and marks the day's attendance.
func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("username = ?", strings.TrimSpace(input.Username)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	resp := gin.H{
		"token":    token,
		"role":     user.Role,
		"username": user.Username,
	}

	// A failed attendance write must not block the login.
	rec, _, err := h.attendance.MarkLogin(c.Request.Context(), strconv.FormatUint(uint64(user.ID), 10))
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("mark attendance failed", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		resp["attendance"] = rec
	}

	c.JSON(http.StatusOK, resp)
}

// Logout closes the caller's open attendance record. Tokens are stateless, so
// the client discards its own.
func (h *Handler) Logout(c *gin.Context) {
	rec, err := h.attendance.MarkLogout(c.Request.Context(), session(c).UserID)
	if errors.Is(err, attendance.ErrNoOpenSession) {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "attendance": rec})
}

// Register is the bootstrap route: the first account becomes admin, later
// ones employees. It is only mounted when registration is enabled.
func (h *Handler) Register(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	role := models.RoleEmployee
	if count == 0 {
		role = models.RoleAdmin
	}

	user, err := h.createUser(c, input.Username, input.Password, role)
	if err != nil {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!", "user": user})
}

// CreateUser lets an admin add staff accounts.
func (h *Handler) CreateUser(c *gin.Context) {
	var input CreateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, err := h.createUser(c, input.Username, input.Password, input.Role)
	if err != nil {
		return
	}
	c.JSON(http.StatusCreated, user)
}

// createUser writes the response itself when it fails.
func (h *Handler) createUser(c *gin.Context, username, password, role string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		badRequest(c, "Invalid input")
		return models.User{}, errors.New("empty username")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return models.User{}, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User likely already exists"})
		return models.User{}, err
	}

	logger.FromContext(c.Request.Context()).Info("user created",
		zap.Uint("id", user.ID), zap.String("username", user.Username), zap.String("role", user.Role))
	return user, nil
}
