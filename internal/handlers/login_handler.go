package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"go-pos-ledger/internal/auth"
	"go-pos-ledger/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials against the employees stored in the document.
func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	state, _ := h.Store.Load(c.Request.Context())

	var user *models.User
	for i := range state.Employees {
		if state.Employees[i].Email == input.Email {
			user = &state.Employees[i]
			break
		}
	}
	if user == nil || !verifyPassword(user.Password, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Name, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  user.Role,
		"name":  user.Name,
		"id":    user.ID,
	})
}

// verifyPassword handles both password formats that appear in documents:
// bcrypt hashes written by this server, and plaintext values carried over
// from legacy documents (the seed admin ships as plaintext "123").
func verifyPassword(stored, input string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(input)) == 1
}

// Register bootstraps an admin account. The route is only mounted when
// ALLOW_REGISTRATION=true.
func (h *Handler) Register(c *gin.Context) {
	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx := c.Request.Context()
	state, _ := h.Store.Load(ctx)

	for _, u := range state.Employees {
		if u.Email == input.Email {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       time.Now().UTC().Format("20060102150405"),
		Name:     input.Name,
		Email:    input.Email,
		Role:     models.RoleAdmin,
		Password: string(hashedPassword),
	}

	res := h.Store.UpdateEmployees(ctx, append(state.Employees, user))
	respondSave(c, res, gin.H{"message": "User created successfully!", "id": user.ID})
}
