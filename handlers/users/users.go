package users

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sheraz031/smartgatepay/models"
	"github.com/Sheraz031/smartgatepay/utils"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All required fields are missing"})
		return
	}

	var existing models.User
	if err := utils.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create user"})
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashed),
		Role:     role,
	}

	if err := utils.DB.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to create user"})
		return
	}

	token, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"token":   token,
		"user":    user,
	})
}

// GetUserData returns the authenticated user's own profile, resolved
// from the session token by the auth middleware.
func GetUserData(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"phone":     user.Phone,
			"role":      user.Role,
			"createdAt": user.CreatedAt,
			"updatedAt": user.UpdatedAt,
		},
	})
}

func GetAllUsers(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	query := utils.DB.Order("created_at DESC")
	if user.Role != "admin" {
		query = query.Where("id = ?", user.ID)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func GetUserByID(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	id := c.Param("id")

	targetID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User Not Found"})
		return
	}

	// Non-admins may only look up themselves.
	query := utils.DB
	if user.Role != "admin" {
		query = query.Where("id = ?", user.ID)
	}

	var found models.User
	if err := query.First(&found, uint(targetID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User Not Found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": found})
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func UpdateUser(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	id := c.Param("id")

	targetID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if user.Role != "admin" && uint(targetID) != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var target models.User
	if err := utils.DB.First(&target, uint(targetID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}

	if req.Email != "" && req.Email != target.Email {
		var conflict models.User
		if err := utils.DB.Where("email = ? AND id <> ?", req.Email, target.ID).First(&conflict).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email is already in use"})
			return
		}
		target.Email = req.Email
	}

	if req.Name != "" {
		target.Name = req.Name
	}
	if req.Phone != "" {
		target.Phone = req.Phone
	}
	// Only admins may change roles.
	if req.Role != "" && user.Role == "admin" {
		target.Role = req.Role
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user"})
			return
		}
		target.Password = string(hashed)
	}

	if err := utils.DB.Save(&target).Error; err != nil {
		log.Printf("Error updating user %d: %v", target.ID, err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated", "user": target})
}

func RegisterUsersRoutes(r *gin.RouterGroup) {
	r.GET("/users/user-data", GetUserData)
	r.GET("/users/all", GetAllUsers)
	r.GET("/users/:id", GetUserByID)
	r.PUT("/users/:id", UpdateUser)
}
