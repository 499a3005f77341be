package gateways

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sheraz031/smartgatepay/models"
	"github.com/Sheraz031/smartgatepay/reconcile"
	"github.com/Sheraz031/smartgatepay/utils"
)

type CreateGatewayRequest struct {
	GatewayName  string  `json:"gatewayName"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	APIKey       string  `json:"apiKey"`
	UPIID        string  `json:"upiId"`
	MerchantID   string  `json:"merchantId"`
	WebhookURL   string  `json:"webhookUrl"`
	Phone        string  `json:"phone"`
	Priority     int     `json:"priority"`
	DailyLimit   float64 `json:"dailyLimit"`
	MonthlyLimit float64 `json:"monthlyLimit"`
}

func CreateGateway(c *gin.Context) {
	var req CreateGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}

	if req.GatewayName == "" || req.Type == "" || req.APIKey == "" || req.MerchantID == "" || req.UPIID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Required fields are missing"})
		return
	}

	user := c.MustGet("user").(models.User)

	status := req.Status
	if status == "" {
		status = models.GatewayStatusInactive
	}

	gateway := models.PaymentGateway{
		Name:         req.GatewayName,
		Type:         req.Type,
		Status:       status,
		APIKey:       req.APIKey,
		UPIID:        req.UPIID,
		MerchantID:   req.MerchantID,
		WebhookURL:   req.WebhookURL,
		Phone:        req.Phone,
		Priority:     req.Priority,
		DailyLimit:   req.DailyLimit,
		MonthlyLimit: req.MonthlyLimit,
		CreatedBy:    user.ID,
	}

	if err := utils.DB.Create(&gateway).Error; err != nil {
		log.Printf("Error creating payment gateway: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to create payment gateway"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment gateway created successfully",
		"gateway": gateway,
	})
}

func GetAllGateways(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	query := utils.DB.Order("created_at DESC")
	if user.Role != "admin" {
		query = query.Where("created_by = ?", user.ID)
	}

	var gateways []models.PaymentGateway
	if err := query.Find(&gateways).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to fetch payment gateways"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "gateways": gateways})
}

func GetGatewayByID(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	id := c.Param("id")

	query := utils.DB
	if user.Role != "admin" {
		query = query.Where("created_by = ?", user.ID)
	}

	var gateway models.PaymentGateway
	if err := query.First(&gateway, id).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payment gateway not found or unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "gateway": gateway})
}

func UpdateGateway(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	id := c.Param("id")

	query := utils.DB
	if user.Role != "admin" {
		query = query.Where("created_by = ?", user.ID)
	}

	var gateway models.PaymentGateway
	if err := query.First(&gateway, id).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payment gateway not found or unauthorized"})
		return
	}

	var req CreateGatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}

	if req.GatewayName != "" {
		gateway.Name = req.GatewayName
	}
	if req.Type != "" {
		gateway.Type = req.Type
	}
	if req.Status != "" {
		gateway.Status = req.Status
	}
	if req.APIKey != "" {
		gateway.APIKey = req.APIKey
	}
	if req.UPIID != "" {
		gateway.UPIID = req.UPIID
	}
	if req.MerchantID != "" {
		gateway.MerchantID = req.MerchantID
	}
	if req.WebhookURL != "" {
		gateway.WebhookURL = req.WebhookURL
	}
	if req.Priority != 0 {
		gateway.Priority = req.Priority
	}
	if req.DailyLimit != 0 {
		gateway.DailyLimit = req.DailyLimit
	}
	if req.MonthlyLimit != 0 {
		gateway.MonthlyLimit = req.MonthlyLimit
	}

	if err := utils.DB.Save(&gateway).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to update payment gateway"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "gateway": gateway})
}

type VerifyGatewayRequest struct {
	PaymentGatewayID uint   `json:"paymentGatewayID"`
	APIToken         string `json:"apiToken"`
	APISecret        string `json:"apiSecret"`
	TransactionRef   string `json:"transactionRef"`
	AccessKeyID      string `json:"accesskeyId"`
	MerchantKey      string `json:"merchantKey"`
	Cookie           string `json:"cookie"`
	XSRF             string `json:"xsrf"`
}

// VerifyGateway updates the credential bundle, runs the provider health
// check, and persists the resulting active/inactive status.
func VerifyGateway(svc *reconcile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyGatewayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
			return
		}

		if req.PaymentGatewayID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "paymentGatewayID is required"})
			return
		}

		details := models.APIDetails{
			Token:          req.APIToken,
			Secret:         req.APISecret,
			TransactionRef: req.TransactionRef,
			AccessKeyID:    req.AccessKeyID,
			MerchantKey:    req.MerchantKey,
			Cookie:         req.Cookie,
			XSRF:           req.XSRF,
		}

		gateway, result, err := svc.VerifyGateway(c.Request.Context(), req.PaymentGatewayID, details)
		if err != nil {
			if errors.Is(err, reconcile.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Payment gateway not found"})
				return
			}
			log.Printf("Error verifying payment gateway: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to verify payment gateway"})
			return
		}

		if result.Status == models.GatewayStatusInactive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"id":      gateway.ID,
				"status":  gateway.Status,
				"message": "The provided gateway is not verified!",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": gateway.ID, "status": gateway.Status})
	}
}

func RegisterGatewaysRoutes(r *gin.RouterGroup) {
	r.POST("/gateways/create", CreateGateway)
	r.GET("/gateways/all", GetAllGateways)
	r.GET("/gateways/:id", GetGatewayByID)
	r.PUT("/gateways/:id", UpdateGateway)
}
