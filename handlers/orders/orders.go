package orders

import (
	"log"
	"net/http"
	"os"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sheraz031/smartgatepay/models"
	"github.com/Sheraz031/smartgatepay/utils"
)

var (
	urlRegex   = regexp.MustCompile(`^(https?)://([A-Za-z0-9-]+\.)+[A-Za-z]{2,6}(\S*)$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^(\+?\d{1,4}[\s-]?)?\d{7,15}$`)
)

type CreateOrderRequest struct {
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail"`
	CustomerMobile string  `json:"customerMobile"`
	RedirectURL    string  `json:"redirectUrl"`
	Amount         float64 `json:"amount"`
	UDF1           string  `json:"udf1"`
	UDF2           string  `json:"udf2"`
	UDF3           string  `json:"udf3"`
	Gateway        uint    `json:"gateway"`
}

func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
		return
	}

	if req.RedirectURL == "" || req.Amount == 0 || req.Gateway == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "redirectUrl, amount, and gateway are required fields"})
		return
	}

	if req.Amount < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Amount must be greater than 0"})
		return
	}

	if !urlRegex.MatchString(req.RedirectURL) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid redirect URL"})
		return
	}

	if req.CustomerEmail != "" && !emailRegex.MatchString(req.CustomerEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email address"})
		return
	}

	if req.CustomerMobile != "" && !phoneRegex.MatchString(req.CustomerMobile) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid phone number"})
		return
	}

	var gateway models.PaymentGateway
	if err := utils.DB.First(&gateway, req.Gateway).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment gateway"})
		return
	}

	order := models.Order{
		OrderID:       uuid.NewString(),
		Status:        "created",
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerMobile,
		RedirectURL:   req.RedirectURL,
		Amount:        req.Amount,
		UDF1:          req.UDF1,
		UDF2:          req.UDF2,
		UDF3:          req.UDF3,
		GatewayID:     gateway.ID,
	}

	qrCodeDataURL, err := utils.GenerateUPIQRCode(&order, &gateway)
	if err != nil {
		log.Printf("Error generating UPI QR code for order %s: %v", order.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate payment QR code"})
		return
	}
	order.QRCodeData = qrCodeDataURL

	if err := utils.DB.Create(&order).Error; err != nil {
		log.Printf("Error creating order: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to create order"})
		return
	}

	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:5173"
	}

	log.Printf("Order created successfully: orderId=%s", order.OrderID)
	c.JSON(http.StatusCreated, gin.H{
		"status":  true,
		"message": "Order Created Successfully",
		"result": gin.H{
			"orderId":     order.OrderID,
			"payment_url": clientURL + "/payment?orderId=" + order.OrderID,
		},
	})
}

func GetOrderQRData(c *gin.Context) {
	orderID := c.Param("orderId")

	var order models.Order
	if err := utils.DB.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	if order.QRCodeData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "QR code not found for this order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order": gin.H{
			"orderId":       order.OrderID,
			"customerName":  order.CustomerName,
			"customerEmail": order.CustomerEmail,
			"customerPhone": order.CustomerPhone,
			"amount":        order.Amount,
			"redirectUrl":   order.RedirectURL,
			"status":        "pending",
		},
		"qrCodeDataUrl": order.QRCodeData,
	})
}
