package transactions

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sheraz031/smartgatepay/models"
	"github.com/Sheraz031/smartgatepay/reconcile"
	"github.com/Sheraz031/smartgatepay/utils"
)

type SubmitUTRRequest struct {
	UTRNumber string `json:"utrNumber"`
	OrderID   string `json:"orderId"`
}

// SubmitUTR is the public reconciliation endpoint. The engine produces
// {success, message}; the failure kind picks the status class.
func SubmitUTR(svc *reconcile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitUTRRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request payload"})
			return
		}

		result := svc.SubmitUTR(c.Request.Context(), req.UTRNumber, req.OrderID)
		if result.Success {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": result.Message})
			return
		}

		c.JSON(statusForKind(result.Kind), gin.H{"success": false, "message": result.Message})
	}
}

func statusForKind(kind reconcile.FailureKind) int {
	switch kind {
	case reconcile.KindNotFound:
		return http.StatusNotFound
	case reconcile.KindDuplicate:
		return http.StatusConflict
	case reconcile.KindUpstream:
		return http.StatusBadGateway
	case reconcile.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func GetAllTransactions(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	query := utils.DB.Order("created_at DESC")
	if user.Role != "admin" {
		query = query.Where("created_by = ?", user.ID)
	}

	var txns []models.Transaction
	if err := query.Find(&txns).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to fetch transactions"})
		return
	}

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var todayAmount, monthAmount, totalAmount float64
	utils.DB.Model(&models.Transaction{}).
		Where("created_at >= ? AND created_at < ?", startOfToday, startOfToday.AddDate(0, 0, 1)).
		Select("COALESCE(SUM(amount), 0)").Scan(&todayAmount)
	utils.DB.Model(&models.Transaction{}).
		Where("created_at >= ? AND created_at <= ?", startOfMonth, now).
		Select("COALESCE(SUM(amount), 0)").Scan(&monthAmount)
	utils.DB.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalAmount)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"transactions": txns,
		"summary": gin.H{
			"todayAmount":       todayAmount,
			"thisMonthAmount":   monthAmount,
			"totalTransactions": totalAmount,
		},
	})
}

func GetTransactionByID(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	id := c.Param("id")

	query := utils.DB
	if user.Role != "admin" {
		query = query.Where("created_by = ?", user.ID)
	}

	// The param is usually the provider transaction id; an all-digit
	// value may also be a row id. Never hand a non-numeric string to the
	// numeric column, MySQL would coerce it.
	if rowID, err := strconv.ParseUint(id, 10, 64); err == nil {
		query = query.Where("transaction_id = ? OR id = ?", id, rowID)
	} else {
		query = query.Where("transaction_id = ?", id)
	}

	var txn models.Transaction
	if err := query.First(&txn).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": txn})
}

func FilterTransactions(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	query := utils.DB.Order("created_at DESC")
	if user.Role != "admin" {
		query = query.Where("created_by = ?", user.ID)
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		from, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid dateFrom format"})
			return
		}
		query = query.Where("created_at >= ?", from)
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		to, err := time.Parse("2006-01-02", dateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid dateTo format"})
			return
		}
		// End of the day
		query = query.Where("created_at <= ?", to.Add(24*time.Hour-time.Nanosecond))
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if gateway := c.Query("paymentGateway"); gateway != "" {
		query = query.Where("gateway_id = ?", gateway)
	}

	if search := c.Query("search"); search != "" {
		query = query.Where("transaction_id LIKE ? OR customer_email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var txns []models.Transaction
	if err := query.Find(&txns).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to filter transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": txns})
}

func RegisterTransactionsRoutes(r *gin.RouterGroup) {
	r.GET("/transactions/all", GetAllTransactions)
	r.GET("/transactions/filter", FilterTransactions)
	r.GET("/transactions/:id", GetTransactionByID)
}
