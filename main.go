package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Sheraz031/smartgatepay/handlers/auth"
	"github.com/Sheraz031/smartgatepay/handlers/gateways"
	"github.com/Sheraz031/smartgatepay/handlers/orders"
	"github.com/Sheraz031/smartgatepay/handlers/transactions"
	"github.com/Sheraz031/smartgatepay/handlers/users"
	"github.com/Sheraz031/smartgatepay/models"
	"github.com/Sheraz031/smartgatepay/reconcile"
	"github.com/Sheraz031/smartgatepay/seed"
	"github.com/Sheraz031/smartgatepay/storage"
	"github.com/Sheraz031/smartgatepay/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CLIENT_URL")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	utils.ConnectDatabase()

	// Migrate models
	utils.DB.AutoMigrate(&models.User{})
	utils.DB.AutoMigrate(&models.PaymentGateway{})
	utils.DB.AutoMigrate(&models.Order{})
	utils.DB.AutoMigrate(&models.Transaction{})

	// Seed Initial Data
	if err := seed.SeedAdminUser(); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	svc := reconcile.NewService(
		storage.NewOrderStore(utils.DB),
		storage.NewGatewayStore(utils.DB),
		storage.NewTransactionStore(utils.DB),
	)

	// Public routes
	r.POST("/users/login", auth.Login)
	r.POST("/users/create", users.CreateUser)
	r.POST("/transactions/submit-utr", transactions.SubmitUTR(svc))
	r.POST("/gateways/verify-gateway", gateways.VerifyGateway(svc))
	r.GET("/orders/qr-data/:orderId", orders.GetOrderQRData)
	r.POST("/orders/create", auth.APITokenMiddleware(), orders.CreateOrder)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "ts": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		users.RegisterUsersRoutes(protected)
		gateways.RegisterGatewaysRoutes(protected)
		transactions.RegisterTransactionsRoutes(protected)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
