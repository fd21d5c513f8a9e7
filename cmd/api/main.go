package main

import (
	"log"
	"os"

	_ "agrofrete/api/swagger" // swagger docs
	"agrofrete/internal/database"
	"agrofrete/internal/handler"
	"agrofrete/internal/middleware"
	"agrofrete/internal/notifier"
	"agrofrete/internal/repository"
	"agrofrete/internal/service"
	"agrofrete/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           AgroFrete API
// @version         1.0
// @description     Freight marketplace connecting agricultural cooperatives with transporters.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "agrofrete"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// MOVA account shown to cooperatives as the payment destination
	movaAccount := os.Getenv("MOVA_ACCOUNT")
	if movaAccount == "" {
		movaAccount = "842000001"
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewTransportRequestRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	contractRepo := repository.NewContractRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	dispatcher := notifier.New(userRepo, notificationRepo)

	auditService := service.NewAuditService(auditRepo)
	userService := service.NewUserService(userRepo)
	requestService := service.NewRequestService(requestRepo, auditService, dispatcher, wsHub)
	proposalService := service.NewProposalService(txManager, proposalRepo, requestRepo, contractRepo, auditService, dispatcher, wsHub, movaAccount)
	contractService := service.NewContractService(contractRepo, auditService, dispatcher, wsHub)
	locationService := service.NewLocationService(locationRepo, requestRepo, wsHub)
	chatService := service.NewChatService(chatRepo, requestRepo, wsHub)
	ratingService := service.NewRatingService(ratingRepo, requestRepo, auditService, dispatcher, wsHub)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService)
	proposalHandler := handler.NewProposalHandler(proposalService)
	contractHandler := handler.NewContractHandler(contractService)
	locationHandler := handler.NewLocationHandler(locationService)
	chatHandler := handler.NewChatHandler(chatService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))
	proposalHandler.RegisterRoutes(router.Group(""))
	contractHandler.RegisterRoutes(router.Group(""))
	locationHandler.RegisterRoutes(router.Group(""))
	chatHandler.RegisterRoutes(router.Group(""))
	ratingHandler.RegisterRoutes(router.Group(""))
	notificationHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
