package main

import (
	"os"
	"os/signal"
	"syscall"

	"sigmavie-commerce/internal/handler"
	"sigmavie-commerce/internal/middleware"
	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/internal/service"
	"sigmavie-commerce/internal/ws"
	"sigmavie-commerce/pkg/database"
	"sigmavie-commerce/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Init().Warn(".env file not found, relying on system env")
	}
	log := logger.Get()

	db := database.Connect()
	log.Info("database connection established")

	// Auto migrate. Use a dedicated migration tool before relying on this
	// in production.
	db.AutoMigrate(
		&model.Product{}, &model.Variant{}, &model.Category{},
		&model.Customer{}, &model.Order{}, &model.StockEntry{},
		&model.Setting{}, &model.StaffUser{},
	)

	seedDefaults(db, log)

	wsHub := ws.NewHub()
	go wsHub.Run()

	// Wiring
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	ledgerRepo := repository.NewStockEntryRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	staffRepo := repository.NewStaffRepo(db)

	catalogService := service.NewCatalogService(productRepo, categoryRepo, wsHub)
	inventoryService := service.NewInventoryService(productRepo, ledgerRepo, db, wsHub)
	orderService := service.NewOrderService(productRepo, orderRepo, ledgerRepo, customerRepo, db, wsHub)
	customerService := service.NewCustomerService(customerRepo, orderRepo, wsHub)
	settingsService := service.NewSettingsService(settingRepo, wsHub)
	authService := service.NewAuthService(staffRepo)
	notifier := service.NewNotifier(
		&service.LogChannel{ChannelName: "sms"},
		&service.LogChannel{ChannelName: "email"},
	)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, ledgerRepo)
	orderHandler := handler.NewOrderHandler(orderService)
	customerHandler := handler.NewCustomerHandler(customerService, notifier)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db)

	app := fiber.New(fiber.Config{
		AppName: "Sigma Vie Commerce v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Get("/products", catalogHandler.GetProducts)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Get("/categories", catalogHandler.GetCategories)
	api.Get("/settings/:key", settingsHandler.Get)

	api.Post("/customers", customerHandler.Register)
	api.Post("/customers/login", customerHandler.Login)

	api.Post("/orders", orderHandler.PlaceOrder)
	api.Post("/orders/checkout", orderHandler.Checkout)
	api.Post("/orders/:id/cancel", orderHandler.CancelByCustomer)

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(staffRepo), authHandler.Heartbeat)

	// ============ STAFF ROUTES ============
	staff := api.Group("", middleware.RequireAuth(staffRepo))

	staff.Post("/products", catalogHandler.CreateProduct)
	staff.Put("/products/:id", catalogHandler.UpdateProduct)
	staff.Delete("/products/:id", middleware.RequireRole(model.RoleAdmin), catalogHandler.DeleteProduct)
	staff.Post("/categories", catalogHandler.CreateCategory)
	staff.Delete("/categories/:id", middleware.RequireRole(model.RoleAdmin), catalogHandler.DeleteCategory)

	staff.Post("/stock", inventoryHandler.AdjustStock)
	staff.Get("/stock/ledger", inventoryHandler.GetLedger)
	staff.Get("/stock/ledger/:id", inventoryHandler.GetLedgerByProduct)
	staff.Get("/stock/reconcile/:id", inventoryHandler.Reconcile)
	staff.Get("/dashboard/stats", inventoryHandler.GetDashboardStats)
	staff.Get("/dashboard/stock-movement", inventoryHandler.GetStockMovement)

	staff.Get("/orders", orderHandler.GetOrders)
	staff.Get("/orders/:id", orderHandler.GetOrder)
	staff.Put("/orders/:id/status", orderHandler.UpdateStatus)

	staff.Get("/customers", customerHandler.GetCustomers)
	staff.Get("/customers/:id", customerHandler.GetCustomer)
	staff.Post("/customers/:id", customerHandler.UpdateCustomer)
	staff.Delete("/customers/:id", middleware.RequireRole(model.RoleAdmin), customerHandler.DeleteCustomer)
	staff.Post("/customers/recover", customerHandler.Recover)

	staff.Post("/settings/:key", settingsHandler.Put)
	staff.Post("/admin/send-otp", customerHandler.SendOTP)

	// WebSocket entity-update push
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		log.Info("listening", zap.String("port", port))
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// seedDefaults creates the default settings blobs and an admin account on
// first boot.
func seedDefaults(db *gorm.DB, log *zap.Logger) {
	settingRepo := repository.NewSettingRepo(db)
	staffRepo := repository.NewStaffRepo(db)

	if err := settingRepo.SeedDefaults(); err != nil {
		log.Warn("failed to seed settings", zap.Error(err))
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@sigmavie.local"
	}
	if _, err := staffRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.StaffUser{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(password); err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := staffRepo.Create(admin); err != nil {
		log.Warn("failed to create admin user", zap.Error(err))
		return
	}
	log.Info("admin user created", zap.String("email", email))
}
