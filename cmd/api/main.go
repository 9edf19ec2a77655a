package main

import (
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bazaarhq/marketplace/internal/carrier"
	"github.com/bazaarhq/marketplace/internal/config"
	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/handlers"
	"github.com/bazaarhq/marketplace/internal/messaging"
	"github.com/bazaarhq/marketplace/internal/repository"
	"github.com/bazaarhq/marketplace/internal/service"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
)

func main() {
	log.Println("🚀 Marketplace API starting...")

	cfg := config.Load()

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer db.Close()

	rabbitClient := messaging.NewRabbitMQClient(cfg.AMQP)
	if err := rabbitClient.Connect(); err != nil {
		log.Fatalf("RabbitMQ connection error: %v", err)
	}
	defer rabbitClient.Close()
	publisher := messaging.NewPublisher(rabbitClient)

	carrierClient := newCarrierClient(cfg.Carrier)

	// Repositories
	products := repository.NewPostgresProducts(db)
	carts := repository.NewPostgresCarts(db)
	wishlists := repository.NewPostgresWishlists(db)
	orders := repository.NewPostgresOrders(db)
	coupons := repository.NewPostgresCoupons(db)
	shipments := repository.NewPostgresShipments(db)
	txManager := repository.NewPostgresTxManager(db)

	// Services
	productService := service.NewProductService(products)
	cartService := service.NewCartService(carts, products, cfg.Pricing)
	wishlistService := service.NewWishlistService(wishlists, products, carts)
	couponService := service.NewCouponService(coupons)
	orderService := service.NewOrderService(orders, products, carts, coupons, txManager, publisher, cfg.Pricing)
	shippingService := service.NewShippingService(shipments, orderService, carrierClient)

	// Handlers
	validate := validatorv10.New()
	productHandler := handlers.NewProductHandler(productService, validate)
	cartHandler := handlers.NewCartHandler(cartService, wishlistService, validate)
	couponHandler := handlers.NewCouponHandler(couponService, validate)
	orderHandler := handlers.NewOrderHandler(orderService, validate)
	shippingHandler := handlers.NewShippingHandler(shippingService, validate)

	app := setupFiberApp()
	setupRoutes(app, productHandler, cartHandler, couponHandler, orderHandler, shippingHandler)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Marketplace API closing...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("🌍 Marketplace API working: http://localhost:%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server start error: %v", err)
	}
}

func initDatabase(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	log.Printf("✅ Database connected: %s", cfg.Database.Name)
	return db, nil
}

func newCarrierClient(cfg config.CarrierConfig) carrier.Client {
	if cfg.UseMock {
		log.Println("📦 Using simulated carrier")
		return carrier.NewMockClient(0)
	}
	return carrier.NewHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Marketplace API v1.0",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID,X-User-ID,X-User-Role",
	}))

	return app
}

func setupRoutes(
	app *fiber.App,
	productHandler *handlers.ProductHandler,
	cartHandler *handlers.CartHandler,
	couponHandler *handlers.CouponHandler,
	orderHandler *handlers.OrderHandler,
	shippingHandler *handlers.ShippingHandler,
) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "service": "marketplace-api"})
	})

	// Catalog: reads are public, writes are vendor or admin only
	vendorOnly := []fiber.Handler{handlers.Authenticate(), handlers.RequireRole(domain.RoleVendor, domain.RoleAdmin)}
	productsGroup := api.Group("/products")
	productsGroup.Get("/", productHandler.ListProducts)
	productsGroup.Get("/:id", productHandler.GetProduct)
	productsGroup.Post("/", append(vendorOnly, productHandler.CreateProduct)...)
	productsGroup.Put("/:id", append(vendorOnly, productHandler.UpdateProduct)...)
	productsGroup.Delete("/:id", append(vendorOnly, productHandler.DeleteProduct)...)
	productsGroup.Post("/:id/restock", append(vendorOnly, productHandler.RestockProduct)...)

	// Carrier callbacks carry no user identity
	api.Post("/shipping/webhook", shippingHandler.CarrierWebhook)

	cart := api.Group("/cart", handlers.Authenticate())
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/items", cartHandler.AddItem)
	cart.Put("/items/:productId", cartHandler.UpdateItem)
	cart.Delete("/items/:productId", cartHandler.RemoveItem)
	cart.Delete("/", cartHandler.ClearCart)

	wishlist := api.Group("/wishlist", handlers.Authenticate())
	wishlist.Get("/", cartHandler.GetWishlist)
	wishlist.Post("/items", cartHandler.AddToWishlist)
	wishlist.Delete("/items/:productId", cartHandler.RemoveFromWishlist)
	wishlist.Post("/items/:productId/move-to-cart", cartHandler.MoveToCart)

	api.Post("/coupons/validate", handlers.Authenticate(), couponHandler.ValidateCoupon)

	ordersGroup := api.Group("/orders", handlers.Authenticate())
	ordersGroup.Post("/", orderHandler.CreateOrder)
	ordersGroup.Get("/", orderHandler.ListMyOrders)
	ordersGroup.Get("/:id", orderHandler.GetOrder)
	ordersGroup.Put("/:id/cancel", orderHandler.CancelOrder)
	ordersGroup.Get("/:id/tracking", shippingHandler.TrackOrder)

	admin := api.Group("/admin", handlers.Authenticate(), handlers.RequireRole(domain.RoleAdmin))
	admin.Get("/orders", orderHandler.ListOrders)
	admin.Put("/orders/:id/status", orderHandler.UpdateStatus)
	admin.Post("/orders/:id/ship", shippingHandler.ShipOrder)
	admin.Post("/coupons", couponHandler.CreateCoupon)
	admin.Get("/coupons", couponHandler.ListCoupons)
	admin.Delete("/coupons/:code", couponHandler.DeactivateCoupon)

	app.Use("*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
