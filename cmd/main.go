package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"storefront-bot/internal/api"
	"storefront-bot/internal/config"
	"storefront-bot/internal/notifier"
	"storefront-bot/internal/repository"
	"storefront-bot/internal/service"
	"storefront-bot/internal/session"
	"storefront-bot/migrations"
)

func connectDB(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB")
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB after retries: %v", err)
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg.MySQLDSN)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateProducts(3, db); err != nil {
		log.Fatalf("Failed to migrate products table: %v", err)
	}
	if err := migrations.AutoMigrateCustomers(3, db); err != nil {
		log.Fatalf("Failed to migrate customers table: %v", err)
	}
	if err := migrations.AutoMigrateCarts(3, db); err != nil {
		log.Fatalf("Failed to migrate cart tables: %v", err)
	}
	if err := migrations.AutoMigrateOrders(3, db); err != nil {
		log.Fatalf("Failed to migrate order tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter(cfg.NoticeTopic)
	publisher := notifier.NewKafkaPublisher(kafkaWriter)

	// The relay hands notices to the transport; with no bot wired in it logs.
	relay := notifier.NewRelay(config.NewKafkaReader(cfg.NoticeTopic, "notice-relay-group"), notifier.LogSender{})
	go relay.Start(context.Background())

	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	pending := session.NewRedisStore(rdb)
	variants := config.Variants()

	catalogService := service.NewCatalogService(productRepo, variants, pending, rdb)
	cartService := service.NewCartService(productRepo, cartRepo, variants, pending)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, customerRepo, publisher)
	adminService := service.NewAdminOrderService(orderRepo, publisher)
	customerService := service.NewCustomerService(customerRepo)

	handler := api.NewHandler(catalogService, cartService, checkoutService, adminService, customerService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(1),
				Burst:     3,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// User-facing commands (called by the bot transport)
	e.POST("/start", handler.Start)
	e.GET("/catalog", handler.Catalog)
	e.GET("/catalog/:id", handler.Product)
	e.GET("/cart/:userID", handler.ViewCart)
	e.POST("/cart/items", handler.AddItem)
	e.POST("/cart/custom-quantity", handler.RequestCustomQuantity)
	e.POST("/cart/quantity-text", handler.SubmitQuantityText)
	e.POST("/cart/cancel", handler.CancelPending)
	e.DELETE("/cart/:userID", handler.ClearCart)
	e.POST("/checkout", handler.Checkout)
	e.GET("/discount/:userID", handler.RequestDiscount)
	e.POST("/discount/confirm", handler.ConfirmDiscountRequest)

	// Admin console
	admin := e.Group("/admin", echojwt.JWT([]byte(cfg.JWTSecret)))
	admin.GET("/orders/pending", handler.ListPendingOrders)
	admin.GET("/orders/:id", handler.GetOrder)
	admin.POST("/orders/:id/:action", handler.TransitionOrder)
	admin.POST("/products", handler.CreateProduct)
	admin.POST("/products/:id/enable", handler.EnableProduct)
	admin.POST("/products/:id/disable", handler.DisableProduct)
	admin.DELETE("/products/:id", handler.DeleteProduct)
	admin.POST("/products/action", handler.RequestProductAction)
	admin.POST("/products/id-text", handler.SubmitProductIDText)
	admin.GET("/products/warmup-cache", handler.WarmCache)

	// Token minting for the transport: the caller proves it shares the secret
	// and names a configured admin id.
	e.POST("/auth/token", func(c echo.Context) error {
		req := struct {
			AdminID int64 `json:"admin_id"`
		}{}
		if err := c.Bind(&req); err != nil {
			return c.JSON(400, map[string]string{"error": "Invalid request payload"})
		}
		if c.Request().Header.Get("X-Internal-Secret") != cfg.JWTSecret {
			return c.JSON(401, map[string]string{"error": "Unauthorized"})
		}
		allowed := false
		for _, id := range cfg.AdminIDs {
			if id == req.AdminID {
				allowed = true
				break
			}
		}
		if !allowed {
			return c.JSON(403, map[string]string{"error": "not an admin"})
		}
		token, err := api.MintAdminToken(cfg.JWTSecret, req.AdminID)
		if err != nil {
			return c.JSON(500, map[string]string{"error": err.Error()})
		}
		return c.JSON(200, map[string]string{"token": token})
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "storefront-bot",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
