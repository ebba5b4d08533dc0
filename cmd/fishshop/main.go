//	@title						Fish Shop API
//	@version					1.0
//	@description				Storefront, cart, ordering and admin API for a fresh fish shop.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aaravmahajanofficial/fishshop-backend/docs"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/handlers"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/cache"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/config"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/health"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/metrics"
	repository "github.com/aaravmahajanofficial/fishshop-backend/internal/repositories"
	service "github.com/aaravmahajanofficial/fishshop-backend/internal/services"
	"github.com/aaravmahajanofficial/fishshop-backend/internal/telemetry"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/pincode"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/sendgrid"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/sms"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/stripe"
	"github.com/aaravmahajanofficial/fishshop-backend/pkg/telegram"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	shutdownTracer, err := telemetry.InitTracer(startupCtx, cfg)
	if err != nil {
		slog.Error("❌ Error initialising tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(startupCtx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.Close(closeCtx); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	// Third-party clients
	jwtKey := []byte(cfg.Security.JWTKey)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	telegramClient := telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken, cfg.Telegram.ChatID, nil)
	pincodeClient := pincode.NewClient(cfg.Pincode.BaseURL, cfg.Pincode.Timeout)

	var smsSender sms.Sender
	if cfg.SMS.GatewayURL != "" {
		smsSender = sms.NewHTTPSender(cfg.SMS.GatewayURL, cfg.SMS.APIKey, cfg.SMS.SenderID, cfg.SMS.Timeout)
	} else {
		slog.Warn("⚠️ No SMS gateway configured, OTPs will only be logged")
		smsSender = sms.NewLogSender(logger)
	}

	tokenTTL := time.Duration(cfg.Security.JWTExpiryHours) * time.Hour

	// Services
	throttleService := service.NewThrottleService(repos.Device)
	authService := service.NewAuthService(repos.User, repository.NewOTPRepo(redisClient), throttleService, smsSender, service.AuthConfig{
		JWTKey:            jwtKey,
		TokenTTL:          tokenTTL,
		CodeTTL:           cfg.OTP.CodeTTL,
		MaxVerifyAttempts: cfg.OTP.MaxVerifyAttempts,
		ThrottleFailOpen:  cfg.OTP.ThrottleFailOpen,
		DevEcho:           cfg.OTP.DevEcho && !cfg.IsProduction(),
	})
	loginLimiter := repository.NewLoginLimiter(redisClient, cfg.Security.AdminLoginMaxAttempts, cfg.Security.AdminLoginWindow)
	adminService := service.NewAdminService(repos.Admin, loginLimiter, jwtKey, tokenTTL)
	catalogService := service.NewCatalogService(repos.Product, repos.Category, catalogCache)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	addressService := service.NewAddressService(repos.Address, pincodeClient, catalogCache, cfg.Pincode.Serviceable)
	offerService := service.NewOfferService(repos.Offer)
	paymentService := service.NewPaymentService(repos.Payment, repos.Order, stripeClient, cfg.Shop.Currency)
	notificationService := service.NewNotificationService(repos.Notification, telegramClient, sendGridClient, service.NotificationConfig{
		ShopName:     cfg.Shop.Name,
		ShopEmail:    cfg.Shop.NotificationEmail,
		TelegramChat: cfg.Telegram.ChatID,
	})
	orderService := service.NewOrderService(service.OrderDeps{
		Orders:        repos.Order,
		Carts:         repos.Cart,
		Products:      repos.Product,
		Addresses:     repos.Address,
		Offers:        offerService,
		Payments:      paymentService,
		Notifications: notificationService,
	}, service.OrderConfig{
		DeliveryFee: cfg.Shop.DeliveryFee,
		ShopPhone:   cfg.WhatsApp.ShopPhone,
		PublicURL:   cfg.PublicURL,
	})

	if cfg.Admin.Username != "" {
		created, err := adminService.Bootstrap(startupCtx, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			slog.Error("❌ Error creating the admin account", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if created {
			slog.Info("✅ Admin account created", slog.String("username", cfg.Admin.Username))
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(adminService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	addressHandler := handlers.NewAddressHandler(addressService)
	offerHandler := handlers.NewOfferHandler(offerService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey, authService)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{StripeClient: stripeClient})
	if err != nil {
		slog.Error("❌ Error creating the health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	// Auth
	routerMux.HandleFunc("POST /api/v1/auth/otp/send", authHandler.SendOTP())
	routerMux.HandleFunc("POST /api/v1/auth/otp/verify", authHandler.VerifyOTP())
	routerMux.HandleFunc("POST /api/v1/auth/logout", authMiddleware.Authenticate(authHandler.Logout()))
	routerMux.HandleFunc("GET /api/v1/users/me", authMiddleware.Authenticate(authHandler.GetProfile()))
	routerMux.HandleFunc("PATCH /api/v1/users/me", authMiddleware.Authenticate(authHandler.UpdateProfile()))
	routerMux.HandleFunc("POST /api/v1/admin/login", adminHandler.Login())

	// Catalog
	routerMux.HandleFunc("GET /api/v1/categories", catalogHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts(true))
	routerMux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/products/{id}/image", catalogHandler.GetImage())
	routerMux.HandleFunc("POST /api/v1/admin/categories", authMiddleware.RequireAdmin(catalogHandler.CreateCategory()))
	routerMux.HandleFunc("DELETE /api/v1/admin/categories/{id}", authMiddleware.RequireAdmin(catalogHandler.DeleteCategory()))
	routerMux.HandleFunc("GET /api/v1/admin/products", authMiddleware.RequireAdmin(catalogHandler.ListProducts(false)))
	routerMux.HandleFunc("POST /api/v1/admin/products", authMiddleware.RequireAdmin(catalogHandler.CreateProduct()))
	routerMux.HandleFunc("PATCH /api/v1/admin/products/{id}", authMiddleware.RequireAdmin(catalogHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/admin/products/{id}", authMiddleware.RequireAdmin(catalogHandler.DeleteProduct()))
	routerMux.HandleFunc("PUT /api/v1/admin/products/{id}/image", authMiddleware.RequireAdmin(catalogHandler.UploadImage()))

	// Cart (session scoped, no login needed)
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("GET /api/v1/cart/count", cartHandler.CountItems())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddToCart())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", cartHandler.RemoveLine())
	routerMux.HandleFunc("POST /api/v1/cart/items/{productId}/increment", cartHandler.Increment())
	routerMux.HandleFunc("POST /api/v1/cart/items/{productId}/decrement", cartHandler.Decrement())
	routerMux.HandleFunc("POST /api/v1/cart/items/{productId}/add", cartHandler.AddSpecific())
	routerMux.HandleFunc("POST /api/v1/cart/items/{productId}/remove", cartHandler.RemoveSpecific())

	// Addresses
	routerMux.HandleFunc("GET /api/v1/pincodes/{pincode}", addressHandler.VerifyPincode())
	routerMux.HandleFunc("POST /api/v1/addresses", authMiddleware.Authenticate(addressHandler.CreateAddress()))
	routerMux.HandleFunc("GET /api/v1/addresses", authMiddleware.Authenticate(addressHandler.ListAddresses()))
	routerMux.HandleFunc("GET /api/v1/addresses/{id}", authMiddleware.Authenticate(addressHandler.GetAddress()))
	routerMux.HandleFunc("PATCH /api/v1/addresses/{id}", authMiddleware.Authenticate(addressHandler.UpdateAddress()))
	routerMux.HandleFunc("DELETE /api/v1/addresses/{id}", authMiddleware.Authenticate(addressHandler.DeleteAddress()))
	routerMux.HandleFunc("POST /api/v1/addresses/{id}/default", authMiddleware.Authenticate(addressHandler.SetDefault()))

	// Offers
	routerMux.HandleFunc("GET /api/v1/offers", offerHandler.ListOffers(true))
	routerMux.HandleFunc("POST /api/v1/offers/apply", offerHandler.ApplyOffer())
	routerMux.HandleFunc("GET /api/v1/admin/offers", authMiddleware.RequireAdmin(offerHandler.ListOffers(false)))
	routerMux.HandleFunc("POST /api/v1/admin/offers", authMiddleware.RequireAdmin(offerHandler.CreateOffer()))
	routerMux.HandleFunc("POST /api/v1/admin/offers/{id}/deactivate", authMiddleware.RequireAdmin(offerHandler.Deactivate()))

	// Orders
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.PlaceOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/orders/{id}/cancel", authMiddleware.Authenticate(orderHandler.CancelOrder()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}/share/{provider}", authMiddleware.Authenticate(orderHandler.ShareOrder()))
	routerMux.HandleFunc("GET /api/v1/admin/orders", authMiddleware.RequireAdmin(orderHandler.ListAllOrders()))
	routerMux.HandleFunc("PATCH /api/v1/admin/orders/{id}/status", authMiddleware.RequireAdmin(orderHandler.UpdateOrderStatus()))

	// Payments
	routerMux.HandleFunc("POST /api/v1/payments", authMiddleware.Authenticate(paymentHandler.CreatePayment()))
	routerMux.HandleFunc("GET /api/v1/payments", authMiddleware.Authenticate(paymentHandler.ListPayments()))
	routerMux.HandleFunc("GET /api/v1/payments/{id}", authMiddleware.Authenticate(paymentHandler.GetPayment()))
	routerMux.HandleFunc("POST /api/v1/payments/webhook", paymentHandler.HandleStripeWebhook())

	// Notifications
	routerMux.HandleFunc("POST /api/v1/admin/notifications/email", authMiddleware.RequireAdmin(notificationHandler.SendEmail()))
	routerMux.HandleFunc("GET /api/v1/admin/notifications", authMiddleware.RequireAdmin(notificationHandler.ListNotifications()))

	// Operations
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		slog.Error("❌ Error parsing trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = trustedProxies.Middleware(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "fishshop-http")

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Failed to flush traces", slog.String("error", err.Error()))
	}
}
