package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/furnish/backend/internal/application/catalog"
	financeapp "github.com/furnish/backend/internal/application/finance"
	identityapp "github.com/furnish/backend/internal/application/identity"
	partnerapp "github.com/furnish/backend/internal/application/partner"
	procurementapp "github.com/furnish/backend/internal/application/procurement"
	salesapp "github.com/furnish/backend/internal/application/sales"
	"github.com/furnish/backend/internal/infrastructure/approval"
	"github.com/furnish/backend/internal/infrastructure/cache"
	"github.com/furnish/backend/internal/infrastructure/config"
	"github.com/furnish/backend/internal/infrastructure/logger"
	"github.com/furnish/backend/internal/infrastructure/persistence"
	"github.com/furnish/backend/internal/infrastructure/telemetry"
	"github.com/furnish/backend/internal/interfaces/http/handler"
	"github.com/furnish/backend/internal/interfaces/http/middleware"
	"github.com/furnish/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting settlement backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable at startup", zap.Error(err))
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	channelRepo := persistence.NewGormChannelRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	poRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	pendingRepo := persistence.NewGormPendingAssignmentRepository(db.DB)
	accountRepo := persistence.NewGormFinanceAccountRepository(db.DB)
	transactionRepo := persistence.NewGormAccountTransactionRepository(db.DB)
	billRepo := persistence.NewGormReceiptBillRepository(db.DB)
	statementRepo := persistence.NewGormARStatementRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRecordRepository(db.DB)
	scheduleRepo := persistence.NewGormPaymentScheduleRepository(db.DB)
	exceptionRepo := persistence.NewGormReconciliationExceptionRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	// Infrastructure services
	txManager := persistence.NewGormTxManager(db.DB)
	settingsProvider := cache.NewRedisSettingsProvider(redisClient, tenantRepo, cfg.Finance.SettingsCacheTTL, log)
	docNumberGen := cache.NewRedisSequenceGenerator(redisClient)
	poNumberGen := cache.NewPOSequenceGenerator(docNumberGen)
	orderNumberGen := cache.NewRandomOrderNumberGenerator()
	approvalSubmitter := approval.NewHTTPSubmitter(cfg.Approval, log)

	// Application services
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, settingsProvider, auditRepo, txManager, log)
	productService := catalogapp.NewProductService(productRepo, supplierRepo, auditRepo, txManager, log)
	partnerService := partnerapp.NewPartnerService(supplierRepo, channelRepo, customerRepo, auditRepo, txManager, log)
	splitService := procurementapp.NewSplitService(orderRepo, productRepo, supplierRepo, poRepo, pendingRepo,
		poNumberGen, auditRepo, txManager, log)
	orderService := salesapp.NewOrderService(quoteRepo, orderRepo, orderNumberGen, splitService,
		auditRepo, txManager, log)
	ledgerService := financeapp.NewLedgerService(accountRepo, transactionRepo, docNumberGen,
		cfg.Finance.CASRetries, auditRepo, txManager, log)
	commissionService := financeapp.NewCommissionService(channelRepo, productRepo, orderRepo, commissionRepo,
		docNumberGen, auditRepo, log)
	reconciliationService := financeapp.NewReconciliationService(orderRepo, statementRepo, exceptionRepo,
		settingsProvider, cfg.Finance.CASRetries, cfg.Finance.DefaultARTolerance,
		commissionService, docNumberGen, auditRepo, txManager, log)
	receiptService := financeapp.NewReceiptService(billRepo, accountRepo, docNumberGen, settingsProvider,
		approvalSubmitter, ledgerService, reconciliationService, auditRepo, txManager, log)
	planService := financeapp.NewPlanService(orderRepo, scheduleRepo, settingsProvider, auditRepo, txManager, log)

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine := router.New(log, cors, router.Handlers{
		Tenants:     handler.NewTenantHandler(tenantService),
		Products:    handler.NewProductHandler(productService),
		Partners:    handler.NewPartnerHandler(partnerService),
		Orders:      handler.NewOrderHandler(orderService),
		Procurement: handler.NewProcurementHandler(splitService),
		Finance: handler.NewFinanceHandler(ledgerService, receiptService, reconciliationService,
			commissionService, planService, cfg.Approval.CallbackKey),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer shutdown error", zap.Error(err))
	}

	log.Info("Stopped")
}
