package main

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/auth"
	"oficina-backend/internal/budget"
	"oficina-backend/internal/budget/export"
	"oficina-backend/internal/catalog"
	"oficina-backend/internal/clients"
	"oficina-backend/internal/config"
	"oficina-backend/internal/dashboard"
	"oficina-backend/internal/database"
	"oficina-backend/internal/expense"
	"oficina-backend/internal/inventory"
	"oficina-backend/internal/logger"
	"oficina-backend/internal/report"
	"oficina-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logg.Sync() }()

	for _, w := range cfg.Warnings() {
		logg.Warn(w)
	}

	db, err := database.Open(cfg, logg)
	if err != nil {
		logg.Fatalw("database unavailable", "error", err)
	}
	st := store.New(db, logg)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = rdb.Close() }()

	gotenberg := export.NewGotenbergClient(cfg.GotenbergURL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logg.Warnw("redis unreachable, the access gate will stay locked", "addr", cfg.RedisAddr, "error", err)
	}
	if err := gotenberg.Ping(ctx); err != nil {
		logg.Warnw("gotenberg unreachable, quote export will fail", "url", cfg.GotenbergURL, "error", err)
	}
	cancel()

	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: errorHandler(logg),
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
	}))

	app.Static("/uploads", cfg.UploadDir)

	gate := auth.NewGate(auth.NewRedisKeyValue(rdb), logg)
	reports := report.NewService(st, logg)

	api := app.Group("/api")

	// Public: gate routes must be registered before the protected group.
	api.Post("/auth/unlock", auth.UnlockHandler(cfg.JWTSecret, gate))
	api.Post("/auth/logout", auth.LogoutHandler(gate))
	api.Get("/auth/status", auth.StatusHandler(gate))

	protected := api.Group("")
	protected.Use(auth.RequireGate(cfg.JWTSecret, gate))

	// Clients
	clientSvc := clients.NewService(st, logg)
	protected.Get("/clients", clients.ListClientsHandler(clientSvc))
	protected.Post("/clients", clients.CreateClientHandler(clientSvc))

	// Products & services
	catalogSvc := catalog.NewService(st, logg)
	protected.Get("/products", catalog.ListProductsHandler(catalogSvc))
	protected.Post("/products", catalog.CreateProductHandler(catalogSvc))
	protected.Get("/services", catalog.ListServicesHandler(catalogSvc))
	protected.Post("/services", catalog.CreateServiceHandler(catalogSvc))

	// Investments
	investmentSvc := expense.NewService(st, logg)
	protected.Get("/investments", expense.ListInvestmentsHandler(investmentSvc))
	protected.Post("/investments", expense.CreateInvestmentHandler(investmentSvc))

	// Stock
	stockSvc := inventory.NewService(st, store.NewLocalBucket(cfg.UploadDir, cfg.PublicBaseURL), logg)
	protected.Get("/stock-items", inventory.ListStockItemsHandler(stockSvc))
	protected.Post("/stock-items", inventory.ReconcileStockHandler(stockSvc))
	protected.Patch("/stock-items/:id/margin", inventory.UpdateMarginHandler(stockSvc))
	protected.Get("/stock-items/:id/history", inventory.StockHistoryHandler(stockSvc))

	// Budgets
	budgetSvc := budget.NewService(st, logg)
	protected.Get("/budgets", budget.ListBudgetsHandler(budgetSvc))
	protected.Post("/budgets", budget.CreateBudgetHandler(budgetSvc))
	protected.Post("/budgets/:id/close", budget.CloseBudgetHandler(budgetSvc))
	protected.Get("/budgets/:id/pdf", budget.ExportBudgetHandler(budgetSvc, export.NewPDFExporter(gotenberg)))

	// Reports
	protected.Get("/reports", report.ReportHandler(reports))
	protected.Get("/reports/export.xlsx", report.ExportReportHandler(reports))

	// Dashboard
	protected.Get("/dashboard/chart", dashboard.ChartHandler(reports))
	protected.Get("/dashboard/chart.svg", dashboard.ChartSVGHandler(reports))

	logg.Infow("server listening", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logg.Fatalw("server stopped", "error", err)
	}
}

func errorHandler(logg *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				logg.Warnw("request failed", "path", c.Path(), "kind", appErr.Kind.String(), "error", err)
			}
			return c.Status(appErr.Kind.Status()).JSON(fiber.Map{
				"error": appErr.Message,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
			})
		}

		logg.Errorw("unexpected error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": apperr.InternalMessage,
		})
	}
}
