package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"concierge/internal/api"
	"concierge/internal/calendar"
	"concierge/internal/catalog"
	"concierge/internal/concierge"
	"concierge/internal/config"
	"concierge/internal/database"
	"concierge/internal/inventory"
	"concierge/internal/monitoring"
	"concierge/internal/ordering"
	"concierge/internal/planner"
	"concierge/internal/report"

	"github.com/jinzhu/gorm"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	mode       = flag.String("mode", "report", "Run mode: report, serve or token")
	port       = flag.Int("port", 0, "API server port (overrides config)")
	days       = flag.Int("days", planner.DefaultDays, "Number of days to plan for in report mode")
	autoOrder  = flag.Bool("auto-order", false, "Place the grocery order in report mode")
	prefs      = flag.String("prefs", "vegetarian", "Comma-separated dietary preferences for report mode")
	subject    = flag.String("subject", "household", "Token subject in token mode")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogging(cfg.LogLevel)

	if *mode == "token" {
		if err := printToken(cfg); err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		return
	}

	doc, db, err := initializeDocument(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize inventory storage: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	var metrics *monitoring.MetricsCollector
	if cfg.Metrics.Enabled {
		metrics = monitoring.NewMetricsCollector()
	}

	app := initializeConcierge(cfg, doc, metrics)

	switch *mode {
	case "report":
		runReport(app)
	case "serve":
		runServer(cfg, app, metrics)
	default:
		log.Fatalf("Unknown mode %q", *mode)
	}
}

func configureLogging(level string) {
	switch level {
	case "debug":
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	case "silent":
		log.SetOutput(io.Discard)
	}
}

func initializeDocument(cfg *config.Config) (inventory.Document, *gorm.DB, error) {
	if cfg.Inventory.Backend != config.BackendDatabase {
		return database.NewFileDocument(cfg.Inventory.Path), nil, nil
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	return database.NewGormDocument(db, cfg.Inventory.DocumentKey), db, nil
}

func initializeLLM(cfg *config.Config) planner.Generator {
	if !cfg.LLMConfigured() {
		return nil
	}

	model, err := planner.NewModel(cfg.LLMProvider, cfg.LLMToken(), cfg.Model, cfg.OpenAIBaseURL)
	if err != nil {
		log.Printf("Failed to initialize LLM, using mock responses: %v", err)
		return nil
	}
	return planner.NewLLMGenerator(model,
		planner.WithTimeout(cfg.LLMTimeout),
		planner.WithMaxTokens(cfg.MaxTokens),
	)
}

func initializeConcierge(cfg *config.Config, doc inventory.Document, metrics *monitoring.MetricsCollector) *concierge.Concierge {
	opts := []concierge.Option{
		concierge.WithCredentials(cfg.StoreAPIKey, cfg.CalendarCredentials),
	}
	if metrics != nil {
		opts = append(opts, concierge.WithMetrics(metrics))
	}

	return concierge.New(
		inventory.Open(doc),
		planner.New(initializeLLM(cfg)),
		catalog.NewResolver(catalog.DefaultCatalog().Merge(cfg.CatalogEntries()), nil),
		ordering.NewSynthesizer(nil, nil),
		calendar.NewScheduler(nil, nil),
		opts...,
	)
}

func runReport(app *concierge.Concierge) {
	fmt.Println(report.Welcome())
	fmt.Println(report.DailyCheck(app.DailyCheck()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	result := app.PlanAndOrder(ctx, *days, splitPreferences(*prefs), *autoOrder)
	fmt.Println(report.Plan(result))

	fmt.Println(report.Status(app.SystemStatus()))
}

func splitPreferences(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runServer(cfg *config.Config, app *concierge.Concierge, metrics *monitoring.MetricsCollector) {
	listenPort := cfg.API.Port
	if *port != 0 {
		listenPort = *port
	}

	opts := []api.Option{api.WithJWTSecret(cfg.API.JWTSecret)}
	if metrics != nil {
		opts = append(opts, api.WithMetrics(metrics, cfg.Metrics.Path))
	}
	srv := api.NewServer(app, opts...)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", listenPort),
		Handler: srv.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", listenPort)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func printToken(cfg *config.Config) error {
	if cfg.API.JWTSecret == "" {
		return fmt.Errorf("api.jwt_secret is not configured")
	}
	token, err := api.GenerateToken(cfg.API.JWTSecret, *subject, 24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
