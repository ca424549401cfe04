// annad is the local sysadmin daemon: it answers sysadmin questions by
// translating them through an LLM collaborator, running read-only probes,
// grading the result for reliability, and serving everything over a local
// Unix socket (spec §1, §6).
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jjgarcianorway/annad/internal/config"
	"github.com/jjgarcianorway/annad/internal/fact"
	"github.com/jjgarcianorway/annad/internal/ipc"
	"github.com/jjgarcianorway/annad/internal/knowledge"
	"github.com/jjgarcianorway/annad/internal/llm"
	"github.com/jjgarcianorway/annad/internal/pipeline"
	"github.com/jjgarcianorway/annad/internal/probe"
	"github.com/jjgarcianorway/annad/internal/store/entdb"
	"github.com/jjgarcianorway/annad/internal/telemetry"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "/etc/anna"),
		"path to the configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
	}

	ginMode := getEnv("GIN_MODE", "release")
	gin.SetMode(ginMode)

	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}
	if cfg.System.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.System.LogLevel)); err == nil {
			logLevel.Set(lvl)
		}
	}

	logger.Info("starting annad", "config_dir", *configDir, "store_backend", cfg.Store.Backend)

	if err := os.MkdirAll(cfg.System.DataDir, 0o750); err != nil {
		log.Fatalf("failed to create data dir %s: %v", cfg.System.DataDir, err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.System.SocketPath), 0o750); err != nil {
		log.Fatalf("failed to create socket dir: %v", err)
	}

	factStore, docStore, closeStore := mustBuildStores(ctx, cfg, logger)
	defer closeStore()

	catalog := probe.StandardCatalog()
	if errs := catalog.ApplyOverrides(cfg.Probe.Overrides); len(errs) > 0 {
		for _, e := range errs {
			logger.Warn("probe override rejected", "error", e)
		}
	}
	runner := probe.NewRunner(catalog, cfg.Probe.MaxFanout, cfg.Probe.OutputCapBytes)

	transport, err := llm.NewGRPCTransport(cfg.LLM.Endpoint)
	if err != nil {
		log.Fatalf("failed to create LLM transport: %v", err)
	}
	defer transport.Close()
	translator := llm.NewAdapter(transport, logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Telemetry.Path), 0o750); err != nil {
		log.Fatalf("failed to create telemetry dir: %v", err)
	}
	telemetryWriter, err := telemetry.NewWriter(cfg.Telemetry.Path)
	if err != nil {
		log.Fatalf("failed to open telemetry log: %v", err)
	}
	defer telemetryWriter.Close()

	svc := &pipeline.Service{
		Catalog:           catalog,
		Runner:            runner,
		Translator:        translator,
		Facts:             factStore,
		Docs:              docStore,
		Telemetry:         telemetryWriter,
		FallbackTemplate:  "Could you say more about what you'd like to know?",
		TicketDeadline:    cfg.Triage.TicketDeadline,
		ResolvedThreshold: 60,
		Tickets:           pipeline.NewTicketStore(0),
		Logger:            logger,
	}

	advisor := pipeline.NewAdvisor(runner, "sysadmin", cfg.Advice.CooldownHours)
	advisor.Logger = logger
	go advisor.Start(ctx, cfg.Advice.Interval)

	go runStaleFactSweeper(ctx, factStore, cfg.Fact.StaleSweepInterval, logger)

	server := &ipc.Server{
		SocketPath: cfg.System.SocketPath,
		Service:    svc,
		Facts:      factStore,
		Advisor:    advisor,
		Logger:     logger,
	}

	go func() {
		if err := server.Serve(ctx); err != nil {
			logger.Error("ipc server stopped", "error", err)
		}
	}()

	httpServer := buildDebugHTTPServer(cfg.System.DebugHTTPAddr, svc)
	go func() {
		if httpServer == nil {
			return
		}
		logger.Info("debug HTTP listening", "addr", cfg.System.DebugHTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("debug HTTP server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down annad")

	_ = server.Close()
	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}
}

// mustBuildStores selects the fact/knowledge backend per cfg.Store.Backend
// (spec §4.10's backend is an implementation detail, not a protocol
// concern), returning a no-op close func for the in-memory default.
func mustBuildStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (fact.Store, knowledge.DocStore, func()) {
	if cfg.Store.Backend != "postgres" {
		logger.Info("using in-memory fact/knowledge store")
		return fact.NewMemStore(&cfg.Fact), knowledge.NewMemDocStore(), func() {}
	}

	dbCfg, err := entdb.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("failed to load database config: %v", err)
	}
	client, err := entdb.NewClient(ctx, dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := entdb.CreateTextSearchIndex(ctx, client); err != nil {
		logger.Warn("failed to create knowledge full-text index", "error", err)
	}

	logger.Info("using postgres fact/knowledge store", "database", dbCfg.Database)
	return entdb.NewFactStore(client, &cfg.Fact), entdb.NewDocStore(client), client.Close
}

// runStaleFactSweeper periodically transitions Active facts whose TTL has
// elapsed to Stale (spec §4.10), independent of the query-handling path.
func runStaleFactSweeper(ctx context.Context, store fact.Store, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			count, err := store.SweepStale(ctx, now)
			if err != nil {
				logger.Warn("stale fact sweep failed", "error", err)
				continue
			}
			if count > 0 {
				logger.Info("swept stale facts", "count", count)
			}
		}
	}
}

// buildDebugHTTPServer mirrors the teacher's loopback health endpoint
// (cmd/tarsy/main.go), extended with a /debug/query convenience route for local
// debugging without a UDS client. A blank addr disables the debug surface.
func buildDebugHTTPServer(addr string, svc *pipeline.Service) *http.Server {
	if addr == "" {
		return nil
	}

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.POST("/debug/query", func(c *gin.Context) {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result := svc.HandleQuery(c.Request.Context(), body.Text)
		c.JSON(http.StatusOK, gin.H{
			"answer":      result.Answer,
			"reliability": result.Reliability,
			"ticket_id":   result.Ticket.ID,
		})
	})

	return &http.Server{Addr: addr, Handler: router}
}
