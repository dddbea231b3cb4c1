package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rpggio/launchpad/internal/config"
	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/catalog"
	"github.com/rpggio/launchpad/internal/domain/entry"
	"github.com/rpggio/launchpad/internal/domain/profile"
	"github.com/rpggio/launchpad/internal/domain/ratelimit"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	"github.com/rpggio/launchpad/internal/mcp"
	"github.com/rpggio/launchpad/internal/sqlite"
	"github.com/rpggio/launchpad/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"
)

type flags struct {
	configPath string
	transport  string
	operator   string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	flagSet := pflag.NewFlagSet("launchpad", pflag.ContinueOnError)
	flagSet.StringVar(&f.configPath, "config", "", "path to a YAML config file (default: $LAUNCHPAD_CONFIG_PATH)")
	flagSet.StringVar(&f.transport, "transport", "", "http or stdio (overrides config)")
	flagSet.StringVar(&f.operator, "operator", "", "stdio only: act as this user id with admin and pro capabilities")
	if err := flagSet.Parse(args); err != nil {
		return f, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return f, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return f, nil
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "flag error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if f.transport != "" {
		cfg.Transport.Mode = f.transport
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	entryRepo := sqlite.NewEntryRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	entrySvc := entry.NewService(entryRepo, logger)
	profileSvc := profile.NewService(sqlite.NewProfileRepository(db), logger)
	activitySvc := activity.NewService(activityRepo, logger)
	boostSvc := boost.NewService(sqlite.NewBoostRepository(db), sqlite.NewFeaturedRepository(db), entrySvc, cfg.Catalog.Boost, logger)
	reputationSvc := reputation.NewService(entryRepo, cfg.Catalog.Reputation, logger)
	limiter := ratelimit.NewLimiter(activityRepo, cfg.Catalog.Policies(), logger)
	catalogSvc := catalog.NewService(entrySvc, boostSvc, limiter, activitySvc, reputationSvc, logger)

	verifier := transport.NewTokenVerifier(cfg.Auth.JWTSecret)

	if cfg.Transport.Mode == "stdio" {
		local, err := operatorViewer(profileSvc, f.operator)
		if err != nil {
			logger.Error("failed to register operator", "operator", f.operator, "error", err)
			os.Exit(1)
		}
		mcpServer := mcp.NewServer(mcp.Config{
			Catalog:       catalogSvc,
			TransportMode: "stdio",
			LocalViewer:   local,
			Logger:        logger,
		})
		runStdioMode(logger, mcpServer, local)
		return
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("no JWT secret configured, every request is anonymous")
	}
	mcpServer := mcp.NewServer(mcp.Config{
		Catalog:       catalogSvc,
		Verifier:      verifier,
		Viewers:       profileSvc,
		TransportMode: "http",
		Logger:        logger,
	})
	router := transport.NewServer(transport.Options{
		Catalog:         catalogSvc,
		Verifier:        verifier,
		Viewers:         profileSvc,
		FingerprintSalt: cfg.Catalog.FingerprintSalt,
		AllowedOrigins:  cfg.Auth.AllowedOrigins,
		Throttle:        transport.NewThrottle(cfg.Throttle.RequestsPerSecond, cfg.Throttle.Burst, logger),
		MCP:             mcp.NewHTTPHandler(mcpServer),
		Logger:          logger,
	})
	runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port)
}

// operatorViewer registers the stdio operator as a pro administrator.
// Without an operator the local caller is anonymous.
func operatorViewer(profiles *profile.Service, id string) (entry.Viewer, error) {
	if id == "" {
		return entry.Anonymous(), nil
	}
	p, err := profiles.Upsert(context.Background(), profile.UpsertRequest{
		ID:          id,
		DisplayName: id,
		Tier:        profile.TierPro,
		Role:        profile.RoleAdmin,
	})
	if err != nil {
		return entry.Viewer{}, err
	}
	return p.Viewer(), nil
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server, local entry.Viewer) {
	logger.Info("starting stdio transport", "operator", local.ID)

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
