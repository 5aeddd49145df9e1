// Command aegisd runs the AegisNet appliance: the discovery and fingerprint
// engine, the passive traffic analyzer, and the HTTP/WebSocket gateway that
// exposes them to a single authenticated operator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aegisnet/appliance/internal/auth"
	"github.com/aegisnet/appliance/internal/config"
	"github.com/aegisnet/appliance/internal/dfe"
	"github.com/aegisnet/appliance/internal/event"
	"github.com/aegisnet/appliance/internal/gateway"
	"github.com/aegisnet/appliance/internal/pta"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println("aegisd (dev build)")
		return
	}

	configPath := flag.String("config", "", "path to aegisnet config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "aegisd:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	v, err := gateway.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer logger.Sync()

	if err := config.New(v).Required("gateway.jwt_secret", "gateway.operator_password_hash"); err != nil {
		return err
	}

	var gwCfg gateway.Config
	if err := config.New(v).Sub("gateway").Unmarshal(&gwCfg); err != nil {
		return fmt.Errorf("unmarshal gateway config: %w", err)
	}

	dfeCfg := dfe.DefaultConfig()
	if err := config.New(v).Sub("dfe").Unmarshal(&dfeCfg); err != nil {
		return fmt.Errorf("unmarshal dfe config: %w", err)
	}

	ptaCfg := pta.DefaultConfig()
	if err := config.New(v).Sub("pta").Unmarshal(&ptaCfg); err != nil {
		return fmt.Errorf("unmarshal pta config: %w", err)
	}

	bus := event.NewBus(logger)

	history, err := dfe.OpenHistoryStore(dfeCfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("open scan history store: %w", err)
	}
	defer history.Close()

	oui := dfe.NewOuiDb()
	if err := oui.Load(context.Background(), dfeCfg.OUISnapshotDir); err != nil {
		logger.Warn("OUI snapshot unavailable; using static table only", zap.Error(err))
	}
	// The gateway's scan handler records each scan attempt, so the scanner
	// gets no history store of its own (one row per scan).
	scanner := dfe.NewScanner(dfeCfg, oui, nil, bus, logger.Named("dfe"))
	analyzer := pta.NewAnalyzer(ptaCfg, bus, logger.Named("pta"), pta.NewNetReverseResolver())

	tokens := auth.NewTokenService([]byte(gwCfg.JWTSecret), gwCfg.TokenTTL)
	authService := auth.NewService(gwCfg.OperatorUser, gwCfg.OperatorHash, tokens, logger.Named("auth"))
	authHandler := auth.NewHandler(authService, logger.Named("auth"))

	handlers := gateway.NewHandlers(scanner, history, analyzer, logger.Named("gateway"))
	streamHandler := gateway.NewStreamHandler(tokens, bus, logger.Named("gateway.stream"))

	srv := gateway.New(gwCfg, logger, authHandler, handlers, streamHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	captureCtx, cancelCapture := context.WithCancel(context.Background())
	defer cancelCapture()
	if err := analyzer.Start(captureCtx); err != nil {
		logger.Warn("passive traffic analyzer failed to start", zap.Error(err))
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	logger.Info("aegisd started", zap.String("addr", gwCfg.Addr()))

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("gateway server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := analyzer.Stop(shutdownCtx); err != nil {
		logger.Warn("passive traffic analyzer stop error", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("gateway shutdown: %w", err)
	}

	logger.Info("aegisd stopped")
	return nil
}
