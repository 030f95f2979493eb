package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"femb-paradise/internal/bot"
	"femb-paradise/internal/config"
	"femb-paradise/internal/monitoring"
	"femb-paradise/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ticketMessages, err := storage.OpenTicketMessages(cfg.TicketMessagesPath)
	if err != nil {
		logger.Fatal("ticket message store init failed", zap.String("path", cfg.TicketMessagesPath), zap.Error(err))
	}
	warns, err := storage.OpenWarns(cfg.WarnsPath)
	if err != nil {
		logger.Fatal("warn store init failed", zap.String("path", cfg.WarnsPath), zap.Error(err))
	}

	botSvc, err := bot.New(cfg, logger, bot.Stores{TicketMessages: ticketMessages, Warns: warns})
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started", zap.String("prefix", cfg.CommandPrefix))

	var server *http.Server
	if cfg.Health.Enabled {
		writable := func() error {
			return errors.Join(storage.Writable(ticketMessages.Path()), storage.Writable(warns.Path()))
		}
		checker := monitoring.NewChecker(logger, botSvc.Ready, writable)
		server = &http.Server{
			Addr:              cfg.Health.Addr,
			Handler:           monitoring.NewRouter(checker),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("monitoring endpoint enabled", zap.String("addr", cfg.Health.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("monitoring server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		_ = server.Shutdown(ctx)
	}
	botSvc.Close(ctx)
}
