package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourney-bot/internal/app/lifecycle"
	"tourney-bot/internal/app/public"
	"tourney-bot/internal/bot"
	"tourney-bot/internal/config"
	"tourney-bot/internal/logging"
	"tourney-bot/internal/notify"
	"tourney-bot/internal/session"
	"tourney-bot/internal/store"
	"tourney-bot/internal/transport/webhook"
	"tourney-bot/internal/wizard"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.Open(cfg.Bot.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink := webhook.NewSink(cfg.Bot.OutboundURL, cfg.Bot.RequestTimeout)

	notifier := notify.New(notify.Config{
		AdminIDs:        cfg.Bot.AdminIDs,
		PublicChannelID: cfg.Bot.PublicChannelID,
		Workers:         cfg.Bot.NotifyWorkers,
		Buffer:          cfg.Bot.NotifyBuffer,
		SendTimeout:     cfg.Bot.RequestTimeout,
	}, st, sink)
	notifier.Start(ctx)

	sessions := session.NewManager()
	sessions.StartJanitor(ctx, time.Minute, cfg.Bot.SessionTTL)

	engine := wizard.NewEngine(sessions)
	lifecycleSvc := lifecycle.NewService(st, notifier)
	publicSvc := public.NewService(st)
	dispatcher := bot.NewDispatcher(cfg.Bot, st, engine, lifecycleSvc, publicSvc, notifier, sink)

	server := &http.Server{
		Addr:              cfg.Bot.HTTPAddr,
		Handler:           webhook.NewRouter(st, dispatcher, publicSvc),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Bot.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		os.Exit(1)
	}
}
