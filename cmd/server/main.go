package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/Danamat07/split-the-bill/internal/config"
	"github.com/Danamat07/split-the-bill/internal/currency"
	"github.com/Danamat07/split-the-bill/internal/notify"
	"github.com/Danamat07/split-the-bill/internal/reminder"
	"github.com/Danamat07/split-the-bill/internal/server"
	"github.com/Danamat07/split-the-bill/internal/service"
	"github.com/Danamat07/split-the-bill/internal/settlement"
	"github.com/Danamat07/split-the-bill/internal/storage/sqlite"
	"github.com/Danamat07/split-the-bill/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var broker notify.Broker
	if cfg.NATSURL != "" {
		nb, err := notify.ConnectNATS(cfg.NATSURL)
		if err != nil {
			slog.Error("Failed to connect to NATS", "url", cfg.NATSURL, "error", err)
			os.Exit(1)
		}
		defer nb.Close()
		slog.Info("Settlement signals bridged through NATS", "url", cfg.NATSURL)
		broker = nb
	} else {
		broker = notify.NewHub()
	}

	tracker := settlement.New(store, broker)

	converter := currency.NewClient(
		currency.WithBaseURL(cfg.RatesBaseURL),
		currency.WithCacheTTL(cfg.RatesCacheTTL),
	)

	var sender reminder.Sender
	if cfg.EmailJSServiceID != "" {
		sender = reminder.NewEmailJSSender(cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSUserID)
		slog.Info("Reminder relay configured", "service_id", cfg.EmailJSServiceID)
	} else {
		slog.Info("Reminder relay disabled, EMAILJS_SERVICE_ID not set")
	}

	srv := server.New(
		service.NewUserService(store),
		service.NewGroupService(store, cfg.DefaultCurrency),
		service.NewExpenseService(store, converter),
		service.NewBalanceService(store, tracker, sender),
	)

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
