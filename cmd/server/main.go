package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"boutique/internal/commons"
	"boutique/internal/config"
	"boutique/internal/infrastructure/logger"
	"boutique/internal/infrastructure/mysql"
	"boutique/internal/order"
	"boutique/internal/order/events"
	"boutique/internal/payment"
	"boutique/internal/server"
	"boutique/internal/user"
	userrepo "boutique/internal/user/repository"
)

func main() {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	if err := user.EnsureAdmin(bootCtx, userrepo.NewMySQLUserRepository(db), cfg.Admin.Email, cfg.Admin.Password, zapLogger); err != nil {
		cancelBoot()
		zapLogger.Fatal("bootstrapping admin account", zap.Error(err))
	}
	cancelBoot()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		zapLogger.Info("kafka publisher enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	orderModule := order.NewModule(db, cfg, publisher, zapLogger)
	paymentCtrl := payment.NewModule(cfg, orderModule, zapLogger)

	router := server.NewRouter(orderModule, paymentCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
