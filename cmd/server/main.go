package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"comanda/internal/configs"
	httpdelivery "comanda/internal/delivery/http"
	"comanda/internal/delivery/kafka"
	"comanda/internal/repository"
	"comanda/internal/repository/cache"
	"comanda/internal/repository/postgres"
	"comanda/internal/service"
)

// @title comanda restaurant CRM
// @version 1.0
// @description Order, delivery and cash-shift management core for a restaurant CRM. Orders move recibido -> en_preparacion -> listo -> en_reparto -> entregado, couriers are assigned and liquidated, cash shifts are reconciled at close.

// @host localhost:8081
// @basePath /

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	logrus.Print("config parsed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.ConnectDB(cfg.PgDSN())
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	defer func() {
		if derr := db.Close(); derr != nil {
			logrus.Errorf("db close: %v", derr)
		}
	}()
	logrus.Print("connected to postgres")

	if err := postgres.Migrate(db); err != nil {
		logrus.Fatalf("migrate: %s", err)
	}

	customers := cache.NewShardedCache(
		cache.WithShards(cfg.CustomerCacheShards),
		cache.WithShardTTL(cfg.CustomerCacheTTL),
	)
	defer customers.Close()

	repo := repository.NewRepository(db, customers)

	notifier := kafka.NewNotificationPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaTopic)
	defer func() {
		if cerr := notifier.Close(); cerr != nil {
			logrus.Errorf("notifier close: %v", cerr)
		}
	}()

	svc := service.NewService(repo, notifier)

	h := httpdelivery.NewHandler(svc)
	srv := new(httpdelivery.Server)

	go func() {
		if err := srv.Run(cfg.HTTPAddr, h.InitRoutes()); err != nil {
			logrus.Errorf("http run: %v", err)
			cancel()
		}
	}()
	logrus.Printf("http server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}

	logrus.Print("service stopped")
}
