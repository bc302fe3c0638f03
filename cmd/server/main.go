package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/jacklee1792/predicord/internal/app/engine"
	marketRepo "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/market"
	orderRepo "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/order"
	tradeRepo "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/trade"
	userRepo "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/user"
	orderUsecase "github.com/jacklee1792/predicord/internal/usecase/order"
	orderreader "github.com/jacklee1792/predicord/internal/usecase/order-reader"
	tradepublisher "github.com/jacklee1792/predicord/internal/usecase/trade-publisher"
	"github.com/jacklee1792/predicord/pkg/config"
	"github.com/jacklee1792/predicord/pkg/logger"
	"github.com/jacklee1792/predicord/pkg/postgresql"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	db, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_postgresql"})
		return
	}
	defer db.Close()

	markets := marketRepo.NewRepository(db, log)
	orders := orderRepo.NewRepository(db, log)
	trades := tradeRepo.NewRepository(db, log)
	users := userRepo.NewRepository(db, log)

	reader := orderreader.NewReader(cfg.OrderKafka, log)
	publisher := tradepublisher.NewPublisher(cfg.TradeKafka, log)

	submitter := orderUsecase.NewUsecase(db, markets, orders, trades, publisher, log)
	engine := app.NewEngine(submitter, reader, users, log)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_engine"})
		return
	}

	log.Info("matching engine started",
		logger.Field{Key: "orderTopic", Value: cfg.OrderKafka.Topic},
		logger.Field{Key: "tradeTopic", Value: cfg.TradeKafka.Topic},
	)

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}
	if err := reader.Close(); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "close_reader"})
	}
	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "close_publisher"})
	}
	_ = log.Sync()
}
