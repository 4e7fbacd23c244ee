package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/emiilyxiia/microservices-3/config"
	"github.com/emiilyxiia/microservices-3/db"
	"github.com/emiilyxiia/microservices-3/queue"
	"github.com/emiilyxiia/microservices-3/router"
	"github.com/emiilyxiia/microservices-3/services"
	"github.com/emiilyxiia/microservices-3/store"
	"github.com/emiilyxiia/microservices-3/workers"
)

func main() {
	logger := logrus.New()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using process environment")
	}

	cfg := config.Load()

	var st store.RankingStore
	if cfg.Database == "memory" {
		logger.Warn("using in-memory store, data will not survive restarts")
		st = store.NewMemoryStore()
	} else {
		gormDB, err := db.Connect(cfg, logger)
		if err != nil {
			logger.Fatalf("database connection error: %v", err)
		}
		defer gormDB.Close()
		st = store.NewGormStore(gormDB)
	}

	var (
		publisher  queue.Publisher
		rabbitCh   *amqp.Channel
		rabbitConn *amqp.Connection
	)
	if cfg.RabbitMQURL != "" {
		var err error
		rabbitCh, rabbitConn, err = queue.Setup(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatalf("RabbitMQ connection error: %v", err)
		}
		defer func() {
			if err := queue.Close(rabbitCh, rabbitConn); err != nil {
				logger.Errorf("RabbitMQ shutdown error: %v", err)
			}
		}()
		publisher = queue.NewAMQPPublisher(rabbitCh)
	} else {
		logger.Warn("RABBITMQ_URL not set, ranking events disabled")
	}

	svc := services.NewRankingService(st, publisher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if rabbitCh != nil {
		consumer := workers.NewRankingConsumer(st, logger)
		if err := consumer.Start(ctx, rabbitCh); err != nil {
			logger.Fatalf("ranking consumer error: %v", err)
		}
	}

	r := gin.New()
	router.Initialize(r, svc, logger)

	logger.Infof("rankings API listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
