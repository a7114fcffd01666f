package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bazario-dev/marketplace-api/auth"
	"github.com/bazario-dev/marketplace-api/config"
	"github.com/bazario-dev/marketplace-api/events"
	"github.com/bazario-dev/marketplace-api/middleware"
	"github.com/bazario-dev/marketplace-api/routes"
	"github.com/bazario-dev/marketplace-api/services"
	"github.com/bazario-dev/marketplace-api/store"
	"github.com/bazario-dev/marketplace-api/ws"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	st := store.NewGormStore(db)
	if err := st.Migrate(); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("database connected and migrated")

	hub := ws.NewHub(log)

	// The event queue is optional; without it order events only reach
	// connected websocket clients.
	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		pool, err := events.NewChannelPool(cfg.AMQPURL, cfg.AMQPQueue, cfg.AMQPPoolSize, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer pool.Close()
		publisher = events.NewPublisher(pool, cfg.AMQPQueue)
	}
	fanout := events.NewFanout(publisher, hub, log)

	carts := services.NewCartService(st, log)
	orders := services.NewOrderService(st, fanout, log)
	catalog := services.NewCatalogService(st, log)
	chat := services.NewChatService(st, hub, log)
	analytics := services.NewAnalyticsService(st, log)
	payments := services.NewPaymentService(st, log)

	var verifier *auth.FirebaseVerifier
	if cfg.FirebaseProjectID != "" {
		verifier, err = auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
		if err != nil {
			log.WithError(err).Fatal("failed to init Firebase")
		}
	} else {
		log.Warn("FIREBASE_PROJECT_ID not set; Google login disabled")
	}
	issuer := auth.NewTokenIssuer(cfg.JWTSecret)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.CartSession())

	routes.Setup(r, routes.Deps{
		Config:    cfg,
		Store:     st,
		Carts:     carts,
		Orders:    orders,
		Catalog:   catalog,
		Chat:      chat,
		Analytics: analytics,
		Payments:  payments,
		Hub:       hub,
		Verifier:  verifier,
		Issuer:    issuer,
		Log:       log,
	})

	log.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
