package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"socialeats_server/config"
	"socialeats_server/logging"
	"socialeats_server/middleware"
	"socialeats_server/routes"
	"socialeats_server/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()

	slog.Info("initializing DynamoDB client", "region", cfg.AWSRegion)
	dynamoClient := services.InitializeDynamoDBClient(ctx, cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		slog.Info("places cache enabled", "addr", cfg.RedisAddr)
	}

	notificationService := services.NewNotificationService(cfg.FCMEndpoint, cfg.FCMServerKey)
	userService := &services.UserService{
		Dynamo:          dynamoService,
		Notifications:   notificationService,
		SelectionWindow: cfg.SelectionWindow,
	}
	reviewService := &services.ReviewService{
		Dynamo:        dynamoService,
		Users:         userService,
		Notifications: notificationService,
	}
	groupDiningService := &services.GroupDiningService{
		Dynamo:        dynamoService,
		Users:         userService,
		Notifications: notificationService,
	}
	photoService := &services.PhotoService{
		Dynamo:        dynamoService,
		Users:         userService,
		Notifications: notificationService,
	}
	placesService := services.NewPlacesService(cfg.PlacesAPIKey, cfg.PlacesBaseURL, cfg.PlacesCacheTTL, redisClient)
	s3Service := services.InitializeS3Service(ctx, cfg.AWSRegion, cfg.S3Bucket)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(metrics.Instrument)

	routes.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	routes.RegisterUserRoutes(r, userService)
	routes.RegisterFriendRoutes(r, userService)
	routes.RegisterReviewRoutes(r, reviewService)
	routes.RegisterGroupDiningRoutes(r, groupDiningService)
	routes.RegisterPhotoRoutes(r, photoService)
	routes.RegisterRestaurantRoutes(r, placesService, cfg.DefaultSearchRadius)
	routes.RegisterS3Routes(r, s3Service)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("starting server", "addr", addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
