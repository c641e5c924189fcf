package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"student_community_service/internal/realtime/app"
	"student_community_service/internal/realtime/repository"
	"student_community_service/internal/realtime/router"
	"student_community_service/pkg/config"
	"student_community_service/pkg/database"
	"student_community_service/pkg/logger"
	"student_community_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.CommunityService, config.EnvConfig.CommunityServiceLogPath)
	logger.Log.SetDebugMode(!config.IsProduction())
	cfg := config.LoadConfig[config.Community](config.EnvConfig.CommunityService, config.EnvConfig.CommunityServiceYAMLPath)

	token.SetSecret(cfg.JWTSecret)

	// Mongo holds the durable notifications and messages
	ctx := context.Background()
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.Mongo.RetryCount,
			RetryInterval: time.Duration(cfg.Mongo.RetryInterval) * time.Second,
		},
		cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// Redis carries the cross-instance relay channels
	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	redisClient, err := database.NewRedisClient(redisAddr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// Kafka mirror of created notifications, optional
	var events repository.EventStream
	if len(cfg.Kafka.Brokers) > 0 {
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			logger.Log.Fatal(fmt.Sprintf("connect kafka err : %v", err))
		}
		defer writer.Close()
		events = repository.NewKafkaEventStream(writer)
	}

	notifRepo := repository.NewMongoNotificationRepository(mongo.Database)
	msgRepo := repository.NewMongoMessageRepository(mongo.Database)
	pubsub := repository.NewRedisPubSub(redisClient)

	hub := app.NewHub()
	relay := app.NewRelay(hub, pubsub)
	if err := relay.Start(ctx); err != nil {
		logger.Log.Fatal(fmt.Sprintf("relay subscribe err : %v", err))
	}

	notificationUC := app.NewNotificationUseCase(notifRepo, relay, events)
	messageUC := app.NewMessageUseCase(msgRepo, relay, notificationUC)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.CommunityServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	router.RegisterRoutes(r,
		app.NewCommunityHTTPHandler(notificationUC, messageUC),
		app.NewCommunityWebsocketHandler(hub, messageUC),
	)

	port := ":" + cfg.Port
	log.Printf("Community Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
