package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"zenith-npc-service/internal/config"
	"zenith-npc-service/internal/generator"
	"zenith-npc-service/internal/handler"
	"zenith-npc-service/internal/messaging"
	"zenith-npc-service/internal/service"
	"zenith-npc-service/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	initLogger(cfg)

	log.Info().Str("service", handler.ServiceName).Str("version", handler.ServiceVersion).Msg("starting service")

	// All external clients are constructed once here and wired in explicitly;
	// nothing is lazily initialized inside request handlers.
	genClient, err := generator.NewClient(generator.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize generation client")
	}

	log.Info().Msg("connecting to MongoDB...")
	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := storage.Connect(mongoCtx, cfg.MongoURI)
	mongoCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}()
	log.Info().Msg("MongoDB connection established")

	store := storage.NewMongoStore(mongoClient, cfg.MongoDatabase, cfg.MongoCollection, log.Logger)
	pipeline := service.New(genClient, store, log.Logger)

	log.Info().Msg("connecting to RabbitMQ...")
	conn, err := connectRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open RabbitMQ channel")
	}
	defer ch.Close()
	log.Info().Msg("RabbitMQ connection established")

	publisher := messaging.NewRabbitMQPublisher(ch, log.Logger)
	processor := messaging.NewProcessor(pipeline, publisher, cfg.ResponseQueueName, log.Logger)
	consumer, err := messaging.NewConsumer(ch, cfg.RequestQueueName, processor, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("queue", cfg.RequestQueueName).Msg("failed to set up request consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("request consumer stopped unexpectedly")
		}
	}()

	httpHandler := handler.NewHTTPHandler(pipeline, log.Logger)
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpHandler.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during HTTP server shutdown")
	}
	log.Info().Msg("service stopped")
}

func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// connectRabbitMQ dials the broker with a few retries so the service
// survives the broker starting up alongside it.
func connectRabbitMQ(url string) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	const maxRetries = 5
	const retryDelay = 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Msg("RabbitMQ connection failed, retrying")
		time.Sleep(retryDelay)
	}
	return nil, err
}
