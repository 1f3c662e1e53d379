package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"cinema-tickets/cmd"
	"cinema-tickets/internal/catalog"
	"cinema-tickets/internal/queue"
	"cinema-tickets/internal/wire"
	"cinema-tickets/pkg/docstore"
	"cinema-tickets/pkg/utils"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	store, err := docstore.NewPostgresStore(docstore.PostgresConfig{
		Host:     config.Database.Host,
		Port:     config.Database.Port,
		Name:     config.Database.Name,
		User:     config.Database.User,
		Password: config.Database.Password,
		MaxConns: config.Database.MaxConns,
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Migrate(ctx); err != nil {
		cancel()
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	cancel()

	cache := catalog.NewCache(
		config.Redis.Addr,
		config.Redis.Password,
		config.Redis.DB,
		time.Duration(config.Redis.TTLMinutes)*time.Minute,
		logger,
	)
	publisher := queue.NewPublisher(config.Rabbit.URL, logger)
	guard := docstore.NewGuard()

	app := wire.Wiring(config, store, cache, publisher, guard, logger)

	server := cmd.NewAPIServer(app, config.App.Port, logger)
	if err := server.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
