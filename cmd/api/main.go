package main

import (
	"context"
	"errors"
	"net/http"

	"addressbook-api/internal/config"
	"addressbook-api/internal/events"
	"addressbook-api/internal/graceful"
	"addressbook-api/internal/handler"
	"addressbook-api/internal/logger"
	"addressbook-api/internal/repository"
	"addressbook-api/internal/service"

	"github.com/rs/zerolog/log"
)

type eventPublisher interface {
	service.EventPublisher
	Close() error
}

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	if err := logger.Setup(config.LogLevel, config.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("cannot set up logger")
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	// Storage
	repo, err := repository.Open(ctx, config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Str("driver", config.DBDriver).Msg("cannot open address store")
	}
	defer repo.Close()

	// Events
	var publisher eventPublisher = events.NopPublisher{}
	if brokers := config.Brokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, config.KafkaTopic)
		log.Info().Strs("brokers", brokers).Str("topic", config.KafkaTopic).Msg("publishing address events")
	}
	defer publisher.Close()

	// Initialize layers
	addressService := service.NewAddressService(repo, publisher)
	addressHandler := handler.NewAddressHandler(addressService)

	srv := &http.Server{
		Addr:    config.ServerAddress,
		Handler: newRouter(addressHandler),
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Str("driver", config.DBDriver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server exited")
}
