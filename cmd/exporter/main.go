package main

import (
	"context"
	"flag"
	"time"

	"addressbook-api/internal/config"
	"addressbook-api/internal/logger"
	"addressbook-api/internal/repository"
	"addressbook-api/internal/storage"

	"github.com/rs/zerolog/log"
)

func main() {
	configDir := flag.String("config", "configs", "Directory containing app.env")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("cannot set up logger")
	}

	ctx := context.Background()

	repo, err := repository.Open(ctx, cfg.DBDriver, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open address store")
	}
	defer repo.Close()

	client, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to object storage")
	}
	snapshots := storage.NewSnapshotStore(client, cfg.ExportBucket)

	key, err := export(ctx, repo, snapshots, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
	log.Info().Str("bucket", cfg.ExportBucket).Str("key", key).Msg("export finished")
}

func export(ctx context.Context, repo repository.Repository, snapshots *storage.SnapshotStore, now time.Time) (string, error) {
	if err := snapshots.EnsureBucket(ctx); err != nil {
		return "", err
	}

	addresses, err := repo.List(ctx)
	if err != nil {
		return "", err
	}

	return snapshots.Put(ctx, now, addresses)
}
