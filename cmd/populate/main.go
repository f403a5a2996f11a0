package main

import (
	"context"
	"flag"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/averlane/simsearch/internal/config"
	"github.com/averlane/simsearch/internal/db"
	dbRedis "github.com/averlane/simsearch/internal/db/redis"
	"github.com/averlane/simsearch/internal/domain"
	logpkg "github.com/averlane/simsearch/internal/logger"
	"github.com/averlane/simsearch/internal/metrics"
	"github.com/averlane/simsearch/internal/registry"
	"github.com/averlane/simsearch/internal/repository/embcache"
	indexrepo "github.com/averlane/simsearch/internal/repository/index"
	recordrepo "github.com/averlane/simsearch/internal/repository/record"
	openaiEmb "github.com/averlane/simsearch/internal/transport/openai"
)

// populate seeds every tenant keyspace with fake records and their
// embeddings, then ensures the FT indexes exist. Intended for local and
// dev environments.
func main() {
	count := flag.Int("count", 50, "records per domain")
	seed := flag.Uint64("seed", 0, "fake data seed (0 = random)")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Populating tenant keyspaces",
		zap.String("env", env),
		zap.Int("count", *count),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterSearchMetrics()

	reg := registry.New(store, cfg.Embedding.Dimensions, logger)
	if err := reg.Bootstrap(ctx); err != nil {
		logger.Fatal("Failed to bootstrap tenant indexes", zap.Error(err))
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	var embedder domain.Embedder = base
	if !cfg.Embedding.CacheOff {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	faker := gofakeit.New(*seed)

	for _, dom := range domain.All() {
		if err := seedDomain(ctx, store, embedder, faker, dom, *count); err != nil {
			logger.Fatal("Failed to seed domain",
				zap.String("domain", dom.String()),
				zap.Error(err))
		}
		logger.Info("Seeded domain",
			zap.String("domain", dom.String()),
			zap.Int("records", *count))
	}

	logger.Info("Population complete")
}

func seedDomain(
	ctx context.Context,
	store db.HashStore,
	embedder domain.Embedder,
	faker *gofakeit.Faker,
	dom domain.Domain,
	count int,
) error {
	items := make([]db.HashSetItem, 0, count*2)

	for i := 1; i <= count; i++ {
		rec := fakeRecord(faker, dom, int64(i))

		emb, err := embedder.Embed(ctx, rec.Text)
		if err != nil {
			return err
		}

		items = append(items,
			db.HashSetItem{
				Key:    recordrepo.Key(dom, rec.ID),
				Fields: recordrepo.Fields(rec),
			},
			db.HashSetItem{
				Key: indexrepo.VectorKey(dom, rec.ID),
				Fields: map[string]string{
					"id":        strconv.FormatInt(rec.ID, 10),
					"embedding": dbRedis.VectorToBytes(emb.Embedding),
				},
			},
		)
	}

	return store.HSetMulti(ctx, items)
}

func fakeRecord(faker *gofakeit.Faker, dom domain.Domain, id int64) domain.Record {
	var text string
	switch dom {
	case domain.IT:
		text = faker.HackerPhrase()
	case domain.Finance:
		text = faker.Company() + " " + faker.BuzzWord() + " invoice " + faker.AchAccount()
	case domain.HR:
		text = faker.JobTitle() + " " + faker.Sentence(8)
	default:
		text = faker.Sentence(10)
	}

	return domain.Record{
		ID:     id,
		Text:   text,
		Author: faker.Name(),
		CreatedAt: faker.DateRange(
			time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		),
	}
}
