package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/fashion-rag/internal/cfg"
	v1Http "github.com/DRSN-tech/fashion-rag/internal/delivery/v1/http"
	"github.com/DRSN-tech/fashion-rag/internal/infrastructure/kafka"
	"github.com/DRSN-tech/fashion-rag/internal/infrastructure/llm"
	s3Repo "github.com/DRSN-tech/fashion-rag/internal/repository/minio"
	"github.com/DRSN-tech/fashion-rag/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/fashion-rag/internal/repository/pgdb/converter/generated"
	qdrantRepo "github.com/DRSN-tech/fashion-rag/internal/repository/qdrant"
	"github.com/DRSN-tech/fashion-rag/internal/repository/redis"
	redisConv "github.com/DRSN-tech/fashion-rag/internal/repository/redis/converter/generated"
	"github.com/DRSN-tech/fashion-rag/internal/usecase"
	"github.com/DRSN-tech/fashion-rag/pkg/clients"
	"github.com/DRSN-tech/fashion-rag/pkg/closer"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/logger"
	"github.com/DRSN-tech/fashion-rag/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	outboxConv := pgdbConv.NewOutboxEventConverterImpl()
	cacheConv := redisConv.NewProductConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		os.Exit(1)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		os.Exit(1)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		logger.Errorf(err, "failed to initialize qdrant")
		os.Exit(1)
	}
	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureCollection(qdrantCtx, qdrantClient); err != nil {
		qdrantCancel()
		logger.Errorf(err, "failed to initialize qdrant collection")
		os.Exit(1)
	}
	qdrantCancel()
	cl.Add(func(ctx context.Context) error {
		return qdrantClient.Client.Close()
	})

	vectorRepo := qdrantRepo.NewVectorRepo(qdrantClient.Client, cfg.Qdrant, logger)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})
	cacheRepo := redis.NewCacheRepo(redisClient, cacheConv, cfg.Redis, logger)

	embedder, chatModel := initLLM(cfg, logger)

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	ragUC := usecase.NewRagUC(
		productRepo,
		vectorRepo,
		cacheRepo,
		outboxRepo,
		db.Pool,
		embedder,
		logger,
		cfg.Llm.EmbeddingModel,
		cfg.Llm.MaxConcurrent,
	)

	chatUC := usecase.NewChatUC(ragUC, chatModel, imageRepo, logger)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	outboxWorker := kafka.NewOutboxWorker(outboxRepo, logger, producer, db.Dsn)
	outboxWorker.Start(workerCtx)
	cl.Add(func(ctx context.Context) error {
		workerCancel()
		outboxWorker.Stop()
		return nil
	})

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(ragUC, chatUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown: ресурсы закрываются в порядке LIFO ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Warnf("shutdown finished with errors: %v", err)
	} else {
		logger.Infof("Application shutdown complete")
	}

	if appErr != nil {
		os.Exit(1)
	}
}

// initLLM выбирает реализацию шлюзов модели при старте: сеть или
// детерминированные заглушки. Внутри шлюзов ветвления по окружению нет.
func initLLM(cfg *config.Config, logger logger.Logger) (usecase.Embedder, usecase.ChatModel) {
	if cfg.Llm.Offline {
		logger.Warnf("LLM offline mode enabled, using deterministic stubs")
		return llm.NewOfflineEmbedder(cfg.Llm), llm.NewOfflineChat()
	}

	client := llm.NewClient(cfg.Llm, logger)
	return client, client
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
