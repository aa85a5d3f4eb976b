package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	migrations "github.com/DRSN-tech/plant-catalog/db"
	config "github.com/DRSN-tech/plant-catalog/internal/cfg"
	v1Http "github.com/DRSN-tech/plant-catalog/internal/delivery/v1/http"
	"github.com/DRSN-tech/plant-catalog/internal/infrastructure/images"
	"github.com/DRSN-tech/plant-catalog/internal/infrastructure/kafka"
	"github.com/DRSN-tech/plant-catalog/internal/repository/disk"
	"github.com/DRSN-tech/plant-catalog/internal/repository/memory"
	s3Repo "github.com/DRSN-tech/plant-catalog/internal/repository/minio"
	"github.com/DRSN-tech/plant-catalog/internal/repository/pgdb"
	"github.com/DRSN-tech/plant-catalog/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/plant-catalog/internal/usecase"
	"github.com/DRSN-tech/plant-catalog/pkg/clients"
	"github.com/DRSN-tech/plant-catalog/pkg/closer"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/logger"
	"github.com/DRSN-tech/plant-catalog/pkg/postgres"
	"github.com/DRSN-tech/plant-catalog/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout       = 10 * time.Second
	cleanupWait       = 5 * time.Second
	forcedCloseWindow = 2 * time.Second
)

// App — собранное приложение: HTTP-сервер и фоновые компоненты, закрываемые через closer в порядке LIFO.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *v1Http.Server
	closer *closer.Closer

	// stopBackground отменяет фоновые задачи (очистка изображений, outbox) при завершении.
	stopBackground context.CancelFunc
}

// storage — набор зависимостей usecase, зависящих от выбранного хранилища.
type storage struct {
	plants     usecase.PlantRepository
	categories usecase.CategoryRepository
	outbox     usecase.OutboxRepository
	transactor usecase.Transactor
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	log = logger.NewSlogLoggerWithOptions(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(forcedCloseWindow),
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	a.stopBackground = stopBackground

	initCtx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	st, err := a.initStorage(initCtx)
	if err != nil {
		a.abort()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	imageRepo, err := a.initImageRepo(initCtx)
	if err != nil {
		a.abort()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	imagesInfra := images.NewService(imageRepo, log, bgCtx)
	a.closer.Add("image cleanup", func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, cleanupWait)
		defer cancel()

		if err := imagesInfra.WaitForCleanup(waitCtx); err != nil {
			log.Warnf("image cleanup did not finish before shutdown, some orphan files may remain: %v", err)
			return nil
		}
		log.Infof("image cleanup completed")
		return nil
	})

	if err := a.initPublisher(bgCtx, st.outbox); err != nil {
		a.abort()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	plantUC := usecase.NewPlantUC(
		st.plants,
		st.categories,
		st.outbox,
		st.transactor,
		imagesInfra,
		log,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(plantUC, imagesInfra, cfg.Upload.MaxFileSize)

	a.server = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", func(ctx context.Context) error {
		if err := a.server.Stop(ctx); err != nil {
			return err
		}
		log.Infof("HTTP server stopped")
		return nil
	})

	return a, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Http.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "graceful shutdown failed")
	}
	a.stopBackground()

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// initStorage выбирает хранилище растений. Для postgres применяет миграции и
// подготавливает outbox, если включена публикация в Kafka.
func (a *App) initStorage(ctx context.Context) (*storage, error) {
	if a.cfg.Storage.Backend == config.StorageBackendMemory {
		a.logger.Warnf("using in-memory storage, data is lost on restart")
		if a.cfg.Kafka.Enabled() {
			a.logger.Warnf("kafka publishing requires postgres storage and is disabled")
		}

		repo := memory.NewPlantRepo()
		return &storage{
			plants:     repo,
			categories: repo,
			outbox:     usecase.NopOutbox{},
			transactor: tr.Passthrough{},
		}, nil
	}

	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		a.logger.Infof("database pool closed")
		return nil
	})

	st := &storage{
		plants:     pgdb.NewPlantRepo(db.Pool, converter.PlantConverter{}),
		categories: pgdb.NewCategoryRepo(db.Pool),
		outbox:     usecase.NopOutbox{},
		transactor: tr.NewManager(db.Pool),
	}
	if a.cfg.Kafka.Enabled() {
		st.outbox = pgdb.NewOutboxEventRepo(db.Pool, converter.OutboxEventConverter{})
	}

	return st, nil
}

func (a *App) initImageRepo(ctx context.Context) (usecase.ImageRepository, error) {
	switch a.cfg.Upload.Backend {
	case config.UploadBackendMinio:
		minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
		if err != nil {
			a.logger.Errorf(err, "failed to initialize minio client")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
			a.logger.Errorf(err, "failed to initialize MinIO bucket")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		return s3Repo.NewImageRepo(minioClient, a.cfg.Minio), nil
	default:
		repo, err := disk.NewImageRepo(a.cfg.Upload.Dir)
		if err != nil {
			a.logger.Errorf(err, "failed to prepare upload directory %s", a.cfg.Upload.Dir)
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		return repo, nil
	}
}

// initPublisher поднимает Kafka producer и outbox worker. При NopOutbox публикация выключена.
func (a *App) initPublisher(bgCtx context.Context, outbox usecase.OutboxRepository) error {
	if _, disabled := outbox.(usecase.NopOutbox); disabled {
		a.logger.Infof("event publishing disabled")
		return nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(initTimeout); err != nil {
		a.logger.Errorf(err, "failed to ensure kafka topic %s", a.cfg.Kafka.Topic)
		return e.Wrap(whereami.WhereAmI(), err)
	}

	worker := kafka.NewOutboxWorker(
		outbox,
		a.logger,
		producer,
		a.cfg.Db.DSN(),
		pgdb.OutboxChannel,
		a.cfg.Kafka.BatchSize,
	)
	worker.Start(bgCtx)
	a.closer.Add("outbox worker", func(ctx context.Context) error {
		if err := worker.Stop(ctx); err != nil {
			return err
		}
		a.logger.Infof("outbox worker stopped")
		return nil
	})

	return nil
}

// abort освобождает уже созданные ресурсы, если сборка приложения не удалась.
func (a *App) abort() {
	a.stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Http.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "failed to release resources")
	}
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(migrations.Migrations, migrations.MigrationsDir, logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
