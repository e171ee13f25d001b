package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/gateway"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/repository"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/service"
	httpt "github.com/liwayazilim/liwamenu-backend-sub000/internal/transport/http"
	kafkat "github.com/liwayazilim/liwamenu-backend-sub000/internal/transport/kafka"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/cache"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/kafka"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/kafka/dlq"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/lock"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres/transaction"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/redis"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type repositories struct {
	payments     *repository.PaymentRepository
	licenses     *repository.LicenseRepository
	packages     *repository.LicensePackageRepository
	users        *repository.UserRepository
	restaurants  *repository.RestaurantRepository
	callbackLogs *repository.CallbackLogRepository
}

type services struct {
	payments    *service.PaymentService
	callbacks   *service.CallbackService
	fulfillment *service.FulfillmentService
}

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(ctx, eg, &cfg.Metrics, log)

	db, dbErr := initDatabase(&cfg.Postgres, log)
	if dbErr != nil {
		return dbErr
	}
	defer closeDB(db)

	txManager, txErr := initTransactionManager(&cfg.Postgres, db, log, metrics)
	if txErr != nil {
		return txErr
	}

	checks := map[string]httpt.ReadinessCheck{"postgres": db.Ping}

	locker, redisPing, closeLocker, lockErr := initLocker(&cfg.Redis, log)
	if lockErr != nil {
		return lockErr
	}
	defer closeLocker()
	if redisPing != nil {
		checks["redis"] = redisPing
	}

	packageCache, cacheErr := initCache(&cfg.Cache, log, metrics)
	if cacheErr != nil {
		return cacheErr
	}
	defer stopCache(packageCache)

	gatewayClient, signer, gwErr := initGateway(&cfg.Gateway, log, metrics)
	if gwErr != nil {
		return gwErr
	}

	publisher, pubErr := initFulfillmentPublisher(&cfg.Kafka, log, metrics)
	if pubErr != nil {
		return pubErr
	}
	defer closePublisher(publisher, log)

	repos := initRepositories(db)
	svcs := initServices(cfg, repos, txManager, locker, packageCache, gatewayClient, signer, publisher, log, metrics)

	if serverErr := initHTTPServer(ctx, eg, &cfg.HTTP, svcs, checks, log, metrics); serverErr != nil {
		return serverErr
	}

	if kafkaErr := initKafkaComponents(ctx, eg, cfg, svcs, log, metrics); kafkaErr != nil {
		return kafkaErr
	}

	return waitForShutdown(eg)
}

func initMetrics(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		return metricsServer.Shutdown(context.WithoutCancel(ctx))
	})

	return metrics
}

func initDatabase(cfg *config.Postgres, log logger.Logger) (*postgres.Postgres, error) {
	db, err := postgres.NewPostgres(
		cfg,
		log.With("component", "database"),
		postgres.MaxPoolSize(cfg.PoolMax),
		postgres.MaxConnAttempts(cfg.ConnAttempts),
		postgres.BaseRetryDelay(cfg.BaseRetryDelay),
		postgres.MaxRetryDelay(cfg.MaxRetryDelay),
		postgres.LockTimeout(cfg.LockTimeout),
		postgres.StatementTimeout(cfg.StatementTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDatabase: %w", err)
	}
	return db, nil
}

func closeDB(db *postgres.Postgres) {
	if db != nil {
		db.Close()
	}
}

func initTransactionManager(
	cfg *config.Postgres,
	db *postgres.Postgres,
	log logger.Logger,
	metrics metric.Factory,
) (transaction.Manager, error) {
	txManager, err := transaction.NewManager(
		db,
		log.With("component", "transaction manager"),
		metrics.Transaction(),
		transaction.BaseRetryDelay(cfg.BaseRetryDelay),
		transaction.MaxRetryDelay(cfg.MaxRetryDelay),
		transaction.RetryLockTimeouts(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initTransactionManager: %w", err)
	}
	return txManager, nil
}

// initLocker returns a no-op locker when Redis is disabled; the payment row
// lock alone still keeps callbacks idempotent.
func initLocker(
	cfg *config.Redis,
	log logger.Logger,
) (service.Locker, httpt.ReadinessCheck, func(), error) {
	if !cfg.Enabled {
		log.Warnw("redis disabled, callback deduplication relies on row locks only")
		return lock.Noop{}, nil, func() {}, nil
	}

	rdb, err := redis.NewRedis(cfg, log.With("component", "redis"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("app.initLocker: %w", err)
	}

	closeFn := func() {
		if closeErr := rdb.Close(); closeErr != nil {
			log.Warnw("failed to close redis", "error", closeErr)
		}
	}
	ping := func(ctx context.Context) error {
		return rdb.Client.Ping(ctx).Err()
	}
	return lock.NewRedisLocker(rdb.Client, cfg.KeyPrefix), ping, closeFn, nil
}

func initCache(
	cfg *config.Cache,
	log logger.Logger,
	metrics metric.Factory,
) (cache.Cache[uuid.UUID, *entity.LicensePackage], error) {
	packageCache, err := cache.NewLRUCache[uuid.UUID, *entity.LicensePackage](
		"license_package",
		cfg.Capacity,
		log.With("component", "cache"),
		metrics.Cache(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCache: %w", err)
	}
	packageCache.StartCleanup(cfg.CleanupInterval)
	return packageCache, nil
}

func stopCache(packageCache cache.Cache[uuid.UUID, *entity.LicensePackage]) {
	if packageCache != nil {
		packageCache.StopCleanup()
	}
}

func initGateway(
	cfg *config.Gateway,
	log logger.Logger,
	metrics metric.Factory,
) (*gateway.Client, *gateway.Signer, error) {
	signer, err := gateway.NewSigner(gateway.Credentials{
		MerchantID:   cfg.MerchantID,
		MerchantKey:  cfg.MerchantKey,
		MerchantSalt: cfg.MerchantSalt,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("app.initGateway: %w", err)
	}

	client, err := gateway.NewClient(cfg, signer, log.With("component", "gateway client"), metrics.Gateway())
	if err != nil {
		return nil, nil, fmt.Errorf("app.initGateway: %w", err)
	}
	return client, signer, nil
}

func initFulfillmentPublisher(
	cfg *config.Kafka,
	log logger.Logger,
	metrics metric.Factory,
) (*kafkat.FulfillmentPublisher, error) {
	writer, err := kafka.NewKafkaWriter(*cfg, log.With("component", "kafka writer"))
	if err != nil {
		return nil, fmt.Errorf("app.initFulfillmentPublisher: %w", err)
	}
	return kafkat.NewFulfillmentPublisher(writer, cfg.Topic, metrics.Kafka(), log), nil
}

func closePublisher(publisher *kafkat.FulfillmentPublisher, log logger.Logger) {
	if err := publisher.Close(); err != nil {
		log.Warnw("failed to close fulfillment publisher", "error", err)
	}
}

func initRepositories(db *postgres.Postgres) *repositories {
	return &repositories{
		payments:     repository.NewPaymentRepository(db),
		licenses:     repository.NewLicenseRepository(db),
		packages:     repository.NewLicensePackageRepository(db),
		users:        repository.NewUserRepository(db),
		restaurants:  repository.NewRestaurantRepository(db),
		callbackLogs: repository.NewCallbackLogRepository(db),
	}
}

func initServices(
	cfg *config.Config,
	repos *repositories,
	txManager transaction.Manager,
	locker service.Locker,
	packageCache cache.Cache[uuid.UUID, *entity.LicensePackage],
	gatewayClient *gateway.Client,
	signer *gateway.Signer,
	queue service.FulfillmentQueue,
	log logger.Logger,
	metrics metric.Factory,
) *services {
	catalog := service.NewCatalog(repos.packages, packageCache, cfg.Cache.TTL, log.With("component", "catalog"))
	ledger := service.NewLedger(repos.payments, metrics.Payment())

	fulfillment := service.NewFulfillmentService(
		repos.payments,
		repos.licenses,
		catalog,
		txManager,
		queue,
		log.With("component", "fulfillment service"),
		metrics.Payment(),
	)

	callbacks := service.NewCallbackService(
		signer,
		ledger,
		fulfillment,
		queue,
		txManager,
		locker,
		cfg.Gateway.CallbackLockTTL,
		repos.callbackLogs,
		log.With("component", "callback service"),
		metrics.Payment(),
	)

	payments := service.NewPaymentService(
		repos.payments,
		repos.licenses,
		repos.users,
		repos.restaurants,
		catalog,
		ledger,
		gatewayClient,
		fulfillment,
		txManager,
		log.With("component", "payment service"),
		service.WithCurrency(cfg.Gateway.Currency),
		service.WithMaxInstallment(cfg.Gateway.MaxInstallment),
		service.WithLinkTTL(cfg.Gateway.LinkTTL),
	)

	return &services{
		payments:    payments,
		callbacks:   callbacks,
		fulfillment: fulfillment,
	}
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.HTTP,
	svcs *services,
	checks map[string]httpt.ReadinessCheck,
	log logger.Logger,
	metrics metric.Factory,
) error {
	handler := httpt.NewPaymentHandler(svcs.payments, svcs.callbacks, httpt.NewRoleAuthorizer(), log, metrics.HTTP())
	for name, check := range checks {
		handler.AddReadinessCheck(name, check)
	}

	httpServer, err := httpt.NewHTTPServer(
		handler,
		cfg,
		log.With("component", "http server"),
	)
	if err != nil {
		return fmt.Errorf("app.initHTTPServer: %w", err)
	}

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
	return nil
}

func initKafkaComponents(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	svcs *services,
	log logger.Logger,
	metrics metric.Factory,
) error {
	tasks := &fulfillmentTasks{
		FulfillmentService: svcs.fulfillment,
		CallbackService:    svcs.callbacks,
	}

	kafkaReader, err := kafka.NewKafkaReader(cfg.Kafka, log.With("component", "kafka reader"))
	if err != nil {
		return fmt.Errorf("app.initKafkaComponents: kafka reader creation: %w", err)
	}

	dlqReader, err := kafka.NewDLQReader(cfg.DLQ, log.With("component", "dlq reader"))
	if err != nil {
		return fmt.Errorf("app.initKafkaComponents: dlq reader creation: %w", err)
	}

	deadLetterQueue, err := dlq.NewDLQ(
		cfg.DLQ,
		log.With("component", "dlq"),
		metrics.DLQ(),
		dlq.MaxAttemptsCount(cfg.DLQ.MaxRetryCount),
		dlq.BaseRetryDelay(cfg.DLQ.RetryDelay),
		dlq.MaxErrorLength(cfg.DLQ.MaxErrorLength),
	)
	if err != nil {
		return fmt.Errorf("app.initKafkaComponents: dead letter queue creation: %w", err)
	}

	consumer := kafkat.NewFulfillmentConsumer(
		kafkaReader,
		deadLetterQueue,
		tasks,
		metrics.Kafka(),
		log.With("component", "fulfillment consumer"),
	)
	eg.Go(func() error {
		return consumer.Start(ctx)
	})

	dlqProcessor := kafkat.NewDLQProcessor(
		dlqReader,
		deadLetterQueue,
		tasks,
		cfg.DLQ.MaxRetryCount,
		cfg.DLQ.RetryDelay,
		metrics.DLQ(),
		log.With("component", "dlq processor"),
	)
	eg.Go(func() error {
		defer func() {
			if closeErr := deadLetterQueue.Close(); closeErr != nil {
				log.Warnw("failed to close dlq writer", "error", closeErr)
			}
		}()
		return dlqProcessor.Start(ctx)
	})

	return nil
}

// fulfillmentTasks routes retry topic tasks: plain retries to fulfillment,
// callback replays to the callback service.
type fulfillmentTasks struct {
	*service.FulfillmentService
	*service.CallbackService
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}
