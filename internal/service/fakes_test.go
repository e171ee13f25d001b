package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/gateway"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/service"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/cache"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/lock"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var testCreds = gateway.Credentials{
	MerchantID:   "123456",
	MerchantKey:  "merchant-key",
	MerchantSalt: "merchant-salt",
}

// store is an in-memory database. Transactions are serialised and rolled
// back on error, which is what the services rely on from Postgres.
type store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	payments    map[string]entity.Payment
	licenses    map[uuid.UUID]entity.License
	packages    map[uuid.UUID]*entity.LicensePackage
	users       map[uuid.UUID]*entity.User
	restaurants map[uuid.UUID]*entity.Restaurant
	logs        []*entity.CallbackLog

	licenseCreateErr error
	// failTx makes the next transaction with the given name fail once
	failTx map[string]error
}

func newStore() *store {
	return &store{
		payments:    map[string]entity.Payment{},
		licenses:    map[uuid.UUID]entity.License{},
		packages:    map[uuid.UUID]*entity.LicensePackage{},
		users:       map[uuid.UUID]*entity.User{},
		restaurants: map[uuid.UUID]*entity.Restaurant{},
	}
}

func (s *store) ExecuteInTransaction(
	_ context.Context,
	name string,
	fn func(tx postgres.QueryExecuter) error,
) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	if err, ok := s.failTx[name]; ok {
		delete(s.failTx, name)
		s.mu.Unlock()
		return err
	}
	payments := make(map[string]entity.Payment, len(s.payments))
	for k, v := range s.payments {
		payments[k] = v
	}
	licenses := make(map[uuid.UUID]entity.License, len(s.licenses))
	for k, v := range s.licenses {
		licenses[k] = v
	}
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.payments = payments
		s.licenses = licenses
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *store) payment(t *testing.T, orderNumber string) entity.Payment {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[orderNumber]
	require.True(t, ok, "payment %s not stored", orderNumber)
	return p
}

func (s *store) licenseList() []entity.License {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.License, 0, len(s.licenses))
	for _, l := range s.licenses {
		out = append(out, l)
	}
	return out
}

func (s *store) callbackLogs() []*entity.CallbackLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.CallbackLog(nil), s.logs...)
}

type paymentRepo struct{ s *store }

func (r paymentRepo) Create(_ context.Context, _ postgres.QueryExecuter, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.OrderNumber]; ok {
		return entity.ErrConflictingData
	}
	r.s.payments[p.OrderNumber] = *p
	return nil
}

func (r paymentRepo) GetByOrderNumber(_ context.Context, orderNumber string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[orderNumber]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	return &p, nil
}

func (r paymentRepo) GetByOrderNumberForUpdate(
	ctx context.Context,
	_ postgres.QueryExecuter,
	orderNumber string,
) (*entity.Payment, error) {
	return r.GetByOrderNumber(ctx, orderNumber)
}

func (r paymentRepo) UpdateGatewayResult(_ context.Context, _ postgres.QueryExecuter, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.payments[p.OrderNumber]
	if !ok {
		return entity.ErrDataNotFound
	}
	cur.GatewayToken, cur.TransactionID = p.GatewayToken, p.TransactionID
	cur.LinkID, cur.LinkURL = p.LinkID, p.LinkURL
	cur.ErrorCode, cur.ErrorMessage = p.ErrorCode, p.ErrorMessage
	cur.UpdatedAt = p.UpdatedAt
	r.s.payments[p.OrderNumber] = cur
	return nil
}

func (r paymentRepo) ApplyTransition(_ context.Context, _ postgres.QueryExecuter, p *entity.Payment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.payments[p.OrderNumber]
	if !ok || cur.Status != entity.PaymentStatusWaiting {
		return false, nil
	}
	r.s.payments[p.OrderNumber] = *p
	return true, nil
}

func (r paymentRepo) UpdateFulfillment(_ context.Context, _ postgres.QueryExecuter, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.payments[p.OrderNumber]
	if !ok {
		return entity.ErrDataNotFound
	}
	cur.FulfillmentStatus = p.FulfillmentStatus
	cur.FulfillmentError = p.FulfillmentError
	cur.FulfillmentAttempts = p.FulfillmentAttempts
	cur.FulfilledAt = p.FulfilledAt
	cur.UpdatedAt = p.UpdatedAt
	r.s.payments[p.OrderNumber] = cur
	return nil
}

func (r paymentRepo) ListUnfulfilled(_ context.Context, limit uint64) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.AwaitsFulfillment() && uint64(len(out)) < limit {
			out = append(out, &p)
		}
	}
	return out, nil
}

type licenseRepo struct{ s *store }

func (r licenseRepo) Create(_ context.Context, _ postgres.QueryExecuter, licenses []*entity.License) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.licenseCreateErr != nil {
		return r.s.licenseCreateErr
	}
	for _, l := range licenses {
		r.s.licenses[l.ID] = *l
	}
	return nil
}

func (r licenseRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.License, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.licenses[id]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	return &l, nil
}

func (r licenseRepo) GetByIDForUpdate(ctx context.Context, _ postgres.QueryExecuter, id uuid.UUID) (*entity.License, error) {
	return r.GetByID(ctx, id)
}

func (r licenseRepo) UpdateTerm(_ context.Context, _ postgres.QueryExecuter, l *entity.License) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.licenses[l.ID]; !ok {
		return entity.ErrDataNotFound
	}
	r.s.licenses[l.ID] = *l
	return nil
}

type packageRepo struct{ s *store }

func (r packageRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.LicensePackage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.packages[id]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	return p, nil
}

type callbackLogRepo struct{ s *store }

func (r callbackLogRepo) Create(_ context.Context, log *entity.CallbackLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.logs = append(r.s.logs, log)
	return nil
}

type queuedCallback struct {
	orderNumber string
	report      entity.GatewayReport
}

type recordingQueue struct {
	mu        sync.Mutex
	orders    []string
	callbacks []queuedCallback
	err       error
}

func (q *recordingQueue) Enqueue(_ context.Context, orderNumber, _ string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.orders = append(q.orders, orderNumber)
	return nil
}

func (q *recordingQueue) EnqueueCallback(_ context.Context, orderNumber string, report entity.GatewayReport) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.callbacks = append(q.callbacks, queuedCallback{orderNumber: orderNumber, report: report})
	return nil
}

func (q *recordingQueue) queuedCallbacks() []queuedCallback {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queuedCallback(nil), q.callbacks...)
}

func (q *recordingQueue) queued() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.orders...)
}

var errConnectionReset = errors.New("write: connection reset by peer")

type harness struct {
	store       *store
	queue       *recordingQueue
	redis       *miniredis.Miniredis
	signer      *gateway.Signer
	fulfillment *service.FulfillmentService
	callbacks   *service.CallbackService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st := newStore()
	factory := metric.NewFactory()
	log := logger.NewNop()

	signer, err := gateway.NewSigner(testCreds)
	require.NoError(t, err)

	lru, err := cache.NewLRUCache[uuid.UUID, *entity.LicensePackage]("license_package", 16, log, factory.Cache())
	require.NoError(t, err)
	catalog := service.NewCatalog(packageRepo{st}, lru, time.Minute, log)

	redisSrv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: redisSrv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queue := &recordingQueue{}
	ledger := service.NewLedger(paymentRepo{st}, factory.Payment())
	fulfillment := service.NewFulfillmentService(
		paymentRepo{st}, licenseRepo{st}, catalog, st, queue, log, factory.Payment(),
	)
	callbacks := service.NewCallbackService(
		signer, ledger, fulfillment, queue, st,
		lock.NewRedisLocker(client, "payment"), time.Minute,
		callbackLogRepo{st}, log, factory.Payment(),
	)

	return &harness{
		store:       st,
		queue:       queue,
		redis:       redisSrv,
		signer:      signer,
		fulfillment: fulfillment,
		callbacks:   callbacks,
	}
}
