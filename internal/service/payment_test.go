package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/basket"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/gateway"
	mock_repository "github.com/liwayazilim/liwamenu-backend-sub000/internal/repository/mock"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/service"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/cache"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"
	mock_transaction "github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres/transaction/mock"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type paymentMocks struct {
	payments    *mock_repository.MockPaymentRepository
	licenses    *mock_repository.MockLicenseRepository
	packages    *mock_repository.MockLicensePackageRepository
	users       *mock_repository.MockUserRepository
	restaurants *mock_repository.MockRestaurantRepository
	gateway     *mock_repository.MockGatewayClient
	txManager   *mock_transaction.MockManager
}

func newPaymentService(t *testing.T) (*service.PaymentService, *paymentMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &paymentMocks{
		payments:    mock_repository.NewMockPaymentRepository(ctrl),
		licenses:    mock_repository.NewMockLicenseRepository(ctrl),
		packages:    mock_repository.NewMockLicensePackageRepository(ctrl),
		users:       mock_repository.NewMockUserRepository(ctrl),
		restaurants: mock_repository.NewMockRestaurantRepository(ctrl),
		gateway:     mock_repository.NewMockGatewayClient(ctrl),
		txManager:   mock_transaction.NewMockManager(ctrl),
	}

	m.txManager.EXPECT().
		ExecuteInTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, fn func(postgres.QueryExecuter) error) error {
			return fn(nil)
		}).
		AnyTimes()

	factory := metric.NewFactory()
	log := logger.NewNop()

	lru, err := cache.NewLRUCache[uuid.UUID, *entity.LicensePackage]("license_package", 16, log, factory.Cache())
	require.NoError(t, err)
	catalog := service.NewCatalog(m.packages, lru, time.Minute, log)
	ledger := service.NewLedger(m.payments, factory.Payment())
	fulfillment := service.NewFulfillmentService(
		m.payments, m.licenses, catalog, m.txManager, nil, log, factory.Payment(),
	)

	svc := service.NewPaymentService(
		m.payments, m.licenses, m.users, m.restaurants, catalog, ledger,
		m.gateway, fulfillment, m.txManager, log,
		service.WithCurrency("TL"),
		service.WithMaxInstallment(6),
		service.WithLinkTTL(48*time.Hour),
	)
	return svc, m
}

func fakeUser(isDealer bool) *entity.User {
	return &entity.User{
		ID:       uuid.New(),
		Email:    gofakeit.Email(),
		FullName: gofakeit.Name(),
		Phone:    gofakeit.Phone(),
		Address:  gofakeit.Address().Address,
		IsDealer: isDealer,
	}
}

func fakeCard() service.Card {
	return service.Card{
		Owner:       gofakeit.Name(),
		Number:      "4355084355084358",
		ExpiryMonth: "12",
		ExpiryYear:  "30",
		CVV:         "000",
	}
}

func newLicenseInput(userID, restaurantID uuid.UUID, packageIDs ...uuid.UUID) *service.ChargeInput {
	return &service.ChargeInput{
		UserID:    userID,
		Operation: entity.OperationNewLicense,
		NewLicense: &basket.NewLicense{Items: []basket.RestaurantItem{
			{RestaurantID: restaurantID, LicensePackageIDs: packageIDs},
		}},
		Card:   fakeCard(),
		UserIP: gofakeit.IPv4Address(),
	}
}

// expectStoredPayment wires Create and the row-locked read to share one
// in-memory copy, like the database would.
func expectStoredPayment(m *paymentMocks) *entity.Payment {
	stored := &entity.Payment{}
	m.payments.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ postgres.QueryExecuter, p *entity.Payment) error {
			*stored = *p
			return nil
		})
	m.payments.EXPECT().GetByOrderNumberForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ postgres.QueryExecuter, _ string) (*entity.Payment, error) {
			cp := *stored
			return &cp, nil
		}).
		AnyTimes()
	m.payments.EXPECT().ApplyTransition(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ postgres.QueryExecuter, p *entity.Payment) (bool, error) {
			*stored = *p
			return true, nil
		}).
		AnyTimes()
	return stored
}

func TestPaymentService_Charge(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc     string
		isDealer bool
		want     string
	}{
		{desc: "user price", isDealer: false, want: "1300.00"},
		{desc: "dealer price", isDealer: true, want: "1040.00"},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			svc, m := newPaymentService(t)
			user := fakeUser(tC.isDealer)
			restaurantID := uuid.New()
			monthly := fakePackage(3, entity.DurationMonth, "300.00", "240.00")
			yearly := fakePackage(1, entity.DurationYear, "1000.00", "800.00")

			m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
			m.restaurants.EXPECT().GetByID(gomock.Any(), restaurantID).Return(&entity.Restaurant{ID: restaurantID}, nil)
			m.packages.EXPECT().GetByID(gomock.Any(), monthly.ID).Return(monthly, nil)
			m.packages.EXPECT().GetByID(gomock.Any(), yearly.ID).Return(yearly, nil)
			stored := expectStoredPayment(m)

			m.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResponse, bool, error) {
					require.Equal(t, stored.OrderNumber, req.OrderNumber, "record exists before the gateway call")
					require.Equal(t, tC.want, req.Amount.StringFixed(2))
					require.Len(t, req.Lines, 2)
					require.Equal(t, user.Email, req.Email)
					return &gateway.ChargeResponse{Status: "success", Token: "tok", RedirectHTML: "<html/>"}, true, nil
				})
			m.payments.EXPECT().UpdateGatewayResult(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ postgres.QueryExecuter, p *entity.Payment) error {
					require.Equal(t, "tok", p.GatewayToken)
					return nil
				})

			res, err := svc.Charge(context.Background(), newLicenseInput(user.ID, restaurantID, monthly.ID, yearly.ID))

			require.NoError(t, err)
			require.Equal(t, "<html/>", res.RedirectHTML)
			require.Equal(t, entity.PaymentStatusWaiting, res.Payment.Status)
			require.Equal(t, tC.isDealer, res.Payment.PayerIsDealer)
			require.Equal(t, tC.want, res.Payment.Amount.StringFixed(2))
			require.Regexp(t, `^LM[0-9A-F]{30}$`, res.Payment.OrderNumber)

			b, err := basket.Decode(stored.Basket, entity.OperationNewLicense)
			require.NoError(t, err)
			require.Len(t, b.(*basket.NewLicense).Pairs(), 2)
		})
	}
}

func TestPaymentService_Charge_Declined(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)
	user := fakeUser(false)
	restaurantID := uuid.New()
	pkg := fakePackage(1, entity.DurationYear, "1000.00", "800.00")

	m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	m.restaurants.EXPECT().GetByID(gomock.Any(), restaurantID).Return(&entity.Restaurant{ID: restaurantID}, nil)
	m.packages.EXPECT().GetByID(gomock.Any(), pkg.ID).Return(pkg, nil)
	stored := expectStoredPayment(m)
	m.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).
		Return(&gateway.ChargeResponse{Status: "failed", Reason: "Kart limiti yetersiz"}, false, nil)

	res, err := svc.Charge(context.Background(), newLicenseInput(user.ID, restaurantID, pkg.ID))

	var rejection *entity.GatewayRejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, "Kart limiti yetersiz", rejection.Reason)
	require.Equal(t, entity.PaymentStatusFailed, res.Payment.Status)
	require.Equal(t, entity.PaymentStatusFailed, stored.Status)
	require.Equal(t, "Kart limiti yetersiz", stored.ErrorMessage)
}

func TestPaymentService_Charge_GatewayUnavailable(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)
	user := fakeUser(false)
	restaurantID := uuid.New()
	pkg := fakePackage(1, entity.DurationYear, "1000.00", "800.00")

	m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	m.restaurants.EXPECT().GetByID(gomock.Any(), restaurantID).Return(&entity.Restaurant{ID: restaurantID}, nil)
	m.packages.EXPECT().GetByID(gomock.Any(), pkg.ID).Return(pkg, nil)
	stored := expectStoredPayment(m)
	m.gateway.EXPECT().Charge(gomock.Any(), gomock.Any()).
		Return(nil, false, entity.ErrGatewayUnavailable)
	m.payments.EXPECT().UpdateGatewayResult(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ postgres.QueryExecuter, p *entity.Payment) error {
			require.Contains(t, p.ErrorMessage, entity.ErrGatewayUnavailable.Error())
			return nil
		})

	_, err := svc.Charge(context.Background(), newLicenseInput(user.ID, restaurantID, pkg.ID))

	require.ErrorIs(t, err, entity.ErrGatewayUnavailable)
	require.Equal(t, entity.PaymentStatusWaiting, stored.Status, "outcome unknown, payment stays waiting")
}

func TestPaymentService_Charge_Validation(t *testing.T) {
	t.Parallel()

	userID, restaurantID, packageID := uuid.New(), uuid.New(), uuid.New()

	testCases := []struct {
		desc   string
		mutate func(in *service.ChargeInput)
	}{
		{desc: "missing user", mutate: func(in *service.ChargeInput) { in.UserID = uuid.Nil }},
		{desc: "link cannot be charged", mutate: func(in *service.ChargeInput) { in.Operation = entity.OperationLink }},
		{desc: "missing basket", mutate: func(in *service.ChargeInput) { in.NewLicense = nil }},
		{desc: "empty basket", mutate: func(in *service.ChargeInput) { in.NewLicense.Items = nil }},
		{desc: "bad card number", mutate: func(in *service.ChargeInput) { in.Card.Number = "4355-0843" }},
		{desc: "missing cvv", mutate: func(in *service.ChargeInput) { in.Card.CVV = "" }},
		{desc: "bad ip", mutate: func(in *service.ChargeInput) { in.UserIP = "localhost" }},
		{desc: "too many installments", mutate: func(in *service.ChargeInput) { in.InstallmentCount = 24 }},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			svc, _ := newPaymentService(t)
			in := newLicenseInput(userID, restaurantID, packageID)
			tC.mutate(in)

			_, err := svc.Charge(context.Background(), in)
			require.ErrorIs(t, err, entity.ErrInvalidData)
		})
	}
}

func TestPaymentService_Charge_UnchargeableRequestIsNotStored(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)
	user := fakeUser(false)
	user.Email = ""
	restaurantID := uuid.New()
	pkg := fakePackage(1, entity.DurationYear, "1000.00", "800.00")

	m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	m.restaurants.EXPECT().GetByID(gomock.Any(), restaurantID).Return(&entity.Restaurant{ID: restaurantID}, nil)
	m.packages.EXPECT().GetByID(gomock.Any(), pkg.ID).Return(pkg, nil)
	// no Create and no gateway call are expected

	_, err := svc.Charge(context.Background(), newLicenseInput(user.ID, restaurantID, pkg.ID))

	require.ErrorIs(t, err, entity.ErrInvalidData)
	require.ErrorContains(t, err, "email is required")
}

func TestPaymentService_Charge_InactivePackage(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)
	user := fakeUser(false)
	restaurantID := uuid.New()
	pkg := fakePackage(1, entity.DurationYear, "1000.00", "800.00")
	pkg.IsActive = false

	m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	m.restaurants.EXPECT().GetByID(gomock.Any(), restaurantID).Return(&entity.Restaurant{ID: restaurantID}, nil)
	m.packages.EXPECT().GetByID(gomock.Any(), pkg.ID).Return(pkg, nil)

	_, err := svc.Charge(context.Background(), newLicenseInput(user.ID, restaurantID, pkg.ID))
	require.ErrorIs(t, err, entity.ErrPackageInactive)
}

func TestPaymentService_Charge_UnknownRestaurant(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)
	user := fakeUser(false)
	restaurantID := uuid.New()

	m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil).AnyTimes()
	m.restaurants.EXPECT().GetByID(gomock.Any(), restaurantID).Return(nil, entity.ErrDataNotFound)

	_, err := svc.Charge(context.Background(), newLicenseInput(user.ID, restaurantID, uuid.New()))
	require.ErrorIs(t, err, entity.ErrDataNotFound)
}

func TestPaymentService_Charge_ExtendChecksLicenseOwner(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)
	user := fakeUser(false)
	licenseID := uuid.New()

	m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil).AnyTimes()
	m.licenses.EXPECT().GetByID(gomock.Any(), licenseID).
		Return(&entity.License{ID: licenseID, RestaurantID: uuid.New()}, nil)

	_, err := svc.Charge(context.Background(), &service.ChargeInput{
		UserID:    user.ID,
		Operation: entity.OperationExtendLicense,
		ExtendLicense: &basket.ExtendLicense{
			RestaurantID:     uuid.New(),
			LicenseID:        licenseID,
			LicensePackageID: uuid.New(),
		},
		Card:   fakeCard(),
		UserIP: "10.0.0.1",
	})
	require.ErrorIs(t, err, entity.ErrInvalidData)
}

func TestPaymentService_CreateLink(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)
	user := fakeUser(false)

	m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	stored := expectStoredPayment(m)
	m.gateway.EXPECT().CreateLink(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *gateway.CreateLinkRequest) (*gateway.CreateLinkResponse, bool, error) {
			require.Equal(t, stored.OrderNumber, req.OrderNumber)
			require.Equal(t, "250.00", req.Price.StringFixed(2))
			require.Equal(t, 6, req.MaxInstallment)
			require.Equal(t, 1, req.MaxCount)
			require.WithinDuration(t, time.Now().Add(48*time.Hour), req.ExpiresAt, time.Minute)
			return &gateway.CreateLinkResponse{Status: "success", LinkID: "77", URL: "https://pay.example/l/77"}, true, nil
		})
	m.payments.EXPECT().UpdateGatewayResult(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	payment, err := svc.CreateLink(context.Background(), &service.LinkInput{
		UserID:      user.ID,
		Description: "Menu design fee",
		Amount:      decimal.RequireFromString("250"),
	})

	require.NoError(t, err)
	require.Equal(t, entity.PaymentMethodLink, payment.Method)
	require.Equal(t, entity.OperationLink, payment.Operation)
	require.Equal(t, "77", payment.LinkID)
	require.Equal(t, "https://pay.example/l/77", payment.LinkURL)
}

func TestPaymentService_CreateLink_NonPositiveAmount(t *testing.T) {
	t.Parallel()

	svc, _ := newPaymentService(t)

	_, err := svc.CreateLink(context.Background(), &service.LinkInput{
		UserID:      uuid.New(),
		Description: "Menu design fee",
		Amount:      decimal.Zero,
	})
	require.ErrorIs(t, err, entity.ErrInvalidData)
}

func TestPaymentService_CreateLink_SubCentAmountIsNotStored(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)
	user := fakeUser(false)
	m.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

	_, err := svc.CreateLink(context.Background(), &service.LinkInput{
		UserID:      user.ID,
		Description: "Menu design fee",
		Amount:      decimal.RequireFromString("0.001"),
	})
	require.ErrorIs(t, err, entity.ErrInvalidData)
}

func TestPaymentService_DeleteLink(t *testing.T) {
	t.Parallel()

	waitingLink := func() *entity.Payment {
		return &entity.Payment{
			OrderNumber: service.NewOrderNumber(),
			Method:      entity.PaymentMethodLink,
			Operation:   entity.OperationLink,
			Status:      entity.PaymentStatusWaiting,
			LinkID:      "77",
		}
	}

	t.Run("cancels waiting link", func(t *testing.T) {
		t.Parallel()

		svc, m := newPaymentService(t)
		p := waitingLink()

		m.payments.EXPECT().GetByOrderNumber(gomock.Any(), p.OrderNumber).Return(p, nil)
		m.gateway.EXPECT().DeleteLink(gomock.Any(), &gateway.DeleteLinkRequest{LinkID: "77"}).
			Return(&gateway.DeleteLinkResponse{Status: "success"}, true, nil)
		m.payments.EXPECT().GetByOrderNumberForUpdate(gomock.Any(), gomock.Any(), p.OrderNumber).
			DoAndReturn(func(context.Context, postgres.QueryExecuter, string) (*entity.Payment, error) {
				cp := *p
				return &cp, nil
			})
		m.payments.EXPECT().ApplyTransition(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

		got, err := svc.DeleteLink(context.Background(), p.OrderNumber)
		require.NoError(t, err)
		require.Equal(t, entity.PaymentStatusCancelled, got.Status)
	})

	t.Run("card payment is not a link", func(t *testing.T) {
		t.Parallel()

		svc, m := newPaymentService(t)
		p := waitingLink()
		p.Method = entity.PaymentMethodCard

		m.payments.EXPECT().GetByOrderNumber(gomock.Any(), p.OrderNumber).Return(p, nil)

		_, err := svc.DeleteLink(context.Background(), p.OrderNumber)
		require.ErrorIs(t, err, entity.ErrInvalidData)
	})

	t.Run("paid link cannot be deleted", func(t *testing.T) {
		t.Parallel()

		svc, m := newPaymentService(t)
		p := waitingLink()
		p.Status = entity.PaymentStatusSuccess

		m.payments.EXPECT().GetByOrderNumber(gomock.Any(), p.OrderNumber).Return(p, nil)

		_, err := svc.DeleteLink(context.Background(), p.OrderNumber)
		require.ErrorIs(t, err, entity.ErrPaymentNotWaiting)
	})

	t.Run("gateway refuses", func(t *testing.T) {
		t.Parallel()

		svc, m := newPaymentService(t)
		p := waitingLink()

		m.payments.EXPECT().GetByOrderNumber(gomock.Any(), p.OrderNumber).Return(p, nil)
		m.gateway.EXPECT().DeleteLink(gomock.Any(), gomock.Any()).
			Return(&gateway.DeleteLinkResponse{Status: "failed", Reason: "link not found"}, false, nil)

		_, err := svc.DeleteLink(context.Background(), p.OrderNumber)
		var rejection *entity.GatewayRejection
		require.ErrorAs(t, err, &rejection)
	})
}

func TestPaymentService_ListUnfulfilled_ClampsLimit(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		limit int
		want  uint64
	}{
		{limit: 0, want: 50},
		{limit: -3, want: 50},
		{limit: 20, want: 20},
		{limit: 10000, want: 500},
	}

	for _, tC := range testCases {
		svc, m := newPaymentService(t)
		m.payments.EXPECT().ListUnfulfilled(gomock.Any(), tC.want).Return(nil, nil)

		_, err := svc.ListUnfulfilled(context.Background(), tC.limit)
		require.NoError(t, err)
	}
}

func TestPaymentService_GetPayment(t *testing.T) {
	t.Parallel()

	svc, m := newPaymentService(t)

	_, err := svc.GetPayment(context.Background(), "")
	require.ErrorIs(t, err, entity.ErrInvalidData)

	m.payments.EXPECT().GetByOrderNumber(gomock.Any(), "LMX").Return(nil, entity.ErrDataNotFound)
	_, err = svc.GetPayment(context.Background(), "LMX")
	require.ErrorIs(t, err, entity.ErrDataNotFound)

	dbErr := errors.New("db down")
	m.payments.EXPECT().GetByOrderNumber(gomock.Any(), "LMY").Return(nil, dbErr)
	_, err = svc.GetPayment(context.Background(), "LMY")
	require.ErrorIs(t, err, dbErr)
}
