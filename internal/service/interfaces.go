package service

import (
	"context"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/gateway"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../repository/mock/repository_mock.go -package=mock_repository

type (
	PaymentRepository interface {
		Create(ctx context.Context, queryExecuter postgres.QueryExecuter, payment *entity.Payment) error
		GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Payment, error)
		GetByOrderNumberForUpdate(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			orderNumber string,
		) (*entity.Payment, error)
		UpdateGatewayResult(ctx context.Context, queryExecuter postgres.QueryExecuter, payment *entity.Payment) error
		ApplyTransition(ctx context.Context, queryExecuter postgres.QueryExecuter, payment *entity.Payment) (bool, error)
		UpdateFulfillment(ctx context.Context, queryExecuter postgres.QueryExecuter, payment *entity.Payment) error
		ListUnfulfilled(ctx context.Context, limit uint64) ([]*entity.Payment, error)
	}

	LicenseRepository interface {
		Create(ctx context.Context, queryExecuter postgres.QueryExecuter, licenses []*entity.License) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.License, error)
		GetByIDForUpdate(ctx context.Context, queryExecuter postgres.QueryExecuter, id uuid.UUID) (*entity.License, error)
		UpdateTerm(ctx context.Context, queryExecuter postgres.QueryExecuter, license *entity.License) error
	}

	LicensePackageRepository interface {
		GetByID(ctx context.Context, id uuid.UUID) (*entity.LicensePackage, error)
	}

	UserRepository interface {
		GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	}

	RestaurantRepository interface {
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error)
	}

	CallbackLogRepository interface {
		Create(ctx context.Context, log *entity.CallbackLog) error
	}

	GatewayClient interface {
		Charge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResponse, bool, error)
		CreateLink(ctx context.Context, req *gateway.CreateLinkRequest) (*gateway.CreateLinkResponse, bool, error)
		DeleteLink(ctx context.Context, req *gateway.DeleteLinkRequest) (*gateway.DeleteLinkResponse, bool, error)
	}

	// CallbackVerifier checks who sent a callback and that it was not altered.
	CallbackVerifier interface {
		MerchantID() string
		Verify(kind gateway.RequestKind, fields map[string]string, signature string) bool
	}

	Locker interface {
		Obtain(ctx context.Context, key string, ttl time.Duration) (string, error)
		Release(ctx context.Context, key, token string) error
	}

	// FulfillmentQueue schedules later work for an order: a fulfillment
	// attempt for a paid order, or the replay of a verified callback that
	// could not be applied on delivery.
	FulfillmentQueue interface {
		Enqueue(ctx context.Context, orderNumber, reason string) error
		EnqueueCallback(ctx context.Context, orderNumber string, report entity.GatewayReport) error
	}

	Fulfiller interface {
		Fulfill(ctx context.Context, orderNumber string) error
	}
)
