package httpt

import (
	"context"
	"net/url"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/service"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=payment_transport.go -destination=mock/transport_mock.go -package=mock_httpt

type (
	PaymentService interface {
		Charge(ctx context.Context, in *service.ChargeInput) (*service.ChargeResult, error)
		CreateLink(ctx context.Context, in *service.LinkInput) (*entity.Payment, error)
		DeleteLink(ctx context.Context, orderNumber string) (*entity.Payment, error)
		GetPayment(ctx context.Context, orderNumber string) (*entity.Payment, error)
		ListUnfulfilled(ctx context.Context, limit int) ([]*entity.Payment, error)
		RetryFulfillment(ctx context.Context, orderNumber string) (*entity.Payment, error)
	}

	CallbackService interface {
		HandleCallback(ctx context.Context, form url.Values) entity.CallbackResult
	}

	Authorizer interface {
		Authorize(subject entity.Subject, action Action) error
	}

	// ReadinessCheck reports whether a dependency can serve traffic.
	ReadinessCheck func(ctx context.Context) error
)

type namedCheck struct {
	name  string
	check ReadinessCheck
}

type PaymentHandler struct {
	payments  PaymentService
	callbacks CallbackService
	authz     Authorizer
	log       logger.Logger
	metrics   metric.HTTP
	router    *gin.Engine
	readiness []namedCheck
}

func NewPaymentHandler(
	payments PaymentService,
	callbacks CallbackService,
	authz Authorizer,
	log logger.Logger,
	metrics metric.HTTP,
) *PaymentHandler {
	h := &PaymentHandler{
		payments:  payments,
		callbacks: callbacks,
		authz:     authz,
		log:       log,
		metrics:   metrics,
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())

	h.router = router

	h.setupRoutes()

	return h
}

func (h *PaymentHandler) Engine() *gin.Engine {
	return h.router
}

// AddReadinessCheck registers a dependency probed by GET /ready. Must be
// called before the server starts.
func (h *PaymentHandler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.readiness = append(h.readiness, namedCheck{name: name, check: check})
}
