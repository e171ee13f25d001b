package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/basket"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/gateway"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres/transaction"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	_orderNumberPrefix    = "LM"
	_orderNumberHexLength = 30

	_defaultCurrency       = "TL"
	_defaultMaxInstallment = 12
	_defaultLinkTTL        = 7 * 24 * time.Hour
	_defaultListLimit      = 50
	_maxListLimit          = 500
	_slowOperation         = 2 * time.Second
)

type (
	Card struct {
		Owner       string `json:"owner"       validate:"required"`
		Number      string `json:"number"      validate:"required,numeric,min=12,max=19"`
		ExpiryMonth string `json:"expiryMonth" validate:"required,numeric,len=2"`
		ExpiryYear  string `json:"expiryYear"  validate:"required,numeric,len=2"`
		CVV         string `json:"cvv"         validate:"required,numeric,min=3,max=4"`
	}

	// ChargeInput is a direct card checkout for a license purchase.
	ChargeInput struct {
		UserID           uuid.UUID               `json:"userId"           validate:"required"`
		Operation        entity.LicenseOperation `json:"operation"        validate:"required,oneof=new_license extend_license"`
		NewLicense       *basket.NewLicense      `json:"newLicense"       validate:"required_if=Operation new_license"`
		ExtendLicense    *basket.ExtendLicense   `json:"extendLicense"    validate:"required_if=Operation extend_license"`
		Card             Card                    `json:"card"`
		InstallmentCount int                     `json:"installmentCount" validate:"min=0,max=12"`
		UserIP           string                  `json:"-"                validate:"required,ip"`
	}

	ChargeResult struct {
		Payment *entity.Payment
		// RedirectHTML is the 3-D Secure page to show the payer, if any.
		RedirectHTML string
	}

	// LinkInput describes a free-form amount collected through a payment link.
	LinkInput struct {
		UserID         uuid.UUID       `json:"userId"         validate:"required"`
		Description    string          `json:"description"    validate:"required,max=200"`
		Amount         decimal.Decimal `json:"amount"`
		MaxInstallment int             `json:"maxInstallment" validate:"min=0,max=12"`
		ExpiresAt      time.Time       `json:"expiresAt"`
	}
)

type PaymentOption func(*PaymentService)

func WithCurrency(currency string) PaymentOption {
	return func(s *PaymentService) {
		s.currency = currency
	}
}

func WithMaxInstallment(n int) PaymentOption {
	return func(s *PaymentService) {
		s.maxInstallment = n
	}
}

func WithLinkTTL(ttl time.Duration) PaymentOption {
	return func(s *PaymentService) {
		s.linkTTL = ttl
	}
}

// PaymentService starts payments and answers questions about them.
type PaymentService struct {
	payments    PaymentRepository
	licenses    LicenseRepository
	users       UserRepository
	restaurants RestaurantRepository
	catalog     *Catalog
	ledger      *Ledger
	gateway     GatewayClient
	fulfillment *FulfillmentService
	txManager   transaction.Manager
	validate    *validator.Validate
	logger      logger.Logger
	now         func() time.Time

	currency       string
	maxInstallment int
	linkTTL        time.Duration
}

func NewPaymentService(
	payments PaymentRepository,
	licenses LicenseRepository,
	users UserRepository,
	restaurants RestaurantRepository,
	catalog *Catalog,
	ledger *Ledger,
	gatewayClient GatewayClient,
	fulfillment *FulfillmentService,
	txManager transaction.Manager,
	logger logger.Logger,
	opts ...PaymentOption,
) *PaymentService {
	s := &PaymentService{
		payments:    payments,
		licenses:    licenses,
		users:       users,
		restaurants: restaurants,
		catalog:     catalog,
		ledger:      ledger,
		gateway:     gatewayClient,
		fulfillment: fulfillment,
		txManager:   txManager,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
		now:         time.Now,

		currency:       _defaultCurrency,
		maxInstallment: _defaultMaxInstallment,
		linkTTL:        _defaultLinkTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Charge prices the basket, stores a waiting payment and sends the card
// charge. The payment is stored first so a fast callback always finds it.
// A declined card returns the failed payment with *entity.GatewayRejection.
func (s *PaymentService) Charge(ctx context.Context, in *ChargeInput) (*ChargeResult, error) {
	const op = "service.PaymentService.Charge"
	log := s.logger.Ctx(ctx)

	startTime := time.Now()
	defer s.warnIfSlow(ctx, op, startTime)

	if err := s.validateInput(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b, err := s.chargeBasket(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	encoded, err := basket.Encode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, lines, err := s.priceBasket(ctx, in.UserID, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	amount := decimal.Zero
	for _, line := range lines {
		amount = amount.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	payment := s.newPayment(user, amount, entity.PaymentMethodCard, b.Operation(), encoded)
	payment.CustomerIP = in.UserIP
	payment.InstallmentCount = in.InstallmentCount

	req := &gateway.ChargeRequest{
		OrderNumber:      payment.OrderNumber,
		UserIP:           in.UserIP,
		Email:            user.Email,
		Amount:           amount,
		Currency:         payment.Currency,
		InstallmentCount: in.InstallmentCount,
		Card: gateway.Card{
			Owner:       in.Card.Owner,
			Number:      in.Card.Number,
			ExpiryMonth: in.Card.ExpiryMonth,
			ExpiryYear:  in.Card.ExpiryYear,
			CVV:         in.Card.CVV,
		},
		CustomerName:    user.FullName,
		CustomerAddress: user.Address,
		CustomerPhone:   user.Phone,
		Lines:           lines,
	}
	// nothing is stored for a charge the gateway would refuse to read
	if err = req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.store(ctx, payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.LogAttrs(ctx, logger.InfoLevel, "charge started",
		logger.String("op", op),
		logger.OrderNumber(payment.OrderNumber),
		logger.String("operation", string(payment.Operation)),
		logger.String("amount", amount.StringFixed(2)),
		logger.String("card", gateway.MaskCardNumber(in.Card.Number)),
	)

	resp, ok, err := s.gateway.Charge(ctx, req)
	if err != nil {
		s.recordGatewayError(ctx, payment, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		failed, rejErr := s.reject(ctx, payment, resp.Reason)
		return &ChargeResult{Payment: failed}, fmt.Errorf("%s: %w", op, rejErr)
	}

	payment.GatewayToken = resp.Token
	payment.TransactionID = resp.TransactionID
	payment.UpdatedAt = s.now().UTC()
	if err = s.updateGatewayResult(ctx, payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &ChargeResult{Payment: payment, RedirectHTML: resp.RedirectHTML}, nil
}

// CreateLink stores a waiting link payment and asks the gateway for a
// one-time payment link.
func (s *PaymentService) CreateLink(ctx context.Context, in *LinkInput) (*entity.Payment, error) {
	const op = "service.PaymentService.CreateLink"

	if err := s.validateInput(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%s: %w: amount must be positive", op, entity.ErrInvalidData)
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: load user: %w", op, err)
	}

	encoded, err := basket.Encode(&basket.Link{Description: in.Description})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment := s.newPayment(user, in.Amount.Round(2), entity.PaymentMethodLink, entity.OperationLink, encoded)

	maxInstallment := in.MaxInstallment
	if maxInstallment == 0 {
		maxInstallment = s.maxInstallment
	}
	expiresAt := in.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.linkTTL)
	}

	req := &gateway.CreateLinkRequest{
		OrderNumber:    payment.OrderNumber,
		Name:           in.Description,
		Price:          payment.Amount,
		Currency:       payment.Currency,
		MaxInstallment: maxInstallment,
		MinCount:       1,
		MaxCount:       1,
		ExpiresAt:      expiresAt,
		Email:          user.Email,
	}
	if err = req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.store(ctx, payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, ok, err := s.gateway.CreateLink(ctx, req)
	if err != nil {
		s.recordGatewayError(ctx, payment, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		failed, rejErr := s.reject(ctx, payment, resp.Reason)
		return failed, fmt.Errorf("%s: %w", op, rejErr)
	}

	payment.LinkID = resp.LinkID
	payment.LinkURL = resp.URL
	payment.UpdatedAt = s.now().UTC()
	if err = s.updateGatewayResult(ctx, payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Ctx(ctx).LogAttrs(ctx, logger.InfoLevel, "payment link created",
		logger.String("op", op),
		logger.OrderNumber(payment.OrderNumber),
		logger.String("link_id", payment.LinkID),
	)
	return payment, nil
}

// DeleteLink withdraws an unpaid link and cancels its payment.
func (s *PaymentService) DeleteLink(ctx context.Context, orderNumber string) (*entity.Payment, error) {
	const op = "service.PaymentService.DeleteLink"

	payment, err := s.payments.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case payment.Method != entity.PaymentMethodLink || payment.LinkID == "":
		return nil, fmt.Errorf("%s: %w: %s is not a payment link", op, entity.ErrInvalidData, orderNumber)
	case payment.Status != entity.PaymentStatusWaiting:
		return nil, fmt.Errorf("%s: %w: %s", op, entity.ErrPaymentNotWaiting, payment.Status)
	}

	resp, ok, err := s.gateway.DeleteLink(ctx, &gateway.DeleteLinkRequest{LinkID: payment.LinkID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, &entity.GatewayRejection{Reason: resp.Reason})
	}

	var applied bool
	err = s.txManager.ExecuteInTransaction(ctx, "CancelLink", func(tx postgres.QueryExecuter) error {
		var applyErr error
		payment, applied, applyErr = s.ledger.Apply(ctx, tx, orderNumber, entity.GatewayReport{
			Status:       entity.PaymentStatusCancelled,
			ErrorMessage: "link deleted",
		})
		if applyErr != nil {
			return transaction.HandleError("CancelLink", "apply transition", applyErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !applied {
		return payment, fmt.Errorf("%s: %w: %s", op, entity.ErrPaymentNotWaiting, payment.Status)
	}
	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, orderNumber string) (*entity.Payment, error) {
	const op = "service.PaymentService.GetPayment"

	if orderNumber == "" {
		return nil, fmt.Errorf("%s: %w: empty order number", op, entity.ErrInvalidData)
	}
	payment, err := s.payments.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// ListUnfulfilled returns paid payments still waiting for their license.
func (s *PaymentService) ListUnfulfilled(ctx context.Context, limit int) ([]*entity.Payment, error) {
	const op = "service.PaymentService.ListUnfulfilled"

	switch {
	case limit <= 0:
		limit = _defaultListLimit
	case limit > _maxListLimit:
		limit = _maxListLimit
	}

	payments, err := s.payments.ListUnfulfilled(ctx, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}

// RetryFulfillment is the manual reconciliation path for a paid payment
// whose license was not issued.
func (s *PaymentService) RetryFulfillment(ctx context.Context, orderNumber string) (*entity.Payment, error) {
	const op = "service.PaymentService.RetryFulfillment"

	if err := s.fulfillment.Retry(ctx, orderNumber); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetPayment(ctx, orderNumber)
}

func (s *PaymentService) validateInput(in any) error {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, verr := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", verr.Namespace(), verr.Tag()))
			}
			return fmt.Errorf("%w: %s", entity.ErrInvalidData, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", entity.ErrInvalidData, err)
	}
	return nil
}

func (s *PaymentService) chargeBasket(in *ChargeInput) (basket.Basket, error) {
	switch in.Operation {
	case entity.OperationNewLicense:
		return in.NewLicense, nil
	case entity.OperationExtendLicense:
		return in.ExtendLicense, nil
	default:
		return nil, fmt.Errorf("%w: operation %q cannot be charged by card", entity.ErrInvalidData, in.Operation)
	}
}

// priceBasket loads the payer and everything the basket references, and
// prices each license at the payer's dealer or user price.
func (s *PaymentService) priceBasket(
	ctx context.Context,
	userID uuid.UUID,
	b basket.Basket,
) (*entity.User, []gateway.BasketLine, error) {
	var (
		user  *entity.User
		pairs [][2]uuid.UUID
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.GetByID(gCtx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		return nil
	})

	switch b := b.(type) {
	case *basket.NewLicense:
		pairs = b.Pairs()
		for _, item := range b.Items {
			g.Go(func() error {
				if _, err := s.restaurants.GetByID(gCtx, item.RestaurantID); err != nil {
					return fmt.Errorf("load restaurant: %w", err)
				}
				return nil
			})
		}
	case *basket.ExtendLicense:
		pairs = [][2]uuid.UUID{{b.RestaurantID, b.LicensePackageID}}
		g.Go(func() error {
			license, err := s.licenses.GetByID(gCtx, b.LicenseID)
			if err != nil {
				return fmt.Errorf("load license: %w", err)
			}
			if license.RestaurantID != b.RestaurantID {
				return fmt.Errorf("%w: license %s does not belong to restaurant %s",
					entity.ErrInvalidData, b.LicenseID, b.RestaurantID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	lines := make([]gateway.BasketLine, 0, len(pairs))
	for _, pair := range pairs {
		pkg, err := s.catalog.Package(ctx, pair[1])
		if err != nil {
			return nil, nil, err
		}
		if !pkg.IsActive {
			return nil, nil, fmt.Errorf("%w: %s", entity.ErrPackageInactive, pkg.Name)
		}
		lines = append(lines, gateway.BasketLine{
			Name:     pkg.Name,
			Price:    pkg.Price(user.IsDealer),
			Quantity: 1,
		})
	}
	return user, lines, nil
}

func (s *PaymentService) newPayment(
	user *entity.User,
	amount decimal.Decimal,
	method entity.PaymentMethod,
	operation entity.LicenseOperation,
	encodedBasket []byte,
) *entity.Payment {
	now := s.now().UTC()
	return &entity.Payment{
		ID:                uuid.New(),
		OrderNumber:       NewOrderNumber(),
		UserID:            user.ID,
		Amount:            amount,
		Currency:          s.currency,
		Method:            method,
		Status:            entity.PaymentStatusWaiting,
		Operation:         operation,
		Basket:            encodedBasket,
		PayerIsDealer:     user.IsDealer,
		CustomerName:      user.FullName,
		CustomerEmail:     user.Email,
		CustomerPhone:     user.Phone,
		CustomerAddress:   user.Address,
		FulfillmentStatus: entity.FulfillmentNone,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewOrderNumber returns an alphanumeric merchant order id the gateway
// accepts: "LM" followed by 30 hex characters.
func NewOrderNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return _orderNumberPrefix + strings.ToUpper(id[:_orderNumberHexLength])
}

func (s *PaymentService) store(ctx context.Context, payment *entity.Payment) error {
	return s.txManager.ExecuteInTransaction(ctx, "CreatePayment", func(tx postgres.QueryExecuter) error {
		if err := s.payments.Create(ctx, tx, payment); err != nil {
			return transaction.HandleError("CreatePayment", "insert payment", err)
		}
		return nil
	})
}

func (s *PaymentService) updateGatewayResult(ctx context.Context, payment *entity.Payment) error {
	return s.txManager.ExecuteInTransaction(ctx, "StoreGatewayResult", func(tx postgres.QueryExecuter) error {
		if err := s.payments.UpdateGatewayResult(ctx, tx, payment); err != nil {
			return transaction.HandleError("StoreGatewayResult", "update payment", err)
		}
		return nil
	})
}

// reject moves the payment to failed with the gateway's reason. A callback
// that got there first wins and its status is kept.
func (s *PaymentService) reject(ctx context.Context, payment *entity.Payment, reason string) (*entity.Payment, error) {
	rejection := &entity.GatewayRejection{Reason: reason}

	var current *entity.Payment
	err := s.txManager.ExecuteInTransaction(ctx, "RejectPayment", func(tx postgres.QueryExecuter) error {
		var applyErr error
		current, _, applyErr = s.ledger.Apply(ctx, tx, payment.OrderNumber, entity.GatewayReport{
			Status:       entity.PaymentStatusFailed,
			ErrorMessage: reason,
		})
		if applyErr != nil {
			return transaction.HandleError("RejectPayment", "apply transition", applyErr)
		}
		return nil
	})
	if err != nil {
		return payment, errors.Join(rejection, err)
	}

	s.logger.Ctx(ctx).LogAttrs(ctx, logger.InfoLevel, "gateway rejected payment",
		logger.OrderNumber(payment.OrderNumber),
		logger.String("reason", reason),
	)
	return current, rejection
}

// recordGatewayError keeps the payment waiting, since the gateway may still
// have taken it, and stores the error for reconciliation.
func (s *PaymentService) recordGatewayError(ctx context.Context, payment *entity.Payment, cause error) {
	payment.ErrorMessage = cause.Error()
	payment.UpdatedAt = s.now().UTC()

	if err := s.updateGatewayResult(context.WithoutCancel(ctx), payment); err != nil {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.ErrorLevel, "failed to record gateway error",
			logger.OrderNumber(payment.OrderNumber),
			logger.Err(err),
		)
	}
	s.logger.Ctx(ctx).LogAttrs(ctx, logger.WarnLevel, "gateway call failed, payment left waiting",
		logger.OrderNumber(payment.OrderNumber),
		logger.Err(cause),
	)
}

func (s *PaymentService) warnIfSlow(ctx context.Context, op string, start time.Time) {
	if d := time.Since(start); d > _slowOperation {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.WarnLevel, "slow service operation",
			logger.String("op", op),
			logger.String("duration", d.String()),
		)
	}
}
