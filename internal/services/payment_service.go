// internal/services/payment_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type CreatePaymentIntentRequest struct {
	Amount   decimal.Decimal        `json:"amount" validate:"required"`
	Currency string                 `json:"currency,omitempty"`
	FarmID   uuid.UUID              `json:"farm_id" validate:"required"`
	Tokens   int64                  `json:"tokens" validate:"required,gt=0"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type RefundPaymentRequest struct {
	PaymentIntentID string          `json:"payment_intent_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount,omitempty"`
	Reason          string          `json:"reason" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreatePaymentIntent opens a Stripe intent for a USD token purchase. The
// ledger is only written once the intent succeeds.
func (s *PaymentService) CreatePaymentIntent(userID uuid.UUID, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	// Set default currency
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	// Convert amount to cents for Stripe
	amountInCents := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	// Prepare metadata
	metadata := make(map[string]string)
	metadata["user_id"] = userID.String()
	metadata["farm_id"] = req.FarmID.String()
	metadata["tokens"] = fmt.Sprintf("%d", req.Tokens)
	for k, v := range req.Metadata {
		if str, ok := v.(string); ok {
			metadata[k] = str
		}
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// VerifyIntentSucceeded checks the intent against Stripe before any ledger
// write depends on it.
func (s *PaymentService) VerifyIntentSucceeded(paymentIntentID string) error {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return nil
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		return fmt.Errorf("payment requires further action")
	default:
		return fmt.Errorf("payment has not succeeded: %s", pi.Status)
	}
}

func (s *PaymentService) GetPaymentIntent(paymentIntentID string) (*PaymentIntentResponse, error) {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ProcessRefund refunds a Stripe payment, full or partial.
func (s *PaymentService) ProcessRefund(req *RefundPaymentRequest, adminID uuid.UUID) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntentID),
		Reason:        stripe.String("requested_by_customer"),
	}
	if req.Amount.GreaterThan(decimal.Zero) {
		params.Amount = stripe.Int64(req.Amount.Mul(decimal.NewFromInt(100)).IntPart())
	}

	ref, err := refund.New(params)
	if err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"refund_id":         ref.ID,
		"payment_intent_id": req.PaymentIntentID,
		"admin_id":          adminID,
		"reason":            req.Reason,
	}).Info("Refund processed")

	return nil
}
