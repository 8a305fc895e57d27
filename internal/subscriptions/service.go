package subscriptions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riveroslabs/merchant-console-backend/pkg/authnet"
	"github.com/riveroslabs/merchant-console-backend/pkg/enums"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

const startDateLayout = "2006-01-02"

// Service drives recurring subscriptions through the gateway. Status is
// never cached or inferred: every display is a fresh read, and cancel is
// one-way with the gateway's own error surfaced on repeats.
type Service interface {
	Create(ctx context.Context, input CreateInput) (string, error)
	Get(ctx context.Context, subscriptionID string) (*authnet.Subscription, error)
	Cancel(ctx context.Context, subscriptionID string) error
}

type gatewayClient interface {
	CreateSubscription(ctx context.Context, sub authnet.NewSubscription) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*authnet.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

// CreateInput is the operator-supplied subscription request, validated here
// before any gateway call.
type CreateInput struct {
	Name              string
	Amount            string
	TrialAmount       string
	IntervalLength    int
	IntervalUnit      string
	StartDate         string
	TotalOccurrences  int
	TrialOccurrences  int
	CustomerProfileID string
	PaymentProfileID  string
}

type service struct {
	gateway gatewayClient
}

// NewService constructs the subscription service.
func NewService(gateway gatewayClient) (Service, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway client required")
	}
	return &service{gateway: gateway}, nil
}

// Create validates the schedule and starts the subscription, returning the
// gateway-assigned id. The initial status is whatever the gateway assigned;
// callers read it back rather than assume it.
func (s *service) Create(ctx context.Context, input CreateInput) (string, error) {
	sub, err := buildNewSubscription(input)
	if err != nil {
		return "", err
	}
	return s.gateway.CreateSubscription(ctx, sub)
}

// Get returns the current gateway state of one subscription.
func (s *service) Get(ctx context.Context, subscriptionID string) (*authnet.Subscription, error) {
	return s.gateway.GetSubscription(ctx, subscriptionID)
}

// Cancel requests cancellation. Cancelling an already-canceled subscription
// surfaces the gateway's error unchanged.
func (s *service) Cancel(ctx context.Context, subscriptionID string) error {
	return s.gateway.CancelSubscription(ctx, subscriptionID)
}

func buildNewSubscription(input CreateInput) (authnet.NewSubscription, error) {
	var zero authnet.NewSubscription

	if strings.TrimSpace(input.CustomerProfileID) == "" {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, "customer profile id is required")
	}
	if strings.TrimSpace(input.PaymentProfileID) == "" {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, "payment profile id is required")
	}

	unit, err := enums.ParseIntervalUnit(strings.ToLower(strings.TrimSpace(input.IntervalUnit)))
	if err != nil {
		return zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid interval unit")
	}
	if !unit.LengthInRange(input.IntervalLength) {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("interval length %d is out of range for unit %s", input.IntervalLength, unit))
	}

	if _, err := time.Parse(startDateLayout, input.StartDate); err != nil {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("start date must be formatted %s", startDateLayout))
	}
	if input.TotalOccurrences < 1 {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, "total occurrences must be at least 1")
	}
	if input.TrialOccurrences < 0 || input.TrialOccurrences >= input.TotalOccurrences {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, "trial occurrences must be fewer than total occurrences")
	}

	amount, err := authnet.ParseAmount(input.Amount)
	if err != nil {
		return zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
	}

	var trialAmount authnet.Amount
	if input.TrialOccurrences > 0 {
		if strings.TrimSpace(input.TrialAmount) == "" {
			return zero, pkgerrors.New(pkgerrors.CodeValidation, "trial amount is required when trial occurrences are set")
		}
		trialAmount, err = authnet.ParseAmount(input.TrialAmount)
		if err != nil {
			return zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trial amount")
		}
	}

	return authnet.NewSubscription{
		Name:        strings.TrimSpace(input.Name),
		Amount:      amount,
		TrialAmount: trialAmount,
		Schedule: authnet.PaymentSchedule{
			Interval: authnet.Interval{
				Length: input.IntervalLength,
				Unit:   unit,
			},
			StartDate:        input.StartDate,
			TotalOccurrences: input.TotalOccurrences,
			TrialOccurrences: input.TrialOccurrences,
		},
		CustomerProfileID: strings.TrimSpace(input.CustomerProfileID),
		PaymentProfileID:  strings.TrimSpace(input.PaymentProfileID),
	}, nil
}
