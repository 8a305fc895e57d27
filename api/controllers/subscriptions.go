package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/riveroslabs/merchant-console-backend/api/responses"
	"github.com/riveroslabs/merchant-console-backend/api/validators"
	"github.com/riveroslabs/merchant-console-backend/internal/subscriptions"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
)

type SubscriptionsController struct {
	service subscriptions.Service
	logger  *logger.Logger
}

func NewSubscriptionsController(service subscriptions.Service, logg *logger.Logger) *SubscriptionsController {
	return &SubscriptionsController{service: service, logger: logg}
}

type createSubscriptionRequest struct {
	Name              string `json:"name" validate:"omitempty,max=50"`
	Amount            string `json:"amount" validate:"required"`
	TrialAmount       string `json:"trial_amount" validate:"omitempty"`
	IntervalLength    int    `json:"interval_length" validate:"required,min=1"`
	IntervalUnit      string `json:"interval_unit" validate:"required,oneof=days months"`
	StartDate         string `json:"start_date" validate:"required"`
	TotalOccurrences  int    `json:"total_occurrences" validate:"required,min=1"`
	TrialOccurrences  int    `json:"trial_occurrences" validate:"omitempty,min=0"`
	CustomerProfileID string `json:"customer_profile_id" validate:"required"`
	PaymentProfileID  string `json:"payment_profile_id" validate:"required"`
}

type createSubscriptionResponse struct {
	SubscriptionID string `json:"subscription_id"`
}

// Create starts a recurring subscription against a stored payment method
// and returns the gateway-assigned id.
func (c *SubscriptionsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body createSubscriptionRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	id, err := c.service.Create(ctx, subscriptions.CreateInput{
		Name:              body.Name,
		Amount:            body.Amount,
		TrialAmount:       body.TrialAmount,
		IntervalLength:    body.IntervalLength,
		IntervalUnit:      body.IntervalUnit,
		StartDate:         body.StartDate,
		TotalOccurrences:  body.TotalOccurrences,
		TrialOccurrences:  body.TrialOccurrences,
		CustomerProfileID: body.CustomerProfileID,
		PaymentProfileID:  body.PaymentProfileID,
	})
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, createSubscriptionResponse{SubscriptionID: id})
}

// Get returns the subscription's current gateway state.
func (c *SubscriptionsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subscriptionID := chi.URLParam(r, "subscriptionID")

	sub, err := c.service.Get(ctx, subscriptionID)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, sub)
}

// Cancel requests cancellation; repeat cancels surface the gateway's own
// error.
func (c *SubscriptionsController) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subscriptionID := chi.URLParam(r, "subscriptionID")

	if err := c.service.Cancel(ctx, subscriptionID); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]string{"subscription_id": subscriptionID, "status": "cancel_requested"})
}
