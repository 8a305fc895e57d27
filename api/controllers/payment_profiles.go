package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/riveroslabs/merchant-console-backend/api/responses"
	"github.com/riveroslabs/merchant-console-backend/api/validators"
	"github.com/riveroslabs/merchant-console-backend/internal/paymentprofiles"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
)

// PaymentProfilesController manages stored payment methods. All card entry
// happens on gateway-hosted pages; this controller only hands out tokens
// and operates on already-stored methods.
type PaymentProfilesController struct {
	service paymentprofiles.Service
	logger  *logger.Logger
}

func NewPaymentProfilesController(service paymentprofiles.Service, logg *logger.Logger) *PaymentProfilesController {
	return &PaymentProfilesController{service: service, logger: logg}
}

// Get returns one masked stored payment method.
func (c *PaymentProfilesController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := chi.URLParam(r, "profileID")
	paymentProfileID := chi.URLParam(r, "paymentProfileID")

	profile, err := c.service.Get(ctx, profileID, paymentProfileID)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, profile)
}

// Delete removes a stored payment method.
func (c *PaymentProfilesController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := chi.URLParam(r, "profileID")
	paymentProfileID := chi.URLParam(r, "paymentProfileID")

	if err := c.service.Delete(ctx, profileID, paymentProfileID); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]string{"payment_profile_id": paymentProfileID, "status": "deleted"})
}

// Refresh re-asserts a stored payment method through the update API so the
// gateway revalidates it.
func (c *PaymentProfilesController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := chi.URLParam(r, "profileID")
	paymentProfileID := chi.URLParam(r, "paymentProfileID")

	if err := c.service.Refresh(ctx, profileID, paymentProfileID); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]string{"payment_profile_id": paymentProfileID, "status": "refreshed"})
}

type hostedFormTokenRequest struct {
	Mode             string `json:"mode" validate:"required,oneof=add edit"`
	PaymentProfileID string `json:"payment_profile_id" validate:"omitempty"`
}

// HostedFormToken issues a one-time token plus the hosted page URL for
// adding or editing a payment method in the gateway's iframe.
func (c *PaymentProfilesController) HostedFormToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileID := chi.URLParam(r, "profileID")

	var body hostedFormTokenRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	token, err := c.service.HostedFormToken(ctx, paymentprofiles.HostedFormTokenInput{
		ProfileID:        profileID,
		Mode:             paymentprofiles.HostedFormMode(body.Mode),
		PaymentProfileID: body.PaymentProfileID,
	})
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, token)
}
