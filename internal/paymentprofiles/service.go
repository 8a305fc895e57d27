package paymentprofiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/riveroslabs/merchant-console-backend/pkg/authnet"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

// HostedFormMode selects which gateway-hosted page the token targets.
type HostedFormMode string

const (
	HostedFormModeAdd  HostedFormMode = "add"
	HostedFormModeEdit HostedFormMode = "edit"
)

// Service manages stored payment methods through the gateway; raw card data
// never touches this layer thanks to the hosted-form handoff.
type Service interface {
	Get(ctx context.Context, profileID, paymentProfileID string) (*authnet.PaymentProfile, error)
	Delete(ctx context.Context, profileID, paymentProfileID string) error
	Refresh(ctx context.Context, profileID, paymentProfileID string) error
	HostedFormToken(ctx context.Context, input HostedFormTokenInput) (*HostedFormToken, error)
}

type gatewayClient interface {
	GetPaymentProfile(ctx context.Context, profileID, paymentProfileID string) (*authnet.PaymentProfile, error)
	UpdatePaymentProfile(ctx context.Context, profileID string, update authnet.UpdatePaymentProfile) error
	DeletePaymentProfile(ctx context.Context, profileID, paymentProfileID string) error
	GetHostedProfilePageToken(ctx context.Context, profileID string, settings authnet.HostedFormSettings) (string, error)
	HostedFormBaseURL() string
}

// HostedFormTokenInput selects the hosted page for one customer profile.
// PaymentProfileID is required in edit mode only.
type HostedFormTokenInput struct {
	ProfileID        string
	Mode             HostedFormMode
	PaymentProfileID string
}

// HostedFormToken is what the browser needs to auto-submit a hidden form
// into the gateway's iframe.
type HostedFormToken struct {
	Token   string `json:"token"`
	FormURL string `json:"form_url"`
}

type service struct {
	gateway       gatewayClient
	publicBaseURL string
}

// NewService constructs the payment profile service. publicBaseURL is where
// the gateway redirects the browser after a hosted-form session.
func NewService(gateway gatewayClient, publicBaseURL string) (Service, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway client required")
	}
	base := strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "public base url required")
	}
	return &service{gateway: gateway, publicBaseURL: base}, nil
}

// Get fetches one stored payment method, masked.
func (s *service) Get(ctx context.Context, profileID, paymentProfileID string) (*authnet.PaymentProfile, error) {
	return s.gateway.GetPaymentProfile(ctx, profileID, paymentProfileID)
}

// Delete removes a stored payment method.
func (s *service) Delete(ctx context.Context, profileID, paymentProfileID string) error {
	return s.gateway.DeletePaymentProfile(ctx, profileID, paymentProfileID)
}

// Refresh round-trips a stored payment method through the update API:
// fetch, rebuild the payload the update schema accepts, resubmit. The
// builder fails before any update call when the fetched profile carries no
// payment method.
func (s *service) Refresh(ctx context.Context, profileID, paymentProfileID string) error {
	profile, err := s.gateway.GetPaymentProfile(ctx, profileID, paymentProfileID)
	if err != nil {
		return err
	}
	update, err := BuildUpdatePayload(profile)
	if err != nil {
		return err
	}
	return s.gateway.UpdatePaymentProfile(ctx, profileID, update)
}

// HostedFormToken issues a one-time token plus the environment-specific
// hosted page URL for the requested mode.
func (s *service) HostedFormToken(ctx context.Context, input HostedFormTokenInput) (*HostedFormToken, error) {
	if strings.TrimSpace(input.ProfileID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}

	var formPath string
	switch input.Mode {
	case HostedFormModeAdd:
		formPath = "/addPayment"
	case HostedFormModeEdit:
		if strings.TrimSpace(input.PaymentProfileID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment profile id is required to edit")
		}
		formPath = "/editPayment"
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("hosted form mode must be %q or %q", HostedFormModeAdd, HostedFormModeEdit))
	}

	settings := authnet.HostedFormSettings{
		ReturnURL:             s.publicBaseURL + "/payment-forms/return",
		IFrameCommunicatorURL: s.publicBaseURL + "/payment-forms/communicator",
	}
	token, err := s.gateway.GetHostedProfilePageToken(ctx, input.ProfileID, settings)
	if err != nil {
		return nil, err
	}

	formURL := s.gateway.HostedFormBaseURL() + formPath
	if input.Mode == HostedFormModeEdit {
		formURL = fmt.Sprintf("%s?paymentProfileId=%s", formURL, strings.TrimSpace(input.PaymentProfileID))
	}

	return &HostedFormToken{Token: token, FormURL: formURL}, nil
}
