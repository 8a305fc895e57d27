package authnet

import (
	"context"
	"strings"

	"github.com/riveroslabs/merchant-console-backend/pkg/enums"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

// NewSubscription carries the fields required to start a recurring
// subscription against an existing payment profile.
type NewSubscription struct {
	Name              string
	Amount            Amount
	TrialAmount       Amount
	Schedule          PaymentSchedule
	CustomerProfileID string
	PaymentProfileID  string
}

type subscriptionProfileRequest struct {
	CustomerProfileID        string `json:"customerProfileId"`
	CustomerPaymentProfileID string `json:"customerPaymentProfileId"`
}

type newSubscriptionPayload struct {
	Name            string                     `json:"name,omitempty"`
	PaymentSchedule PaymentSchedule            `json:"paymentSchedule"`
	Amount          Amount                     `json:"amount"`
	TrialAmount     Amount                     `json:"trialAmount,omitempty"`
	Profile         subscriptionProfileRequest `json:"profile"`
}

type arbCreateSubscriptionRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	Subscription           newSubscriptionPayload `json:"subscription"`
}

type arbCreateSubscriptionResponse struct {
	apiResponse
	SubscriptionID string `json:"subscriptionId"`
}

// CreateSubscription starts a subscription; the gateway decides the initial
// status, which callers read back rather than infer.
func (c *Client) CreateSubscription(ctx context.Context, sub NewSubscription) (string, error) {
	if strings.TrimSpace(sub.CustomerProfileID) == "" || strings.TrimSpace(sub.PaymentProfileID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer profile id and payment profile id are required")
	}
	req := arbCreateSubscriptionRequest{
		MerchantAuthentication: c.auth,
		Subscription: newSubscriptionPayload{
			Name:            strings.TrimSpace(sub.Name),
			PaymentSchedule: sub.Schedule,
			Amount:          sub.Amount,
			TrialAmount:     sub.TrialAmount,
			Profile: subscriptionProfileRequest{
				CustomerProfileID:        strings.TrimSpace(sub.CustomerProfileID),
				CustomerPaymentProfileID: strings.TrimSpace(sub.PaymentProfileID),
			},
		},
	}
	var out arbCreateSubscriptionResponse
	if err := c.call(ctx, "ARBCreateSubscription", req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.SubscriptionID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeMalformed, "ARBCreateSubscription response missing subscriptionId")
	}
	return out.SubscriptionID, nil
}

type arbGetSubscriptionRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	SubscriptionID         string                 `json:"subscriptionId"`
}

type subscriptionPaymentProfileRef struct {
	CustomerPaymentProfileID string `json:"customerPaymentProfileId"`
}

type subscriptionProfileRef struct {
	CustomerProfileID        string                         `json:"customerProfileId"`
	CustomerPaymentProfileID string                         `json:"customerPaymentProfileId"`
	PaymentProfile           *subscriptionPaymentProfileRef `json:"paymentProfile"`
}

// paymentProfileID reconciles the back-reference, which the gateway carries
// in two possible locations; the nested form takes precedence.
func (p *subscriptionProfileRef) paymentProfileID() string {
	if p == nil {
		return ""
	}
	if p.PaymentProfile != nil && strings.TrimSpace(p.PaymentProfile.CustomerPaymentProfileID) != "" {
		return p.PaymentProfile.CustomerPaymentProfileID
	}
	return p.CustomerPaymentProfileID
}

type subscriptionPayload struct {
	Name            string                  `json:"name"`
	Status          string                  `json:"status"`
	Amount          Amount                  `json:"amount"`
	TrialAmount     Amount                  `json:"trialAmount"`
	PaymentSchedule PaymentSchedule         `json:"paymentSchedule"`
	Profile         *subscriptionProfileRef `json:"profile"`
}

type arbGetSubscriptionResponse struct {
	apiResponse
	Subscription *subscriptionPayload `json:"subscription"`
}

// GetSubscription fetches one subscription; the status is whatever the
// gateway reports right now, never a cached transition.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	req := arbGetSubscriptionRequest{
		MerchantAuthentication: c.auth,
		SubscriptionID:         strings.TrimSpace(subscriptionID),
	}
	var out arbGetSubscriptionResponse
	if err := c.call(ctx, "ARBGetSubscription", req, &out); err != nil {
		return nil, err
	}
	if out.Subscription == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, "ARBGetSubscription response missing subscription")
	}

	sub := &Subscription{
		SubscriptionID:  strings.TrimSpace(subscriptionID),
		Name:            out.Subscription.Name,
		Status:          enums.SubscriptionStatus(strings.ToLower(strings.TrimSpace(out.Subscription.Status))),
		Amount:          out.Subscription.Amount,
		TrialAmount:     out.Subscription.TrialAmount,
		PaymentSchedule: out.Subscription.PaymentSchedule,
	}
	if out.Subscription.Profile != nil {
		sub.CustomerProfileID = out.Subscription.Profile.CustomerProfileID
		sub.PaymentProfileID = out.Subscription.Profile.paymentProfileID()
	}
	return sub, nil
}

type arbCancelSubscriptionRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	SubscriptionID         string                 `json:"subscriptionId"`
}

type arbCancelSubscriptionResponse struct {
	apiResponse
}

// CancelSubscription is one-way; cancelling an already-canceled subscription
// surfaces whatever error the gateway returns, never suppressed here.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	if strings.TrimSpace(subscriptionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	req := arbCancelSubscriptionRequest{
		MerchantAuthentication: c.auth,
		SubscriptionID:         strings.TrimSpace(subscriptionID),
	}
	var out arbCancelSubscriptionResponse
	return c.call(ctx, "ARBCancelSubscription", req, &out)
}
