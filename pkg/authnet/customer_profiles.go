package authnet

import (
	"context"
	"strings"

	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

// NewCustomerProfile carries the fields used to create a customer profile.
// MerchantCustomerID is conventionally the customer's email so the profile
// can be located again by email probes.
type NewCustomerProfile struct {
	MerchantCustomerID string
	Email              string
	Description        string
}

type newCustomerProfilePayload struct {
	MerchantCustomerID string `json:"merchantCustomerId,omitempty"`
	Description        string `json:"description,omitempty"`
	Email              string `json:"email,omitempty"`
}

type createCustomerProfileRequest struct {
	MerchantAuthentication merchantAuthentication    `json:"merchantAuthentication"`
	Profile                newCustomerProfilePayload `json:"profile"`
}

type createCustomerProfileResponse struct {
	apiResponse
	CustomerProfileID string `json:"customerProfileId"`
}

// CreateCustomerProfile registers a new customer profile and returns the
// gateway-assigned profile id.
func (c *Client) CreateCustomerProfile(ctx context.Context, profile NewCustomerProfile) (string, error) {
	req := createCustomerProfileRequest{
		MerchantAuthentication: c.auth,
		Profile: newCustomerProfilePayload{
			MerchantCustomerID: strings.TrimSpace(profile.MerchantCustomerID),
			Description:        strings.TrimSpace(profile.Description),
			Email:              strings.TrimSpace(profile.Email),
		},
	}
	var out createCustomerProfileResponse
	if err := c.call(ctx, "createCustomerProfile", req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.CustomerProfileID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeMalformed, "createCustomerProfile response missing customerProfileId")
	}
	return out.CustomerProfileID, nil
}

type getCustomerProfileRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID      string                 `json:"customerProfileId,omitempty"`
	Email                  string                 `json:"email,omitempty"`
}

type customerProfilePayload struct {
	CustomerProfileID  string             `json:"customerProfileId"`
	MerchantCustomerID string             `json:"merchantCustomerId"`
	Email              string             `json:"email"`
	Description        string             `json:"description"`
	PaymentProfiles    paymentProfileList `json:"paymentProfiles"`
}

type getCustomerProfileResponse struct {
	apiResponse
	Profile         *customerProfilePayload `json:"profile"`
	SubscriptionIDs numericStringList       `json:"subscriptionIds"`
}

func (r *getCustomerProfileResponse) toCustomerProfile() *CustomerProfile {
	if r.Profile == nil {
		return nil
	}
	return &CustomerProfile{
		ProfileID:          r.Profile.CustomerProfileID,
		MerchantCustomerID: r.Profile.MerchantCustomerID,
		Email:              r.Profile.Email,
		Description:        r.Profile.Description,
		PaymentProfiles:    []PaymentProfile(r.Profile.PaymentProfiles),
		SubscriptionIDs:    []string(r.SubscriptionIDs),
	}
}

// GetCustomerProfile fetches a profile by its gateway-assigned id. A
// not-found result is surfaced as an error here, unlike the email probe.
func (c *Client) GetCustomerProfile(ctx context.Context, profileID string) (*CustomerProfile, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer profile id is required")
	}
	req := getCustomerProfileRequest{
		MerchantAuthentication: c.auth,
		CustomerProfileID:      strings.TrimSpace(profileID),
	}
	var out getCustomerProfileResponse
	if err := c.call(ctx, "getCustomerProfile", req, &out); err != nil {
		return nil, err
	}
	profile := out.toCustomerProfile()
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, "getCustomerProfile response missing profile")
	}
	return profile, nil
}

// GetCustomerProfileByEmail probes for a profile by email. The gateway's
// record-not-found result is an expected outcome of probing before create
// and returns nil, nil.
func (c *Client) GetCustomerProfileByEmail(ctx context.Context, email string) (*CustomerProfile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	req := getCustomerProfileRequest{
		MerchantAuthentication: c.auth,
		Email:                  strings.TrimSpace(email),
	}
	var out getCustomerProfileResponse
	if err := c.call(ctx, "getCustomerProfile", req, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	profile := out.toCustomerProfile()
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, "getCustomerProfile response missing profile")
	}
	return profile, nil
}

type getCustomerProfileIdsRequest struct {
	MerchantAuthentication merchantAuthentication `json:"merchantAuthentication"`
}

type getCustomerProfileIdsResponse struct {
	apiResponse
	IDs numericStringList `json:"ids"`
}

// GetCustomerProfileIDs lists every customer profile id known to the gateway.
func (c *Client) GetCustomerProfileIDs(ctx context.Context) ([]string, error) {
	req := getCustomerProfileIdsRequest{MerchantAuthentication: c.auth}
	var out getCustomerProfileIdsResponse
	if err := c.call(ctx, "getCustomerProfileIds", req, &out); err != nil {
		return nil, err
	}
	return []string(out.IDs), nil
}
