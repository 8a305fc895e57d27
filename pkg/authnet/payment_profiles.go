package authnet

import (
	"context"
	"strings"

	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

type getCustomerPaymentProfileRequest struct {
	MerchantAuthentication   merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID        string                 `json:"customerProfileId"`
	CustomerPaymentProfileID string                 `json:"customerPaymentProfileId"`
}

type getCustomerPaymentProfileResponse struct {
	apiResponse
	PaymentProfile *PaymentProfile `json:"paymentProfile"`
}

// GetPaymentProfile fetches one stored payment method. Card and account
// numbers arrive masked and stay masked.
func (c *Client) GetPaymentProfile(ctx context.Context, profileID, paymentProfileID string) (*PaymentProfile, error) {
	if strings.TrimSpace(profileID) == "" || strings.TrimSpace(paymentProfileID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer profile id and payment profile id are required")
	}
	req := getCustomerPaymentProfileRequest{
		MerchantAuthentication:   c.auth,
		CustomerProfileID:        strings.TrimSpace(profileID),
		CustomerPaymentProfileID: strings.TrimSpace(paymentProfileID),
	}
	var out getCustomerPaymentProfileResponse
	if err := c.call(ctx, "getCustomerPaymentProfile", req, &out); err != nil {
		return nil, err
	}
	if out.PaymentProfile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, "getCustomerPaymentProfile response missing paymentProfile")
	}
	return out.PaymentProfile, nil
}

// UpdateBillTo is the update schema's billing address. Fields carry no
// omitempty on purpose: the gateway treats an omitted field as "keep" and a
// blank one as "clear", and updates must round-trip blanks.
type UpdateBillTo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Company     string `json:"company"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateCreditCard is the card sub-object the update schema accepts; it
// rejects cardType and cardCode, so they are not representable here.
type UpdateCreditCard struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
}

// UpdatePaymentProfile carries a full update payload for one stored payment
// method. Exactly one of CreditCard or BankAccount must be set.
type UpdatePaymentProfile struct {
	CustomerPaymentProfileID string
	BillTo                   UpdateBillTo
	CreditCard               *UpdateCreditCard
	BankAccount              *BankAccount
	DefaultPaymentProfile    bool
}

type updatePaymentPayload struct {
	CreditCard  *UpdateCreditCard `json:"creditCard,omitempty"`
	BankAccount *BankAccount      `json:"bankAccount,omitempty"`
}

type updatePaymentProfilePayload struct {
	BillTo                   UpdateBillTo         `json:"billTo"`
	Payment                  updatePaymentPayload `json:"payment"`
	DefaultPaymentProfile    bool                 `json:"defaultPaymentProfile"`
	CustomerPaymentProfileID string               `json:"customerPaymentProfileId"`
}

type updateCustomerPaymentProfileRequest struct {
	MerchantAuthentication merchantAuthentication      `json:"merchantAuthentication"`
	CustomerProfileID      string                      `json:"customerProfileId"`
	PaymentProfile         updatePaymentProfilePayload `json:"paymentProfile"`
	ValidationMode         string                      `json:"validationMode,omitempty"`
}

type updateCustomerPaymentProfileResponse struct {
	apiResponse
}

// UpdatePaymentProfile resubmits a stored payment method. The payload must
// re-assert a payment method; callers build it with the update-payload
// builder so required blanks survive the round trip.
func (c *Client) UpdatePaymentProfile(ctx context.Context, profileID string, update UpdatePaymentProfile) error {
	if strings.TrimSpace(profileID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer profile id is required")
	}
	if strings.TrimSpace(update.CustomerPaymentProfileID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment profile id is required")
	}
	if update.CreditCard == nil && update.BankAccount == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "update must re-assert a credit card or bank account")
	}
	req := updateCustomerPaymentProfileRequest{
		MerchantAuthentication: c.auth,
		CustomerProfileID:      strings.TrimSpace(profileID),
		PaymentProfile: updatePaymentProfilePayload{
			BillTo: update.BillTo,
			Payment: updatePaymentPayload{
				CreditCard:  update.CreditCard,
				BankAccount: update.BankAccount,
			},
			DefaultPaymentProfile:    update.DefaultPaymentProfile,
			CustomerPaymentProfileID: strings.TrimSpace(update.CustomerPaymentProfileID),
		},
	}
	var out updateCustomerPaymentProfileResponse
	return c.call(ctx, "updateCustomerPaymentProfile", req, &out)
}

type deleteCustomerPaymentProfileRequest struct {
	MerchantAuthentication   merchantAuthentication `json:"merchantAuthentication"`
	CustomerProfileID        string                 `json:"customerProfileId"`
	CustomerPaymentProfileID string                 `json:"customerPaymentProfileId"`
}

type deleteCustomerPaymentProfileResponse struct {
	apiResponse
}

// DeletePaymentProfile removes a stored payment method from the profile.
func (c *Client) DeletePaymentProfile(ctx context.Context, profileID, paymentProfileID string) error {
	if strings.TrimSpace(profileID) == "" || strings.TrimSpace(paymentProfileID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer profile id and payment profile id are required")
	}
	req := deleteCustomerPaymentProfileRequest{
		MerchantAuthentication:   c.auth,
		CustomerProfileID:        strings.TrimSpace(profileID),
		CustomerPaymentProfileID: strings.TrimSpace(paymentProfileID),
	}
	var out deleteCustomerPaymentProfileResponse
	return c.call(ctx, "deleteCustomerPaymentProfile", req, &out)
}
