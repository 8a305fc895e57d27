package authnet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/riveroslabs/merchant-console-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// merchantAuthentication is carried in the body of every request. The
// gateway validates JSON against its XML schema, so it must be the first
// field of each request struct.
type merchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

// ResultMessage is a single entry of a response's messages list.
type ResultMessage struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Messages is the result block present on every well-formed response.
type Messages struct {
	ResultCode string                  `json:"resultCode"`
	Message    flexList[ResultMessage] `json:"message"`
}

// OK reports whether the gateway accepted the operation.
func (m *Messages) OK() bool {
	return m != nil && m.ResultCode == "Ok"
}

// apiResponse is embedded by every response payload; a missing messages
// block marks the payload malformed.
type apiResponse struct {
	Messages *Messages `json:"messages"`
}

func (r *apiResponse) resultMessages() *Messages { return r.Messages }

type resulter interface {
	resultMessages() *Messages
}

// flexList tolerates the gateway's XML-derived habit of serializing a list
// as either a JSON array or a bare singleton object.
type flexList[T any] []T

func (l *flexList[T]) UnmarshalJSON(data []byte) error {
	items, err := coerceList[T](data, "")
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// coerceList flattens {absent, singleton, array, wrapped-key} list shapes
// into a plain slice. The coercion is idempotent: already-flat arrays pass
// through unchanged.
func coerceList[T any](data []byte, wrapperKey string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	if trimmed[0] == '{' && wrapperKey != "" {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, err
		}
		if inner, ok := wrapper[wrapperKey]; ok {
			return coerceList[T](inner, "")
		}
		// No wrapper key: the object itself is a singleton element.
	}
	var single T
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []T{single}, nil
}

// paymentProfileList handles the paymentProfiles field, which may arrive as
// a bare array, a single object, or {"paymentProfile": <one-or-many>}.
type paymentProfileList []PaymentProfile

func (l *paymentProfileList) UnmarshalJSON(data []byte) error {
	items, err := coerceList[PaymentProfile](data, "paymentProfile")
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// numericStringList handles ID lists, which may arrive as a bare array, a
// single string, or {"numericString": <one-or-many>}.
type numericStringList []string

func (l *numericStringList) UnmarshalJSON(data []byte) error {
	items, err := coerceList[string](data, "numericString")
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// Amount normalizes the gateway's number-or-string money fields into a
// fixed two-decimal textual form so the UI never sees float artifacts.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = ""
		return nil
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*a = ""
		return nil
	}
	dec, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	*a = Amount(dec.StringFixed(2))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// ParseAmount normalizes operator-supplied money input the same way
// response amounts are normalized.
func ParseAmount(raw string) (Amount, error) {
	dec, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if dec.IsNegative() {
		return "", fmt.Errorf("amount %q must not be negative", raw)
	}
	return Amount(dec.StringFixed(2)), nil
}

// Address is the billing address attached to a payment profile.
type Address struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Company     string `json:"company,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Country     string `json:"country,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// CreditCard is always masked on read; the console never unmasks or stores
// card numbers.
type CreditCard struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
	CardType       string `json:"cardType,omitempty"`
}

type BankAccount struct {
	AccountType   string `json:"accountType,omitempty"`
	RoutingNumber string `json:"routingNumber,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	NameOnAccount string `json:"nameOnAccount,omitempty"`
	EcheckType    string `json:"echeckType,omitempty"`
	BankName      string `json:"bankName,omitempty"`
}

// Payment is the gateway's card-or-bank sum type.
type Payment struct {
	CreditCard  *CreditCard  `json:"creditCard,omitempty"`
	BankAccount *BankAccount `json:"bankAccount,omitempty"`
}

// Empty reports whether neither payment method is present.
func (p Payment) Empty() bool {
	return p.CreditCard == nil && p.BankAccount == nil
}

// PaymentProfile is a stored payment method belonging to one customer profile.
type PaymentProfile struct {
	CustomerPaymentProfileID string  `json:"customerPaymentProfileId"`
	DefaultPaymentProfile    bool    `json:"defaultPaymentProfile"`
	BillTo                   Address `json:"billTo"`
	Payment                  Payment `json:"payment"`
}

// CustomerProfile is the canonical shape returned by profile lookups.
type CustomerProfile struct {
	ProfileID          string           `json:"profileId"`
	MerchantCustomerID string           `json:"merchantCustomerId,omitempty"`
	Email              string           `json:"email,omitempty"`
	Description        string           `json:"description,omitempty"`
	PaymentProfiles    []PaymentProfile `json:"paymentProfiles"`
	SubscriptionIDs    []string         `json:"subscriptionIds"`
}

// Interval is the recurrence cadence of a payment schedule.
type Interval struct {
	Length int                `json:"length"`
	Unit   enums.IntervalUnit `json:"unit"`
}

type PaymentSchedule struct {
	Interval         Interval `json:"interval"`
	StartDate        string   `json:"startDate,omitempty"`
	TotalOccurrences int      `json:"totalOccurrences"`
	TrialOccurrences int      `json:"trialOccurrences,omitempty"`
}

// Subscription is the canonical shape returned by subscription lookups; the
// payment-profile back-reference is already reconciled to a single field.
type Subscription struct {
	SubscriptionID    string                   `json:"subscriptionId"`
	Name              string                   `json:"name"`
	Status            enums.SubscriptionStatus `json:"status"`
	Amount            Amount                   `json:"amount"`
	TrialAmount       Amount                   `json:"trialAmount,omitempty"`
	PaymentSchedule   PaymentSchedule          `json:"paymentSchedule"`
	CustomerProfileID string                   `json:"customerProfileId"`
	PaymentProfileID  string                   `json:"paymentProfileId"`
}
