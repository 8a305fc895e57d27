package customers

import (
	"context"
	"strings"
	"sync"

	"github.com/riveroslabs/merchant-console-backend/pkg/authnet"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

// Service aggregates gateway profile data for the console. Nothing is
// cached: every call is a fresh set of gateway fetches.
type Service interface {
	List(ctx context.Context) ([]Summary, error)
	GetDetail(ctx context.Context, profileID string) (*Detail, error)
	EnsureProfile(ctx context.Context, input EnsureProfileInput) (*EnsureProfileResult, error)
}

// gatewayClient is the slice of the gateway client this service exercises.
type gatewayClient interface {
	GetCustomerProfileIDs(ctx context.Context) ([]string, error)
	GetCustomerProfile(ctx context.Context, profileID string) (*authnet.CustomerProfile, error)
	GetCustomerProfileByEmail(ctx context.Context, email string) (*authnet.CustomerProfile, error)
	CreateCustomerProfile(ctx context.Context, profile authnet.NewCustomerProfile) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*authnet.Subscription, error)
}

// Summary is one row of the customer list. When the per-profile fetch
// failed, Error is set and the descriptive fields stay zero so one
// unreachable profile never hides its siblings.
type Summary struct {
	ProfileID           string `json:"profile_id"`
	MerchantCustomerID  string `json:"merchant_customer_id,omitempty"`
	Email               string `json:"email,omitempty"`
	Description         string `json:"description,omitempty"`
	PaymentProfileCount int    `json:"payment_profile_count"`
	SubscriptionCount   int    `json:"subscription_count"`
	Error               string `json:"error,omitempty"`
}

// SubscriptionItem resolves one subscription id; either Subscription or
// Error is set.
type SubscriptionItem struct {
	SubscriptionID string               `json:"subscription_id"`
	Subscription   *authnet.Subscription `json:"subscription,omitempty"`
	Error          string               `json:"error,omitempty"`
}

// Detail is the aggregate view of one customer: profile, stored payment
// methods, and every linked subscription.
type Detail struct {
	Profile       authnet.CustomerProfile `json:"profile"`
	Subscriptions []SubscriptionItem      `json:"subscriptions"`
}

// EnsureProfileInput carries the probe-then-create fields.
type EnsureProfileInput struct {
	Email       string
	Description string
}

// EnsureProfileResult reports the profile id and whether it was created by
// this call.
type EnsureProfileResult struct {
	ProfileID string `json:"profile_id"`
	Created   bool   `json:"created"`
}

type service struct {
	gateway gatewayClient
}

// NewService constructs the customer aggregation service.
func NewService(gateway gatewayClient) (Service, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "gateway client required")
	}
	return &service{gateway: gateway}, nil
}

// List resolves every known profile id into a summary row. Fetches run
// concurrently with per-item failure isolation.
func (s *service) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.gateway.GetCustomerProfileIDs(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			profile, err := s.gateway.GetCustomerProfile(ctx, id)
			if err != nil {
				summaries[i] = Summary{ProfileID: id, Error: publicMessage(err)}
				return
			}
			summaries[i] = Summary{
				ProfileID:           profile.ProfileID,
				MerchantCustomerID:  profile.MerchantCustomerID,
				Email:               profile.Email,
				Description:         profile.Description,
				PaymentProfileCount: len(profile.PaymentProfiles),
				SubscriptionCount:   len(profile.SubscriptionIDs),
			}
		}(i, id)
	}
	wg.Wait()

	return summaries, nil
}

// GetDetail fetches the profile and fans out over its subscription ids. A
// failed subscription fetch becomes an inline error item.
func (s *service) GetDetail(ctx context.Context, profileID string) (*Detail, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}

	profile, err := s.gateway.GetCustomerProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	items := make([]SubscriptionItem, len(profile.SubscriptionIDs))
	var wg sync.WaitGroup
	for i, id := range profile.SubscriptionIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sub, err := s.gateway.GetSubscription(ctx, id)
			if err != nil {
				items[i] = SubscriptionItem{SubscriptionID: id, Error: publicMessage(err)}
				return
			}
			items[i] = SubscriptionItem{SubscriptionID: id, Subscription: sub}
		}(i, id)
	}
	wg.Wait()

	return &Detail{Profile: *profile, Subscriptions: items}, nil
}

// EnsureProfile probes for a profile by email and creates one when the
// probe comes back empty. The created profile's merchant customer id is the
// email so later probes find it.
func (s *service) EnsureProfile(ctx context.Context, input EnsureProfileInput) (*EnsureProfileResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	existing, err := s.gateway.GetCustomerProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &EnsureProfileResult{ProfileID: existing.ProfileID, Created: false}, nil
	}

	profileID, err := s.gateway.CreateCustomerProfile(ctx, authnet.NewCustomerProfile{
		MerchantCustomerID: email,
		Email:              email,
		Description:        strings.TrimSpace(input.Description),
	})
	if err != nil {
		return nil, err
	}
	return &EnsureProfileResult{ProfileID: profileID, Created: true}, nil
}

func publicMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	if err != nil {
		return err.Error()
	}
	return "unknown error"
}
