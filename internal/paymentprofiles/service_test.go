package paymentprofiles

import (
	"context"
	"testing"

	"github.com/riveroslabs/merchant-console-backend/pkg/authnet"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

// recordingGateway captures every call so tests can assert exactly what
// reached the gateway layer.
type recordingGateway struct {
	profile    *authnet.PaymentProfile
	profileErr error

	updateErr error
	updates   []authnet.UpdatePaymentProfile

	deleteErr error
	deleted   []string

	token    string
	tokenErr error
	settings []authnet.HostedFormSettings
}

func (g *recordingGateway) GetPaymentProfile(ctx context.Context, profileID, paymentProfileID string) (*authnet.PaymentProfile, error) {
	return g.profile, g.profileErr
}

func (g *recordingGateway) UpdatePaymentProfile(ctx context.Context, profileID string, update authnet.UpdatePaymentProfile) error {
	g.updates = append(g.updates, update)
	return g.updateErr
}

func (g *recordingGateway) DeletePaymentProfile(ctx context.Context, profileID, paymentProfileID string) error {
	g.deleted = append(g.deleted, paymentProfileID)
	return g.deleteErr
}

func (g *recordingGateway) GetHostedProfilePageToken(ctx context.Context, profileID string, settings authnet.HostedFormSettings) (string, error) {
	g.settings = append(g.settings, settings)
	return g.token, g.tokenErr
}

func (g *recordingGateway) HostedFormBaseURL() string {
	return "https://test.authorize.net/customer"
}

func newTestService(t *testing.T, gw *recordingGateway) Service {
	t.Helper()
	svc, err := NewService(gw, "https://console.example.com/")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRefreshRoundTripsFetchedProfile(t *testing.T) {
	gw := &recordingGateway{
		profile: &authnet.PaymentProfile{
			CustomerPaymentProfileID: "501",
			BillTo:                   authnet.Address{FirstName: "Jane"},
			Payment: authnet.Payment{
				CreditCard: &authnet.CreditCard{CardNumber: "XXXX1111", ExpirationDate: "XXXX", CardType: "Visa"},
			},
		},
	}
	svc := newTestService(t, gw)

	if err := svc.Refresh(context.Background(), "123", "501"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(gw.updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(gw.updates))
	}
	update := gw.updates[0]
	if update.CustomerPaymentProfileID != "501" {
		t.Fatalf("update id = %q", update.CustomerPaymentProfileID)
	}
	if update.CreditCard == nil || update.CreditCard.CardNumber != "XXXX1111" {
		t.Fatalf("update card = %+v", update.CreditCard)
	}
}

func TestRefreshFailsBeforeUpdateWhenNoPaymentMethod(t *testing.T) {
	gw := &recordingGateway{
		profile: &authnet.PaymentProfile{CustomerPaymentProfileID: "501"},
	}
	svc := newTestService(t, gw)

	err := svc.Refresh(context.Background(), "123", "501")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
	if len(gw.updates) != 0 {
		t.Fatal("builder failure must prevent the update call")
	}
}

func TestHostedFormTokenAddMode(t *testing.T) {
	gw := &recordingGateway{token: "tok-add"}
	svc := newTestService(t, gw)

	token, err := svc.HostedFormToken(context.Background(), HostedFormTokenInput{
		ProfileID: "123",
		Mode:      HostedFormModeAdd,
	})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token.Token != "tok-add" {
		t.Fatalf("token = %q", token.Token)
	}
	if token.FormURL != "https://test.authorize.net/customer/addPayment" {
		t.Fatalf("form url = %q", token.FormURL)
	}

	if len(gw.settings) != 1 {
		t.Fatalf("got %d settings calls, want 1", len(gw.settings))
	}
	settings := gw.settings[0]
	if settings.ReturnURL != "https://console.example.com/payment-forms/return" {
		t.Fatalf("return url = %q", settings.ReturnURL)
	}
	if settings.IFrameCommunicatorURL != "https://console.example.com/payment-forms/communicator" {
		t.Fatalf("communicator url = %q", settings.IFrameCommunicatorURL)
	}
}

func TestHostedFormTokenEditMode(t *testing.T) {
	gw := &recordingGateway{token: "tok-edit"}
	svc := newTestService(t, gw)

	token, err := svc.HostedFormToken(context.Background(), HostedFormTokenInput{
		ProfileID:        "123",
		Mode:             HostedFormModeEdit,
		PaymentProfileID: "501",
	})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token.FormURL != "https://test.authorize.net/customer/editPayment?paymentProfileId=501" {
		t.Fatalf("form url = %q", token.FormURL)
	}
}

func TestHostedFormTokenEditRequiresPaymentProfileID(t *testing.T) {
	svc := newTestService(t, &recordingGateway{token: "tok"})

	_, err := svc.HostedFormToken(context.Background(), HostedFormTokenInput{
		ProfileID: "123",
		Mode:      HostedFormModeEdit,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestHostedFormTokenRejectsUnknownMode(t *testing.T) {
	svc := newTestService(t, &recordingGateway{token: "tok"})

	_, err := svc.HostedFormToken(context.Background(), HostedFormTokenInput{
		ProfileID: "123",
		Mode:      HostedFormMode("replace"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestDeleteDelegates(t *testing.T) {
	gw := &recordingGateway{}
	svc := newTestService(t, gw)

	if err := svc.Delete(context.Background(), "123", "501"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(gw.deleted) != 1 || gw.deleted[0] != "501" {
		t.Fatalf("deleted = %v", gw.deleted)
	}
}
