package authnet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riveroslabs/merchant-console-backend/pkg/config"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
)

var testBOM = string([]byte{0xEF, 0xBB, 0xBF})

const okMessages = `"messages":{"resultCode":"Ok","message":[{"code":"I00001","text":"Successful."}]}`

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// newTestClient points a client at an in-process server and captures every
// request body it receives.
func newTestClient(t *testing.T, respond func(body map[string]json.RawMessage) (int, string)) (*Client, *[][]byte) {
	t.Helper()

	var bodies [][]byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		bodies = append(bodies, raw)

		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Errorf("request body is not a JSON object: %v", err)
		}

		status, body := respond(envelope)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(testBOM + body))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(config.GatewayConfig{
		APILoginName:   "login",
		TransactionKey: "key",
		Env:            "sandbox",
	}, testLogger(), WithEndpoint(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, &bodies
}

func respondWith(body string) func(map[string]json.RawMessage) (int, string) {
	return func(map[string]json.RawMessage) (int, string) {
		return http.StatusOK, body
	}
}

func TestNewClientValidation(t *testing.T) {
	logg := testLogger()

	if _, err := NewClient(config.GatewayConfig{TransactionKey: "key"}, logg); err == nil {
		t.Fatal("expected missing login name to fail")
	}
	if _, err := NewClient(config.GatewayConfig{APILoginName: "login"}, logg); err == nil {
		t.Fatal("expected missing transaction key to fail")
	}
	if _, err := NewClient(config.GatewayConfig{APILoginName: "login", TransactionKey: "key", Env: "staging"}, logg); err == nil {
		t.Fatal("expected unknown environment to fail")
	}
	if _, err := NewClient(config.GatewayConfig{APILoginName: "login", TransactionKey: "key"}, nil); err == nil {
		t.Fatal("expected nil logger to fail")
	}
}

func TestHostedFormBaseURLPerEnvironment(t *testing.T) {
	logg := testLogger()

	sandbox, err := NewClient(config.GatewayConfig{APILoginName: "login", TransactionKey: "key", Env: "sandbox"}, logg)
	if err != nil {
		t.Fatalf("sandbox client: %v", err)
	}
	if got := sandbox.HostedFormBaseURL(); got != "https://test.authorize.net/customer" {
		t.Fatalf("sandbox hosted form base = %q", got)
	}

	prod, err := NewClient(config.GatewayConfig{APILoginName: "login", TransactionKey: "key", Env: "production"}, logg)
	if err != nil {
		t.Fatalf("production client: %v", err)
	}
	if got := prod.HostedFormBaseURL(); got != "https://accept.authorize.net/customer" {
		t.Fatalf("production hosted form base = %q", got)
	}
}

func TestGetCustomerProfileWrappedResponse(t *testing.T) {
	body := `{"getCustomerProfileResponse":{
		"profile":{
			"customerProfileId":"123",
			"merchantCustomerId":"jane@example.com",
			"email":"jane@example.com",
			"description":"vip",
			"paymentProfiles":{"paymentProfile":{"customerPaymentProfileId":"501","payment":{"creditCard":{"cardNumber":"XXXX1111","expirationDate":"XXXX"}}}}
		},
		"subscriptionIds":{"numericString":"900"},
		` + okMessages + `}}`

	client, bodies := newTestClient(t, respondWith(body))

	profile, err := client.GetCustomerProfile(context.Background(), "123")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.ProfileID != "123" || profile.Email != "jane@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if len(profile.PaymentProfiles) != 1 || profile.PaymentProfiles[0].CustomerPaymentProfileID != "501" {
		t.Fatalf("unexpected payment profiles: %+v", profile.PaymentProfiles)
	}
	if len(profile.SubscriptionIDs) != 1 || profile.SubscriptionIDs[0] != "900" {
		t.Fatalf("unexpected subscription ids: %v", profile.SubscriptionIDs)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal((*bodies)[0], &envelope); err != nil {
		t.Fatalf("request envelope: %v", err)
	}
	raw, ok := envelope["getCustomerProfileRequest"]
	if !ok {
		t.Fatalf("request missing operation envelope: %s", (*bodies)[0])
	}
	var req struct {
		MerchantAuthentication struct {
			Name           string `json:"name"`
			TransactionKey string `json:"transactionKey"`
		} `json:"merchantAuthentication"`
		CustomerProfileID string `json:"customerProfileId"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		t.Fatalf("request payload: %v", err)
	}
	if req.MerchantAuthentication.Name != "login" || req.MerchantAuthentication.TransactionKey != "key" {
		t.Fatalf("credentials not carried in body: %+v", req.MerchantAuthentication)
	}
	if req.CustomerProfileID != "123" {
		t.Fatalf("profile id = %q", req.CustomerProfileID)
	}
}

func TestBareResultBodyAccepted(t *testing.T) {
	// Some operations answer with the result object at the top level
	// instead of under the <operation>Response wrapper.
	body := `{"ids":{"numericString":["1","2","3"]},` + okMessages + `}`
	client, _ := newTestClient(t, respondWith(body))

	ids, err := client.GetCustomerProfileIDs(context.Background())
	if err != nil {
		t.Fatalf("get ids: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("got %d ids, want 3", len(ids))
	}
}

func TestMissingMessagesIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, respondWith(`{"getCustomerProfileResponse":{"profile":{"customerProfileId":"1"}}}`))

	_, err := client.GetCustomerProfile(context.Background(), "1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeMalformed {
		t.Fatalf("want MALFORMED_RESPONSE, got %v", err)
	}
}

func TestUnrecognizedBodyIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, respondWith(`{"unexpected":"shape"}`))

	_, err := client.GetCustomerProfile(context.Background(), "1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeMalformed {
		t.Fatalf("want MALFORMED_RESPONSE, got %v", err)
	}
}

func TestNon200IsDependencyError(t *testing.T) {
	client, _ := newTestClient(t, func(map[string]json.RawMessage) (int, string) {
		return http.StatusBadGateway, "upstream unavailable"
	})

	_, err := client.GetCustomerProfileIDs(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("want DEPENDENCY_ERROR, got %v", err)
	}
}

func TestVendorErrorConcatenatesMessages(t *testing.T) {
	body := `{"ARBCancelSubscriptionResponse":{"messages":{"resultCode":"Error","message":[
		{"code":"E00035","text":"The subscription cannot be found."},
		{"code":"E00001","text":"An error occurred during processing."}
	]}}}`
	client, _ := newTestClient(t, respondWith(body))

	err := client.CancelSubscription(context.Background(), "900")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeVendor {
		t.Fatalf("want VENDOR_ERROR, got %v", err)
	}
	wantMsg := "The subscription cannot be found., An error occurred during processing."
	if typed.Message() != wantMsg {
		t.Fatalf("message = %q, want %q", typed.Message(), wantMsg)
	}

	var verr *VendorError
	if !errors.As(err, &verr) {
		t.Fatal("vendor error not in chain")
	}
	if verr.Code != "E00035" {
		t.Fatalf("vendor code = %q, want E00035", verr.Code)
	}
}

func TestNotFoundSuppressedOnEmailProbeOnly(t *testing.T) {
	notFound := `{"getCustomerProfileResponse":{"messages":{"resultCode":"Error","message":[{"code":"E00040","text":"The record cannot be found."}]}}}`
	client, _ := newTestClient(t, respondWith(notFound))

	profile, err := client.GetCustomerProfileByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("email probe should suppress not-found, got %v", err)
	}
	if profile != nil {
		t.Fatalf("expected nil profile, got %+v", profile)
	}

	_, err = client.GetCustomerProfile(context.Background(), "123")
	if err == nil {
		t.Fatal("by-id lookup must surface not-found")
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not-found in chain, got %v", err)
	}
}

func TestCreateSubscriptionReturnsID(t *testing.T) {
	body := `{"ARBCreateSubscriptionResponse":{"subscriptionId":"7001",` + okMessages + `}}`
	client, bodies := newTestClient(t, respondWith(body))

	id, err := client.CreateSubscription(context.Background(), NewSubscription{
		Name:              "monthly",
		Amount:            "10.00",
		Schedule:          PaymentSchedule{Interval: Interval{Length: 1, Unit: "months"}, StartDate: "2026-09-01", TotalOccurrences: 12},
		CustomerProfileID: "123",
		PaymentProfileID:  "501",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "7001" {
		t.Fatalf("id = %q, want 7001", id)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal((*bodies)[0], &envelope); err != nil {
		t.Fatalf("request envelope: %v", err)
	}
	if _, ok := envelope["ARBCreateSubscriptionRequest"]; !ok {
		t.Fatalf("request missing ARBCreateSubscriptionRequest: %s", (*bodies)[0])
	}
}

func TestCreateSubscriptionMissingIDIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, respondWith(`{"ARBCreateSubscriptionResponse":{`+okMessages+`}}`))

	_, err := client.CreateSubscription(context.Background(), NewSubscription{
		Amount:            "10.00",
		CustomerProfileID: "123",
		PaymentProfileID:  "501",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeMalformed {
		t.Fatalf("want MALFORMED_RESPONSE, got %v", err)
	}
}

func TestGetSubscriptionBackReferencePrecedence(t *testing.T) {
	// The nested paymentProfile id wins over the flat field when both are
	// present.
	body := `{"ARBGetSubscriptionResponse":{
		"subscription":{
			"name":"monthly",
			"status":"Active",
			"amount":10.5,
			"paymentSchedule":{"interval":{"length":1,"unit":"months"},"totalOccurrences":12},
			"profile":{
				"customerProfileId":"123",
				"customerPaymentProfileId":"401",
				"paymentProfile":{"customerPaymentProfileId":"501"}
			}
		},
		` + okMessages + `}}`
	client, _ := newTestClient(t, respondWith(body))

	sub, err := client.GetSubscription(context.Background(), "900")
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if sub.PaymentProfileID != "501" {
		t.Fatalf("payment profile id = %q, want nested 501", sub.PaymentProfileID)
	}
	if sub.CustomerProfileID != "123" {
		t.Fatalf("customer profile id = %q", sub.CustomerProfileID)
	}
	if sub.Status != "active" {
		t.Fatalf("status = %q, want active", sub.Status)
	}
	if sub.Amount != "10.50" {
		t.Fatalf("amount = %q, want 10.50", sub.Amount)
	}
}

func TestGetSubscriptionFlatBackReference(t *testing.T) {
	body := `{"ARBGetSubscriptionResponse":{
		"subscription":{
			"status":"canceled",
			"amount":"5",
			"paymentSchedule":{"interval":{"length":7,"unit":"days"},"totalOccurrences":4},
			"profile":{"customerProfileId":"123","customerPaymentProfileId":"401"}
		},
		` + okMessages + `}}`
	client, _ := newTestClient(t, respondWith(body))

	sub, err := client.GetSubscription(context.Background(), "900")
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if sub.PaymentProfileID != "401" {
		t.Fatalf("payment profile id = %q, want flat 401", sub.PaymentProfileID)
	}
}

func TestHostedFormTokenSettings(t *testing.T) {
	body := `{"getHostedProfilePageResponse":{"token":"tok-abc",` + okMessages + `}}`
	client, bodies := newTestClient(t, respondWith(body))

	token, err := client.GetHostedProfilePageToken(context.Background(), "123", HostedFormSettings{
		ReturnURL:             "https://console.example.com/payment-forms/return",
		IFrameCommunicatorURL: "https://console.example.com/payment-forms/communicator",
	})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("token = %q", token)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal((*bodies)[0], &envelope); err != nil {
		t.Fatalf("request envelope: %v", err)
	}
	var req struct {
		HostedProfileSettings struct {
			Setting []hostedProfileSetting `json:"setting"`
		} `json:"hostedProfileSettings"`
	}
	if err := json.Unmarshal(envelope["getHostedProfilePageRequest"], &req); err != nil {
		t.Fatalf("request payload: %v", err)
	}

	got := map[string]string{}
	for _, s := range req.HostedProfileSettings.Setting {
		got[s.SettingName] = s.SettingValue
	}
	if got["hostedProfileReturnUrl"] != "https://console.example.com/payment-forms/return" {
		t.Fatalf("return url setting = %q", got["hostedProfileReturnUrl"])
	}
	if got["hostedProfileIFrameCommunicatorUrl"] != "https://console.example.com/payment-forms/communicator" {
		t.Fatalf("communicator setting = %q", got["hostedProfileIFrameCommunicatorUrl"])
	}
	if got["hostedProfilePageBorderVisible"] != "false" {
		t.Fatalf("border setting = %q", got["hostedProfilePageBorderVisible"])
	}
}

func TestUpdatePaymentProfileRequiresPaymentMethod(t *testing.T) {
	client, bodies := newTestClient(t, respondWith(`{"updateCustomerPaymentProfileResponse":{`+okMessages+`}}`))

	err := client.UpdatePaymentProfile(context.Background(), "123", UpdatePaymentProfile{
		CustomerPaymentProfileID: "501",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
	if len(*bodies) != 0 {
		t.Fatal("validation failure must not reach the network")
	}
}

func TestUpdatePaymentProfileRoundTripsBlankBillTo(t *testing.T) {
	client, bodies := newTestClient(t, respondWith(`{"updateCustomerPaymentProfileResponse":{`+okMessages+`}}`))

	err := client.UpdatePaymentProfile(context.Background(), "123", UpdatePaymentProfile{
		CustomerPaymentProfileID: "501",
		CreditCard:               &UpdateCreditCard{CardNumber: "XXXX1111", ExpirationDate: "XXXX"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var envelope map[string]map[string]json.RawMessage
	if err := json.Unmarshal((*bodies)[0], &envelope); err != nil {
		t.Fatalf("request envelope: %v", err)
	}
	var profilePayload map[string]json.RawMessage
	if err := json.Unmarshal(envelope["updateCustomerPaymentProfileRequest"]["paymentProfile"], &profilePayload); err != nil {
		t.Fatalf("payment profile payload: %v", err)
	}
	var billTo map[string]string
	if err := json.Unmarshal(profilePayload["billTo"], &billTo); err != nil {
		t.Fatalf("billTo payload: %v", err)
	}
	// Blank address fields must be present, not omitted.
	for _, field := range []string{"firstName", "lastName", "address", "city", "state", "zip", "country", "phoneNumber"} {
		if _, ok := billTo[field]; !ok {
			t.Fatalf("billTo field %q omitted from update payload", field)
		}
	}
}
