package paymentprofiles

import (
	"testing"

	"github.com/riveroslabs/merchant-console-backend/pkg/authnet"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

func TestBuildUpdatePayloadStripsCardToAcceptedFields(t *testing.T) {
	profile := &authnet.PaymentProfile{
		CustomerPaymentProfileID: "501",
		DefaultPaymentProfile:    true,
		BillTo: authnet.Address{
			FirstName: "Jane",
			LastName:  "Doe",
			Zip:       "94103",
		},
		Payment: authnet.Payment{
			CreditCard: &authnet.CreditCard{
				CardNumber:     "XXXX1111",
				ExpirationDate: "XXXX",
				CardType:       "Visa",
			},
		},
	}

	update, err := BuildUpdatePayload(profile)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if update.CustomerPaymentProfileID != "501" || !update.DefaultPaymentProfile {
		t.Fatalf("identity fields = %+v", update)
	}
	if update.CreditCard == nil {
		t.Fatal("credit card missing")
	}
	if update.CreditCard.CardNumber != "XXXX1111" || update.CreditCard.ExpirationDate != "XXXX" {
		t.Fatalf("card = %+v", update.CreditCard)
	}
	if update.BankAccount != nil {
		t.Fatal("bank account must stay nil for card profiles")
	}
	if update.BillTo.FirstName != "Jane" || update.BillTo.Zip != "94103" {
		t.Fatalf("billTo = %+v", update.BillTo)
	}
	// Absent address fields carry through as blanks.
	if update.BillTo.Company != "" || update.BillTo.Country != "" {
		t.Fatalf("billTo = %+v", update.BillTo)
	}
}

func TestBuildUpdatePayloadPassesBankAccountThrough(t *testing.T) {
	profile := &authnet.PaymentProfile{
		CustomerPaymentProfileID: "502",
		Payment: authnet.Payment{
			BankAccount: &authnet.BankAccount{
				AccountType:   "checking",
				RoutingNumber: "XXXX0025",
				AccountNumber: "XXXX5678",
				NameOnAccount: "Jane Doe",
			},
		},
	}

	update, err := BuildUpdatePayload(profile)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if update.BankAccount == nil || update.BankAccount.AccountNumber != "XXXX5678" {
		t.Fatalf("bank account = %+v", update.BankAccount)
	}
	if update.CreditCard != nil {
		t.Fatal("credit card must stay nil for bank profiles")
	}
}

func TestBuildUpdatePayloadRejectsMissingPaymentMethod(t *testing.T) {
	_, err := BuildUpdatePayload(&authnet.PaymentProfile{CustomerPaymentProfileID: "503"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("want VALIDATION_ERROR, got %v", err)
	}
}

func TestBuildUpdatePayloadRejectsNilProfile(t *testing.T) {
	if _, err := BuildUpdatePayload(nil); err == nil {
		t.Fatal("expected nil profile to be rejected")
	}
}
