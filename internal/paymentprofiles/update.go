package paymentprofiles

import (
	"github.com/riveroslabs/merchant-console-backend/pkg/authnet"
	pkgerrors "github.com/riveroslabs/merchant-console-backend/pkg/errors"
)

// BuildUpdatePayload turns a previously fetched payment profile into an
// update request the gateway's update schema accepts: billing address
// fields round-trip as blanks rather than omissions, the card sub-object is
// stripped to number and expiration, and the bank account passes through.
// It fails before any network call when the fetched profile carries no
// payment method, since an update cannot proceed without re-asserting one.
func BuildUpdatePayload(profile *authnet.PaymentProfile) (authnet.UpdatePaymentProfile, error) {
	if profile == nil {
		return authnet.UpdatePaymentProfile{}, pkgerrors.New(pkgerrors.CodeInternal, "payment profile is nil")
	}
	if profile.Payment.Empty() {
		return authnet.UpdatePaymentProfile{}, pkgerrors.New(
			pkgerrors.CodeValidation,
			"fetched payment profile has neither a credit card nor a bank account to re-assert",
		)
	}

	update := authnet.UpdatePaymentProfile{
		CustomerPaymentProfileID: profile.CustomerPaymentProfileID,
		DefaultPaymentProfile:    profile.DefaultPaymentProfile,
		BillTo: authnet.UpdateBillTo{
			FirstName:   profile.BillTo.FirstName,
			LastName:    profile.BillTo.LastName,
			Company:     profile.BillTo.Company,
			Address:     profile.BillTo.Address,
			City:        profile.BillTo.City,
			State:       profile.BillTo.State,
			Zip:         profile.BillTo.Zip,
			Country:     profile.BillTo.Country,
			PhoneNumber: profile.BillTo.PhoneNumber,
		},
	}

	if card := profile.Payment.CreditCard; card != nil {
		update.CreditCard = &authnet.UpdateCreditCard{
			CardNumber:     card.CardNumber,
			ExpirationDate: card.ExpirationDate,
		}
		return update, nil
	}

	account := *profile.Payment.BankAccount
	update.BankAccount = &account
	return update, nil
}
