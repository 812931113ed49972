package payments

import (
	"strings"

	"github.com/shopspring/decimal"
)

const maxAmountDecimals = 2

// Validator runs the checks shared by every payment type. The first failing
// check wins.
type Validator struct {
	policy *Policy
}

func NewValidator(policy *Policy) *Validator {
	return &Validator{policy: policy}
}

func (v *Validator) ValidateCommon(req *CreatePaymentRequest) error {
	if err := validateType(req); err != nil {
		return err
	}
	if err := validateAmount(req); err != nil {
		return err
	}
	if err := v.validateCurrency(req); err != nil {
		return err
	}
	return validateIBANs(req)
}

func validateType(req *CreatePaymentRequest) error {
	if req.Type == "" {
		return invalid(MsgTypeMandatory)
	}
	if !IsKnownPaymentType(req.Type) {
		return invalid(MsgUnsupportedType + req.Type)
	}
	return nil
}

func validateAmount(req *CreatePaymentRequest) error {
	if req.Money == nil {
		return invalid(MsgMoneyMissing)
	}
	amount := req.Money.Amount
	if amount == nil || !amount.GreaterThan(decimal.Zero) {
		return invalid(MsgAmountMandatory)
	}
	if -amount.Exponent() > maxAmountDecimals {
		return invalid(MsgIncorrectAmount)
	}
	return nil
}

func (v *Validator) validateCurrency(req *CreatePaymentRequest) error {
	currency := req.Money.Currency
	if currency == "" {
		return invalid(MsgCurrencyMandatory)
	}
	if !IsKnownCurrency(currency) {
		return invalid(MsgCurrencyUnsupported + currency)
	}
	if !v.policy.CurrencyAllowed(req.Type, currency) {
		return invalid(req.Type + MsgTypeNotCompatibleWithCurrency + currency)
	}
	return nil
}

// IBANs are only checked for presence.
func validateIBANs(req *CreatePaymentRequest) error {
	if req.DebtorIBAN == "" {
		return invalid(MsgDebtorIBAN)
	}
	if req.CreditorIBAN == "" {
		return invalid(MsgCreditorIBAN)
	}
	return nil
}

func validateType1(req *CreatePaymentRequest) error {
	if strings.TrimSpace(req.Details) == "" {
		return invalid(MsgDetailsMandatoryForType1)
	}
	return nil
}

func validateType2(*CreatePaymentRequest) error {
	return nil
}

func validateType3(req *CreatePaymentRequest) error {
	if strings.TrimSpace(req.CreditorBankBIC) == "" {
		return invalid(MsgBICMandatoryForType3)
	}
	return nil
}
