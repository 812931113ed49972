package payments

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

var currencies = []Currency{CurrencyEUR, CurrencyUSD}

type PaymentType string

const (
	Type1 PaymentType = "TYPE1"
	Type2 PaymentType = "TYPE2"
	Type3 PaymentType = "TYPE3"
)

var paymentTypes = []PaymentType{Type1, Type2, Type3}

// IsKnownCurrency reports whether code is exactly one of the supported
// currency codes.
func IsKnownCurrency(code string) bool {
	for _, c := range currencies {
		if string(c) == code {
			return true
		}
	}
	return false
}

// ParseCurrency looks a currency up by its trimmed code.
func ParseCurrency(code string) (Currency, bool) {
	code = strings.TrimSpace(code)
	for _, c := range currencies {
		if string(c) == code {
			return c, true
		}
	}
	return "", false
}

// IsKnownPaymentType reports whether code is exactly one of the supported
// payment type codes.
func IsKnownPaymentType(code string) bool {
	for _, t := range paymentTypes {
		if string(t) == code {
			return true
		}
	}
	return false
}

// ParsePaymentType looks a payment type up by its trimmed code.
func ParsePaymentType(code string) (PaymentType, bool) {
	code = strings.TrimSpace(code)
	for _, t := range paymentTypes {
		if string(t) == code {
			return t, true
		}
	}
	return "", false
}

// Policy holds the per payment type business tables. It is built once at
// startup and shared read-only.
type Policy struct {
	allowedCurrencies map[PaymentType]map[Currency]struct{}
	feeCoefficients   map[PaymentType]decimal.Decimal
	feeCurrency       Currency
}

func DefaultPolicy() *Policy {
	return &Policy{
		allowedCurrencies: map[PaymentType]map[Currency]struct{}{
			Type1: {CurrencyEUR: {}},
			Type2: {CurrencyUSD: {}},
			Type3: {CurrencyEUR: {}, CurrencyUSD: {}},
		},
		feeCoefficients: map[PaymentType]decimal.Decimal{
			Type1: decimal.RequireFromString("0.05"),
			Type2: decimal.RequireFromString("0.10"),
			Type3: decimal.RequireFromString("0.15"),
		},
		feeCurrency: CurrencyEUR,
	}
}

// CurrencyAllowed reports whether the currency may be used with the payment
// type. Unrecognized codes on either side are never compatible.
func (p *Policy) CurrencyAllowed(paymentTypeCode, currencyCode string) bool {
	currency, ok := ParseCurrency(currencyCode)
	if !ok {
		return false
	}
	paymentType, ok := ParsePaymentType(paymentTypeCode)
	if !ok {
		return false
	}
	_, allowed := p.allowedCurrencies[paymentType][currency]
	return allowed
}

// FeeCoefficient returns the hourly cancellation fee coefficient.
func (p *Policy) FeeCoefficient(paymentTypeCode string) (decimal.Decimal, bool) {
	coefficient, ok := p.feeCoefficients[PaymentType(paymentTypeCode)]
	return coefficient, ok
}

func (p *Policy) FeeCurrency() Currency {
	return p.feeCurrency
}
