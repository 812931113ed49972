package payments

import (
	"github.com/shopspring/decimal"
)

type MoneyRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency"`
}

type CreatePaymentRequest struct {
	Type            string        `json:"type"`
	Money           *MoneyRequest `json:"money"`
	DebtorIBAN      string        `json:"debtor_iban"`
	CreditorIBAN    string        `json:"creditor_iban"`
	CreditorBankBIC string        `json:"creditorBankBIC"`
	Details         string        `json:"details"`
}

type PaymentDTO struct {
	ID              int64   `json:"id"`
	Type            string  `json:"type"`
	Money           Money   `json:"money"`
	DebtorIBAN      string  `json:"debtor_iban"`
	CreditorIBAN    string  `json:"creditor_iban"`
	Details         *string `json:"details,omitempty"`
	CreditorBankBIC *string `json:"creditorBankBIC,omitempty"`
}

type CreatePaymentResponse struct {
	ValidationErrors []string    `json:"validationErrors"`
	Payment          *PaymentDTO `json:"payment,omitempty"`
}

type CancelPaymentResponse struct {
	ValidationErrors []string    `json:"validationErrors"`
	Message          string      `json:"message,omitempty"`
	Payment          *PaymentDTO `json:"-"`
	CancellationFee  *Money      `json:"cancellationFee,omitempty"`
}

// NotCancelledQuery bounds are inclusive and ignored unless Filter is set.
type NotCancelledQuery struct {
	Filter    bool             `json:"filter"`
	MinAmount *decimal.Decimal `json:"minAmount"`
	MaxAmount *decimal.Decimal `json:"maxAmount"`
}

type CancellationInfo struct {
	ID              int64  `json:"id"`
	CancellationFee *Money `json:"cancellationFee"`
}
