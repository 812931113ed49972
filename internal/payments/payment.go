package payments

import (
	"time"
)

type NotificationStatus string

const (
	NotificationUnset   NotificationStatus = ""
	NotificationSuccess NotificationStatus = "SUCCESS"
	NotificationFailure NotificationStatus = "FAILURE"
)

// Payment is the persisted record. Type selects the variant: Details is
// carried by TYPE1 and TYPE2, CreditorBankBIC by TYPE3.
type Payment struct {
	ID           int64
	Type         PaymentType
	Money        Money
	DebtorIBAN   string
	CreditorIBAN string

	Details         string
	CreditorBankBIC string

	CreatedAt          time.Time
	Cancelled          bool
	CancellationFee    *Money
	CancellationTime   *time.Time
	NotificationStatus NotificationStatus
}

func (p *Payment) clone() *Payment {
	c := *p
	if p.CancellationFee != nil {
		fee := *p.CancellationFee
		c.CancellationFee = &fee
	}
	if p.CancellationTime != nil {
		at := *p.CancellationTime
		c.CancellationTime = &at
	}
	return &c
}

// DTO converts the record into its variant specific response shape.
func (p *Payment) DTO() PaymentDTO {
	dto := PaymentDTO{
		ID:           p.ID,
		Type:         string(p.Type),
		Money:        p.Money,
		DebtorIBAN:   p.DebtorIBAN,
		CreditorIBAN: p.CreditorIBAN,
	}

	switch p.Type {
	case Type1, Type2:
		details := p.Details
		dto.Details = &details
	case Type3:
		bic := p.CreditorBankBIC
		dto.CreditorBankBIC = &bic
	}

	return dto
}
