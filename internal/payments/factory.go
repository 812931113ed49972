package payments

import (
	"fmt"
)

// variant bundles the type specific rules of one payment type.
type variant struct {
	validate func(*CreatePaymentRequest) error
	populate func(*Payment, *CreatePaymentRequest)
}

func variantFor(t PaymentType) (variant, bool) {
	switch t {
	case Type1:
		return variant{validate: validateType1, populate: populateDetails}, true
	case Type2:
		return variant{validate: validateType2, populate: populateDetails}, true
	case Type3:
		return variant{validate: validateType3, populate: populateCreditorBankBIC}, true
	default:
		return variant{}, false
	}
}

// Factory builds validated payment records from creation requests.
type Factory struct {
	validator *Validator
}

func NewFactory(validator *Validator) *Factory {
	return &Factory{validator: validator}
}

// NewPayment selects the variant for the request type, validates the request
// and copies its fields into a new record. A type without a variant is a
// caller contract violation and yields ErrUnrecognizedType, not a
// ValidationError.
func (f *Factory) NewPayment(req *CreatePaymentRequest) (*Payment, error) {
	v, ok := variantFor(PaymentType(req.Type))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedType, req.Type)
	}

	if err := f.validator.ValidateCommon(req); err != nil {
		return nil, err
	}
	if err := v.validate(req); err != nil {
		return nil, err
	}

	p := &Payment{}
	populateCommon(p, req)
	v.populate(p, req)
	return p, nil
}

func populateCommon(p *Payment, req *CreatePaymentRequest) {
	p.Type = PaymentType(req.Type)
	p.Money = NewMoney(*req.Money.Amount, req.Money.Currency)
	p.DebtorIBAN = req.DebtorIBAN
	p.CreditorIBAN = req.CreditorIBAN
}

func populateDetails(p *Payment, req *CreatePaymentRequest) {
	p.Details = req.Details
}

func populateCreditorBankBIC(p *Payment, req *CreatePaymentRequest) {
	p.CreditorBankBIC = req.CreditorBankBIC
}
