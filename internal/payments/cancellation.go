package payments

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const feeDecimals = 2

// CancellationEngine guards the one-way Active -> Cancelled transition and
// prices it.
type CancellationEngine struct {
	policy *Policy
}

func NewCancellationEngine(policy *Policy) *CancellationEngine {
	return &CancellationEngine{policy: policy}
}

// Prepare validates that p may be cancelled at the given instant and, only on
// success, marks it cancelled with the computed fee. On error p is left
// untouched.
func (e *CancellationEngine) Prepare(p *Payment, at time.Time) error {
	if p.Cancelled {
		return invalid(MsgPaymentWithID + strconv.FormatInt(p.ID, 10) + MsgIsAlreadyCanceled)
	}

	if !sameDay(p.CreatedAt, at) {
		return invalid(MsgSameDayCancellation)
	}

	hours := elapsedSeconds(p.CreatedAt, at) / 3600
	fee, err := e.CalculateFee(string(p.Type), hours)
	if err != nil {
		return err
	}

	feeMoney := NewMoney(fee, string(e.policy.FeeCurrency()))
	cancelledAt := at
	p.Cancelled = true
	p.CancellationFee = &feeMoney
	p.CancellationTime = &cancelledAt
	return nil
}

// CalculateFee returns hours * coefficient(type) at two decimal places.
func (e *CancellationEngine) CalculateFee(paymentType string, hours int64) (decimal.Decimal, error) {
	if paymentType == "" {
		return decimal.Zero, invalid(MsgTypeMandatory)
	}
	if hours < 0 {
		return decimal.Zero, invalid(MsgHoursCannotBeNegative)
	}
	coefficient, ok := e.policy.FeeCoefficient(paymentType)
	if !ok {
		return decimal.Zero, invalid(MsgNoDataForPaymentType + paymentType)
	}
	return decimal.NewFromInt(hours).Mul(coefficient).Round(feeDecimals), nil
}

// elapsedSeconds floors the elapsed time to whole seconds, so a skew of
// -0.5s counts as -1s.
func elapsedSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	seconds := int64(d / time.Second)
	if d%time.Second < 0 {
		seconds--
	}
	return seconds
}

// sameDay compares calendar dates in the location of the cancellation
// instant.
func sameDay(created, at time.Time) bool {
	cy, cm, cd := created.In(at.Location()).Date()
	ay, am, ad := at.Date()
	return cy == ay && cm == am && cd == ad
}
