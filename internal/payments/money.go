package payments

import (
	"encoding/json"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: strings.TrimSpace(currency)}
}

type moneyJSON struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// MarshalJSON renders the amount as a number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(moneyJSON{
		Amount:   json.Number(m.Amount.StringFixed(2)),
		Currency: m.Currency,
	})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := sonic.ConfigStd.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = NewMoney(raw.Amount, raw.Currency)
	return nil
}
