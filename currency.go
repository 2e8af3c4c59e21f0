package bankledger

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Accounts store their balance in the account currency; conversion happens at
// the display boundary only, when a user prefers to read amounts in another
// currency.

func init() {
	// go-money only ships ISO 4217 codes. Register the non-ISO codes the
	// ledger accepts so Money.String can format them.
	money.AddCurrency("BTC", "₿", "$1", ".", ",", 8)
	money.AddCurrency("ETH", "Ξ", "$1", ".", ",", 8)
	money.AddCurrency("USDT", "₮", "$1", ".", ",", 2)
}

// defaultRates are approximate exchange rates relative to USD, used when no
// live rate has been fetched. 1 USD buys the listed amount of each currency.
var defaultRates = map[string]decimal.Decimal{
	"USD":  decimal.RequireFromString("1.00"),
	"PHP":  decimal.RequireFromString("56.50"),
	"EUR":  decimal.RequireFromString("0.92"),
	"GBP":  decimal.RequireFromString("0.79"),
	"JPY":  decimal.RequireFromString("149.50"),
	"AUD":  decimal.RequireFromString("1.52"),
	"CAD":  decimal.RequireFromString("1.36"),
	"SGD":  decimal.RequireFromString("1.34"),
	"HKD":  decimal.RequireFromString("7.85"),
	"INR":  decimal.RequireFromString("83.12"),
	"MYR":  decimal.RequireFromString("4.75"),
	"THB":  decimal.RequireFromString("35.40"),
	"VND":  decimal.RequireFromString("24700.00"),
	"IDR":  decimal.RequireFromString("15800.00"),
	"BTC":  decimal.RequireFromString("0.000024"),
	"ETH":  decimal.RequireFromString("0.00055"),
	"USDT": decimal.RequireFromString("1.00"),
}

// RateTable holds exchange rates against USD and converts amounts between the
// currencies it knows. It is safe for concurrent use.
type RateTable struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// NewRateTable returns a table preloaded with the built-in approximate rates.
func NewRateTable() *RateTable {
	return &RateTable{rates: maps.Clone(defaultRates)}
}

// Set records the rate for one currency: how much of it 1 USD buys.
func (t *RateTable) Set(currency string, perUSD decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rates[currency] = perUSD
}

// Currencies lists the known currency codes in alphabetical order.
func (t *RateTable) Currencies() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.rates))
}

// Rate returns how much of 'to' one unit of 'from' buys.
func (t *RateTable) Rate(from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	fromRate, ok := t.rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("no exchange rate for %q", from)
	}
	toRate, ok := t.rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no exchange rate for %q", to)
	}
	return toRate.Div(fromRate), nil
}

// Convert returns the amount expressed in the 'to' currency, going through
// USD as the base.
func (t *RateTable) Convert(m Money, to string) (Money, error) {
	if m.Currency() == to {
		return m, nil
	}
	rate, err := t.Rate(m.Currency(), to)
	if err != nil {
		return Money{}, err
	}
	return M(m.Amount().Mul(rate), to), nil
}

// Display converts the amount to the given currency and formats it for that
// currency. Conversion failures fall back to formatting in the original
// currency rather than hiding the amount.
func (t *RateTable) Display(m Money, to string) string {
	converted, err := t.Convert(m, to)
	if err != nil {
		return m.String()
	}
	return converted.String()
}
