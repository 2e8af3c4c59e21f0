package bankledger

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// ratesURL serves daily reference rates as {"base":"USD","rates":{"EUR":0.92,...}}.
const ratesURL = "https://api.frankfurter.dev/v1/latest?base=USD"

// fetchRate reads the latest USD rate for one currency from the daily-cached
// rates endpoint.
func fetchRate(client *http.Client, currency string) (decimal.Decimal, error) {
	var jobj any
	if err := jwget(client, ratesURL, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("error in wget %q: %w", currency, err)
	}
	path := fmt.Sprintf("$.rates.%s", currency)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %q %w", currency, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	val, ok := jval.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("error parsing %q: %q %s %v", currency, path, "not a float", jval)
	}
	return decimal.NewFromFloat(val), nil
}

// RefreshRates updates the table with the latest published rate for every
// currency the endpoint serves, keeping the built-in rate for the rest.
// Responses are cached on disk for the day, so calling it repeatedly is cheap.
// It returns the currencies that were refreshed.
func RefreshRates(table *RateTable) ([]string, error) {
	client := daily()
	var refreshed []string
	var errs []string
	for _, cur := range table.Currencies() {
		if cur == "USD" {
			continue
		}
		rate, err := fetchRate(client, cur)
		if err != nil {
			// crypto and a few pegged codes are not published there,
			// those keep their built-in rate
			errs = append(errs, err.Error())
			continue
		}
		table.Set(cur, rate)
		refreshed = append(refreshed, cur)
	}
	if len(refreshed) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("no rate could be refreshed: %s", strings.Join(errs, "; "))
	}
	return refreshed, nil
}
