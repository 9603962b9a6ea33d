package minimumwage

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BasePay is the statutory base pay owed for a set of worked hours, together
// with the rates that contributed. When more than one distinct rate applied
// across the period, Rates holds the full sorted list and MeanRate their
// arithmetic mean; with a single rate both collapse to that rate.
type BasePay struct {
	Total    decimal.Decimal
	Rates    []decimal.Decimal
	MeanRate decimal.Decimal
}

// BasePayForHours computes base pay as the sum of hours x rate(day) over
// every worked day, rounded half-up at the cent. Days whose rate cannot be
// resolved cause a false return; callers treat that as missing rate data.
func BasePayForHours(dob time.Time, hoursByDate map[time.Time]decimal.Decimal) (BasePay, bool) {
	total := decimal.Zero
	seen := make(map[string]decimal.Decimal)

	for day, hours := range hoursByDate {
		rate, ok := RateForDate(AgeAt(dob, day), day)
		if !ok {
			return BasePay{}, false
		}
		total = total.Add(hours.Mul(rate))
		seen[rate.String()] = rate
	}

	rates := make([]decimal.Decimal, 0, len(seen))
	for _, r := range seen {
		rates = append(rates, r)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].LessThan(rates[j]) })

	mean := decimal.Zero
	if len(rates) > 0 {
		sum := decimal.Zero
		for _, r := range rates {
			sum = sum.Add(r)
		}
		mean = sum.Div(decimal.NewFromInt(int64(len(rates)))).Round(2)
	}

	return BasePay{
		Total:    total.Round(2),
		Rates:    rates,
		MeanRate: mean,
	}, true
}
