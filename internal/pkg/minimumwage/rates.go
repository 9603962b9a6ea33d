package minimumwage

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgeRate is a single age threshold within a band. The rate applies to
// workers aged AgeFrom and above, until a higher threshold matches.
type AgeRate struct {
	AgeFrom int
	Rate    decimal.Decimal
}

// Band is the set of statutory hourly rates in force from EffectiveFrom
// (inclusive) until the next band's effective date.
type Band struct {
	EffectiveFrom time.Time
	Rates         []AgeRate
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func apr(year int) time.Time {
	return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// bands holds the statutory minimum wage tables, oldest first. Each band's
// thresholds are sorted ascending and always include age 0.
var bands = []Band{
	{
		EffectiveFrom: apr(2021),
		Rates: []AgeRate{
			{AgeFrom: 0, Rate: d("4.62")},
			{AgeFrom: 18, Rate: d("6.56")},
			{AgeFrom: 21, Rate: d("8.36")},
			{AgeFrom: 23, Rate: d("8.91")},
		},
	},
	{
		EffectiveFrom: apr(2022),
		Rates: []AgeRate{
			{AgeFrom: 0, Rate: d("4.81")},
			{AgeFrom: 18, Rate: d("6.83")},
			{AgeFrom: 21, Rate: d("9.18")},
			{AgeFrom: 23, Rate: d("9.50")},
		},
	},
	{
		EffectiveFrom: apr(2023),
		Rates: []AgeRate{
			{AgeFrom: 0, Rate: d("5.28")},
			{AgeFrom: 18, Rate: d("7.49")},
			{AgeFrom: 21, Rate: d("10.18")},
			{AgeFrom: 23, Rate: d("10.42")},
		},
	},
	{
		EffectiveFrom: apr(2024),
		Rates: []AgeRate{
			{AgeFrom: 0, Rate: d("6.40")},
			{AgeFrom: 18, Rate: d("8.60")},
			{AgeFrom: 21, Rate: d("11.44")},
		},
	},
	{
		EffectiveFrom: apr(2025),
		Rates: []AgeRate{
			{AgeFrom: 0, Rate: d("7.55")},
			{AgeFrom: 18, Rate: d("10.00")},
			{AgeFrom: 21, Rate: d("12.21")},
		},
	},
}

// RateForDate resolves the statutory hourly rate for a worker of the given
// age on the given date. The most recent band whose effective date is on or
// before the date applies; within it, the highest threshold not exceeding
// the age. Returns false if the date predates every band or no threshold
// matches the age.
func RateForDate(age int, date time.Time) (decimal.Decimal, bool) {
	day := truncateDay(date)

	var band *Band
	for i := range bands {
		if !bands[i].EffectiveFrom.After(day) {
			band = &bands[i]
		}
	}
	if band == nil {
		return decimal.Decimal{}, false
	}

	found := false
	var rate decimal.Decimal
	for _, r := range band.Rates {
		if r.AgeFrom <= age {
			rate = r.Rate
			found = true
		}
	}
	return rate, found
}

// DailyRate is one day's resolved rate within a period.
type DailyRate struct {
	Date time.Time
	Rate decimal.Decimal
}

// PeriodRates is the result of resolving rates across a date range. When
// every day in the range resolves to the same rate the result collapses to
// a single scalar (Uniform true, Rate set, Daily nil); otherwise Daily holds
// one entry per calendar day in the inclusive range. Callers must branch on
// Uniform; the average-rate display and the base-pay calculation both
// depend on this collapsing behaviour.
type PeriodRates struct {
	Uniform bool
	Rate    decimal.Decimal
	Daily   []DailyRate
}

// RatesForPeriodByDOB resolves the statutory rate for every calendar day in
// [start, end] inclusive, recomputing the worker's age each day so a
// birthday inside the range picks up the higher threshold on the day it
// occurs. Returns false if the range is empty or any day fails to resolve.
func RatesForPeriodByDOB(dob, start, end time.Time) (PeriodRates, bool) {
	from := truncateDay(start)
	to := truncateDay(end)
	if from.After(to) {
		return PeriodRates{}, false
	}

	var daily []DailyRate
	uniform := true
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		rate, ok := RateForDate(AgeAt(dob, day), day)
		if !ok {
			return PeriodRates{}, false
		}
		if len(daily) > 0 && !rate.Equal(daily[0].Rate) {
			uniform = false
		}
		daily = append(daily, DailyRate{Date: day, Rate: rate})
	}

	if uniform {
		return PeriodRates{Uniform: true, Rate: daily[0].Rate}, true
	}
	return PeriodRates{Daily: daily}, true
}

// AgeAt returns the age in whole years at the given date.
func AgeAt(dob, at time.Time) int {
	age := at.Year() - dob.Year()
	anniversary := time.Date(at.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, at.Location())
	if truncateDay(at).Before(anniversary) {
		age--
	}
	return age
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
