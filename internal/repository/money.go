package repository

import "github.com/shopspring/decimal"

// Amounts are persisted as BIGINT minor units.
const _minorUnits = 2

func toMinor(amount decimal.Decimal) int64 {
	return amount.Shift(_minorUnits).Round(0).IntPart()
}

func fromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -_minorUnits)
}
