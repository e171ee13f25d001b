package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DurationUnit string

const (
	DurationMonth DurationUnit = "month"
	DurationYear  DurationUnit = "year"

	_monthsPerYear = 12
)

type LicensePackage struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	DurationValue int             `json:"durationValue"`
	DurationUnit  DurationUnit    `json:"durationUnit"`
	UserPrice     decimal.Decimal `json:"userPrice"`
	DealerPrice   decimal.Decimal `json:"dealerPrice"`
	IsActive      bool            `json:"isActive"`
}

// Price returns what a payer pays for the package.
func (p *LicensePackage) Price(isDealer bool) decimal.Decimal {
	if isDealer {
		return p.DealerPrice
	}
	return p.UserPrice
}

// Extend adds the package duration to from. Months are added calendar-wise
// and the day is clamped to the last day of the target month.
func (p *LicensePackage) Extend(from time.Time) time.Time {
	months := p.DurationValue
	if p.DurationUnit == DurationYear {
		months *= _monthsPerYear
	}
	return addMonths(from, months)
}

func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	first := time.Date(year, month+time.Month(months), 1, hour, minute, sec, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

type License struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	RestaurantID     uuid.UUID       `json:"restaurantId"`
	LicensePackageID uuid.UUID       `json:"licensePackageId"`
	StartDateTime    time.Time       `json:"startDateTime"`
	EndDateTime      time.Time       `json:"endDateTime"`
	IsActive         bool            `json:"isActive"`
	UserPrice        decimal.Decimal `json:"userPrice"`
	DealerPrice      decimal.Decimal `json:"dealerPrice"`
	Price            decimal.Decimal `json:"price"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// NewLicense issues a license starting at now. Prices are copied from the
// package so later package edits do not change what was sold.
func NewLicense(
	userID, restaurantID uuid.UUID,
	pkg *LicensePackage,
	payerIsDealer bool,
	now time.Time,
) *License {
	return &License{
		ID:               uuid.New(),
		UserID:           userID,
		RestaurantID:     restaurantID,
		LicensePackageID: pkg.ID,
		StartDateTime:    now,
		EndDateTime:      pkg.Extend(now),
		IsActive:         true,
		UserPrice:        pkg.UserPrice,
		DealerPrice:      pkg.DealerPrice,
		Price:            pkg.Price(payerIsDealer),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ExtendWith pushes the end of the license by the package duration and
// moves the license onto that package.
func (l *License) ExtendWith(pkg *LicensePackage, now time.Time) {
	l.EndDateTime = pkg.Extend(l.EndDateTime)
	l.LicensePackageID = pkg.ID
	l.UpdatedAt = now
}
