// Package basket encodes what a payment buys. The payload is a tagged union
// whose tag must match the payment's license operation.
package basket

import (
	"fmt"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"

	"github.com/google/uuid"
)

type Basket interface {
	Operation() entity.LicenseOperation
	validate() error
}

type RestaurantItem struct {
	RestaurantID      uuid.UUID   `json:"restaurantId"`
	LicensePackageIDs []uuid.UUID `json:"licensePackageIds"`
}

// NewLicense provisions licenses for one or more restaurants at once.
type NewLicense struct {
	Items []RestaurantItem `json:"items"`
}

type ExtendLicense struct {
	RestaurantID     uuid.UUID `json:"restaurantId"`
	LicenseID        uuid.UUID `json:"licenseId"`
	LicensePackageID uuid.UUID `json:"licensePackageId"`
}

// Link has no structured side effect.
type Link struct {
	Description string `json:"description"`
}

var (
	_ Basket = (*NewLicense)(nil)
	_ Basket = (*ExtendLicense)(nil)
	_ Basket = (*Link)(nil)
)

func (*NewLicense) Operation() entity.LicenseOperation    { return entity.OperationNewLicense }
func (*ExtendLicense) Operation() entity.LicenseOperation { return entity.OperationExtendLicense }
func (*Link) Operation() entity.LicenseOperation          { return entity.OperationLink }

// Pairs flattens the basket into (restaurant, package) pairs, one per
// license to issue.
func (b *NewLicense) Pairs() [][2]uuid.UUID {
	var pairs [][2]uuid.UUID
	for _, item := range b.Items {
		for _, pkgID := range item.LicensePackageIDs {
			pairs = append(pairs, [2]uuid.UUID{item.RestaurantID, pkgID})
		}
	}
	return pairs
}

func (b *NewLicense) validate() error {
	if len(b.Items) == 0 {
		return fmt.Errorf("%w: no restaurants", entity.ErrInvalidData)
	}
	for i, item := range b.Items {
		if item.RestaurantID == uuid.Nil {
			return fmt.Errorf("%w: item %d: empty restaurant id", entity.ErrInvalidData, i)
		}
		if len(item.LicensePackageIDs) == 0 {
			return fmt.Errorf("%w: item %d: no license packages", entity.ErrInvalidData, i)
		}
		for _, id := range item.LicensePackageIDs {
			if id == uuid.Nil {
				return fmt.Errorf("%w: item %d: empty license package id", entity.ErrInvalidData, i)
			}
		}
	}
	return nil
}

func (b *ExtendLicense) validate() error {
	switch {
	case b.RestaurantID == uuid.Nil:
		return fmt.Errorf("%w: empty restaurant id", entity.ErrInvalidData)
	case b.LicenseID == uuid.Nil:
		return fmt.Errorf("%w: empty license id", entity.ErrInvalidData)
	case b.LicensePackageID == uuid.Nil:
		return fmt.Errorf("%w: empty license package id", entity.ErrInvalidData)
	}
	return nil
}

func (b *Link) validate() error {
	if b.Description == "" {
		return fmt.Errorf("%w: empty description", entity.ErrInvalidData)
	}
	return nil
}
