package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _licenseColumns = []string{
	"id", "user_id", "restaurant_id", "license_package_id", "start_date_time", "end_date_time",
	"is_active", "user_price", "dealer_price", "price", "created_at", "updated_at",
}

type LicenseRepository struct {
	db *postgres.Postgres
}

func NewLicenseRepository(db *postgres.Postgres) *LicenseRepository {
	return &LicenseRepository{db}
}

func (lr *LicenseRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	licenses []*entity.License,
) error {
	const op = "repository.license.Create"

	if len(licenses) == 0 {
		return nil
	}

	query := lr.db.Builder.Insert("licenses").Columns(_licenseColumns...)
	for _, l := range licenses {
		query = query.Values(
			l.ID,
			l.UserID,
			l.RestaurantID,
			l.LicensePackageID,
			l.StartDateTime,
			l.EndDateTime,
			l.IsActive,
			toMinor(l.UserPrice),
			toMinor(l.DealerPrice),
			toMinor(l.Price),
			l.CreatedAt,
			l.UpdatedAt,
		)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err = queryExecuter.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	return nil
}

func (lr *LicenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.License, error) {
	const op = "repository.license.GetByID"

	sql, args, err := lr.selectByID(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	license, err := scanLicense(lr.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: license %s: %w", op, id, err)
	}
	return license, nil
}

func (lr *LicenseRepository) GetByIDForUpdate(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	id uuid.UUID,
) (*entity.License, error) {
	const op = "repository.license.GetByIDForUpdate"

	sql, args, err := lr.selectByID(id).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	license, err := scanLicense(queryExecuter.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: license %s: %w", op, id, err)
	}
	return license, nil
}

func (lr *LicenseRepository) selectByID(id uuid.UUID) squirrel.SelectBuilder {
	return lr.db.Builder.Select(_licenseColumns...).
		From("licenses").
		Where(squirrel.Eq{"id": id})
}

func scanLicense(row pgx.Row) (*entity.License, error) {
	var (
		l                        entity.License
		userPrice, dealer, price int64
	)
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.RestaurantID,
		&l.LicensePackageID,
		&l.StartDateTime,
		&l.EndDateTime,
		&l.IsActive,
		&userPrice,
		&dealer,
		&price,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("row scan: %w", err)
	}

	l.UserPrice = fromMinor(userPrice)
	l.DealerPrice = fromMinor(dealer)
	l.Price = fromMinor(price)
	return &l, nil
}

// UpdateTerm writes the end date and package of an extended license.
func (lr *LicenseRepository) UpdateTerm(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	license *entity.License,
) error {
	const op = "repository.license.UpdateTerm"

	query := lr.db.Builder.Update("licenses").
		Set("end_date_time", license.EndDateTime).
		Set("license_package_id", license.LicensePackageID).
		Set("updated_at", license.UpdatedAt).
		Where(squirrel.Eq{"id": license.ID})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := queryExecuter.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: license %s: %w", op, license.ID, entity.ErrDataNotFound)
	}
	return nil
}
