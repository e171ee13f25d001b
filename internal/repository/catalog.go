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

// LicensePackageRepository, UserRepository and RestaurantRepository read
// tables owned by other parts of the platform.

type LicensePackageRepository struct {
	db *postgres.Postgres
}

func NewLicensePackageRepository(db *postgres.Postgres) *LicensePackageRepository {
	return &LicensePackageRepository{db}
}

func (r *LicensePackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.LicensePackage, error) {
	const op = "repository.licensePackage.GetByID"

	query := r.db.Builder.
		Select("id", "name", "duration_value", "duration_unit", "user_price", "dealer_price", "is_active").
		From("license_packages").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	var (
		pkg                 entity.LicensePackage
		unit                string
		userPrice, dealerPr int64
	)
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.DurationValue,
		&unit,
		&userPrice,
		&dealerPr,
		&pkg.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: package %s: %w", op, id, entity.ErrDataNotFound)
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	pkg.DurationUnit = entity.DurationUnit(unit)
	pkg.UserPrice = fromMinor(userPrice)
	pkg.DealerPrice = fromMinor(dealerPr)
	return &pkg, nil
}

type UserRepository struct {
	db *postgres.Postgres
}

func NewUserRepository(db *postgres.Postgres) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	const op = "repository.user.GetByID"

	query := r.db.Builder.
		Select("id", "email", "full_name", "phone", "address", "is_dealer").
		From("users").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	var user entity.User
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Phone,
		&user.Address,
		&user.IsDealer,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: user %s: %w", op, id, entity.ErrDataNotFound)
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &user, nil
}

type RestaurantRepository struct {
	db *postgres.Postgres
}

func NewRestaurantRepository(db *postgres.Postgres) *RestaurantRepository {
	return &RestaurantRepository{db}
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error) {
	const op = "repository.restaurant.GetByID"

	query := r.db.Builder.
		Select("id", "user_id", "name", "address").
		From("restaurants").
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	var restaurant entity.Restaurant
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&restaurant.ID,
		&restaurant.UserID,
		&restaurant.Name,
		&restaurant.Address,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: restaurant %s: %w", op, id, entity.ErrDataNotFound)
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &restaurant, nil
}
