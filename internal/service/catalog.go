package service

import (
	"context"
	"fmt"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/cache"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Catalog serves license packages through a read-through cache. Packages
// change rarely and are read on every checkout and fulfillment.
type Catalog struct {
	packages LicensePackageRepository
	cache    cache.Cache[uuid.UUID, *entity.LicensePackage]
	cacheTTL time.Duration
	logger   logger.Logger
	loads    singleflight.Group
}

func NewCatalog(
	packages LicensePackageRepository,
	cache cache.Cache[uuid.UUID, *entity.LicensePackage],
	cacheTTL time.Duration,
	logger logger.Logger,
) *Catalog {
	cache.SetOnEvicted(func(key uuid.UUID, _ *entity.LicensePackage) {
		logger.Debugw("license package evicted from cache", "package_id", key.String())
	})

	return &Catalog{
		packages: packages,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Package returns the package with id. The returned value is shared and
// must not be modified.
func (c *Catalog) Package(ctx context.Context, id uuid.UUID) (*entity.LicensePackage, error) {
	const op = "service.Catalog.Package"

	if pkg, ok := c.cache.Get(id); ok {
		return pkg, nil
	}

	// concurrent misses for one package share a single query
	v, err, _ := c.loads.Do(id.String(), func() (any, error) {
		pkg, err := c.packages.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		c.cache.Put(id, pkg, c.cacheTTL)
		return pkg, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v.(*entity.LicensePackage), nil
}
