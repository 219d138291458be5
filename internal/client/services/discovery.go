package services

import (
	"context"
	"sync"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/client/session"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/chepeat/chepeat/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DiscoveryOptions tune nearby discovery. Zero fields take the defaults.
type DiscoveryOptions struct {
	RadiusKm    float64
	Limit       int
	Concurrency int
}

const (
	defaultRadiusKm    = 500
	defaultLimit       = 6
	defaultConcurrency = 4
)

// DiscoveryService finds products near the device and enriches each with
// its seller profile.
type DiscoveryService interface {
	// DiscoverNearby queries products within radiusKm of (lat, lon); a
	// non-positive radius uses the configured one. A nil coordinate fails
	// with common.ErrLocationUnavailable without calling the backend.
	DiscoverNearby(ctx context.Context, lat, lon *float64, radiusKm float64) (*models.DiscoveryResult, error)
	// FindCachedProduct looks up the last discovery result by product name,
	// ignoring case and whitespace. It returns nil when nothing matches.
	FindCachedProduct(ctx context.Context, name string) (*models.ProductWithSeller, error)
}

type discoveryService struct {
	client  client.Client
	session session.Repository
	roles   RoleService
	log     logging.Logger
	opts    DiscoveryOptions
}

func NewDiscoveryService(c client.Client, sess session.Repository, roles RoleService, log logging.Logger, opts DiscoveryOptions) DiscoveryService {
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = defaultRadiusKm
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &discoveryService{client: c, session: sess, roles: roles, log: log, opts: opts}
}

func (d *discoveryService) DiscoverNearby(ctx context.Context, lat, lon *float64, radiusKm float64) (*models.DiscoveryResult, error) {
	const action = "load nearby products"

	res, err := d.discover(ctx, lat, lon, radiusKm)
	if err != nil {
		observeUnauthorized(ctx, d.roles, err)
		return nil, fail(ctx, d.log, action, err)
	}
	if len(res.Failed) > 0 {
		d.log.Warn(ctx, "some sellers could not be resolved",
			"action", action, "succeeded", len(res.Succeeded), "failed", len(res.Failed))
	}
	return res, nil
}

func (d *discoveryService) discover(ctx context.Context, lat, lon *float64, radiusKm float64) (*models.DiscoveryResult, error) {
	if lat == nil || lon == nil {
		return nil, common.ErrLocationUnavailable
	}
	if radiusKm <= 0 {
		radiusKm = d.opts.RadiusKm
	}

	authCtx, err := authorize(ctx, d.session)
	if err != nil {
		return nil, err
	}

	products, err := d.client.ListProductsByRadius(authCtx, models.RadiusQuery{
		Latitude:  *lat,
		Longitude: *lon,
		RadiusKm:  radiusKm,
	})
	if err != nil {
		return nil, err
	}
	if len(products) > d.opts.Limit {
		products = products[:d.opts.Limit]
	}

	sellers, errs, err := d.resolveSellers(authCtx, products)
	if err != nil {
		return nil, err
	}

	res := &models.DiscoveryResult{Succeeded: []models.ProductWithSeller{}}
	for _, p := range products {
		if seller, ok := sellers[p.IDSeller]; ok {
			res.Succeeded = append(res.Succeeded, models.ProductWithSeller{Product: p, SellerData: seller})
			continue
		}
		res.Failed = append(res.Failed, models.DiscoveryFailure{Product: p, Err: errs[p.IDSeller]})
	}

	if err := d.session.SetProducts(ctx, res.Succeeded); err != nil {
		return nil, err
	}
	return res, nil
}

// resolveSellers fetches each distinct seller once, at most
// opts.Concurrency at a time. Per-seller failures are collected, not fatal;
// only cancellation of ctx aborts the whole batch.
func (d *discoveryService) resolveSellers(ctx context.Context, products []models.Product) (map[string]*models.SellerProfile, map[string]error, error) {
	var (
		mu      sync.Mutex
		sellers = make(map[string]*models.SellerProfile)
		errs    = make(map[string]error)
	)

	var g errgroup.Group
	g.SetLimit(d.opts.Concurrency)

	seen := make(map[string]struct{})
	for _, p := range products {
		id := p.IDSeller
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		g.Go(func() error {
			profile, err := d.client.GetSellerByID(ctx, id)
			if err == nil && profile == nil {
				err = client.ErrNotFound
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[id] = err
				return nil
			}
			sellers[id] = profile
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return sellers, errs, nil
}

func (d *discoveryService) FindCachedProduct(ctx context.Context, name string) (*models.ProductWithSeller, error) {
	list, err := d.session.Products(ctx)
	if err != nil {
		return nil, fail(ctx, d.log, "load product", err)
	}
	want := models.NormalizeName(name)
	for i := range list {
		if models.NormalizeName(list[i].Name) == want {
			return &list[i], nil
		}
	}
	return nil, nil
}
