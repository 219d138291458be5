package services

import (
	"context"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/client/session"
	"github.com/chepeat/chepeat/internal/client/validator"
	"github.com/chepeat/chepeat/internal/logging"
)

// ProductService manages the catalogue of the signed-in seller.
type ProductService interface {
	Create(ctx context.Context, p models.Product) (*models.Product, error)
	ListMine(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, p models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	client  client.Client
	session session.Repository
	roles   RoleService
	log     logging.Logger
}

func NewProductService(c client.Client, sess session.Repository, roles RoleService, log logging.Logger) ProductService {
	return &productService{client: c, session: sess, roles: roles, log: log}
}

func (s *productService) failed(ctx context.Context, action string, err error) error {
	observeUnauthorized(ctx, s.roles, err)
	return fail(ctx, s.log, action, err)
}

// Create adds p to the catalogue of the resolved seller.
func (s *productService) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	const action = "create product"

	if err := validator.ValidateStruct(p); err != nil {
		return nil, s.failed(ctx, action, err)
	}
	authCtx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, s.failed(ctx, action, err)
	}
	seller, err := s.roles.ResolveSeller(ctx)
	if err != nil {
		return nil, err
	}

	p.IDSeller = seller.ID
	created, err := s.client.CreateProduct(authCtx, p)
	if err != nil {
		return nil, s.failed(ctx, action, err)
	}
	s.log.Info(ctx, "product created", "product_id", created.ID, "seller_id", seller.ID)
	return created, nil
}

func (s *productService) ListMine(ctx context.Context) ([]models.Product, error) {
	const action = "load your products"

	authCtx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, s.failed(ctx, action, err)
	}
	seller, err := s.roles.ResolveSeller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.client.ListProductsBySeller(authCtx, seller.ID)
	if err != nil {
		return nil, s.failed(ctx, action, err)
	}
	return list, nil
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	const action = "load product"

	if err := validator.ValidateVar("id", id, "required"); err != nil {
		return nil, s.failed(ctx, action, err)
	}
	authCtx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, s.failed(ctx, action, err)
	}
	p, err := s.client.GetProduct(authCtx, id)
	if err != nil {
		return nil, s.failed(ctx, action, err)
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, p models.Product) (*models.Product, error) {
	const action = "update product"

	if err := validator.ValidateVar("id", p.ID, "required"); err != nil {
		return nil, s.failed(ctx, action, err)
	}
	if err := validator.ValidateStruct(p); err != nil {
		return nil, s.failed(ctx, action, err)
	}
	authCtx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, s.failed(ctx, action, err)
	}
	updated, err := s.client.UpdateProduct(authCtx, p)
	if err != nil {
		return nil, s.failed(ctx, action, err)
	}
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	const action = "delete product"

	if err := validator.ValidateVar("id", id, "required"); err != nil {
		return s.failed(ctx, action, err)
	}
	authCtx, err := authorize(ctx, s.session)
	if err != nil {
		return s.failed(ctx, action, err)
	}
	if err := s.client.DeleteProduct(authCtx, id); err != nil {
		return s.failed(ctx, action, err)
	}
	s.log.Info(ctx, "product deleted", "product_id", id)
	return nil
}
