// Package session is the typed view over the secure local store. Screens and
// services read and write session state only through Repository.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/client/repositories/securestore"
)

// Persisted keys. Tokens are raw strings, everything else is JSON.
const (
	KeyUserToken        = "userToken"
	KeyRefreshToken     = "refreshToken"
	KeyUserData         = "userData"
	KeySellerData       = "sellerData"
	KeyCombinedUserData = "combinedUserData"
	KeyProducts         = "products"
)

// Repository exposes session state with one typed getter/setter per key.
// Getters return zero values (nil, "") for absent keys, never an error.
type Repository interface {
	Tokens(ctx context.Context) (access, refresh string, err error)
	SetTokens(ctx context.Context, access, refresh string) error

	Account(ctx context.Context) (*models.Account, error)
	SetAccount(ctx context.Context, a *models.Account) error

	Seller(ctx context.Context) (*models.SellerProfile, error)
	SetSeller(ctx context.Context, p *models.SellerProfile) error

	Combined(ctx context.Context) (*models.CombinedUserData, error)
	SetCombined(ctx context.Context, c *models.CombinedUserData) error

	Products(ctx context.Context) ([]models.ProductWithSeller, error)
	SetProducts(ctx context.Context, list []models.ProductWithSeller) error

	// Keys lists the stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
	// Clear removes every stored entry, including keys this package
	// does not know about.
	Clear(ctx context.Context) error
}

type store struct {
	repo securestore.Repository
}

// New binds a session Repository to a secure store.
func New(repo securestore.Repository) Repository {
	return &store{repo: repo}
}

func (s *store) Tokens(ctx context.Context) (string, string, error) {
	access, err := s.repo.Get(ctx, KeyUserToken)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.repo.Get(ctx, KeyRefreshToken)
	if err != nil {
		return "", "", err
	}
	return string(access), string(refresh), nil
}

func (s *store) SetTokens(ctx context.Context, access, refresh string) error {
	if err := s.repo.Set(ctx, KeyUserToken, []byte(access)); err != nil {
		return err
	}
	if refresh == "" {
		return s.repo.Delete(ctx, KeyRefreshToken)
	}
	return s.repo.Set(ctx, KeyRefreshToken, []byte(refresh))
}

func (s *store) Account(ctx context.Context) (*models.Account, error) {
	return getJSON[models.Account](ctx, s.repo, KeyUserData)
}

func (s *store) SetAccount(ctx context.Context, a *models.Account) error {
	return setJSON(ctx, s.repo, KeyUserData, a)
}

func (s *store) Seller(ctx context.Context) (*models.SellerProfile, error) {
	return getJSON[models.SellerProfile](ctx, s.repo, KeySellerData)
}

func (s *store) SetSeller(ctx context.Context, p *models.SellerProfile) error {
	return setJSON(ctx, s.repo, KeySellerData, p)
}

func (s *store) Combined(ctx context.Context) (*models.CombinedUserData, error) {
	return getJSON[models.CombinedUserData](ctx, s.repo, KeyCombinedUserData)
}

func (s *store) SetCombined(ctx context.Context, c *models.CombinedUserData) error {
	return setJSON(ctx, s.repo, KeyCombinedUserData, c)
}

func (s *store) Products(ctx context.Context) ([]models.ProductWithSeller, error) {
	list, err := getJSON[[]models.ProductWithSeller](ctx, s.repo, KeyProducts)
	if err != nil || list == nil {
		return nil, err
	}
	return *list, nil
}

func (s *store) SetProducts(ctx context.Context, list []models.ProductWithSeller) error {
	return setJSON(ctx, s.repo, KeyProducts, &list)
}

func (s *store) Keys(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(all)), nil
}

func (s *store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// setJSON stores v under key; a nil pointer deletes the key.
func setJSON[T any](ctx context.Context, repo securestore.Repository, key string, v *T) error {
	if v == nil {
		return repo.Delete(ctx, key)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return repo.Set(ctx, key, b)
}

func getJSON[T any](ctx context.Context, repo securestore.Repository, key string) (*T, error) {
	b, err := repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}
