package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/client/session"
	"github.com/chepeat/chepeat/internal/client/validator"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/chepeat/chepeat/internal/logging"
)

// RoleService tracks whether the device session is anonymous or operating as
// buyer or seller, and resolves the seller profile of the signed-in account.
//
// State machine: Anonymous -> Buyer -> Seller. Seller is reachable only once
// a profile resolves (or is registered). SignedOut, or any ErrUnauthorized
// seen by a service, returns to Anonymous.
type RoleService interface {
	CurrentRole() models.Role
	// Restore derives the role from persisted session state at startup.
	Restore(ctx context.Context) (models.Role, error)
	ResolveSeller(ctx context.Context) (*models.SellerProfile, error)
	SwitchRole(ctx context.Context, target models.Role) error
	RegisterSeller(ctx context.Context, profile models.SellerProfile) (*models.SellerProfile, error)

	SignedIn(ctx context.Context)
	SignedOut(ctx context.Context)
}

type roleService struct {
	client  client.Client
	session session.Repository
	log     logging.Logger

	mu   sync.RWMutex
	role models.Role
}

func NewRoleService(c client.Client, sess session.Repository, log logging.Logger) RoleService {
	return &roleService{client: c, session: sess, log: log, role: models.RoleAnonymous}
}

func (r *roleService) CurrentRole() models.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.role
}

func (r *roleService) setRole(ctx context.Context, role models.Role) {
	r.mu.Lock()
	prev := r.role
	r.role = role
	r.mu.Unlock()
	if prev != role {
		r.log.Info(ctx, "role changed", "from", prev, "to", role)
	}
}

func (r *roleService) Restore(ctx context.Context) (models.Role, error) {
	if _, err := authorize(ctx, r.session); err != nil {
		r.setRole(ctx, models.RoleAnonymous)
		if errors.Is(err, common.ErrAuthMissing) {
			return models.RoleAnonymous, nil
		}
		return models.RoleAnonymous, fail(ctx, r.log, "restore session", err)
	}
	account, err := r.session.Account(ctx)
	if err != nil {
		return models.RoleAnonymous, fail(ctx, r.log, "restore session", err)
	}
	if account == nil {
		r.setRole(ctx, models.RoleAnonymous)
		return models.RoleAnonymous, nil
	}
	r.setRole(ctx, models.RoleBuyer)
	return models.RoleBuyer, nil
}

func (r *roleService) SignedIn(ctx context.Context) {
	r.setRole(ctx, models.RoleBuyer)
}

func (r *roleService) SignedOut(ctx context.Context) {
	r.setRole(ctx, models.RoleAnonymous)
}

func (r *roleService) observe(ctx context.Context, err error) {
	observeUnauthorized(ctx, r, err)
}

// observeUnauthorized drops the session to Anonymous when the token is
// missing or the backend rejected it.
func observeUnauthorized(ctx context.Context, roles RoleService, err error) {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, common.ErrAuthMissing) {
		roles.SignedOut(ctx)
	}
}

// ResolveSeller returns the cached seller profile, fetching and caching it on
// a miss. common.ErrProfileNotFound means the account is not a seller yet.
func (r *roleService) ResolveSeller(ctx context.Context) (*models.SellerProfile, error) {
	const action = "resolve seller profile"

	p, err := r.resolveSeller(ctx)
	if err != nil {
		r.observe(ctx, err)
		return nil, fail(ctx, r.log, action, err)
	}
	return p, nil
}

func (r *roleService) resolveSeller(ctx context.Context) (*models.SellerProfile, error) {
	authCtx, err := authorize(ctx, r.session)
	if err != nil {
		return nil, err
	}
	account, err := r.session.Account(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil || account.ID == "" {
		return nil, common.ErrAuthMissing
	}

	cached, err := r.session.Seller(ctx)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	profile, err := r.client.GetSellerByUserID(authCtx, account.ID)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %s", common.ErrProfileNotFound, account.ID)
		}
		return nil, err
	}

	if err := r.cacheSeller(ctx, account, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *roleService) cacheSeller(ctx context.Context, account *models.Account, profile *models.SellerProfile) error {
	if err := r.session.SetSeller(ctx, profile); err != nil {
		return err
	}
	return r.session.SetCombined(ctx, &models.CombinedUserData{Account: *account, SellerData: profile})
}

// SwitchRole changes the lens over the current account. Nothing persisted
// changes.
func (r *roleService) SwitchRole(ctx context.Context, target models.Role) error {
	action := fmt.Sprintf("switch to %s mode", target)

	switch target {
	case models.RoleBuyer:
		if _, err := authorize(ctx, r.session); err != nil {
			r.observe(ctx, err)
			return fail(ctx, r.log, action, err)
		}
		r.setRole(ctx, models.RoleBuyer)
		return nil
	case models.RoleSeller:
		if _, err := r.resolveSeller(ctx); err != nil {
			r.observe(ctx, err)
			return fail(ctx, r.log, action, err)
		}
		r.setRole(ctx, models.RoleSeller)
		return nil
	default:
		return fail(ctx, r.log, action, fmt.Errorf("%w: unknown role %q", common.ErrValidation, target))
	}
}

// RegisterSeller creates the seller profile of the signed-in account, flips
// isSeller on the cached account and enters seller mode.
func (r *roleService) RegisterSeller(ctx context.Context, profile models.SellerProfile) (*models.SellerProfile, error) {
	const action = "register as seller"

	created, err := r.registerSeller(ctx, profile)
	if err != nil {
		r.observe(ctx, err)
		return nil, fail(ctx, r.log, action, err)
	}
	r.setRole(ctx, models.RoleSeller)
	return created, nil
}

func (r *roleService) registerSeller(ctx context.Context, profile models.SellerProfile) (*models.SellerProfile, error) {
	if err := validator.ValidateStruct(profile); err != nil {
		return nil, err
	}
	authCtx, err := authorize(ctx, r.session)
	if err != nil {
		return nil, err
	}
	account, err := r.session.Account(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil || account.ID == "" {
		return nil, common.ErrAuthMissing
	}

	profile.IDUser = account.ID
	created, err := r.client.RegisterSeller(authCtx, profile)
	if err != nil {
		return nil, err
	}
	if created.IDUser == "" {
		created.IDUser = account.ID
	}

	account.IsSeller = true
	if err := r.session.SetAccount(ctx, account); err != nil {
		return nil, err
	}
	if err := r.cacheSeller(ctx, account, created); err != nil {
		return nil, err
	}
	return created, nil
}
