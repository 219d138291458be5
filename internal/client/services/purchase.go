package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/lifecycle"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/client/session"
	"github.com/chepeat/chepeat/internal/client/validator"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/chepeat/chepeat/internal/logging"
)

// PurchaseService drives a purchase from the buyer's request to the
// seller's settlement.
//
// Requested -> Rejected is terminal. Requested -> Accepted creates the
// Transaction, which moves Pending -> Completed; a transaction seen as
// Completed is not settled again. Reject, accept and complete belong to the
// seller who owns the product; anyone else gets common.ErrNotOwner, and an
// account without a seller profile gets common.ErrProfileNotFound. Accept
// and reject on one request id never run concurrently in this process; the
// loser gets common.ErrActionInProgress. No call is retried.
type PurchaseService interface {
	CreateRequest(ctx context.Context, idProduct string) (*models.PurchaseRequest, error)
	GetRequest(ctx context.Context, id string) (*models.PurchaseRequest, error)
	RejectRequest(ctx context.Context, id string) error
	AcceptRequest(ctx context.Context, id string) (*models.Transaction, error)
	CompleteTransaction(ctx context.Context, id string, wasDelivered, wasPaid bool) (*models.Transaction, error)
	ListSellerTransactions(ctx context.Context) ([]models.Transaction, error)
}

type purchaseService struct {
	client  client.Client
	session session.Repository
	roles   RoleService
	log     logging.Logger

	inFlight sync.Map // request id -> struct{}

	mu sync.Mutex
	// decided remembers requests this process moved out of Requested, in
	// case the backend still reports them as Requested.
	decided map[string]models.RequestStatus
	// settled holds the last transaction states seen from the backend.
	settled map[string]models.TransactionStatus
}

func NewPurchaseService(c client.Client, sess session.Repository, roles RoleService, log logging.Logger) PurchaseService {
	return &purchaseService{
		client:  c,
		session: sess,
		roles:   roles,
		log:     log,
		decided: make(map[string]models.RequestStatus),
		settled: make(map[string]models.TransactionStatus),
	}
}

func (p *purchaseService) failed(ctx context.Context, action string, err error) error {
	observeUnauthorized(ctx, p.roles, err)
	return fail(ctx, p.log, action, err)
}

// CreateRequest records the buyer's intent to buy idProduct. The token is
// read first, then the account, then the backend is called.
func (p *purchaseService) CreateRequest(ctx context.Context, idProduct string) (*models.PurchaseRequest, error) {
	const action = "send purchase request"

	authCtx, err := authorize(ctx, p.session)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	account, err := p.session.Account(ctx)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	if account == nil || account.ID == "" {
		return nil, p.failed(ctx, action, common.ErrAuthMissing)
	}

	in := models.CreateRequestInput{IDProduct: idProduct, IDBuyer: account.ID}
	if err := validator.ValidateStruct(in); err != nil {
		return nil, p.failed(ctx, action, err)
	}

	pr, err := p.client.CreatePurchaseRequest(authCtx, in)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	p.log.Info(ctx, "purchase request created", "request_id", pr.ID, "product_id", idProduct)
	return pr, nil
}

func (p *purchaseService) GetRequest(ctx context.Context, id string) (*models.PurchaseRequest, error) {
	const action = "load purchase request"

	authCtx, err := authorize(ctx, p.session)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	pr, err := p.fetch(authCtx, id)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	return pr, nil
}

// fetch reads the request and overlays any decision made locally.
func (p *purchaseService) fetch(ctx context.Context, id string) (*models.PurchaseRequest, error) {
	if err := validator.ValidateVar("id", id, "required"); err != nil {
		return nil, err
	}
	pr, err := p.client.GetPurchaseRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if st, ok := p.decided[id]; ok && pr.Status == models.RequestRequested {
		pr.Status = st
	}
	p.mu.Unlock()
	return pr, nil
}

func (p *purchaseService) remember(txs ...models.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, tx := range txs {
		p.settled[tx.ID] = tx.Status
	}
}

// checkSettle rejects a settlement of a transaction already known to be
// Completed. Unknown transactions are left to the backend.
func (p *purchaseService) checkSettle(id string) error {
	p.mu.Lock()
	st, ok := p.settled[id]
	p.mu.Unlock()
	if !ok {
		return nil
	}
	return lifecycle.ValidateTransactionTransition(st, models.TransactionCompleted)
}

func (p *purchaseService) markDecided(id string, status models.RequestStatus) {
	p.mu.Lock()
	p.decided[id] = status
	p.mu.Unlock()
}

// exclusive runs fn unless another accept or reject on id is in flight.
func (p *purchaseService) exclusive(id string, fn func() error) error {
	if _, busy := p.inFlight.LoadOrStore(id, struct{}{}); busy {
		return fmt.Errorf("%w: request %s", common.ErrActionInProgress, id)
	}
	defer p.inFlight.Delete(id)
	return fn()
}

// transition authorizes, fetches the request, checks that the caller's seller
// profile owns its product and that the request may move to next.
func (p *purchaseService) transition(ctx context.Context, id string, next models.RequestStatus) (context.Context, *models.SellerProfile, error) {
	authCtx, err := authorize(ctx, p.session)
	if err != nil {
		return nil, nil, err
	}
	pr, err := p.fetch(authCtx, id)
	if err != nil {
		return nil, nil, err
	}
	seller, err := p.roles.ResolveSeller(ctx)
	if err != nil {
		return nil, nil, err
	}
	product, err := p.client.GetProduct(authCtx, pr.IDProduct)
	if err != nil {
		return nil, nil, err
	}
	if product.IDSeller != seller.ID {
		return nil, nil, fmt.Errorf("%w: product %s of request %s", common.ErrNotOwner, pr.IDProduct, id)
	}
	if err := lifecycle.ValidateRequestTransition(pr.Status, next); err != nil {
		return nil, nil, err
	}
	return authCtx, seller, nil
}

func (p *purchaseService) RejectRequest(ctx context.Context, id string) error {
	const action = "reject purchase request"

	err := p.exclusive(id, func() error {
		authCtx, _, err := p.transition(ctx, id, models.RequestRejected)
		if err != nil {
			return err
		}
		if err := p.client.RejectPurchaseRequest(authCtx, id); err != nil {
			return err
		}
		p.markDecided(id, models.RequestRejected)
		return nil
	})
	if err != nil {
		return p.failed(ctx, action, err)
	}
	p.log.Info(ctx, "purchase request rejected", "request_id", id)
	return nil
}

// AcceptRequest accepts the request by opening its Transaction.
func (p *purchaseService) AcceptRequest(ctx context.Context, id string) (*models.Transaction, error) {
	const action = "accept purchase request"

	var tx *models.Transaction
	err := p.exclusive(id, func() error {
		authCtx, seller, err := p.transition(ctx, id, models.RequestAccepted)
		if err != nil {
			return err
		}
		tx, err = p.client.AddTransaction(authCtx, id)
		if err != nil {
			return err
		}
		if tx.ID == "" {
			tx = p.findTransaction(ctx, authCtx, seller.ID, tx)
		}
		p.markDecided(id, models.RequestAccepted)
		if tx.ID != "" {
			p.remember(*tx)
		}
		return nil
	})
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	p.log.Info(ctx, "purchase request accepted", "request_id", id, "transaction_id", tx.ID)
	return tx, nil
}

// findTransaction looks up the transaction opened for tx.IDPurchaseRequest
// when the backend acknowledged it without an id. tx is returned unchanged
// when the lookup fails; the accept itself already succeeded.
func (p *purchaseService) findTransaction(ctx, authCtx context.Context, sellerID string, tx *models.Transaction) *models.Transaction {
	list, err := p.client.ListTransactionsBySeller(authCtx, sellerID)
	if err != nil {
		p.log.Warn(ctx, "transaction id lookup failed", "request_id", tx.IDPurchaseRequest, "err", err)
		return tx
	}
	for i := range list {
		if list[i].IDPurchaseRequest == tx.IDPurchaseRequest {
			return &list[i]
		}
	}
	return tx
}

// CompleteTransaction submits the delivered/paid flags as given; the backend
// decides whether the combination completes the transaction.
func (p *purchaseService) CompleteTransaction(ctx context.Context, id string, wasDelivered, wasPaid bool) (*models.Transaction, error) {
	const action = "complete transaction"

	in := models.CompleteTransactionInput{ID: id, WasDelivered: wasDelivered, WasPaid: wasPaid}
	if err := validator.ValidateStruct(in); err != nil {
		return nil, p.failed(ctx, action, err)
	}
	authCtx, err := authorize(ctx, p.session)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	if err := p.checkOwned(ctx, authCtx, id); err != nil {
		return nil, p.failed(ctx, action, err)
	}
	if err := p.checkSettle(id); err != nil {
		return nil, p.failed(ctx, action, err)
	}
	tx, err := p.client.CompleteTransaction(authCtx, in)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	p.remember(*tx)
	p.log.Info(ctx, "transaction updated", "transaction_id", id, "status", tx.Status)
	return tx, nil
}

// checkOwned resolves the caller's seller profile and requires the
// transaction to be among that seller's transactions. The listed states
// refresh what checkSettle sees.
func (p *purchaseService) checkOwned(ctx, authCtx context.Context, id string) error {
	seller, err := p.roles.ResolveSeller(ctx)
	if err != nil {
		return err
	}
	owned, err := p.client.ListTransactionsBySeller(authCtx, seller.ID)
	if err != nil {
		return err
	}
	p.remember(owned...)
	if !slices.ContainsFunc(owned, func(tx models.Transaction) bool { return tx.ID == id }) {
		return fmt.Errorf("%w: transaction %s", common.ErrNotOwner, id)
	}
	return nil
}

func (p *purchaseService) ListSellerTransactions(ctx context.Context) ([]models.Transaction, error) {
	const action = "load transactions"

	authCtx, err := authorize(ctx, p.session)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	seller, err := p.roles.ResolveSeller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := p.client.ListTransactionsBySeller(authCtx, seller.ID)
	if err != nil {
		return nil, p.failed(ctx, action, err)
	}
	p.remember(list...)
	return list, nil
}
