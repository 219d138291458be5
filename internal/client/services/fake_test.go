package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/client/repositories/securestore"
	"github.com/chepeat/chepeat/internal/client/session"
	"github.com/chepeat/chepeat/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func newSession(t *testing.T) session.Repository {
	t.Helper()
	st, err := securestore.Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return session.New(st.Repo)
}

func makeToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "U1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// signIn seeds the session as a successful login would.
func signIn(t *testing.T, sess session.Repository, account models.Account) string {
	t.Helper()
	ctx := context.Background()
	token := makeToken(t, time.Now().Add(time.Hour))
	require.NoError(t, sess.SetTokens(ctx, token, "refresh-"+account.ID))
	require.NoError(t, sess.SetAccount(ctx, &account))
	return token
}

// ---- fake client ----

// fakeClient is an in-memory backend implementing client.Client.
type fakeClient struct {
	mu sync.Mutex

	LoginResp *models.LoginResponse
	LoginErr  error

	RegisterErr  error
	LastRegister models.RegisterInput

	LogoutErr        error
	LogoutCalls      int
	LastLogoutToken  string
	LastLogoutBearer string

	SellersByUser map[string]*models.SellerProfile
	SellersByID   map[string]*models.SellerProfile
	SellerErrs    map[string]error
	SellerDelay   time.Duration

	SellerByUserErr   error
	RegisterSellerErr error

	Products   []models.Product
	RadiusErr  error
	LastRadius models.RadiusQuery

	Requests     map[string]*models.PurchaseRequest
	Transactions map[string]*models.Transaction
	// StaleRequests keeps GetPurchaseRequest reporting Requested after a
	// decision, like a lagging replica.
	StaleRequests bool
	RejectErr     error
	// AnonymousTx makes AddTransaction acknowledge without echoing the id.
	AnonymousTx bool

	Calls         map[string]int
	Tokens        []string
	inFlight      int
	MaxConcurrent int
	nextID        int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		SellersByUser: map[string]*models.SellerProfile{},
		SellersByID:   map[string]*models.SellerProfile{},
		SellerErrs:    map[string]error{},
		Requests:      map[string]*models.PurchaseRequest{},
		Transactions:  map[string]*models.Transaction{},
		Calls:         map[string]int{},
	}
}

func (f *fakeClient) record(ctx context.Context, op string) {
	f.Calls[op]++
	f.Tokens = append(f.Tokens, client.AccessTokenFrom(ctx))
}

func (f *fakeClient) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

func (f *fakeClient) calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[op]
}

func (f *fakeClient) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeClient) addSeller(p models.SellerProfile) {
	f.SellersByID[p.ID] = &p
	if p.IDUser != "" {
		f.SellersByUser[p.IDUser] = &p
	}
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "Login")
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginResp, nil
}

func (f *fakeClient) Register(ctx context.Context, in models.RegisterInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "Register")
	f.LastRegister = in
	return f.RegisterErr
}

func (f *fakeClient) Logout(ctx context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "Logout")
	f.LogoutCalls++
	f.LastLogoutToken = refreshToken
	f.LastLogoutBearer = client.AccessTokenFrom(ctx)
	return f.LogoutErr
}

func (f *fakeClient) RegisterSeller(ctx context.Context, profile models.SellerProfile) (*models.SellerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "RegisterSeller")
	if f.RegisterSellerErr != nil {
		return nil, f.RegisterSellerErr
	}
	profile.ID = f.id("S")
	f.addSeller(profile)
	return &profile, nil
}

func (f *fakeClient) GetSellerByUserID(ctx context.Context, userID string) (*models.SellerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "GetSellerByUserID")
	if f.SellerByUserErr != nil {
		return nil, f.SellerByUserErr
	}
	p, ok := f.SellersByUser[userID]
	if !ok {
		return nil, &client.GatewayError{Op: "get seller by user", Status: 404, Err: client.ErrNotFound}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeClient) GetSellerByID(ctx context.Context, sellerID string) (*models.SellerProfile, error) {
	f.mu.Lock()
	f.record(ctx, "GetSellerByID")
	f.inFlight++
	if f.inFlight > f.MaxConcurrent {
		f.MaxConcurrent = f.inFlight
	}
	delay := f.SellerDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if err := f.SellerErrs[sellerID]; err != nil {
		return nil, err
	}
	p, ok := f.SellersByID[sellerID]
	if !ok {
		return nil, &client.GatewayError{Op: "get seller", Status: 404, Err: client.ErrNotFound}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeClient) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "CreateProduct")
	p.ID = f.id("P")
	f.Products = append(f.Products, p)
	return &p, nil
}

func (f *fakeClient) ListProductsBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "ListProductsBySeller")
	var out []models.Product
	for _, p := range f.Products {
		if p.IDSeller == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeClient) ListProductsByRadius(ctx context.Context, q models.RadiusQuery) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "ListProductsByRadius")
	f.LastRadius = q
	if f.RadiusErr != nil {
		return nil, f.RadiusErr
	}
	return append([]models.Product(nil), f.Products...), nil
}

func (f *fakeClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "GetProduct")
	for _, p := range f.Products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, &client.GatewayError{Op: "get product", Status: 404, Err: client.ErrNotFound}
}

func (f *fakeClient) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "UpdateProduct")
	for i := range f.Products {
		if f.Products[i].ID == p.ID {
			f.Products[i] = p
			return &p, nil
		}
	}
	return nil, &client.GatewayError{Op: "update product", Status: 404, Err: client.ErrNotFound}
}

func (f *fakeClient) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "DeleteProduct")
	for i := range f.Products {
		if f.Products[i].ID == id {
			f.Products = append(f.Products[:i], f.Products[i+1:]...)
			return nil
		}
	}
	return &client.GatewayError{Op: "delete product", Status: 404, Err: client.ErrNotFound}
}

func (f *fakeClient) CreatePurchaseRequest(ctx context.Context, in models.CreateRequestInput) (*models.PurchaseRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "CreatePurchaseRequest")
	pr := &models.PurchaseRequest{
		ID:          f.id("R"),
		IDProduct:   in.IDProduct,
		IDBuyer:     in.IDBuyer,
		RequestDate: time.Now().UTC(),
		Status:      models.RequestRequested,
	}
	f.Requests[pr.ID] = pr
	cp := *pr
	return &cp, nil
}

func (f *fakeClient) GetPurchaseRequest(ctx context.Context, id string) (*models.PurchaseRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "GetPurchaseRequest")
	pr, ok := f.Requests[id]
	if !ok {
		return nil, &client.GatewayError{Op: "get purchase request", Status: 404, Err: client.ErrNotFound}
	}
	cp := *pr
	if f.StaleRequests {
		cp.Status = models.RequestRequested
	}
	return &cp, nil
}

func (f *fakeClient) RejectPurchaseRequest(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "RejectPurchaseRequest")
	if f.RejectErr != nil {
		return f.RejectErr
	}
	pr, ok := f.Requests[id]
	if !ok {
		return &client.GatewayError{Op: "reject purchase request", Status: 404, Err: client.ErrNotFound}
	}
	pr.Status = models.RequestRejected
	return nil
}

func (f *fakeClient) AddTransaction(ctx context.Context, idPurchaseRequest string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "AddTransaction")
	pr, ok := f.Requests[idPurchaseRequest]
	if !ok {
		return nil, &client.GatewayError{Op: "add transaction", Status: 404, Err: client.ErrNotFound}
	}
	pr.Status = models.RequestAccepted
	tx := &models.Transaction{ID: f.id("T"), IDPurchaseRequest: idPurchaseRequest, Status: models.TransactionPending}
	f.Transactions[tx.ID] = tx
	cp := *tx
	if f.AnonymousTx {
		cp.ID = ""
	}
	return &cp, nil
}

func (f *fakeClient) CompleteTransaction(ctx context.Context, in models.CompleteTransactionInput) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "CompleteTransaction")
	tx, ok := f.Transactions[in.ID]
	if !ok {
		return nil, &client.GatewayError{Op: "complete transaction", Status: 404, Err: client.ErrNotFound}
	}
	tx.WasDelivered = in.WasDelivered
	tx.WasPaid = in.WasPaid
	tx.Status = models.TransactionPending
	if in.WasDelivered && in.WasPaid {
		tx.Status = models.TransactionCompleted
	}
	cp := *tx
	return &cp, nil
}

func (f *fakeClient) ListTransactionsBySeller(ctx context.Context, sellerID string) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(ctx, "ListTransactionsBySeller")
	owned := map[string]bool{}
	for _, p := range f.Products {
		if p.IDSeller == sellerID {
			owned[p.ID] = true
		}
	}
	var out []models.Transaction
	for _, tx := range f.Transactions {
		if pr := f.Requests[tx.IDPurchaseRequest]; pr != nil && owned[pr.IDProduct] {
			out = append(out, *tx)
		}
	}
	return out, nil
}

var _ client.Client = (*fakeClient)(nil)

// ---- fixture ----

type fixture struct {
	client    *fakeClient
	session   session.Repository
	roles     RoleService
	auth      AuthService
	purchases PurchaseService
	discovery DiscoveryService
	products  ProductService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fc := newFakeClient()
	sess := newSession(t)
	log := logging.Nop()
	roles := NewRoleService(fc, sess, log)
	return &fixture{
		client:    fc,
		session:   sess,
		roles:     roles,
		auth:      NewAuthService(fc, sess, roles, log),
		purchases: NewPurchaseService(fc, sess, roles, log),
		discovery: NewDiscoveryService(fc, sess, roles, log, DiscoveryOptions{}),
		products:  NewProductService(fc, sess, roles, log),
	}
}

func nopLog() logging.Logger {
	return logging.Nop()
}
