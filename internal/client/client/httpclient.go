package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chepeat/chepeat/internal/client/lifecycle"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Backend endpoint paths, relative to the API base URL.
const (
	pathLogin            = "Auth/IniciarSesion"
	pathRegister         = "Auth/RegistrarUsuario"
	pathLogout           = "Auth/CerrarSesion"
	pathAddSeller        = "Seller/AddUSeller"
	pathSellerByUserID   = "Seller/GetSellerByUserId"
	pathSellerByID       = "Seller/GetSellerById"
	pathAddProduct       = "Product/AddProduct"
	pathProductsBySeller = "Product/GetProductsBySellerId"
	pathProductsByRadius = "Product/GetProductsByRadius"
	pathProductByID      = "Product/GetProductById"
	pathUpdateProduct    = "Product/UpdateProduct"
	pathDeleteProduct    = "Product/DeleteProduct"
	pathCreateRequest    = "PurchaseRequest/Create"
	pathRequestByID      = "PurchaseRequest/GetRequestById"
	pathRejectRequest    = "PurchaseRequest/Reject"
	pathAddTransaction   = "Transaction/AddTransaction"
	pathCompleteTx       = "Transaction/CompleteTransaction"
	pathTxBySeller       = "Transaction/GetTransactionsBySeller"
)

const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

type Option func(*HTTPClient)

// WithTimeout bounds every call. Zero disables the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithRateLimit throttles outbound calls to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithHTTPClient replaces the underlying *http.Client (tests use httptest).
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// NewHTTPClient builds a gateway for the API rooted at baseURL,
// e.g. "https://backend-j959.onrender.com/api".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: 15 * time.Second,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do posts in as JSON to path and decodes the response into out (if non-nil
// and the body is non-empty). It reports whether a body was decoded.
func (c *HTTPClient) do(ctx context.Context, op, path string, in any, out any) (bool, error) {
	requestID := uuid.NewString()
	fail := func(status int, msg string, err error) error {
		return &GatewayError{Op: op, Status: status, RequestID: requestID, Message: msg, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return false, fail(0, err.Error(), ErrUnavailable)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return false, fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, body)
	if err != nil {
		return false, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token := AccessTokenFrom(ctx); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fail(0, err.Error(), ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, fail(resp.StatusCode, errorMessage(b), mapStatus(resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fail(resp.StatusCode, err.Error(), ErrUnavailable)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return true, nil
}

func mapStatus(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrUnavailable
	}
}

// errorMessage extracts {"message": "..."} from an error body, falling back
// to the trimmed body text.
func errorMessage(b []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(b))
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var resp models.LoginResponse
	if _, err := c.do(ctx, "login", pathLogin, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, in models.RegisterInput) error {
	_, err := c.do(ctx, "register", pathRegister, in, nil)
	return err
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	in := struct {
		RefreshToken string `json:"refreshToken"`
	}{refreshToken}
	_, err := c.do(ctx, "logout", pathLogout, in, nil)
	return err
}

func (c *HTTPClient) RegisterSeller(ctx context.Context, profile models.SellerProfile) (*models.SellerProfile, error) {
	var out models.SellerProfile
	ok, err := c.do(ctx, "register seller", pathAddSeller, profile, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &profile, nil
	}
	return &out, nil
}

func (c *HTTPClient) GetSellerByUserID(ctx context.Context, userID string) (*models.SellerProfile, error) {
	return c.getSeller(ctx, "get seller by user", pathSellerByUserID, userID)
}

func (c *HTTPClient) GetSellerByID(ctx context.Context, sellerID string) (*models.SellerProfile, error) {
	return c.getSeller(ctx, "get seller", pathSellerByID, sellerID)
}

// getSeller treats an empty 2xx body as "no profile": the backend has
// answered that way instead of 404 for users that never registered a store.
func (c *HTTPClient) getSeller(ctx context.Context, op, path, id string) (*models.SellerProfile, error) {
	var out models.SellerProfile
	ok, err := c.do(ctx, op, path, id, &out)
	if err != nil {
		return nil, err
	}
	if !ok || out.ID == "" {
		return nil, &GatewayError{Op: op, Status: http.StatusNotFound, Err: ErrNotFound}
	}
	return &out, nil
}

func (c *HTTPClient) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var out models.Product
	ok, err := c.do(ctx, "create product", pathAddProduct, p, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &p, nil
	}
	return &out, nil
}

func (c *HTTPClient) ListProductsBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	var out []models.Product
	if _, err := c.do(ctx, "list seller products", pathProductsBySeller, sellerID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListProductsByRadius(ctx context.Context, q models.RadiusQuery) ([]models.Product, error) {
	var out []models.Product
	if _, err := c.do(ctx, "list products by radius", pathProductsByRadius, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	ok, err := c.do(ctx, "get product", pathProductByID, id, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &GatewayError{Op: "get product", Status: http.StatusNotFound, Err: ErrNotFound}
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	var out models.Product
	ok, err := c.do(ctx, "update product", pathUpdateProduct, p, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &p, nil
	}
	return &out, nil
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete product", pathDeleteProduct, id, nil)
	return err
}

// wireRequest and wireTransaction carry the backend's free-form status
// strings; they are mapped onto the closed model states on the way in.
type wireRequest struct {
	models.PurchaseRequest
	Status      string `json:"status"`
	RequestDate string `json:"requestDate"`
}

// requestDateLayouts covers RFC 3339 and the zone-less timestamps the
// backend serializes.
var requestDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"}

func (w wireRequest) toModel() (*models.PurchaseRequest, error) {
	status, err := lifecycle.ParseRequestStatus(w.Status)
	if err != nil {
		return nil, err
	}
	pr := w.PurchaseRequest
	pr.Status = status
	for _, layout := range requestDateLayouts {
		if t, err := time.Parse(layout, w.RequestDate); err == nil {
			pr.RequestDate = t
			break
		}
	}
	return &pr, nil
}

type wireTransaction struct {
	models.Transaction
	Status string `json:"status"`
}

func (w wireTransaction) toModel() (*models.Transaction, error) {
	status, err := lifecycle.ParseTransactionStatus(w.Status)
	if err != nil {
		return nil, err
	}
	tx := w.Transaction
	tx.Status = status
	return &tx, nil
}

func (c *HTTPClient) CreatePurchaseRequest(ctx context.Context, in models.CreateRequestInput) (*models.PurchaseRequest, error) {
	var out wireRequest
	ok, err := c.do(ctx, "create purchase request", pathCreateRequest, in, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &models.PurchaseRequest{
			IDProduct:   in.IDProduct,
			IDBuyer:     in.IDBuyer,
			RequestDate: time.Now().UTC(),
			Status:      models.RequestRequested,
		}, nil
	}
	return out.toModel()
}

func (c *HTTPClient) GetPurchaseRequest(ctx context.Context, id string) (*models.PurchaseRequest, error) {
	var out wireRequest
	ok, err := c.do(ctx, "get purchase request", pathRequestByID, id, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &GatewayError{Op: "get purchase request", Status: http.StatusNotFound, Err: ErrNotFound}
	}
	return out.toModel()
}

func (c *HTTPClient) RejectPurchaseRequest(ctx context.Context, id string) error {
	_, err := c.do(ctx, "reject purchase request", pathRejectRequest, id, nil)
	return err
}

func (c *HTTPClient) AddTransaction(ctx context.Context, idPurchaseRequest string) (*models.Transaction, error) {
	in := struct {
		IDPurchaseRequest string `json:"idPurchaseRequest"`
	}{idPurchaseRequest}

	var out wireTransaction
	ok, err := c.do(ctx, "add transaction", pathAddTransaction, in, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &models.Transaction{IDPurchaseRequest: idPurchaseRequest, Status: models.TransactionPending}, nil
	}
	return out.toModel()
}

func (c *HTTPClient) CompleteTransaction(ctx context.Context, in models.CompleteTransactionInput) (*models.Transaction, error) {
	var out wireTransaction
	ok, err := c.do(ctx, "complete transaction", pathCompleteTx, in, &out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return settledLocally(in), nil
	}
	return out.toModel()
}

// settledLocally derives the transaction state when the backend acknowledges
// completion without echoing the record: both flags set means Completed.
func settledLocally(in models.CompleteTransactionInput) *models.Transaction {
	status := models.TransactionPending
	if in.WasDelivered && in.WasPaid {
		status = models.TransactionCompleted
	}
	return &models.Transaction{ID: in.ID, WasDelivered: in.WasDelivered, WasPaid: in.WasPaid, Status: status}
}

func (c *HTTPClient) ListTransactionsBySeller(ctx context.Context, sellerID string) ([]models.Transaction, error) {
	var out []wireTransaction
	if _, err := c.do(ctx, "list seller transactions", pathTxBySeller, sellerID, &out); err != nil {
		return nil, err
	}
	result := make([]models.Transaction, 0, len(out))
	for _, w := range out {
		tx, err := w.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *tx)
	}
	return result, nil
}

var _ Client = (*HTTPClient)(nil)

// IsNotFound reports whether err is a gateway 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
