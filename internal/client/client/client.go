package client

import (
	"context"

	"github.com/chepeat/chepeat/internal/client/models"
)

// Client is the Backend Gateway contract. Authenticated calls read the
// bearer token attached with WithAccessToken.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, in models.RegisterInput) error
	Logout(ctx context.Context, refreshToken string) error

	RegisterSeller(ctx context.Context, profile models.SellerProfile) (*models.SellerProfile, error)
	GetSellerByUserID(ctx context.Context, userID string) (*models.SellerProfile, error)
	GetSellerByID(ctx context.Context, sellerID string) (*models.SellerProfile, error)

	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	ListProductsBySeller(ctx context.Context, sellerID string) ([]models.Product, error)
	ListProductsByRadius(ctx context.Context, q models.RadiusQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreatePurchaseRequest(ctx context.Context, in models.CreateRequestInput) (*models.PurchaseRequest, error)
	GetPurchaseRequest(ctx context.Context, id string) (*models.PurchaseRequest, error)
	RejectPurchaseRequest(ctx context.Context, id string) error

	AddTransaction(ctx context.Context, idPurchaseRequest string) (*models.Transaction, error)
	CompleteTransaction(ctx context.Context, in models.CompleteTransactionInput) (*models.Transaction, error)
	ListTransactionsBySeller(ctx context.Context, sellerID string) ([]models.Transaction, error)
}

type accessTokenKey struct{}

// WithAccessToken returns a context carrying the bearer token for outbound calls.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFrom returns the token attached with WithAccessToken, or "".
func AccessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}
