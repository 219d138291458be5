// Package models defines the marketplace entities the client caches and
// exchanges with the backend.
package models

// Account is the authenticated user as returned by login. Token and
// RefreshToken are rotated on every login.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Fullname     string `json:"fullname"`
	IsSeller     bool   `json:"isSeller"`
	IsBuyer      bool   `json:"isBuyer"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// SellerProfile is the business-facing profile of an Account that registered
// as a seller. At most one per Account.
type SellerProfile struct {
	ID           string  `json:"id,omitempty"`
	StoreName    string  `json:"storeName" validate:"required"`
	Description  string  `json:"description"`
	Street       string  `json:"street"`
	ExtNumber    string  `json:"extNumber"`
	IntNumber    string  `json:"intNumber,omitempty"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"cp"`
	AddressNotes string  `json:"addressNotes,omitempty"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	Rating       float64 `json:"rating"`
	IDUser       string  `json:"idUser"`
}

// CombinedUserData is the locally cached Account with its resolved
// SellerProfile, so screens need not resolve the profile again.
type CombinedUserData struct {
	Account
	SellerData *SellerProfile `json:"sellerData,omitempty"`
}

// Role is the lens the UI applies over one Account.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleBuyer     Role = "buyer"
	RoleSeller    Role = "seller"
)

// LoginResponse mirrors the backend login payload. NumError == 1 means success.
type LoginResponse struct {
	NumError     int     `json:"numError"`
	Token        string  `json:"token"`
	RefreshToken string  `json:"refreshToken"`
	User         Account `json:"user"`
}

// RegisterInput is the payload for creating a new Account.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	Fullname        string `json:"fullname" validate:"required,min=2"`
	Password        string `json:"password" validate:"required,min=8,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}
