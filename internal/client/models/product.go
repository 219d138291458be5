package models

import "strings"

// Product is owned by exactly one SellerProfile.
type Product struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Measure     string  `json:"measure"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	IDSeller    string  `json:"idSeller"`
}

// ProductWithSeller is a discovered product enriched with its seller profile.
type ProductWithSeller struct {
	Product
	SellerData *SellerProfile `json:"sellerData"`
}

// DiscoveryFailure records a product whose seller could not be resolved.
type DiscoveryFailure struct {
	Product Product `json:"product"`
	Err     error   `json:"-"`
}

// DiscoveryResult is the partial-success outcome of a nearby search.
type DiscoveryResult struct {
	Succeeded []ProductWithSeller
	Failed    []DiscoveryFailure
}

// RadiusQuery is the body of the list-by-radius call.
type RadiusQuery struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radiusKm"`
}

// NormalizeName trims, removes all whitespace and lower-cases s. Cached
// products are looked up by this form.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
