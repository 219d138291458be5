package services

import (
	"context"
	"testing"

	"github.com/chepeat/chepeat/internal/client/client"
	"github.com/chepeat/chepeat/internal/client/models"
	"github.com/chepeat/chepeat/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := signIn(t, f.session, models.Account{ID: "U1", IsSeller: true})
	f.client.addSeller(sellerS1)

	created, err := f.products.Create(ctx, models.Product{Name: "Gorditas", Price: 15, Stock: 20, Measure: "pieza"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "S1", created.IDSeller)

	mine, err := f.products.ListMine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	got, err := f.products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gorditas", got.Name)

	got.Price = 18
	updated, err := f.products.Update(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, 18.0, updated.Price)

	require.NoError(t, f.products.Delete(ctx, created.ID))
	_, err = f.products.Get(ctx, created.ID)
	require.ErrorIs(t, err, client.ErrNotFound)

	for _, tok := range f.client.Tokens {
		assert.Equal(t, token, tok)
	}
	// The seller profile was resolved once and then served from cache.
	assert.Equal(t, 1, f.client.calls("GetSellerByUserID"))
}

func TestProductService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	signIn(t, f.session, models.Account{ID: "U1"})

	_, err := f.products.Create(ctx, models.Product{Price: 10})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = f.products.Create(ctx, models.Product{Name: "x", Price: -1})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = f.products.Update(ctx, models.Product{Name: "x"})
	require.ErrorIs(t, err, common.ErrValidation)

	err = f.products.Delete(ctx, "")
	require.ErrorIs(t, err, common.ErrValidation)

	assert.Zero(t, f.client.totalCalls())
}

func TestProductService_CreateRequiresSellerProfile(t *testing.T) {
	f := newFixture(t)
	signIn(t, f.session, models.Account{ID: "U1"})

	_, err := f.products.Create(context.Background(), models.Product{Name: "Gorditas"})
	require.ErrorIs(t, err, common.ErrProfileNotFound)
	assert.Zero(t, f.client.calls("CreateProduct"))
}
