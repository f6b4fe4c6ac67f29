package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
)

const testUser int64 = 42

func newCartFixture(t *testing.T) (*CartService, *fakeProductRepo, *fakeCartRepo, *memPendingStore) {
	t.Helper()

	products := newFakeProductRepo(
		&entity.Product{ID: 1, Name: "Product A", Price: dec("5"), Stock: dec("100"), IsActive: true},
		&entity.Product{ID: 2, Name: "Product B", Price: dec("3"), Stock: dec("100"), IsActive: true},
		&entity.Product{ID: 3, Name: "Bulk Pack", Price: dec("15"), Stock: dec("500"), IsActive: true, MinOrderQty: dec("100")},
		&entity.Product{ID: 4, Name: "Retired", Price: dec("9"), Stock: dec("10"), IsActive: false},
	)
	variants := map[int][]entity.Variant{
		1: {
			{ID: "1_classic", ProductID: 1, Name: "Classic", Price: dec("20")},
			{ID: "1_reserve", ProductID: 1, Name: "Reserve", Price: dec("22"), MinQuantity: dec("10")},
		},
	}
	carts := newFakeCartRepo()
	pending := newMemPendingStore()
	return NewCartService(products, carts, variants, pending), products, carts, pending
}

func TestAddItemKeepsTotalConsistent(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	cart, msg, err := svc.AddItem(ctx, testUser, 1, "", dec("2"))
	require.NoError(t, err)
	assert.Contains(t, msg, "Product A")
	assert.Contains(t, msg, "2")
	require.True(t, cart.Total().Equal(dec("10")))

	cart, _, err = svc.AddItem(ctx, testUser, 2, "", dec("3"))
	require.NoError(t, err)

	// total == sum of line totals after every mutation
	expected := dec("0")
	for _, l := range cart.Lines {
		expected = expected.Add(l.UnitPrice.Mul(l.Quantity))
	}
	assert.True(t, cart.Total().Equal(expected))
	assert.True(t, cart.Total().Equal(dec("19")))
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	for _, q := range []string{"0", "-1", "-0.5"} {
		_, _, err := svc.AddItem(ctx, testUser, 1, "", dec(q))
		assert.ErrorIs(t, err, apperr.ErrInvalidQuantity, "quantity %s", q)
	}

	// nothing was written: the user still has no cart at all
	cart, err := svc.View(ctx, testUser)
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestAddItemEnforcesMinimumQuantity(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, _, err := svc.AddItem(ctx, testUser, 3, "", dec("99"))
	assert.ErrorIs(t, err, apperr.ErrBelowMinimumQuantity)

	_, _, err = svc.AddItem(ctx, testUser, 3, "", dec("100"))
	assert.NoError(t, err)
}

func TestAddItemVariantMinimumOverrides(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, _, err := svc.AddItem(ctx, testUser, 1, "1_reserve", dec("5"))
	assert.ErrorIs(t, err, apperr.ErrBelowMinimumQuantity)

	cart, _, err := svc.AddItem(ctx, testUser, 1, "1_reserve", dec("10"))
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Product A Reserve", cart.Lines[0].Name)
	assert.True(t, cart.Lines[0].UnitPrice.Equal(dec("22")))
}

func TestAddItemMergesAndKeepsPriceSnapshot(t *testing.T) {
	svc, products, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, _, err := svc.AddItem(ctx, testUser, 1, "", dec("2"))
	require.NoError(t, err)

	// a price change between adds must not touch the existing snapshot
	products.mu.Lock()
	products.products[1].Price = dec("8")
	products.mu.Unlock()

	cart, _, err := svc.AddItem(ctx, testUser, 1, "", dec("3"))
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.True(t, cart.Lines[0].Quantity.Equal(dec("5")))
	assert.True(t, cart.Lines[0].UnitPrice.Equal(dec("5")))
	assert.True(t, cart.Total().Equal(dec("25")))
}

func TestAddItemStockCeiling(t *testing.T) {
	svc, products, _, _ := newCartFixture(t)
	ctx := context.Background()

	products.mu.Lock()
	products.products[1].Stock = dec("6")
	products.mu.Unlock()

	_, _, err := svc.AddItem(ctx, testUser, 1, "", dec("4"))
	require.NoError(t, err)

	// 4 already in the cart, 3 more would exceed the 6 in stock
	_, _, err = svc.AddItem(ctx, testUser, 1, "", dec("3"))
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
}

func TestAddItemUnknownOrInactiveProduct(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, _, err := svc.AddItem(ctx, testUser, 999, "", dec("1"))
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)

	_, _, err = svc.AddItem(ctx, testUser, 4, "", dec("1"))
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)

	_, _, err = svc.AddItem(ctx, testUser, 1, "1_nope", dec("1"))
	assert.ErrorIs(t, err, apperr.ErrVariantNotFound)
}

func TestViewDistinguishesNoCartFromEmpty(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	cart, err := svc.View(ctx, testUser)
	require.NoError(t, err)
	assert.Nil(t, cart, "user never had a cart")

	_, _, err = svc.AddItem(ctx, testUser, 1, "", dec("1"))
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, testUser))

	cart, err = svc.View(ctx, testUser)
	require.NoError(t, err)
	require.NotNil(t, cart, "cart identity persists after clearing")
	assert.True(t, cart.IsEmpty())
}

func TestClearIsIdempotent(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Clear(ctx, testUser))
	require.NoError(t, svc.Clear(ctx, testUser))

	_, _, err := svc.AddItem(ctx, testUser, 1, "", dec("2"))
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, testUser))

	cart, err := svc.View(ctx, testUser)
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.True(t, cart.Total().Equal(dec("0")))
}

func TestCustomQuantityFlow(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	prompt, err := svc.RequestCustomQuantity(ctx, testUser, 1, "")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)

	ok, err := svc.HasPendingQuantity(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, ok)

	cart, msg, err := svc.SubmitQuantityText(ctx, testUser, "7")
	require.NoError(t, err)
	assert.Contains(t, msg, "Product A")
	require.Len(t, cart.Lines, 1)
	assert.True(t, cart.Lines[0].Quantity.Equal(dec("7")))

	// the pending state was consumed
	_, _, err = svc.SubmitQuantityText(ctx, testUser, "3")
	assert.ErrorIs(t, err, apperr.ErrAwaitingNothing)
}

func TestCustomQuantityRejectsBadInputAndReprompts(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCustomQuantity(ctx, testUser, 1, "")
	require.NoError(t, err)

	for _, text := range []string{"abc", "", "-2", "0"} {
		_, _, err = svc.SubmitQuantityText(ctx, testUser, text)
		assert.ErrorIs(t, err, apperr.ErrInvalidQuantity, "input %q", text)
	}

	// bad input keeps the pending state alive; a valid retry still lands
	cart, _, err := svc.SubmitQuantityText(ctx, testUser, "2.5")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.True(t, cart.Lines[0].Quantity.Equal(dec("2.5")))
}

func TestCustomQuantityReplacesPendingTarget(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCustomQuantity(ctx, testUser, 1, "")
	require.NoError(t, err)

	// selecting a new target silently replaces the previous one
	_, err = svc.RequestCustomQuantity(ctx, testUser, 2, "")
	require.NoError(t, err)

	cart, _, err := svc.SubmitQuantityText(ctx, testUser, "4")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].ProductID)
}

func TestCancelPendingQuantity(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCustomQuantity(ctx, testUser, 1, "")
	require.NoError(t, err)
	require.NoError(t, svc.CancelPending(ctx, testUser))

	ok, err := svc.HasPendingQuantity(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.SubmitQuantityText(ctx, testUser, "5")
	assert.ErrorIs(t, err, apperr.ErrAwaitingNothing)

	// cancelling with nothing pending is fine
	assert.NoError(t, svc.CancelPending(ctx, testUser))
}

func TestRequestCustomQuantityUnknownProduct(t *testing.T) {
	svc, _, _, _ := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.RequestCustomQuantity(ctx, testUser, 999, "")
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)

	ok, err := svc.HasPendingQuantity(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, ok)
}
