package checkout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJPaties/electrosaida-api/cart"
)

var testMethods = []PaymentMethod{CashOnDelivery, WhishMoney}

func storeWithItem(t *testing.T) *cart.Store {
	t.Helper()
	s := cart.NewStore(nil, nil)
	s.AddItem(cart.ProductSnapshot{ID: "A", Name: "Soldering Iron", Price: 10}, 1)
	return s
}

func TestSelectMethodRejectsUnknown(t *testing.T) {
	f := NewFlow(storeWithItem(t), testMethods, nil)

	err := f.SelectMethod("paypal")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)

	_, selected := f.Selected()
	assert.False(t, selected)
}

func TestSelectMethodOverwritesFreely(t *testing.T) {
	f := NewFlow(storeWithItem(t), testMethods, nil)

	require.NoError(t, f.SelectMethod(CashOnDelivery))
	require.NoError(t, f.SelectMethod(WhishMoney))

	m, ok := f.Selected()
	require.True(t, ok)
	assert.Equal(t, WhishMoney, m)
	assert.Equal(t, StateMethodSelected, f.State())
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	s := cart.NewStore(nil, nil)
	f := NewFlow(s, testMethods, nil)
	assert.Equal(t, StateEmptyCart, f.State())

	_, err := f.Submit()
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Idempotent no-op: the cart stays empty and the flow is unchanged
	assert.Empty(t, s.Items())
	assert.Equal(t, StateEmptyCart, f.State())
}

func TestSubmitWithoutMethodRejected(t *testing.T) {
	s := storeWithItem(t)
	f := NewFlow(s, testMethods, nil)

	_, err := f.Submit()
	assert.ErrorIs(t, err, ErrNoPaymentMethod)

	// The cart is not cleared on rejection
	assert.Equal(t, 1, s.TotalItemCount())
	assert.Equal(t, StateIdle, f.State())
}

func TestSubmitClearsCartAndTerminates(t *testing.T) {
	s := storeWithItem(t)
	f := NewFlow(s, testMethods, nil)
	require.NoError(t, f.SelectMethod(CashOnDelivery))

	conf, err := f.Submit()
	require.NoError(t, err)
	assert.NotEmpty(t, conf.OrderRef)
	assert.Equal(t, CashOnDelivery, conf.Method)
	assert.Equal(t, 10.0, conf.TotalPrice)
	require.Len(t, conf.Items, 1)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItemCount())
	assert.Equal(t, StateSubmitted, f.State())

	// Terminal: no further transitions on this flow
	_, err = f.Submit()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.ErrorIs(t, f.SelectMethod(WhishMoney), ErrAlreadySubmitted)
}

func TestConfirmationTotalMatchesItems(t *testing.T) {
	s := cart.NewStore(nil, nil)
	s.AddItem(cart.ProductSnapshot{ID: "A", Name: "Soldering Iron", Price: 10}, 2)
	s.AddItem(cart.ProductSnapshot{ID: "B", Name: "Digital Multimeter", Price: 24.5}, 1)

	f := NewFlow(s, testMethods, nil)
	require.NoError(t, f.SelectMethod(CashOnDelivery))

	conf, err := f.Submit()
	require.NoError(t, err)

	// The total is derived from the confirmation's own line items, not
	// re-read from the cart.
	var want float64
	for _, it := range conf.Items {
		want += it.Price * float64(it.Quantity)
	}
	assert.Equal(t, want, conf.TotalPrice)
	assert.Equal(t, 44.5, conf.TotalPrice)
}

func TestSubmitPlaceFailureKeepsState(t *testing.T) {
	s := storeWithItem(t)

	fail := errors.New("insufficient stock for product: Soldering Iron")
	calls := 0
	f := NewFlow(s, testMethods, func(Confirmation) error {
		calls++
		if calls == 1 {
			return fail
		}
		return nil
	})
	require.NoError(t, f.SelectMethod(WhishMoney))

	_, err := f.Submit()
	assert.ErrorIs(t, err, fail)

	// Nothing changed: cart intact, method still selected, retry allowed
	assert.Equal(t, 1, s.TotalItemCount())
	assert.Equal(t, StateMethodSelected, f.State())

	_, err = f.Submit()
	require.NoError(t, err)
	assert.Empty(t, s.Items())
}

func TestCheckoutEndToEnd(t *testing.T) {
	s := cart.NewStore(nil, nil)
	f := NewFlow(s, testMethods, nil)

	s.AddItem(cart.ProductSnapshot{ID: "A", Price: 10}, 1)
	s.AddItem(cart.ProductSnapshot{ID: "A", Price: 10}, 2)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 30.0, s.TotalPrice())

	s.UpdateQuantity("A", -5)
	require.Equal(t, 1, s.Items()[0].Quantity)

	require.NoError(t, f.SelectMethod(CashOnDelivery))
	_, err := f.Submit()
	require.NoError(t, err)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItemCount())
}

func TestParseMethods(t *testing.T) {
	assert.Equal(t, []PaymentMethod{CashOnDelivery, WhishMoney}, ParseMethods("cod, whish"))
	assert.Equal(t, []PaymentMethod{CashOnDelivery}, ParseMethods("cod,"))
	assert.Nil(t, ParseMethods(""))
}
