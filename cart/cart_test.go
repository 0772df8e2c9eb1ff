package cart

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapA() ProductSnapshot {
	return ProductSnapshot{ID: "A", Name: "Soldering Iron", Price: 10, Image: "/uploads/products/iron.png"}
}

func snapB() ProductSnapshot {
	return ProductSnapshot{ID: "B", Name: "Multimeter", Price: 24.5, Image: "/uploads/products/multimeter.png"}
}

func TestAddItemAccumulatesQuantityForSameID(t *testing.T) {
	s := NewStore(nil, nil)

	s.AddItem(snapA(), 1)
	s.AddItem(snapA(), 2)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, s.TotalItemCount())
	assert.Equal(t, 30.0, s.TotalPrice())
}

func TestAddItemNormalizesQuantityBelowOne(t *testing.T) {
	s := NewStore(nil, nil)

	s.AddItem(snapA(), 0)
	require.Equal(t, 1, s.Items()[0].Quantity)

	s.RemoveItem("A")
	s.AddItem(snapA(), -5)
	require.Equal(t, 1, s.Items()[0].Quantity)
}

func TestTotalPriceIndependentOfAddOrder(t *testing.T) {
	first := NewStore(nil, nil)
	first.AddItem(snapA(), 2)
	first.AddItem(snapB(), 1)

	second := NewStore(nil, nil)
	second.AddItem(snapB(), 1)
	second.AddItem(snapA(), 2)

	assert.Equal(t, first.TotalPrice(), second.TotalPrice())
	assert.Equal(t, 44.5, first.TotalPrice())
}

func TestRemoveItemUnknownIDIsNoop(t *testing.T) {
	s := NewStore(nil, nil)
	s.AddItem(snapA(), 2)
	before := s.Items()

	s.RemoveItem("missing")

	assert.Equal(t, before, s.Items())
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	s := NewStore(nil, nil)
	s.AddItem(snapA(), 3)

	s.UpdateQuantity("A", -100)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	// Decrementing a line already at 1 keeps it in the cart
	s.UpdateQuantity("A", -1)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	s := NewStore(nil, nil)
	s.AddItem(snapA(), 2)
	before := s.Items()

	s.UpdateQuantity("missing", 5)

	assert.Equal(t, before, s.Items())
}

func TestClearEmptiesEverything(t *testing.T) {
	s := NewStore(nil, nil)
	s.AddItem(snapA(), 4)
	s.AddItem(snapB(), 2)

	s.Clear()

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItemCount())
	assert.Equal(t, 0.0, s.TotalPrice())
}

func TestSubscribersNotifiedOnEveryMutation(t *testing.T) {
	s := NewStore(nil, nil)

	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		got = append(got, snap)
	})

	s.AddItem(snapA(), 2)
	s.UpdateQuantity("A", 1)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[1].TotalItemCount)
	assert.Equal(t, 30.0, got[1].TotalPrice)

	unsubscribe()
	s.Clear()
	assert.Len(t, got, 2)
}

func TestSubscriberMayCallBackIntoStore(t *testing.T) {
	s := NewStore(nil, nil)

	var counts []int
	var unsubscribe func()
	unsubscribe = s.Subscribe(func(Snapshot) {
		counts = append(counts, s.TotalItemCount())
		if len(counts) == 2 {
			unsubscribe()
		}
	})

	// Re-entrant reads and unsubscribing from inside the callback must
	// not deadlock.
	s.AddItem(snapA(), 1)
	s.AddItem(snapA(), 1)
	s.AddItem(snapA(), 1)

	assert.Equal(t, []int{1, 2}, counts)
}

type failingStorage struct{}

func (failingStorage) Load() ([]LineItem, error) { return nil, errors.New("storage disabled") }
func (failingStorage) Save([]LineItem) error     { return errors.New("quota exceeded") }

func TestStorageFaultDegradesToMemoryOnly(t *testing.T) {
	s := NewStore(failingStorage{}, nil)

	// Neither the failed load nor the failed saves reach the caller
	s.AddItem(snapA(), 2)
	s.UpdateQuantity("A", 1)

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 3, s.TotalItemCount())
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts", "session.json")

	s := NewStore(NewFileStorage(path), nil)
	s.AddItem(snapA(), 2)
	s.AddItem(snapB(), 1)

	rehydrated := NewStore(NewFileStorage(path), nil)
	assert.Equal(t, s.Items(), rehydrated.Items())
	assert.Equal(t, 3, rehydrated.TotalItemCount())
}

func TestFileStorageMissingFileIsEmptyCart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nothing-here.json")

	items, err := NewFileStorage(path).Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}
