package cart

// Pure transitions over the line-item list. The Store applies these
// under its lock, then persists and notifies; keeping them free of side
// effects lets the invariants be tested without a storage in play.

// addItem inserts snap with the given quantity, or increments the
// existing line with the same id. Quantities below 1 normalize to 1.
func addItem(items []LineItem, snap ProductSnapshot, quantity int) []LineItem {
	if quantity < 1 {
		quantity = 1
	}
	out := copyItems(items)
	for i := range out {
		if out[i].ID == snap.ID {
			out[i].Quantity += quantity
			return out
		}
	}
	return append(out, LineItem{
		ID:       snap.ID,
		Name:     snap.Name,
		Price:    snap.Price,
		Image:    snap.Image,
		Quantity: quantity,
	})
}

// removeItem drops the line with the given id, if present.
func removeItem(items []LineItem, id string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// updateQuantity applies delta to the matching line's quantity.
// The result floors at 1: decrementing a line already at quantity 1
// leaves it in the cart (removal is its own operation). Unknown ids
// leave the list unchanged.
func updateQuantity(items []LineItem, id string, delta int) []LineItem {
	out := copyItems(items)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity += delta
			if out[i].Quantity < 1 {
				out[i].Quantity = 1
			}
			return out
		}
	}
	return out
}

func totalItemCount(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalPrice(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
