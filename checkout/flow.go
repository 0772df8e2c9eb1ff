// Package checkout gates order submission on a non-empty cart and a
// selected payment method, then performs the terminal clear.
package checkout

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DJPaties/electrosaida-api/cart"
)

// PaymentMethod is an opaque tag. The set of accepted methods is
// configuration handed to NewFlow, not logic.
type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "cod"
	WhishMoney     PaymentMethod = "whish"
)

// State is the flow's position in the checkout lifecycle. EmptyCart is
// derived from the cart on every read rather than stored.
type State int

const (
	StateIdle State = iota
	StateEmptyCart
	StateMethodSelected
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEmptyCart:
		return "empty_cart"
	case StateMethodSelected:
		return "method_selected"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoPaymentMethod      = errors.New("no payment method selected")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrAlreadySubmitted     = errors.New("order already submitted")
)

// Confirmation is the terminal result of a successful submit: the order
// reference plus the cart contents captured before the clear.
type Confirmation struct {
	OrderRef   string          `json:"order_ref"`
	Method     PaymentMethod   `json:"payment_method"`
	Items      []cart.LineItem `json:"items"`
	TotalPrice float64         `json:"total_price"`
	PlacedAt   time.Time       `json:"placed_at"`
}

// Flow drives one order through Idle -> MethodSelected -> Submitted.
// A submitted flow is terminal; the next order is a new Flow over the
// same cart.
type Flow struct {
	mu        sync.Mutex
	cart      *cart.Store
	methods   []PaymentMethod
	place     func(Confirmation) error
	selected  PaymentMethod
	submitted bool
}

// NewFlow builds a flow over the given cart. methods is the configured
// set of accepted payment methods. place, if non-nil, runs at submit
// time before the cart is cleared; when it errors the submission is
// rejected without any state change, so it can be retried.
func NewFlow(c *cart.Store, methods []PaymentMethod, place func(Confirmation) error) *Flow {
	return &Flow{cart: c, methods: methods, place: place}
}

// Methods returns the configured payment-method set.
func (f *Flow) Methods() []PaymentMethod {
	out := make([]PaymentMethod, len(f.methods))
	copy(out, f.methods)
	return out
}

// SelectMethod records the shopper's payment choice. Re-selecting a
// different method overwrites the previous one.
func (f *Flow) SelectMethod(m PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitted {
		return ErrAlreadySubmitted
	}
	for _, allowed := range f.methods {
		if m == allowed {
			f.selected = m
			return nil
		}
	}
	return ErrUnknownPaymentMethod
}

// Selected returns the chosen method, if any.
func (f *Flow) Selected() (PaymentMethod, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected, f.selected != ""
}

// State reports the current lifecycle position.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitted {
		return StateSubmitted
	}
	if f.cart.TotalItemCount() == 0 {
		return StateEmptyCart
	}
	if f.selected != "" {
		return StateMethodSelected
	}
	return StateIdle
}

// Submit checks both preconditions at submit time: the cart must be
// non-empty and a payment method must be selected. A violated
// precondition returns its distinct error and changes nothing, so a
// rejected submit can simply be repeated after the shopper fixes the
// cause. On success the cart is cleared and the flow becomes terminal.
func (f *Flow) Submit() (Confirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitted {
		return Confirmation{}, ErrAlreadySubmitted
	}
	items := f.cart.Items()
	if len(items) == 0 {
		return Confirmation{}, ErrEmptyCart
	}
	if f.selected == "" {
		return Confirmation{}, ErrNoPaymentMethod
	}

	// Derived from the captured items so the confirmation stays
	// consistent even if the cart moves under concurrent mutation.
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}

	conf := Confirmation{
		OrderRef:   newOrderRef(),
		Method:     f.selected,
		Items:      items,
		TotalPrice: total,
		PlacedAt:   time.Now(),
	}
	if f.place != nil {
		if err := f.place(conf); err != nil {
			return Confirmation{}, err
		}
	}
	f.cart.Clear()
	f.submitted = true
	return conf, nil
}

// ParseMethods turns a comma-separated config value ("cod,whish") into
// a payment-method set.
func ParseMethods(s string) []PaymentMethod {
	var methods []PaymentMethod
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			methods = append(methods, PaymentMethod(tok))
		}
	}
	return methods
}

// newOrderRef generates a unique order reference.
// Example: 20250908130500-<uuid4>
func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
