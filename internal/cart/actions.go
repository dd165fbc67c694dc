package cart

// Action types as they appear in logs and metrics.
const (
	ActionAddToCart         = "cart/addToCart"
	ActionRemoveFromCart    = "cart/removeFromCart"
	ActionUpdateQuantity    = "cart/updateQuantity"
	ActionCheckoutPending   = "cart/checkout/pending"
	ActionCheckoutFulfilled = "cart/checkout/fulfilled"
	ActionCheckoutRejected  = "cart/checkout/rejected"
)

// Action is a state change request applied by Reduce.
type Action interface {
	Type() string
}

type AddToCart struct {
	ProductID string
}

func (AddToCart) Type() string { return ActionAddToCart }

type RemoveFromCart struct {
	ProductID string
}

func (RemoveFromCart) Type() string { return ActionRemoveFromCart }

// UpdateQuantity sets an absolute quantity; zero or below removes the line.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

func (UpdateQuantity) Type() string { return ActionUpdateQuantity }

// CheckoutPending marks the start of a checkout.
type CheckoutPending struct{}

func (CheckoutPending) Type() string { return ActionCheckoutPending }

// CheckoutFulfilled carries the transport's completion signal.
type CheckoutFulfilled struct {
	Success bool
}

func (CheckoutFulfilled) Type() string { return ActionCheckoutFulfilled }

// CheckoutRejected carries the failure detail of a checkout that errored.
type CheckoutRejected struct {
	Message string
}

func (CheckoutRejected) Type() string { return ActionCheckoutRejected }
