package cartdto

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=128,printascii"`
}

// UpdateItemRequest is the body of PUT /api/v1/cart/items/{productId}.
// Quantity is a pointer so an explicit 0 (remove) is distinguishable from a
// missing field. The upper bound keeps NumItems well inside int range.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=100000"`
}
