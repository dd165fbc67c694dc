package cartdto

// CartView is the cart as rendered to API clients.
type CartView struct {
	Lines         []CartLine `json:"lines"`
	CheckoutState string     `json:"checkout_state"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	NumItems      int        `json:"num_items"`
	TotalPrice    string     `json:"total_price"`
	ItemsVersion  uint64     `json:"items_version"`
}

type CartLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// ProductView is a catalog entry as listed to API clients.
type ProductView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
}
