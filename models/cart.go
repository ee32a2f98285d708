package models

// CartItem is one cart line. Two lines are the same iff both ProductID and
// FabricCode match. Price and Image are snapshots resolved at add time; later
// edits to the product do not touch lines already in the cart.
type CartItem struct {
	ProductID  string  `json:"product_id"`
	FabricCode string  `json:"fabric_code"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Image      string  `json:"image"`
}

// LineTotal is the snapshotted price times quantity.
func (ci CartItem) LineTotal() float64 {
	return ci.Price * float64(ci.Quantity)
}
