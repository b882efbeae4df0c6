package models

type OrderItem struct {
	AnimalID string  `json:"animal_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	OrderDate   string      `json:"order_date"`
	ShipAddress string      `json:"ship_address"`
	Items       []OrderItem `json:"items"`
}

// Total sums the line items. Quantity is always 1 for live animals, but the
// computation keeps it in case that ever changes.
func (o Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
