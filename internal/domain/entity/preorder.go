package entity

import "time"

// Estados de preorden.
const (
	PreorderPending   = "pending"
	PreorderConfirmed = "confirmed"
	PreorderFulfilled = "fulfilled"
	PreorderCancelled = "cancelled"
)

// Preorder pedido anticipado de un producto sin stock.
type Preorder struct {
	ID           string
	StoreID      string
	ProductID    string
	ProductName  string
	CustomerName string
	Phone        string
	Quantity     int
	PickupPoint  string
	ExpectedAt   *time.Time
	Status       string
	Comment      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// preorderTransitions transiciones permitidas desde cada estado.
var preorderTransitions = map[string][]string{
	PreorderPending:   {PreorderConfirmed, PreorderCancelled},
	PreorderConfirmed: {PreorderFulfilled, PreorderCancelled},
}

// CanTransition informa si la preorden puede pasar al estado to.
func (p *Preorder) CanTransition(to string) bool {
	for _, s := range preorderTransitions[p.Status] {
		if s == to {
			return true
		}
	}
	return false
}
