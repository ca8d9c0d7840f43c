package model

// Side is the direction of an order.
type Side string

const (
	SideSell Side = "SELL"
	SideBuy  Side = "BUY"
)

// OrderIntent is an instruction produced by reconciling holdings against the target book.
type OrderIntent struct {
	Symbol   string
	Name     string
	Quantity float64
	Side     Side
}

// OrderStatus reports whether the brokerage accepted an order.
type OrderStatus string

const (
	OrderSuccess OrderStatus = "SUCCESS"
	OrderFailure OrderStatus = "FAILURE"
	OrderSkipped OrderStatus = "SKIPPED"
)

// OrderResult is the outcome of submitting one intent.
type OrderResult struct {
	Intent  OrderIntent
	Shares  int64
	Status  OrderStatus
	Message string
}
