package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Side string
type OrderType string
type OrderStatus string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

const (
	StatusPending         OrderStatus = "PENDING"
	StatusOpen            OrderStatus = "OPEN"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
	StatusUnknown         OrderStatus = "UNKNOWN"
)

// Order is the local view of an exchange order. ID is assigned by the
// exchange and is empty until the order has been acknowledged.
type Order struct {
	ID            string
	ClientOrderID string
	Symbol        string
	Side          Side
	Type          OrderType
	Quantity      decimal.Decimal
	ExecutedQty   decimal.Decimal
	LimitPrice    decimal.Decimal // zero for MARKET
	StopPrice     decimal.Decimal // set for STOP_LIMIT only
	AvgFillPrice  decimal.Decimal
	Status        OrderStatus
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// IsOpen reports whether the order can still trade or be canceled.
func (o *Order) IsOpen() bool {
	return !o.Status.IsTerminal()
}

// ParseSide normalizes operator input ("buy", "Sell", ...) to a canonical Side.
func ParseSide(s string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return SideBuy, true
	case "SELL":
		return SideSell, true
	default:
		return "", false
	}
}

// ParseOrderType normalizes operator input to a canonical OrderType.
func ParseOrderType(s string) (OrderType, bool) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "MARKET":
		return OrderTypeMarket, true
	case "LIMIT":
		return OrderTypeLimit, true
	case "STOP_LIMIT", "STOP":
		return OrderTypeStopLimit, true
	default:
		return "", false
	}
}

// ParseStatus maps a raw exchange status string to an OrderStatus.
// Unrecognized strings map to StatusUnknown instead of failing, so a new
// exchange status can never crash the client.
func ParseStatus(s string) OrderStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PENDING", "PENDING_NEW":
		return StatusPending
	case "NEW", "OPEN", "ACCEPTED":
		return StatusOpen
	case "PARTIALLY_FILLED":
		return StatusPartiallyFilled
	case "FILLED":
		return StatusFilled
	case "CANCELED", "CANCELLED", "PENDING_CANCEL":
		return StatusCanceled
	case "REJECTED":
		return StatusRejected
	case "EXPIRED", "EXPIRED_IN_MATCH":
		return StatusExpired
	default:
		return StatusUnknown
	}
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusCanceled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// transitions lists the allowed forward edges of the order state machine.
// Pending is the pre-acknowledgment state: the first authoritative
// observation may land on any later status directly, including a cancel or
// fill that raced the acknowledgment.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:         {StatusOpen, StatusPartiallyFilled, StatusFilled, StatusCanceled, StatusRejected, StatusExpired},
	StatusOpen:            {StatusPartiallyFilled, StatusFilled, StatusCanceled, StatusExpired},
	StatusPartiallyFilled: {StatusFilled, StatusCanceled},
}

// CanTransition reports whether an order may move from one status to another.
// Self-transitions are allowed (a refresh that observes no change is a no-op).
// StatusUnknown acts as non-terminal glue: a non-terminal order may move into
// it when the exchange reports something unrecognized, and out of it once the
// exchange reports something sane again. Terminal states are absorbing.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if from == StatusUnknown || to == StatusUnknown {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
