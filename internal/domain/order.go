package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxOrderLogLimit is the largest number of orders a single listing returns,
// whether asked for explicitly or taken from the configured default.
const MaxOrderLogLimit = 1000

// OrderSide indicates the direction of a simulated order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Sign returns +1 for BUY and -1 for SELL.
func (s OrderSide) Sign() int64 {
	if s == OrderSideSell {
		return -1
	}
	return 1
}

// OrderStatus is the terminal state of a submitted order. Orders are pending
// only while SubmitOrder runs, so pending is never stored.
type OrderStatus string

const (
	OrderStatusExecuted OrderStatus = "EXECUTED"
	OrderStatusRejected OrderStatus = "REJECTED"
)

// RejectCode identifies which limit rejected an order.
type RejectCode string

const (
	RejectNone                  RejectCode = ""
	RejectCustomerLimitExceeded RejectCode = "CUSTOMER_LIMIT_EXCEEDED"
	RejectPBCreditLineExceeded  RejectCode = "PB_CREDIT_LINE_EXCEEDED"
)

// Order is an entry in the append-only simulation log. It is never
// modified after SubmitOrder returns it.
type Order struct {
	TradeID      int64
	CustomerID   string
	PBID         string
	SessionID    string
	Instrument   string
	Side         OrderSide
	Notional     decimal.Decimal
	Status       OrderStatus
	RejectCode   RejectCode
	RejectReason string
	CreatedAt    time.Time
}

// Delta returns the signed change this order applies to its position.
func (o *Order) Delta() decimal.Decimal {
	return o.Notional.Mul(decimal.NewFromInt(o.Side.Sign()))
}

// Position is the running signed net notional of executed orders for one
// (customer, prime broker) pair.
type Position struct {
	CustomerID string
	PBID       string
	Net        decimal.Decimal
}

// Exposure is the absolute value of the net position.
func (p Position) Exposure() decimal.Decimal {
	return p.Net.Abs()
}
