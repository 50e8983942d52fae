package domain

import "time"

// OrderEventKind clasifica los eventos del log de actividad.
type OrderEventKind string

const (
	EventOrderSubmitted OrderEventKind = "SUBMITTED"
	EventOrderCancelled OrderEventKind = "CANCELLED"
	EventNativeWrapped  OrderEventKind = "WRAPPED"
)

// OrderEvent es una entrada del log de actividad de órdenes.
type OrderEvent struct {
	ID        int64
	Kind      OrderEventKind
	OrderHash string
	TxHash    string
	Detail    string
	CreatedAt time.Time
}
