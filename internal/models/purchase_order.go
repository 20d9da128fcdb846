package models

import "time"

// PurchaseOrder is drawn against the signed contract for its item.
type PurchaseOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Number     string    `gorm:"size:100;not null;index" json:"number"`
	AcceptedOn time.Time `json:"accepted_on"`
	Vendor     string    `gorm:"size:255" json:"vendor,omitempty"`
	Item       string    `gorm:"size:255;not null;index" json:"item"`

	OrderedQty  int64 `gorm:"not null" json:"ordered_qty"`
	ReceivedQty int64 `gorm:"not null;default:0" json:"received_qty"`
	// PendingQty is derived from the two quantities above; it is persisted
	// for aggregation only and rewritten on every change.
	PendingQty int64 `gorm:"not null" json:"pending_qty"`

	Status           OrderStatus      `gorm:"size:30;not null;index" json:"status"`
	CollectionStatus CollectionStatus `gorm:"size:30;not null;default:'NONE'" json:"collection_status"`
}

// MaxQuantity bounds every operator-entered quantity so sums over an item
// stay far from int64 overflow.
const MaxQuantity int64 = 1_000_000_000_000

// Recompute sets PendingQty from the ordered and received quantities.
// Callers keep ReceivedQty within [0, OrderedQty].
func (o *PurchaseOrder) Recompute() {
	o.PendingQty = o.OrderedQty - o.ReceivedQty
}

// CountsAsPending reports whether the order's pending quantity is still
// drawn against the contract balance.
func (o *PurchaseOrder) CountsAsPending() bool {
	return o.Status != OrderReceived
}

// CanReceive reports whether receipts may be registered for the order.
func (o *PurchaseOrder) CanReceive() bool {
	switch o.Status {
	case OrderInTransit, OrderPartiallyReceived, OrderReceived:
		return true
	}
	return false
}

// Resize changes the ordered quantity, keeping what was already received.
func (o *PurchaseOrder) Resize(qty int64) error {
	if qty <= 0 {
		return ErrNonPositiveQty
	}
	if qty < o.ReceivedQty {
		return ErrBelowReceived
	}
	o.OrderedQty = qty
	o.Recompute()
	return nil
}

// ApplyReceipt registers increment units in the given collection stage.
//
// Inspection and available-in-system clamp the cumulative quantity to the
// ordered quantity and force the AVAILABLE_IN_SYSTEM order status. Counting
// and warehousing reject an overshoot and derive RECEIVED or
// PARTIALLY_RECEIVED from what is left pending. The order is untouched when
// an error is returned.
func (o *PurchaseOrder) ApplyReceipt(increment int64, stage CollectionStatus) error {
	if !o.CanReceive() {
		return ErrReceiptNotAllowed
	}
	if increment <= 0 {
		return ErrNonPositiveQty
	}
	if !stage.Valid() || stage == CollectionNone {
		return ErrNoCollectionStage
	}

	headroom := o.OrderedQty - o.ReceivedQty
	var status OrderStatus
	if stage.Clamps() {
		increment = min(increment, headroom)
		status = OrderAvailable
	} else {
		if increment > headroom {
			return ErrReceiptOvershoot
		}
		status = OrderPartiallyReceived
		if increment == headroom {
			status = OrderReceived
		}
	}
	received := o.ReceivedQty + increment

	o.ReceivedQty = received
	o.Status = status
	o.CollectionStatus = stage
	o.Recompute()
	return nil
}
