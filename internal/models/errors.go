package models

import "errors"

// Domain rule errors raised by model methods. Services translate them into
// business rule violations.
var (
	ErrBelowReceived     = errors.New("ordered quantity below received quantity")
	ErrReceiptOvershoot  = errors.New("received quantity would exceed ordered quantity")
	ErrReceiptNotAllowed = errors.New("order status does not accept receipts")
	ErrNonPositiveQty    = errors.New("quantity must be positive")
	ErrNoCollectionStage = errors.New("collection status required")
)
