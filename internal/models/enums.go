package models

import (
	"fmt"
	"strings"
)

// Category is the product family an item and its contracts belong to.
type Category string

const (
	CategoryRefrigerated Category = "REFRIGERATED"
	CategoryDry          Category = "DRY"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryRefrigerated, CategoryDry}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryRefrigerated || c == CategoryDry
}

// ParseCategory accepts the canonical names as well as the Portuguese
// labels used by the supply office spreadsheets (FRIGORIFICADOS, SECOS).
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REFRIGERATED", "FRIGORIFICADOS", "FRIGORIFICADO":
		return CategoryRefrigerated, nil
	case "DRY", "SECOS", "SECO":
		return CategoryDry, nil
	}
	return "", fmt.Errorf("unknown product category %q", s)
}

// SignatureStatus tracks where a contract is in the signature circuit.
type SignatureStatus string

const (
	SignatureDraft  SignatureStatus = "DRAFT"  // with the supply office (CSupAB)
	SignatureReview SignatureStatus = "REVIEW" // under review (COMRJ)
	SignatureVendor SignatureStatus = "VENDOR" // waiting for the vendor
	SignatureSigned SignatureStatus = "SIGNED"
)

// Valid reports whether s is a known signature status.
func (s SignatureStatus) Valid() bool {
	switch s {
	case SignatureDraft, SignatureReview, SignatureVendor, SignatureSigned:
		return true
	}
	return false
}

// ParseSignatureStatus accepts canonical names and the legacy labels.
func ParseSignatureStatus(s string) (SignatureStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DRAFT", "CSUPAB":
		return SignatureDraft, nil
	case "REVIEW", "COMRJ":
		return SignatureReview, nil
	case "VENDOR", "EMPRESA":
		return SignatureVendor, nil
	case "SIGNED", "ASSINADO":
		return SignatureSigned, nil
	}
	return "", fmt.Errorf("unknown signature status %q", s)
}

// OrderStatus is the delivery state of a purchase order.
type OrderStatus string

const (
	OrderAwaitingContract  OrderStatus = "AWAITING_CONTRACT"
	OrderInTransit         OrderStatus = "IN_TRANSIT"
	OrderPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	OrderReceived          OrderStatus = "RECEIVED"
	// OrderAvailable is the terminal label forced by the inspection and
	// available-in-system collection stages.
	OrderAvailable OrderStatus = "AVAILABLE_IN_SYSTEM"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderAwaitingContract, OrderInTransit, OrderPartiallyReceived, OrderReceived, OrderAvailable:
		return true
	}
	return false
}

// IndicatesReceipt reports whether an operator-chosen status means goods
// have already arrived and a receipt should be registered.
func (s OrderStatus) IndicatesReceipt() bool {
	return s == OrderReceived || s == OrderPartiallyReceived
}

// CollectionStatus is the physical intake stage of received goods.
type CollectionStatus string

const (
	CollectionNone        CollectionStatus = "NONE"
	CollectionInspection  CollectionStatus = "INSPECTION"
	CollectionCounting    CollectionStatus = "COUNTING"
	CollectionWarehousing CollectionStatus = "WAREHOUSING"
	CollectionAvailable   CollectionStatus = "AVAILABLE_IN_SYSTEM"
)

// Valid reports whether s is a known collection status.
func (s CollectionStatus) Valid() bool {
	switch s {
	case CollectionNone, CollectionInspection, CollectionCounting, CollectionWarehousing, CollectionAvailable:
		return true
	}
	return false
}

// Clamps reports whether a receipt in this stage is clamped to the ordered
// quantity instead of being rejected when it overshoots.
func (s CollectionStatus) Clamps() bool {
	return s == CollectionInspection || s == CollectionAvailable
}
