// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// WeightSource indicates where an item's weight reading came from.
type WeightSource string

const (
	// WeightSourceSystem indicates the weight was read from an automated scale.
	WeightSourceSystem WeightSource = "system"
	// WeightSourceManual indicates the weight was entered by a person.
	WeightSourceManual WeightSource = "manual"
)

// Short returns the abbreviated label used in printed reports.
func (s WeightSource) Short() string {
	if s == WeightSourceSystem {
		return "Sys"
	}
	return "Man"
}

// StoreRef is the store reference embedded in a transaction.
type StoreRef struct {
	StoreID       string `json:"storeId"`
	StoreName     string `json:"storeName"`
	StoreLocation string `json:"storeLocation"`
}

// Calibration is the reference weighing taken before a transaction.
type Calibration struct {
	Error *float64 `json:"error,omitempty"`
	Image string   `json:"image,omitempty"`
}

// Item is one weighed material unit within a transaction.
type Item struct {
	CreatedAt    time.Time    `json:"createdAt"`
	MaterialType string       `json:"materialType"`
	WeightSource WeightSource `json:"weightSource"`
	Image        string       `json:"image,omitempty"`
	Weight       float64      `json:"weight"`
	ItemNo       int          `json:"itemNo"`
}

// Transaction is one weighing/collection event at a store.
//
// The global listing nests the store under Store and ships the full Items
// slice. The store-scoped listing flattens the store name into StoreNameFlat
// and only reports TotalItems. Use StoreName and ItemCount rather than
// reading either shape directly.
type Transaction struct {
	CreatedAt     time.Time    `json:"createdAt"`
	Store         *StoreRef    `json:"store,omitempty"`
	Calibration   *Calibration `json:"calibration,omitempty"`
	TotalItems    *int         `json:"totalItems,omitempty"`
	TransactionID string       `json:"transactionId"`
	ManagerName   string       `json:"managerName"`
	VendorName    string       `json:"vendorName"`
	StoreNameFlat string       `json:"storeName,omitempty"`
	Items         []Item       `json:"items"`
}

// StoreName returns the store name from whichever response shape carried it.
func (t *Transaction) StoreName() string {
	if t.Store != nil && t.Store.StoreName != "" {
		return t.Store.StoreName
	}
	return t.StoreNameFlat
}

// StoreLocation returns the store location, or an empty string when unknown.
func (t *Transaction) StoreLocation() string {
	if t.Store == nil {
		return ""
	}
	return t.Store.StoreLocation
}

// ItemCount returns the number of items in the transaction.
func (t *Transaction) ItemCount() int {
	if len(t.Items) > 0 {
		return len(t.Items)
	}
	if t.TotalItems != nil {
		return *t.TotalItems
	}
	return 0
}

// CalibrationErrorLabel renders the calibration tolerance for display.
// A missing calibration or tolerance renders as "N/A" rather than a bare
// plus-minus sign.
func (t *Transaction) CalibrationErrorLabel() string {
	if t.Calibration == nil || t.Calibration.Error == nil {
		return "N/A"
	}
	return fmt.Sprintf("±%g kg", *t.Calibration.Error)
}
