package model

// Store is a waste-collection location tied to a vendor.
type Store struct {
	StoreID          string `json:"storeId"`
	StoreName        string `json:"storeName"`
	StoreLocation    string `json:"storeLocation"`
	TransactionCount int    `json:"transactionCount"`
}

// StoresOverview is the dashboard payload for the logged-in vendor.
type StoresOverview struct {
	Stores            []Store `json:"stores"`
	TotalStores       int     `json:"totalStores"`
	TotalTransactions int     `json:"totalTransactions"`
	TotalItems        int     `json:"totalItems"`
}

// MaterialTotal is one pre-aggregated row of a store report.
type MaterialTotal struct {
	MaterialType string  `json:"materialType"`
	TotalWeight  float64 `json:"totalWeight"`
	Count        int     `json:"count,omitempty"`
}

// StoreReport is the date-scoped export payload for one store.
type StoreReport struct {
	VendorName    string          `json:"vendorName"`
	StoreName     string          `json:"storeName"`
	StoreLocation string          `json:"storeLocation"`
	Items         []MaterialTotal `json:"items"`
}
