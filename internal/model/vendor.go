package model

import "unicode"

// Vendor is the authenticated account using the dashboard.
type Vendor struct {
	ID             string `json:"_id,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	VendorLocation string `json:"vendorLocation,omitempty"`
	ContactNumber  string `json:"contactNumber,omitempty"`
}

// Initial returns the upper-cased first letter of the vendor name, or "U".
func (v *Vendor) Initial() string {
	for _, r := range v.Name {
		return string(unicode.ToUpper(r))
	}
	return "U"
}
