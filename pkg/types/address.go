package types

import "strings"

// Address is the delivery address snapshot attached to profiles and orders.
type Address struct {
	Line1   string `json:"line1"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	State   string `json:"state,omitempty"`
}

// IsZero reports whether no address field has been filled in.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Pincode) == ""
}
