package models

// Category is the snapshot embedded in a transaction at creation time.
// It is a copy of the catalog entry, not a live reference: editing the
// catalog later must not rewrite historical transactions.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Color string `json:"color,omitempty"`
}
