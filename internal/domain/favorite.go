package domain

import (
	"strings"
	"time"
)

// Favorite is a product saved by the user to be monitored for recalls
type Favorite struct {
	ID          string    `json:"id"`
	ProductName string    `json:"product_name"`
	Brand       string    `json:"brand"`
	Barcode     string    `json:"barcode,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasIdentity reports whether the favorite carries any data usable for a lookup
func (f Favorite) HasIdentity() bool {
	return strings.TrimSpace(f.Barcode) != "" ||
		strings.TrimSpace(f.Brand) != "" ||
		strings.TrimSpace(f.ProductName) != ""
}

// FavoriteInput is a partial favorite used for create and update.
// Nil fields are left unchanged on update.
type FavoriteInput struct {
	ProductName *string `json:"product_name,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	Barcode     *string `json:"barcode,omitempty"`
}

// Apply copies the set fields of in onto f, trimmed
func (in FavoriteInput) Apply(f *Favorite) {
	if in.ProductName != nil {
		f.ProductName = strings.TrimSpace(*in.ProductName)
	}
	if in.Brand != nil {
		f.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Barcode != nil {
		f.Barcode = strings.TrimSpace(*in.Barcode)
	}
}

// Alert reports the recalls found for one favorite during a watch cycle
type Alert struct {
	FavoriteID  string         `json:"favoriteId"`
	ProductName string         `json:"productName"`
	Brand       string         `json:"brand"`
	Barcode     string         `json:"barcode"`
	Recalls     []RecallRecord `json:"recalls"`
}

// FavoriteCheck is the outcome of checking one favorite against the feed.
// Err is set when the lookup failed; Skipped when the favorite had nothing to look up.
type FavoriteCheck struct {
	Favorite Favorite
	Recalls  []RecallRecord
	Err      error
	Skipped  bool
}

// Matched reports whether the check produced recalls
func (c FavoriteCheck) Matched() bool {
	return c.Err == nil && len(c.Recalls) > 0
}

// Alert builds the alert for a matched check
func (c FavoriteCheck) Alert() Alert {
	return Alert{
		FavoriteID:  c.Favorite.ID,
		ProductName: c.Favorite.ProductName,
		Brand:       c.Favorite.Brand,
		Barcode:     c.Favorite.Barcode,
		Recalls:     c.Recalls,
	}
}
