package domain

// CandidateProduct is a catalog product offered as a search suggestion
type CandidateProduct struct {
	Brand       string  `json:"brand"`
	ProductName string  `json:"product_name"`
	GTIN        string  `json:"gtin,omitempty"`
	Popularity  float64 `json:"popularity"`
	Score       float64 `json:"score,omitempty"` // Relevance score set by the ranker
}

// CatalogProduct is a product as returned by the catalog source
type CatalogProduct struct {
	Code         string  `json:"code"`
	ProductName  string  `json:"product_name"`
	GenericName  string  `json:"generic_name"`
	Brands       string  `json:"brands"`
	UniqueScansN float64 `json:"unique_scans_n"`
}

// DisplayName returns product_name, falling back to generic_name
func (p CatalogProduct) DisplayName() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	return p.GenericName
}

// ToCandidate converts a catalog product into a ranking candidate
func (p CatalogProduct) ToCandidate() CandidateProduct {
	return CandidateProduct{
		Brand:       p.Brands,
		ProductName: p.DisplayName(),
		GTIN:        p.Code,
		Popularity:  p.UniqueScansN,
	}
}

// CatalogProductResponse is the envelope of a lookup by code
type CatalogProductResponse struct {
	Code    string          `json:"code"`
	Status  int             `json:"status"`
	Product *CatalogProduct `json:"product,omitempty"`
}

// CatalogSearchResponse is the envelope of a free-text catalog search
type CatalogSearchResponse struct {
	Count    int              `json:"count"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Products []CatalogProduct `json:"products"`
}

// ProductLookup is the resolved identity of a barcode, used when saving a favorite
type ProductLookup struct {
	Barcode     string `json:"barcode"`
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
	Found       bool   `json:"found"`
}
