package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Risk levels shown to the consumer
const (
	RiskHigh   = "Élevé"
	RiskMedium = "Moyen"
)

// Delimiters of the feed's packed text fields. Neither field escapes its delimiter.
const (
	LotDelimiter   = "$"
	ImageDelimiter = "|"
)

// highRiskKeywords flag a recall as high risk when found in its risk or reason text
var highRiskKeywords = []string{"grave", "salmonelle", "listeria"}

// FlexString decodes a JSON string, number or null into a string.
// The recall feed is not consistent about the type of gtin.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// RecallRecord is one entry of the official recall feed. Field names follow the feed.
type RecallRecord struct {
	GTIN                   FlexString `json:"gtin,omitempty"`
	Libelle                string     `json:"libelle,omitempty"`
	MarqueProduit          string     `json:"marque_produit,omitempty"`
	ModelesOuReferences    string     `json:"modeles_ou_references,omitempty"`
	MotifRappel            string     `json:"motif_rappel,omitempty"`
	RisquesEncourus        string     `json:"risques_encourus,omitempty"`
	DatePublication        string     `json:"date_publication,omitempty"`
	CategorieDeProduit     string     `json:"categorie_de_produit,omitempty"`
	IdentificationProduits string     `json:"identification_produits,omitempty"`
	ConduitesATenir        string     `json:"conduites_a_tenir_par_le_consommateur,omitempty"`
	LiensVersLesImages     string     `json:"liens_vers_les_images,omitempty"`
}

// RecallFeedResponse is the envelope returned by the recall feed
type RecallFeedResponse struct {
	TotalCount int            `json:"total_count"`
	Results    []RecallRecord `json:"results"`
}

// PublishedIn parses date_publication and returns it in loc.
// Full timestamps keep their instant; bare dates are read as a calendar day in loc.
func (r RecallRecord) PublishedIn(loc *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(r.DatePublication)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), true
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ImageURLs splits liens_vers_les_images into trimmed, non-empty URLs
func (r RecallRecord) ImageURLs() []string {
	if r.LiensVersLesImages == "" {
		return nil
	}
	var urls []string
	for _, part := range strings.Split(r.LiensVersLesImages, ImageDelimiter) {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Lot returns the second segment of identification_produits, or "" when absent
func (r RecallRecord) Lot() string {
	parts := strings.Split(r.IdentificationProduits, LotDelimiter)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IsHighRisk reports whether the risk or reason text mentions a high risk keyword
func (r RecallRecord) IsHighRisk() bool {
	risk := strings.ToLower(r.RisquesEncourus)
	reason := strings.ToLower(r.MotifRappel)
	for _, kw := range highRiskKeywords {
		if strings.Contains(risk, kw) || strings.Contains(reason, kw) {
			return true
		}
	}
	return false
}

// RiskLevel returns RiskHigh or RiskMedium
func (r RecallRecord) RiskLevel() string {
	if r.IsHighRisk() {
		return RiskHigh
	}
	return RiskMedium
}

// PeriodBuckets groups recalls into disjoint recency windows
type PeriodBuckets struct {
	Today     []RecallRecord `json:"today"`
	Yesterday []RecallRecord `json:"yesterday"`
	LastWeek  []RecallRecord `json:"lastWeek"`
	LastMonth []RecallRecord `json:"lastMonth"`
}

// Total returns the number of records across all buckets
func (b PeriodBuckets) Total() int {
	return len(b.Today) + len(b.Yesterday) + len(b.LastWeek) + len(b.LastMonth)
}
