package domain

// ScanResult is the verdict for a scanned or typed barcode
type ScanResult struct {
	Barcode     string      `json:"barcode"`
	ProductName string      `json:"productName"`
	HasRecall   bool        `json:"hasRecall"`
	RecallInfo  *RecallInfo `json:"recallInfo,omitempty"`
}

// RecallInfo holds the display fields of the recall matching a scan
type RecallInfo struct {
	Date      string `json:"date"`
	Reason    string `json:"reason"`
	RiskLevel string `json:"riskLevel"`
	Action    string `json:"action"`
	Brand     string `json:"brand,omitempty"`
	Lot       string `json:"lot,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}
