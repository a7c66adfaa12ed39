// Package compliance scans packaging artwork against regulatory
// requirements and extracts product data for tech sheets.
package compliance

// Status summarizes the outcome of a scan.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusWarning      Status = "warning"
	StatusNonCompliant Status = "non-compliant"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusCompliant || s == StatusWarning || s == StatusNonCompliant
}

// Check is one named compliance check with its verdict.
type Check struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// IngredientAnalysis carries the OCR'd ingredient list.
type IngredientAnalysis struct {
	Found              bool     `json:"found"`
	Text               string   `json:"text"`
	FlaggedIngredients []string `json:"flaggedIngredients"`
}

// BarcodeAnalysis reports barcode visibility on the artwork.
type BarcodeAnalysis struct {
	Found    bool   `json:"found"`
	Readable bool   `json:"readable"`
	Type     string `json:"type"`
}

// MarketingCopy holds extracted product copy for the tech sheet.
type MarketingCopy struct {
	Headline      string   `json:"headline"`
	Claims        []string `json:"claims"`
	FlavorProfile string   `json:"flavorProfile"`
}

// Report is the structured result of a compliance scan.
type Report struct {
	Score              int                `json:"score"` // 0 to 100
	Status             Status             `json:"status"`
	DetectedIndustry   string             `json:"detectedIndustry"`
	RegulatoryBody     string             `json:"regulatoryBody"`
	Checks             []Check            `json:"checks"`
	IngredientAnalysis IngredientAnalysis `json:"ingredientAnalysis"`
	BarcodeAnalysis    BarcodeAnalysis    `json:"barcodeAnalysis"`
	InvalidStatements  []string           `json:"invalidStatements"`
	MarketingCopy      *MarketingCopy     `json:"marketingCopy,omitempty"`
}
