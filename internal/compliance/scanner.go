package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"nanopack/internal/errors"
)

// AnalysisClient performs structured image analysis. Satisfied by
// genai.Client.
type AnalysisClient interface {
	AnalyzeJSON(ctx context.Context, dataURI, prompt string, schema json.RawMessage) (json.RawMessage, error)
}

// Scanner runs compliance scans through an analysis backend.
type Scanner struct {
	client AnalysisClient
	log    *zap.Logger
}

// NewScanner creates a scanner.
func NewScanner(client AnalysisClient, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{client: client, log: log}
}

// reportSchema constrains the analysis response to the Report shape.
var reportSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "score": {"type": "INTEGER", "description": "0 to 100 compliance safety score"},
    "status": {"type": "STRING", "enum": ["compliant", "warning", "non-compliant"]},
    "detectedIndustry": {"type": "STRING"},
    "regulatoryBody": {"type": "STRING"},
    "checks": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "name": {"type": "STRING"},
          "passed": {"type": "BOOLEAN"},
          "details": {"type": "STRING"}
        }
      }
    },
    "ingredientAnalysis": {
      "type": "OBJECT",
      "properties": {
        "found": {"type": "BOOLEAN"},
        "text": {"type": "STRING"},
        "flaggedIngredients": {"type": "ARRAY", "items": {"type": "STRING"}}
      }
    },
    "barcodeAnalysis": {
      "type": "OBJECT",
      "properties": {
        "found": {"type": "BOOLEAN"},
        "readable": {"type": "BOOLEAN"},
        "type": {"type": "STRING"}
      }
    },
    "invalidStatements": {"type": "ARRAY", "items": {"type": "STRING"}},
    "marketingCopy": {
      "type": "OBJECT",
      "properties": {
        "headline": {"type": "STRING"},
        "claims": {"type": "ARRAY", "items": {"type": "STRING"}},
        "flavorProfile": {"type": "STRING"}
      }
    }
  }
}`)

// Scan analyzes artwork against the regulator for the given industry
// and returns a validated report. The model's output is not trusted
// blindly: out-of-range scores, unknown statuses, or a missing checks
// array fail the scan.
func (s *Scanner) Scan(ctx context.Context, dataURI, industry string) (*Report, error) {
	reg := ForCategory(industry)
	prompt := buildScanPrompt(industry, reg)

	raw, err := s.client.AnalyzeJSON(ctx, dataURI, prompt, reportSchema)
	if err != nil {
		s.log.Warn("compliance analysis failed", zap.Error(err))
		return nil, errors.NewScanFailed(err.Error())
	}

	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, errors.NewScanFailed(fmt.Sprintf("malformed analysis response: %v", err))
	}
	if err := validateReport(&report); err != nil {
		return nil, errors.NewScanFailed(err.Error())
	}

	s.log.Info("compliance scan complete",
		zap.Int("score", report.Score),
		zap.String("status", string(report.Status)),
		zap.String("regulatory_body", report.RegulatoryBody))
	return &report, nil
}

func buildScanPrompt(industry string, reg RegulatoryEntity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Act as a strict Regulatory Compliance Officer AND a Product Data Specialist for the %s industry.\n", industry)
	b.WriteString("Analyze the packaging artwork in this image.\n\n")
	b.WriteString("1. Compliance Checks:\n")
	fmt.Fprintf(&b, "- Check for required elements: %s.\n", strings.Join(reg.RequiredElements, ", "))
	fmt.Fprintf(&b, "- Check for prohibited claims: %s.\n", strings.Join(reg.RestrictedTerms, ", "))
	b.WriteString("- OCR the Ingredient List accurately.\n")
	b.WriteString("- Check for Barcode/UPC visibility.\n\n")
	b.WriteString("2. Data Extraction (for Tech Sheet):\n")
	b.WriteString("- Extract the main marketing headline.\n")
	b.WriteString("- Extract key feature claims (e.g. \"Gluten Free\", \"Non-GMO\").\n")
	b.WriteString("- Describe the Flavor Profile or Scent Profile if applicable.\n\n")
	b.WriteString("Return a JSON object with the specified schema.")
	return b.String()
}

func validateReport(r *Report) error {
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("score %d out of range", r.Score)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	if r.Checks == nil {
		return fmt.Errorf("report has no checks")
	}
	return nil
}
