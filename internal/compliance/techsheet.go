package compliance

import (
	"fmt"
	"strings"
	"time"

	"nanopack/internal/inventory"
)

// TechSheet renders a markdown technical data sheet for a project,
// combining its linked SKU and latest compliance report. Either of sku
// or report may be nil.
func TechSheet(projectName string, sku *inventory.SKU, report *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Technical Data Sheet: %s\n\n", projectName)
	fmt.Fprintf(&b, "_Generated %s_\n\n", time.Now().UTC().Format("2006-01-02"))

	b.WriteString("## Product\n\n")
	if sku != nil {
		fmt.Fprintf(&b, "- **SKU:** %s (%s)\n", sku.Code, sku.Category)
		fmt.Fprintf(&b, "- **Dimensions:** %s\n", sku.Dimensions)
		fmt.Fprintf(&b, "- **Status:** %s\n", sku.Status)
	} else {
		b.WriteString("- **SKU:** N/A\n")
	}
	b.WriteString("\n")

	b.WriteString("## Compliance Report\n\n")
	if report == nil {
		b.WriteString("No compliance scan has been run for this artwork.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- **Score:** %d/100 (%s)\n", report.Score, report.Status)
	fmt.Fprintf(&b, "- **Regulatory Body:** %s\n", report.RegulatoryBody)
	fmt.Fprintf(&b, "- **Detected Industry:** %s\n\n", report.DetectedIndustry)

	if len(report.Checks) > 0 {
		b.WriteString("| Check | Result | Details |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, c := range report.Checks {
			verdict := "FAIL"
			if c.Passed {
				verdict = "PASS"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", c.Name, verdict, c.Details)
		}
		b.WriteString("\n")
	}

	if len(report.InvalidStatements) > 0 {
		b.WriteString("### Invalid Statements\n\n")
		for _, stmt := range report.InvalidStatements {
			fmt.Fprintf(&b, "- %s\n", stmt)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Ingredients\n\n")
	if report.IngredientAnalysis.Found {
		fmt.Fprintf(&b, "%s\n\n", report.IngredientAnalysis.Text)
		if len(report.IngredientAnalysis.FlaggedIngredients) > 0 {
			fmt.Fprintf(&b, "Flagged: %s\n\n", strings.Join(report.IngredientAnalysis.FlaggedIngredients, ", "))
		}
	} else {
		b.WriteString("No ingredient list detected.\n\n")
	}

	if report.MarketingCopy != nil {
		b.WriteString("### Marketing Copy\n\n")
		fmt.Fprintf(&b, "**%s**\n\n", report.MarketingCopy.Headline)
		for _, claim := range report.MarketingCopy.Claims {
			fmt.Fprintf(&b, "- %s\n", claim)
		}
		if report.MarketingCopy.FlavorProfile != "" {
			fmt.Fprintf(&b, "\nFlavor profile: %s\n", report.MarketingCopy.FlavorProfile)
		}
	}

	return b.String()
}
