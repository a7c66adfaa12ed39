package compliance

// RegulatoryEntity describes one regulator and the rules it enforces
// on packaging artwork.
type RegulatoryEntity struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Industry         string   `json:"industry"`
	RequiredElements []string `json:"requiredElements"`
	RestrictedTerms  []string `json:"restrictedTerms"`
}

// regulatoryDatabase is the static regulator catalog.
var regulatoryDatabase = []RegulatoryEntity{
	{
		ID:               "FDA",
		Name:             "U.S. Food and Drug Administration",
		Industry:         "Food",
		RequiredElements: []string{"Nutrition Facts", "Net Quantity", "Ingredient List", "Manufacturer Address", "Allergen Declaration"},
		RestrictedTerms:  []string{"Cures", "Heals", "Therapeutic", "Treatment"},
	},
	{
		ID:               "USDA",
		Name:             "U.S. Department of Agriculture",
		Industry:         "Agriculture",
		RequiredElements: []string{"USDA Seal (if organic)", "Country of Origin", "Grade Shield"},
		RestrictedTerms:  []string{"Organic (without certification)", "100% Natural (unverified)"},
	},
	{
		ID:               "EPA",
		Name:             "Environmental Protection Agency",
		Industry:         "Chemicals",
		RequiredElements: []string{"Signal Word (Danger/Warning)", "Precautionary Statements", "First Aid Instructions", "EPA Reg. No."},
		RestrictedTerms:  []string{"Safe", "Harmless", "Non-toxic"},
	},
}

// Regulators returns a copy of the regulator catalog.
func Regulators() []RegulatoryEntity {
	out := make([]RegulatoryEntity, len(regulatoryDatabase))
	copy(out, regulatoryDatabase)
	return out
}

// ForCategory maps a product category to its regulator. Unknown
// categories fall back to the FDA.
func ForCategory(category string) RegulatoryEntity {
	switch category {
	case "Food":
		return byID("FDA")
	case "Agriculture":
		return byID("USDA")
	case "Chemicals":
		return byID("EPA")
	default:
		return regulatoryDatabase[0]
	}
}

func byID(id string) RegulatoryEntity {
	for _, r := range regulatoryDatabase {
		if r.ID == id {
			return r
		}
	}
	return regulatoryDatabase[0]
}
