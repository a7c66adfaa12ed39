// Package template provides the static packaging-template catalog used
// to steer artwork generation toward a physical packaging format.
package template

import "fmt"

// Template describes one packaging format.
type Template struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"` // Flexible | Rigid | Carton | Label
	Dimensions    string `json:"dimensions"`
	AspectRatio   string `json:"aspect_ratio"`
	PromptContext string `json:"prompt_context"`
}

var catalog = []Template{
	{
		ID:            "pouch-standup-12oz",
		Name:          "Stand-up Pouch (12oz)",
		Category:      "Flexible",
		Dimensions:    `6" x 9" x 3"`,
		AspectRatio:   "3:4",
		PromptContext: "photorealistic stand-up pouch, resealable zipper top, matte finish plastic material, 3D rendering studio lighting",
	},
	{
		ID:            "pouch-flat-sample",
		Name:          "Flat Sample Sachet",
		Category:      "Flexible",
		Dimensions:    `3" x 5"`,
		AspectRatio:   "2:3",
		PromptContext: "flat metallic foil sample sachet, tear notch visible, top down view",
	},
	{
		ID:            "can-sleek-12oz",
		Name:          "Sleek Aluminum Can (12oz)",
		Category:      "Rigid",
		Dimensions:    `2.25" x 6"`,
		AspectRatio:   "1:2",
		PromptContext: "tall sleek 12oz aluminum beverage can, condensation droplets, cold metallic texture, cylinder projection",
	},
	{
		ID:            "can-std-12oz",
		Name:          "Standard Can (12oz)",
		Category:      "Rigid",
		Dimensions:    `2.6" x 4.8"`,
		AspectRatio:   "3:4",
		PromptContext: "standard 355ml aluminum soda can, glossy finish, studio background",
	},
	{
		ID:            "carton-retail",
		Name:          "Retail Folding Carton",
		Category:      "Carton",
		Dimensions:    `4" x 2" x 6"`,
		AspectRatio:   "3:4",
		PromptContext: "paperboard folding carton box, retail shelf ready, sharp edges, slight perspective angle",
	},
	{
		ID:            "bottle-glass-750",
		Name:          "Glass Bottle (750ml)",
		Category:      "Rigid",
		Dimensions:    `3" x 11"`,
		AspectRatio:   "1:3",
		PromptContext: "750ml glass bottle, wine style, paper texture label applied, elegant lighting",
	},
	{
		ID:            "label-jar-rd",
		Name:          "Round Jar Label",
		Category:      "Label",
		Dimensions:    `3" x 8" (Wrap)`,
		AspectRatio:   "3:2",
		PromptContext: "rectangular label design wrapped around a glass jar, visible curvature",
	},
}

// Catalog returns all packaging templates.
func Catalog() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a template by id.
func ByID(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// InjectContext appends a template's packaging context to an edit
// instruction. With a nil template the prompt passes through unchanged.
func InjectContext(prompt string, t *Template) string {
	if t == nil {
		return prompt
	}
	return fmt.Sprintf("%s. Apply this design to a %s. Maintain the aspect ratio suitable for %s.",
		prompt, t.PromptContext, t.Dimensions)
}
