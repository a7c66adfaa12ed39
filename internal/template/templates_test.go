package template

import (
	"strings"
	"testing"
)

func TestCatalog_NotEmpty(t *testing.T) {
	all := Catalog()
	if len(all) == 0 {
		t.Fatal("catalog is empty")
	}
	seen := make(map[string]bool)
	for _, tmpl := range all {
		if tmpl.ID == "" || tmpl.Name == "" || tmpl.PromptContext == "" {
			t.Errorf("incomplete template: %+v", tmpl)
		}
		if seen[tmpl.ID] {
			t.Errorf("duplicate template id %q", tmpl.ID)
		}
		seen[tmpl.ID] = true
	}
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	first := Catalog()
	first[0].Name = "mutated"

	second := Catalog()
	if second[0].Name == "mutated" {
		t.Error("Catalog exposes internal state")
	}
}

func TestByID(t *testing.T) {
	tmpl, ok := ByID("can-sleek-12oz")
	if !ok {
		t.Fatal("ByID(can-sleek-12oz) not found")
	}
	if tmpl.Category != "Rigid" {
		t.Errorf("Category = %q, want Rigid", tmpl.Category)
	}

	if _, ok := ByID("no-such-template"); ok {
		t.Error("ByID(no-such-template) found, want miss")
	}
}

func TestInjectContext(t *testing.T) {
	tmpl, _ := ByID("carton-retail")
	got := InjectContext("add a gold ribbon", &tmpl)

	if !strings.HasPrefix(got, "add a gold ribbon. ") {
		t.Errorf("prompt not preserved as prefix: %q", got)
	}
	if !strings.Contains(got, tmpl.PromptContext) {
		t.Errorf("prompt context missing from %q", got)
	}
	if !strings.Contains(got, tmpl.Dimensions) {
		t.Errorf("dimensions missing from %q", got)
	}
}

func TestInjectContext_NilTemplate(t *testing.T) {
	if got := InjectContext("plain prompt", nil); got != "plain prompt" {
		t.Errorf("InjectContext(nil) = %q, want passthrough", got)
	}
}
