package ops

import (
	"testing"
	"time"

	"nanopack/internal/asset"
)

func TestList_Empty(t *testing.T) {
	database := initTestDB(t)

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Total != 0 {
		t.Errorf("Total = %d, want 0", out.Total)
	}
	if out.Items == nil {
		t.Error("Items is nil, want empty slice")
	}
}

func TestList_NewestFirst(t *testing.T) {
	database := initTestDB(t)

	var ids []string
	for _, name := range []string{"First", "Second", "Third"} {
		out, err := Save(database, SaveInput{
			ProjectName: name,
			Variant:     1,
			Kind:        asset.KindVector,
			Payload:     "<svg/>",
		})
		if err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
		ids = append(ids, out.Asset.ID)
		time.Sleep(2 * time.Millisecond)
	}

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Total != 3 {
		t.Fatalf("Total = %d, want 3", out.Total)
	}
	for i := range out.Items {
		wantID := ids[len(ids)-1-i]
		if out.Items[i].ID != wantID {
			t.Errorf("Items[%d].ID = %q, want %q", i, out.Items[i].ID, wantID)
		}
	}
}

func TestList_FilterByProject(t *testing.T) {
	database := initTestDB(t)

	for _, name := range []string{"Granola", "Granola", "Coffee"} {
		if _, err := Save(database, SaveInput{
			ProjectName: name,
			Variant:     1,
			Kind:        asset.KindVector,
			Payload:     "<svg/>",
		}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	out, err := List(database, ListInput{ProjectID: "Granola"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Total != 2 {
		t.Fatalf("Total = %d, want 2", out.Total)
	}
	for _, item := range out.Items {
		if item.ProjectID != "Granola" {
			t.Errorf("ProjectID = %q, want Granola", item.ProjectID)
		}
	}
}
