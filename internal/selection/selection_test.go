package selection

import "testing"

func TestToggle(t *testing.T) {
	s := New()

	s.Toggle("01A")
	if !s.Has("01A") {
		t.Error("Has(01A) = false after toggle on")
	}
	s.Toggle("01A")
	if s.Has("01A") {
		t.Error("Has(01A) = true after toggle off")
	}
}

func TestSelectAll_TwoStateSymmetry(t *testing.T) {
	s := New()
	all := []string{"01A", "01B", "01C"}

	// Empty -> full
	s.SelectAll(all)
	if s.Len() != 3 {
		t.Fatalf("Len = %d after select-all-on, want 3", s.Len())
	}

	// Full -> empty
	s.SelectAll(all)
	if s.Len() != 0 {
		t.Fatalf("Len = %d after select-all-off, want 0", s.Len())
	}

	// Repeated application alternates between only these two states.
	for i := 0; i < 4; i++ {
		s.SelectAll(all)
		want := 3
		if i%2 == 1 {
			want = 0
		}
		if s.Len() != want {
			t.Errorf("iteration %d: Len = %d, want %d", i, s.Len(), want)
		}
	}
}

func TestSelectAll_PartialSelectionSelectsAll(t *testing.T) {
	s := New()
	all := []string{"01A", "01B", "01C"}

	s.Toggle("01A")
	s.SelectAll(all)
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3 (partial selection selects all)", s.Len())
	}
}

// The branch compares sizes only: a selection of N ids different from
// the N listed ids still clears. This mirrors the equality-based toggle
// the UI uses, where the selection always comes from the same listing.
func TestSelectAll_SizeBasedBranch(t *testing.T) {
	s := New()
	s.Toggle("stale-1")
	s.Toggle("stale-2")

	s.SelectAll([]string{"01A", "01B"})
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 (size equality clears)", s.Len())
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Toggle("01A")
	s.Toggle("01B")

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", s.Len())
	}
}

func TestIDs_Sorted(t *testing.T) {
	s := New()
	s.Toggle("01C")
	s.Toggle("01A")
	s.Toggle("01B")

	ids := s.IDs()
	want := []string{"01A", "01B", "01C"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs = %v, want %v", ids, want)
		}
	}
}
