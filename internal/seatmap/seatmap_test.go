package seatmap

import "testing"

func TestGenerateLayout(t *testing.T) {
	seats := Generate("screening-1")

	if len(seats) != 96 {
		t.Fatalf("expected 96 seats, got %d", len(seats))
	}
	if seats[0].ID != "A1" || seats[0].Row != "A" || seats[0].Number != 1 {
		t.Errorf("unexpected first seat: %+v", seats[0])
	}
	if last := seats[len(seats)-1]; last.ID != "H12" || last.Row != "H" || last.Number != 12 {
		t.Errorf("unexpected last seat: %+v", last)
	}

	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		if seen[s.ID] {
			t.Errorf("duplicate seat id %s", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate("4f7b2c9d")
	b := Generate("4f7b2c9d")

	if len(a) != len(b) {
		t.Fatalf("layout sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seat %d differs between calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateVariesAcrossScreenings(t *testing.T) {
	a := Generate("screening-a")
	b := Generate("screening-b")

	same := true
	for i := range a {
		if a[i].IsAvailable != b[i].IsAvailable {
			same = false
			break
		}
	}
	if same {
		t.Error("different screening ids produced identical availability patterns")
	}
}

func TestGenerateAvailabilityShare(t *testing.T) {
	// Availability is drawn with a 0.7 probability per seat; over a set of
	// layouts the share must land well inside (0.3, 1.0).
	ids := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	available, total := 0, 0
	for _, id := range ids {
		for _, s := range Generate(id) {
			total++
			if s.IsAvailable {
				available++
			}
		}
	}
	share := float64(available) / float64(total)
	if share < 0.5 || share > 0.9 {
		t.Errorf("availability share %.2f outside expected band", share)
	}
}
