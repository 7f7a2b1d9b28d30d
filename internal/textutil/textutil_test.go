package textutil

import (
	"sync"
	"testing"
)

func TestNormalizeCategoryComposesAndCollapses(t *testing.T) {
	decomposed := "Ble\u0301"
	if got := NormalizeCategory("  " + decomposed + "  "); got != "Bl\u00e9" {
		t.Fatalf("NormalizeCategory() = %q, want composed form", got)
	}
	if got := NormalizeCategory("Hot   Lab"); got != "Hot Lab" {
		t.Fatalf("NormalizeCategory() = %q, want %q", got, "Hot Lab")
	}
	if got := NormalizeCategory("   "); got != "" {
		t.Fatalf("NormalizeCategory(blank) = %q, want empty", got)
	}
}

func TestEqualFold(t *testing.T) {
	if !EqualFold("Y", "y") {
		t.Fatal("expected single-letter fold match")
	}
	if !EqualFold("STRASSE", "straße") {
		t.Fatal("expected full case folding")
	}
	if EqualFold("y", "n") {
		t.Fatal("different answers must not match")
	}
}

func TestFoldConcurrentCallers(t *testing.T) {
	inputs := []string{"STRASSE", "Hot Lab", "Ble\u0301", "Mortar and Pestle"}
	want := make([]string, len(inputs))
	for i, in := range inputs {
		want[i] = Fold(in)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				for i, in := range inputs {
					if got := Fold(in); got != want[i] {
						errs <- got
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("Fold under concurrency returned %q", got)
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := NewFingerprint("Mortar and Pestle")
	b := NewFingerprint("mortar AND pestle")
	if got := CosineSimilarity(a, b); got < 0.999 {
		t.Fatalf("CosineSimilarity(identical) = %v, want 1", got)
	}
	if got := CosineSimilarity(nil, b); got != 0 {
		t.Fatalf("CosineSimilarity(nil) = %v, want 0", got)
	}
}

func TestClosestPrefersSharedTokens(t *testing.T) {
	candidates := []string{"Hot Lab", "Wet Lab", "X-Ray Diffraction Panel"}
	best, score, ok := Closest("hot lab", candidates)
	if !ok || best != "Hot Lab" || score != 1 {
		t.Fatalf("Closest() = %q %v %v", best, score, ok)
	}
	best, _, ok = Closest("Diffraction panel 2", candidates)
	if !ok || best != "X-Ray Diffraction Panel" {
		t.Fatalf("Closest() = %q %v", best, ok)
	}
	if _, _, ok := Closest("Glovebox", candidates); ok {
		t.Fatal("expected no suggestion without shared tokens")
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"YVO4 Grinding Process": "yvo4_grinding_process",
		"  Step 1 / Ramp ":      "step_1_ramp",
		"":                      "unknown",
		"***":                   "unknown",
	}
	for in, want := range tests {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
