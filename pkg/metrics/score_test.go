package metrics

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/commitpulse/commitpulse/pkg/model"
)

func TestDeterministicBands(t *testing.T) {
	tests := []struct {
		name           string
		added, deleted int
		wantDifficulty float64
		wantQuality    float64
		wantSize       float64
	}{
		{"trivial", 0, 0, 0, 5, 1},
		{"small", 8, 2, 0.3, 4.97, 1},
		{"eleven lines", 11, 0, 0.33, 4.97, 2},
		{"mid", 20, 10, 0.9, 4.91, 3},
		{"large", 40, 20, 1.8, 4.82, 4},
		{"huge", 300, 100, 5, 4.5, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Deterministic(tc.added, tc.deleted)
			if got.Difficulty != tc.wantDifficulty {
				t.Errorf("Difficulty = %v, want %v", got.Difficulty, tc.wantDifficulty)
			}
			if got.Quality != tc.wantQuality {
				t.Errorf("Quality = %v, want %v", got.Quality, tc.wantQuality)
			}
			if got.Size != tc.wantSize {
				t.Errorf("Size = %v, want %v", got.Size, tc.wantSize)
			}
		})
	}
}

func TestDeterministicBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		added := rapid.IntRange(0, 100000).Draw(t, "added")
		deleted := rapid.IntRange(0, 100000).Draw(t, "deleted")
		got := Deterministic(added, deleted)

		if got.Difficulty < 0 || got.Difficulty > 5 {
			t.Fatalf("Difficulty out of range: %v", got.Difficulty)
		}
		if got.Quality < 1 || got.Quality > 5 {
			t.Fatalf("Quality out of range: %v", got.Quality)
		}
		if got.Size < 1 || got.Size > 5 {
			t.Fatalf("Size out of range: %v", got.Size)
		}
	})
}

func TestFinalScore(t *testing.T) {
	det := Deterministic(20, 10) // 0.9 + 4.91 + 3 = 8.81

	if got := FinalScore(det, 0); got != 8.81 {
		t.Errorf("FinalScore without LLM = %v, want deterministic sum 8.81", got)
	}
	if got := FinalScore(det, 11.19); got != 10 {
		t.Errorf("FinalScore with LLM = %v, want mean 10", got)
	}

	trivial := Deterministic(0, 0) // 0 + 5 + 1
	if got := FinalScore(trivial, 14); got != 10 {
		t.Errorf("FinalScore trivial+LLM = %v, want 10", got)
	}
}

func TestScoreFallback(t *testing.T) {
	llm := 73.5
	scored := model.CommitRecord{TotalScore: &llm, AddedLines: 500}
	if got := Score(scored); got != llm {
		t.Errorf("Score with LLM total = %v, want %v", got, llm)
	}

	unscored := model.CommitRecord{AddedLines: 20, DeletedLines: 10}
	want := FinalScore(Deterministic(20, 10), 0)
	if got := Score(unscored); got != want {
		t.Errorf("Score fallback = %v, want %v", got, want)
	}
}
