package metrics

import (
	"math"

	"github.com/commitpulse/commitpulse/pkg/model"
)

// DeterministicScores are the rule-based per-commit metrics computed from
// line counts alone, each on the same 0–5 scale the LLM axes use. They
// exist so a commit has a usable score before (or without) an LLM
// evaluation.
type DeterministicScores struct {
	Difficulty float64
	Quality    float64
	Size       float64
}

// Sum returns the combined deterministic score.
func (d DeterministicScores) Sum() float64 {
	return d.Difficulty + d.Quality + d.Size
}

// Deterministic derives rule-based scores from a commit's line counts.
//
// Difficulty grows linearly with changed lines and saturates at 5.
// Quality starts high and erodes with difficulty, floored at 1.
// Size is a step function over changed-line thresholds.
func Deterministic(addedLines, deletedLines int) DeterministicScores {
	lines := float64(addedLines + deletedLines)

	difficulty := lines * 0.03
	if difficulty > 5 {
		difficulty = 5
	}

	quality := (100 - difficulty*2) / 20
	if quality < 1 {
		quality = 1
	}

	var size float64
	switch {
	case lines > 80:
		size = 5
	case lines > 50:
		size = 4
	case lines > 20:
		size = 3
	case lines > 10:
		size = 2
	default:
		size = 1
	}

	return DeterministicScores{
		Difficulty: round2(difficulty),
		Quality:    round2(quality),
		Size:       size,
	}
}

// FinalScore blends deterministic and LLM score sums. Without an LLM sum
// the deterministic sum stands alone; otherwise the result is the mean of
// the two.
func FinalScore(det DeterministicScores, llmSum float64) float64 {
	if llmSum == 0 {
		return round2(det.Sum())
	}
	return round2((det.Sum() + llmSum) / 2)
}

// Score returns the commit's effective score: the backend-supplied LLM
// total when present, the deterministic fallback otherwise.
func Score(c model.CommitRecord) float64 {
	if c.TotalScore != nil {
		return *c.TotalScore
	}
	return FinalScore(Deterministic(c.AddedLines, c.DeletedLines), 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
