// Package testutil provides deterministic fixture generators for commit
// working sets. All generators produce reproducible output so tests can
// assert exact aggregates.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/commitpulse/commitpulse/pkg/model"
)

// GeneratorConfig controls commit generation.
type GeneratorConfig struct {
	Seed     int64     // Random seed (0 = use current time)
	BaseTime time.Time // Timestamp of the first commit (default: fixed time)
	Authors  []string  // Author pool (default: three fixed names)
	MaxLines int       // Upper bound on added/deleted lines per commit
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		BaseTime: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), // a Monday
		Authors:  []string{"Alice Ray", "Bob Chen", "Carol Diaz"},
		MaxLines: 400,
	}
}

// Generator creates commit fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	}
	if len(cfg.Authors) == 0 {
		cfg.Authors = []string{"Alice Ray", "Bob Chen", "Carol Diaz"}
	}
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = 400
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Commits generates n commits spaced spacing apart, newest first — the
// order the backend returns them in. Authors rotate round-robin so
// per-author counts are predictable.
func (g *Generator) Commits(n int, spacing time.Duration) []model.CommitRecord {
	commits := make([]model.CommitRecord, n)
	for i := 0; i < n; i++ {
		// Index 0 is the newest commit.
		age := time.Duration(i) * spacing
		author := g.cfg.Authors[i%len(g.cfg.Authors)]
		commits[i] = model.CommitRecord{
			Sha:          Sha(i),
			AuthorName:   author,
			AuthorEmail:  emailFor(author, i%len(g.cfg.Authors)),
			Message:      fmt.Sprintf("change %d", n-i),
			CommitDate:   model.Instant{Time: g.cfg.BaseTime.Add(-age)},
			AddedLines:   g.rng.Intn(g.cfg.MaxLines),
			DeletedLines: g.rng.Intn(g.cfg.MaxLines / 4),
		}
	}
	return commits
}

// Scored attaches a total score to every commit in place and returns
// the slice for chaining.
func (g *Generator) Scored(commits []model.CommitRecord) []model.CommitRecord {
	for i := range commits {
		score := float64(g.rng.Intn(101))
		commits[i].TotalScore = &score
	}
	return commits
}

// Hotspots generates n file rows with strictly descending change counts,
// matching the backend's sort contract.
func (g *Generator) Hotspots(n int) []model.Hotspot {
	hotspots := make([]model.Hotspot, n)
	for i := 0; i < n; i++ {
		hotspots[i] = model.Hotspot{
			File:    fmt.Sprintf("src/pkg%d/file%d.go", i%3, i),
			Changes: (n - i) * 7,
		}
	}
	return hotspots
}

// Buckets generates a sparse temporal bucket list covering every
// weekday at the given hours.
func (g *Generator) Buckets(hours ...int) []model.TemporalBucket {
	var buckets []model.TemporalBucket
	for i, day := range model.Weekdays {
		for _, h := range hours {
			buckets = append(buckets, model.TemporalBucket{
				Day:     day,
				Hour:    h,
				Commits: i + 1,
			})
		}
	}
	return buckets
}

// Sha returns a deterministic fake 40-char commit hash for index i.
func Sha(i int) string {
	return fmt.Sprintf("%040x", i+1)
}

func emailFor(author string, idx int) string {
	return fmt.Sprintf("dev%d@example.com", idx)
}

// Spec returns a valid normalized FilterSpec covering the generator's
// commit range.
func Spec() model.FilterSpec {
	return model.NewFilterSpec("PROJ", "backend", "main", "",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC))
}

// Snapshot assembles a full snapshot around the given commits using
// generated hotspots and buckets.
func (g *Generator) Snapshot(commits []model.CommitRecord) model.Snapshot {
	return model.Snapshot{
		Spec:      Spec(),
		Commits:   commits,
		Hotspots:  g.Hotspots(5),
		Temporal:  g.Buckets(10, 15),
		FetchedAt: g.cfg.BaseTime,
	}
}
