package model

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestInstantUnmarshalDialects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339 millis", `"2026-01-03T14:22:07.123Z"`, time.Date(2026, 1, 3, 14, 22, 7, 123_000_000, time.UTC)},
		{"rfc3339", `"2026-01-03T14:22:07Z"`, time.Date(2026, 1, 3, 14, 22, 7, 0, time.UTC)},
		{"naive datetime", `"2026-01-03T14:22:07"`, time.Date(2026, 1, 3, 14, 22, 7, 0, time.UTC)},
		{"naive micros", `"2026-01-03T14:22:07.123456"`, time.Date(2026, 1, 3, 14, 22, 7, 123_456_000, time.UTC)},
		{"bare date", `"2026-01-03"`, time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var i Instant
			if err := json.Unmarshal([]byte(tc.raw), &i); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tc.raw, err)
			}
			if !i.Equal(tc.want) {
				t.Errorf("got %v, want %v", i.Time, tc.want)
			}
		})
	}
}

func TestInstantUnmarshalNullAndEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `""`} {
		var i Instant
		if err := json.Unmarshal([]byte(raw), &i); err != nil {
			t.Fatalf("Unmarshal(%s): %v", raw, err)
		}
		if !i.IsZero() {
			t.Errorf("Unmarshal(%s) = %v, want zero", raw, i.Time)
		}
	}
}

func TestInstantUnmarshalGarbage(t *testing.T) {
	var i Instant
	if err := json.Unmarshal([]byte(`"last tuesday"`), &i); err == nil {
		t.Error("garbage timestamp accepted")
	}
}

func TestInstantMarshal(t *testing.T) {
	i := Instant{Time: time.Date(2026, 1, 3, 14, 22, 7, 123_000_000, time.UTC)}
	data, err := json.Marshal(i)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2026-01-03T14:22:07.123Z"` {
		t.Errorf("Marshal = %s", data)
	}

	zero, err := json.Marshal(Instant{})
	if err != nil {
		t.Fatal(err)
	}
	if string(zero) != "null" {
		t.Errorf("zero Instant marshals to %s, want null", zero)
	}
}

func TestCommitRecordScoreAbsence(t *testing.T) {
	// nil score must survive a decode round and stay distinguishable
	// from an explicit zero.
	var unscored CommitRecord
	if err := json.Unmarshal([]byte(`{"sha":"abc","author_name":"x","message":"m","commit_date":null,"added_lines":1,"deleted_lines":0}`), &unscored); err != nil {
		t.Fatal(err)
	}
	if unscored.TotalScore != nil {
		t.Errorf("absent score decoded as %v, want nil", *unscored.TotalScore)
	}

	var zeroScored CommitRecord
	if err := json.Unmarshal([]byte(`{"sha":"abc","author_name":"x","message":"m","commit_date":null,"added_lines":1,"deleted_lines":0,"total_score_100":0}`), &zeroScored); err != nil {
		t.Fatal(err)
	}
	if zeroScored.TotalScore == nil || *zeroScored.TotalScore != 0 {
		t.Error("explicit zero score not preserved")
	}
}

func TestShortSha(t *testing.T) {
	c := CommitRecord{Sha: "0123456789abcdef"}
	if got := c.ShortSha(); got != "0123456" {
		t.Errorf("ShortSha = %q", got)
	}
	short := CommitRecord{Sha: "ab12"}
	if got := short.ShortSha(); got != "ab12" {
		t.Errorf("ShortSha of short hash = %q", got)
	}
}

func TestLinesChanged(t *testing.T) {
	c := CommitRecord{AddedLines: 12, DeletedLines: 5}
	if got := c.LinesChanged(); got != 17 {
		t.Errorf("LinesChanged = %d", got)
	}
}
