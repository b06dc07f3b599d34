package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/commitpulse/commitpulse/pkg/model"
)

func testSpec() model.FilterSpec {
	return model.NewFilterSpec("PROJ", "backend", "", "",
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"is_running":false,"message":""}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	if _, err := c.CollectionStatus(context.Background()); err != nil {
		t.Fatalf("CollectionStatus: %v", err)
	}

	if auth := got.Get("Authorization"); auth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", auth)
	}
	if accept := got.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}
}

func TestSetTokenReplacesBearer(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("old"))
	c.SetToken("new")
	if _, err := c.Projects(context.Background()); err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if got != "Bearer new" {
		t.Errorf("Authorization after SetToken = %q", got)
	}
}

func TestCommitsQueryOmission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		for _, key := range []string{"branch_name", "author_email"} {
			if _, present := q[key]; present {
				t.Errorf("absent filter field %q sent as %q", key, q.Get(key))
			}
		}
		if q.Get("project_key") != "PROJ" || q.Get("repo_name") != "backend" {
			t.Errorf("scope params wrong: %v", q)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Commits(context.Background(), testSpec()); err != nil {
		t.Fatalf("Commits: %v", err)
	}
}

func TestStatusErrorVerbatimMessage(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{"message envelope", http.StatusConflict, `{"message":"Collection already in progress"}`, "Collection already in progress"},
		{"error envelope", http.StatusTooManyRequests, `{"error":"quota exceeded"}`, "quota exceeded"},
		{"plain text body", http.StatusBadGateway, "upstream unavailable\n", "upstream unavailable"},
		{"empty body", http.StatusServiceUnavailable, "", "backend returned HTTP 503"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).StartCollection(context.Background(), testSpec())
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want StatusError", err)
			}
			if se.Code != tc.code {
				t.Errorf("Code = %d, want %d", se.Code, tc.code)
			}
			if se.Error() != tc.want {
				t.Errorf("Error() = %q, want %q", se.Error(), tc.want)
			}
			if !IsStatus(err, tc.code) {
				t.Errorf("IsStatus(err, %d) = false", tc.code)
			}
		})
	}
}

func TestShapeErrorOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"this is": "not a commit list"`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Commits(context.Background(), testSpec())
	var shape *ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("err = %v, want ShapeError", err)
	}
	if shape.Endpoint != "/api/data/commits" {
		t.Errorf("Endpoint = %q", shape.Endpoint)
	}
	if IsStatus(err, http.StatusOK) {
		t.Error("ShapeError misclassified as StatusError")
	}
}

func TestTransportErrorIsNotStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	// The injected client keeps the failure fast even if the refused
	// connection degrades to a timeout on some platforms.
	hc := &http.Client{Timeout: 2 * time.Second}
	_, err := New(srv.URL, WithHTTPClient(hc)).CollectionStatus(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Errorf("transport failure surfaced as StatusError: %v", err)
	}
}

func TestCommitDetailPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"message":"fix","author_name":"A","commit_date":null,"llm_scores":{},"llm_recommendations":""}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).CommitDetail(context.Background(), "0a1b2c3"); err != nil {
		t.Fatalf("CommitDetail: %v", err)
	}
	if gotPath != "/api/data/commits/0a1b2c3/details" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestStartCollectionReturnsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{"message":"Collection started for PROJ/backend"}`))
	}))
	defer srv.Close()

	msg, err := New(srv.URL).StartCollection(context.Background(), testSpec())
	if err != nil {
		t.Fatalf("StartCollection: %v", err)
	}
	if msg != "Collection started for PROJ/backend" {
		t.Errorf("message = %q", msg)
	}
}
