package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/valpere/formtran/internal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok := &internal.TranslationResponse{
		Success:        true,
		TranslatedForm: &internal.Form{Questions: []internal.Question{{ID: 1}, {ID: 2}}},
	}
	if err := s.Record(ctx, internal.TranslationRequest{FormURL: "https://a", TargetLanguage: "Spanish"}, ok, nil, 1500*time.Millisecond); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.Record(ctx, internal.TranslationRequest{FormURL: "https://b", TargetLanguage: "klingon"}, nil, errors.New("Unsupported language: klingon"), time.Millisecond); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	records, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	latest, first := records[0], records[1]
	if latest.FormURL != "https://b" || latest.Success || latest.Error != "Unsupported language: klingon" {
		t.Errorf("unexpected latest record: %+v", latest)
	}
	if !first.Success || first.Questions != 2 || first.Duration != 1500*time.Millisecond || first.TargetLanguage != "spanish" {
		t.Errorf("unexpected first record: %+v", first)
	}
}

func TestStore_RecordFailureResponse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := "context canceled"
	resp := &internal.TranslationResponse{Success: false, Error: &msg}
	if err := s.Record(ctx, internal.TranslationRequest{FormURL: "u", TargetLanguage: "hindi"}, resp, nil, 0); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	records, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 || records[0].Success || records[0].Error != msg {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestStore_RecentLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.Record(ctx, internal.TranslationRequest{FormURL: "u", TargetLanguage: "french"}, &internal.TranslationResponse{Success: true}, nil, 0)
	}

	records, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	okResp := &internal.TranslationResponse{Success: true}
	s.Record(ctx, internal.TranslationRequest{FormURL: "u", TargetLanguage: "portuguese"}, okResp, nil, 100*time.Millisecond)
	s.Record(ctx, internal.TranslationRequest{FormURL: "u", TargetLanguage: "Portuguese"}, okResp, nil, 300*time.Millisecond)
	s.Record(ctx, internal.TranslationRequest{FormURL: "u", TargetLanguage: "german"}, nil, errors.New("fetch"), 200*time.Millisecond)

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	want := &Stats{
		Requests:       3,
		FailedRequests: 1,
		AvgDuration:    200 * time.Millisecond,
		ByLanguage: []LanguageStats{
			{Language: "portuguese", Requests: 2, Failed: 0},
			{Language: "german", Requests: 1, Failed: 1},
		},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Record(ctx, internal.TranslationRequest{FormURL: "old", TargetLanguage: "arabic"}, nil, errors.New("x"), 0)
	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)
	s.Record(ctx, internal.TranslationRequest{FormURL: "new", TargetLanguage: "arabic"}, nil, errors.New("x"), 0)

	n, err := s.Clear(ctx, cutoff)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	n, err = s.Clear(ctx, time.Time{})
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected remaining record deleted, got %d", n)
	}
}
