package service

import (
	"context"
	"testing"
	"time"

	"phishbowl/internal/core/analyzer"
	msgdom "phishbowl/internal/services/messages/domain"
	dom "phishbowl/internal/services/scan/domain"
)

type fakeReader struct {
	pages [][]msgdom.Row
	calls int
	input msgdom.ListInput
}

func (f *fakeReader) List(_ context.Context, in msgdom.ListInput) ([]msgdom.Row, msgdom.AfterKey, error) {
	f.input = in
	if f.calls >= len(f.pages) {
		return nil, msgdom.AfterKey{}, nil
	}
	rows := f.pages[f.calls]
	f.calls++
	var next msgdom.AfterKey
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		next = msgdom.AfterKey{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

type fakeMarker struct {
	ids     []string
	version int
}

func (f *fakeMarker) InsertBatch(context.Context, []msgdom.WriteInput) (int, error) { return 0, nil }
func (f *fakeMarker) MarkScanned(_ context.Context, ids []string, version int, _ time.Time) error {
	f.ids = append(f.ids, ids...)
	f.version = version
	return nil
}

type fakeWriter struct{ got []dom.AnalysisWrite }

func (f *fakeWriter) WriteBatch(_ context.Context, xs []dom.AnalysisWrite) error {
	f.got = append(f.got, xs...)
	return nil
}

type fakeSink struct{ got []dom.AnalysisWrite }

func (f *fakeSink) AppendEvents(_ context.Context, xs []dom.AnalysisWrite) error {
	f.got = append(f.got, xs...)
	return nil
}

func newAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	an, err := analyzer.New(analyzer.Options{})
	if err != nil {
		t.Fatalf("analyzer.New: %v", err)
	}
	return an
}

func hour(h int) time.Time {
	return time.Date(2026, 8, 1, h, 0, 0, 0, time.UTC)
}

func TestRunRange_AnalyzesAndPersists(t *testing.T) {
	rows := []msgdom.Row{
		{ID: "11111111-1111-1111-1111-111111111111", CreatedAt: hour(0),
			Body: "URGENT verify your paypal password http://bit.ly/x"},
		{ID: "22222222-2222-2222-2222-222222222222", CreatedAt: hour(1),
			Body: "lunch tomorrow?"},
	}
	rd := &fakeReader{pages: [][]msgdom.Row{rows}}
	mk := &fakeMarker{}
	w := &fakeWriter{}
	ev := &fakeSink{}

	s := New(rd, mk, w, ev, newAnalyzer(t), Config{Version: 3, Workers: 2, PageSize: 10})
	if err := s.RunRange(context.Background(), hour(0), hour(2)); err != nil {
		t.Fatalf("RunRange: %v", err)
	}

	if len(w.got) != 2 || len(ev.got) != 2 {
		t.Fatalf("persisted %d rows, %d events; want 2 and 2", len(w.got), len(ev.got))
	}
	if len(mk.ids) != 2 || mk.version != 3 {
		t.Fatalf("marked %v at version %d, want both ids at 3", mk.ids, mk.version)
	}
	if rd.input.UnscannedBelow != 3 {
		t.Fatalf("UnscannedBelow = %d, want the scan version", rd.input.UnscannedBelow)
	}

	// Output order matches input order despite the worker pool
	first := w.got[0]
	if first.MessageID != rows[0].ID {
		t.Fatalf("first write is %q, want %q", first.MessageID, rows[0].ID)
	}
	if first.ScanVersion != 3 || first.RunID == "" {
		t.Fatalf("write missing version/run id: %+v", first)
	}
	if first.Digest == "" || first.Excerpt == "" {
		t.Fatalf("write missing digest/excerpt: %+v", first)
	}
	if first.Score <= w.got[1].Score {
		t.Fatalf("phishing text scored %v, benign %v; want phishing higher", first.Score, w.got[1].Score)
	}
	if first.RunID != w.got[1].RunID {
		t.Fatal("all writes in one run must share a run id")
	}
}

func TestRunRange_DryRunWritesNothing(t *testing.T) {
	rd := &fakeReader{pages: [][]msgdom.Row{{
		{ID: "11111111-1111-1111-1111-111111111111", CreatedAt: hour(0), Body: "verify account"},
	}}}
	mk := &fakeMarker{}
	w := &fakeWriter{}

	s := New(rd, mk, w, nil, newAnalyzer(t), Config{DryRun: true})
	if err := s.RunRange(context.Background(), hour(0), hour(1)); err != nil {
		t.Fatalf("RunRange: %v", err)
	}
	if len(w.got) != 0 || len(mk.ids) != 0 {
		t.Fatalf("dry run wrote %d rows, marked %d", len(w.got), len(mk.ids))
	}
}

func TestRunRange_RejectsBadRanges(t *testing.T) {
	s := New(&fakeReader{}, &fakeMarker{}, &fakeWriter{}, nil, newAnalyzer(t),
		Config{MaxRangeHours: 24})

	if err := s.RunRange(context.Background(), hour(2), hour(0)); err == nil {
		t.Fatal("expected error for end before start")
	}
	if err := s.RunRange(context.Background(), hour(0), hour(0).Add(48*time.Hour)); err == nil {
		t.Fatal("expected error for range beyond MaxRangeHours")
	}
}

func TestRunRange_PagesUntilEmpty(t *testing.T) {
	page1 := []msgdom.Row{{ID: "11111111-1111-1111-1111-111111111111", CreatedAt: hour(0), Body: "a b"}}
	page2 := []msgdom.Row{{ID: "22222222-2222-2222-2222-222222222222", CreatedAt: hour(1), Body: "c d"}}
	rd := &fakeReader{pages: [][]msgdom.Row{page1, page2}}
	w := &fakeWriter{}

	s := New(rd, &fakeMarker{}, w, nil, newAnalyzer(t), Config{PageSize: 1})
	if err := s.RunRange(context.Background(), hour(0), hour(2)); err != nil {
		t.Fatalf("RunRange: %v", err)
	}
	if rd.calls != 2 || len(w.got) != 2 {
		t.Fatalf("calls=%d writes=%d, want 2 pages consumed", rd.calls, len(w.got))
	}
}

func TestRunRange_RecordsLangHint(t *testing.T) {
	an, err := analyzer.New(analyzer.Options{LangHint: true})
	if err != nil {
		t.Fatalf("analyzer.New: %v", err)
	}
	rd := &fakeReader{pages: [][]msgdom.Row{{
		{ID: "11111111-1111-1111-1111-111111111111", CreatedAt: hour(0),
			Body: "Please verify your account password before the deadline tomorrow."},
	}}}
	w := &fakeWriter{}

	s := New(rd, &fakeMarker{}, w, nil, an, Config{})
	if err := s.RunRange(context.Background(), hour(0), hour(1)); err != nil {
		t.Fatalf("RunRange: %v", err)
	}
	if len(w.got) != 1 {
		t.Fatalf("persisted %d rows, want 1", len(w.got))
	}
	if w.got[0].LangCode != "eng" {
		t.Fatalf("LangCode = %q, want eng", w.got[0].LangCode)
	}
}
