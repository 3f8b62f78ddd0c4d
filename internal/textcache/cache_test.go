package textcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/citegraph/citegraph/internal/paper"
)

// fakeExtractor writes a fixed text per document and counts invocations.
type fakeExtractor struct {
	texts map[string]string // document base name -> text
	fail  error
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(ctx context.Context, src, dst string) error {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail != nil {
		return f.fail
	}
	return os.WriteFile(dst, []byte(f.texts[filepath.Base(src)]), 0644)
}

type memRecorder struct {
	mu  sync.Mutex
	got []Extraction
}

func (m *memRecorder) RecordExtraction(ctx context.Context, ex Extraction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, ex)
	return nil
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestCache_AbsentDocument(t *testing.T) {
	dir := t.TempDir()
	ext := &fakeExtractor{}
	c := New(ext)

	res := c.Get(context.Background(), paper.New("Missing", "T", "2000", dir))
	if res.Status != Absent {
		t.Errorf("Status = %v, want absent", res.Status)
	}
	if res.Err != nil {
		t.Errorf("absent document should not carry an error, got %v", res.Err)
	}
	if ext.calls.Load() != 0 {
		t.Error("extractor should not run without a document")
	}
}

func TestCache_ExtractsWhenNoCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.pdf"), "%PDF", time.Now())
	ext := &fakeExtractor{texts: map[string]string{"A.pdf": "text of A"}}
	rec := &memRecorder{}
	c := New(ext, WithRecorder(rec))

	res := c.Get(context.Background(), paper.New("A", "T", "2000", dir))
	if res.Status != Available || res.Text != "text of A" {
		t.Fatalf("Get() = %+v", res)
	}
	if ext.calls.Load() != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls.Load())
	}
	data, err := os.ReadFile(filepath.Join(dir, "A.txt"))
	if err != nil || string(data) != "text of A" {
		t.Errorf("cached text = %q, %v", data, err)
	}
	if len(rec.got) != 1 || rec.got[0].Key != "A" || rec.got[0].Bytes != len("text of A") || rec.got[0].Extractor != "fake" {
		t.Errorf("recorded = %+v", rec.got)
	}
}

func TestCache_ReusesFreshText(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)
	writeFile(t, filepath.Join(dir, "A.pdf"), "%PDF", old)
	writeFile(t, filepath.Join(dir, "A.txt"), "cached", old) // same mtime counts as fresh
	ext := &fakeExtractor{texts: map[string]string{"A.pdf": "regenerated"}}
	c := New(ext)

	for i := 0; i < 3; i++ {
		res := c.Get(context.Background(), paper.New("A", "T", "2000", dir))
		if res.Text != "cached" {
			t.Fatalf("Get() text = %q, want cached", res.Text)
		}
	}
	if ext.calls.Load() != 0 {
		t.Errorf("extractor calls = %d, want 0", ext.calls.Load())
	}
}

func TestCache_RegeneratesStaleText(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, filepath.Join(dir, "A.txt"), "stale", now.Add(-2*time.Hour))
	writeFile(t, filepath.Join(dir, "A.pdf"), "%PDF", now.Add(-time.Hour))
	ext := &fakeExtractor{texts: map[string]string{"A.pdf": "new text"}}
	c := New(ext)

	res := c.Get(context.Background(), paper.New("A", "T", "2000", dir))
	if res.Text != "new text" {
		t.Errorf("Get() text = %q, want regenerated", res.Text)
	}
	if ext.calls.Load() != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls.Load())
	}
}

func TestCache_ExtractionFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.pdf"), "%PDF", time.Now())
	boom := errors.New("exit status 1")
	c := New(&fakeExtractor{fail: boom})

	res := c.Get(context.Background(), paper.New("A", "T", "2000", dir))
	if res.Status != Failed {
		t.Fatalf("Status = %v, want failed", res.Status)
	}
	var exErr *ExtractionError
	if !errors.As(res.Err, &exErr) {
		t.Fatalf("expected *ExtractionError, got %v", res.Err)
	}
	if exErr.Key != "A" || !errors.Is(res.Err, boom) {
		t.Errorf("unexpected error %v", res.Err)
	}
}

func TestCache_ConcurrentGetsShareExtraction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.pdf"), "%PDF", time.Now())
	ext := &fakeExtractor{texts: map[string]string{"A.pdf": "shared"}, delay: 50 * time.Millisecond}
	c := New(ext)
	p := paper.New("A", "T", "2000", dir)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res := c.Get(context.Background(), p); res.Text != "shared" {
				t.Errorf("Get() = %+v", res)
			}
		}()
	}
	wg.Wait()

	if n := ext.calls.Load(); n != 1 {
		t.Errorf("extractor calls = %d, want 1", n)
	}
}

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"", ExtractorPDFToText, false},
		{"pdftotext", ExtractorPDFToText, false},
		{"builtin", ExtractorBuiltin, false},
		{"ocr", "", true},
	}
	for _, tt := range tests {
		ext, err := NewExtractor(tt.name, "")
		if (err != nil) != tt.wantErr {
			t.Errorf("NewExtractor(%q) error = %v", tt.name, err)
			continue
		}
		if err == nil && ext.Name() != tt.wantName {
			t.Errorf("NewExtractor(%q).Name() = %q, want %q", tt.name, ext.Name(), tt.wantName)
		}
	}
}

func TestPDFToText_FailureLeavesNoText(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "A.txt")
	ext := &PDFToText{Program: filepath.Join(dir, "no-such-pdftotext")}

	if err := ext.Extract(context.Background(), filepath.Join(dir, "A.pdf"), dst); err == nil {
		t.Fatal("expected error from missing program")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("text file should not exist after failure, stat err = %v", err)
	}
}
