// Package textcache keeps a plain-text rendering next to each paper's PDF
// and regenerates it only when the PDF is newer.
package textcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/citegraph/citegraph/internal/paper"
	"golang.org/x/sync/singleflight"
)

// Status is the outcome of a text lookup.
type Status int

const (
	// Absent means the paper has no document; it is not an error.
	Absent Status = iota
	// Available means Text holds the document's plain text.
	Available
	// Failed means the document exists but its text could not be produced.
	Failed
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Available:
		return "available"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is returned by Cache.Get.
type Result struct {
	Status Status
	Text   string
	Err    error // set when Status is Failed
}

// ExtractionError reports an extractor failure for one paper.
type ExtractionError struct {
	Key      string
	Document string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text for %s from %s: %v", e.Key, e.Document, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extraction describes one regeneration of a cached text file.
type Extraction struct {
	Key             string
	Document        string
	TextPath        string
	Extractor       string
	DocumentModTime time.Time
	Bytes           int
	Duration        time.Duration
}

// Recorder is notified of every successful extraction.
type Recorder interface {
	RecordExtraction(ctx context.Context, ex Extraction) error
}

// Cache produces document text on demand. It is safe for concurrent use;
// concurrent lookups of one paper share a single extraction.
type Cache struct {
	extractor Extractor
	recorder  Recorder
	logger    *slog.Logger
	group     singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder reports extractions to r.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) { c.recorder = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New creates a cache that regenerates text with ext.
func New(ext Extractor, opts ...Option) *Cache {
	c := &Cache{extractor: ext, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the plain text of p's document.
func (c *Cache) Get(ctx context.Context, p *paper.Paper) Result {
	v, err, _ := c.group.Do(p.Key, func() (interface{}, error) {
		return c.load(ctx, p)
	})
	if err != nil {
		if errors.Is(err, errAbsent) {
			return Result{Status: Absent}
		}
		return Result{Status: Failed, Err: err}
	}
	return Result{Status: Available, Text: v.(string)}
}

var errAbsent = errors.New("no document")

func (c *Cache) load(ctx context.Context, p *paper.Paper) (string, error) {
	doc := p.DocumentPath()
	docInfo, err := os.Stat(doc)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errAbsent
		}
		return "", fmt.Errorf("checking document for %s: %w", p.Key, err)
	}

	textPath := p.TextPath()
	if !isFresh(textPath, docInfo.ModTime()) {
		if err := c.regenerate(ctx, p, docInfo.ModTime()); err != nil {
			return "", err
		}
	}

	data, err := os.ReadFile(textPath)
	if err != nil {
		return "", fmt.Errorf("reading cached text for %s: %w", p.Key, err)
	}
	return string(data), nil
}

func (c *Cache) regenerate(ctx context.Context, p *paper.Paper, docModTime time.Time) error {
	start := time.Now()
	c.logger.Debug("extracting text", "key", p.Key, "extractor", c.extractor.Name())

	if err := c.extractor.Extract(ctx, p.DocumentPath(), p.TextPath()); err != nil {
		return &ExtractionError{Key: p.Key, Document: p.DocumentPath(), Err: err}
	}

	if c.recorder == nil {
		return nil
	}
	info, err := os.Stat(p.TextPath())
	if err != nil {
		return fmt.Errorf("checking extracted text for %s: %w", p.Key, err)
	}
	ex := Extraction{
		Key:             p.Key,
		Document:        p.DocumentPath(),
		TextPath:        p.TextPath(),
		Extractor:       c.extractor.Name(),
		DocumentModTime: docModTime,
		Bytes:           int(info.Size()),
		Duration:        time.Since(start),
	}
	if err := c.recorder.RecordExtraction(ctx, ex); err != nil {
		c.logger.Warn("recording extraction", "key", p.Key, "error", err)
	}
	return nil
}

// isFresh reports whether the text at path exists and is not older than
// the document.
func isFresh(path string, docModTime time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.ModTime().Before(docModTime)
}
