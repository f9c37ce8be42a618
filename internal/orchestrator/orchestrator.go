// Package orchestrator drives resolution of whole files: it parses the
// text, fans blocks out to a Resolver with bounded concurrency and
// assembles the final content only when every block was resolved.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dusk-indust/n0conflict/internal/conflict"
	"github.com/dusk-indust/n0conflict/internal/lang"
	"github.com/dusk-indust/n0conflict/internal/resolver"
)

const (
	// DefaultConcurrency bounds in-flight block resolutions per file.
	DefaultConcurrency = 4
	// DefaultFileConcurrency bounds files resolved at once by ResolveFiles.
	DefaultFileConcurrency = 2
)

// Resolver resolves a single block. *resolver.Engine satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, block conflict.Block, fc resolver.FileContext) resolver.Outcome
}

// ContextBuilder produces the surrounding context sent with each block.
// Build returns one entry per block of doc, in block order; missing or
// empty entries mean no context for that block.
type ContextBuilder interface {
	Build(ctx context.Context, doc *conflict.Document, language lang.Language) []string
}

// Input is one file to resolve.
type Input struct {
	Path string
	Text string
	// Language overrides detection from Path when known.
	Language lang.Language
}

// Orchestrator resolves files. It is safe for concurrent use.
type Orchestrator struct {
	resolver        Resolver
	contexts        ContextBuilder
	concurrency     int
	fileConcurrency int
	onProgress      func(Event)
	log             *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency bounds how many blocks of one file are resolved at once.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithFileConcurrency bounds how many files ResolveFiles works on at once.
func WithFileConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.fileConcurrency = n
		}
	}
}

// WithContextBuilder sets the source of per-block surrounding context.
func WithContextBuilder(b ContextBuilder) Option {
	return func(o *Orchestrator) { o.contexts = b }
}

// WithProgress registers a callback invoked for every progress event. It is
// called from worker goroutines and must be safe for concurrent use.
func WithProgress(fn func(Event)) Option {
	return func(o *Orchestrator) { o.onProgress = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// New creates an Orchestrator that resolves blocks with r.
func New(r Resolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver:        r,
		concurrency:     DefaultConcurrency,
		fileConcurrency: DefaultFileConcurrency,
		log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ResolveFile parses in.Text and resolves every conflict block.
//
// Malformed markers are reported as an error wrapping *conflict.ParseError
// and no block is attempted. When ctx is canceled the partially filled
// resolution is returned together with ctx.Err(); blocks that never
// started are recorded as canceled.
func (o *Orchestrator) ResolveFile(ctx context.Context, in Input) (*FileResolution, error) {
	doc, err := conflict.Parse(in.Text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", in.Path, err)
	}

	language := in.Language
	if !language.Known() {
		language = lang.Detect(in.Path)
	}
	fr := &FileResolution{Path: in.Path, Language: language, doc: doc}
	log := o.log.With("path", in.Path)

	if len(doc.Blocks) == 0 {
		log.Debug("no conflict blocks")
		fr.finish()
		return fr, nil
	}

	var surrounding []string
	if o.contexts != nil {
		surrounding = o.contexts.Build(ctx, doc, language)
	}

	log.Debug("resolving file", "blocks", len(doc.Blocks), "language", language.Name)
	fr.Blocks = o.dispatch(ctx, in.Path, language, doc.Blocks, surrounding)
	fr.finish()

	if err := ctx.Err(); err != nil {
		return fr, err
	}
	log.Info("file processed", "blocks", len(fr.Blocks), "allResolved", fr.AllResolved())
	return fr, nil
}

// FileResult pairs an input with its resolution or error.
type FileResult struct {
	Input      Input
	Resolution *FileResolution
	Err        error
}

func (o *Orchestrator) emit(ev Event) {
	if o.onProgress != nil {
		o.onProgress(ev)
	}
}
