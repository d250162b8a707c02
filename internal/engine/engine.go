// Package engine is the asynchronous request surface for completion and
// signature help. Documents are added ahead of time; requests are scheduled
// onto a bounded worker pool and return futures so callers decide when to
// block.
package engine

import (
	"context"
	"runtime"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/standardbeagle/lcc/internal/collect"
	"github.com/standardbeagle/lcc/internal/config"
	lccerrors "github.com/standardbeagle/lcc/internal/errors"
	"github.com/standardbeagle/lcc/internal/index"
	"github.com/standardbeagle/lcc/internal/render"
	"github.com/standardbeagle/lcc/internal/sema"
	"github.com/standardbeagle/lcc/internal/signature"
)

// Engine owns the open documents, the per-file dynamic index, and the worker
// pool that bounds concurrent semantic work.
type Engine struct {
	docs     *documentStore
	dynamic  *index.FileSet
	analyzer sema.Analyzer
	sem      *semaphore.Weighted
	log      *zap.Logger

	buildDynamic bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithAnalyzer installs the semantic analyzer. Without one the engine serves
// index-only completion: local declarations are empty and no dynamic index is
// built.
func WithAnalyzer(a sema.Analyzer) Option {
	return func(e *Engine) { e.analyzer = a }
}

// WithLogger installs a structured logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithWorkers bounds concurrent request processing. n <= 0 means NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithDynamicIndex controls whether AddDocument rebuilds the per-file dynamic
// index. On by default when an analyzer is present.
func WithDynamicIndex(enabled bool) Option {
	return func(e *Engine) { e.buildDynamic = enabled }
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		docs:         newDocumentStore(),
		dynamic:      index.NewFileSet(),
		log:          zap.NewNop(),
		buildDynamic: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sem == nil {
		e.sem = semaphore.NewWeighted(int64(runtime.NumCPU()))
	}
	if e.analyzer == nil {
		e.buildDynamic = false
	}
	return e
}

// DynamicIndex exposes the engine's per-file index, for merging into tools
// that query outside a request.
func (e *Engine) DynamicIndex() *index.FileSet {
	return e.dynamic
}

// AddDocument registers or replaces the text for path. The text is visible to
// subsequent requests immediately; the dynamic-index rebuild runs
// asynchronously and the returned future resolves when it lands. A rebuild
// that loses the race to a newer version of the same file is discarded.
func (e *Engine) AddDocument(ctx context.Context, path, text string) *Future[struct{}] {
	doc := e.docs.put(path, text)
	fut := newFuture[struct{}]()

	if !e.buildDynamic {
		fut.publish(struct{}{}, nil)
		return fut
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		fut.publish(struct{}{}, err)
		return fut
	}
	go func() {
		defer e.sem.Release(1)
		syms, err := e.analyzer.FileSymbols(ctx, doc)
		if err != nil {
			e.log.Warn("dynamic index rebuild failed",
				zap.String("path", path),
				zap.Int("version", doc.Version),
				zap.Error(err))
			fut.publish(struct{}{}, err)
			return
		}
		if e.dynamic.Update(path, doc.Version, syms) {
			e.log.Debug("dynamic index updated",
				zap.String("path", path),
				zap.Int("version", doc.Version),
				zap.Int("symbols", len(syms)))
		}
		fut.publish(struct{}{}, nil)
	}()
	return fut
}

// RemoveDocument drops path's text and its dynamic-index contribution.
func (e *Engine) RemoveDocument(path string) {
	e.docs.remove(path)
	e.dynamic.Remove(path)
}

// Request is one completion or signature-help request.
type Request struct {
	Path   string
	Offset int

	// Contents overrides the stored document text for this request only.
	// The stored text and dynamic index are left untouched.
	Contents *string

	Options config.Options
}

// Complete schedules a completion request and returns its future.
func (e *Engine) Complete(ctx context.Context, req Request) *Future[protocol.CompletionList] {
	return schedule(e, ctx, func(ctx context.Context) (protocol.CompletionList, error) {
		doc, err := e.resolve(req)
		if err != nil {
			return protocol.CompletionList{}, err
		}

		cur := CursorContextAt(doc.Text, req.Offset)

		var decls []sema.Decl
		if e.analyzer != nil {
			decls, err = e.analyzer.Declarations(ctx, doc, cur)
			if err != nil {
				return protocol.CompletionList{}, err
			}
		}

		coll := collect.Collector{
			Index: index.Merge(e.dynamicIndex(), req.Options.Index),
			Opts:  req.Options,
		}
		cands := coll.Collect(cur, decls)

		e.log.Debug("completion served",
			zap.String("path", doc.Path),
			zap.Int("offset", req.Offset),
			zap.String("filter", cur.Filter),
			zap.Int("candidates", len(cands)))

		return render.List(cands, req.Options), nil
	})
}

// SignatureHelp schedules a signature-help request and returns its future.
func (e *Engine) SignatureHelp(ctx context.Context, req Request) *Future[protocol.SignatureHelp] {
	return schedule(e, ctx, func(ctx context.Context) (protocol.SignatureHelp, error) {
		doc, err := e.resolve(req)
		if err != nil {
			return protocol.SignatureHelp{}, err
		}
		if e.analyzer == nil {
			return signature.Help(nil), nil
		}
		call, err := e.analyzer.CallSite(ctx, doc, req.Offset)
		if err != nil {
			return protocol.SignatureHelp{}, err
		}
		return signature.Help(call), nil
	})
}

// resolve produces the document snapshot a request operates on and validates
// the cursor offset against it.
func (e *Engine) resolve(req Request) (sema.Document, error) {
	var doc sema.Document
	if req.Contents != nil {
		doc = sema.Document{Path: req.Path, Text: *req.Contents}
		if stored, ok := e.docs.get(req.Path); ok {
			doc.Version = stored.Version
		}
	} else {
		stored, ok := e.docs.get(req.Path)
		if !ok {
			return sema.Document{}, lccerrors.NewUnknownDocumentError(req.Path)
		}
		doc = stored
	}
	if req.Offset < 0 || req.Offset > len(doc.Text) {
		return sema.Document{}, lccerrors.NewInvalidOffsetError(req.Path, req.Offset, len(doc.Text))
	}
	return doc, nil
}

// dynamicIndex returns the dynamic index as a mergeable handle, or nil when
// dynamic indexing is off so Merge can elide it entirely.
func (e *Engine) dynamicIndex() index.Index {
	if !e.buildDynamic {
		return nil
	}
	return e.dynamic
}

// schedule runs fn on the worker pool and publishes its result. Acquiring a
// slot respects ctx, so a cancelled caller never queues work.
func schedule[T any](e *Engine, ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	fut := newFuture[T]()
	if err := e.sem.Acquire(ctx, 1); err != nil {
		var zero T
		fut.publish(zero, err)
		return fut
	}
	go func() {
		defer e.sem.Release(1)
		fut.publish(fn(ctx))
	}()
	return fut
}
