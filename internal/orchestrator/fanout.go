package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/n0conflict/internal/conflict"
	"github.com/dusk-indust/n0conflict/internal/lang"
	"github.com/dusk-indust/n0conflict/internal/resolver"
)

// dispatch resolves blocks in parallel, at most o.concurrency at a time.
// Results land in source-order slots regardless of completion order.
// Blocks not started before ctx is canceled are marked canceled.
func (o *Orchestrator) dispatch(ctx context.Context, path string, language lang.Language, blocks []conflict.Block, surrounding []string) []BlockResult {
	results := make([]BlockResult, len(blocks))
	started := make([]bool, len(blocks))

	for _, b := range blocks {
		o.emit(Event{Path: path, Block: b.Index, Line: b.StartLine, Status: EventPending})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, b := range blocks {
		if ctx.Err() != nil {
			break
		}
		fc := resolver.FileContext{Path: path, Language: language.Name}
		if i < len(surrounding) {
			fc.SurroundingText = surrounding[i]
		}
		started[i] = true

		g.Go(func() error {
			o.emit(Event{Path: path, Block: b.Index, Line: b.StartLine, Status: EventWorking})
			out := o.resolver.Resolve(gctx, b, fc)
			results[i] = BlockResult{Block: b, Outcome: out}
			o.emit(outcomeEvent(path, b, out))
			return nil
		})
	}
	_ = g.Wait()

	for i, b := range blocks {
		if started[i] {
			continue
		}
		out := resolver.Unresolved(resolver.KindCanceled, "not attempted: run canceled")
		results[i] = BlockResult{Block: b, Outcome: out}
		o.emit(outcomeEvent(path, b, out))
	}
	return results
}

// ResolveFiles resolves each input independently, several files at a time.
// Results are returned in input order.
func (o *Orchestrator) ResolveFiles(ctx context.Context, inputs []Input) []FileResult {
	results := make([]FileResult, len(inputs))
	g := new(errgroup.Group)
	g.SetLimit(o.fileConcurrency)

	for i, in := range inputs {
		g.Go(func() error {
			fr, err := o.ResolveFile(ctx, in)
			results[i] = FileResult{Input: in, Resolution: fr, Err: err}
			if err != nil {
				o.log.Warn("file not resolved", "path", in.Path, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func outcomeEvent(path string, b conflict.Block, out resolver.Outcome) Event {
	ev := Event{Path: path, Block: b.Index, Line: b.StartLine, Status: EventResolved}
	if explanation, ok := out.Explanation(); ok {
		ev.Status = EventUnresolved
		ev.Message = explanation
	}
	return ev
}
