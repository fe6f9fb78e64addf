// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"episum/internal/logfile"
	"episum/internal/logline"
	"episum/internal/summary"
)

// Stats counts what a run has seen.
type Stats struct {
	Files        int
	Lines        int
	InfoLines    int
	Ticks        int
	Blocks       int
	Targets      int
	Samplings    int
	Unrecognized int
	Malformed    int
	Orphans      int
}

// Fields renders s for structured logging.
func (s Stats) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("files", s.Files),
		zap.Int("lines", s.Lines),
		zap.Int("info_lines", s.InfoLines),
		zap.Int("ticks", s.Ticks),
		zap.Int("blocks", s.Blocks),
		zap.Int("targets", s.Targets),
		zap.Int("samplings", s.Samplings),
		zap.Int("unrecognized", s.Unrecognized),
		zap.Int("malformed", s.Malformed),
		zap.Int("orphans", s.Orphans),
	}
}

// Processor drives one Builder across any number of inputs.
type Processor struct {
	b     *summary.Builder
	log   *zap.Logger
	stats Stats
}

// New returns a Processor feeding b. A nil logger discards diagnostics.
func New(b *summary.Builder, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{b: b, log: log}
}

// Stats returns the counters accumulated so far.
func (p *Processor) Stats() Stats { return p.stats }

// ProcessFiles reads paths in order. It stops at the first file that cannot
// be opened or read, returning a *logfile.AccessError, or when ctx is done.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.log.Info("processing file", zap.String("file", path))
		err := logfile.ForEachLine(ctx, path, func(n int, line string) {
			p.ProcessLine(path, n, line)
		})
		if err != nil {
			return err
		}
		p.stats.Files++
	}
	return nil
}

// ProcessLine classifies one raw line and applies it.
func (p *Processor) ProcessLine(source string, lineNo int, line string) {
	p.stats.Lines++
	ev, err := logline.Parse(line)
	if err != nil {
		p.stats.Malformed++
		p.log.Warn("skipping malformed line",
			zap.String("file", source), zap.Int("line", lineNo), zap.Error(err))
		return
	}
	if ev.Kind == logline.Irrelevant {
		return
	}
	p.stats.InfoLines++
	if err := p.Apply(ev); errors.Is(err, summary.ErrOrphanEvent) {
		p.stats.Orphans++
		p.log.Debug("ignoring event outside of a block",
			zap.String("file", source), zap.Int("line", lineNo), zap.Stringer("event", ev.Kind))
	}
}

// Apply hands a classified event to the builder. Unrecognized and irrelevant
// events are counted and otherwise ignored.
func (p *Processor) Apply(ev logline.Event) error {
	switch ev.Kind {
	case logline.TickStart:
		p.stats.Ticks++
		p.b.StartTick(ev.ID)
		return nil
	case logline.InitBlockStart:
		p.stats.Blocks++
		return p.b.StartBlock(summary.Initialization, ev.ID)
	case logline.InterventionBlockStart:
		p.stats.Blocks++
		return p.b.StartBlock(summary.Intervention, ev.ID)
	case logline.ActionEnsembleTarget:
		p.stats.Targets++
		return p.b.Target(ev.TargetSetSize, ev.Ignored)
	case logline.SamplingCounts:
		p.stats.Samplings++
		return p.b.Sampling(ev.Sampled, ev.NotSampled)
	case logline.Unrecognized:
		p.stats.Unrecognized++
	}
	return nil
}
