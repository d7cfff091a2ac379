package identity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

// Source is one identity lookup in the waterfall. A nil result means nothing was found.
//
//go:generate mockgen -source=waterfall.go -destination=../mocks/identity_source.go -package=mocks -mock_names=Source=MockIdentitySource
type Source interface {
	// Name returns the source tag used in logs
	Name() string

	// Lookup returns what the source knows about a lowercased address
	Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error)
}

// Step is one position in the waterfall
type Step struct {
	Source Source
	// Always runs the step even when a display name is already known
	Always bool
	// Terminal steps only run when nothing else produced a name. A contract result clears names.
	Terminal bool
}

// Sources are the lookups of the default waterfall. Nil entries are skipped.
type Sources struct {
	Manual    Source
	Basename  Source
	Farcaster Source
	Zora      Source
	ENS       Source
	Bytecode  Source
}

// Steps returns the waterfall in priority order:
// manual, basename, farcaster (always), zora, ens, bytecode probe
func (s Sources) Steps() []Step {
	candidates := []Step{
		{Source: s.Manual},
		{Source: s.Basename},
		{Source: s.Farcaster, Always: true},
		{Source: s.Zora},
		{Source: s.ENS},
		{Source: s.Bytecode, Terminal: true},
	}

	steps := make([]Step, 0, len(candidates))
	for _, c := range candidates {
		if c.Source != nil {
			steps = append(steps, c)
		}
	}
	return steps
}

// Waterfall runs identity sources in order. Source failures are logged and treated as not found.
type Waterfall struct {
	steps   []Step
	timeout time.Duration
	clock   adapter.Clock
}

// NewWaterfall creates a waterfall. timeout bounds each source call; zero means no bound.
func NewWaterfall(steps []Step, timeout time.Duration, clock adapter.Clock) *Waterfall {
	return &Waterfall{steps: steps, timeout: timeout, clock: clock}
}

// Steps returns the configured steps in order
func (w *Waterfall) Steps() []Step {
	return w.steps
}

// Resolve builds a fresh identity for a normalized address. It returns the
// context error when ctx ends before every step has run. The partial identity
// is still returned but must not be cached as a negative result.
func (w *Waterfall) Resolve(ctx context.Context, address string) (domain.Identity, error) {
	id := domain.Identity{Address: address}

	for _, step := range w.steps {
		if err := ctx.Err(); err != nil {
			return id, err
		}

		named := id.HasName()
		if named && !step.Always {
			continue
		}

		partial := w.lookup(ctx, step.Source, address)
		if partial == nil {
			continue
		}

		if step.Terminal && partial.IsContract {
			id.ClearNames()
			id.IsContract = true
			continue
		}
		merge(&id, partial)
	}

	// the last lookup may have been cut short by ctx rather than its own timeout
	if err := ctx.Err(); err != nil {
		return id, err
	}

	id.UpdatedAt = w.clock.Now()
	return id, nil
}

func (w *Waterfall) lookup(ctx context.Context, source Source, address string) *domain.PartialIdentity {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	partial, err := source.Lookup(ctx, address)
	if err != nil {
		logger.WarnCtx(ctx, "Identity source failed",
			zap.String("source", source.Name()),
			zap.String("address", address),
			zap.Error(err),
		)
		return nil
	}
	return partial
}

// merge fills fields that are still empty. Earlier sources win.
func merge(id *domain.Identity, p *domain.PartialIdentity) {
	fill(&id.ManualName, p.ManualName)
	fill(&id.BaseName, p.BaseName)
	fill(&id.ENSName, p.ENSName)
	fill(&id.FarcasterUsername, p.FarcasterUsername)
	fill(&id.ZoraHandle, p.ZoraHandle)
	fill(&id.AvatarURL, p.AvatarURL)
	if id.FarcasterFID == nil && p.FarcasterFID != nil {
		fid := *p.FarcasterFID
		id.FarcasterFID = &fid
	}
}

func fill(dst **string, src *string) {
	if (*dst == nil || **dst == "") && src != nil && *src != "" {
		v := *src
		*dst = &v
	}
}
