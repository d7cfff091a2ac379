package executor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/constants"
	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-buyer-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/types"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/identity"
	"github.com/feral-file/ff-buyer-indexer/internal/ingest"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
	"github.com/feral-file/ff-buyer-indexer/internal/store"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetIdentity resolves the display identity of one address
	GetIdentity(ctx context.Context, address string) (*domain.ResolvedIdentity, error)

	// GetIdentities resolves many addresses, deduplicated, in first occurrence order
	GetIdentities(ctx context.Context, addresses []string) (*dto.IdentitiesResponse, error)

	// GetLeaderboard ranks the buyers of a period and attaches their display identity
	GetLeaderboard(ctx context.Context, period types.Period, limit int) (*dto.LeaderboardResponse, error)

	// GetBuyer returns the profile of a buyer given its address or a known name.
	// It returns nil when a name matches no buyer.
	GetBuyer(ctx context.Context, addressOrName string, activityLimit int) (*dto.BuyerResponse, error)

	// TriggerIngest runs one ingestion pass
	TriggerIngest(ctx context.Context) ingest.Result

	// Health checks the database connection
	Health(ctx context.Context) error
}

type executor struct {
	store        store.Store
	resolver     identity.Resolver
	orchestrator ingest.Orchestrator
	clock        adapter.Clock
}

// NewExecutor creates an executor. orchestrator may be nil when ingestion is not configured.
func NewExecutor(store store.Store, resolver identity.Resolver, orchestrator ingest.Orchestrator, clock adapter.Clock) Executor {
	return &executor{store: store, resolver: resolver, orchestrator: orchestrator, clock: clock}
}

func (e *executor) GetIdentity(ctx context.Context, address string) (*domain.ResolvedIdentity, error) {
	resolved, err := e.resolver.ResolveIdentity(ctx, address)
	if err != nil {
		return nil, mapResolveError(err)
	}
	return &resolved, nil
}

func (e *executor) GetIdentities(ctx context.Context, addresses []string) (*dto.IdentitiesResponse, error) {
	resolved, err := e.resolver.ResolveIdentities(ctx, addresses, nil)
	if err != nil {
		return nil, mapResolveError(err)
	}
	return &dto.IdentitiesResponse{Identities: resolved}, nil
}

func (e *executor) GetLeaderboard(ctx context.Context, period types.Period, limit int) (*dto.LeaderboardResponse, error) {
	if !period.Valid() {
		return nil, apierrors.NewValidationError(fmt.Sprintf("unsupported period: %s", period))
	}
	if limit <= 0 {
		limit = constants.DEFAULT_LEADERBOARD_LIMIT
	}

	since := e.clock.Now().UTC().Add(-period.Duration())
	rows, err := e.store.GetLeaderboard(ctx, since, limit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get leaderboard: %v", err))
	}

	resolved := e.resolveMissing(ctx, rows)

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:         i + 1,
			Address:      row.Address,
			BuyCount:     row.BuyCount,
			UniqueTokens: row.UniqueTokens,
			LastActive:   row.LastActive,
			Identity:     resolved[row.Address],
		})
	}

	return &dto.LeaderboardResponse{
		Period:  period,
		Since:   since,
		Entries: entries,
	}, nil
}

// resolveMissing returns the display identity of every row. Rows without a stored
// identity are resolved through the resolver, falling back to the formatted address.
func (e *executor) resolveMissing(ctx context.Context, rows []store.LeaderboardEntry) map[string]domain.ResolvedIdentity {
	result := make(map[string]domain.ResolvedIdentity, len(rows))
	var missing []string
	for _, row := range rows {
		if row.Identity != nil {
			result[row.Address] = row.Identity.Resolve()
			continue
		}
		result[row.Address] = domain.FallbackIdentity(row.Address)
		missing = append(missing, row.Address)
	}

	if len(missing) == 0 {
		return result
	}

	resolved, err := e.resolver.ResolveIdentities(ctx, missing, nil)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to resolve leaderboard identities", zap.Error(err), zap.Int("missing", len(missing)))
		return result
	}
	for _, r := range resolved {
		result[r.Address] = r
	}
	return result
}

func (e *executor) GetBuyer(ctx context.Context, addressOrName string, activityLimit int) (*dto.BuyerResponse, error) {
	if activityLimit <= 0 {
		activityLimit = constants.DEFAULT_ACTIVITY_LIMIT
	}

	address, err := domain.NormalizeAddress(addressOrName)
	if err != nil {
		address, err = e.store.GetAddressByName(ctx, addressOrName)
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to look up name: %v", err))
		}
	}

	resolved, err := e.resolver.ResolveIdentity(ctx, address)
	if err != nil {
		return nil, mapResolveError(err)
	}

	stats, err := e.store.GetProfileStats(ctx, address)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get profile stats: %v", err))
	}

	events, err := e.store.GetActivityFeed(ctx, address, activityLimit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get activity: %v", err))
	}

	activity := make([]dto.BuyActivity, 0, len(events))
	for _, ev := range events {
		activity = append(activity, dto.MapBuyToDTO(ev))
	}

	return &dto.BuyerResponse{
		Identity: resolved,
		Stats:    *stats,
		Activity: activity,
	}, nil
}

// TriggerIngest detaches from the request context so a client disconnect does not abort a run
func (e *executor) TriggerIngest(ctx context.Context) ingest.Result {
	if e.orchestrator == nil {
		return ingest.Result{
			Message: "Ingestion is not configured",
			Error: &ingest.RunError{
				Code:    domain.CodeAuth,
				Message: "cdp credentials are not configured",
			},
		}
	}
	return e.orchestrator.IngestNewBuys(context.WithoutCancel(ctx), ingest.TriggerManual)
}

func (e *executor) Health(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Database unreachable: %v", err))
	}
	return nil
}

func mapResolveError(err error) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return apierrors.NewValidationError(validationErr.Error())
	}
	return apierrors.NewServiceError(fmt.Sprintf("Failed to resolve identity: %v", err))
}
