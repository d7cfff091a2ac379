package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/identity"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
	"github.com/feral-file/ff-buyer-indexer/internal/providers/cdp"
	"github.com/feral-file/ff-buyer-indexer/internal/providers/zora"
	"github.com/feral-file/ff-buyer-indexer/internal/store"
)

// Run triggers
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// Orchestrator runs incremental ingestion
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/ingest_orchestrator.go -package=mocks -mock_names=Orchestrator=MockIngestOrchestrator
type Orchestrator interface {
	// IngestNewBuys performs one run. It never returns an error: failures are
	// reported in the result so a failed run cannot take down the caller.
	IngestNewBuys(ctx context.Context, trigger string) Result
}

// Result is the outcome of one run
type Result struct {
	OK        bool      `json:"ok"`
	RunID     string    `json:"runId,omitempty"`
	Message   string    `json:"message"`
	Count     int       `json:"count"`
	Inserted  int64     `json:"inserted"`
	NewCursor string    `json:"newCursor,omitempty"`
	Error     *RunError `json:"error,omitempty"`
}

// RunError is the structured failure of a run
type RunError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// NewRunError maps err onto the error taxonomy
func NewRunError(err error) *RunError {
	return &RunError{
		Code:      domain.ErrorCode(err),
		Message:   err.Error(),
		Retryable: domain.IsRetryable(err),
	}
}

// Config holds run settings
type Config struct {
	// Lookback is the cold-start window used when no cursor is stored
	Lookback time.Duration
	// CoinLookback bounds which factory-created coins are tracked
	CoinLookback time.Duration
	RowCap       int
	Factory      string
	// FeedLimit is the number of activity-feed rows requested per run
	FeedLimit  int
	RunTimeout time.Duration
}

const (
	// maxRowCapGrowth bounds how often a run doubles its row cap
	maxRowCapGrowth = 3

	cursorWriteTimeout = 10 * time.Second
)

var errRowCapExhausted = errors.New("raise ingest.row_cap")

type orchestrator struct {
	store    store.Store
	cdp      cdp.Client
	feed     zora.FeedClient
	resolver identity.Resolver
	clock    adapter.Clock
	config   Config

	running atomic.Bool
}

// NewOrchestrator creates an orchestrator. feed is optional.
func NewOrchestrator(st store.Store, cdpClient cdp.Client, feed zora.FeedClient, resolver identity.Resolver, clock adapter.Clock, cfg Config) Orchestrator {
	return &orchestrator{
		store:    st,
		cdp:      cdpClient,
		feed:     feed,
		resolver: resolver,
		clock:    clock,
		config:   cfg,
	}
}

func (o *orchestrator) IngestNewBuys(ctx context.Context, trigger string) Result {
	if !o.running.CompareAndSwap(false, true) {
		logger.InfoCtx(ctx, "Ingestion run skipped, another run is active", zap.String("trigger", trigger))
		return failure(domain.ErrRunInProgress)
	}
	defer o.running.Store(false)

	runID := ulid.Make().String()
	ctx = logger.WithRun(ctx, logger.RunInfo{RunID: runID, Trigger: trigger})
	if o.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.RunTimeout)
		defer cancel()
	}

	start := o.clock.Now()
	logger.InfoCtx(ctx, "Ingestion run started")

	result := o.run(ctx)
	result.RunID = runID

	fields := []zap.Field{
		zap.Bool("ok", result.OK),
		zap.Int("count", result.Count),
		zap.Int64("inserted", result.Inserted),
		zap.String("new_cursor", result.NewCursor),
		zap.Duration("duration", o.clock.Since(start)),
	}
	if result.OK {
		logger.InfoCtx(ctx, result.Message, fields...)
	} else {
		logger.ErrorCtx(ctx, errors.New(result.Error.Message), append(fields, zap.String("code", result.Error.Code))...)
	}

	return result
}

func (o *orchestrator) run(ctx context.Context) Result {
	cursor, cursorTime, err := o.loadCursor(ctx)
	if err != nil {
		return failure(err)
	}

	rows, ceiling, err := o.fetch(ctx, cursor)
	if err != nil {
		return failure(err)
	}

	events := o.normalize(ctx, rows, cursorTime, ceiling)
	if len(events) == 0 {
		return Result{OK: true, Message: "No new buys", NewCursor: cursor}
	}

	inserted, err := o.store.InsertBuys(ctx, events)
	if err != nil {
		return o.partial(ctx, events, inserted, err)
	}

	newCursor := domain.FormatCursor(events[len(events)-1].BlockTime)
	if err := o.saveCursor(ctx, newCursor); err != nil {
		res := failure(fmt.Errorf("failed to advance cursor: %w", err))
		res.Count, res.Inserted, res.NewCursor = len(events), inserted.Inserted, cursor
		return res
	}

	o.resolveBuyers(ctx, events)

	return Result{
		OK:        true,
		Message:   fmt.Sprintf("Ingested %d buys", len(events)),
		Count:     len(events),
		Inserted:  inserted.Inserted,
		NewCursor: newCursor,
	}
}

// saveCursor writes the cursor detached from the run deadline. Rows are
// already persisted at this point and the cursor has to follow them.
func (o *orchestrator) saveCursor(ctx context.Context, cursor string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cursorWriteTimeout)
	defer cancel()
	return o.store.SetCursor(ctx, domain.CursorKey, cursor)
}

// loadCursor returns the canonical cursor and its time. A missing or unreadable
// stored value falls back to the cold-start lookback window.
func (o *orchestrator) loadCursor(ctx context.Context) (string, time.Time, error) {
	stored, err := o.store.GetCursor(ctx, domain.CursorKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to load cursor: %w", err)
	}

	if stored != "" {
		cursor, err := domain.SanitizeCursor(stored)
		if err == nil {
			t, _ := domain.ParseBlockTime(cursor)
			return cursor, t, nil
		}
		logger.WarnCtx(ctx, "Stored cursor is unreadable, using lookback window",
			zap.String("cursor", stored), zap.Error(err))
	}

	t := o.clock.Now().Add(-o.config.Lookback).UTC().Truncate(time.Second)
	return domain.FormatCursor(t), t, nil
}

// fetch runs the primary query and merges the optional activity feed.
//
// A query that fills its row cap may have left rows at its newest block time
// unfetched, so that time is returned as an exclusive ceiling for this run.
// When every row shares one block time the cap is raised instead, since no
// row below the ceiling would remain. The run fails once the cap cannot grow.
func (o *orchestrator) fetch(ctx context.Context, cursor string) ([]domain.QueryRow, time.Time, error) {
	var (
		rows    []domain.QueryRow
		ceiling time.Time
	)

	rowCap := o.config.RowCap
	for growth := 0; ; growth++ {
		sql, err := cdp.BuildBuysQuery(cdp.BuysQuery{
			Cursor:    cursor,
			CoinSince: o.clock.Now().Add(-o.config.CoinLookback),
			RowCap:    rowCap,
			Factory:   o.config.Factory,
		})
		if err != nil {
			return nil, time.Time{}, err
		}

		rows, err = o.cdp.QueryWithRetry(ctx, sql)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("buy query failed: %w", err)
		}
		logger.DebugCtx(ctx, "Buy query returned", zap.Int("rows", len(rows)), zap.Int("row_cap", rowCap))

		if len(rows) < rowCap {
			break
		}

		oldest, newest := timeSpan(rows)
		if newest.IsZero() {
			break
		}
		if oldest.Before(newest) {
			ceiling = newest
			break
		}
		if growth == maxRowCapGrowth {
			return nil, time.Time{}, fmt.Errorf("row cap %d is filled by buys at %s: %w",
				rowCap, domain.FormatCursor(newest), errRowCapExhausted)
		}
		logger.WarnCtx(ctx, "Row cap filled by a single block time, raising cap for this run",
			zap.Int("row_cap", rowCap), zap.String("block_time", domain.FormatCursor(newest)))
		rowCap *= 2
	}

	if o.feed == nil {
		return rows, ceiling, nil
	}

	feedRows, err := o.feed.RecentBuys(ctx, o.config.FeedLimit)
	switch {
	case errors.Is(err, domain.ErrFeedDisabled):
		return rows, ceiling, nil
	case err != nil:
		logger.WarnCtx(ctx, "Activity feed failed, continuing with query rows", zap.Error(err))
		return rows, ceiling, nil
	}

	return append(rows, feedRows...), ceiling, nil
}

// timeSpan returns the oldest and newest parseable block times of rows
func timeSpan(rows []domain.QueryRow) (time.Time, time.Time) {
	var oldest, newest time.Time
	for _, r := range rows {
		t, err := domain.ParseBlockTime(r.BlockTime)
		if err != nil {
			continue
		}
		if oldest.IsZero() || t.Before(oldest) {
			oldest = t
		}
		if t.After(newest) {
			newest = t
		}
	}
	return oldest, newest
}

// normalize maps rows to events strictly after the cursor and, when a ceiling
// is set, strictly before it. Events are deduplicated by uniqueness key (first
// row wins) and sorted by block time.
func (o *orchestrator) normalize(ctx context.Context, rows []domain.QueryRow, cursor, ceiling time.Time) []domain.BuyEvent {
	seen := make(map[string]struct{}, len(rows))
	events := make([]domain.BuyEvent, 0, len(rows))
	deferred := 0

	for _, row := range rows {
		event, err := toEvent(row)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping malformed row", zap.String("tx_hash", row.TxHash), zap.Error(err))
			continue
		}
		if !event.BlockTime.After(cursor) {
			continue
		}
		if !ceiling.IsZero() && !event.BlockTime.Before(ceiling) {
			deferred++
			continue
		}
		if _, ok := seen[event.Key()]; ok {
			continue
		}
		seen[event.Key()] = struct{}{}
		events = append(events, event)
	}

	if deferred > 0 {
		logger.DebugCtx(ctx, "Deferred rows at the capped query boundary",
			zap.Int("deferred", deferred), zap.String("boundary", domain.FormatCursor(ceiling)))
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].BlockTime.Before(events[j].BlockTime)
	})
	return events
}

func toEvent(row domain.QueryRow) (domain.BuyEvent, error) {
	blockTime, err := domain.ParseBlockTime(row.BlockTime)
	if err != nil {
		return domain.BuyEvent{}, err
	}
	buyer, err := domain.NormalizeAddress(row.Buyer)
	if err != nil {
		return domain.BuyEvent{}, err
	}
	token, err := domain.NormalizeAddress(row.PostToken)
	if err != nil {
		return domain.BuyEvent{}, err
	}
	txHash := strings.ToLower(strings.TrimSpace(row.TxHash))
	if txHash == "" {
		return domain.BuyEvent{}, domain.NewValidationError("tx_hash", "empty transaction hash")
	}

	source := row.Source
	if source == "" {
		source = domain.BuySourceCDP
	}

	var extra map[string]interface{}
	if len(row.Extra) > 0 || row.BuyerName != "" {
		extra = make(map[string]interface{}, len(row.Extra)+1)
		for k, v := range row.Extra {
			extra[k] = v
		}
		if row.BuyerName != "" {
			extra["buyer_name"] = row.BuyerName
		}
	}

	return domain.BuyEvent{
		Buyer:     buyer,
		PostToken: token,
		BlockTime: blockTime,
		TxHash:    txHash,
		Source:    source,
		Extra:     extra,
	}, nil
}

// partial handles a failed insert. The cursor moves to the newest persisted
// block time that is strictly older than the first unpersisted row.
func (o *orchestrator) partial(ctx context.Context, events []domain.BuyEvent, inserted store.InsertResult, insertErr error) Result {
	res := failure(fmt.Errorf("failed to persist buys: %w", insertErr))
	res.Count, res.Inserted = inserted.Persisted, inserted.Inserted

	persisted := events[:inserted.Persisted]
	if len(persisted) == 0 {
		return res
	}

	firstMissing := events[inserted.Persisted].BlockTime
	for i := len(persisted) - 1; i >= 0; i-- {
		if persisted[i].BlockTime.Before(firstMissing) {
			cursor := domain.FormatCursor(persisted[i].BlockTime)
			if err := o.saveCursor(ctx, cursor); err != nil {
				logger.ErrorCtx(ctx, fmt.Errorf("failed to advance cursor after partial insert: %w", err))
				break
			}
			res.NewCursor = cursor
			logger.WarnCtx(ctx, "Partial insert, cursor advanced over persisted rows",
				zap.Int("persisted", inserted.Persisted),
				zap.Int("total", len(events)),
				zap.String("new_cursor", cursor))
			break
		}
	}

	o.resolveBuyers(ctx, persisted)
	return res
}

// resolveBuyers resolves the buyers of events once the cursor is written.
// Failures are logged, the rows are already stored and identities converge on
// later lookups.
func (o *orchestrator) resolveBuyers(ctx context.Context, events []domain.BuyEvent) {
	if o.resolver == nil {
		return
	}

	buyers := make([]string, 0, len(events))
	for _, e := range events {
		buyers = append(buyers, e.Buyer)
	}

	if _, err := o.resolver.ResolveAndStore(ctx, buyers, nil); err != nil {
		logger.WarnCtx(ctx, "Identity resolution failed", zap.Error(err))
	}
}

func failure(err error) Result {
	return Result{
		OK:      false,
		Message: err.Error(),
		Error:   NewRunError(err),
	}
}
