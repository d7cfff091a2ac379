package logger

import (
	"context"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

type runKey struct{}

// RunInfo identifies one ingestion run for log correlation
type RunInfo struct {
	RunID   string
	Trigger string
}

// WithRun returns a context whose logger carries the run fields.
// When sentry is enabled the run id is also set as a tag on a hub cloned for this run.
func WithRun(ctx context.Context, info RunInfo) context.Context {
	ctx = context.WithValue(ctx, runKey{}, info)
	if sentryClient == nil {
		return ctx
	}

	hub := sentry.CurrentHub().Clone()
	hub.BindClient(sentryClient)
	hub.Scope().SetTag("run_id", info.RunID)
	if info.Trigger != "" {
		hub.Scope().SetTag("trigger", info.Trigger)
	}
	return sentry.SetHubOnContext(ctx, hub)
}

// RunFromContext returns the run info stored by WithRun
func RunFromContext(ctx context.Context) (RunInfo, bool) {
	info, ok := ctx.Value(runKey{}).(RunInfo)
	return info, ok
}

func runFields(ctx context.Context) []zap.Field {
	info, ok := RunFromContext(ctx)
	if !ok {
		return nil
	}

	fields := []zap.Field{zap.String("run_id", info.RunID)}
	if info.Trigger != "" {
		fields = append(fields, zap.String("trigger", info.Trigger))
	}
	return fields
}
