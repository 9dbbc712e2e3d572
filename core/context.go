package core

import (
	"context"
	"time"

	"github.com/huangsam/readiness/internal/telemetry"
)

// Context keys for engine options
type contextKey string

const (
	nowKey      contextKey = "now"
	runIDKey    contextKey = "runID"
	recorderKey contextKey = "recorder"
)

// WithNow pins the clock used by the engine.
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, nowKey, now)
}

// nowFrom returns the pinned clock, or time.Now
func nowFrom(ctx context.Context) time.Time {
	if now, ok := ctx.Value(nowKey).(time.Time); ok {
		return now
	}
	return time.Now()
}

// WithRunID tags log lines of one command run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// getRunID returns the run id from context
func getRunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithRecorder attaches the telemetry recorder used by Execute functions.
func WithRecorder(ctx context.Context, r *telemetry.Recorder) context.Context {
	return context.WithValue(ctx, recorderKey, r)
}

// recorderFrom returns the attached recorder, or nil
func recorderFrom(ctx context.Context) *telemetry.Recorder {
	r, _ := ctx.Value(recorderKey).(*telemetry.Recorder)
	return r
}
