package handlers

import (
	"context"
	"time"
)

// Test is the TEST job handler: sleeps for an optional duration and echoes
// its params back as the result, used to exercise the queue end-to-end
// without touching the pipeline.
func (d *Deps) Test(ctx context.Context, params map[string]any) (map[string]any, error) {
	sleepMs := getInt(params, "sleep_ms", 0)
	if sleepMs > 0 {
		select {
		case <-time.After(time.Duration(sleepMs) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return map[string]any{"echo": params}, nil
}
