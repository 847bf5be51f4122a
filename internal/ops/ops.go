// Package ops provides the stock operations the gateway binary registers at
// startup. They live outside the gateway core and have exactly the shape of
// the external collaborators the gateway consumes.
package ops

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuongbtq/job-gateway/internal/gateway/registry"
)

// Table returns the built-in operation table
func Table() map[string]registry.Func {
	return map[string]registry.Func{
		"echo":   Echo,
		"sleep":  Sleep,
		"digest": Digest,
	}
}

// Echo returns its parameters unchanged
func Echo(ctx context.Context, params json.RawMessage) (any, error) {
	if len(params) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(params, &decoded); err != nil {
		return nil, fmt.Errorf("echo: invalid params: %w", err)
	}
	return decoded, nil
}

// Sleep blocks for {"duration": "1s"}, honoring context cancellation
func Sleep(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Duration string `json:"duration"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("sleep: invalid params: %w", err)
	}
	d, err := time.ParseDuration(req.Duration)
	if err != nil {
		return nil, fmt.Errorf("sleep: invalid duration %q: %w", req.Duration, err)
	}

	select {
	case <-time.After(d):
		return map[string]any{"slept": d.String()}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Digest returns the SHA-256 hex digest of {"data": "..."}
func Digest(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("digest: invalid params: %w", err)
	}
	sum := sha256.Sum256([]byte(req.Data))
	return map[string]any{"sha256": hex.EncodeToString(sum[:])}, nil
}
