// Package store persists processed records keyed by (tenant_id, log_id).
//
// Writes are idempotent in the last-writer-wins sense: a repeated put with
// the same key replaces the stored value entirely. The store does not compare
// attempt numbers, so out-of-order redelivery can let a stale attempt
// overwrite a fresher one; with no ordering guarantee on the transport this
// is an accepted limitation.
package store

import (
	"context"
	"fmt"

	"logscrub/internal/models"
)

// Store writes processed records. Reads are out of contract.
type Store interface {
	Put(ctx context.Context, rec models.ProcessedRecord) error
}

// Failure wraps a storage write error for a specific key.
type Failure struct {
	TenantID string
	LogID    string
	Err      error
}

func (e *Failure) Error() string {
	return fmt.Sprintf("store put tenant_id=%s log_id=%s: %v", e.TenantID, e.LogID, e.Err)
}

func (e *Failure) Unwrap() error {
	return e.Err
}
