package zonevault

import (
	"context"
	"fmt"
	"strings"
)

// MaxBatchSize is the Route 53 hard limit on changes per mutation call.
const MaxBatchSize = 100

// defaultExcludedTypes are zone-infrastructure records that must not be
// recreated against an existing zone: the target already owns authoritative
// NS/SOA values assigned at zone creation, and CREATE-ing them would
// conflict or corrupt delegation.
var defaultExcludedTypes = []string{"NS", "SOA"}

// RestoreOptions configure a Restorer.
type RestoreOptions struct {
	// ExcludedTypes lists record types never submitted. nil means the
	// default {NS, SOA}; an explicit empty slice excludes nothing.
	ExcludedTypes []string
	// BatchSize caps records per mutation call. Defaults to MaxBatchSize
	// and is clamped to it.
	BatchSize int
}

// Restorer replays one snapshot into a target zone: fetch, decode, filter
// protected types, partition into ordered batches, apply sequentially.
//
// Restore is deliberately not idempotent: every change is a CREATE, so
// re-running against a zone that already holds the records reports a
// failure for every batch instead of silently overwriting values that
// diverged since the backup was taken.
type Restorer struct {
	dns       DNSService
	store     SnapshotStore
	excluded  map[string]bool
	batchSize int
	verbosity int
}

// NewRestorer wires a restore orchestrator to its collaborators.
func NewRestorer(dns DNSService, store SnapshotStore, opts RestoreOptions) *Restorer {
	excluded := opts.ExcludedTypes
	if excluded == nil {
		excluded = defaultExcludedTypes
	}
	set := make(map[string]bool, len(excluded))
	for _, t := range excluded {
		set[strings.ToUpper(strings.TrimSpace(t))] = true
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	return &Restorer{
		dns:       dns,
		store:     store,
		excluded:  set,
		batchSize: batchSize,
		verbosity: 1,
	}
}

// SetVerbosity sets the logging verbosity level.
func (r *Restorer) SetVerbosity(level int) {
	r.verbosity = level
}

func (r *Restorer) logProgress(format string, args ...interface{}) {
	if r.verbosity >= 1 {
		fmt.Printf(format+"\n", args...)
	}
}

// RunRestore replays the snapshot at captureKey into targetZoneID. Batches
// are applied sequentially, in snapshot order; a rejected batch is recorded
// and the run continues with the next one. Cancellation is observed between
// batches. Store and decode failures abort the run before any mutation.
func (r *Restorer) RunRestore(ctx context.Context, captureKey, targetZoneID string) (*RestoreReport, error) {
	payload, err := r.store.Get(ctx, captureKey)
	if err != nil {
		return nil, err
	}
	snapshot, err := DecodeSnapshot(payload, DetectFormatFromKey(captureKey))
	if err != nil {
		// The key locates the bad artifact for the operator.
		return nil, fmt.Errorf("snapshot %s: %w", captureKey, err)
	}

	report := &RestoreReport{CaptureKey: captureKey, TargetZoneID: targetZoneID}

	eligible := make([]RecordSet, 0, len(snapshot.Records))
	for _, rec := range snapshot.Records {
		if r.excluded[strings.ToUpper(rec.Type)] {
			report.RecordsSkipped++
			continue
		}
		eligible = append(eligible, rec)
	}

	for i, batch := range partitionRecords(eligible, r.batchSize) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		// Counted when the batch actually goes out, so a cancelled run
		// reports only what reached the control plane.
		report.RecordsSubmitted += len(batch)

		result := BatchResult{
			Index:       i + 1,
			Size:        len(batch),
			FirstRecord: recordLabel(batch[0]),
			LastRecord:  recordLabel(batch[len(batch)-1]),
		}
		changeID, err := r.dns.ApplyChangeBatch(ctx, targetZoneID, batch)
		if err != nil {
			batchErr := &BatchError{Index: i + 1, Records: batch, Err: err}
			result.Error = batchErr.Error()
			r.logProgress("⚠ batch %d/%d rejected: %v", i+1, (len(eligible)+r.batchSize-1)/r.batchSize, err)
		} else {
			result.ChangeID = changeID
			report.BatchesApplied++
			r.logProgress("✓ batch %d applied (%d records, change %s)", i+1, len(batch), changeID)
		}
		report.Batches = append(report.Batches, result)
	}

	return report, nil
}

// partitionRecords splits records into ordered batches of at most size.
// Batch membership preserves snapshot order: some record types are
// order-sensitive when several variants share a name.
func partitionRecords(records []RecordSet, size int) [][]RecordSet {
	var batches [][]RecordSet
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}
