package zonevault

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable marks failures of the DNS control plane after its
	// own retry semantics are exhausted.
	ErrSourceUnavailable = errors.New("dns control plane unavailable")
	// ErrStoreUnavailable marks transport failures of the snapshot store.
	ErrStoreUnavailable = errors.New("snapshot store unavailable")
	// ErrSnapshotNotFound is returned when a capture key has no object
	// behind it, distinct from ErrStoreUnavailable so callers can say
	// "no such backup" instead of "storage degraded".
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrMalformedSnapshot marks a stored document that fails to parse or
	// validate.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

// BatchError reports the rejection of a single change batch with enough
// detail to identify the records that were in it.
type BatchError struct {
	Index   int
	Records []RecordSet
	Err     error
}

func (e *BatchError) Error() string {
	if len(e.Records) == 0 {
		return fmt.Sprintf("change batch %d rejected: %v", e.Index, e.Err)
	}
	first := recordLabel(e.Records[0])
	last := recordLabel(e.Records[len(e.Records)-1])
	return fmt.Sprintf("change batch %d (%d records, %s .. %s) rejected: %v",
		e.Index, len(e.Records), first, last, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// recordLabel names a record for reports and error messages.
func recordLabel(rec RecordSet) string {
	label := rec.Type + " " + rec.Name
	if rec.SetIdentifier != "" {
		label += " (" + rec.SetIdentifier + ")"
	}
	return label
}
