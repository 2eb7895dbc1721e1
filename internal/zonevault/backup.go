package zonevault

import (
	"context"
	"fmt"
	"time"
)

// BackupOptions configure a Backupper.
type BackupOptions struct {
	Format string           // snapshot serialization: json (default) or yaml
	Pretty bool             // pretty-print encoded snapshots
	Now    func() time.Time // capture clock, defaults to time.Now
}

// Backupper drives enumerate → paginate → encode → store for every zone
// visible in one run. It is a coordination layer: it performs no retries
// beyond what the DNS service and store already guarantee.
type Backupper struct {
	dns       DNSService
	store     SnapshotStore
	opts      BackupOptions
	verbosity int
}

// NewBackupper wires a backup orchestrator to its collaborators.
func NewBackupper(dns DNSService, store SnapshotStore, opts BackupOptions) *Backupper {
	if opts.Format == "" {
		opts.Format = "json"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Backupper{dns: dns, store: store, opts: opts, verbosity: 1}
}

// SetVerbosity sets the logging verbosity level.
func (b *Backupper) SetVerbosity(level int) {
	b.verbosity = level
}

func (b *Backupper) logProgress(format string, args ...interface{}) {
	if b.verbosity >= 1 {
		fmt.Printf(format+"\n", args...)
	}
}

// RunBackup captures every visible zone into the store. One zone's failure
// never aborts the others; all zones in a run share the same capture
// timestamp so they form a coherent fleet-wide checkpoint. Cancellation is
// observed between zones: an in-flight zone completes, no new zone starts.
func (b *Backupper) RunBackup(ctx context.Context) (*BackupReport, error) {
	zones, err := b.dns.ListZones(ctx)
	if err != nil {
		return nil, err
	}

	captured := b.opts.Now().UTC().Truncate(time.Second)
	stamp := CaptureStamp(captured)
	report := &BackupReport{Captured: captured}

	nameSeen := make(map[string]int)
	for _, zone := range zones {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		key := CaptureKey(stamp, zone.Name, b.opts.Format)
		if nameSeen[zone.Name] > 0 {
			// Route 53 allows several hosted zones with the same name;
			// later ones get a zone-ID path segment so keys never collide.
			key = CaptureKeyWithZoneID(stamp, zone.Name, zone.ID, b.opts.Format)
		}
		nameSeen[zone.Name]++

		result := ZoneResult{ZoneID: zone.ID, ZoneName: zone.Name}
		if count, err := b.backupZone(ctx, zone, captured, key); err != nil {
			result.Error = err.Error()
			b.logProgress("⚠ %s (%s): %v", zone.Name, zone.ID, err)
		} else {
			result.CaptureKey = key
			result.RecordCount = count
			b.logProgress("✓ %s (%s): %d records -> %s", zone.Name, zone.ID, count, key)
		}
		report.Zones = append(report.Zones, result)
	}

	return report, nil
}

// backupZone captures one zone. A pagination failure aborts the whole
// zone rather than persisting a partial snapshot.
func (b *Backupper) backupZone(ctx context.Context, zone HostedZone, captured time.Time, key string) (int, error) {
	records, err := b.dns.ListRecordSets(ctx, zone.ID)
	if err != nil {
		return 0, err
	}

	snapshot := &ZoneSnapshot{Zone: zone, Captured: captured, Records: records}
	payload, err := EncodeSnapshot(snapshot, b.opts.Format, b.opts.Pretty)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot for zone %s: %w", zone.Name, err)
	}

	if err := b.store.Put(ctx, key, payload); err != nil {
		return 0, err
	}
	return len(records), nil
}
