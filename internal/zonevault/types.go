package zonevault

import "time"

// HostedZone identifies a Route 53 hosted zone. The ID is the opaque API
// handle; the name is stored with the trailing dot trimmed.
type HostedZone struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// AliasTarget points a record at another AWS resource instead of plain values.
type AliasTarget struct {
	DNSName              string `json:"dns_name" yaml:"dns_name"`
	HostedZoneID         string `json:"hosted_zone_id" yaml:"hosted_zone_id"`
	EvaluateTargetHealth bool   `json:"evaluate_target_health" yaml:"evaluate_target_health"`
}

// GeoLocation scopes a geolocation-routed record variant.
type GeoLocation struct {
	ContinentCode   string `json:"continent_code,omitempty" yaml:"continent_code,omitempty"`
	CountryCode     string `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	SubdivisionCode string `json:"subdivision_code,omitempty" yaml:"subdivision_code,omitempty"`
}

// RecordSet is one resource record set. Records are round-tripped verbatim;
// only Type is ever interpreted (restore-time filtering). A (name, type)
// pair is not unique within a zone: routing-policy variants share both and
// differ by SetIdentifier, so no deduplication happens anywhere.
type RecordSet struct {
	Name             string       `json:"name" yaml:"name"`
	Type             string       `json:"type" yaml:"type"`
	TTL              *int64       `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Values           []string     `json:"values,omitempty" yaml:"values,omitempty"`
	Alias            *AliasTarget `json:"alias,omitempty" yaml:"alias,omitempty"`
	SetIdentifier    string       `json:"set_identifier,omitempty" yaml:"set_identifier,omitempty"`
	Weight           *int64       `json:"weight,omitempty" yaml:"weight,omitempty"`
	Region           string       `json:"region,omitempty" yaml:"region,omitempty"`
	Failover         string       `json:"failover,omitempty" yaml:"failover,omitempty"`
	MultiValueAnswer *bool        `json:"multi_value_answer,omitempty" yaml:"multi_value_answer,omitempty"`
	GeoLocation      *GeoLocation `json:"geo_location,omitempty" yaml:"geo_location,omitempty"`
	HealthCheckID    string       `json:"health_check_id,omitempty" yaml:"health_check_id,omitempty"`
}

// ZoneSnapshot is an immutable point-in-time capture of one zone's records.
// Record order is the order the control plane emitted them, never re-sorted.
type ZoneSnapshot struct {
	Zone     HostedZone  `json:"zone" yaml:"zone"`
	Captured time.Time   `json:"captured_at" yaml:"captured_at"`
	Records  []RecordSet `json:"records" yaml:"records"`
}

// ZoneResult is the outcome of backing up a single zone.
type ZoneResult struct {
	ZoneID      string `json:"zone_id" yaml:"zone_id"`
	ZoneName    string `json:"zone_name" yaml:"zone_name"`
	CaptureKey  string `json:"capture_key,omitempty" yaml:"capture_key,omitempty"`
	RecordCount int    `json:"record_count" yaml:"record_count"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Succeeded reports whether the zone's snapshot was written.
func (r ZoneResult) Succeeded() bool { return r.Error == "" }

// BackupReport aggregates per-zone outcomes of one backup run. All zones in
// a run share the same capture time and therefore the same key prefix.
type BackupReport struct {
	Captured time.Time    `json:"captured_at" yaml:"captured_at"`
	Zones    []ZoneResult `json:"zones" yaml:"zones"`
}

// Successes counts zones whose snapshot was stored.
func (r *BackupReport) Successes() int {
	n := 0
	for _, zone := range r.Zones {
		if zone.Succeeded() {
			n++
		}
	}
	return n
}

// Failures counts zones that could not be backed up.
func (r *BackupReport) Failures() int { return len(r.Zones) - r.Successes() }

// BatchResult is the outcome of one change batch during a restore.
type BatchResult struct {
	Index       int    `json:"index" yaml:"index"`
	Size        int    `json:"size" yaml:"size"`
	FirstRecord string `json:"first_record" yaml:"first_record"`
	LastRecord  string `json:"last_record" yaml:"last_record"`
	ChangeID    string `json:"change_id,omitempty" yaml:"change_id,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Applied reports whether the batch was accepted by the control plane.
func (b BatchResult) Applied() bool { return b.Error == "" }

// RestoreReport aggregates per-batch outcomes of one restore run.
type RestoreReport struct {
	CaptureKey       string        `json:"capture_key" yaml:"capture_key"`
	TargetZoneID     string        `json:"target_zone_id" yaml:"target_zone_id"`
	RecordsSubmitted int           `json:"records_submitted" yaml:"records_submitted"`
	RecordsSkipped   int           `json:"records_skipped" yaml:"records_skipped"`
	BatchesApplied   int           `json:"batches_applied" yaml:"batches_applied"`
	Batches          []BatchResult `json:"batches" yaml:"batches"`
}

// BatchFailures counts batches the target service rejected.
func (r *RestoreReport) BatchFailures() int { return len(r.Batches) - r.BatchesApplied }
