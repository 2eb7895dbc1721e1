package zonevault

import (
	"testing"
	"time"
)

func TestCaptureStampSortable(t *testing.T) {
	earlier := time.Date(2026, 8, 27, 3, 15, 0, 0, time.UTC)
	later := earlier.Add(time.Second)

	a := CaptureStamp(earlier)
	b := CaptureStamp(later)
	if a != "20260827-031500" {
		t.Fatalf("unexpected stamp %q", a)
	}
	if !(a < b) {
		t.Fatalf("lexical order must equal chronological order: %q vs %q", a, b)
	}
}

func TestCaptureKeyDeterminism(t *testing.T) {
	at := time.Date(2026, 8, 27, 3, 15, 0, 500_000_000, time.UTC)
	stamp := CaptureStamp(at.Truncate(time.Second))

	// Same second, same zone: same key; a repeated run overwrites.
	k1 := CaptureKey(stamp, "example.com", "json")
	k2 := CaptureKey(stamp, "example.com", "json")
	if k1 != k2 {
		t.Fatalf("same-second keys must collide: %q vs %q", k1, k2)
	}
	if k1 != "20260827-031500/example.com/snapshot.json" {
		t.Fatalf("unexpected key %q", k1)
	}

	// One second apart: distinct, lexically ordered keys.
	k3 := CaptureKey(CaptureStamp(at.Add(time.Second)), "example.com", "json")
	if !(k1 < k3) {
		t.Fatalf("keys one second apart must be distinct and ordered: %q vs %q", k1, k3)
	}
}

func TestCaptureKeyWithZoneID(t *testing.T) {
	key := CaptureKeyWithZoneID("20260827-031500", "example.com", "Z2ABC", "yaml")
	if key != "20260827-031500/example.com/Z2ABC/snapshot.yaml" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestCaptureStampIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	local := time.Date(2026, 8, 27, 12, 0, 0, 0, loc)
	if got := CaptureStamp(local); got != "20260827-030000" {
		t.Fatalf("stamps must be UTC regardless of input zone, got %q", got)
	}
}

func TestZoneNameFromKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "plain key",
			key:  "20260827-031500/example.com/snapshot.json",
			want: "example.com",
		},
		{
			name: "duplicate-name key with zone id",
			key:  "20260827-031500/example.com/Z2ABC/snapshot.json",
			want: "example.com",
		},
		{
			name: "bucket path prefix",
			key:  "production/backups/20260827-031500/api.example.com/snapshot.yaml",
			want: "api.example.com",
		},
		{
			name: "no stamp segment",
			key:  "random/object.txt",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zoneNameFromKey(tt.key); got != tt.want {
				t.Errorf("zoneNameFromKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewestSnapshotsKeepsMostRecent(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// The object stream arrives in ascending key order, so with
	// stamp-prefixed keys the oldest snapshot comes first.
	var stream []SnapshotInfo
	for i := 0; i < 5; i++ {
		at := base.AddDate(0, i, 0)
		stream = append(stream, SnapshotInfo{
			Key:          CaptureKey(CaptureStamp(at), "example.com", "json"),
			LastModified: at,
		})
	}
	newest := stream[len(stream)-1]

	all := newestSnapshots(append([]SnapshotInfo(nil), stream...), 0)
	if len(all) != 5 {
		t.Fatalf("limit 0 means unlimited, got %d snapshots", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].LastModified.After(all[i-1].LastModified) {
			t.Fatalf("snapshots not newest first: %s before %s", all[i-1].Key, all[i].Key)
		}
	}

	latest := newestSnapshots(append([]SnapshotInfo(nil), stream...), 1)
	if len(latest) != 1 || latest[0].Key != newest.Key {
		t.Fatalf("limit 1 must keep the newest snapshot, got %+v", latest)
	}

	top2 := newestSnapshots(append([]SnapshotInfo(nil), stream...), 2)
	if len(top2) != 2 || top2[0].Key != stream[4].Key || top2[1].Key != stream[3].Key {
		t.Fatalf("limit 2 must keep the two newest, got %+v", top2)
	}
}

func TestNewMinioStoreDefaults(t *testing.T) {
	store := NewMinioStore(&MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "zone-backups",
	})
	if store.verbosity != 1 {
		t.Errorf("expected verbosity 1, got %d", store.verbosity)
	}
	if store.capacityThreshold != defaultCapacityThreshold {
		t.Errorf("expected threshold %.1f, got %.1f", defaultCapacityThreshold, store.capacityThreshold)
	}

	store.SetCapacityGuard(true, 0)
	if !store.respectCapacity || store.capacityThreshold != defaultCapacityThreshold {
		t.Errorf("zero threshold falls back to default, got %.1f", store.capacityThreshold)
	}
	store.SetCapacityGuard(true, 80)
	if store.capacityThreshold != 80 {
		t.Errorf("expected threshold 80, got %.1f", store.capacityThreshold)
	}
}

func TestObjectNameAppliesBucketPath(t *testing.T) {
	plain := NewMinioStore(&MinioConfig{Bucket: "b"})
	if got := plain.objectName("20260827-031500/example.com/snapshot.json"); got != "20260827-031500/example.com/snapshot.json" {
		t.Errorf("unexpected object name %q", got)
	}

	prefixed := NewMinioStore(&MinioConfig{Bucket: "b", BucketPath: "dns/prod"})
	want := "dns/prod/20260827-031500/example.com/snapshot.json"
	if got := prefixed.objectName("20260827-031500/example.com/snapshot.json"); got != want {
		t.Errorf("object name %q, want %q", got, want)
	}
}
