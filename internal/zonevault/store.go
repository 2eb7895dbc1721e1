package zonevault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig contains configuration for the snapshot object store.
type MinioConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	BucketPath       string // Optional path prefix within bucket
	HTTPTimeout      time.Duration
	AutoCreateBucket bool
}

// SnapshotStore persists encoded snapshots under hierarchical capture keys.
type SnapshotStore interface {
	Put(ctx context.Context, key string, payload []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// SnapshotInfo describes one stored snapshot object.
type SnapshotInfo struct {
	Key          string    `json:"key"`
	ZoneName     string    `json:"zone_name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// captureStampLayout is fixed and locale-free; lexical ordering of stamps
// equals chronological ordering, and granularity is one second.
const captureStampLayout = "20060102-150405"

const defaultCapacityThreshold = 95.0

// CaptureStamp formats a capture time for use in storage keys.
func CaptureStamp(t time.Time) string {
	return t.UTC().Format(captureStampLayout)
}

// CaptureKey derives the storage key for one zone in one run. Repeated
// runs within the same second produce the same key and overwrite.
func CaptureKey(stamp, zoneName, format string) string {
	return fmt.Sprintf("%s/%s/snapshot.%s", stamp, zoneName, formatExtension(format))
}

// CaptureKeyWithZoneID disambiguates zones that share a name within one
// run by adding the zone ID as an extra path segment.
func CaptureKeyWithZoneID(stamp, zoneName, zoneID, format string) string {
	return fmt.Sprintf("%s/%s/%s/snapshot.%s", stamp, zoneName, zoneID, formatExtension(format))
}

// MinioStore is a SnapshotStore backed by an S3-compatible object store.
type MinioStore struct {
	config      *MinioConfig
	client      *minio.Client
	adminClient *madmin.AdminClient
	verbosity   int // 0=quiet, 1=normal, 2=verbose

	respectCapacity   bool
	capacityThreshold float64
	capacityReported  bool
}

// NewMinioStore creates a store from explicit configuration. The client is
// initialized lazily on first use.
func NewMinioStore(config *MinioConfig) *MinioStore {
	return &MinioStore{
		config:            config,
		verbosity:         1,
		capacityThreshold: defaultCapacityThreshold,
	}
}

// SetVerbosity sets the logging verbosity level.
func (s *MinioStore) SetVerbosity(level int) {
	s.verbosity = level
}

// SetCapacityGuard configures whether uploads should verify storage
// capacity usage first.
func (s *MinioStore) SetCapacityGuard(enabled bool, threshold float64) {
	s.respectCapacity = enabled
	if threshold <= 0 {
		threshold = defaultCapacityThreshold
	}
	s.capacityThreshold = threshold
}

func (s *MinioStore) logVerbose(format string, args ...interface{}) {
	if s.verbosity >= 2 {
		fmt.Printf("[VERBOSE] "+format+"\n", args...)
	}
}

func (s *MinioStore) init(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	tr := &http.Transport{
		IdleConnTimeout:     5 * time.Minute,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
	}
	if s.config.HTTPTimeout > 0 {
		tr.ResponseHeaderTimeout = s.config.HTTPTimeout
	}

	client, err := minio.New(s.config.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(s.config.AccessKey, s.config.SecretKey, ""),
		Secure:    s.config.UseSSL,
		Transport: tr,
	})
	if err != nil {
		return fmt.Errorf("%w: create client: %v", ErrStoreUnavailable, err)
	}
	s.client = client

	exists, err := s.client.BucketExists(ctx, s.config.Bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket %s: %v", ErrStoreUnavailable, s.config.Bucket, err)
	}
	if !exists {
		if !s.config.AutoCreateBucket {
			return fmt.Errorf("%w: bucket %s does not exist", ErrStoreUnavailable, s.config.Bucket)
		}
		s.logVerbose("bucket %s missing, attempting to create", s.config.Bucket)
		if err := s.client.MakeBucket(ctx, s.config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: create bucket %s: %v", ErrStoreUnavailable, s.config.Bucket, err)
		}
		s.logVerbose("bucket %s created", s.config.Bucket)
	}

	return nil
}

func (s *MinioStore) initAdminClient() error {
	if s.adminClient != nil {
		return nil
	}
	client, err := madmin.New(s.config.Endpoint, s.config.AccessKey, s.config.SecretKey, s.config.UseSSL)
	if err != nil {
		return fmt.Errorf("%w: create admin client: %v", ErrStoreUnavailable, err)
	}
	s.adminClient = client
	return nil
}

func (s *MinioStore) ensureCapacity(ctx context.Context) error {
	if !s.respectCapacity {
		return nil
	}
	threshold := s.capacityThreshold
	if threshold <= 0 {
		threshold = defaultCapacityThreshold
	}
	if err := s.initAdminClient(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	info, err := s.adminClient.StorageInfo(ctx)
	if err != nil {
		return fmt.Errorf("%w: query storage info: %v", ErrStoreUnavailable, err)
	}
	var total, used uint64
	for _, disk := range info.Disks {
		total += disk.TotalSpace
		used += disk.UsedSpace
	}
	if total == 0 {
		return fmt.Errorf("%w: storage reported zero total capacity", ErrStoreUnavailable)
	}
	usage := (float64(used) / float64(total)) * 100
	if usage >= threshold {
		return fmt.Errorf("storage usage %.1f%% exceeds %.1f%% threshold; delete old snapshots before backing up", usage, threshold)
	}
	if !s.capacityReported {
		s.logVerbose("capacity check: %.1f%% used (threshold %.1f%%)", usage, threshold)
		s.capacityReported = true
	}
	return nil
}

func (s *MinioStore) objectName(key string) string {
	if s.config.BucketPath != "" {
		return path.Join(s.config.BucketPath, key)
	}
	return key
}

// Put writes one snapshot payload under the given capture key.
func (s *MinioStore) Put(ctx context.Context, key string, payload []byte) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	if err := s.ensureCapacity(ctx); err != nil {
		return err
	}

	contentType := "application/json"
	if DetectFormatFromKey(key) == "yaml" {
		contentType = "application/yaml"
	}
	_, err := s.client.PutObject(ctx, s.config.Bucket, s.objectName(key),
		bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
			ContentType: contentType,
		})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrStoreUnavailable, key, err)
	}
	s.logVerbose("uploaded snapshot %s (%d bytes)", key, len(payload))
	return nil
}

// Get reads one snapshot payload. A missing key yields ErrSnapshotNotFound,
// distinct from transport failure.
func (s *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	object, err := s.client.GetObject(ctx, s.config.Bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, key, err)
	}
	return data, nil
}

// List returns stored snapshots under the given prefix, most recent first.
// A limit of zero means unlimited.
func (s *MinioStore) List(ctx context.Context, prefix string, limit int) ([]SnapshotInfo, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	opts := minio.ListObjectsOptions{
		Prefix:    s.objectName(prefix),
		Recursive: true,
	}

	var snapshots []SnapshotInfo
	for obj := range s.client.ListObjects(ctx, s.config.Bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: list objects: %v", ErrStoreUnavailable, obj.Err)
		}
		snapshots = append(snapshots, SnapshotInfo{
			Key:          obj.Key,
			ZoneName:     zoneNameFromKey(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return newestSnapshots(snapshots, limit), nil
}

// newestSnapshots orders snapshots most recent first and truncates to
// limit. The object stream arrives in ascending key order, which for
// stamp-prefixed capture keys is oldest first, so the limit can only be
// applied after the full listing has been drained and re-sorted.
func newestSnapshots(snapshots []SnapshotInfo, limit int) []SnapshotInfo {
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].LastModified.After(snapshots[j].LastModified)
	})
	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots
}

// Delete removes the given snapshot objects.
func (s *MinioStore) Delete(ctx context.Context, keys []string, dryRun bool) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	for _, key := range keys {
		if dryRun {
			fmt.Printf("[DRY RUN] Would delete: %s\n", key)
			continue
		}
		if err := s.client.RemoveObject(ctx, s.config.Bucket, s.objectName(key), minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("%w: delete %s: %v", ErrStoreUnavailable, key, err)
		}
		fmt.Printf("✓ Deleted: %s\n", key)
	}
	return nil
}

// TestConnection verifies the store with a write/read/delete probe.
func (s *MinioStore) TestConnection(ctx context.Context) error {
	if err := s.init(ctx); err != nil {
		return err
	}

	probeKey := fmt.Sprintf(".zonevault-test-%d", time.Now().Unix())
	probe := []byte("zonevault connection test")

	if err := s.Put(ctx, probeKey, probe); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	data, err := s.Get(ctx, probeKey)
	if err != nil {
		return fmt.Errorf("read probe: %w", err)
	}
	if !bytes.Equal(data, probe) {
		return fmt.Errorf("probe content mismatch")
	}
	if err := s.client.RemoveObject(ctx, s.config.Bucket, s.objectName(probeKey), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete probe: %w", err)
	}
	return nil
}

// zoneNameFromKey extracts the zone name from a capture key. Expected
// shape: [bucket-path/]{stamp}/{zone-name}[/{zone-id}]/snapshot.{ext},
// where the stamp is exactly 8 digits, hyphen, 6 digits.
func zoneNameFromKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		if isCaptureStamp(part) && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func isCaptureStamp(s string) bool {
	if len(s) != 15 || s[8] != '-' {
		return false
	}
	return isDigits(s[:8]) && isDigits(s[9:])
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
