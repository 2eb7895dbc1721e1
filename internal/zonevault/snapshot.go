package zonevault

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validate performs basic sanity checks before a snapshot is persisted or
// restored. A snapshot with zero records is valid: an empty zone is a real
// state worth capturing.
func (s *ZoneSnapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrMalformedSnapshot)
	}
	if strings.TrimSpace(s.Zone.ID) == "" {
		return fmt.Errorf("%w: zone id is required", ErrMalformedSnapshot)
	}
	if strings.TrimSpace(s.Zone.Name) == "" {
		return fmt.Errorf("%w: zone name is required", ErrMalformedSnapshot)
	}
	return nil
}

// EncodeSnapshot serializes the snapshot to JSON or YAML. JSON is the
// default so extracted snapshots are inspectable without extra tooling.
func EncodeSnapshot(snapshot *ZoneSnapshot, format string, pretty bool) ([]byte, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(snapshot)
	default:
		if pretty {
			return json.MarshalIndent(snapshot, "", "  ")
		}
		return json.Marshal(snapshot)
	}
}

// DecodeSnapshot parses an encoded snapshot, forming a lossless round trip
// with EncodeSnapshot. Format defaults to JSON when empty.
func DecodeSnapshot(data []byte, format string) (*ZoneSnapshot, error) {
	s := &ZoneSnapshot{}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrMalformedSnapshot, err)
		}
	default:
		if err := json.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrMalformedSnapshot, err)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DetectFormatFromKey infers the serialization format from a capture key
// or file path.
func DetectFormatFromKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func formatExtension(format string) string {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return "yaml"
	default:
		return "json"
	}
}
