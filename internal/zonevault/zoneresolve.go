package zonevault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ResolveZone maps a restore target to a hosted zone. The target may be a
// hosted zone ID (raw or "/hostedzone/" prefixed), a zone name, or any
// hostname inside a zone; hostname candidates are derived from the public
// suffix list and matched against the enumerated zone list. When several
// zones share the winning name, the first one listed wins.
func ResolveZone(ctx context.Context, dns DNSService, target string) (HostedZone, error) {
	clean := strings.TrimSpace(target)
	if clean == "" {
		return HostedZone{}, errors.New("target zone is required")
	}

	zones, err := dns.ListZones(ctx)
	if err != nil {
		return HostedZone{}, err
	}

	id := strings.TrimPrefix(clean, "/hostedzone/")
	for _, zone := range zones {
		if zone.ID == id {
			return zone, nil
		}
	}

	byName := make(map[string]HostedZone, len(zones))
	for _, zone := range zones {
		if _, seen := byName[zone.Name]; !seen {
			byName[zone.Name] = zone
		}
	}

	host := sanitizeCandidateHost(clean)
	for _, candidate := range zoneCandidates(host) {
		if zone, ok := byName[candidate]; ok {
			return zone, nil
		}
	}

	return HostedZone{}, fmt.Errorf("no hosted zone matches %s", clean)
}

func sanitizeCandidateHost(host string) string {
	value := strings.TrimSpace(strings.ToLower(host))
	value = strings.Trim(value, ".")
	value = strings.TrimPrefix(value, "www.")
	return value
}

func zoneCandidates(host string) []string {
	seen := make(map[string]struct{})
	var candidates []string

	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		addZoneCandidate(&candidates, seen, etld)
	}

	labels := strings.Split(host, ".")
	for i := 0; i <= len(labels)-2; i++ {
		candidate := strings.Join(labels[i:], ".")
		addZoneCandidate(&candidates, seen, candidate)
	}

	return candidates
}

func addZoneCandidate(list *[]string, seen map[string]struct{}, candidate string) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return
	}
	if _, exists := seen[candidate]; exists {
		return
	}
	seen[candidate] = struct{}{}
	*list = append(*list, candidate)
}
