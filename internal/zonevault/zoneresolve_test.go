package zonevault

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestZoneCandidates(t *testing.T) {
	tests := []struct {
		name string
		host string
		want []string
	}{
		{
			name: "bare registrable domain",
			host: "example.com",
			want: []string{"example.com"},
		},
		{
			name: "subdomain host",
			host: "api.example.com",
			want: []string{"example.com", "api.example.com"},
		},
		{
			name: "deep host under compound suffix",
			host: "api.example.co.uk",
			want: []string{"example.co.uk", "api.example.co.uk", "co.uk"},
		},
		{
			name: "empty",
			host: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := zoneCandidates(tt.host)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("zoneCandidates(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestSanitizeCandidateHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Example.COM.", want: "example.com"},
		{in: " www.example.com ", want: "example.com"},
		{in: "api.example.com", want: "api.example.com"},
		{in: ".example.com.", want: "example.com"},
	}

	for _, tt := range tests {
		if got := sanitizeCandidateHost(tt.in); got != tt.want {
			t.Errorf("sanitizeCandidateHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveZone(t *testing.T) {
	zones := []HostedZone{
		{ID: "Z1", Name: "example.com"},
		{ID: "Z2", Name: "example.co.uk"},
		{ID: "Z3", Name: "internal.example.com"},
		{ID: "Z4", Name: "internal.example.org"},
	}

	tests := []struct {
		name   string
		target string
		want   string // zone ID
	}{
		{name: "raw zone id", target: "Z2", want: "Z2"},
		{name: "prefixed zone id", target: "/hostedzone/Z3", want: "Z3"},
		{name: "exact zone name", target: "example.com", want: "Z1"},
		{name: "hostname inside zone", target: "mail.example.co.uk", want: "Z2"},
		{name: "registrable domain preferred over deeper zone", target: "db.internal.example.com", want: "Z1"},
		{name: "deeper zone when no parent exists", target: "db.internal.example.org", want: "Z4"},
		{name: "www prefix stripped", target: "www.example.com", want: "Z1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, err := ResolveZone(context.Background(), &fakeDNS{zones: zones}, tt.target)
			if err != nil {
				t.Fatalf("ResolveZone(%q): %v", tt.target, err)
			}
			if zone.ID != tt.want {
				t.Errorf("ResolveZone(%q) = %s, want %s", tt.target, zone.ID, tt.want)
			}
		})
	}
}

func TestResolveZoneDuplicateNamesFirstWins(t *testing.T) {
	dns := &fakeDNS{zones: []HostedZone{
		{ID: "Z1", Name: "example.com"},
		{ID: "Z2", Name: "example.com"},
	}}

	zone, err := ResolveZone(context.Background(), dns, "example.com")
	if err != nil {
		t.Fatalf("ResolveZone: %v", err)
	}
	if zone.ID != "Z1" {
		t.Fatalf("first listed zone wins on duplicate names, got %s", zone.ID)
	}
}

func TestResolveZoneNoMatch(t *testing.T) {
	dns := &fakeDNS{zones: []HostedZone{{ID: "Z1", Name: "example.com"}}}

	_, err := ResolveZone(context.Background(), dns, "other.net")
	if err == nil {
		t.Fatal("expected an error for an unmatched target")
	}

	if _, err := ResolveZone(context.Background(), dns, "  "); err == nil {
		t.Fatal("expected an error for an empty target")
	}
}

func TestResolveZonePropagatesEnumerationFailure(t *testing.T) {
	dns := &fakeDNS{zonesErr: fmt.Errorf("%w: list hosted zones: timeout", ErrSourceUnavailable)}

	_, err := ResolveZone(context.Background(), dns, "example.com")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
