package zonevault

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

type fakeRoute53API struct {
	zonePages   []*route53.ListHostedZonesOutput
	zoneCalls   int
	zonesErr    error
	recordPages []*route53.ListResourceRecordSetsOutput
	recordCalls int
	recordsErr  error
	changeIn    *route53.ChangeResourceRecordSetsInput
	changeErr   error
}

func (f *fakeRoute53API) ListHostedZones(ctx context.Context, params *route53.ListHostedZonesInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error) {
	if f.zonesErr != nil {
		return nil, f.zonesErr
	}
	out := f.zonePages[f.zoneCalls]
	f.zoneCalls++
	return out, nil
}

func (f *fakeRoute53API) ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error) {
	if f.recordsErr != nil {
		return nil, f.recordsErr
	}
	out := f.recordPages[f.recordCalls]
	f.recordCalls++
	return out, nil
}

func (f *fakeRoute53API) ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error) {
	f.changeIn = params
	if f.changeErr != nil {
		return nil, f.changeErr
	}
	return &route53.ChangeResourceRecordSetsOutput{
		ChangeInfo: &r53types.ChangeInfo{Id: aws.String("/change/C42")},
	}, nil
}

func apiRecordPage(start, count int, truncated bool) *route53.ListResourceRecordSetsOutput {
	out := &route53.ListResourceRecordSetsOutput{IsTruncated: truncated}
	for i := start; i < start+count; i++ {
		out.ResourceRecordSets = append(out.ResourceRecordSets, r53types.ResourceRecordSet{
			Name: aws.String(fmt.Sprintf("host-%03d.example.com.", i)),
			Type: r53types.RRTypeA,
			TTL:  aws.Int64(300),
			ResourceRecords: []r53types.ResourceRecord{
				{Value: aws.String(fmt.Sprintf("192.0.2.%d", i%250))},
			},
		})
	}
	if truncated {
		out.NextRecordName = aws.String(fmt.Sprintf("host-%03d.example.com.", start+count))
		out.NextRecordType = r53types.RRTypeA
	}
	return out
}

func TestListZonesDrainsPagination(t *testing.T) {
	api := &fakeRoute53API{
		zonePages: []*route53.ListHostedZonesOutput{
			{
				HostedZones: []r53types.HostedZone{
					{Id: aws.String("/hostedzone/Z1"), Name: aws.String("alpha.example.com.")},
					{Id: aws.String("/hostedzone/Z2"), Name: aws.String("bravo.example.com.")},
				},
				IsTruncated: true,
				NextMarker:  aws.String("Z2"),
			},
			{
				HostedZones: []r53types.HostedZone{
					{Id: aws.String("/hostedzone/Z3"), Name: aws.String("charlie.example.com.")},
				},
			},
		},
	}
	client := NewRoute53ClientFromAPI(api)

	zones, err := client.ListZones(context.Background())
	if err != nil {
		t.Fatalf("ListZones: %v", err)
	}
	if api.zoneCalls != 2 {
		t.Fatalf("expected 2 page requests, got %d", api.zoneCalls)
	}
	want := []HostedZone{
		{ID: "Z1", Name: "alpha.example.com"},
		{ID: "Z2", Name: "bravo.example.com"},
		{ID: "Z3", Name: "charlie.example.com"},
	}
	if !reflect.DeepEqual(zones, want) {
		t.Fatalf("zones mismatch:\n got %+v\nwant %+v", zones, want)
	}
}

func TestListZonesSourceUnavailable(t *testing.T) {
	api := &fakeRoute53API{zonesErr: errors.New("dial tcp: i/o timeout")}
	client := NewRoute53ClientFromAPI(api)

	_, err := client.ListZones(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestListRecordSetsDrainsPagination(t *testing.T) {
	api := &fakeRoute53API{
		recordPages: []*route53.ListResourceRecordSetsOutput{
			apiRecordPage(0, 40, true),
			apiRecordPage(40, 40, true),
			apiRecordPage(80, 17, false),
		},
	}
	client := NewRoute53ClientFromAPI(api)

	records, err := client.ListRecordSets(context.Background(), "Z1")
	if err != nil {
		t.Fatalf("ListRecordSets: %v", err)
	}
	if api.recordCalls != 3 {
		t.Fatalf("expected exactly 3 page requests, got %d", api.recordCalls)
	}
	if len(records) != 97 {
		t.Fatalf("expected 97 records, got %d", len(records))
	}
	for i, rec := range records {
		want := fmt.Sprintf("host-%03d.example.com.", i)
		if rec.Name != want {
			t.Fatalf("record %d out of order: got %s, want %s", i, rec.Name, want)
		}
	}
}

func TestListRecordSetsEmptyZone(t *testing.T) {
	api := &fakeRoute53API{
		recordPages: []*route53.ListResourceRecordSetsOutput{{}},
	}
	client := NewRoute53ClientFromAPI(api)

	records, err := client.ListRecordSets(context.Background(), "Z1")
	if err != nil {
		t.Fatalf("an empty zone is not an error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestApplyChangeBatchBuildsCreateOnlyChanges(t *testing.T) {
	api := &fakeRoute53API{}
	client := NewRoute53ClientFromAPI(api)

	records := []RecordSet{
		{Name: "a.example.com.", Type: "A", TTL: int64Ptr(300), Values: []string{"192.0.2.1"}},
		{Name: "www.example.com.", Type: "A", Alias: &AliasTarget{
			DNSName:      "lb.example.com.",
			HostedZoneID: "ZALIAS",
		}},
	}
	changeID, err := client.ApplyChangeBatch(context.Background(), "ZTARGET", records)
	if err != nil {
		t.Fatalf("ApplyChangeBatch: %v", err)
	}
	if changeID != "/change/C42" {
		t.Fatalf("unexpected change id %q", changeID)
	}
	if aws.ToString(api.changeIn.HostedZoneId) != "ZTARGET" {
		t.Fatalf("wrong target zone %s", aws.ToString(api.changeIn.HostedZoneId))
	}
	changes := api.changeIn.ChangeBatch.Changes
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	for i, change := range changes {
		if change.Action != r53types.ChangeActionCreate {
			t.Fatalf("change %d: action must always be CREATE, got %s", i, change.Action)
		}
	}
	if changes[1].ResourceRecordSet.AliasTarget == nil {
		t.Fatal("alias target not carried into the change")
	}
}

func TestRecordSetConversionRoundTrip(t *testing.T) {
	mva := true
	tests := []struct {
		name string
		rec  RecordSet
	}{
		{
			name: "plain values",
			rec:  RecordSet{Name: "example.com.", Type: "MX", TTL: int64Ptr(3600), Values: []string{"10 mail.example.com."}},
		},
		{
			name: "alias",
			rec: RecordSet{Name: "www.example.com.", Type: "A", Alias: &AliasTarget{
				DNSName:              "d123.cloudfront.net.",
				HostedZoneID:         "Z2FDTNDATAQYW2",
				EvaluateTargetHealth: true,
			}},
		},
		{
			name: "weighted variant",
			rec: RecordSet{
				Name:          "api.example.com.",
				Type:          "A",
				TTL:           int64Ptr(60),
				Values:        []string{"198.51.100.1"},
				SetIdentifier: "us-east-1",
				Weight:        int64Ptr(100),
				HealthCheckID: "hc-1234",
			},
		},
		{
			name: "multivalue answer",
			rec: RecordSet{
				Name:             "mv.example.com.",
				Type:             "A",
				TTL:              int64Ptr(30),
				Values:           []string{"203.0.113.9"},
				SetIdentifier:    "one",
				MultiValueAnswer: &mva,
			},
		},
		{
			name: "geolocation variant",
			rec: RecordSet{
				Name:          "geo.example.com.",
				Type:          "A",
				TTL:           int64Ptr(120),
				Values:        []string{"203.0.113.10"},
				SetIdentifier: "europe",
				GeoLocation:   &GeoLocation{ContinentCode: "EU"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromAPIRecordSet(toAPIRecordSet(tt.rec))
			if !reflect.DeepEqual(got, tt.rec) {
				t.Fatalf("conversion round trip mismatch:\n got %#v\nwant %#v", got, tt.rec)
			}
		})
	}
}
