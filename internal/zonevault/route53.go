package zonevault

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// AWSConfig contains configuration for the Route 53 control plane. When
// AccessKey is empty the SDK's default credential chain is used.
type AWSConfig struct {
	AccessKey   string
	SecretKey   string
	Region      string
	HTTPTimeout time.Duration
}

// DNSService is the slice of the DNS control plane the orchestrators
// depend on: zone enumeration, record pagination, and batch mutation.
type DNSService interface {
	ListZones(ctx context.Context) ([]HostedZone, error)
	ListRecordSets(ctx context.Context, zoneID string) ([]RecordSet, error)
	ApplyChangeBatch(ctx context.Context, zoneID string, records []RecordSet) (string, error)
}

// Route53API is the subset of the Route 53 SDK client this package calls,
// so tests can substitute a fake for the real client.
type Route53API interface {
	ListHostedZones(ctx context.Context, params *route53.ListHostedZonesInput, optFns ...func(*route53.Options)) (*route53.ListHostedZonesOutput, error)
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
}

// Route53Client implements DNSService against the Route 53 API.
type Route53Client struct {
	api Route53API
}

// NewRoute53Client builds a client from explicit configuration.
func NewRoute53Client(cfg *AWSConfig) (*Route53Client, error) {
	tr := &http.Transport{
		IdleConnTimeout:     5 * time.Minute,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
	}
	httpClient := &http.Client{Transport: tr}
	if cfg.HTTPTimeout > 0 {
		httpClient.Timeout = cfg.HTTPTimeout
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpClient),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			awscredentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Route53Client{api: route53.NewFromConfig(awsCfg)}, nil
}

// NewRoute53ClientFromAPI wraps an existing API implementation. Used by
// tests and by callers that configure the SDK themselves.
func NewRoute53ClientFromAPI(api Route53API) *Route53Client {
	return &Route53Client{api: api}
}

// ListZones returns every hosted zone visible to the caller's credentials,
// draining the source's own pagination before returning.
func (c *Route53Client) ListZones(ctx context.Context) ([]HostedZone, error) {
	return drainPages(ctx, func(ctx context.Context, cursor *string) ([]HostedZone, *string, error) {
		out, err := c.api.ListHostedZones(ctx, &route53.ListHostedZonesInput{Marker: cursor})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: list hosted zones: %v", ErrSourceUnavailable, err)
		}
		page := make([]HostedZone, 0, len(out.HostedZones))
		for _, hz := range out.HostedZones {
			page = append(page, fromAPIZone(hz))
		}
		if out.IsTruncated && out.NextMarker != nil {
			return page, out.NextMarker, nil
		}
		return page, nil, nil
	})
}

// recordCursor is the resume position of a record-set listing. Route 53
// resumes from the next record's name, type, and (for routing-policy
// variants) set identifier.
type recordCursor struct {
	name       *string
	recordType r53types.RRType
	identifier *string
}

// ListRecordSets returns the complete, ordered record set of one zone.
// A mid-pagination failure fails the whole listing; no truncated result is
// ever returned.
func (c *Route53Client) ListRecordSets(ctx context.Context, zoneID string) ([]RecordSet, error) {
	return drainPages(ctx, func(ctx context.Context, cursor *recordCursor) ([]RecordSet, *recordCursor, error) {
		input := &route53.ListResourceRecordSetsInput{HostedZoneId: aws.String(zoneID)}
		if cursor != nil {
			input.StartRecordName = cursor.name
			input.StartRecordType = cursor.recordType
			input.StartRecordIdentifier = cursor.identifier
		}
		out, err := c.api.ListResourceRecordSets(ctx, input)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: list record sets for zone %s: %v", ErrSourceUnavailable, zoneID, err)
		}
		page := make([]RecordSet, 0, len(out.ResourceRecordSets))
		for _, rrs := range out.ResourceRecordSets {
			page = append(page, fromAPIRecordSet(rrs))
		}
		if out.IsTruncated {
			return page, &recordCursor{
				name:       out.NextRecordName,
				recordType: out.NextRecordType,
				identifier: out.NextRecordIdentifier,
			}, nil
		}
		return page, nil, nil
	})
}

// ApplyChangeBatch submits one CREATE-only change batch against the target
// zone and returns the change ID. The batch is submitted exactly once; no
// retry happens here because CREATE is not idempotent-safe.
func (c *Route53Client) ApplyChangeBatch(ctx context.Context, zoneID string, records []RecordSet) (string, error) {
	changes := make([]r53types.Change, 0, len(records))
	for i := range records {
		rrs := toAPIRecordSet(records[i])
		changes = append(changes, r53types.Change{
			Action:            r53types.ChangeActionCreate,
			ResourceRecordSet: &rrs,
		})
	}
	out, err := c.api.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch:  &r53types.ChangeBatch{Changes: changes},
	})
	if err != nil {
		return "", err
	}
	if out.ChangeInfo == nil {
		return "", nil
	}
	return aws.ToString(out.ChangeInfo.Id), nil
}

// TestConnection verifies the Route 53 API is reachable with the
// configured credentials.
func (c *Route53Client) TestConnection(ctx context.Context) error {
	_, err := c.api.ListHostedZones(ctx, &route53.ListHostedZonesInput{MaxItems: aws.Int32(1)})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return nil
}

func fromAPIZone(hz r53types.HostedZone) HostedZone {
	return HostedZone{
		ID:   strings.TrimPrefix(aws.ToString(hz.Id), "/hostedzone/"),
		Name: strings.TrimSuffix(aws.ToString(hz.Name), "."),
	}
}

func fromAPIRecordSet(rrs r53types.ResourceRecordSet) RecordSet {
	rec := RecordSet{
		Name:             aws.ToString(rrs.Name),
		Type:             string(rrs.Type),
		TTL:              rrs.TTL,
		SetIdentifier:    aws.ToString(rrs.SetIdentifier),
		Weight:           rrs.Weight,
		Region:           string(rrs.Region),
		Failover:         string(rrs.Failover),
		MultiValueAnswer: rrs.MultiValueAnswer,
		HealthCheckID:    aws.ToString(rrs.HealthCheckId),
	}
	for _, rr := range rrs.ResourceRecords {
		rec.Values = append(rec.Values, aws.ToString(rr.Value))
	}
	if rrs.AliasTarget != nil {
		rec.Alias = &AliasTarget{
			DNSName:              aws.ToString(rrs.AliasTarget.DNSName),
			HostedZoneID:         aws.ToString(rrs.AliasTarget.HostedZoneId),
			EvaluateTargetHealth: rrs.AliasTarget.EvaluateTargetHealth,
		}
	}
	if rrs.GeoLocation != nil {
		rec.GeoLocation = &GeoLocation{
			ContinentCode:   aws.ToString(rrs.GeoLocation.ContinentCode),
			CountryCode:     aws.ToString(rrs.GeoLocation.CountryCode),
			SubdivisionCode: aws.ToString(rrs.GeoLocation.SubdivisionCode),
		}
	}
	return rec
}

func toAPIRecordSet(rec RecordSet) r53types.ResourceRecordSet {
	rrs := r53types.ResourceRecordSet{
		Name:             aws.String(rec.Name),
		Type:             r53types.RRType(rec.Type),
		TTL:              rec.TTL,
		Weight:           rec.Weight,
		Region:           r53types.ResourceRecordSetRegion(rec.Region),
		Failover:         r53types.ResourceRecordSetFailover(rec.Failover),
		MultiValueAnswer: rec.MultiValueAnswer,
	}
	if rec.SetIdentifier != "" {
		rrs.SetIdentifier = aws.String(rec.SetIdentifier)
	}
	if rec.HealthCheckID != "" {
		rrs.HealthCheckId = aws.String(rec.HealthCheckID)
	}
	for _, value := range rec.Values {
		rrs.ResourceRecords = append(rrs.ResourceRecords, r53types.ResourceRecord{Value: aws.String(value)})
	}
	if rec.Alias != nil {
		rrs.AliasTarget = &r53types.AliasTarget{
			DNSName:              aws.String(rec.Alias.DNSName),
			HostedZoneId:         aws.String(rec.Alias.HostedZoneID),
			EvaluateTargetHealth: rec.Alias.EvaluateTargetHealth,
		}
	}
	if rec.GeoLocation != nil {
		geo := &r53types.GeoLocation{}
		if rec.GeoLocation.ContinentCode != "" {
			geo.ContinentCode = aws.String(rec.GeoLocation.ContinentCode)
		}
		if rec.GeoLocation.CountryCode != "" {
			geo.CountryCode = aws.String(rec.GeoLocation.CountryCode)
		}
		if rec.GeoLocation.SubdivisionCode != "" {
			geo.SubdivisionCode = aws.String(rec.GeoLocation.SubdivisionCode)
		}
		rrs.GeoLocation = geo
	}
	return rrs
}
