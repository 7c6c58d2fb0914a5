package policy

import (
	"fmt"
	"strings"
	"time"

	dErrors "dataspace/pkg/domain-errors"
)

// TimeBasedPolicy allows transfers whose request time, converted to the
// policy's zone, falls within [start, end], both bounds inclusive.
type TimeBasedPolicy struct {
	start int // seconds since midnight
	end   int
	zone  *time.Location
}

// NewTimeBasedPolicy parses start and end as "15:04" or "15:04:05" clock
// times. Malformed bounds or a reversed window are configuration errors.
func NewTimeBasedPolicy(start, end string, zone *time.Location) (*TimeBasedPolicy, error) {
	s, err := parseClock(start)
	if err != nil {
		return nil, err
	}
	e, err := parseClock(end)
	if err != nil {
		return nil, err
	}
	if s > e {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "business hours start must not be after end")
	}
	if zone == nil {
		zone = time.UTC
	}
	return &TimeBasedPolicy{start: s, end: e, zone: zone}, nil
}

func parseClock(s string) (int, error) {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid clock time %q", s))
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

func (p *TimeBasedPolicy) Evaluate(ctx Context) Result {
	local := ctx.RequestTime.In(p.zone)
	sec := local.Hour()*3600 + local.Minute()*60 + local.Second()
	if sec < p.start || sec > p.end {
		return Deny("Transfer not allowed outside business hours")
	}
	return Allow()
}

// GeographicPolicy allows transfers whose consumer region is in a fixed
// allow-set of region codes.
type GeographicPolicy struct {
	regions map[string]struct{}
}

// NewGeographicPolicy builds the allow-set from the given region codes. At
// least one region is required.
func NewGeographicPolicy(regions []string) (*GeographicPolicy, error) {
	if len(regions) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "geographic policy requires at least one allowed region")
	}
	set := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		set[r] = struct{}{}
	}
	return &GeographicPolicy{regions: set}, nil
}

func (p *GeographicPolicy) Evaluate(ctx Context) Result {
	if _, ok := p.regions[ctx.ConsumerRegion]; !ok {
		return Deny("Data transfer outside the allowed regions is not permitted")
	}
	return Allow()
}

// CertificationPolicy allows transfers whose consumer holds the required
// certification (exact match).
type CertificationPolicy struct {
	required string
}

func NewCertificationPolicy(required string) (*CertificationPolicy, error) {
	if required == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "certification policy requires a certification name")
	}
	return &CertificationPolicy{required: required}, nil
}

func (p *CertificationPolicy) Evaluate(ctx Context) Result {
	if !ctx.HasCertification(p.required) {
		return Deny("Missing required certification: " + p.required)
	}
	return Allow()
}

// RateLimitPolicy allows transfers while the consumer's request count in the
// preceding hour is at or below the configured ceiling. The boundary value
// itself is allowed.
type RateLimitPolicy struct {
	maxRequestsPerHour int64
}

func NewRateLimitPolicy(maxRequestsPerHour int64) (*RateLimitPolicy, error) {
	if maxRequestsPerHour < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "rate limit must not be negative")
	}
	return &RateLimitPolicy{maxRequestsPerHour: maxRequestsPerHour}, nil
}

func (p *RateLimitPolicy) Evaluate(ctx Context) Result {
	if ctx.RequestsInLastHour > p.maxRequestsPerHour {
		return Deny(fmt.Sprintf("Rate limit exceeded: max %d requests/hour", p.maxRequestsPerHour))
	}
	return Allow()
}

// UsagePolicy allows transfers whose usage purpose equals the allowed purpose
// under case-insensitive comparison.
type UsagePolicy struct {
	allowedPurpose string
}

func NewUsagePolicy(allowedPurpose string) (*UsagePolicy, error) {
	if allowedPurpose == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "usage policy requires an allowed purpose")
	}
	return &UsagePolicy{allowedPurpose: allowedPurpose}, nil
}

func (p *UsagePolicy) Evaluate(ctx Context) Result {
	if !strings.EqualFold(p.allowedPurpose, ctx.UsagePurpose) {
		return Deny("Usage purpose not allowed: " + ctx.UsagePurpose)
	}
	return Allow()
}
