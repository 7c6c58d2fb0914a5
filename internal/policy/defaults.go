package policy

import (
	"fmt"
	"time"

	"dataspace/internal/platform/config"
)

// Default builds the standard transfer approval tree from configuration: an
// AND over business hours, geography, certification, rate limit, and usage
// purpose. The tree is constructed once at startup and shared read-only by
// every evaluation.
func Default(cfg config.PolicyConfig) (Policy, error) {
	zone, err := time.LoadLocation(cfg.BusinessHoursZone)
	if err != nil {
		return nil, fmt.Errorf("load business hours zone: %w", err)
	}

	timeBased, err := NewTimeBasedPolicy(cfg.BusinessHoursStart, cfg.BusinessHoursEnd, zone)
	if err != nil {
		return nil, fmt.Errorf("time-based policy: %w", err)
	}
	geographic, err := NewGeographicPolicy(cfg.AllowedRegions)
	if err != nil {
		return nil, fmt.Errorf("geographic policy: %w", err)
	}
	certification, err := NewCertificationPolicy(cfg.RequiredCertification)
	if err != nil {
		return nil, fmt.Errorf("certification policy: %w", err)
	}
	rateLimit, err := NewRateLimitPolicy(cfg.MaxRequestsPerHour)
	if err != nil {
		return nil, fmt.Errorf("rate limit policy: %w", err)
	}
	usage, err := NewUsagePolicy(cfg.AllowedPurpose)
	if err != nil {
		return nil, fmt.Errorf("usage policy: %w", err)
	}

	return NewAndPolicy(timeBased, geographic, certification, rateLimit, usage)
}
