package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	zone, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return zone
}

func contextAt(t *testing.T, requestTime time.Time) Context {
	t.Helper()
	return NewContext(
		"consumer-1", "provider-1", "sensor-data", "EU",
		[]string{"ISO_9001"}, "QUALITY_ANALYSIS",
		requestTime, berlin(t), 10,
	)
}

func TestTimeBasedPolicy_Boundaries(t *testing.T) {
	zone := berlin(t)
	p, err := NewTimeBasedPolicy("08:00", "18:00", zone)
	require.NoError(t, err)

	tests := []struct {
		name    string
		clock   time.Time
		allowed bool
	}{
		{"start boundary allowed", time.Date(2025, 6, 2, 8, 0, 0, 0, zone), true},
		{"end boundary allowed", time.Date(2025, 6, 2, 18, 0, 0, 0, zone), true},
		{"one second before start denied", time.Date(2025, 6, 2, 7, 59, 59, 0, zone), false},
		{"one second after end denied", time.Date(2025, 6, 2, 18, 0, 1, 0, zone), false},
		{"midday allowed", time.Date(2025, 6, 2, 12, 30, 0, 0, zone), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.Evaluate(contextAt(t, tt.clock))
			assert.Equal(t, tt.allowed, result.Allowed)
			if !tt.allowed {
				assert.Equal(t, "Transfer not allowed outside business hours", result.ViolationReason)
			}
		})
	}
}

func TestTimeBasedPolicy_ConvertsToPolicyZone(t *testing.T) {
	zone := berlin(t)
	p, err := NewTimeBasedPolicy("08:00", "18:00", zone)
	require.NoError(t, err)

	// 07:00 UTC is 09:00 in Berlin during summer: inside the window even
	// though the raw UTC clock is not.
	result := p.Evaluate(contextAt(t, time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)))
	assert.True(t, result.Allowed)
}

func TestTimeBasedPolicy_RejectsBadConfiguration(t *testing.T) {
	_, err := NewTimeBasedPolicy("18:00", "08:00", time.UTC)
	require.Error(t, err)

	_, err = NewTimeBasedPolicy("not-a-time", "18:00", time.UTC)
	require.Error(t, err)
}

func TestGeographicPolicy(t *testing.T) {
	p, err := NewGeographicPolicy([]string{"EU", "DE", "FR", "NL", "IT", "ES"})
	require.NoError(t, err)

	allowed := NewContext("c", "p", "d", "DE", nil, "", time.Now(), time.UTC, 0)
	assert.True(t, p.Evaluate(allowed).Allowed)

	denied := NewContext("c", "p", "d", "US", nil, "", time.Now(), time.UTC, 0)
	result := p.Evaluate(denied)
	assert.False(t, result.Allowed)
	assert.Equal(t, "Data transfer outside the allowed regions is not permitted", result.ViolationReason)

	_, err = NewGeographicPolicy(nil)
	require.Error(t, err)
}

func TestCertificationPolicy(t *testing.T) {
	p, err := NewCertificationPolicy("ISO_9001")
	require.NoError(t, err)

	held := NewContext("c", "p", "d", "EU", []string{"ISO_27001", "ISO_9001"}, "", time.Now(), time.UTC, 0)
	assert.True(t, p.Evaluate(held).Allowed)

	missing := NewContext("c", "p", "d", "EU", []string{"ISO_27001"}, "", time.Now(), time.UTC, 0)
	result := p.Evaluate(missing)
	assert.False(t, result.Allowed)
	assert.Equal(t, "Missing required certification: ISO_9001", result.ViolationReason)

	// An empty certification set denies, it never errors.
	empty := NewContext("c", "p", "d", "EU", nil, "", time.Now(), time.UTC, 0)
	assert.False(t, p.Evaluate(empty).Allowed)
}

func TestRateLimitPolicy_Boundary(t *testing.T) {
	p, err := NewRateLimitPolicy(100)
	require.NoError(t, err)

	atLimit := NewContext("c", "p", "d", "EU", nil, "", time.Now(), time.UTC, 100)
	assert.True(t, p.Evaluate(atLimit).Allowed)

	overLimit := NewContext("c", "p", "d", "EU", nil, "", time.Now(), time.UTC, 101)
	result := p.Evaluate(overLimit)
	assert.False(t, result.Allowed)
	assert.Equal(t, "Rate limit exceeded: max 100 requests/hour", result.ViolationReason)
}

func TestUsagePolicy_CaseInsensitive(t *testing.T) {
	p, err := NewUsagePolicy("QUALITY_ANALYSIS")
	require.NoError(t, err)

	lower := NewContext("c", "p", "d", "EU", nil, "quality_analysis", time.Now(), time.UTC, 0)
	assert.True(t, p.Evaluate(lower).Allowed)

	other := NewContext("c", "p", "d", "EU", nil, "MARKETING", time.Now(), time.UTC, 0)
	result := p.Evaluate(other)
	assert.False(t, result.Allowed)
	assert.Equal(t, "Usage purpose not allowed: MARKETING", result.ViolationReason)
}

func TestContext_CertificationsCopied(t *testing.T) {
	certs := []string{"ISO_9001"}
	ctx := NewContext("c", "p", "d", "EU", certs, "", time.Now(), time.UTC, 0)

	certs[0] = "SOMETHING_ELSE"
	assert.True(t, ctx.HasCertification("ISO_9001"))
	assert.False(t, ctx.HasCertification("SOMETHING_ELSE"))
}
