package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataspace/internal/platform/config"
)

func defaultConfig() config.PolicyConfig {
	return config.PolicyConfig{
		BusinessHoursStart:    "08:00",
		BusinessHoursEnd:      "18:00",
		BusinessHoursZone:     "Europe/Berlin",
		AllowedRegions:        []string{"EU", "DE", "FR", "NL", "IT", "ES"},
		RequiredCertification: "ISO_9001",
		MaxRequestsPerHour:    100,
		AllowedPurpose:        "QUALITY_ANALYSIS",
	}
}

func TestDefault_ApprovesCompliantRequest(t *testing.T) {
	tree, err := Default(defaultConfig())
	require.NoError(t, err)

	zone, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	ctx := NewContext(
		"consumer-1", "provider-1", "sensor-data", "EU",
		[]string{"ISO_9001"}, "quality_analysis",
		time.Date(2025, 6, 2, 10, 0, 0, 0, zone), zone, 10,
	)
	assert.True(t, tree.Evaluate(ctx).Allowed)
}

func TestDefault_DeniesOnFirstViolatedRule(t *testing.T) {
	tree, err := Default(defaultConfig())
	require.NoError(t, err)

	zone, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	inHours := time.Date(2025, 6, 2, 10, 0, 0, 0, zone)

	// Geography is checked before certification, so the region violation wins.
	ctx := NewContext(
		"consumer-1", "provider-1", "sensor-data", "US",
		nil, "quality_analysis", inHours, zone, 10,
	)
	result := tree.Evaluate(ctx)
	assert.False(t, result.Allowed)
	assert.Equal(t, "Data transfer outside the allowed regions is not permitted", result.ViolationReason)
}

func TestDefault_RejectsUnknownZone(t *testing.T) {
	cfg := defaultConfig()
	cfg.BusinessHoursZone = "Not/AZone"
	_, err := Default(cfg)
	require.Error(t, err)
}
