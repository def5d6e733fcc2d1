package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"30m":    30 * time.Minute,
		"2h":     2 * time.Hour,
		"3d":     72 * time.Hour,
		"1w":     7 * 24 * time.Hour,
		"1d12h":  36 * time.Hour,
		"1w2d":   9 * 24 * time.Hour,
		" 10S ":  10 * time.Second,
		"1w1d1m": 8*24*time.Hour + time.Minute,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := ParseDuration(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "xd", "-1d", "1d2x"} {
		_, err := ParseDuration(in)
		assert.Error(t, err, in)
	}
}

func TestParseExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	expiry, err := ParseExpiry(now, "1d")
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), expiry)

	_, err = ParseExpiry(now, "0s")
	assert.Error(t, err)
	_, err = ParseExpiry(now, "-5m")
	assert.Error(t, err)
}

func TestParseDurationOverflow(t *testing.T) {
	for _, in := range []string{"31000w", "16000w", "110000d", "15000w2000d", "15250w2000000h"} {
		_, err := ParseDuration(in)
		assert.ErrorIs(t, err, errDurationTooLong, in)
	}

	longest, err := ParseDuration("15000w")
	require.NoError(t, err)
	assert.Equal(t, 15000*7*24*time.Hour, longest)

	_, err = ParseExpiry(time.Now(), "31000w")
	assert.Error(t, err)
}
