package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jacklee1792/predicord/pkg/errors"
)

func TestParseExpiry_Relative(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name string
		expr string
		want time.Time
	}{
		{
			name: "seconds",
			expr: "+45s",
			want: now.Add(45 * time.Second),
		},
		{
			name: "hours and minutes",
			expr: "+3h45m",
			want: now.Add(3*time.Hour + 45*time.Minute),
		},
		{
			name: "days",
			expr: "+9d",
			want: now.AddDate(0, 0, 9),
		},
		{
			name: "weeks expand to days",
			expr: "+2w",
			want: now.AddDate(0, 0, 14),
		},
		{
			name: "calendar months honor month lengths",
			expr: "+3mo",
			want: now.AddDate(0, 3, 0),
		},
		{
			name: "compound spec",
			expr: "+1y3mo2w9d3h45m3s",
			want: now.AddDate(1, 3, 23).Add(3*time.Hour + 45*time.Minute + 3*time.Second),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseExpiry(tc.expr, now)
			assert.NoError(t, err)
			if assert.NotNil(t, got) {
				assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseExpiry_Absolute(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name string
		expr string
		want time.Time
	}{
		{
			name: "bare date expires at end of day",
			expr: "2024-04-03",
			want: time.Date(2024, 4, 3, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "explicit midnight normalized to end of day",
			expr: "2024-04-03 00:00:00",
			want: time.Date(2024, 4, 3, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "datetime kept as given",
			expr: "2024-04-03 18:15:00",
			want: time.Date(2024, 4, 3, 18, 15, 0, 0, time.UTC),
		},
		{
			name: "datetime without seconds",
			expr: "2024-04-03 18:15",
			want: time.Date(2024, 4, 3, 18, 15, 0, 0, time.UTC),
		},
		{
			name: "iso datetime",
			expr: "2024-04-03T18:15:00",
			want: time.Date(2024, 4, 3, 18, 15, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseExpiry(tc.expr, now)
			assert.NoError(t, err)
			if assert.NotNil(t, got) {
				assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseExpiry_Empty(t *testing.T) {
	got, err := ParseExpiry("", time.Now())
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseExpiry("   ", time.Now())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseExpiry_Invalid(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	for _, expr := range []string{
		"+",
		"+3x",
		"+h3",
		"+1y3q",
		"soon",
		"04/03/2024",
		"2024-13-40",
	} {
		t.Run(expr, func(t *testing.T) {
			got, err := ParseExpiry(expr, now)
			assert.Nil(t, got)
			assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidDuration))
		})
	}
}
