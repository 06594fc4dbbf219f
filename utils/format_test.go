package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "₹0"},
		{"negative", -500, "₹0"},
		{"nan", math.NaN(), "₹0"},
		{"infinity", math.Inf(1), "₹0"},
		{"small", 950, "₹950"},
		{"thousands", 45000, "₹45,000"},
		{"lakh boundary", 100000, "₹1 L"},
		{"lakhs", 550000, "₹5.5 L"},
		{"crore boundary", 10000000, "₹1 Cr"},
		{"crores", 25000000, "₹2.5 Cr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatCurrency(tc.amount))
		})
	}
}

func TestGroupIndian(t *testing.T) {
	assert.Equal(t, "999", groupIndian(999))
	assert.Equal(t, "1,000", groupIndian(1000))
	assert.Equal(t, "45,000", groupIndian(45000))
	assert.Equal(t, "99,999", groupIndian(99999))
	assert.Equal(t, "12,34,567", groupIndian(1234567))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "recently", FormatRelativeTime(time.Time{}))
	assert.Equal(t, "recently", FormatRelativeTime(now.Add(2*time.Hour)))
	assert.Equal(t, "today", FormatRelativeTime(now.Add(-3*time.Hour)))
	assert.Equal(t, "1 day ago", FormatRelativeTime(now.Add(-30*time.Hour)))
	assert.Equal(t, "5 days ago", FormatRelativeTime(now.AddDate(0, 0, -5).Add(-time.Hour)))
	assert.Equal(t, "over a month ago", FormatRelativeTime(now.AddDate(0, 0, -45)))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{"plumbing", "electrical"}, SplitTags(" Plumbing , electrical ,, plumbing"))
}
