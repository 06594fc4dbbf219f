package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	lakh  = 100_000
	crore = 10_000_000
)

// FormatCurrency renders an amount in rupees using the Indian
// abbreviation tiers: crores above 1,00,00,000, lakhs above 1,00,000,
// grouped digits below that. Zero, negative and NaN amounts all render
// as the zero representation instead of failing.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return "₹0"
	}
	switch {
	case amount >= crore:
		return trimTrailingZero(fmt.Sprintf("₹%.1f Cr", amount/crore))
	case amount >= lakh:
		return trimTrailingZero(fmt.Sprintf("₹%.1f L", amount/lakh))
	default:
		return "₹" + groupIndian(int64(math.Round(amount)))
	}
}

func trimTrailingZero(s string) string {
	return strings.Replace(s, ".0 ", " ", 1)
}

// groupIndian applies Indian digit grouping: the last three digits,
// then groups of two (12,34,567).
func groupIndian(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

// FormatRelativeTime buckets a creation timestamp relative to now.
// Zero or future timestamps fall back to "recently".
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "recently"
	}
	elapsed := time.Since(t)
	if elapsed < 0 {
		return "recently"
	}
	days := int(elapsed.Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "1 day ago"
	case days <= 30:
		return fmt.Sprintf("%d days ago", days)
	default:
		return "over a month ago"
	}
}
