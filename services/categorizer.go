package services

import (
	"sort"
	"strings"
)

// merchantRules maps merchant keywords found in bank descriptions to a
// spending category. Categories line up with the keys used in card reward
// profiles so an auto-categorized charge resolves the right reward rate.
var merchantRules = map[string]string{
	// UTILITIES
	"con edison": "utilities", "pg&e": "utilities", "duke energy": "utilities",
	"comcast": "utilities", "xfinity": "utilities", "verizon": "utilities", "at&t": "utilities", "t-mobile": "utilities",

	// INSURANCE
	"geico": "insurance", "state farm": "insurance", "progressive": "insurance", "allstate": "insurance",

	// ENTERTAINMENT
	"netflix": "entertainment", "spotify": "entertainment", "hulu": "entertainment",
	"disney+": "entertainment", "prime video": "entertainment", "amc theatres": "entertainment",

	// GROCERIES
	"whole foods": "groceries", "trader joe": "groceries", "kroger": "groceries",
	"safeway": "groceries", "costco": "groceries", "aldi": "groceries",

	// DINING
	"starbucks": "dining", "chipotle": "dining", "mcdonald": "dining",
	"doordash": "dining", "uber eats": "dining", "grubhub": "dining",

	// GAS
	"shell": "gas", "chevron": "gas", "exxon": "gas", "bp ": "gas",

	// TRAVEL
	"delta air": "travel", "united air": "travel", "american airlines": "travel",
	"marriott": "travel", "hilton": "travel", "airbnb": "travel", "expedia": "travel",
	"uber": "travel", "lyft": "travel", "amtrak": "travel",
}

// merchantKeys holds merchantRules keys longest first, so "uber eats"
// wins over "uber".
var merchantKeys = func() []string {
	keys := make([]string, 0, len(merchantRules))
	for k := range merchantRules {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Categorize guesses a category from a transaction description. It returns
// "" when no merchant keyword matches.
func Categorize(description string) string {
	label := strings.ToLower(strings.TrimSpace(description))
	if label == "" {
		return ""
	}
	for _, key := range merchantKeys {
		if strings.Contains(label, key) {
			return merchantRules[key]
		}
	}
	return ""
}
