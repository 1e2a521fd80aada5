package core

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// groupedNumber matches 1-3 digits followed by comma-separated groups of
// exactly 3, which rejects malformed grouping like "1,23".
const groupedNumber = `\d{1,3}(?:,\d{3})*`

// amountPatterns is the ordered notation bank for currency amounts. Each
// pattern is applied independently over the full text; the order defines
// first-seen precedence for deduplication.
var amountPatterns = []*regexp.Regexp{
	// Symbol-prefixed: $1,234.56, €50, £25. Yen allows 0 or 2 decimals.
	regexp.MustCompile(`(?i)\$\s*(` + groupedNumber + `(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)€\s*(` + groupedNumber + `(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)£\s*(` + groupedNumber + `(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)¥\s*(` + groupedNumber + `(?:\.\d{0,2})?)`),

	// Code-suffixed: 100 USD, 50.00 EUR, 25 GBP, 1000 JPY.
	regexp.MustCompile(`(?i)(` + groupedNumber + `(?:\.\d{2})?)\s*USD`),
	regexp.MustCompile(`(?i)(` + groupedNumber + `(?:\.\d{2})?)\s*EUR`),
	regexp.MustCompile(`(?i)(` + groupedNumber + `(?:\.\d{2})?)\s*GBP`),
	regexp.MustCompile(`(?i)(` + groupedNumber + `(?:\.\d{0,2})?)\s*JPY`),

	// Financial vocabulary followed by an optionally-labelled number.
	regexp.MustCompile(`(?i)(?:amount|total|sum|payment|charge|price|cost|fee)[\s:]+\$?\s*(` + groupedNumber + `(?:\.\d{2})?)`),

	// Transaction verbs followed by a number.
	regexp.MustCompile(`(?i)(?:paid|received|sent|transferred|charged|billed)[\s:]+\$?\s*(` + groupedNumber + `(?:\.\d{2})?)`),
}

// ExtractAmounts scans text for currency amounts across every notation and
// returns the distinct values in first-seen order. Empty text yields an
// empty result; a numeric token that fails conversion is skipped without
// affecting the rest of the scan.
func ExtractAmounts(text string) []float64 {
	if text == "" {
		return nil
	}

	// Fold width variants so full-width ＄ and ￥ match the ASCII patterns.
	folded := width.Fold.String(text)

	seen := make(map[float64]struct{})
	var amounts []float64
	for _, re := range amountPatterns {
		for _, match := range re.FindAllStringSubmatch(folded, -1) {
			raw := strings.ReplaceAll(match[1], ",", "")
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			amounts = append(amounts, value)
		}
	}

	return amounts
}

// FilterAmountsByRange keeps amounts within the inclusive [min, max] range.
// A nil bound is unset.
func FilterAmountsByRange(amounts []float64, minAmount, maxAmount *float64) []float64 {
	var filtered []float64
	for _, amount := range amounts {
		if minAmount != nil && amount < *minAmount {
			continue
		}
		if maxAmount != nil && amount > *maxAmount {
			continue
		}
		filtered = append(filtered, amount)
	}
	return filtered
}

// ExtractEmailAmounts extracts from subject, body and snippet separately,
// unions the distinct values, and returns them sorted descending.
func ExtractEmailAmounts(subject, body, snippet string) []float64 {
	seen := make(map[float64]struct{})
	var all []float64
	for _, list := range [][]float64{
		ExtractAmounts(subject),
		ExtractAmounts(body),
		ExtractAmounts(snippet),
	} {
		for _, value := range list {
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			all = append(all, value)
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(all)))
	return all
}
