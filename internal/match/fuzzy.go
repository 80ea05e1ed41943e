package match

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// ratio scores two strings 0..100 by Levenshtein similarity.
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	sim, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(sim) * 100
}

// TokenSetRatio compares two strings as word sets, so that word order and
// repeated words do not depress the score. Both inputs are lowercased.
//
// The strings are tokenized on whitespace and split into the shared token
// set and each side's remainder; the score is the best ratio among the
// shared set alone and the shared set joined with either remainder.
func TokenSetRatio(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := make([]string, 0, len(ta))
	onlyA := make([]string, 0, len(ta))
	for tok := range ta {
		if tb[tok] {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	onlyB := make([]string, 0, len(tb))
	for tok := range tb {
		if !ta[tok] {
			onlyB = append(onlyB, tok)
		}
	}

	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := ratio(withA, withB)
	if base != "" {
		if s := ratio(base, withA); s > best {
			best = s
		}
		if s := ratio(base, withB); s > best {
			best = s
		}
	}
	return best
}

func tokens(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}
	return set
}
