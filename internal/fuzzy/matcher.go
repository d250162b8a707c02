package fuzzy

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
)

// Per-character bonuses for the ordered-subsequence scorer. Prefix
// alignment beats a word-boundary hit, which beats extending a contiguous
// run, which beats a scattered mid-word match. Any monotonic scheme with
// this ordering keeps ranking stable; the exact values only set the gaps.
const (
	prefixBonus     = 2.0
	boundaryBonus   = 1.5
	contiguousBonus = 1.0
	scatteredBonus  = 0.5
)

// Match computes the similarity between the typed pattern and a candidate
// name. The pattern must occur as a case-insensitive ordered subsequence of
// the name; otherwise the candidate is excluded (ok == false, score 0).
// An empty pattern matches everything with a full score.
//
// The scan is greedy left to right: each pattern character takes the
// earliest eligible name character. Scores are normalized by pattern length
// so longer patterns do not dominate shorter ones.
func Match(pattern, name string) (float64, bool) {
	if pattern == "" {
		return 1.0, true
	}
	if name == "" {
		return 0, false
	}

	pat := []rune(pattern)
	nam := []rune(name)

	score := 0.0
	ni := 0
	lastMatch := -2
	for _, pc := range pat {
		found := false
		for ; ni < len(nam); ni++ {
			if !runesEqualFold(pc, nam[ni]) {
				continue
			}
			switch {
			case ni == 0:
				score += prefixBonus
			case isWordBoundary(nam, ni):
				score += boundaryBonus
			case ni == lastMatch+1:
				score += contiguousBonus
			default:
				score += scatteredBonus
			}
			lastMatch = ni
			ni++
			found = true
			break
		}
		if !found {
			return 0, false
		}
	}
	return score / float64(len(pat)), true
}

// Similarity is the secondary ranking key: Jaro-Winkler similarity between
// pattern and name. It only ever breaks ties between candidates whose
// subsequence scores are equal, so it cannot reorder across score buckets.
func Similarity(pattern, name string) float64 {
	if pattern == "" || name == "" {
		return 0
	}
	s, err := edlib.StringsSimilarity(strings.ToLower(pattern), strings.ToLower(name), edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return float64(s)
}

func runesEqualFold(a, b rune) bool {
	return unicode.ToLower(a) == unicode.ToLower(b)
}

// isWordBoundary reports whether name[i] starts a word segment: it follows
// a separator, or is an uppercase letter after a lowercase one (camelCase).
func isWordBoundary(name []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := name[i-1]
	cur := name[i]
	if prev == '_' || prev == '-' || prev == '.' {
		return true
	}
	if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
