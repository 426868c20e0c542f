package domain

import (
	"net/url"
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier substring matches score higher)
	ScorePositionBonus = 10.0

	// Tag matches score slightly below title matches
	ScoreTagWeight = 0.8

	// Host matches score below title matches
	ScoreHostWeight = 0.6
)

// Candidate represents an entry candidate with its match score.
type Candidate struct {
	Entry *Entry
	Score float64
}

// ScoreEntry calculates the match score for an entry against a query string.
// The title is the primary match target; tags and the URL host contribute
// with reduced weight.
func ScoreEntry(queryStr string, entry *Entry) float64 {
	if entry == nil || queryStr == "" {
		return 0.0
	}

	queryStr = strings.ToLower(strings.TrimSpace(queryStr))

	best := scoreText(queryStr, strings.ToLower(entry.Title))

	for _, tag := range entry.Tags {
		if s := scoreText(queryStr, strings.ToLower(tag)) * ScoreTagWeight; s > best {
			best = s
		}
	}

	if host := entryHost(entry); host != "" {
		if s := scoreText(queryStr, host) * ScoreHostWeight; s > best {
			best = s
		}
	}

	return best
}

// scoreText scores a query against a single text field.
func scoreText(queryStr, text string) float64 {
	if queryStr == "" || text == "" {
		return 0.0
	}

	// Exact match (highest score)
	if queryStr == text {
		return ScoreExactMatch
	}

	// Prefix match
	if strings.HasPrefix(text, queryStr) {
		return ScorePrefixMatch
	}

	// Substring match
	if strings.Contains(text, queryStr) {
		index := strings.Index(text, queryStr)
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(text)))
		return ScoreSubstringMatch + substringBonus
	}

	// Fuzzy match (word-based)
	// Check if all query words appear in the text
	queryWords := strings.Fields(queryStr)
	if len(queryWords) > 1 {
		allMatch := true
		for _, word := range queryWords {
			if !strings.Contains(text, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	// Character similarity
	similarity := calculateSimilarity(queryStr, text)
	if similarity > 0.5 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculateSimilarity calculates fuzzy similarity between two strings
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}

	// Simple similarity: ratio of matching characters
	matches := 0
	for _, c := range s1 {
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}

	return float64(matches) / float64(len(s1))
}

// entryHost extracts the lowercased hostname of the entry URL.
func entryHost(entry *Entry) string {
	u, err := url.Parse(entry.URL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
}

// RankCandidates ranks entry candidates by score (descending).
// Tombstoned entries and entries with no match are skipped.
func RankCandidates(queryStr string, entries []*Entry) []*Candidate {
	candidates := make([]*Candidate, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDeleted() {
			continue
		}

		score := ScoreEntry(queryStr, entry)
		if score == 0.0 {
			continue
		}

		candidates = append(candidates, &Candidate{
			Entry: entry,
			Score: score,
		})
	}

	sortCandidates(candidates)

	return candidates
}

// sortCandidates sorts candidates by score (descending)
func sortCandidates(candidates []*Candidate) {
	// Simple bubble sort (fine for small lists)
	n := len(candidates)
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-i-1; j++ {
			if candidates[j].Score < candidates[j+1].Score {
				candidates[j], candidates[j+1] = candidates[j+1], candidates[j]
			}
		}
	}
}

// FindBestMatch finds the best matching entry for a query.
func FindBestMatch(queryStr string, entries []*Entry) *Entry {
	candidates := RankCandidates(queryStr, entries)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0].Entry
}
