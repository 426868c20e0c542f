package domain

import "strings"

// NormalizeTags trims whitespace, drops empty tags and removes
// duplicates while preserving first-occurrence order.
// Stored documents written by older clients may still contain
// duplicates; those are tolerated on read.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}

	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))

	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}

	return out
}

// HasTag reports whether the entry carries the given tag.
func HasTag(e *Entry, tag string) bool {
	if e == nil {
		return false
	}
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DistinctTags collects the set of tags in use across the given
// entries, skipping tombstoned entries. Order is first occurrence.
func DistinctTags(entries []*Entry) []string {
	tags := make([]string, 0, 16)
	seen := make(map[string]bool)

	for _, e := range entries {
		if e.IsDeleted() {
			continue
		}
		for _, t := range e.Tags {
			if seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}
	}

	return tags
}
