package domain

import "time"

// Entry represents a single launchable bookmark entry.
// Entries belong to exactly one user and are soft-deleted
// (tombstoned) rather than removed, so other sessions of the
// same user can observe the deletion through the change stream.
type Entry struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (opaque string).
	ID string

	// UserID is the owning user. Never changes after creation.
	UserID string

	// CreatedAt is set once when the entry is created.
	CreatedAt time.Time

	// ─────────────────────────────
	// User-editable metadata
	// ─────────────────────────────

	// Title is the display name used for matching and listing.
	// Example: "GitHub"
	Title string

	// URL is the full target URL.
	// Example: https://github.com/
	URL string

	// Description is optional free text.
	Description string

	// Preview is an optional preview image URL.
	Preview string

	// Favicon is an optional favicon URL.
	Favicon string

	// Tags are free-text labels. Normalized (trimmed, deduplicated)
	// at write time; see NormalizeTags.
	Tags []string

	// ─────────────────────────────
	// Usage tracking
	// ─────────────────────────────

	// Visits counts how many times the entry was launched.
	Visits int64

	// LastVisit is the time of the most recent launch, nil if never.
	LastVisit *time.Time

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// Deleted is non-nil when the entry is tombstoned.
	// A deleted entry always carries its deletion time.
	Deleted *Deletion
}

// Deletion records when an item was soft-deleted.
type Deletion struct {
	At time.Time
}

// IsDeleted reports whether the entry is tombstoned.
func (e *Entry) IsDeleted() bool {
	return e != nil && e.Deleted != nil
}

// Clone returns a deep copy of the entry.
// Used to snapshot state before an optimistic mutation.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Tags != nil {
		c.Tags = make([]string, len(e.Tags))
		copy(c.Tags, e.Tags)
	}
	if e.LastVisit != nil {
		lv := *e.LastVisit
		c.LastVisit = &lv
	}
	if e.Deleted != nil {
		d := *e.Deleted
		c.Deleted = &d
	}
	return &c
}

// EntryPatch is a partial update of the user-editable fields.
// Identity, ownership, creation time and the visit counter are
// deliberately not representable here: they are never client-writable.
type EntryPatch struct {
	Title       *string
	URL         *string
	Description *string
	Preview     *string
	Favicon     *string
	Tags        *[]string
}

// IsZero reports whether the patch changes nothing.
func (p EntryPatch) IsZero() bool {
	return p.Title == nil && p.URL == nil && p.Description == nil &&
		p.Preview == nil && p.Favicon == nil && p.Tags == nil
}

// Apply merges the patch into the entry in place.
// Tags are normalized on the way in.
func (p EntryPatch) Apply(e *Entry) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.URL != nil {
		e.URL = *p.URL
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Preview != nil {
		e.Preview = *p.Preview
	}
	if p.Favicon != nil {
		e.Favicon = *p.Favicon
	}
	if p.Tags != nil {
		e.Tags = NormalizeTags(*p.Tags)
	}
}
