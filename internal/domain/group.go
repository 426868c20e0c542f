package domain

import "time"

// Group is a user-defined grouping of entries in the launcher UI.
// Groups are independent of tags: the "convert tag to group" flow
// only creates a group sharing the tag's name, no structural link
// is persisted.
type Group struct {
	// ID is the canonical unique identifier.
	ID string

	// UserID is the owning user.
	UserID string

	// CreatedAt is set once when the group is created.
	CreatedAt time.Time

	// Name is the display name.
	Name string

	// Description is optional free text.
	Description string

	// IsExpanded tracks the expanded/collapsed UI state.
	IsExpanded bool

	// Deleted is non-nil when the group is tombstoned.
	Deleted *Deletion
}

// IsDeleted reports whether the group is tombstoned.
func (g *Group) IsDeleted() bool {
	return g != nil && g.Deleted != nil
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	if g.Deleted != nil {
		d := *g.Deleted
		c.Deleted = &d
	}
	return &c
}

// GroupPatch is a partial update of the user-editable group fields.
type GroupPatch struct {
	Name        *string
	Description *string
	IsExpanded  *bool
}

// IsZero reports whether the patch changes nothing.
func (p GroupPatch) IsZero() bool {
	return p.Name == nil && p.Description == nil && p.IsExpanded == nil
}

// Apply merges the patch into the group in place.
func (p GroupPatch) Apply(g *Group) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.IsExpanded != nil {
		g.IsExpanded = *p.IsExpanded
	}
}
