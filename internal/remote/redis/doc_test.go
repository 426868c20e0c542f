package redis

import (
	"testing"
	"time"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/domain"
)

func TestWireTimeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
	}{
		{
			name: "whole seconds",
			in:   time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC),
		},
		{
			name: "millisecond precision",
			in:   time.Date(2025, 6, 1, 12, 30, 45, 123_000_000, time.UTC),
		},
		{
			name: "non-UTC zone normalized",
			in:   time.Date(2025, 6, 1, 12, 30, 45, 999_000_000, time.FixedZone("CEST", 2*3600)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeWireTime(encodeWireTime(tt.in))
			if err != nil {
				t.Fatalf("decodeWireTime() error = %v", err)
			}
			if !got.Equal(tt.in.Truncate(time.Millisecond)) {
				t.Errorf("round trip = %v, want %v", got, tt.in.Truncate(time.Millisecond))
			}
		})
	}
}

func TestDecodeWireTime_AcceptsLegacyPrecision(t *testing.T) {
	// Documents written by older clients may carry no fractional part
	// or more than three digits.
	for _, s := range []string{
		"2025-06-01T12:30:45Z",
		"2025-06-01T12:30:45.123456Z",
		"2025-06-01T12:30:45.1Z",
	} {
		if _, err := decodeWireTime(s); err != nil {
			t.Errorf("decodeWireTime(%q) error = %v", s, err)
		}
	}
}

func TestEntryRoundTrip(t *testing.T) {
	lastVisit := time.Date(2025, 6, 2, 8, 0, 0, 500_000_000, time.UTC)
	in := &domain.Entry{
		ID:          "entry-1",
		UserID:      "user-1",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 250_000_000, time.UTC),
		Title:       "GitHub",
		URL:         "https://github.com",
		Description: "code hosting",
		Preview:     "https://cdn.example/preview.png",
		Favicon:     "https://github.com/favicon.ico",
		Tags:        []string{"dev", "git"},
		Visits:      12,
		LastVisit:   &lastVisit,
	}

	out, err := decodeEntry(encodeEntry(in))
	if err != nil {
		t.Fatalf("decodeEntry() error = %v", err)
	}

	if out.ID != in.ID || out.UserID != in.UserID || out.Title != in.Title ||
		out.URL != in.URL || out.Description != in.Description ||
		out.Preview != in.Preview || out.Favicon != in.Favicon || out.Visits != in.Visits {
		t.Errorf("decoded entry differs: %+v", out)
	}
	if len(out.Tags) != 2 || out.Tags[0] != "dev" || out.Tags[1] != "git" {
		t.Errorf("Tags = %v", out.Tags)
	}
	if out.LastVisit == nil || !out.LastVisit.Equal(lastVisit) {
		t.Errorf("LastVisit = %v, want %v", out.LastVisit, lastVisit)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", out.CreatedAt, in.CreatedAt)
	}
	if out.IsDeleted() {
		t.Error("entry should not be deleted")
	}
}

func TestEntryRoundTrip_Tombstone(t *testing.T) {
	deletedAt := time.Date(2025, 6, 3, 9, 15, 0, 0, time.UTC)
	in := &domain.Entry{
		ID:        "entry-2",
		UserID:    "user-1",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Title:     "Old",
		URL:       "https://old.example",
		Deleted:   &domain.Deletion{At: deletedAt},
	}

	out, err := decodeEntry(encodeEntry(in))
	if err != nil {
		t.Fatalf("decodeEntry() error = %v", err)
	}
	if !out.IsDeleted() {
		t.Fatal("tombstone flag lost in round trip")
	}
	if !out.Deleted.At.Equal(deletedAt) {
		t.Errorf("Deleted.At = %v, want %v", out.Deleted.At, deletedAt)
	}
}

func TestDecodeEntry_DeletedWithoutTimestamp(t *testing.T) {
	// Legacy documents can carry deleted=true with no deletedAt;
	// the creation time stands in so the tagged state is complete.
	doc := entryDoc{
		ID:        "legacy",
		Title:     "Legacy",
		URL:       "https://legacy.example",
		CreatedAt: "2025-06-01T12:00:00.000Z",
		UserID:    "user-1",
		Deleted:   true,
	}

	out, err := decodeEntry(doc)
	if err != nil {
		t.Fatalf("decodeEntry() error = %v", err)
	}
	if !out.IsDeleted() || out.Deleted.At.IsZero() {
		t.Errorf("expected tombstone with non-zero timestamp, got %+v", out.Deleted)
	}
}

func TestGroupRoundTrip(t *testing.T) {
	in := &domain.Group{
		ID:          "group-1",
		UserID:      "user-1",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 750_000_000, time.UTC),
		Name:        "Work",
		Description: "work links",
		IsExpanded:  true,
	}

	out, err := decodeGroup(encodeGroup(in))
	if err != nil {
		t.Fatalf("decodeGroup() error = %v", err)
	}
	if out.ID != in.ID || out.Name != in.Name || out.Description != in.Description ||
		!out.IsExpanded || out.UserID != in.UserID {
		t.Errorf("decoded group differs: %+v", out)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", out.CreatedAt, in.CreatedAt)
	}
}

func TestDecodeEntryEvent_Removed(t *testing.T) {
	change, err := decodeEntryEvent(`{"kind":"removed","doc":{"id":"entry-9","userId":"user-1"}}`)
	if err != nil {
		t.Fatalf("decodeEntryEvent() error = %v", err)
	}
	if change.Kind != "removed" || change.Entry.ID != "entry-9" {
		t.Errorf("unexpected change: %+v", change)
	}
}
