// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package dedupe

import (
	"fmt"
	"testing"
)

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "https://cdn.x.com/a.jpg", "https://cdn.x.com/a.jpg", true},
		{"host case", "https://CDN.X.com/a.jpg", "https://cdn.x.com/a.jpg", true},
		{"scheme case", "HTTPS://cdn.x.com/a.jpg", "https://cdn.x.com/a.jpg", true},
		{"default port", "https://cdn.x.com:443/a.jpg", "https://cdn.x.com/a.jpg", true},
		{"fragment", "https://cdn.x.com/a.jpg#top", "https://cdn.x.com/a.jpg", true},
		{"cache buster", "https://cdn.x.com/a.jpg?v=123", "https://cdn.x.com/a.jpg", true},
		{"utm params", "https://cdn.x.com/a.jpg?utm_source=tw&utm_medium=social", "https://cdn.x.com/a.jpg", true},
		{"param order", "https://cdn.x.com/a.jpg?w=100&h=50", "https://cdn.x.com/a.jpg?h=50&w=100", true},
		{"trailing slash", "https://cdn.x.com/img/", "https://cdn.x.com/img", true},
		{"different path", "https://cdn.x.com/a.jpg", "https://cdn.x.com/b.jpg", false},
		{"meaningful param", "https://cdn.x.com/a.jpg?w=100", "https://cdn.x.com/a.jpg?w=200", false},
		{"non default port", "https://cdn.x.com:8443/a.jpg", "https://cdn.x.com/a.jpg", false},
		{"path case preserved", "https://cdn.x.com/A.jpg", "https://cdn.x.com/a.jpg", false},
		{"relative cache buster", "/uploads/Photo.png?t=1", "/uploads/Photo.png", true},
		{"relative utm and fragment", "/uploads/Photo.png?utm_source=x#top", "/uploads/Photo.png?cb=9", true},
		{"relative path case preserved", "/uploads/Photo.png", "/uploads/photo.png", false},
		{"relative meaningful param", "/uploads/a.png?w=100", "/uploads/a.png?w=200", false},
		{"unparsable", "  HTTP://%ZZ ", "http://%zz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ca, cb := CanonicalURL(tt.a), CanonicalURL(tt.b)
			if (ca == cb) != tt.same {
				t.Errorf("CanonicalURL(%q)=%q, CanonicalURL(%q)=%q, same=%v want %v",
					tt.a, ca, tt.b, cb, ca == cb, tt.same)
			}
		})
	}
}

func TestCanonicalURLIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://CDN.x.com:443/a/b/?utm_x=1&b=2&a=1#frag",
		"http://x.com/",
		"relative/path",
		"/uploads/Photo.png?b=2&t=1&a=1#x",
		"",
	}
	for _, in := range inputs {
		once := CanonicalURL(in)
		if twice := CanonicalURL(once); twice != once {
			t.Errorf("CanonicalURL not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

type entry struct {
	id  string
	url string
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	items := []entry{
		{"1", "https://cdn.x.com/a.jpg"},
		{"2", "https://cdn.x.com/b.jpg"},
		{"3", "https://CDN.x.com/a.jpg?utm_source=feed"},
		{"4", "https://cdn.x.com/c.jpg"},
		{"5", "https://cdn.x.com/b.jpg#again"},
	}

	got := Dedupe(items, func(e entry) string { return e.url })

	wantIDs := []string{"1", "2", "4"}
	if len(got) != len(wantIDs) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].id != id {
			t.Errorf("got[%d].id = %q, want %q", i, got[i].id, id)
		}
	}
	if len(items) != 5 {
		t.Errorf("input slice modified")
	}
}

func TestDedupe_CacheBustedCopies(t *testing.T) {
	t.Parallel()

	items := make([]entry, 0, 20)
	for i := range 20 {
		items = append(items, entry{fmt.Sprint(i), fmt.Sprintf("https://img.example.com/%d.png", i)})
	}
	items[4].url = "https://img.example.com/shared.png?cb=1"
	items[9].url = "https://img.example.com/shared.png?v=2"
	items[15].url = "https://img.example.com/shared.png?t=1700000000"

	urlOf := func(e entry) string { return e.url }
	got := Dedupe(items, urlOf)

	var wantIDs []string
	for i := range 20 {
		if i != 9 && i != 15 {
			wantIDs = append(wantIDs, fmt.Sprint(i))
		}
	}
	if len(got) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].id != id {
			t.Errorf("got[%d].id = %q, want %q", i, got[i].id, id)
		}
	}

	again := Dedupe(got, urlOf)
	if len(again) != len(got) {
		t.Fatalf("second pass len = %d, want %d", len(again), len(got))
	}
	for i := range got {
		if again[i] != got[i] {
			t.Errorf("second pass changed item %d: %v -> %v", i, got[i], again[i])
		}
	}
}

func TestDedupeEmpty(t *testing.T) {
	t.Parallel()

	got := Dedupe([]entry(nil), func(e entry) string { return e.url })
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
