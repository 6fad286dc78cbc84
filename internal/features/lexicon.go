// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"strings"
	"sync"
	"unicode"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// group maps one output label to the words that signal it.
type group struct {
	label string
	words []string
}

// lexicon matches text against groups of words in a single pass. Words match
// at the start of a token, so "minimal" also matches "minimalism".
type lexicon struct {
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
	owner   []int // dictionary index -> group index
	labels  []string
}

func newLexicon(groups []group) *lexicon {
	l := &lexicon{labels: make([]string, len(groups))}
	var dict []string
	for gi, g := range groups {
		l.labels[gi] = g.label
		for _, w := range g.words {
			dict = append(dict, " "+normalizeText(w))
			l.owner = append(l.owner, gi)
		}
	}
	l.matcher = ahocorasick.NewStringMatcher(dict)
	return l
}

// match returns every label with at least one hit, in group order.
func (l *lexicon) match(normalized string) []string {
	hit := l.hits(normalized)
	out := make([]string, 0, len(hit))
	for gi, label := range l.labels {
		if hit[gi] {
			out = append(out, label)
		}
	}
	return out
}

// first returns the first label in group order with a hit, or def.
func (l *lexicon) first(normalized, def string) string {
	hit := l.hits(normalized)
	for gi, label := range l.labels {
		if hit[gi] {
			return label
		}
	}
	return def
}

func (l *lexicon) hits(normalized string) map[int]bool {
	l.mu.Lock()
	idx := l.matcher.Match([]byte(" " + normalized + " "))
	l.mu.Unlock()

	hit := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(l.owner) {
			hit[l.owner[i]] = true
		}
	}
	return hit
}

// normalizeText lowercases s, strips accents and replaces every run of
// non-alphanumeric runes with a single space.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// tokens splits normalized text into words.
func tokens(s string) []string {
	return strings.Fields(normalizeText(s))
}
