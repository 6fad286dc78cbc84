// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package dedupe removes duplicate content from result lists.
//
// Two items are duplicates when their image URLs share the same canonical
// form. Canonicalization lowercases the scheme and host, drops default ports,
// fragments, tracking and cache-busting query parameters, trims a trailing
// slash and sorts the remaining query parameters. The first occurrence in
// list order is always the one kept.
package dedupe

import (
	"net/url"
	"sort"
	"strings"
)

// noiseParams are query parameters that never change the served image.
var noiseParams = map[string]struct{}{
	"_":          {},
	"cb":         {},
	"cachebust":  {},
	"cache_bust": {},
	"nocache":    {},
	"t":          {},
	"ts":         {},
	"timestamp":  {},
	"v":          {},
	"ver":        {},
	"rnd":        {},
	"rand":       {},
	"random":     {},
	"fbclid":     {},
	"gclid":      {},
	"mc_cid":     {},
	"mc_eid":     {},
	"ref":        {},
}

// CanonicalURL returns the canonical form of raw. Relative URLs keep their
// path case but still lose noise parameters and fragments. Inputs that cannot
// be parsed are returned trimmed and lowercased so they still compare
// consistently.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	if u.Host != "" {
		u.Scheme = strings.ToLower(u.Scheme)
		host := strings.ToLower(u.Hostname())
		port := u.Port()
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			port = ""
		}
		if port != "" {
			host = host + ":" + port
		}
		u.Host = host
		u.User = nil
	}
	u.Fragment = ""
	u.RawFragment = ""

	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = ""
	}

	u.RawQuery = canonicalQuery(u.Query())
	return u.String()
}

func canonicalQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		lk := strings.ToLower(k)
		if _, noisy := noiseParams[lk]; noisy || strings.HasPrefix(lk, "utm_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vals := append([]string(nil), q[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Dedupe returns items with duplicates removed, keeping the first occurrence
// of each canonical key. urlOf extracts the URL to canonicalize. The input
// slice is not modified.
func Dedupe[T any](items []T, urlOf func(T) string) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		key := CanonicalURL(urlOf(it))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}
