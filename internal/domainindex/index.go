// Package domainindex implements the compact exact/root-suffix/prefix-suffix
// domain index used by the GeoSite matcher's fast path. Lookups cost
// O(number of dot-labels in the query), independent of the number of
// patterns stored.
package domainindex

import "strings"

// Index is an immutable (after construction) set of domain patterns.
type Index struct {
	exact          map[string]struct{}
	rootSuffixes   map[string]struct{}
	prefixSuffixes map[string]struct{}
}

// Builder accumulates patterns before freezing them into an Index.
type Builder struct {
	exact          map[string]struct{}
	rootSuffixes   map[string]struct{}
	prefixSuffixes map[string]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		exact:          make(map[string]struct{}),
		rootSuffixes:   make(map[string]struct{}),
		prefixSuffixes: make(map[string]struct{}),
	}
}

// AddExact adds a pattern that only matches itself exactly.
func (b *Builder) AddExact(name string) {
	b.exact[strings.ToLower(name)] = struct{}{}
}

// AddSuffix adds a suffix pattern. A pattern with a leading '.' matches
// only subdomains (a "prefix suffix", using the leading-dot convention of
// some source formats); without a leading dot it matches both the
// pattern itself and its subdomains (a "root suffix").
func (b *Builder) AddSuffix(pattern string) {
	pattern = strings.ToLower(pattern)
	if strings.HasPrefix(pattern, ".") {
		b.prefixSuffixes[strings.TrimPrefix(pattern, ".")] = struct{}{}
	} else {
		b.rootSuffixes[pattern] = struct{}{}
	}
}

// AddRootSuffix adds a pattern that matches both itself and any subdomain.
func (b *Builder) AddRootSuffix(pattern string) {
	b.rootSuffixes[strings.ToLower(pattern)] = struct{}{}
}

// AddPrefixSuffix adds a pattern that matches only subdomains, not the
// pattern itself.
func (b *Builder) AddPrefixSuffix(pattern string) {
	b.prefixSuffixes[strings.ToLower(pattern)] = struct{}{}
}

// Len reports the total number of distinct patterns accumulated so far.
func (b *Builder) Len() int {
	return len(b.exact) + len(b.rootSuffixes) + len(b.prefixSuffixes)
}

// Build freezes the accumulated patterns into an Index.
func (b *Builder) Build() *Index {
	return &Index{
		exact:          b.exact,
		rootSuffixes:   b.rootSuffixes,
		prefixSuffixes: b.prefixSuffixes,
	}
}

// Match reports whether host matches any pattern in the index. host must
// already be lowercased by the caller.
func (idx *Index) Match(host string) bool {
	if _, ok := idx.exact[host]; ok {
		return true
	}
	if _, ok := idx.rootSuffixes[host]; ok {
		return true
	}
	for i := 0; i < len(host); i++ {
		if host[i] != '.' {
			continue
		}
		parent := host[i+1:]
		if parent == "" {
			continue
		}
		if _, ok := idx.rootSuffixes[parent]; ok {
			return true
		}
		if _, ok := idx.prefixSuffixes[parent]; ok {
			return true
		}
	}
	return false
}

// Empty reports whether the index holds no patterns at all.
func (idx *Index) Empty() bool {
	return len(idx.exact) == 0 && len(idx.rootSuffixes) == 0 && len(idx.prefixSuffixes) == 0
}
