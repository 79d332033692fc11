package domain

import "strings"

// Tag is a workflow marker on a request
type Tag string

// Verification markers; a request carries at most one of them
const (
	TagGitOK    Tag = "git-ok"
	TagGitError Tag = "git-error"
)

// TagSet is an ordered set of tags, kept in insertion order
type TagSet struct{ items []Tag }

// NewTagSet builds a set from tags, dropping blanks and repeats
func NewTagSet(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s = s.Add(t)
	}
	return s
}

// ParseTags reads the comma separated storage form
func ParseTags(raw string) TagSet {
	var tags []Tag
	for part := range strings.SplitSeq(raw, ",") {
		tags = append(tags, Tag(strings.TrimSpace(part)))
	}
	return NewTagSet(tags...)
}

// String renders the comma separated storage form
func (s TagSet) String() string {
	parts := make([]string, len(s.items))
	for i, t := range s.items {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// Has reports whether t is in the set
func (s TagSet) Has(t Tag) bool {
	for _, it := range s.items {
		if it == t {
			return true
		}
	}
	return false
}

// HasAny reports whether any of ts is in the set
func (s TagSet) HasAny(ts []Tag) bool {
	for _, t := range ts {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// Add returns a set with t appended; the receiver is not modified
func (s TagSet) Add(t Tag) TagSet {
	if t == "" || s.Has(t) {
		return s
	}
	out := make([]Tag, len(s.items), len(s.items)+1)
	copy(out, s.items)
	return TagSet{items: append(out, t)}
}

// Remove returns a set without t; the receiver is not modified
func (s TagSet) Remove(t Tag) TagSet {
	if !s.Has(t) {
		return s
	}
	out := make([]Tag, 0, len(s.items)-1)
	for _, it := range s.items {
		if it != t {
			out = append(out, it)
		}
	}
	return TagSet{items: out}
}

// Tags returns a copy of the members in order
func (s TagSet) Tags() []Tag { return append([]Tag(nil), s.items...) }

// MarkVerified swaps git-error for git-ok
func (s TagSet) MarkVerified() TagSet { return s.Remove(TagGitError).Add(TagGitOK) }

// MarkFailed swaps git-ok for git-error
func (s TagSet) MarkFailed() TagSet { return s.Remove(TagGitOK).Add(TagGitError) }
