package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// noiseWords marks bracketed or trailing segments as promotional
// clutter. Matching is case-insensitive substring containment, so
// "remaster" also covers "Remastered 2009".
//
// The table is fixed at build time; nothing mutates it.
var noiseWords = []string{
	"remaster",
	"anniversary",
	"deluxe",
	"expanded",
	"bonus",
	"reissue",
	"edition",
	"original",
	"mono",
	"stereo",
	"instrumental",
	"re-recorded",
	"rerecorded",
	"live",
	"feat",
	"featuring",
}

// maxPasses bounds the fixed-point loops against pathological input.
const maxPasses = 16

var (
	bracketSegment  = regexp.MustCompile(`\(([^)]*)\)|\[([^\]]*)\]`)
	trailingSegment = regexp.MustCompile(`[\s\-/]+([^/\-]+)$`)
)

// containsNoise reports whether any noise word appears in s.
func containsNoise(s string) bool {
	s = strings.ToLower(s)
	for _, w := range noiseWords {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// SquashSpaces collapses whitespace runs to single spaces and trims the ends.
func SquashSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripNoiseBrackets deletes parenthesized or square-bracketed segments
// whose contents contain a noise word. The scan repeats until a pass
// produces no change: deleting one segment can make adjacent noise
// segments contiguous, e.g. "Song (Live) (Remastered)" needs two passes.
func stripNoiseBrackets(s string) string {
	for range maxPasses {
		next := bracketSegment.ReplaceAllStringFunc(s, func(seg string) string {
			if containsNoise(seg[1 : len(seg)-1]) {
				return ""
			}
			return seg
		})
		if next == s {
			break
		}
		s = next
	}
	return s
}

// stripNoiseSuffix repeatedly drops the text after the final space,
// hyphen, or slash run when that trailing segment contains a noise
// word, e.g. "Imagine - Remastered 2010" → "Imagine".
func stripNoiseSuffix(s string) string {
	for range maxPasses {
		m := trailingSegment.FindStringSubmatchIndex(s)
		if m == nil {
			break
		}
		tail := strings.TrimSpace(s[m[2]:m[3]])
		if !containsNoise(tail) {
			break
		}
		s = strings.TrimRight(s[:m[0]], " \t")
	}
	return s
}

// CleanTag strips promotional qualifiers from a catalog artist or
// title string. Pure, total, and idempotent: re-cleaning cleaned text
// is a no-op. A string made entirely of noise-qualified segments
// collapses to ""; callers keep searching on whatever text remains.
func CleanTag(s string) string {
	return SquashSpaces(stripNoiseSuffix(stripNoiseBrackets(s)))
}

// foldAccents decomposes s and drops combining marks, so "Beyoncé"
// compares equal to "Beyonce".
func foldAccents(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if !unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TrackKey builds a case- and accent-insensitive comparison key for a
// track, used for cache lookups and playlist diffing.
func TrackKey(title, artist string) string {
	fold := func(s string) string {
		return SquashSpaces(strings.ToLower(foldAccents(s)))
	}
	return fold(title) + "|" + fold(artist)
}
