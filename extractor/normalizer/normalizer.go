// Package normalizer removes layout noise from slip text before fields are
// read by position.
package normalizer

import (
	"strings"
)

// Rules is a dialect's noise description. Line comparisons ignore
// surrounding whitespace.
type Rules struct {
	// DropLines removes lines equal to one of the values.
	DropLines []string
	// DropPrefixes removes lines starting with one of the values.
	DropPrefixes []string
	// StripPrefixes removes the prefix and keeps the rest of the line.
	StripPrefixes []string
	// JoinPairs merges two consecutive lines into "first second".
	JoinPairs [][2]string
	// DropPairs removes two consecutive lines.
	DropPairs [][2]string
}

func (r Rules) Empty() bool {
	return len(r.DropLines) == 0 && len(r.DropPrefixes) == 0 &&
		len(r.StripPrefixes) == 0 && len(r.JoinPairs) == 0 && len(r.DropPairs) == 0
}

// Merge returns r with the values of other appended.
func (r Rules) Merge(other Rules) Rules {
	return Rules{
		DropLines:     append(append([]string{}, r.DropLines...), other.DropLines...),
		DropPrefixes:  append(append([]string{}, r.DropPrefixes...), other.DropPrefixes...),
		StripPrefixes: append(append([]string{}, r.StripPrefixes...), other.StripPrefixes...),
		JoinPairs:     append(append([][2]string{}, r.JoinPairs...), other.JoinPairs...),
		DropPairs:     append(append([][2]string{}, r.DropPairs...), other.DropPairs...),
	}
}

// Normalize applies rules to text until nothing changes, so
// Normalize(Normalize(t)) == Normalize(t).
func Normalize(text string, rules Rules) string {
	if rules.Empty() {
		return text
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	return strings.Join(NormalizeLines(lines, rules), "\n")
}

// NormalizeLines is Normalize over pre-split lines. The input is not
// modified.
func NormalizeLines(lines []string, rules Rules) []string {
	out := append([]string(nil), lines...)
	if rules.Empty() {
		return out
	}
	// Every changing pass removes a line or shortens one, so this ends.
	for {
		next, changed := pass(out, rules)
		if !changed {
			return next
		}
		out = next
	}
}

func pass(lines []string, rules Rules) ([]string, bool) {
	out := make([]string, 0, len(lines))
	changed := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if i+1 < len(lines) {
			nextTrimmed := strings.TrimSpace(lines[i+1])
			if pairMatches(rules.DropPairs, trimmed, nextTrimmed) {
				i++
				changed = true
				continue
			}
			if pairMatches(rules.JoinPairs, trimmed, nextTrimmed) {
				out = append(out, trimmed+" "+nextTrimmed)
				i++
				changed = true
				continue
			}
		}

		if contains(rules.DropLines, trimmed) || hasAnyPrefix(rules.DropPrefixes, trimmed) {
			changed = true
			continue
		}

		if stripped, ok := stripPrefix(rules.StripPrefixes, line); ok {
			out = append(out, stripped)
			changed = true
			continue
		}

		out = append(out, line)
	}

	return out, changed
}

func pairMatches(pairs [][2]string, first, second string) bool {
	for _, p := range pairs {
		if p[0] != "" && p[0] == first && p[1] == second {
			return true
		}
	}
	return false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func hasAnyPrefix(prefixes []string, s string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func stripPrefix(prefixes []string, line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(trimmed, p) {
			return strings.TrimPrefix(trimmed, p), true
		}
	}
	return "", false
}
