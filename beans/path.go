package beans

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind tells how a path segment addresses its value.
type SegmentKind int

const (
	// SegmentField addresses a named field.
	SegmentField SegmentKind = iota
	// SegmentMapKey addresses an entry of a map-typed field.
	SegmentMapKey
	// SegmentListIndex addresses an element of a sequence-typed field.
	SegmentListIndex
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentField:
		return "field"
	case SegmentMapKey:
		return "map key"
	case SegmentListIndex:
		return "list index"
	default:
		return "unknown"
	}
}

// Segment is one step of a property path.
//
// Name is the field the segment selects. It is empty when the segment indexes
// the current value directly, as in the second bracket of "grid[0][1]" or a
// path that starts with a bracket. Key holds the raw bracket content for both
// MapKey and ListIndex segments; Index is set for ListIndex only.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Key   string
	Index int
}

func (s Segment) String() string {
	if s.Kind == SegmentField {
		return s.Name
	}

	return s.Name + "[" + s.Key + "]"
}

// Path is an ordered sequence of segments.
type Path []Segment

func (p Path) String() string {
	var builder strings.Builder

	for i, seg := range p {
		if i > 0 && seg.Name != "" {
			builder.WriteByte('.')
		}

		builder.WriteString(seg.String())
	}

	return builder.String()
}

// ParsePath parses a property key relative to a bean alias, such as
// "counter", "map[key1]", "routes[0].name" or "nested.child".
//
// A dot separates fields and can be escaped as "\.". Bracket content that is a
// non-negative integer yields a ListIndex segment, anything else a MapKey
// segment; the binder reconciles this with the declared field type.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMalformedPath)
	}

	var (
		path Path
		pos  int
	)

	for pos < len(raw) {
		name, next, err := scanName(raw, pos)
		if err != nil {
			return nil, err
		}

		pos = next
		// only a path that opens with a bracket may omit the name, e.g. "[key]"
		allowEmpty := len(path) == 0 && pos == 0 && len(raw) > 0 && raw[0] == '['

		if name == "" && !allowEmpty {
			return nil, fmt.Errorf("%w: empty segment at offset %d in %q", ErrMalformedPath, pos, raw)
		}

		if pos == len(raw) || raw[pos] == '.' {
			path = append(path, Segment{Kind: SegmentField, Name: name})
		} else {
			var brackets Path

			brackets, pos, err = scanBrackets(raw, pos, name)
			if err != nil {
				return nil, err
			}

			path = append(path, brackets...)
		}

		if pos < len(raw) {
			if raw[pos] != '.' {
				return nil, fmt.Errorf("%w: unexpected %q at offset %d in %q", ErrMalformedPath, raw[pos], pos, raw)
			}

			pos++

			if pos == len(raw) {
				return nil, fmt.Errorf("%w: trailing dot in %q", ErrMalformedPath, raw)
			}
		}
	}

	return path, nil
}

// scanName reads a field name up to the next unescaped '.' or '['.
func scanName(raw string, pos int) (string, int, error) {
	var builder strings.Builder

	for pos < len(raw) {
		char := raw[pos]

		switch char {
		case '.', '[':
			return builder.String(), pos, nil
		case ']':
			return "", pos, fmt.Errorf("%w: unbalanced ']' at offset %d in %q", ErrMalformedPath, pos, raw)
		case '\\':
			if pos+1 < len(raw) && raw[pos+1] == '.' {
				builder.WriteByte('.')

				pos += 2

				continue
			}
		}

		builder.WriteByte(char)

		pos++
	}

	return builder.String(), pos, nil
}

// scanBrackets reads one or more consecutive "[...]" groups starting at pos.
// The first group is attached to name, following groups index the previous element.
func scanBrackets(raw string, pos int, name string) (Path, int, error) {
	var segments Path

	for pos < len(raw) && raw[pos] == '[' {
		end := strings.IndexAny(raw[pos+1:], "[]")
		if end < 0 || raw[pos+1+end] == '[' {
			return nil, pos, fmt.Errorf("%w: unbalanced '[' at offset %d in %q", ErrMalformedPath, pos, raw)
		}

		content := raw[pos+1 : pos+1+end]
		if content == "" {
			return nil, pos, fmt.Errorf("%w: empty brackets at offset %d in %q", ErrMalformedPath, pos, raw)
		}

		segments = append(segments, bracketSegment(name, content))
		name = ""
		pos += end + 2
	}

	return segments, pos, nil
}

func bracketSegment(name, content string) Segment {
	if index, ok := parseIndex(content); ok {
		return Segment{Kind: SegmentListIndex, Name: name, Key: content, Index: index}
	}

	return Segment{Kind: SegmentMapKey, Name: name, Key: content}
}

func parseIndex(content string) (int, bool) {
	for i := range len(content) {
		if content[i] < '0' || content[i] > '9' {
			return 0, false
		}
	}

	index, err := strconv.Atoi(content)
	if err != nil {
		return 0, false
	}

	return index, true
}
