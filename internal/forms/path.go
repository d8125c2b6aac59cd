package forms

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a field path: either a map key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key builds a map-key segment.
func Key(k string) Segment {
	return Segment{Key: k}
}

// Index builds an array-index segment.
func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path addresses a value inside a nested draft, e.g. itinerary.1.title for
// the title of the second itinerary day. Every field widget resolves its
// target through the same Get/Set pair regardless of nesting depth.
type Path []Segment

// ParsePath parses a dotted path string. Purely numeric segments become
// array indices.
func ParsePath(raw string) Path {
	if raw == "" {
		return Path{}
	}
	parts := strings.Split(raw, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if i, err := strconv.Atoi(part); err == nil {
			p = append(p, Index(i))
		} else {
			p = append(p, Key(part))
		}
	}
	return p
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Child extends the path with a map-key segment.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Key(key))
}

// At extends the path with an array-index segment.
func (p Path) At(index int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Index(index))
}

// Get resolves the path against root. The second return is false when any
// segment is missing or of the wrong shape.
func (p Path) Get(root map[string]interface{}) (interface{}, bool) {
	var current interface{} = root
	for _, seg := range p {
		if seg.IsIndex {
			arr, ok := current.([]interface{})
			if !ok || seg.Index < 0 || seg.Index >= len(arr) {
				return nil, false
			}
			current = arr[seg.Index]
		} else {
			obj, ok := current.(map[string]interface{})
			if !ok {
				return nil, false
			}
			current, ok = obj[seg.Key]
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

// Set writes value at the path, creating intermediate objects for missing
// key segments. Index segments must resolve to an existing array slot;
// arrays grow through the draft's append operation, not through Set.
func (p Path) Set(root map[string]interface{}, value interface{}) error {
	if len(p) == 0 {
		return fmt.Errorf("empty path")
	}

	var current interface{} = root
	for i, seg := range p[:len(p)-1] {
		next := p[i+1]
		if seg.IsIndex {
			arr, ok := current.([]interface{})
			if !ok {
				return fmt.Errorf("path %s: segment %d is not an array", p, i)
			}
			if seg.Index < 0 || seg.Index >= len(arr) {
				return fmt.Errorf("path %s: index %d out of range", p, seg.Index)
			}
			if arr[seg.Index] == nil && !next.IsIndex {
				arr[seg.Index] = map[string]interface{}{}
			}
			current = arr[seg.Index]
		} else {
			obj, ok := current.(map[string]interface{})
			if !ok {
				return fmt.Errorf("path %s: segment %d is not an object", p, i)
			}
			child, exists := obj[seg.Key]
			if !exists || child == nil {
				if next.IsIndex {
					return fmt.Errorf("path %s: no array at %q", p, seg.Key)
				}
				child = map[string]interface{}{}
				obj[seg.Key] = child
			}
			current = child
		}
	}

	last := p[len(p)-1]
	if last.IsIndex {
		arr, ok := current.([]interface{})
		if !ok {
			return fmt.Errorf("path %s: parent is not an array", p)
		}
		if last.Index < 0 || last.Index >= len(arr) {
			return fmt.Errorf("path %s: index %d out of range", p, last.Index)
		}
		arr[last.Index] = value
		return nil
	}

	obj, ok := current.(map[string]interface{})
	if !ok {
		return fmt.Errorf("path %s: parent is not an object", p)
	}
	obj[last.Key] = value
	return nil
}
