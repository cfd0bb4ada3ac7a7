package normalize

import "strings"

// Path is a key path into nested objects, e.g. Path{"data", "data"}.
type Path []string

func (p Path) String() string { return strings.Join(p, ".") }

// ListProbes returns the ordered probe list used for list envelopes: the
// generic wrappers first, then each entity key directly and under "data".
func ListProbes(entityKeys ...string) []Path {
	probes := []Path{{"data"}, {"data", "data"}, {"results"}}
	for _, k := range entityKeys {
		probes = append(probes, Path{k}, Path{"data", k})
	}
	return probes
}

// NormalizeList extracts a list from an envelope. A bare array is returned
// unchanged; otherwise the probes are tried in order and the first array
// found wins. Unrecognized shapes yield an empty, non-nil slice.
func NormalizeList(envelope any, probes ...Path) []any {
	if arr, ok := envelope.([]any); ok {
		return arr
	}
	obj, ok := asRecord(envelope)
	if !ok {
		return []any{}
	}
	if len(probes) == 0 {
		probes = ListProbes()
	}
	for _, p := range probes {
		if arr, ok := lookup(obj, p).([]any); ok {
			return arr
		}
	}
	return []any{}
}

// Records keeps the object elements of a list, in order.
func Records(items []any) []Record {
	out := make([]Record, 0, len(items))
	for _, it := range items {
		if r, ok := asRecord(it); ok {
			out = append(out, r)
		}
	}
	return out
}

func lookup(obj Record, p Path) any {
	var cur any = obj
	for _, key := range p {
		m, ok := asRecord(cur)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func asRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, t != nil
	case map[string]any:
		return Record(t), t != nil
	default:
		return nil, false
	}
}
