package normalize

// Record is a decoded JSON object.
type Record map[string]any

// RecordShape describes how a single entity may be wrapped by the backend.
type RecordShape struct {
	// LeafFields mark an object as already flat. Defaults to "id".
	LeafFields []string
	// Keys are nesting keys probed after "data", e.g. the singular entity name.
	Keys []string
	// Sections lists sibling sub-objects that together form one entity, in
	// merge order (earlier sections win on conflicts).
	Sections []string
}

func (s RecordShape) leaves() []string {
	if len(s.LeafFields) == 0 {
		return []string{"id"}
	}
	return s.LeafFields
}

func (s RecordShape) probes() []Path {
	probes := []Path{{"data"}}
	for _, k := range s.Keys {
		probes = append(probes, Path{k})
	}
	for _, k := range s.Keys {
		probes = append(probes, Path{"data", k})
	}
	return probes
}

func (s RecordShape) isFlat(obj Record) bool {
	for _, f := range s.leaves() {
		if _, ok := obj[f]; ok {
			return true
		}
	}
	return false
}

// NormalizeRecord extracts a single record from an envelope, or nil when no
// known shape matches.
func NormalizeRecord(envelope any, shape RecordShape) Record {
	obj, ok := asRecord(envelope)
	if !ok {
		return nil
	}
	if IsRaw(obj) {
		return obj
	}
	return shape.extract(obj, 2)
}

func (s RecordShape) extract(obj Record, depth int) Record {
	if s.isFlat(obj) {
		return obj
	}
	if merged := s.merge(obj); merged != nil {
		return merged
	}
	if depth == 0 {
		return nil
	}
	for _, p := range s.probes() {
		inner, ok := asRecord(lookup(obj, p))
		if !ok {
			continue
		}
		if r := s.extract(inner, depth-1); r != nil {
			return r
		}
		return inner
	}
	return nil
}

// merge flattens sibling sections into one record. Sections are applied in
// order and never overwrite a field set by an earlier section; scalar fields
// of the container fill the remaining gaps. Returns nil if obj carries none
// of the sections.
func (s RecordShape) merge(obj Record) Record {
	if len(s.Sections) == 0 {
		return nil
	}
	out := Record{}
	found := false
	for _, name := range s.Sections {
		section, ok := asRecord(obj[name])
		if !ok {
			continue
		}
		found = true
		for k, v := range section {
			if _, set := out[k]; !set {
				out[k] = v
			}
		}
	}
	if !found {
		return nil
	}
	for k, v := range obj {
		if _, isObj := asRecord(v); isObj {
			continue
		}
		if _, set := out[k]; !set {
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
