package model

// FormRecord is a schema-agnostic map of form field values
type FormRecord map[string]string

// Clone returns an independent copy of the record.
func (r FormRecord) Clone() FormRecord {
	out := make(FormRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a copy of r with every value of other written over it.
func (r FormRecord) Merge(other FormRecord) FormRecord {
	out := r.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}
