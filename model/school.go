package model

// RawRecord is a single already-decoded row handed over by ingestion.
// Fields are taken as-is; nothing is validated or normalized.
type RawRecord struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	StateCode string `json:"state"`
}

// LongNameResolver maps a short state code to its canonical long-form name.
// A false second return is the normal "absent" outcome for unknown codes.
type LongNameResolver interface {
	LongName(code string) (string, bool)
}

// School is an immutable search record. Its identity is its position in the
// record store, so it carries no ID of its own.
type School struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	State     string `json:"state"`
	LongState string `json:"-"`
	// HasLongState reports whether the state code resolved to a long name.
	HasLongState bool `json:"-"`
}

// NewSchool builds a School from a raw record, resolving the long state name once.
// A nil resolver leaves the long state absent.
func NewSchool(raw RawRecord, resolver LongNameResolver) School {
	s := School{
		Name:  raw.Name,
		City:  raw.City,
		State: raw.StateCode,
	}
	if resolver != nil {
		s.LongState, s.HasLongState = resolver.LongName(raw.StateCode)
	}
	return s
}
