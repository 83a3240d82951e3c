package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// LookupRef is the canonical form of a brand/fuel/transmission reference as
// it crosses the JSON boundary. Historical data entry produced ids encoded
// sometimes as numbers and sometimes as strings; LookupRef accepts both and
// normalizes once, so nothing downstream re-parses raw values.
type LookupRef struct {
	raw string
	id  uuid.UUID
	ok  bool
}

func (r *LookupRef) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		// legacy rows serialized lookup ids as bare numbers
		var asNumber json.Number
		if err := json.Unmarshal(data, &asNumber); err != nil {
			return err
		}
		asString = asNumber.String()
	}
	r.raw = strings.TrimSpace(asString)
	if id, err := uuid.Parse(r.raw); err == nil {
		r.id, r.ok = id, true
	}
	return nil
}

func (r LookupRef) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(r.id.String())
	}
	return json.Marshal(r.raw)
}

// IsZero reports whether no reference was supplied at all.
func (r LookupRef) IsZero() bool {
	return r.raw == "" && !r.ok
}

// UUID returns the canonical identifier when the raw value parsed cleanly.
func (r LookupRef) UUID() (uuid.UUID, bool) {
	return r.id, r.ok
}

// Raw returns the value exactly as it was supplied.
func (r LookupRef) Raw() string {
	if r.ok {
		return r.id.String()
	}
	return r.raw
}

// NewLookupRef builds a LookupRef from an already-canonical id.
func NewLookupRef(id uuid.UUID) LookupRef {
	return LookupRef{raw: id.String(), id: id, ok: true}
}

// ParseLookupRef normalizes a raw query-string value the same way the JSON
// boundary does.
func ParseLookupRef(raw string) LookupRef {
	raw = strings.TrimSpace(raw)
	r := LookupRef{raw: raw}
	if id, err := uuid.Parse(raw); err == nil {
		r.id, r.ok = id, true
	} else if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		// numeric legacy id, kept verbatim for the Unresolved branch
		r.raw = raw
	}
	return r
}

// ResolutionState tags the outcome of resolving a lookup reference.
type ResolutionState string

const (
	// Resolved means the reference matched a lookup row.
	Resolved ResolutionState = "resolved"
	// Unresolved means a reference exists but no lookup row matches it;
	// Raw carries the stored value for display.
	Unresolved ResolutionState = "unresolved"
	// Defaulted means no reference was stored at all.
	Defaulted ResolutionState = "default"
)

// Resolution is the single place a lookup name is decided. Views consume it
// as-is instead of re-running fallback heuristics per component.
type Resolution struct {
	State ResolutionState `json:"state"`
	Name  string          `json:"name"`
	Raw   string          `json:"raw,omitempty"`
}

// ResolveBrand resolves the vehicle's brand against its preloaded
// association.
func (v Vehicle) ResolveBrand(fallback string) Resolution {
	if v.Brand != nil {
		return Resolution{State: Resolved, Name: v.Brand.Name}
	}
	return resolveMissing(v.BrandID, fallback)
}

// ResolveFuelType resolves the vehicle's fuel type against its preloaded
// association.
func (v Vehicle) ResolveFuelType(fallback string) Resolution {
	if v.FuelType != nil {
		return Resolution{State: Resolved, Name: v.FuelType.Name}
	}
	return resolveMissing(v.FuelTypeID, fallback)
}

// ResolveTransmission resolves the vehicle's transmission type against its
// preloaded association.
func (v Vehicle) ResolveTransmission(fallback string) Resolution {
	if v.TransmissionType != nil {
		return Resolution{State: Resolved, Name: v.TransmissionType.Name}
	}
	return resolveMissing(v.TransmissionTypeID, fallback)
}

func resolveMissing(id *uuid.UUID, fallback string) Resolution {
	if id != nil {
		return Resolution{State: Unresolved, Name: fallback, Raw: id.String()}
	}
	return Resolution{State: Defaulted, Name: fallback}
}
