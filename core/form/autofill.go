package form

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
)

// accessor reads one profile attribute; false means the attribute is not set.
type accessor func(p *profile.Profile) (Value, bool)

func textOf(s string) (Value, bool) {
	if strings.TrimSpace(s) == "" {
		return Value{}, false
	}
	return TextValue(s), true
}

func numberOf(f *float64) (Value, bool) {
	if f == nil {
		return Value{}, false
	}
	return NumberValue(*f), true
}

func dateOf(t *time.Time) (Value, bool) {
	if t == nil || t.IsZero() {
		return Value{}, false
	}
	return TimeValue(*t), true
}

// accessors is the closed set of profile keys fields may be bound to.
var accessors = map[string]accessor{
	"name":       func(p *profile.Profile) (Value, bool) { return textOf(p.Name) },
	"email":      func(p *profile.Profile) (Value, bool) { return textOf(p.Email) },
	"rollNumber": func(p *profile.Profile) (Value, bool) { return textOf(p.RollNumber) },
	"branch":     func(p *profile.Profile) (Value, bool) { return textOf(p.Branch) },
	"batch":      func(p *profile.Profile) (Value, bool) { return textOf(p.Batch) },
	"cgpa":       func(p *profile.Profile) (Value, bool) { return numberOf(p.CGPA) },
	"phone":      func(p *profile.Profile) (Value, bool) { return textOf(p.Phone) },
	"gender":     func(p *profile.Profile) (Value, bool) { return textOf(p.Gender) },
	"dateOfBirth": func(p *profile.Profile) (Value, bool) {
		return dateOf(p.DateOfBirth)
	},
	"activeBacklogs": func(p *profile.Profile) (Value, bool) {
		if p.ActiveBacklogs == nil {
			return Value{}, false
		}
		return NumberValue(float64(*p.ActiveBacklogs)), true
	},
	"education.tenthMarks": func(p *profile.Profile) (Value, bool) {
		return numberOf(p.Education.TenthMarks)
	},
	"education.twelfthMarks": func(p *profile.Profile) (Value, bool) {
		return numberOf(p.Education.TwelfthMarks)
	},
	"education.diplomaMarks": func(p *profile.Profile) (Value, bool) {
		return numberOf(p.Education.DiplomaMarks)
	},
	"placement.isPlaced": func(p *profile.Profile) (Value, bool) {
		return BoolValue(p.Placement.IsPlaced), true
	},
	"placement.company": func(p *profile.Profile) (Value, bool) {
		return textOf(p.Placement.Company)
	},
	"placement.package": func(p *profile.Profile) (Value, bool) {
		return numberOf(p.Placement.Package)
	},
	"placement.offerDate": func(p *profile.Profile) (Value, bool) {
		return dateOf(p.Placement.OfferDate)
	},
	"socialLinks.linkedin": func(p *profile.Profile) (Value, bool) {
		return textOf(p.SocialLinks.LinkedIn)
	},
	"socialLinks.github": func(p *profile.Profile) (Value, bool) {
		return textOf(p.SocialLinks.GitHub)
	},
}

// KnownAutoFillKeys returns every key of the accessor table, sorted.
func KnownAutoFillKeys() []string {
	keys := make([]string, 0, len(accessors))
	for key := range accessors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolver computes auto-fill values from a respondent's profile.
type Resolver struct {
	allowed map[string]struct{}
	keys    []string
}

// NewResolver restricts authoring to `allowed`; an empty list allows every known key.
func NewResolver(allowed []string) (*Resolver, error) {
	if len(allowed) == 0 {
		allowed = KnownAutoFillKeys()
	}
	rsv := &Resolver{allowed: make(map[string]struct{}, len(allowed))}
	for _, key := range allowed {
		key = strings.TrimSpace(key)
		if _, ok := accessors[key]; !ok {
			return nil, fmt.Errorf("form.NewResolver: unknown auto-fill key %q", key)
		}
		if _, dup := rsv.allowed[key]; dup {
			continue
		}
		rsv.allowed[key] = struct{}{}
		rsv.keys = append(rsv.keys, key)
	}
	sort.Strings(rsv.keys)
	return rsv, nil
}

// Keys returns the keys authors may bind fields to, sorted.
func (rsv *Resolver) Keys() []string {
	return append([]string(nil), rsv.keys...)
}

func (rsv *Resolver) Allowed(key string) bool {
	_, ok := rsv.allowed[key]
	return ok
}

// Resolve never fails: an unknown key, a nil profile or an unset attribute all yield false.
// Dates come back as YYYY-MM-DD.
func (rsv *Resolver) Resolve(key string, p *profile.Profile) (Value, bool) {
	if p == nil || key == "" {
		return Value{}, false
	}
	get, ok := accessors[key]
	if !ok {
		return Value{}, false
	}
	return get(p)
}

// ClientField is a Field as handed to a respondent. Value and IsReadOnly are always set together.
type ClientField struct {
	Field
	Value      *Value `json:"value,omitempty"`
	IsReadOnly bool   `json:"is_read_only"`
}

// Prefill applies auto-fill to every bound field of the template.
func (rsv *Resolver) Prefill(tmpl Template, p *profile.Profile) []ClientField {
	flds := make([]ClientField, 0, len(tmpl.Fields))
	for _, fld := range tmpl.Fields {
		cf := ClientField{Field: fld}
		if val, ok := rsv.Resolve(fld.AutoFillKey, p); ok {
			val = val.ForField(fld.Type)
			cf.Value = &val
			cf.IsReadOnly = true
		}
		flds = append(flds, cf)
	}
	return flds
}
