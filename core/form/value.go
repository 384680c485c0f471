package form

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
	KindDate
	KindFile
)

var kindNames = [...]string{"empty", "text", "number", "bool", "list", "date", "file"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func ParseKind(s string) Kind {
	for i, name := range kindNames {
		if s == name {
			return Kind(i)
		}
	}
	return KindEmpty
}

const isoDateLayout = "2006-01-02"

// Value is an answer to a Field. The zero Value is empty.
type Value struct {
	kind Kind
	text string // text, date (YYYY-MM-DD) & file variants
	num  float64
	b    bool
	list []string
}

func EmptyValue() Value              { return Value{} }
func TextValue(s string) Value       { return Value{kind: KindText, text: s} }
func NumberValue(f float64) Value    { return Value{kind: KindNumber, num: f} }
func BoolValue(b bool) Value         { return Value{kind: KindBool, b: b} }
func FileValue(ref string) Value     { return Value{kind: KindFile, text: ref} }
func ListValue(items []string) Value { return Value{kind: KindList, list: append([]string(nil), items...)} }

// DateValue normalizes `s` (YYYY-MM-DD or RFC 3339) to YYYY-MM-DD.
// Unparsable input is kept verbatim as text.
func DateValue(s string) Value {
	if d, ok := NormalizeDate(s); ok {
		return Value{kind: KindDate, text: d}
	}
	return TextValue(s)
}

// TimeValue returns the UTC calendar date of `t`.
func TimeValue(t time.Time) Value {
	return Value{kind: KindDate, text: t.UTC().Format(isoDateLayout)}
}

// NormalizeDate converts YYYY-MM-DD or RFC 3339 input to YYYY-MM-DD (UTC).
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return t.Format(isoDateLayout), true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format(isoDateLayout), true
	}
	return "", false
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Text() string    { return v.text }
func (v Value) Number() float64 { return v.num }
func (v Value) Bool() bool      { return v.b }
func (v Value) List() []string  { return append([]string(nil), v.list...) }
func (v Value) IsEmpty() bool   { return v.kind == KindEmpty }

func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.String() == o.String()
}

// IsBlank reports whether the Value counts as "not answered": empty, blank text or an empty list.
// Boolean false is an answer.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindEmpty:
		return true
	case KindText, KindDate, KindFile:
		return strings.TrimSpace(v.text) == ""
	case KindList:
		return len(v.list) == 0
	case KindNumber, KindBool:
		return false
	}
	return true
}

// String returns the plain string form of the Value, used for comparisons.
func (v Value) String() string {
	switch v.kind {
	case KindText, KindDate, KindFile:
		return v.text
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		return strings.Join(v.list, ", ")
	case KindEmpty:
		return ""
	}
	return ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Raw returns the Value as a plain Go value (nil, string, float64, bool or []string).
func (v Value) Raw() interface{} {
	switch v.kind {
	case KindText, KindDate, KindFile:
		return v.text
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		return v.List()
	case KindEmpty:
		return nil
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw())
}

// UnmarshalJSON decodes a plain JSON value; the variant is refined later by ForField.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// ValueOf converts a decoded JSON/YAML scalar or list into a Value.
func ValueOf(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return EmptyValue(), nil
	case Value:
		return x, nil
	case string:
		return TextValue(x), nil
	case bool:
		return BoolValue(x), nil
	case float64:
		return NumberValue(x), nil
	case float32:
		return NumberValue(float64(x)), nil
	case int:
		return NumberValue(float64(x)), nil
	case int32:
		return NumberValue(float64(x)), nil
	case int64:
		return NumberValue(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	case []string:
		return ListValue(x), nil
	case []interface{}:
		items := make([]string, 0, len(x))
		for _, item := range x {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			if iv.kind == KindList {
				return Value{}, fmt.Errorf("nested lists are not supported")
			}
			items = append(items, iv.String())
		}
		return ListValue(items), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", raw)
}

// ForField narrows a generically decoded Value to the variant implied by the field type.
// Input that does not fit the type is kept as-is for validation to report on.
func (v Value) ForField(ft FieldType) Value {
	if v.kind == KindText && strings.TrimSpace(v.text) == "" {
		return EmptyValue()
	}
	switch ft {
	case FieldNumber:
		if v.kind == KindText {
			f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
			if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
				return NumberValue(f)
			}
		}
	case FieldDate:
		if v.kind == KindText {
			return DateValue(v.text)
		}
	case FieldFile:
		switch v.kind {
		case KindText:
			return FileValue(strings.TrimSpace(v.text))
		case KindList:
			refs := make([]string, 0, len(v.list))
			for _, ref := range v.list {
				if ref = strings.TrimSpace(ref); ref != "" {
					refs = append(refs, ref)
				}
			}
			return ListValue(refs)
		}
	case FieldText, FieldEmail, FieldSelect:
		if v.kind == KindText {
			return TextValue(strings.TrimSpace(v.text))
		}
	}
	return v
}

// StoredValue is the persisted form of a Value; it keeps the variant tag.
type StoredValue struct {
	Kind   string   `json:"kind" bson:"kind"`
	Text   string   `json:"text,omitempty" bson:"text,omitempty"`
	Number float64  `json:"number,omitempty" bson:"number,omitempty"`
	Bool   bool     `json:"bool,omitempty" bson:"bool,omitempty"`
	List   []string `json:"list,omitempty" bson:"list,omitempty"`
}

func (v Value) Stored() StoredValue {
	return StoredValue{Kind: v.kind.String(), Text: v.text, Number: v.num, Bool: v.b, List: v.List()}
}

func (sv StoredValue) Value() Value {
	switch k := ParseKind(sv.Kind); k {
	case KindText, KindDate, KindFile:
		return Value{kind: k, text: sv.Text}
	case KindNumber:
		return NumberValue(sv.Number)
	case KindBool:
		return BoolValue(sv.Bool)
	case KindList:
		return ListValue(sv.List)
	}
	return EmptyValue()
}
