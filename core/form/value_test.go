package form

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var cmpValues = cmp.AllowUnexported(Value{})

func TestValue_ForField(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		ft   FieldType
		want Value
	}{
		{name: "blank text is empty", in: TextValue("   "), ft: FieldText, want: EmptyValue()},
		{name: "text is trimmed", in: TextValue("  Asha "), ft: FieldText, want: TextValue("Asha")},
		{name: "numeric string", in: TextValue("8.50"), ft: FieldNumber, want: NumberValue(8.5)},
		{name: "non numeric string", in: TextValue("lots"), ft: FieldNumber, want: TextValue("lots")},
		{name: "NaN stays text", in: TextValue("NaN"), ft: FieldNumber, want: TextValue("NaN")},
		{name: "number kept", in: NumberValue(7), ft: FieldNumber, want: NumberValue(7)},
		{name: "iso date", in: TextValue("2024-03-15"), ft: FieldDate, want: DateValue("2024-03-15")},
		{name: "rfc3339 date", in: TextValue("2024-03-15T22:30:00-04:00"), ft: FieldDate, want: DateValue("2024-03-16")},
		{name: "bad date stays text", in: TextValue("15/03/2024"), ft: FieldDate, want: TextValue("15/03/2024")},
		{name: "file reference", in: TextValue(" /uploads/cv.pdf "), ft: FieldFile, want: FileValue("/uploads/cv.pdf")},
		{name: "file list kept", in: ListValue([]string{"/a", "/b"}), ft: FieldFile, want: ListValue([]string{"/a", "/b"})},
		{name: "file list trimmed", in: ListValue([]string{" /a.pdf", "", " https://cdn.example.com/b.pdf "}), ft: FieldFile, want: ListValue([]string{"/a.pdf", "https://cdn.example.com/b.pdf"})},
		{name: "blank file list", in: ListValue([]string{" "}), ft: FieldFile, want: ListValue(nil)},
		{name: "bool untouched", in: BoolValue(false), ft: FieldSelect, want: BoolValue(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ForField(tt.ft)
			if diff := cmp.Diff(tt.want, got, cmpValues); diff != "" {
				t.Errorf("ForField() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValue_IsBlank(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{name: "empty", v: EmptyValue(), want: true},
		{name: "spaces", v: TextValue(" \t"), want: true},
		{name: "empty list", v: ListValue(nil), want: true},
		{name: "text", v: TextValue("x"), want: false},
		{name: "zero", v: NumberValue(0), want: false},
		{name: "false", v: BoolValue(false), want: false},
		{name: "list", v: ListValue([]string{"a"}), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsBlank(); got != tt.want {
				t.Errorf("IsBlank() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{v: NumberValue(8.5), want: "8.5"},
		{v: NumberValue(9), want: "9"},
		{v: BoolValue(true), want: "true"},
		{v: ListValue([]string{"cse", "ece"}), want: "cse, ece"},
		{v: TimeValue(time.Date(2024, 3, 15, 23, 0, 0, 0, time.FixedZone("UTC-1", -3600))), want: "2024-03-16"},
		{v: EmptyValue(), want: ""},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q; want %q", got, tt.want)
		}
	}
}

func TestValue_JSON(t *testing.T) {
	var answers []Answer
	data := `[{"field_id":"a","value":"x"},{"field_id":"b","value":8.5},{"field_id":"c","value":true},
		{"field_id":"d","value":["x",2]},{"field_id":"e","value":null}]`
	if err := json.Unmarshal([]byte(data), &answers); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	want := []Answer{
		{FieldID: "a", Value: TextValue("x")},
		{FieldID: "b", Value: NumberValue(8.5)},
		{FieldID: "c", Value: BoolValue(true)},
		{FieldID: "d", Value: ListValue([]string{"x", "2"})},
		{FieldID: "e", Value: EmptyValue()},
	}
	if diff := cmp.Diff(want, answers, cmpValues); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`[{"field_id":"a","value":[["nested"]]}]`), &answers); err == nil {
		t.Error("Unmarshal() of nested list should fail")
	}

	out, err := json.Marshal(map[string]Value{"d": DateValue("2024-03-15"), "e": EmptyValue(), "n": NumberValue(2)})
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if got, want := string(out), `{"d":"2024-03-15","e":null,"n":2}`; got != want {
		t.Errorf("Marshal() = %s; want %s", got, want)
	}
}

func TestStoredValue(t *testing.T) {
	for _, v := range []Value{
		EmptyValue(), TextValue("a"), NumberValue(1.5), BoolValue(true),
		ListValue([]string{"x"}), DateValue("2024-03-15"), FileValue("/f.pdf"),
	} {
		if got := v.Stored().Value(); !got.Equal(v) {
			t.Errorf("Stored().Value() = %#v; want %#v", got, v)
		}
	}
}
