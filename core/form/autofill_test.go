package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
)

func TestNewResolver(t *testing.T) {
	rsv, err := NewResolver(nil)
	require.NoError(t, err)
	assert.Equal(t, KnownAutoFillKeys(), rsv.Keys())

	rsv, err = NewResolver([]string{"name", " cgpa", "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cgpa", "name"}, rsv.Keys())
	assert.True(t, rsv.Allowed("cgpa"))
	assert.False(t, rsv.Allowed("branch"))

	_, err = NewResolver([]string{"salary"})
	assert.Error(t, err)
}

func TestResolver_Resolve(t *testing.T) {
	rsv, err := NewResolver(nil)
	require.NoError(t, err)

	cgpa, pkg := 8.5, 12.0
	offer := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	backlogs := 0
	p := &profile.Profile{
		Name:           "Asha Rao",
		Branch:         "CSE",
		CGPA:           &cgpa,
		ActiveBacklogs: &backlogs,
		Placement:      profile.Placement{IsPlaced: true, Company: "Acme", Package: &pkg, OfferDate: &offer},
	}

	tests := []struct {
		key    string
		p      *profile.Profile
		want   string
		wantOK bool
	}{
		{key: "name", p: p, want: "Asha Rao", wantOK: true},
		{key: "cgpa", p: p, want: "8.5", wantOK: true},
		{key: "activeBacklogs", p: p, want: "0", wantOK: true},
		{key: "placement.offerDate", p: p, want: "2024-03-15", wantOK: true},
		{key: "placement.isPlaced", p: p, want: "true", wantOK: true},
		{key: "placement.package", p: p, want: "12", wantOK: true},
		{key: "rollNumber", p: p},
		{key: "dateOfBirth", p: p},
		{key: "education.tenthMarks", p: p},
		{key: "salary", p: p},
		{key: "cgpa", p: nil},
		{key: "", p: p},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := rsv.Resolve(tt.key, tt.p)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolver_Prefill(t *testing.T) {
	rsv, err := NewResolver(nil)
	require.NoError(t, err)
	cgpa := 8.5
	tmpl := Template{Fields: []Field{
		{ID: "name", Label: "Name", Type: FieldText, AutoFillKey: "name"},
		{ID: "cgpa", Label: "CGPA", Type: FieldNumber, AutoFillKey: "cgpa"},
		{ID: "roll", Label: "Roll", Type: FieldText, AutoFillKey: "rollNumber"},
		{ID: "why", Label: "Why us?", Type: FieldText},
	}}

	flds := rsv.Prefill(tmpl, &profile.Profile{Name: "Asha", CGPA: &cgpa})
	require.Len(t, flds, 4)
	require.NotNil(t, flds[0].Value)
	assert.Equal(t, "Asha", flds[0].Value.String())
	assert.True(t, flds[0].IsReadOnly)
	require.NotNil(t, flds[1].Value)
	assert.Equal(t, KindNumber, flds[1].Value.Kind())
	assert.True(t, flds[1].IsReadOnly)
	for _, cf := range flds[2:] {
		assert.Nil(t, cf.Value, cf.ID)
		assert.False(t, cf.IsReadOnly, cf.ID)
	}

	for _, cf := range rsv.Prefill(tmpl, nil) {
		assert.Nil(t, cf.Value, cf.ID)
		assert.False(t, cf.IsReadOnly, cf.ID)
	}
}
