package form

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildTable(t *testing.T) {
	tmpl := Template{Fields: []Field{
		{ID: "name", Label: "Full Name", Type: FieldText},
		{ID: "skills", Label: "Skills", Type: FieldSelect},
		{ID: "placed", Label: "Placed", Type: FieldSelect},
		{ID: "cgpa", Label: "CGPA", Type: FieldNumber},
	}}
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	resps := []Response{
		{RespondentID: "s1", SubmittedAt: at, Entries: []Entry{
			{FieldID: "name", FieldLabel: "Name (old label)", Value: TextValue("Asha")},
			{FieldID: "skills", Value: ListValue([]string{"go", "sql"})},
			{FieldID: "placed", Value: BoolValue(true)},
			{FieldID: "removed", Value: TextValue("ignored")},
		}},
		{RespondentID: "ghost", SubmittedAt: at.Add(time.Hour), Entries: []Entry{
			{FieldID: "cgpa", Value: NumberValue(7.25)},
			{FieldID: "placed", Value: BoolValue(false)},
		}},
	}
	who := map[string]Respondent{"s1": {Name: "Asha Rao", Email: "asha@iiitn.ac.in", Branch: "CSE"}}

	tbl := BuildTable(tmpl, resps, who, FormatValue)
	assert.Equal(t, []string{"Student Name", "Email", "Branch", "Submitted At", "Full Name", "Skills", "Placed", "CGPA"}, tbl.Headers)
	assert.Equal(t, [][]string{
		{"Asha Rao", "asha@iiitn.ac.in", "CSE", "2026-01-02 15:04:05", "Asha", "go, sql", "Yes", ""},
		{"", "", "", "2026-01-02 16:04:05", "", "", "No", "7.25"},
	}, tbl.Rows)

	tbl = BuildTable(tmpl, resps[1:], who, DisplayValue)
	assert.Equal(t, NotAnswered, tbl.Rows[0][4])
	assert.Equal(t, "7.25", tbl.Rows[0][7])

	tbl = BuildTable(tmpl, nil, who, FormatValue)
	assert.Len(t, tbl.Headers, 8)
	assert.Empty(t, tbl.Rows)
}

func TestTable_WriteXLSX(t *testing.T) {
	tbl := Table{
		Headers: []string{"Student Name", "Email", "Branch", "Submitted At", "Full Name"},
		Rows: [][]string{
			{"Asha Rao", "asha@iiitn.ac.in", "CSE", "2026-01-02 15:04:05", "Asha"},
			{"Ravi", "ravi@iiitn.ac.in", "ECE", "2026-01-03 09:00:00", ""},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, tbl.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, tbl.Headers, rows[0])
	assert.Equal(t, tbl.Rows[0], rows[1])
	assert.Equal(t, "Ravi", rows[2][0])
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Campus Drive 2026", want: "Campus_Drive_2026_responses_2026-01-02.xlsx"},
		{name: "Acme/Globex: Round #1", want: "Acme_Globex__Round__1_responses_2026-01-02.xlsx"},
		{name: "", want: "_responses_2026-01-02.xlsx"},
	}
	for _, tt := range tests {
		if got := ExportFilename(tt.name, "2026-01-02"); got != tt.want {
			t.Errorf("ExportFilename(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}
