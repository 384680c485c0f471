package form

import (
	"bytes"
	"io"
	"regexp"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName        = "Responses"
	NotAnswered      = "Not answered"
	SubmittedAtFmt   = "2006-01-02 15:04:05"
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportDateLayout = "2006-01-02"
)

// MetaHeaders are the fixed columns preceding the field columns.
var MetaHeaders = []string{"Student Name", "Email", "Branch", "Submitted At"}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9]`)

type (
	// Respondent holds the identity columns of an export row.
	Respondent struct {
		Name   string
		Email  string
		Branch string
	}

	Table struct {
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	}

	// ExportResult is either a spreadsheet or the "no responses" outcome.
	ExportResult struct {
		NoResponses bool
		Filename    string
		Content     *bytes.Buffer
	}

	// Formatter renders a Value into a cell.
	Formatter func(v Value) string
)

// FormatValue renders a Value for an exported cell: lists are joined with ", ",
// booleans become Yes/No and empty answers stay blank.
func FormatValue(v Value) string {
	switch v.Kind() {
	case KindList:
		return v.String()
	case KindBool:
		if v.Bool() {
			return "Yes"
		}
		return "No"
	case KindEmpty:
		return ""
	case KindText, KindNumber, KindDate, KindFile:
		return v.String()
	}
	return v.String()
}

// DisplayValue is FormatValue for on-screen views, where blanks read "Not answered".
func DisplayValue(v Value) string {
	if v.IsBlank() {
		return NotAnswered
	}
	return FormatValue(v)
}

// BuildTable lays out one row per response: the meta columns then one column per current field.
// Answers to fields no longer in the template are ignored.
func BuildTable(tmpl Template, responses []Response, respondents map[string]Respondent, format Formatter) Table {
	tbl := Table{
		Headers: make([]string, 0, len(MetaHeaders)+len(tmpl.Fields)),
		Rows:    make([][]string, 0, len(responses)),
	}
	tbl.Headers = append(tbl.Headers, MetaHeaders...)
	for _, fld := range tmpl.Fields {
		tbl.Headers = append(tbl.Headers, fld.Label)
	}

	for _, resp := range responses {
		who := respondents[resp.RespondentID]
		row := make([]string, 0, len(tbl.Headers))
		row = append(row, who.Name, who.Email, who.Branch, resp.SubmittedAt.UTC().Format(SubmittedAtFmt))
		answers := resp.Answers()
		for _, fld := range tmpl.Fields {
			row = append(row, format(answers[fld.ID]))
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}

// WriteXLSX writes the table as a single sheet workbook.
func (tbl Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	writeRow := func(rowIdx int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		vals := make([]interface{}, len(cells))
		for i, c := range cells {
			vals[i] = c
		}
		return f.SetSheetRow(SheetName, cell, &vals)
	}

	if err := writeRow(1, tbl.Headers); err != nil {
		return errors.Wrap(err, "writing headers")
	}
	for i, row := range tbl.Rows {
		if err := writeRow(i+2, row); err != nil {
			return errors.Wrapf(err, "writing row %d", i+1)
		}
	}

	if len(tbl.Headers) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return errors.Wrap(err, "creating header style")
		}
		last, err := excelize.CoordinatesToCellName(len(tbl.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
			return errors.Wrap(err, "styling headers")
		}
	}

	return f.Write(w)
}

// ExportFilename is the sanitized template name followed by the export date.
func ExportFilename(name string, date string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_") + "_responses_" + date + ".xlsx"
}
