package main

import (
	"context"
	"fmt"
	"os"
)

// export writes a form's responses spreadsheet to `out`.
func (cli *commandLine) export(id, out string) error {
	res, err := cli.formSvc.ExportTemplate(context.Background(), id)
	if err != nil {
		return err
	}
	if res.NoResponses {
		fmt.Fprintln(cli.out, "This form has no responses yet.")
		return nil
	}
	if out == "" {
		out = res.Filename
	}
	if err := os.WriteFile(out, res.Content.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "responses exported to %s\n", out)
	return nil
}
