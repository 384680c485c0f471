package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
)

var errNotAdmin = errors.New("the author must be an admin")

// importForm creates a form.Template from a YAML definition.
func (cli *commandLine) importForm(path, author string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, author)
	if err != nil {
		return err
	}
	if !usr.IsAdmin() {
		return errNotAdmin
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var nt form.NewTemplate
	if err := yaml.Unmarshal(raw, &nt); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	if err := nt.Validate(cli.validate); err != nil {
		return core.TranslateValidationErrors(err, cli.translator)
	}

	tmpl, err := cli.formSvc.Create(ctx, usr, nt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "form %q created (id: %s, fields: %d, published: %t)\n", tmpl.Name, tmpl.ID, len(tmpl.Fields), tmpl.Published)
	return nil
}
