package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
	"github.com/upbhushan/placement-iiitn--sub001/storage"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf       *core.Config
	db         *sql.DB // postgres only
	validate   *validator.Validate
	translator ut.Translator
	usrSvc     *user.Service
	formSvc    *form.Service
	out        io.Writer
}

func newCommandLine(conf *core.Config, repos *storage.Repositories, mailSvc core.EmailService, logger core.Logger) (*commandLine, error) {
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	resolver, err := form.NewResolver(conf.Form.AutoFillKeys)
	if err != nil {
		return nil, err
	}
	form.InitValidators(validate, translator, resolver)

	usrSvc := user.NewService(repos.Users, mailSvc, conf)
	formSvc := form.NewService(
		repos.Forms,
		profile.NewService(repos.Profiles),
		usrSvc,
		resolver,
		form.NewSchemaGenerator(validate, translator),
		form.NewSubmissionValidator(resolver, validate),
		mailSvc,
		logger,
		conf,
	)
	return &commandLine{
		conf:       conf,
		db:         repos.SQL,
		validate:   validate,
		translator: translator,
		usrSvc:     usrSvc,
		formSvc:    formSvc,
		out:        os.Stdout,
	}, nil
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME -email EMAIL [-name NAME] [-admin] - create or update a user")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME|EMAIL - reset user's password")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run database migrations (postgres only)")
	fmt.Fprintln(cli.out, "  importform -file FILE.yaml -author USERNAME|EMAIL - create a form template from YAML")
	fmt.Fprintln(cli.out, "  export -form ID [-out FILE.xlsx] - export a form's responses")
}

// promptPassword reads a password without echoing it.
func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserName := addUserCmd.String("name", "", "The user's full name. Defaults to the username or email.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Grant the placement cell admin roles instead of the student role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username or email. The password will be prompted next.")

	importFormCmd := flag.NewFlagSet("importform", flag.ContinueOnError)
	importFormFile := importFormCmd.String("file", "", "Path of the YAML template definition.")
	importFormAuthor := importFormCmd.String("author", "", "Username or email of the admin owning the template.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportForm := exportCmd.String("form", "", "The template ID.")
	exportOut := exportCmd.String("out", "", "Output file. Defaults to the generated file name in the working directory.")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd, importFormCmd, exportCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserUname == "" && *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserUname, *addUserEmail, pwd, *addUserAdmin)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "importform":
		if err := importFormCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *importFormFile == "" || *importFormAuthor == "" {
			importFormCmd.Usage()
			return errHelp
		}
		return cli.importForm(*importFormFile, *importFormAuthor)

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *exportForm == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportForm, *exportOut)

	default:
		cli.printUsage()
		return errHelp
	}
}
