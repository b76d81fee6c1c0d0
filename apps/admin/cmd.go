package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
	geminisvc "github.com/trezcool/edutube/services/gemini"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp     = errors.New("help provided")
	errNoAIKey  = errors.New("ai.apiKey is not configured")
	errNoAnswer = errors.New("no model answered")
)

type (
	modelLister interface {
		ListModels(ctx context.Context) ([]geminisvc.ModelInfo, error)
	}

	commandLine struct {
		usrSvc     user.Service
		migrate    func(ctx context.Context) ([]string, error)
		models     modelLister         // nil without an API key
		model      content.ModelClient // nil without an API key
		candidates []content.Candidate
		out        io.Writer
	}
)

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME -role student|teacher - register a user (password prompted)")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset user's password (password prompted)")
	fmt.Fprintln(cli.out, "  ensureindexes - create the database indexes")
	fmt.Fprintln(cli.out, "  listmodels - list the generative models visible to the API key")
	fmt.Fprintln(cli.out, "  probemodels - try every configured model candidate")
}

// promptPassword reads a password from the terminal. An empty password prints usage.
func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", user.RoleStudent, "student or teacher.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd, *addUserRole)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "ensureindexes":
		return cli.ensureIndexes()
	case "listmodels":
		return cli.listModels()
	case "probemodels":
		return cli.probeModels()
	default:
		cli.printUsage()
		return errHelp
	}
}
