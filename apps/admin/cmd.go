package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/alfurqan/portal/apps/container"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db   *sql.DB // nil with the memory engine
	svcs *container.Services
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                             - run a goose command (up, down, status, redo, version...)")
	fmt.Fprintln(cli.out, "  seed                                               - create the default accounts and school settings")
	fmt.Fprintln(cli.out, "  adduser [-uniqueid ID] -role ROLE -firstname NAME  - create or update a user; the surname is prompted next")
	fmt.Fprintln(cli.out, "  setactive -uniqueid ID [-active=false]             - activate or deactivate a user")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserUniqueID := addUserCmd.String("uniqueid", "", "The login ID; a fresh one is generated when empty. An existing user holding it is updated.")
	addUserRole := addUserCmd.String("role", "", "One of super_admin, management, staff or student.")
	addUserFirstName := addUserCmd.String("firstname", "", "The user's first name.")
	addUserMiddleName := addUserCmd.String("middlename", "", "The user's middle name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email address.")

	setActiveCmd := flag.NewFlagSet("setactive", flag.ContinueOnError)
	setActiveCmd.SetOutput(cli.out)
	setActiveUniqueID := setActiveCmd.String("uniqueid", "", "The user's login ID.")
	setActiveActive := setActiveCmd.Bool("active", true, "Whether the user may sign in.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			fmt.Fprintln(cli.out, "Usage: migrate COMMAND [ARGS]")
			return errHelp
		}
		return cli.migrate(args[2:])

	case "seed":
		return cli.seed()

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserRole == "" || *addUserFirstName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter surname (also the initial password):")
		surname, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(surname) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUniqueID, *addUserRole, *addUserFirstName, *addUserMiddleName, string(surname), *addUserEmail)

	case "setactive":
		if err := setActiveCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *setActiveUniqueID == "" {
			setActiveCmd.Usage()
			return errHelp
		}
		return cli.setActive(*setActiveUniqueID, *setActiveActive)

	default:
		cli.printUsage()
		return errHelp
	}
}
