package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"sort"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/rapor/core"
	"github.com/trezcool/rapor/core/user"
	"github.com/trezcool/rapor/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword       // mockable
	gooseRunFunc     = database.RunMigrations // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sql.DB
	usrSvc     *user.Service
	translator ut.Translator
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -email EMAIL -name NAME -role ROLE - create a user (" + strings.Join(roleNames(), "|") + ")")
	fmt.Println("  resetpassword -email EMAIL - reset user's password")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", "", "One of "+strings.Join(roleNames(), ", ")+".")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserEmail == "" || *addUserName == "" || *addUserRole == "" {
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
		return cli.addUser(*addUserEmail, *addUserName, *addUserRole, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordEmail == "" {
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
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

func (cli *commandLine) addUser(email, name, role, pwd string) error {
	usr, err := cli.usrSvc.Create(context.Background(), user.NewUser{Name: name, Email: email, Role: role, Password: pwd})
	if err != nil {
		return err
	}
	fmt.Printf("created %s %s (%s)\n", usr.Role, usr.Email, usr.ID)
	return nil
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	usr, err := cli.usrSvc.ResetPassword(context.Background(), user.ResetUserPassword{Email: email, Password: pwd})
	if err != nil {
		return err
	}
	fmt.Printf("password of %s updated\n", usr.Email)
	return nil
}

func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(args[0], cli.db, args[1:]...)
}

// describe renders err for the terminal, one line per invalid field.
func (cli *commandLine) describe(err error) string {
	flds := core.FieldErrors(err, cli.translator)
	if len(flds) == 0 {
		return "error: " + err.Error()
	}
	lines := make([]string, 0, len(flds))
	for fld, msg := range flds {
		lines = append(lines, fld+": "+msg)
	}
	sort.Strings(lines)
	return "error:\n  " + strings.Join(lines, "\n  ")
}

func roleNames() []string {
	names := make([]string, 0, len(user.AllRoles))
	for _, r := range user.AllRoles {
		names = append(names, r.String())
	}
	return names
}
