package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/term"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	db      *mongo.Database
	usrRepo user.Repository
	stdRepo student.Repository
	tchRepo teacher.Repository
	clsRepo school.Repository
	asgRepo assignment.Repository
	attRepo attendance.Repository
	grdRepo grade.Repository
	annRepo announcement.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -username USERNAME -email EMAIL [-role ROLE] - update or create a user; the password will be prompted")
	fmt.Println("  resetpassword -username USERNAME|EMAIL - reset user's password")
	fmt.Println("  seed - provision indexes and demo data")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserRole := addUserCmd.String("role", string(user.RoleAdmin), "The user's role: admin, teacher, student or parent.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username or email. The password will be prompted next.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		role := user.ParseRole(*addUserRole)
		if !role.Valid() {
			return fmt.Errorf("invalid role %q", *addUserRole)
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.addUser(*addUserUname, *addUserEmail, pwd, role)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
