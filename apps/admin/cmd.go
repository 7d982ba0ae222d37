package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf    *core.Config
	db      *sql.DB
	instSvc *institution.Service
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]            - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  pending [-search TEXT] [-page N]  - list institutions awaiting approval")
	fmt.Fprintln(cli.out, "  approve -id ID                    - approve an institution")
	fmt.Fprintln(cli.out, "  reject -id ID                     - reject (delete) an institution")
	fmt.Fprintln(cli.out, "  token -user ID [-email EMAIL] [-ttl DURATION] - issue an API token (development)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	pendingCmd := flag.NewFlagSet("pending", flag.ContinueOnError)
	pendingSearch := pendingCmd.String("search", "", "Only list institutions whose name contains TEXT.")
	pendingPage := pendingCmd.Int("page", 1, "The page to list.")

	approveCmd := flag.NewFlagSet("approve", flag.ContinueOnError)
	approveID := approveCmd.String("id", "", "The institution's ID.")

	rejectCmd := flag.NewFlagSet("reject", flag.ContinueOnError)
	rejectID := rejectCmd.String("id", "", "The institution's ID.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenUser := tokenCmd.String("user", "", "The user ID (token subject).")
	tokenEmail := tokenCmd.String("email", "", "The user's email.")
	tokenTTL := tokenCmd.Duration("ttl", 24*time.Hour, "How long the token is valid.")

	for _, fs := range []*flag.FlagSet{pendingCmd, approveCmd, rejectCmd, tokenCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "pending":
		if err := pendingCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.pending(*pendingSearch, *pendingPage)
	case "approve":
		if err := approveCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *approveID == "" {
			approveCmd.Usage()
			return errHelp
		}
		return cli.approve(*approveID)
	case "reject":
		if err := rejectCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *rejectID == "" {
			rejectCmd.Usage()
			return errHelp
		}
		return cli.reject(*rejectID)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenUser == "" || *tokenTTL <= 0 {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenUser, *tokenEmail, *tokenTTL)
	default:
		cli.printUsage()
		return errHelp
	}
}
