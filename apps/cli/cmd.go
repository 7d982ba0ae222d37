package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/trezcool/findgreatschool/core/application"
	"github.com/trezcool/findgreatschool/core/compare"
	"github.com/trezcool/findgreatschool/core/contact"
	"github.com/trezcool/findgreatschool/core/institution"
)

var errHelp = errors.New("help provided")

// apiClient is the part of client.Client the commands use.
type apiClient interface {
	Search(ctx context.Context, fs institution.FilterState) ([]institution.Summary, error)
	GetApproved(ctx context.Context, ids []string) ([]institution.Institution, error)
	Get(ctx context.Context, id string) (institution.Institution, error)
	Filters(ctx context.Context, fs institution.FilterState) (institution.Panel, error)
	Apply(ctx context.Context, institutionID string) (string, error)
	Applications(ctx context.Context) ([]application.StudentApplication, error)
	Contact(ctx context.Context, msg contact.Message) (string, error)
}

type commandLine struct {
	api   apiClient
	store *compare.Store
	in    io.Reader
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  filters [FILTERS]                      - show the filter panel")
	fmt.Fprintln(cli.out, "  search [FILTERS]                       - search institutions")
	fmt.Fprintln(cli.out, "  browse [FILTERS]                       - search interactively; each line is a query string,")
	fmt.Fprintln(cli.out, "                                           +board=X, -feature=Y, reload or quit")
	fmt.Fprintln(cli.out, "  show -id ID                            - show an institution")
	fmt.Fprintln(cli.out, "  compare add|remove ID                  - edit the comparison selection")
	fmt.Fprintln(cli.out, "  compare clear|list|show                - clear, list or compare the selection")
	fmt.Fprintln(cli.out, "  apply -id ID                           - apply to an institution")
	fmt.Fprintln(cli.out, "  applications                           - list your applications")
	fmt.Fprintln(cli.out, "  contact -name N -email E -subject S -message M - contact us")
	fmt.Fprintln(cli.out, "FILTERS: -q QUERY_STRING | -category C -detail D -city C -sort S -board B... -feature F...")
}

// stringsFlag is a repeatable string flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// filterFlags registers the filter flags on fs. The returned func builds the FilterState once fs is parsed;
// -q, a query string, takes precedence over the other flags.
func filterFlags(fs *flag.FlagSet) func() institution.FilterState {
	query := fs.String("q", "", "A query string, as shared in search links.")
	category := fs.String("category", "", "school, coaching or college.")
	detail := fs.String("detail", "", "A class, exam or program of the category.")
	city := fs.String("city", "", "Part of the city name.")
	sort := fs.String("sort", "", "relevance, name_asc or name_desc.")
	boards := new(stringsFlag)
	fs.Var(boards, "board", "A school board (repeatable).")
	features := new(stringsFlag)
	fs.Var(features, "feature", "A required feature (repeatable).")

	return func() institution.FilterState {
		if *query != "" {
			return institution.Decode(*query)
		}
		return institution.FilterState{
			Category: institution.ParseCategory(*category),
			Detail:   *detail,
			City:     *city,
			Sort:     institution.ParseSort(*sort),
			Boards:   *boards,
			Features: *features,
		}.Canonical()
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	newFlagSet := func(name string) *flag.FlagSet {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(cli.out)
		return fs
	}

	switch args[1] {
	case "filters", "search", "browse":
		cmd := newFlagSet(args[1])
		filter := filterFlags(cmd)
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		switch args[1] {
		case "filters":
			return cli.filters(ctx, filter())
		case "search":
			return cli.search(ctx, filter())
		default:
			return cli.browse(ctx, filter())
		}

	case "compare":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		switch sub := args[2]; sub {
		case "add", "remove":
			if len(args) < 4 {
				cli.printUsage()
				return errHelp
			}
			if sub == "add" {
				return cli.compareAdd(args[3])
			}
			return cli.compareRemove(ctx, args[3])
		case "clear":
			return cli.compareClear()
		case "list":
			return cli.compareList()
		case "show":
			return cli.compareShow(ctx)
		}
		cli.printUsage()
		return errHelp

	case "show":
		cmd := newFlagSet("show")
		id := cmd.String("id", "", "The institution's ID.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *id == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.show(ctx, *id)

	case "apply":
		cmd := newFlagSet("apply")
		id := cmd.String("id", "", "The institution's ID.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *id == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.apply(ctx, *id)

	case "applications":
		return cli.applications(ctx)

	case "contact":
		cmd := newFlagSet("contact")
		var msg contact.Message
		cmd.StringVar(&msg.Name, "name", "", "Your name.")
		cmd.StringVar(&msg.Email, "email", "", "Your email address.")
		cmd.StringVar(&msg.Subject, "subject", "", "The subject.")
		cmd.StringVar(&msg.Message, "message", "", "Your message.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.contact(ctx, msg)

	default:
		cli.printUsage()
		return errHelp
	}
}
