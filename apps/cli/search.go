package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/trezcool/findgreatschool/core/explore"
	"github.com/trezcool/findgreatschool/core/institution"
)

func (cli *commandLine) filters(ctx context.Context, fs institution.FilterState) error {
	p, err := cli.api.Filters(ctx, fs)
	if err != nil {
		return err
	}
	if p.Category != "" {
		fmt.Fprintf(cli.out, "%s filters\n", p.Category.Label())
	}
	for _, s := range p.Sections {
		fmt.Fprintf(cli.out, "\n%s (%s)\n", s.Title, s.Type)
		for _, c := range s.Controls {
			box := "[ ]"
			if c.Checked {
				box = "[x]"
			}
			fmt.Fprintf(cli.out, "  %s %s (%s)\n", box, c.Label, c.Value)
		}
	}
	if len(p.DetailOptions) > 0 {
		fmt.Fprintf(cli.out, "\nDetail: %s\n", strings.Join(p.DetailOptions, ", "))
	}
	sorts := make([]string, 0, len(p.SortOptions))
	for _, o := range p.SortOptions {
		sorts = append(sorts, o.Value)
	}
	fmt.Fprintf(cli.out, "\nSort: %s\n", strings.Join(sorts, ", "))
	return nil
}

// search runs a single fetch cycle.
func (cli *commandLine) search(ctx context.Context, fs institution.FilterState) error {
	f := explore.NewFetcher(cli.api, nil)
	f.Update(ctx, fs)
	f.Wait()
	return printState(cli.out, f.State())
}

// browse folds every input line into the filter and prints the accepted fetcher states.
// Results of superseded searches are never printed.
func (cli *commandLine) browse(ctx context.Context, fs institution.FilterState) error {
	out := &syncWriter{w: cli.out} // written to by the fetcher goroutines too
	f := explore.NewFetcher(cli.api, func(s explore.State) {
		_ = printState(out, s)
	})
	f.Update(ctx, fs)
	cur := fs.Canonical()

	scanner := bufio.NewScanner(cli.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			f.Wait()
			return nil
		case line == "reload":
			f.Reload(ctx)
			continue
		case strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-"):
			ev, ok := parseChange(line)
			if !ok {
				fmt.Fprintf(out, "unknown change %q: use +board=X, -board=X, +feature=Y or -feature=Y\n", line)
				continue
			}
			cur = cur.Apply(ev)
		default:
			cur = institution.Decode(line)
		}
		f.Update(ctx, cur)
	}
	f.Wait()
	return scanner.Err()
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// parseChange parses "+board=CBSE" or "-feature=library" into a panel ChangeEvent.
func parseChange(line string) (institution.ChangeEvent, bool) {
	checked := line[0] == '+'
	kv := strings.SplitN(line[1:], "=", 2)
	if len(kv) != 2 || strings.TrimSpace(kv[1]) == "" {
		return institution.ChangeEvent{}, false
	}
	var typ institution.FilterType
	switch strings.TrimSpace(kv[0]) {
	case institution.ParamBoard, string(institution.FilterBoards):
		typ = institution.FilterBoards
	case institution.ParamFeature, string(institution.FilterFeatures):
		typ = institution.FilterFeatures
	default:
		return institution.ChangeEvent{}, false
	}
	return institution.ChangeEvent{Type: typ, Value: strings.TrimSpace(kv[1]), Checked: checked}, true
}

func printState(w io.Writer, s explore.State) error {
	query := institution.Encode(s.Filter)
	switch s.Status {
	case explore.StatusLoading:
		fmt.Fprintf(w, "searching ?%s ...\n", query)
	case explore.StatusError:
		fmt.Fprintf(w, "search failed: %s\n", s.Message)
	case explore.StatusSuccess:
		fmt.Fprintf(w, "?%s: %d result(s)\n", query, len(s.Results))
		return printResults(w, s.Results)
	}
	return nil
}

func printResults(w io.Writer, results []institution.Summary) error {
	if len(results) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCITY\tBOARD")
	for _, r := range results {
		board := r.Board.String
		if !r.Board.Valid {
			board = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Category.Label(), r.City, board)
	}
	return tw.Flush()
}

// show prints the detail page of an approved institution.
func (cli *commandLine) show(ctx context.Context, id string) error {
	inst, err := cli.api.Get(ctx, id)
	if err != nil {
		return err
	}
	na := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}

	fmt.Fprintf(cli.out, "%s (%s)\n", inst.Name, inst.Type.Label())
	fmt.Fprintf(cli.out, "%s, %s, %s %s\n\n", inst.Address, inst.City, inst.State, inst.Pincode)
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	if inst.Type == institution.CategorySchool {
		fmt.Fprintf(tw, "Board:\t%s\n", na(inst.Board.String))
	}
	fmt.Fprintf(tw, "Fees:\t%s\n", na(inst.FeeStructure.String))
	if inst.StudentTeacherRatio.Valid {
		fmt.Fprintf(tw, "Student:Teacher:\t%d:1\n", inst.StudentTeacherRatio.Int)
	}
	fmt.Fprintf(tw, "Offers:\t%s\n", na(strings.Join(inst.Offerings(), ", ")))
	fmt.Fprintf(tw, "Features:\t%s\n", na(strings.Join(inst.Features.Enabled(), ", ")))
	fmt.Fprintf(tw, "Email:\t%s\n", na(inst.ContactEmail))
	fmt.Fprintf(tw, "Phone:\t%s\n", na(inst.ContactPhone.String))
	if len(inst.Images) > 0 {
		fmt.Fprintf(tw, "Image:\t%s\n", inst.Images[0])
	}
	return tw.Flush()
}
