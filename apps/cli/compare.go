package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/trezcool/findgreatschool/core/compare"
)

func (cli *commandLine) view() *compare.View {
	return compare.NewView(cli.store, compare.NewAssembler(cli.api))
}

func (cli *commandLine) compareAdd(id string) error {
	if err := cli.store.Add(id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d/%d selected for comparison.\n", cli.store.Len(), cli.store.Max())
	return nil
}

func (cli *commandLine) compareRemove(ctx context.Context, id string) error {
	page, err := cli.view().Remove(ctx, id)
	if err != nil {
		return err
	}
	return printPage(cli.out, page)
}

func (cli *commandLine) compareClear() error {
	page, err := cli.view().Clear()
	if err != nil {
		return err
	}
	return printPage(cli.out, page)
}

func (cli *commandLine) compareList() error {
	items := cli.store.Items()
	if len(items) == 0 {
		fmt.Fprintln(cli.out, compare.EmptyMessage)
		return nil
	}
	for i, id := range items {
		fmt.Fprintf(cli.out, "%d. %s\n", i+1, id)
	}
	return nil
}

func (cli *commandLine) compareShow(ctx context.Context) error {
	return printPage(cli.out, cli.view().Load(ctx))
}

// printPage lays the matrix out with one column per institution.
func printPage(w io.Writer, page compare.Page) error {
	if page.Status != compare.StatusSuccess {
		fmt.Fprintln(w, page.Message)
		return nil
	}

	m := page.Matrix
	if len(m.Columns) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for i, h := range m.Rows {
			fmt.Fprint(tw, h.Label)
			for _, col := range m.Columns {
				fmt.Fprintf(tw, "\t%s", col.Cells[i].String())
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if page.Message != "" {
		fmt.Fprintln(w, page.Message)
	}
	return nil
}
