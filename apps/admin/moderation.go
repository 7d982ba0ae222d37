package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/findgreatschool/core/institution"
)

func (cli *commandLine) pending(search string, page int) error {
	p, err := cli.instSvc.Pending(context.Background(), institution.PendingFilter{Search: search, Page: page})
	if err != nil {
		return err
	}
	if p.Total == 0 {
		fmt.Fprintln(cli.out, "No institutions awaiting approval.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCITY\tSUBMITTED")
	for _, inst := range p.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", inst.ID, inst.Name, inst.Type.Label(), inst.City, inst.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "page %d of %d (%d pending)\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func (cli *commandLine) approve(id string) error {
	if err := cli.instSvc.Approve(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Institution %s approved.\n", id)
	return nil
}

func (cli *commandLine) reject(id string) error {
	if err := cli.instSvc.Reject(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Institution %s rejected.\n", id)
	return nil
}
