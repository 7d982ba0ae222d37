package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/findgreatschool/core/contact"
)

func (cli *commandLine) apply(ctx context.Context, id string) error {
	msg, err := cli.api.Apply(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, msg)
	return nil
}

func (cli *commandLine) applications(ctx context.Context) error {
	apps, err := cli.api.Applications(ctx)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(cli.out, "You have not applied to any institution yet.")
		return nil
	}
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTITUTION\tTYPE\tCITY\tSTATUS\tSUBMITTED")
	for _, a := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			a.InstitutionName, a.InstitutionType.Label(), a.InstitutionCity, a.Status, a.CreatedAt.Local().Format("2006-01-02"))
	}
	return tw.Flush()
}

func (cli *commandLine) contact(ctx context.Context, msg contact.Message) error {
	reply, err := cli.api.Contact(ctx, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, reply)
	return nil
}
