package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/source"
)

func runInspect(cmd *cobra.Command, args []string) error {
	maxSize, _ := cmd.Flags().GetInt64("max-size")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	l, err := source.LoadFile(context.Background(), "inspect", filepath.Base(args[0]), data, maxSize)
	if err != nil {
		return err
	}
	return printDataset(cmd.OutOrStdout(), l.Dataset)
}

func printDataset(out io.Writer, ds *dataset.Dataset) error {
	fmt.Fprintf(out, "%s: %d records\n", ds.Name, ds.Len())
	fmt.Fprintf(out, "color by: %s\n", orNone(ds.DefaultColorBy))
	fmt.Fprintf(out, "image column: %s\n\n", orNone(ds.DefaultImgCol))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tROLE\tKIND\tFIRST\tDOMAIN")
	for _, col := range ds.Headers {
		role := "other"
		switch {
		case strings.HasPrefix(col, dataset.PrefixIn):
			role = "input"
		case strings.HasPrefix(col, dataset.PrefixOut):
			role = "output"
		case strings.HasPrefix(col, dataset.PrefixImg):
			role = "image"
		}

		kind, domain := "text", ""
		if ds.IsNumeric(col) {
			r, _ := ds.Range(col)
			kind, domain = "numeric", fmt.Sprintf("[%g, %g]", r.Min, r.Max)
		} else if cats := ds.Categories[col]; len(cats) > 0 {
			kind, domain = "categorical", strings.Join(cats, ", ")
		}
		first := ds.Records[0].Get(col).Display()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", col, role, kind, orNone(first), domain)
	}
	return tw.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
