package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/marketplace"
)

const dateLayout = "2006-01-02"

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSellerTable prints one row per seller with the reconciled package.
func writeSellerTable(w io.Writer, items []marketplace.Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPACKAGE\tEND DATE\tEXPIRY")
	for _, it := range items {
		pkg, end, expiry := "-", "-", "N/A"
		if s := it.Subscription; s != nil {
			pkg = s.PackageName
			if s.PackageEndDate != nil {
				end = s.PackageEndDate.Format(dateLayout)
			}
			expiry = s.Expiry.Label
			if s.Expiry.Critical {
				expiry += " !"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			cell(it.Record.String("id")),
			cell(it.Record.String("name", "shop_name", "company_name")),
			cell(it.Record.String("status")),
			pkg, end, expiry)
	}
	return tw.Flush()
}

// writeRecordTable prints the identifying columns of generic records.
func writeRecordTable(w io.Writer, items []marketplace.Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			cell(it.Record.String("id")),
			cell(it.Record.String("name", "title", "question", "code")),
			cell(it.Record.String("status")))
	}
	return tw.Flush()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func kindList() string {
	kinds := marketplace.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
