/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"github.com/spf13/cobra"

	"github.com/suparena/objectstore"
	"github.com/suparena/objectstore/datastore"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		filters []string
		orders  []string
		limit   int
		offset  int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "query <type>",
		Short: "List instances of a type",
		Long: `List instances of a type, optionally filtered, ordered and paged.

Filters take the form field<op>value with op one of = != < <= > >=.
Orders are field names, prefixed with - for descending.`,
		Example: `  objectctl query person --filter 'age>=21' --filter 'team=core' --order -age --limit 10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.accessor(args[0])
			if err != nil {
				return err
			}

			q := acc.InitQuery()
			for _, expr := range filters {
				f, err := datastore.ParseFilter(expr)
				if err != nil {
					return err
				}
				q.Filter(f.Field, f.Op, parseValue(f.Value.(string)))
			}
			for _, o := range orders {
				q.OrderBy(o)
			}
			q.Limit = limit
			q.Offset = offset

			seq, err := acc.Query(cmd.Context(), q)
			if err != nil {
				return err
			}
			entities, err := objectstore.Collect(seq)
			if err != nil {
				return err
			}

			if asJSON {
				return printRecords(cmd.OutOrStdout(), entities)
			}
			return printTable(cmd.OutOrStdout(), acc.Type(), entities)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&filters, "filter", "f", nil, "Filter expression, repeatable")
	flags.StringArrayVarP(&orders, "order", "o", nil, "Order field, repeatable; prefix - for descending")
	flags.IntVarP(&limit, "limit", "l", 0, "Maximum number of instances (0 for all)")
	flags.IntVar(&offset, "offset", 0, "Number of instances to skip")
	flags.BoolVarP(&asJSON, "json", "j", false, "Print records as JSON")
	return cmd
}
