/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the configured model types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := pterm.TableData{{"TYPE", "KEY TYPE", "KEY FIELD", "EXTENDS", "FIELDS"}}
			for _, t := range a.types.All() {
				bases := make([]string, 0, len(t.Bases()))
				for _, b := range t.Bases() {
					bases = append(bases, b.Name())
				}
				data = append(data, []string{
					t.Name(),
					t.KeyType(),
					t.KeyField(),
					strings.Join(bases, ","),
					strings.Join(t.Fields(), ","),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.OutOrStdout()).Render()
		},
	}
}
