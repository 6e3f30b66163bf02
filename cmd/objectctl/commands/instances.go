/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
)

func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <type> <name> [field=value...]",
		Short: "Create or update an instance",
		Long: `Create the named instance, or update it when it exists, and store it.

Values are read as YAML scalars: 36 is a number, true a bool, null clears the
field. Every value is coerced and validated before anything is written.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.accessor(args[0])
			if err != nil {
				return err
			}
			assignments, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}

			e, err := acc.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			created := e == nil
			if created {
				if e, err = acc.Type().New(args[1]); err != nil {
					return err
				}
			}

			// declared field names map to their record names
			data := make(datastore.Record, len(assignments))
			for field, v := range assignments {
				attr, ok := acc.Type().Attribute(field)
				if !ok {
					return errors.NewValidationError(field, fmt.Sprintf("%s has no field %q", acc.Type().Name(), field))
				}
				data[attr.Name()] = v
			}
			if err := e.UpdateAttributes(data); err != nil {
				return err
			}
			if err := acc.Put(cmd.Context(), e); err != nil {
				return err
			}

			verb := "updated"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, e.Key())
			return nil
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <type> <name>",
		Short: "Print an instance's record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.accessor(args[0])
			if err != nil {
				return err
			}
			e, err := acc.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if e == nil {
				key, _ := acc.Key(args[1])
				return errors.NewNotFoundError(acc.Type().Name(), key.String())
			}
			return printRecord(cmd.OutOrStdout(), e.Record(), asJSON)
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Print JSON instead of YAML")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <type> <name>",
		Aliases: []string{"rm"},
		Short:   "Delete an instance",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.accessor(args[0])
			if err != nil {
				return err
			}
			if err := acc.Delete(cmd.Context(), args[1]); err != nil {
				return err
			}
			key, _ := acc.Key(args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <type>",
		Short: "Delete every instance of a type",
		Long: `Delete every instance of a type.

The instances are listed first and then deleted one by one; instances written
while clear runs may survive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.accessor(args[0])
			if err != nil {
				return err
			}
			n, err := acc.RemoveAll(cmd.Context())
			if err != nil {
				return errors.Wrapf(err, "removed %d before failing", n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d %s instances\n", n, acc.Type().Name())
			return nil
		},
	}
}
