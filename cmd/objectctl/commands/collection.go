/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/objectstore"
	"github.com/suparena/objectstore/errors"
	"github.com/suparena/objectstore/model"
)

func newCollectionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Manage the member list of a collection type",
		Long: `Manage the ordered member list kept for types declared with collection: true.

put and delete keep the list in step already; add and rm edit it directly.`,
	}

	manager := func(typeName string) (*objectstore.CollectionManager, error) {
		acc, err := a.accessor(typeName)
		if err != nil {
			return nil, err
		}
		cm, ok := acc.(*objectstore.CollectionManager)
		if !ok {
			return nil, errors.NewValidationError("type", fmt.Sprintf("%s is not declared as a collection", acc.Type().Name()))
		}
		return cm, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <type> <name>",
			Short: "Add an instance to the collection",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cm, err := manager(args[0])
				if err != nil {
					return err
				}
				key, err := cm.Key(args[1])
				if err != nil {
					return err
				}
				if err := cm.Collection().Add(cmd.Context(), key); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", key, cm.CollectionKey())
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <type> <name>",
			Short: "Remove an instance from the collection",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cm, err := manager(args[0])
				if err != nil {
					return err
				}
				key, err := cm.Key(args[1])
				if err != nil {
					return err
				}
				if err := cm.Collection().Remove(cmd.Context(), key); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", key, cm.CollectionKey())
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls <type>",
			Short: "List the collection's members in insertion order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cm, err := manager(args[0])
				if err != nil {
					return err
				}
				var members []*model.Entity
				for e, err := range cm.Instances(cmd.Context()) {
					if err != nil {
						return err
					}
					members = append(members, e)
				}
				return printTable(cmd.OutOrStdout(), cm.Type(), members)
			},
		},
	)
	return cmd
}
