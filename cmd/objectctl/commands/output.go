/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/model"
)

// parseValue reads a command line value as a YAML scalar, so 36 is a number,
// true a bool and null clears the field. Anything that does not parse stays
// a string; quote it ('"007"') to force a string.
func parseValue(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case map[string]any, []any:
		return s
	}
	return v
}

// parseAssignments splits field=value arguments.
func parseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		out[field] = parseValue(value)
	}
	return out, nil
}

func printRecord(w io.Writer, rec datastore.Record, asJSON bool) error {
	if asJSON {
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	out, err := yaml.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func printRecords(w io.Writer, entities []*model.Entity) error {
	records := make([]datastore.Record, 0, len(entities))
	for _, e := range entities {
		records = append(records, e.Record())
	}
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printTable renders one row per entity: its key, then each schema field.
func printTable(w io.Writer, typ *model.Type, entities []*model.Entity) error {
	fields := typ.Fields()
	header := append([]string{"KEY"}, fields...)
	data := pterm.TableData{header}

	for _, e := range entities {
		row := []string{e.Key().String()}
		for _, f := range fields {
			v, err := e.Get(f)
			if err != nil {
				return err
			}
			row = append(row, formatCell(v))
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

func formatCell(v any) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}
