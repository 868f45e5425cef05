package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"swcommons/internal/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [collection|kind]",
		Short: "Describe the entity kinds the server accepts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := a.client.Schema(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, def := range defs {
					fmt.Fprintf(out, "%-24s %-18s %s\n", def.Collection, def.Kind, def.Label)
				}
				return nil
			}

			for _, def := range defs {
				if string(def.Collection) == args[0] || def.Kind == args[0] {
					describe(out, def)
					return nil
				}
			}
			return usagef("unknown collection or kind %q", args[0])
		},
	}
}

func describe(w io.Writer, def *schema.EntityDefinition) {
	fmt.Fprintf(w, "%s (%s), listed at %s\n", def.Label, def.Collection, def.Route)
	for _, f := range def.Fields {
		describeField(w, f, "  ")
	}
}

func describeField(w io.Writer, f *schema.FieldDefinition, indent string) {
	var notes []string
	if f.Required {
		notes = append(notes, "required")
	}
	if f.InputSlot() != f.Name {
		notes = append(notes, "input "+f.InputSlot())
	}
	if len(f.Values) > 0 {
		notes = append(notes, "one of "+strings.Join(f.Values, "|"))
	}
	if f.Default != "" {
		notes = append(notes, "default "+f.Default)
	}
	if f.Auto != schema.AutoNone {
		notes = append(notes, "auto "+string(f.Auto))
	}
	fmt.Fprintf(w, "%s%-18s %-16s %s\n", indent, f.Name, f.Type, strings.Join(notes, ", "))
	for _, sub := range f.Fields {
		describeField(w, sub, indent+"  ")
	}
}
