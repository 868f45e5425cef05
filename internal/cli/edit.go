package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"swcommons/internal/views"
	"swcommons/pkg/models"
)

type editOptions struct {
	set     []string
	add     int
	remove  []int
	entries []string
}

func newEditCmd(a *app) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "edit <collection> <id>",
		Short: "Change fields of an existing record",
		Long: `Edit opens the record in the inline editor, applies the changes and saves
the whole record. Entry removals run first, highest index first, then new
blank entries are appended, then entry fields and scalar fields are set.`,
		Example: `  swctl edit jobs j1 --set location=Remote
  swctl edit countries c1 --remove-regulator 1 --add-regulator --regulator 2.name=BASW`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.view(args[0], nil)
			if err != nil {
				return err
			}
			if err := a.edit(cmd.Context(), v, args[1], &opts); err != nil {
				return err
			}
			msg := fmt.Sprintf("Updated %s %s", v.Definition().Collection, args[1])
			fmt.Fprint(cmd.OutOrStdout(), a.display.Success(msg))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "Field change as field=value (repeatable)")
	cmd.Flags().CountVar(&opts.add, "add-regulator", "Append a blank entry (repeatable)")
	cmd.Flags().IntSliceVar(&opts.remove, "remove-regulator", nil, "Remove the entry at this index")
	cmd.Flags().StringArrayVar(&opts.entries, "regulator", nil, "Entry change as index.field=value")
	return cmd
}

func (a *app) edit(ctx context.Context, v *views.ListView, id string, opts *editOptions) error {
	sets, err := parseAssignments(opts.set)
	if err != nil {
		return err
	}
	entrySets, err := parseEntryAssignments(opts.entries)
	if err != nil {
		return err
	}
	def := v.Definition()
	lf := listField(def)
	if lf == nil && (opts.add > 0 || len(opts.remove) > 0 || len(entrySets) > 0) {
		return usagef("%s has no repeatable entries", def.Collection)
	}

	if err := v.Load(ctx); err != nil {
		return err
	}
	rec, ok := v.Find(id)
	if !ok {
		return &models.NotFoundError{Collection: def.Collection, ID: id}
	}
	if err := v.Edit(rec); err != nil {
		return err
	}
	ed := v.Editor()
	defer func() {
		if ed.Editing() {
			ed.Cancel()
		}
	}()

	for _, i := range descending(opts.remove) {
		if err := ed.RemoveEntry(lf.Name, i); err != nil {
			return err
		}
	}
	for i := 0; i < opts.add; i++ {
		if err := ed.AddEntry(lf.Name); err != nil {
			return err
		}
	}
	for _, es := range entrySets {
		if err := ed.SetEntry(lf.Name, es.index, es.field, es.value); err != nil {
			return err
		}
	}
	for _, s := range sets {
		if err := ed.Set(s.key, s.value); err != nil {
			return err
		}
	}
	return v.Save(ctx)
}
