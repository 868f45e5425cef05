package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"swcommons/pkg/models"
)

const exportPollInterval = 500 * time.Millisecond

func newExportCmd(a *app) *cobra.Command {
	var (
		wait    bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export <collection>",
		Short: "Export a collection to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.entity(args[0])
			if err != nil {
				return err
			}
			accepted, err := a.client.Export(cmd.Context(), def.Collection)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !wait {
				fmt.Fprintf(out, "Export %s queued for %s\n", accepted.ProcessID, accepted.Collection)
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			status, err := a.awaitExport(ctx, accepted.ProcessID)
			if err != nil {
				return err
			}
			fmt.Fprint(out, a.display.ExportStatus(status))
			if status.Status == models.AsyncStatusFailure {
				return &models.UnknownError{Op: "export " + string(def.Collection), Err: errors.New(status.Error)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait for the export to finish")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long --wait waits")
	return cmd
}

// awaitExport polls until the export leaves the queue
func (a *app) awaitExport(ctx context.Context, processID string) (*models.AsyncTaskStatusResponse, error) {
	ticker := time.NewTicker(exportPollInterval)
	defer ticker.Stop()
	for {
		status, err := a.client.ExportStatus(ctx, processID)
		if err != nil {
			return nil, err
		}
		switch status.Status {
		case models.AsyncStatusSuccess, models.AsyncStatusFailure:
			return status, nil
		}
		select {
		case <-ctx.Done():
			return nil, &models.UnknownError{Op: "wait for export " + processID, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}
