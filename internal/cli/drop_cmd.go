package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttkit/internal/cli/formatter"
	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/flatten"
	"github.com/spf13/cobra"
)

// locateBar finds a bar and the row holding it.
func locateBar(rows []domain.Row, barID int) (domain.Bar, *domain.Row, bool) {
	var (
		bar   domain.Bar
		owner *domain.Row
	)
	flatten.WalkRows(rows, func(r *domain.Row, _ int) bool {
		for _, b := range r.Bars {
			if b.ID == barID {
				bar, owner = b, r
				return false
			}
		}
		return true
	})
	return bar, owner, owner != nil
}

// dropRequest builds the drop callback payload for moving bar by d,
// optionally onto another row.
func dropRequest(rows []domain.Row, barID, toRow int, d time.Duration) (contract.DropRequest, error) {
	bar, from, ok := locateBar(rows, barID)
	if !ok {
		return contract.DropRequest{}, fmt.Errorf("bar %d not found", barID)
	}
	if !bar.IsDraggable {
		return contract.DropRequest{}, fmt.Errorf("bar %d (%s) is not draggable", barID, bar.BarEntityType)
	}
	to := from
	if toRow != 0 {
		if to = flatten.FindRow(rows, toRow); to == nil {
			return contract.DropRequest{}, fmt.Errorf("row %d not found", toRow)
		}
	}
	return contract.DropRequest{
		Bar:              bar,
		InitialRow:       *from,
		FinalRow:         *to,
		InitialPositionX: bar.StartDate,
		FinalPositionX:   bar.StartDate.Add(d),
	}, nil
}

func newDropCmd(app *App) *cobra.Command {
	var barID, toRow int
	var by string
	var noSave bool

	cmd := &cobra.Command{
		Use:               "drop PAGE",
		Short:             "Drag a bar in time, and optionally onto another row",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePages(app),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			page, err := pageArg(app, args)
			if err != nil {
				return err
			}
			s, props, err := openSession(ctx, app, page)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.finish(ctx, noSave || err != nil))
			}()

			offset, err := formatter.ParseOffset(by)
			if err != nil {
				return err
			}
			req, err := dropRequest(props.Data.Rows, barID, toRow, offset)
			if err != nil {
				return err
			}
			resp, err := app.Pages.Drop(ctx, s.id, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDropResult(resp))
			if !resp.Applied {
				return fmt.Errorf("drop of bar %d rejected", barID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&barID, "bar", 0, "Bar ID to drag (see 'tree PAGE --bars ROW')")
	cmd.Flags().IntVar(&toRow, "to-row", 0, "Target row ID; defaults to the bar's own row")
	cmd.Flags().StringVar(&by, "by", "0m", "Time offset such as 90m, -2h or a number of minutes")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the page preferences")
	_ = cmd.MarkFlagRequired("bar")

	return cmd
}

func newDropsCmd(app *App) *cobra.Command {
	page := newPageValue(app.Registry)
	var limit int

	cmd := &cobra.Command{
		Use:   "drops",
		Short: "List recorded drops, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Drops.List(cmd.Context(), page.String(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No drops recorded.")
				return nil
			}
			fmt.Fprint(out, formatter.FormatDrops(events, app.now()))
			return nil
		},
	}

	cmd.Flags().Var(page, "page", "Only show drops on this page")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of drops to show (0 for all)")
	_ = cmd.RegisterFlagCompletionFunc("page", func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
		return app.Registry.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
