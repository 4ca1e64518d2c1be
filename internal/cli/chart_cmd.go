package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/ganttkit/internal/cli/formatter"
	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/flatten"
	"github.com/spf13/cobra"
)

// chartOptions are the page interactions a one-shot command can apply
// before printing.
type chartOptions struct {
	toggles     []string
	timeScale   string
	scale       int
	detailLevel int
	colorBy     string
	noSave      bool
}

func (o *chartOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&o.toggles, "toggle", nil, "Flip a page switch before rendering (repeatable)")
	f.StringVar(&o.timeScale, "timescale", "", "Select a time scale by name, e.g. DayHour")
	f.IntVar(&o.scale, "scale", 0, "Move the zoom slider to this position")
	f.IntVar(&o.detailLevel, "detail-level", 0, "Select a detail level by id")
	f.StringVar(&o.colorBy, "color-by", "", "Color bars by campaignColor or batchColor")
	f.BoolVar(&o.noSave, "no-save", false, "Do not persist the resulting preferences")
}

// session is an open page on behalf of one command.
type session struct {
	app *App
	id  string
}

func openSession(ctx context.Context, app *App, page string) (*session, *contract.ChartProps, error) {
	resp, err := app.Pages.Open(ctx, page)
	if err != nil {
		return nil, nil, err
	}
	return &session{app: app, id: resp.ID}, &resp.Props, nil
}

// finish is the page-unload: it saves preferences unless discard is set.
func (s *session) finish(ctx context.Context, discard bool) error {
	if discard {
		return s.app.Pages.Discard(ctx, s.id)
	}
	return s.app.Pages.Close(ctx, s.id)
}

func (o *chartOptions) apply(cmd *cobra.Command, s *session, props *contract.ChartProps) (*contract.ChartProps, error) {
	ctx := cmd.Context()
	pages := s.app.Pages
	var err error

	for _, t := range o.toggles {
		if props, err = pages.Toggle(ctx, s.id, controller.Toggle(t)); err != nil {
			return nil, err
		}
	}
	if o.timeScale != "" {
		if _, ok := domain.LookupTimeScale(o.timeScale); !ok {
			return nil, fmt.Errorf("unknown time scale %q", o.timeScale)
		}
		if props, err = pages.SelectTimeScale(ctx, s.id, contract.TimeScaleRequest{Name: o.timeScale}); err != nil {
			return nil, err
		}
		if props.TimeScale.Name != o.timeScale {
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Time scale is automatic on this page; toggle auto-time-scale first."))
		}
	}
	if cmd.Flags().Changed("scale") {
		if props, err = pages.SetScale(ctx, s.id, contract.ScaleRequest{Position: o.scale}); err != nil {
			return nil, err
		}
	}
	if o.detailLevel != 0 {
		if props, err = pages.SelectDetailLevel(ctx, s.id, contract.DetailLevelRequest{ID: o.detailLevel}); err != nil {
			return nil, err
		}
	}
	if o.colorBy != "" {
		if props, err = pages.SelectColorBy(ctx, s.id, contract.ColorByRequest{Value: o.colorBy}); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// withChart opens page, applies opts and hands the props to fn before
// closing the session.
func withChart(cmd *cobra.Command, app *App, page string, opts *chartOptions, fn func(*contract.ChartProps) error) (err error) {
	ctx := cmd.Context()
	s, props, err := openSession(ctx, app, page)
	if err != nil {
		return err
	}
	// A command that fails part way leaves the stored preferences alone.
	defer func() {
		err = errors.Join(err, s.finish(ctx, opts.noSave || err != nil))
	}()

	props, err = opts.apply(cmd, s, props)
	if err != nil {
		return err
	}
	return fn(props)
}

func newRenderCmd(app *App) *cobra.Command {
	var opts chartOptions
	var dataOnly bool

	cmd := &cobra.Command{
		Use:               "render PAGE",
		Short:             "Print the chart props of a page as JSON",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePages(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pageArg(app, args)
			if err != nil {
				return err
			}
			return withChart(cmd, app, page, &opts, func(p *contract.ChartProps) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if dataOnly {
					return enc.Encode(p.Data)
				}
				return enc.Encode(p)
			})
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&dataOnly, "data", false, "Print only the {rows, arrows} data contract")

	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	var opts chartOptions
	var expandAll bool
	var barsOf int

	cmd := &cobra.Command{
		Use:               "tree PAGE",
		Short:             "Show the rows of a page as a tree",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePages(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pageArg(app, args)
			if err != nil {
				return err
			}
			return withChart(cmd, app, page, &opts, func(p *contract.ChartProps) error {
				out := cmd.OutOrStdout()
				if barsOf == 0 {
					fmt.Fprint(out, formatter.FormatChart(*p, expandAll))
					return nil
				}
				row := flatten.FindRow(p.Data.Rows, barsOf)
				if row == nil {
					return fmt.Errorf("row %d not found on page %s", barsOf, page)
				}
				fmt.Fprint(out, formatter.RenderBox(fmt.Sprintf("Row %d", row.ID), formatter.FormatBars(row)))
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&expandAll, "all", false, "Expand every row regardless of the saved row status")
	cmd.Flags().IntVar(&barsOf, "bars", 0, "List the bars of one row instead of the tree")

	return cmd
}
