package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/ganttkit/internal/cli/formatter"
	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// timeScaleForm offers the page's time scales as a select, preselecting
// value.
func timeScaleForm(scales []domain.TimeScale, value *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(scales))
	for _, ts := range scales {
		options = append(options, huh.NewOption(ts.DisplayName, ts.Name))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Time scale").
				Description("Major / minor units of the time axis").
				Options(options...).
				Value(value),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

func newTimeScaleCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:               "timescale PAGE",
		Short:             "Pick the time scale of a page",
		Long:              "Pick the time scale of a page. Without --name an interactive select is shown.\nAutomatic time scaling is switched off so the choice sticks.",
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
			// Aborting the select leaves preferences untouched.
			discard := false
			defer func() {
				err = errors.Join(err, s.finish(ctx, discard))
			}()

			if name == "" {
				if !app.interactive() {
					discard = true
					return fmt.Errorf("stdin is not a terminal: pass --name")
				}
				name = props.TimeScale.Name
				if err := timeScaleForm(props.Options.TimeScales, &name).Run(); err != nil {
					discard = true
					return err
				}
			}
			if _, ok := domain.LookupTimeScale(name); !ok {
				discard = true
				return fmt.Errorf("unknown time scale %q", name)
			}

			if props.AutoTimeScale {
				if props, err = app.Pages.Toggle(ctx, s.id, controller.ToggleAutoTimeScale); err != nil {
					return err
				}
			}
			props, err = app.Pages.SelectTimeScale(ctx, s.id, contract.TimeScaleRequest{Name: name})
			if err != nil {
				return err
			}
			if props.TimeScale.Name != name {
				discard = true
				return fmt.Errorf("page %s does not offer time scale %q", page, name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Time scale: "+props.TimeScale.DisplayName))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Time scale name, e.g. DayHour")

	return cmd
}
