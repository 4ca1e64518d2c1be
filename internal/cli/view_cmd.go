package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:               "view PAGE",
		Short:             "Open a page interactively in the terminal",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePages(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("view needs a terminal; use 'tree' or 'render' instead")
			}
			ctx := cmd.Context()
			page, err := pageArg(app, args)
			if err != nil {
				return err
			}
			s, props, err := openSession(ctx, app, page)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(newPageModel(ctx, app.Pages, s.id, *props), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				// The program died before the model could unload the page.
				return errors.Join(err, s.finish(ctx, false))
			}
			if m, ok := final.(pageModel); ok && m.closed {
				return m.closeErr
			}
			return s.finish(ctx, false)
		},
	}
}
