package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/ganttkit/internal/config"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Registry *controller.Registry
	Pages    service.PageService
	Prefs    service.PreferencesService
	Drops    service.DropLogService

	Config config.Config
	Logger *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Now is the clock used for relative times. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewRootCmd creates the top-level "ganttkit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ganttkit",
		Short:         "Gantt and scheduler chart pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPagesCmd(app),
		newRenderCmd(app),
		newTreeCmd(app),
		newViewCmd(app),
		newTimeScaleCmd(app),
		newPrefsCmd(app),
		newDropCmd(app),
		newDropsCmd(app),
		newServeCmd(app),
	)

	return root
}
