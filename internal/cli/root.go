package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"todoview/internal/config"
	"todoview/internal/storage"
	"todoview/internal/ui"
	"todoview/internal/view"
)

type App struct {
	ConfigPath string

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Terminal to-do list with priorities, deadlines and subtasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  todo

  # Scriptable commands
  todo add "File taxes" --priority high --deadline 2025-04-15
  todo list --filter open --sort priority,deadline --format json
  todo remind
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr(config.EnvConfigPath, ""), "Path to config.toml")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newSubtaskCmd(app))
	cmd.AddCommand(newDoneCmd(app, "done", true))
	cmd.AddCommand(newDoneCmd(app, "undone", false))
	cmd.AddCommand(newTrashCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newRemindCmd(app))

	return cmd
}

func runTUI(app *App) error {
	st, err := app.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := app.loadList(st)
	if err != nil {
		return err
	}
	return ui.Run(list, app.cfg, st.Path())
}

func (a *App) loadConfig() error {
	path := a.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *App) openStore() (*storage.Store, error) {
	if err := a.loadConfig(); err != nil {
		return nil, err
	}
	st, err := storage.Open(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// loadList builds the view over st with the configured default filter and sort.
func (a *App) loadList(st *storage.Store) (*view.List, error) {
	list := view.NewList(st, a.cfg.ViewConfig())
	list.SetCriterion(a.cfg.Criterion())
	list.SetSortMask(a.cfg.SortMask())
	if err := list.Reload(); err != nil {
		return nil, err
	}
	return list, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
