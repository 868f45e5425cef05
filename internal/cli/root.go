// Package cli implements the swctl operator console.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"swcommons/internal/config"
	"swcommons/internal/logging"
	"swcommons/internal/logging/adapters"
	"swcommons/internal/schema"
	"swcommons/internal/ui"
	"swcommons/internal/views"
	"swcommons/pkg/client"
	"swcommons/pkg/utils"
)

// app is the state shared by every command of one invocation
type app struct {
	configPath string
	serverURL  string
	statePath  string
	verbose    bool

	cfg      *config.Config
	client   *client.Client
	admin    *views.AdminFlag
	registry *schema.Registry
	display  *ui.Display
	logger   logging.Logger
}

// NewRootCmd builds the swctl command tree
func NewRootCmd() *cobra.Command {
	a := &app{registry: schema.Default()}

	root := &cobra.Command{
		Use:   "swctl",
		Short: "Operator console for the social work commons",
		Long: `swctl browses and edits the community content collections of a running
server: jobs, events, the regulator directory, research and the rest.

Mutations (create, edit, delete) need admin mode, a local toggle that only
hides or shows the controls. It is not an access control.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default $CONFIG_PATH or configs/config.yaml)")
	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "Server base URL (overrides console.base_url)")
	root.PersistentFlags().StringVar(&a.statePath, "state", "", "Path to the admin state file (overrides console.state_file)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(
		newListCmd(a),
		newWatchCmd(a),
		newShowCmd(a),
		newCreateCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newAdminCmd(a),
		newExportCmd(a),
		newShareCmd(a),
		newSchemaCmd(a),
	)
	return root
}

// Execute runs swctl and prints failures for the operator
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprint(root.ErrOrStderr(), failure(ui.NewDisplay(), err))
	}
	return err
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.PathFromEnv()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Console.BaseURL = utils.GetStringOrDefault(a.serverURL, cfg.Console.BaseURL)
	cfg.Console.StateFile = utils.GetStringOrDefault(a.statePath, cfg.Console.StateFile)
	a.cfg = cfg

	a.display = ui.NewDisplay()
	a.logger = consoleLogger(cmd, a.verbose, a.display.TTY)
	a.client = client.NewFromConfig(cfg)

	statePath, err := resolveStatePath(cfg.Console.StateFile)
	if err != nil {
		return err
	}
	a.admin, err = views.LoadAdminFlag(statePath)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	return nil
}

// consoleLogger sends warnings, or everything with --verbose, to stderr as text
func consoleLogger(cmd *cobra.Command, verbose, tty bool) logging.Logger {
	logger := logging.NewMultiLogger()
	logger.SetLevel(logging.WarnLevel)
	if verbose {
		logger.SetLevel(logging.DebugLevel)
	}
	_ = logger.AddAdapter(adapters.NewWriterAdapter("console", cmd.ErrOrStderr(), adapters.StdoutConfig{
		Format:    "text",
		Colorized: tty,
	}))
	logging.SetGlobalLogger(logger)
	return logger
}

// resolveStatePath uses the configured file or <user config dir>/swctl/state.toml
func resolveStatePath(configured string) (string, error) {
	if p := strings.TrimSpace(configured); p != "" {
		return filepath.Clean(p), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("no state file configured and no user config directory: %w", err)
	}
	return filepath.Join(dir, "swctl", "state.toml"), nil
}

func (a *app) entity(name string) (*schema.EntityDefinition, error) {
	def, err := a.registry.Resolve(name)
	if err != nil {
		return nil, usagef("%v", err)
	}
	return def, nil
}
