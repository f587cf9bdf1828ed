package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/glprofiles/internal/config"
	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
	"github.com/johanforsgren/glprofiles/internal/provider"
	"github.com/johanforsgren/glprofiles/internal/settings"
	"github.com/johanforsgren/glprofiles/internal/storage"
	"github.com/johanforsgren/glprofiles/internal/ui"
	"github.com/johanforsgren/glprofiles/internal/verifier"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the resolved configuration and the wired session for one
// invocation.
type app struct {
	configPath string
	stateFile  string
	logFile    string
	provider   string
	timeout    time.Duration
	verbose    bool

	cfg      *config.Config
	session  *settings.Session
	verifier *verifier.Verifier
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "glprofiles",
		Short: "Manage and validate GitLab server profiles",
		Long: `glprofiles keeps the active GitLab server settings and a list of stored
server profiles. Edits are checked against the server before they are applied.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ~/.glprofiles/glprofiles.yaml)")
	flags.StringVar(&a.stateFile, "state-file", "", "State file (default ~/.glprofiles/state.json)")
	flags.StringVar(&a.logFile, "log-file", "", "Log file (default ~/.glprofiles/glprofiles.log)")
	flags.StringVar(&a.provider, "provider", "", "API flavor: gitlab or github")
	flags.DurationVar(&a.timeout, "timeout", 0, "Credential check timeout (default 500ms)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log to stderr instead of the log file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Open the interactive settings screen",
			Args:  cobra.NoArgs,
			RunE:  a.runTUI,
		},
		a.newValidateCmd(),
		a.newApplyCmd(),
		a.newProfilesCmd(),
		a.newHelpURLCmd(),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("state-file") {
		cfg.StateFile = a.stateFile
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = domain.ProviderType(a.provider)
	}
	if cmd.Flags().Changed("timeout") {
		cfg.ValidationTimeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.verbose {
		logger.InitWriter(os.Stderr, "debug")
	} else {
		logPath := cfg.LogFile
		if logPath == "" {
			logPath = config.DefaultLogPath()
		}
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err == nil {
			if err := logger.Init(logPath, cfg.LogLevel); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}

	httpClient := provider.NewHTTPClient(nil, cfg.RequestTimeout)
	p, err := provider.New(cfg.Provider, httpClient)
	if err != nil {
		return err
	}
	a.verifier = verifier.New(p)

	repo, err := storage.NewLocalRepository(cfg.StateFile)
	if err != nil {
		return err
	}

	session, err := settings.Open(repo, a.verifier, cfg.ValidationTimeout)
	if err != nil {
		return err
	}
	a.session = session

	logger.Log("glprofiles started (provider=%s, state=%s)", cfg.Provider, repo.Path())
	return nil
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	program := tea.NewProgram(ui.NewModel(ctx, a.session, a.cfg.Provider), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("error running program: %w", err)
	}
	return logger.Close()
}
