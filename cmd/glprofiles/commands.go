package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/johanforsgren/glprofiles/internal/domain"
	"github.com/johanforsgren/glprofiles/internal/logger"
	"github.com/johanforsgren/glprofiles/internal/settings"
	"github.com/johanforsgren/glprofiles/internal/validation"
	"github.com/spf13/cobra"
)

var errNotValidated = errors.New("host and token are both required")

type draftFlags struct {
	host         string
	token        string
	removeBranch bool
}

func (f *draftFlags) register(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVar(&f.host, "host", "", "Server URL, e.g. https://gitlab.example.com")
	cmd.Flags().StringVar(&f.token, "token", "", "Personal access token")
	cmd.Flags().BoolVar(&f.removeBranch, "default-remove-branch", true, "Remove source branch on merge by default")
	if required {
		_ = cmd.MarkFlagRequired("host")
		_ = cmd.MarkFlagRequired("token")
	}
}

// apply overlays the flags the user set onto base.
func (f *draftFlags) apply(cmd *cobra.Command, base domain.Settings) domain.Settings {
	if cmd.Flags().Changed("host") {
		base.Host = f.host
	}
	if cmd.Flags().Changed("token") {
		base.Token = f.token
	}
	if cmd.Flags().Changed("default-remove-branch") {
		base.DefaultRemoveBranch = f.removeBranch
	}
	return base
}

func verdictError(res settings.Result) error {
	switch {
	case res.Verdict == domain.VerdictNone:
		return errNotValidated
	case res.Verdict.IsError():
		return fmt.Errorf("%s: %s", res.Verdict, res.Verdict.Message())
	}
	return nil
}

func (a *app) newValidateCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a server URL and token without saving them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := settings.NewTracker(domain.DefaultSettings(), a.verifier, nil)
			tracker.SetDraft(flags.apply(cmd, domain.DefaultSettings()))

			res := tracker.Validate(cmd.Context(), a.cfg.ValidationTimeout)
			if res.Verdict != domain.VerdictNone {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Verdict, res.Verdict.Message())
			}
			return verdictError(res)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (a *app) newApplyCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Validate and store the active server settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := a.session.Tracker()
			tracker.SetDraft(flags.apply(cmd, tracker.Committed()))

			res := a.session.Validate(cmd.Context())
			if err := verdictError(res); err != nil && !errors.Is(err, errNotValidated) {
				return err
			}

			committed, err := a.session.Apply()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active server set to %s\n", committed.Host)
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (a *app) newHelpURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help-url <host>",
		Short: "Print where to create a personal access token for host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validation.IsValidURL(args[0]) {
				return fmt.Errorf("%s: %s", domain.VerdictInvalidURL, domain.VerdictInvalidURL.Message())
			}
			fmt.Fprintln(cmd.OutOrStdout(), validation.HelpURL(args[0]))
			return nil
		},
	}
}

func (a *app) newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List and edit stored server profiles",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored profiles with masked tokens",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.renderProfiles())
				return nil
			},
		},
		a.newProfilesAddCmd(),
		a.newProfilesEditCmd(),
		&cobra.Command{
			Use:   "delete <row>",
			Short: "Delete the profile at row (as shown by list)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := parseRow(args[0])
				if err != nil {
					return err
				}
				profile, ok, err := a.session.DeleteSelected(index)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no profile at row %s", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", profile.Host)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) newProfilesAddCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Validate and store a new profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Tracker().SetDraft(flags.apply(cmd, domain.DefaultSettings()))
			if err := verdictError(a.session.Validate(cmd.Context())); err != nil {
				return err
			}

			profile, err := a.session.AddProfile()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", profile.Host)
			return nil
		},
	}
	flags.register(cmd, true)
	return cmd
}

// Editing replaces the stored profile: the edited copy is validated, then
// the old row is dropped and the new one appended in a single save.
func (a *app) newProfilesEditCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit <row>",
		Short: "Change the profile at row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseRow(args[0])
			if err != nil {
				return err
			}
			if _, ok := a.session.EditSelected(index); !ok {
				return fmt.Errorf("no profile at row %s", args[0])
			}

			tracker := a.session.Tracker()
			tracker.SetDraft(flags.apply(cmd, tracker.Draft()))
			if err := verdictError(a.session.Validate(cmd.Context())); err != nil {
				return err
			}

			profile, err := a.session.ReplaceSelected(index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", profile.Host)
			return nil
		},
	}
	flags.register(cmd, false)
	return cmd
}

// parseRow turns a 1-based row from the list output into an index.
func parseRow(s string) (int, error) {
	row, err := strconv.Atoi(s)
	if err != nil || row < 1 {
		return 0, fmt.Errorf("invalid row %q: want a number from profiles list", s)
	}
	return row - 1, nil
}

func (a *app) renderProfiles() string {
	profiles := a.session.Profiles()
	if len(profiles) == 0 {
		return "No stored profiles."
	}

	active := a.session.Tracker().Committed()
	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		marker := ""
		if p.SameIdentity(active.ToProfile()) {
			marker = "*"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			marker,
			p.Host,
			logger.MaskToken(p.Token),
			strconv.FormatBool(p.DefaultRemoveBranch),
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "", "SERVER", "TOKEN", "REMOVE BRANCH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}
