package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/store"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var (
	profileSource sourceFlags
	profileForce  bool
	profileOutput string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named parameter profiles",
	Long:  "Saves, loads, lists and deletes named parameter profiles in the profile directory (store.dir).",
}

var profileSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save parameters as a named profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		values, err := profileSource.load(reg)
		if err != nil {
			return err
		}
		if err := saveProfile(newStore(reg), args[0], values, profileForce); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Profile saved as "+args[0]))
		return nil
	},
}

var profileLoadCmd = &cobra.Command{
	Use:   "load [NAME]",
	Short: "Write a profile to a parameter document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		s := newStore(reg)
		name, err := profileName(s, args, "Load profile")
		if err != nil {
			return err
		}
		values, err := s.Load(name)
		if err != nil {
			return err
		}
		output := profileOutput
		if output == "" {
			output = store.Sanitize(name) + ".json"
		}
		return saveValues(cmd, reg, values, output, "")
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := newStore(registry.Default()).List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(profiles) == 0 {
			fmt.Fprintln(out, ui.FormatStatus("info", "No saved profiles"))
			return nil
		}
		fmt.Fprintln(out, ui.Title.Render("Profiles"))
		for _, p := range profiles {
			fmt.Fprintf(out, "  %s %s %s\n", ui.GetBullet(), ui.Highlight.Render(p.Name),
				ui.Dim.Render(p.Family+" · "+p.Modified.Format("2006-01-02 15:04")))
		}
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [NAME]",
	Short: "Delete a saved profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newStore(registry.Default())
		name, err := profileName(s, args, "Delete profile")
		if err != nil {
			return err
		}
		if !profileForce {
			ok, err := confirm(fmt.Sprintf("Delete profile %q?", name), "This cannot be undone.")
			if err != nil {
				return err
			}
			if !ok {
				return apperr.ErrCancelled
			}
		}
		if err := s.Delete(name); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Deleted profile "+name))
		return nil
	},
}

// saveProfile saves values under name, asking before an existing profile
// is overwritten unless force is set.
func saveProfile(s *store.FileStore, name string, values registry.ValueSet, force bool) error {
	if !force {
		exists, err := s.Exists(name)
		if err != nil {
			return err
		}
		if exists {
			ok, err := confirm(fmt.Sprintf("Profile %q exists. Overwrite?", name), "The saved parameters will be replaced.")
			if err != nil {
				return err
			}
			if !ok {
				return apperr.ErrCancelled
			}
		}
	}
	return s.Save(name, values)
}

// profileName returns the name argument or lets the user pick one.
func profileName(s *store.FileStore, args []string, title string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	profiles, err := s.List()
	if err != nil {
		return "", err
	}
	items := make([]ui.SelectorItem, len(profiles))
	for i, p := range profiles {
		items[i] = ui.SelectorItem{ID: p.Name, Name: p.Name, Detail: p.Family}
	}
	return ui.RunSelector(title, items)
}

func confirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&ok).
				Affirmative("Yes").
				Negative("No"),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, apperr.ErrCancelled
		}
		return false, err
	}
	return ok, nil
}

func init() {
	profileSource.register(profileSaveCmd)
	profileSaveCmd.Flags().BoolVar(&profileForce, "force", false, "Overwrite an existing profile without asking")
	profileDeleteCmd.Flags().BoolVar(&profileForce, "force", false, "Delete without asking")
	profileLoadCmd.Flags().StringVarP(&profileOutput, "output", "o", "", "Parameter document to write (default NAME.json)")

	profileCmd.AddCommand(profileSaveCmd, profileLoadCmd, profileListCmd, profileDeleteCmd)
}
