package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"url-triage-poc/model"
	"url-triage-poc/vetting"
)

var (
	allowFlag string
	blockFlag string
)

// requireAdmin mirrors the HTTP admin guard for CLI admin commands.
func requireAdmin(cmd *cobra.Command, _ []string) error {
	state, err := st.State(cmd.Context())
	if err != nil {
		return err
	}
	if state.Role != model.RoleAdmin || !state.IsLoggedIn {
		return fmt.Errorf("admin session required, run: url-triage login admin")
	}
	return nil
}

var importCmd = &cobra.Command{
	Use:     "import <file.csv>",
	Short:   "Import a threat dataset CSV (" + strings.Join(vetting.DatasetColumns, ",") + ")",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireAdmin,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()

		n, err := vetting.ImportDataset(cmd.Context(), st, newEnricher(), filepath.Base(args[0]), f, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully uploaded %d records.\n", n)
		return nil
	},
}

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage the allowlist and blocklist",
}

var listsSetCmd = &cobra.Command{
	Use:     "set",
	Short:   "Replace the lists with comma-separated entries",
	PreRunE: requireAdmin,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := st.State(cmd.Context())
		if err != nil {
			return err
		}
		allow, block := state.Allowlist, state.Blocklist
		if cmd.Flags().Changed("allow") {
			allow = vetting.ParseList(allowFlag)
		}
		if cmd.Flags().Changed("block") {
			block = vetting.ParseList(blockFlag)
		}
		if err := st.UpdateLists(cmd.Context(), allow, block); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "allowlist: %d entries, blocklist: %d entries\n", len(allow), len(block))
		return nil
	},
}

var listsShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the lists",
	PreRunE: requireAdmin,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := st.State(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "allowlist: %s\n", strings.Join(state.Allowlist, ", "))
		fmt.Fprintf(out, "blocklist: %s\n", strings.Join(state.Blocklist, ", "))
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:       "login <admin|user>",
	Short:     "Start a session",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"admin", "user"},
	RunE: func(cmd *cobra.Command, args []string) error {
		role := model.UserRole(strings.ToUpper(args[0]))
		if role != model.RoleAdmin && role != model.RoleUser {
			return fmt.Errorf("role must be admin or user, got %q", args[0])
		}
		if err := st.SetSession(cmd.Context(), role, true); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.SetSession(cmd.Context(), model.RoleGuest, false); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show dataset statistics",
	PreRunE: requireAdmin,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := st.State(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), vetting.Stats(state))
	},
}

var resetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Clear all stored state",
	PreRunE: requireAdmin,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "state cleared")
		return nil
	},
}

func init() {
	listsSetCmd.Flags().StringVar(&allowFlag, "allow", "", "comma-separated allowlist")
	listsSetCmd.Flags().StringVar(&blockFlag, "block", "", "comma-separated blocklist")
	listsCmd.AddCommand(listsSetCmd, listsShowCmd)
}
