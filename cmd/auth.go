package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdbarr/auth"
)

// authCmd groups the keyring commands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the TheTVDB API key stored in the system keyring",
}

var authSetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store an API key in the keyring",
	Long:  `Store an API key in the keyring. Without an argument the key is read from stdin.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuthSet,
}

var authDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.DeleteAPIKey(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ API key removed from keyring")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key comes from",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authDeleteCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "TheTVDB API key: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		key = strings.TrimSpace(line)
	}

	if err := auth.SetAPIKey(key); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ API key stored in keyring")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch {
	case apiKeyFlag != "":
		fmt.Fprintln(out, "API key: provided by --api-key")
	case cfg.TVDB.APIKey != "":
		fmt.Fprintln(out, "API key: provided by config or TVDB_API_KEY")
	default:
		_, err := auth.GetAPIKey()
		switch {
		case err == nil:
			fmt.Fprintln(out, "API key: stored in system keyring")
		case errors.Is(err, auth.ErrNoAPIKey):
			fmt.Fprintln(out, "API key: not configured (search only)")
		default:
			return err
		}
	}
	return nil
}
