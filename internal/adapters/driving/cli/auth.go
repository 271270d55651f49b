package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/orca-labs/orca-cli/internal/adapters/driven/config/file"
	"github.com/orca-labs/orca-cli/internal/connectors/openreview"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage OpenReview credentials",
	Long: `Store OpenReview credentials for authenticated crawling.

Anonymous access works for public venues; credentials raise rate limits
and unlock venues restricted to logged-in users.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to OpenReview and store the token",
	Long: `Prompts for your OpenReview username and password, exchanges them
for an API token, and stores the token in the config file. The password
itself is never stored.`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	RunE:  runAuthLogout,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	cmd.Print("OpenReview username (email): ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading username: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}

	cmd.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	client := openreview.NewClient(openreview.Config{
		BaseURL:  configStore.GetString(configfile.KeyBaseURL),
		Username: username,
		Password: string(password),
	})
	if err := client.Login(cmd.Context()); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := configStore.Set(configfile.KeyUsername, username); err != nil {
		return fmt.Errorf("saving username: %w", err)
	}
	if err := configStore.Set(configfile.KeyToken, client.Token()); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	cmd.Printf("Logged in as %s. Token stored in %s\n", username, configStore.Path())
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if err := configStore.Set(configfile.KeyToken, ""); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	cmd.Println("Token removed.")
	return nil
}
