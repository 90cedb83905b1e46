package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/groblegark/trellis/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	userID     string
	jsonOutput bool

	workspace client.WorkspaceClient
)

func defaultUser() string {
	if s := os.Getenv("TRELLIS_USER"); s != "" {
		return s
	}
	out, err := exec.Command("git", "config", "user.email").Output()
	if err == nil {
		email := strings.TrimSpace(string(out))
		if email != "" {
			return email
		}
	}
	return ""
}

func defaultServerURL() string {
	if s := os.Getenv("TRELLIS_SERVER"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("TRELLIS_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "trellis <command>",
	Short: "CLI client for the trellis workspace service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace = client.NewHTTPClient(serverURL, authToken, userID)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if workspace != nil {
			workspace.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authenticated servers")
	rootCmd.PersistentFlags().StringVar(&userID, "user", defaultUser(), "user id sent as X-User-ID")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "workspace", Title: "Workspace:"},
		&cobra.Group{ID: "bugs", Title: "Bug reports:"},
		&cobra.Group{ID: "content", Title: "Content:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Workspace
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(fieldCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(validateCmd)

	// Bug reports
	rootCmd.AddCommand(bugCmd)

	// Content
	rootCmd.AddCommand(contentCmd)

	// System
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
