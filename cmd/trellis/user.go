package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user <command>",
	Short:   "Inspect workspace users",
	GroupID: "system",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := workspace.ListUsers(context.Background())
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		if jsonOutput {
			printJSON(users)
		} else {
			printUserListTable(users)
		}
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := workspace.GetUser(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(user)
			return nil
		}
		fmt.Printf("ID:      %s\n", user.ID)
		fmt.Printf("Email:   %s\n", user.Email)
		if user.Name != "" {
			fmt.Printf("Name:    %s\n", user.Name)
		}
		fmt.Printf("Plan:    %s\n", user.Plan)
		fmt.Printf("Created: %s\n", user.CreatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var userStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show a user's footprint across the workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := workspace.GetUserStats(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}

		if jsonOutput {
			printJSON(stats)
			return nil
		}
		fmt.Printf("Projects:    %d\n", stats.Projects)
		fmt.Printf("Records:     %d\n", stats.Records)
		fmt.Printf("Bug reports: %d\n", stats.BugReports)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userStatsCmd)
}
