package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check server health",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := workspace.Health(context.Background())
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Println(status)
		return nil
	},
}
