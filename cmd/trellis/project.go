package main

import (
	"context"
	"fmt"

	"github.com/groblegark/trellis/internal/client"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project <command>",
	Short:   "Manage projects",
	GroupID: "workspace",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		icon, _ := cmd.Flags().GetString("icon")
		colorHex, _ := cmd.Flags().GetString("color")
		public, _ := cmd.Flags().GetBool("public")

		project, err := workspace.CreateProject(context.Background(), &client.CreateProjectRequest{
			Name:        args[0],
			Description: description,
			Icon:        icon,
			Color:       colorHex,
			IsPublic:    public,
		})
		if err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		if jsonOutput {
			printJSON(project)
		} else {
			printProjectTable(project)
		}
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := workspace.ListProjects(context.Background())
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}

		if jsonOutput {
			printJSON(projects)
		} else {
			printProjectListTable(projects)
		}
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := workspace.GetProject(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(project)
		} else {
			printProjectTable(project)
		}
		return nil
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateProjectRequest{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			req.Name = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("icon") {
			v, _ := cmd.Flags().GetString("icon")
			req.Icon = &v
		}
		if cmd.Flags().Changed("color") {
			v, _ := cmd.Flags().GetString("color")
			req.Color = &v
		}
		if cmd.Flags().Changed("public") {
			v, _ := cmd.Flags().GetBool("public")
			req.IsPublic = &v
		}

		project, err := workspace.UpdateProject(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("updating project: %w", err)
		}

		if jsonOutput {
			printJSON(project)
		} else {
			printProjectTable(project)
		}
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project and its schema and records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := workspace.DeleteProject(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting project: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringP("description", "d", "", "project description")
	projectCreateCmd.Flags().String("icon", "", "project icon")
	projectCreateCmd.Flags().String("color", "", "project color")
	projectCreateCmd.Flags().Bool("public", false, "make the project public")

	projectUpdateCmd.Flags().String("name", "", "new name")
	projectUpdateCmd.Flags().StringP("description", "d", "", "new description")
	projectUpdateCmd.Flags().String("icon", "", "new icon")
	projectUpdateCmd.Flags().String("color", "", "new color")
	projectUpdateCmd.Flags().Bool("public", false, "project visibility")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}
