package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/groblegark/trellis/internal/client"
	"github.com/spf13/cobra"
)

var fieldCmd = &cobra.Command{
	Use:     "field <command>",
	Short:   "Manage project schema fields",
	GroupID: "workspace",
}

var fieldAddCmd = &cobra.Command{
	Use:   "add <project-id> <title>",
	Short: "Add a field to a project schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fieldType, _ := cmd.Flags().GetString("type")
		description, _ := cmd.Flags().GetString("description")
		data, _ := cmd.Flags().GetString("data")
		required, _ := cmd.Flags().GetBool("required")
		unique, _ := cmd.Flags().GetBool("unique")
		order, _ := cmd.Flags().GetInt("order")

		req := &client.CreateFieldRequest{
			Title:       args[1],
			Description: description,
			Type:        fieldType,
			IsRequired:  required,
			IsUnique:    unique,
			Order:       order,
		}
		if data != "" {
			if !json.Valid([]byte(data)) {
				return fmt.Errorf("--data must be valid JSON")
			}
			req.Data = json.RawMessage(data)
		}

		field, err := workspace.CreateField(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("creating field: %w", err)
		}

		if jsonOutput {
			printJSON(field)
		} else {
			printFieldTable(field)
		}
		return nil
	},
}

var fieldListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List a project's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fieldType, _ := cmd.Flags().GetString("type")

		fields, err := workspace.ListFields(context.Background(), args[0], fieldType)
		if err != nil {
			return fmt.Errorf("listing fields: %w", err)
		}

		if jsonOutput {
			printJSON(fields)
		} else {
			printFieldListTable(fields)
		}
		return nil
	},
}

var fieldShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := workspace.GetField(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(field)
		} else {
			printFieldTable(field)
		}
		return nil
	},
}

var fieldUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateFieldRequest{}
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			req.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("type") {
			v, _ := cmd.Flags().GetString("type")
			req.Type = &v
		}
		if cmd.Flags().Changed("data") {
			v, _ := cmd.Flags().GetString("data")
			if !json.Valid([]byte(v)) {
				return fmt.Errorf("--data must be valid JSON")
			}
			req.Data = json.RawMessage(v)
		}
		if cmd.Flags().Changed("required") {
			v, _ := cmd.Flags().GetBool("required")
			req.IsRequired = &v
		}
		if cmd.Flags().Changed("unique") {
			v, _ := cmd.Flags().GetBool("unique")
			req.IsUnique = &v
		}
		if cmd.Flags().Changed("order") {
			v, _ := cmd.Flags().GetInt("order")
			req.Order = &v
		}

		field, err := workspace.UpdateField(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("updating field: %w", err)
		}

		if jsonOutput {
			printJSON(field)
		} else {
			printFieldTable(field)
		}
		return nil
	},
}

var fieldDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a field from its project schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := workspace.DeleteField(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting field: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:     "schema <project-id>",
	Short:   "Show a project's schema",
	GroupID: "workspace",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := workspace.GetSchema(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(schema)
		} else {
			fmt.Printf("Project: %s\n\n", schema.ProjectID)
			printFieldListTable(schema.Fields)
		}
		return nil
	},
}

func init() {
	fieldAddCmd.Flags().StringP("type", "t", "text", "field type")
	fieldAddCmd.Flags().StringP("description", "d", "", "field description")
	fieldAddCmd.Flags().String("data", "", "type-dependent JSON payload (e.g. select options)")
	fieldAddCmd.Flags().Bool("required", false, "mark the field required")
	fieldAddCmd.Flags().Bool("unique", false, "mark the field unique")
	fieldAddCmd.Flags().Int("order", 0, "display order")

	fieldListCmd.Flags().StringP("type", "t", "", "only fields of this type")

	fieldUpdateCmd.Flags().String("title", "", "new title")
	fieldUpdateCmd.Flags().StringP("description", "d", "", "new description")
	fieldUpdateCmd.Flags().StringP("type", "t", "", "new type")
	fieldUpdateCmd.Flags().String("data", "", "new JSON payload")
	fieldUpdateCmd.Flags().Bool("required", false, "required flag")
	fieldUpdateCmd.Flags().Bool("unique", false, "unique flag")
	fieldUpdateCmd.Flags().Int("order", 0, "display order")

	fieldCmd.AddCommand(fieldAddCmd)
	fieldCmd.AddCommand(fieldListCmd)
	fieldCmd.AddCommand(fieldShowCmd)
	fieldCmd.AddCommand(fieldUpdateCmd)
	fieldCmd.AddCommand(fieldDeleteCmd)
}
