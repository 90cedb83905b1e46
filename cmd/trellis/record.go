package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:     "record <command>",
	Short:   "Manage project records",
	GroupID: "workspace",
}

var recordAddCmd = &cobra.Command{
	Use:   "add <project-id>",
	Short: "Add a record to a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataJSON, _ := cmd.Flags().GetString("data")
		pairs, _ := cmd.Flags().GetStringArray("value")

		data, err := parseRecordData(dataJSON, pairs)
		if err != nil {
			return err
		}

		record, result, err := workspace.CreateRecord(context.Background(), args[0], data)
		if err != nil {
			return fmt.Errorf("creating record: %w", err)
		}
		if result != nil {
			printValidationFailure(result.Errors)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(record)
		} else {
			printRecordTable(record)
		}
		return nil
	},
}

var recordListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List a project's records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := workspace.ListRecords(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}

		if jsonOutput {
			printJSON(records)
		} else {
			printRecordListTable(records)
		}
		return nil
	},
}

var recordShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := workspace.GetRecord(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(record)
		} else {
			printRecordTable(record)
		}
		return nil
	},
}

var recordUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a record's data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataJSON, _ := cmd.Flags().GetString("data")
		pairs, _ := cmd.Flags().GetStringArray("value")
		if dataJSON == "" && len(pairs) == 0 {
			return fmt.Errorf("provide --data or -v key=value")
		}

		data, err := parseRecordData(dataJSON, pairs)
		if err != nil {
			return err
		}

		record, err := workspace.UpdateRecord(context.Background(), args[0], data)
		if err != nil {
			return fmt.Errorf("updating record: %w", err)
		}

		if jsonOutput {
			printJSON(record)
		} else {
			printRecordTable(record)
		}
		return nil
	},
}

var recordDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := workspace.DeleteRecord(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting record: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var recordEventsCmd = &cobra.Command{
	Use:   "events <id>",
	Short: "Show a record's audit log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := workspace.GetRecordEvents(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching events: %w", err)
		}

		if jsonOutput {
			printJSON(events)
		} else {
			printEventListTable(events)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:     "validate <project-id>",
	Short:   "Check record data against a project schema without saving",
	GroupID: "workspace",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataJSON, _ := cmd.Flags().GetString("data")
		pairs, _ := cmd.Flags().GetStringArray("value")

		data, err := parseRecordData(dataJSON, pairs)
		if err != nil {
			return err
		}

		result, err := workspace.ValidateRecord(context.Background(), args[0], data)
		if err != nil {
			return fmt.Errorf("validating record: %w", err)
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}
		if result.Valid {
			color.Green("Valid")
			return nil
		}
		printValidationFailure(result.Errors)
		os.Exit(1)
		return nil
	},
}

func printValidationFailure(errs []string) {
	color.Red("Invalid:")
	for _, e := range errs {
		fmt.Printf("  - %s\n", e)
	}
}

func init() {
	for _, c := range []*cobra.Command{recordAddCmd, recordUpdateCmd, validateCmd} {
		c.Flags().String("data", "", "record data as a JSON object")
		c.Flags().StringArrayP("value", "v", nil, "field value (key=value, repeatable)")
	}

	recordCmd.AddCommand(recordAddCmd)
	recordCmd.AddCommand(recordListCmd)
	recordCmd.AddCommand(recordShowCmd)
	recordCmd.AddCommand(recordUpdateCmd)
	recordCmd.AddCommand(recordDeleteCmd)
	recordCmd.AddCommand(recordEventsCmd)
}
