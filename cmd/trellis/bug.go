package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/groblegark/trellis/internal/client"
	"github.com/spf13/cobra"
)

var bugCmd = &cobra.Command{
	Use:     "bug <command>",
	Short:   "Manage bug reports",
	GroupID: "bugs",
}

var bugReportCmd = &cobra.Command{
	Use:   "report <title>",
	Short: "File a bug report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		steps, _ := cmd.Flags().GetString("steps")
		expected, _ := cmd.Flags().GetString("expected")
		actual, _ := cmd.Flags().GetString("actual")
		severity, _ := cmd.Flags().GetString("severity")
		browser, _ := cmd.Flags().GetString("browser")
		opSys, _ := cmd.Flags().GetString("os")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		projectID, _ := cmd.Flags().GetString("project")
		pageURL, _ := cmd.Flags().GetString("page-url")

		report, err := workspace.CreateBugReport(context.Background(), &client.CreateBugReportRequest{
			Title:            args[0],
			Description:      description,
			StepsToReproduce: steps,
			ExpectedBehavior: expected,
			ActualBehavior:   actual,
			Severity:         severity,
			Browser:          browser,
			OperatingSystem:  opSys,
			Tags:             tags,
			ProjectID:        projectID,
			PageURL:          pageURL,
		})
		if err != nil {
			return fmt.Errorf("filing bug report: %w", err)
		}

		if jsonOutput {
			printJSON(report)
		} else {
			printBugTable(report)
		}
		return nil
	},
}

var bugListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bug reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		severity, _ := cmd.Flags().GetString("severity")
		projectID, _ := cmd.Flags().GetString("project")

		reports, err := workspace.ListBugReports(context.Background(), &client.ListBugReportsRequest{
			Status:    status,
			Severity:  severity,
			ProjectID: projectID,
		})
		if err != nil {
			return fmt.Errorf("listing bug reports: %w", err)
		}

		if jsonOutput {
			printJSON(reports)
		} else {
			printBugListTable(reports)
		}
		return nil
	},
}

var bugShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a bug report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := workspace.GetBugReport(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(report)
		} else {
			printBugTable(report)
		}
		return nil
	},
}

var bugAssignCmd = &cobra.Command{
	Use:   "assign <id> <user-id>",
	Short: "Assign a bug report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := workspace.AssignBugReport(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("assigning bug report: %w", err)
		}

		if jsonOutput {
			printJSON(report)
		} else {
			printBugTable(report)
		}
		return nil
	},
}

var bugResolveCmd = &cobra.Command{
	Use:   "resolve <id> [resolution]",
	Short: "Resolve a bug report",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolution := ""
		if len(args) == 2 {
			resolution = args[1]
		}

		report, err := workspace.ResolveBugReport(context.Background(), args[0], resolution)
		if err != nil {
			return fmt.Errorf("resolving bug report: %w", err)
		}

		if jsonOutput {
			printJSON(report)
		} else {
			printBugTable(report)
		}
		return nil
	},
}

var bugScreenshotCmd = &cobra.Command{
	Use:   "screenshot <id> <file>",
	Short: "Attach a screenshot to a bug report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		contentType := ""
		switch strings.ToLower(filepath.Ext(args[1])) {
		case ".png":
			contentType = "image/png"
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".gif":
			contentType = "image/gif"
		case ".webp":
			contentType = "image/webp"
		default:
			contentType = http.DetectContentType(data)
		}

		url, err := workspace.UploadScreenshot(context.Background(), args[0], data, contentType)
		if err != nil {
			return fmt.Errorf("uploading screenshot: %w", err)
		}
		fmt.Println(url)
		return nil
	},
}

var bugStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bug report counts by status and severity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := workspace.GetBugReportStats(context.Background())
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}

		if jsonOutput {
			printJSON(stats)
			return nil
		}
		fmt.Printf("Total: %d\n", stats.Total)
		printCountMap("By status", stats.ByStatus)
		printCountMap("By severity", stats.BySeverity)
		return nil
	},
}

func init() {
	bugReportCmd.Flags().StringP("description", "d", "", "what went wrong")
	bugReportCmd.Flags().String("steps", "", "steps to reproduce")
	bugReportCmd.Flags().String("expected", "", "expected behavior")
	bugReportCmd.Flags().String("actual", "", "actual behavior")
	bugReportCmd.Flags().StringP("severity", "s", "medium", "severity (low, medium, high, critical)")
	bugReportCmd.Flags().String("browser", "", "browser name and version")
	bugReportCmd.Flags().String("os", "", "operating system")
	bugReportCmd.Flags().StringSliceP("tag", "t", nil, "tags (repeatable)")
	bugReportCmd.Flags().StringP("project", "p", "", "related project id")
	bugReportCmd.Flags().String("page-url", "", "page where the bug occurred")

	bugListCmd.Flags().String("status", "", "filter by status")
	bugListCmd.Flags().StringP("severity", "s", "", "filter by severity")
	bugListCmd.Flags().StringP("project", "p", "", "filter by project id")

	bugCmd.AddCommand(bugReportCmd)
	bugCmd.AddCommand(bugListCmd)
	bugCmd.AddCommand(bugShowCmd)
	bugCmd.AddCommand(bugAssignCmd)
	bugCmd.AddCommand(bugResolveCmd)
	bugCmd.AddCommand(bugScreenshotCmd)
	bugCmd.AddCommand(bugStatsCmd)
}
