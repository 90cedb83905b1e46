package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/groblegark/trellis/internal/client"
	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:     "content <command>",
	Short:   "Manage site content",
	GroupID: "content",
}

var contentCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a content entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentType, _ := cmd.Flags().GetString("type")
		body, _ := cmd.Flags().GetString("content")
		description, _ := cmd.Flags().GetString("description")
		language, _ := cmd.Flags().GetString("language")
		version, _ := cmd.Flags().GetString("version")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		notes, _ := cmd.Flags().GetString("notes")

		if !json.Valid([]byte(body)) {
			return fmt.Errorf("--content must be a valid JSON document")
		}

		content, err := workspace.CreateContent(context.Background(), &client.CreateContentRequest{
			Title:       args[0],
			Description: description,
			Type:        contentType,
			Body:        json.RawMessage(body),
			Language:    language,
			Version:     version,
			Tags:        tags,
			Notes:       notes,
		})
		if err != nil {
			return fmt.Errorf("creating content: %w", err)
		}

		if jsonOutput {
			printJSON(content)
		} else {
			printContentTable(content)
		}
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List content entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ListContentRequest{}
		req.Type, _ = cmd.Flags().GetString("type")
		req.Status, _ = cmd.Flags().GetString("status")
		req.Language, _ = cmd.Flags().GetString("language")
		if cmd.Flags().Changed("active") {
			v, _ := cmd.Flags().GetBool("active")
			req.IsActive = &v
		}

		contents, err := workspace.ListContent(context.Background(), req)
		if err != nil {
			return fmt.Errorf("listing content: %w", err)
		}

		if jsonOutput {
			printJSON(contents)
		} else {
			printContentListTable(contents)
		}
		return nil
	},
}

var contentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a content entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := workspace.GetContent(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(content)
		} else {
			printContentTable(content)
		}
		return nil
	},
}

var contentPublishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Publish a content entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := workspace.PublishContent(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("publishing content: %w", err)
		}

		if jsonOutput {
			printJSON(content)
		} else {
			printContentTable(content)
		}
		return nil
	},
}

var contentArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a content entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := workspace.ArchiveContent(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("archiving content: %w", err)
		}

		if jsonOutput {
			printJSON(content)
		} else {
			printContentTable(content)
		}
		return nil
	},
}

var contentDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Duplicate a content entry as an inactive draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := workspace.DuplicateContent(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("duplicating content: %w", err)
		}

		if jsonOutput {
			printJSON(content)
		} else {
			printContentTable(content)
		}
		return nil
	},
}

var contentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a content entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := workspace.DeleteContent(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting content: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var contentPublicCmd = &cobra.Command{
	Use:   "public <type>",
	Short: "Fetch the public payload for a content type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		language, _ := cmd.Flags().GetString("language")

		raw, err := workspace.GetPublicContent(context.Background(), args[0], language)
		if err != nil {
			return fmt.Errorf("fetching public content: %w", err)
		}

		var pretty any
		if err := json.Unmarshal(raw, &pretty); err != nil {
			fmt.Println(string(raw))
			return nil
		}
		printJSON(pretty)
		return nil
	},
}

var contentStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show content counts by type and status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := workspace.GetContentStats(context.Background())
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}

		if jsonOutput {
			printJSON(stats)
			return nil
		}
		fmt.Printf("Total: %d\n", stats.Total)
		printCountMap("By type", stats.ByType)
		printCountMap("By status", stats.ByStatus)
		return nil
	},
}

func init() {
	contentCreateCmd.Flags().StringP("type", "t", "", "content type (pricing, hero, rules, ...)")
	contentCreateCmd.Flags().StringP("content", "c", "", "content body as a JSON document")
	contentCreateCmd.Flags().StringP("description", "d", "", "entry description")
	contentCreateCmd.Flags().StringP("language", "l", "en", "language code")
	contentCreateCmd.Flags().String("version", "", "version label")
	contentCreateCmd.Flags().StringSlice("tag", nil, "tags (repeatable)")
	contentCreateCmd.Flags().String("notes", "", "internal notes")

	contentListCmd.Flags().StringP("type", "t", "", "filter by type")
	contentListCmd.Flags().String("status", "", "filter by status")
	contentListCmd.Flags().StringP("language", "l", "", "filter by language")
	contentListCmd.Flags().Bool("active", false, "filter by active flag")

	contentPublicCmd.Flags().StringP("language", "l", "", "language code (default en)")

	contentCmd.AddCommand(contentCreateCmd)
	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentShowCmd)
	contentCmd.AddCommand(contentPublishCmd)
	contentCmd.AddCommand(contentArchiveCmd)
	contentCmd.AddCommand(contentDuplicateCmd)
	contentCmd.AddCommand(contentDeleteCmd)
	contentCmd.AddCommand(contentPublicCmd)
	contentCmd.AddCommand(contentStatsCmd)
}
