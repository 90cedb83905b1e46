package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/ui"
)

func init() {
	if !ui.ShouldUseColor() {
		color.NoColor = true
		ui.ForceNoColor()
	}
}

// printJSON marshals v with indentation to stdout.
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

var (
	statusOpen       = color.New(color.FgYellow)
	statusInProgress = color.New(color.FgCyan)
	statusResolved   = color.New(color.FgGreen)
	statusClosed     = color.New(color.FgHiBlack)
	statusPublished  = color.New(color.FgGreen)
	statusDraft      = color.New(color.FgYellow)
	statusArchived   = color.New(color.FgHiBlack)
)

func renderBugStatus(s model.BugStatus) string {
	switch s {
	case model.BugOpen:
		return statusOpen.Sprint(s)
	case model.BugInProgress:
		return statusInProgress.Sprint(s)
	case model.BugResolved:
		return statusResolved.Sprint(s)
	case model.BugClosed, model.BugDuplicate:
		return statusClosed.Sprint(s)
	}
	return string(s)
}

func renderContentStatus(s model.ContentStatus) string {
	switch s {
	case model.ContentPublished:
		return statusPublished.Sprint(s)
	case model.ContentDraft:
		return statusDraft.Sprint(s)
	case model.ContentArchived:
		return statusArchived.Sprint(s)
	}
	return string(s)
}

func printProjectTable(p *model.Project) {
	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Name:        %s\n", p.Name)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	if p.Icon != "" {
		fmt.Printf("Icon:        %s\n", p.Icon)
	}
	fmt.Printf("Owner:       %s\n", p.OwnerID)
	fmt.Printf("Public:      %t\n", p.IsPublic)
	if !p.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !p.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printProjectListTable(projects []*model.Project) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPUBLIC\tUPDATED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n",
			p.ID, p.Name, p.IsPublic, p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	fmt.Printf("\n%d projects\n", len(projects))
}

func printFieldTable(f *model.FieldDefinition) {
	fmt.Printf("ID:          %s\n", f.ID)
	fmt.Printf("Project:     %s\n", f.ProjectID)
	fmt.Printf("Title:       %s\n", f.Title)
	fmt.Printf("Type:        %s\n", f.Type)
	if f.Description != "" {
		fmt.Printf("Description: %s\n", f.Description)
	}
	fmt.Printf("Required:    %t\n", f.IsRequired)
	fmt.Printf("Unique:      %t\n", f.IsUnique)
	fmt.Printf("Order:       %d\n", f.Order)
	if len(f.Data) > 0 {
		fmt.Printf("Data:        %s\n", string(f.Data))
	}
}

func printFieldListTable(fields []*model.FieldDefinition) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORDER\tTITLE\tTYPE\tREQUIRED\tUNIQUE")
	for _, f := range fields {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%t\t%t\n",
			f.ID, f.Order, f.Title, f.Type, f.IsRequired, f.IsUnique)
	}
	w.Flush()
	fmt.Printf("\n%d fields\n", len(fields))
}

func printRecordTable(r *model.Record) {
	fmt.Printf("ID:          %s\n", r.ID)
	fmt.Printf("Project:     %s\n", r.ProjectID)
	if r.CreatedBy != "" {
		fmt.Printf("Created By:  %s\n", r.CreatedBy)
	}
	if !r.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	data, err := json.MarshalIndent(r.Data, "", "  ")
	if err == nil {
		fmt.Printf("Data:        %s\n", string(data))
	}
}

func printRecordListTable(records []*model.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tDATA")
	for _, r := range records {
		data, _ := json.Marshal(r.Data)
		summary := string(data)
		if len(summary) > 60 {
			summary = summary[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), summary)
	}
	w.Flush()
	fmt.Printf("\n%d records\n", len(records))
}

func printBugTable(b *model.BugReport) {
	fmt.Printf("ID:          %s\n", b.ID)
	fmt.Printf("Title:       %s\n", b.Title)
	fmt.Printf("Status:      %s\n", renderBugStatus(b.Status))
	fmt.Printf("Severity:    %s\n", b.Severity)
	if b.Description != "" {
		fmt.Printf("Description: %s\n", b.Description)
	}
	if b.StepsToReproduce != "" {
		fmt.Printf("Steps:       %s\n", b.StepsToReproduce)
	}
	if b.ProjectID != "" {
		fmt.Printf("Project:     %s\n", b.ProjectID)
	}
	if b.PageURL != "" {
		fmt.Printf("Page:        %s\n", b.PageURL)
	}
	if b.ScreenshotURL != "" {
		fmt.Printf("Screenshot:  %s\n", b.ScreenshotURL)
	}
	if len(b.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(b.Tags, ", "))
	}
	if b.ReportedBy != "" {
		fmt.Printf("Reported By: %s\n", b.ReportedBy)
	}
	if b.AssignedTo != "" {
		fmt.Printf("Assigned To: %s\n", b.AssignedTo)
	}
	if b.Resolution != "" {
		fmt.Printf("Resolution:  %s\n", b.Resolution)
	}
	if b.ResolvedAt != nil {
		fmt.Printf("Resolved At: %s\n", b.ResolvedAt.Format("2006-01-02 15:04:05"))
	}
	if !b.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", b.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printBugListTable(reports []*model.BugReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSEVERITY\tTITLE\tASSIGNEE")
	for _, b := range reports {
		title := b.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			b.ID, renderBugStatus(b.Status), b.Severity, title, b.AssignedTo)
	}
	w.Flush()
	fmt.Printf("\n%d bug reports\n", len(reports))
}

func printContentTable(c *model.Content) {
	fmt.Printf("ID:          %s\n", c.ID)
	fmt.Printf("Title:       %s\n", c.Title)
	fmt.Printf("Type:        %s\n", c.Type)
	fmt.Printf("Status:      %s\n", renderContentStatus(c.Status))
	fmt.Printf("Language:    %s\n", c.Language)
	fmt.Printf("Active:      %t\n", c.IsActive)
	if c.Version != "" {
		fmt.Printf("Version:     %s\n", c.Version)
	}
	if len(c.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(c.Tags, ", "))
	}
	if c.PublishedAt != nil {
		fmt.Printf("Published:   %s by %s\n", c.PublishedAt.Format("2006-01-02 15:04:05"), c.PublishedBy)
	}
	if len(c.Body) > 0 {
		fmt.Printf("Content:     %s\n", string(c.Body))
	}
}

func printContentListTable(contents []*model.Content) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tLANG\tACTIVE\tTITLE")
	for _, c := range contents {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			c.ID, c.Type, renderContentStatus(c.Status), c.Language, c.IsActive, c.Title)
	}
	w.Flush()
	fmt.Printf("\n%d entries\n", len(contents))
}

func printEventListTable(events []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTOPIC\tACTOR")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Topic, e.Actor)
	}
	w.Flush()
}

func printUserListTable(users []*model.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tPLAN")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Plan)
	}
	w.Flush()
	fmt.Printf("\n%d users\n", len(users))
}

func printCountMap(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for k, v := range counts {
		fmt.Printf("  %-14s%d\n", k, v)
	}
}
