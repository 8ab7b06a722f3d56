package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tagwise/internal/models"
)

var labelKind string

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage the label vocabulary",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var labelAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a label to the active vocabulary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if labelKind != models.LabelKindTopic && labelKind != models.LabelKindContentType {
			return fmt.Errorf("kind must be %q or %q", models.LabelKindTopic, models.LabelKindContentType)
		}

		label := &models.Label{
			Name:      args[0],
			Kind:      labelKind,
			Active:    true,
			CreatedAt: time.Now(),
		}
		if err := appInstance.LabelStore.CreateLabel(cmd.Context(), label); err != nil {
			return fmt.Errorf("failed to create label: %w", err)
		}
		fmt.Printf("Label %q (%s) is active.\n", label.Name, label.Kind)
		return nil
	},
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active label vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		topics, err := appInstance.LabelStore.GetActiveTopicLabels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list topic labels: %w", err)
		}
		types, err := appInstance.LabelStore.GetActiveContentTypeLabels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list content type labels: %w", err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Kind", "Label"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, name := range topics {
			table.Append([]string{models.LabelKindTopic, name})
		}
		for _, name := range types {
			table.Append([]string{models.LabelKindContentType, name})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelListCmd)

	labelAddCmd.Flags().StringVarP(&labelKind, "kind", "k", models.LabelKindContentType, "Label kind (topic or content_type)")
}
