package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tagwise/internal/models"
)

var (
	batchStartID    string
	batchStartChunk int
	batchFilter     string
	batchAsync      bool
	batchWait       bool

	batchListLimit  int
	batchListOffset int
)

// batchCmd is the parent for batch lifecycle subcommands.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Manage classification batches",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var batchStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start classifying unclassified posts",
	Long: `Starts a classification batch over the pending posts matching the
optional source filter. With --async the batch is enqueued on Redis and
picked up by a worker process; otherwise it runs in this process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		batchID := batchStartID
		if batchID == "" {
			batchID = uuid.NewString()
		}

		if batchAsync {
			if appInstance.JobClient == nil {
				return fmt.Errorf("--async requires a configured redis.address")
			}
			if err := appInstance.JobClient.EnqueueClassifyBatch(cmd.Context(), batchID, batchFilter, batchStartChunk); err != nil {
				return fmt.Errorf("failed to enqueue batch: %w", err)
			}
			fmt.Printf("Batch %s enqueued for background processing.\n", color.CyanString(batchID))
			return nil
		}

		err = appInstance.Orchestrator.Start(cmd.Context(), batchID, batchFilter, batchStartChunk, appInstance.Classifier)
		if err != nil {
			return fmt.Errorf("failed to start batch: %w", err)
		}
		fmt.Printf("Batch %s started.\n", color.CyanString(batchID))

		if batchWait {
			if err := appInstance.Orchestrator.WaitUntilDone(cmd.Context(), batchID); err != nil {
				return fmt.Errorf("waiting for batch: %w", err)
			}
			status, err := appInstance.Orchestrator.Status(cmd.Context(), batchID)
			if err != nil {
				return fmt.Errorf("failed to read final batch status: %w", err)
			}
			printBatchStatus(status.Status, status.ProcessedItems, status.FailedItems, status.TotalItems)
		}
		return nil
	},
}

var batchStopCmd = &cobra.Command{
	Use:   "stop [batch-id]",
	Short: "Request cancellation of a running batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := appInstance.Orchestrator.Stop(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to stop batch: %w", err)
		}
		fmt.Printf("Cancellation requested for batch %s. Check `tagwise batch status %s` for the result.\n", args[0], args[0])
		return nil
	},
}

var batchStatusCmd = &cobra.Command{
	Use:   "status [batch-id]",
	Short: "Show the current state of a batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		status, err := appInstance.Orchestrator.Status(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read batch status: %w", err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Field", "Value"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.Append([]string{"Batch ID", status.BatchID})
		table.Append([]string{"Status", colorizeStatus(status.Status)})
		table.Append([]string{"Active", strconv.FormatBool(status.IsActive)})
		table.Append([]string{"Filter", status.Filter})
		table.Append([]string{"Progress", fmt.Sprintf("%d/%d (failed %d)", status.ProcessedItems, status.TotalItems, status.FailedItems)})
		table.Append([]string{"Chunk", fmt.Sprintf("%d/%d (size %d)", status.CurrentChunk, status.TotalChunks, status.ChunkSize)})
		table.Append([]string{"Started", status.StartedAt.Format(time.RFC3339)})
		if status.CompletedAt != nil {
			table.Append([]string{"Completed", status.CompletedAt.Format(time.RFC3339)})
		}
		if status.ErrorMessage != nil {
			table.Append([]string{"Error", *status.ErrorMessage})
		}
		table.Render()
		return nil
	},
}

var batchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded classification batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		batches, err := appInstance.Orchestrator.ListBatches(cmd.Context(), batchListLimit, batchListOffset)
		if err != nil {
			return fmt.Errorf("failed to list batches: %w", err)
		}
		if len(batches) == 0 {
			fmt.Println("No batches found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Batch ID", "Status", "Filter", "Processed", "Failed", "Total", "Started At"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, b := range batches {
			table.Append([]string{
				b.BatchID,
				colorizeStatus(b.Status),
				b.Filter,
				strconv.Itoa(b.ProcessedItems),
				strconv.Itoa(b.FailedItems),
				strconv.Itoa(b.TotalItems),
				b.StartedAt.Format(time.RFC3339),
			})
		}
		table.Render()
		return nil
	},
}

func printBatchStatus(status string, processed, failed, total int) {
	fmt.Printf("Batch finished: %s (processed %d, failed %d, total %d)\n",
		colorizeStatus(status), processed, failed, total)
}

func colorizeStatus(status string) string {
	switch status {
	case models.BatchStatusCompleted:
		return color.GreenString(status)
	case models.BatchStatusFailed:
		return color.RedString(status)
	case models.BatchStatusCancelled:
		return color.YellowString(status)
	default:
		return status
	}
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.AddCommand(batchStartCmd)
	batchCmd.AddCommand(batchStopCmd)
	batchCmd.AddCommand(batchStatusCmd)
	batchCmd.AddCommand(batchListCmd)

	batchStartCmd.Flags().StringVar(&batchStartID, "id", "", "Batch identifier (random UUID when omitted)")
	batchStartCmd.Flags().StringVarP(&batchFilter, "filter", "f", "", "Only classify posts from this source")
	batchStartCmd.Flags().IntVarP(&batchStartChunk, "chunk-size", "c", 0, "Items fetched per chunk (0 uses the configured default)")
	batchStartCmd.Flags().BoolVar(&batchAsync, "async", false, "Enqueue the batch for a background worker instead of running it here")
	batchStartCmd.Flags().BoolVarP(&batchWait, "wait", "w", false, "Block until the batch reaches a terminal state")

	batchListCmd.Flags().IntVarP(&batchListLimit, "limit", "n", 20, "Maximum number of batches to list")
	batchListCmd.Flags().IntVarP(&batchListOffset, "offset", "o", 0, "Number of batches to skip")
}
