package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tagwise/internal/models"
)

var postAddSource string

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage stored posts",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var postAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Store a post for later classification",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("post text cannot be empty")
		}

		post := &models.Post{
			ID:        uuid.NewString(),
			Source:    postAddSource,
			Text:      text,
			CreatedAt: time.Now(),
		}
		if err := appInstance.PostStore.CreatePost(cmd.Context(), post); err != nil {
			return fmt.Errorf("failed to store post: %w", err)
		}
		fmt.Printf("Stored post %s\n", color.CyanString(post.ID))
		return nil
	},
}

var postShowCmd = &cobra.Command{
	Use:   "show [post-id]",
	Short: "Show a post and its classification, if any",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		post, err := appInstance.PostStore.GetPost(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load post: %w", err)
		}
		fmt.Printf("ID:      %s\nSource:  %s\nRetries: %d\nText:    %s\n", post.ID, post.Source, post.RetryCount, post.Text)

		result, err := appInstance.ResultStore.GetResult(cmd.Context(), post.ID)
		if err != nil {
			fmt.Println("Classification: none")
			return nil
		}
		fmt.Printf("Classified at:  %s\n", result.ClassifiedAt.Format(time.RFC3339))
		fmt.Printf("Low value:      %v\n", result.IsLowValue)
		fmt.Printf("Content types:  %s\n", strings.Join(result.ContentTypes, ", "))
		fmt.Printf("Topic tags:     %s\n", strings.Join(result.TopicTags, ", "))
		return nil
	},
}

var (
	postListFilter string
	postListLimit  int
	postListFailed bool
)

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts still waiting for classification",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		maxRetries := appInstance.Config.Batch.MaxRetries

		var posts []*models.Post
		if postListFailed {
			posts, err = appInstance.PostStore.FetchFailedRetryable(cmd.Context(), postListFilter, maxRetries, postListLimit)
		} else {
			posts, err = appInstance.PostStore.FetchUnclassified(cmd.Context(), postListFilter, maxRetries, postListLimit, 0)
		}
		if err != nil {
			return fmt.Errorf("failed to list posts: %w", err)
		}
		if len(posts) == 0 {
			fmt.Println("No pending posts found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Source", "Retries", "Text"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, p := range posts {
			table.Append([]string{p.ID, p.Source, strconv.Itoa(p.RetryCount), truncateText(p.Text, 60)})
		}
		table.Render()
		return nil
	},
}

// postResetCmd clears a parked post's retry counter so the next batch
// picks it up again.
var postResetCmd = &cobra.Command{
	Use:   "reset [post-id]",
	Short: "Reset a post's retry counter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := appInstance.ResultStore.ResetRetry(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to reset retry counter: %w", err)
		}
		fmt.Printf("Retry counter reset for post %s.\n", args[0])
		return nil
	},
}

func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.AddCommand(postAddCmd)
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postResetCmd)

	postAddCmd.Flags().StringVarP(&postAddSource, "source", "s", "cli", "Source the post came from")
	postListCmd.Flags().StringVarP(&postListFilter, "filter", "f", "", "Only list posts from this source")
	postListCmd.Flags().IntVarP(&postListLimit, "limit", "n", 20, "Maximum number of posts to list")
	postListCmd.Flags().BoolVar(&postListFailed, "failed", false, "Only list posts that failed at least once")
}
