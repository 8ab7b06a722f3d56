package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var classifyShowKeywords bool

// classifyCmd classifies a single text from the command line without
// touching storage. Useful for tuning the rule table.
var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify a single text and print the scored candidates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")

		candidates := appInstance.RuleClassifier.Candidates(text)
		if len(candidates) == 0 {
			fmt.Println(color.YellowString("No rule matched this text."))
		} else {
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Label", "Category", "Score", "Confidence", "Reason"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, cand := range candidates {
				table.Append([]string{
					cand.Label,
					cand.Category,
					strconv.FormatFloat(cand.Score, 'f', 2, 64),
					strconv.FormatFloat(cand.Confidence, 'f', 2, 64),
					cand.Reason,
				})
			}
			table.Render()
		}

		if classifyShowKeywords {
			keywords := appInstance.Extractor.ExtractKeywords(text, 10)
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Keyword", "POS", "Weight"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, kw := range keywords {
				table.Append([]string{kw.Word, string(kw.POS), strconv.FormatFloat(kw.Weight, 'f', 2, 64)})
			}
			table.Render()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().BoolVarP(&classifyShowKeywords, "keywords", "k", false, "Also print extracted keywords with weights")
}
