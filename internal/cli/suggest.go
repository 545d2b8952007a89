package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fontastic/pkg/design"
	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/pipeline"
)

// suggestCommand creates the suggest command.
func (c *CLI) suggestCommand() *cobra.Command {
	var (
		text, font string
		spacing    float64
		apply      bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the AI service for a layout suggestion",
		Long: `Ask the AI service for a layout suggestion for the saved design.

The suggestion replaces the previous one; a failed request clears it. Use
--apply to set the spacing right away.`,
		Example: `  fontastic suggest
  fontastic suggest --text "Acme" --apply`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.SuggestOptions{Refresh: refresh}
			if cmd.Flags().Changed("text") {
				opts.Text = &text
			}
			if cmd.Flags().Changed("font") {
				opts.Font = &font
			}
			if cmd.Flags().Changed("spacing") {
				opts.Spacing = &spacing
			}

			req := pipeline.Request(sess.Design, opts)
			if strings.TrimSpace(req.Text) == "" {
				printError("Input Required")
				printDetail("Please enter some text to get AI suggestions.")
				return ErrReported
			}

			spinner := newSpinnerWithContext(ctx, "Generating creative ideas...")
			spinner.Start()
			sug, cached, err := runner.SuggestWithCacheInfo(ctx, req, opts)
			spinner.Stop()

			if errors.Is(err, errors.ErrCodeInvalidInput) {
				printError("%s", errors.UserMessage(err))
				return ErrReported
			}
			if err != nil {
				sess.Design.ClearSuggestion()
				if saveErr := c.saveSession(ctx, store, sess); saveErr != nil {
					c.Logger.Warn("could not save design", "error", saveErr)
				}
				printError("AI Suggestion Error")
				printDetail("%s", errors.UserMessage(err))
				return ErrReported
			}

			sess.Design.SetSuggestion(sug)
			if apply {
				sess.Design.ApplySuggestion()
			}
			if err := c.saveSession(ctx, store, sess); err != nil {
				return err
			}

			printSuccess("AI Suggestions Ready!")
			printSuggestion(sug, cached)
			fmt.Println()
			if apply {
				printInfo("Spacing set to %s", design.FormatSpacing(sess.Design.Spacing))
			} else {
				printNextStep("Apply it", "fontastic design apply")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "override the design text")
	cmd.Flags().StringVar(&font, "font", design.FontName, "override the font name sent to the model")
	cmd.Flags().Float64Var(&spacing, "spacing", 0, "override the current spacing")
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the suggested spacing")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "skip the suggestion cache")

	return cmd
}
