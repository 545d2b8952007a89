package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontastic/pkg/design"
)

// designCommand creates the design management command.
func (c *CLI) designCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Show or edit the saved design",
		Long: `Show or edit the saved design.

The design is kept between commands in the session store. Use --session to
work on more than one design.`,
	}

	cmd.AddCommand(c.designShowCommand())
	cmd.AddCommand(c.designSetCommand())
	cmd.AddCommand(c.designResetCommand())
	cmd.AddCommand(c.designApplyCommand())

	return cmd
}

// designShowCommand creates the "design show" subcommand.
func (c *CLI) designShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved design",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			printDesign(sess.Design)
			return nil
		},
	}
}

// designFlags are the overrides shared by "design set" and "export".
type designFlags struct {
	text    string
	size    int
	spacing float64
}

func (f *designFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "logo text")
	cmd.Flags().IntVar(&f.size, "size", design.DefaultFontSize, "font size in px (12-200)")
	cmd.Flags().Float64Var(&f.spacing, "spacing", design.DefaultSpacing, "letter spacing in px (-10 to 50)")
}

// apply copies the flags the user set onto d, through the slider setters.
func (f *designFlags) apply(cmd *cobra.Command, d *design.Design) bool {
	changed := false
	if cmd.Flags().Changed("text") {
		d.SetText(f.text)
		changed = true
	}
	if cmd.Flags().Changed("size") {
		d.SetFontSize(f.size)
		changed = true
	}
	if cmd.Flags().Changed("spacing") {
		d.SetSpacing(f.spacing)
		changed = true
	}
	return changed
}

// designSetCommand creates the "design set" subcommand.
func (c *CLI) designSetCommand() *cobra.Command {
	var flags designFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change text, font size or spacing",
		Example: `  fontastic design set --text "Acme Labs"
  fontastic design set --size 96 --spacing 2.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if !flags.apply(cmd, &sess.Design) {
				printWarning("Nothing to change")
				printNextStep("Set a value", "fontastic design set --text <text>")
				return nil
			}
			if err := c.saveSession(ctx, store, sess); err != nil {
				return err
			}
			printSuccess("Design updated")
			printDesign(sess.Design)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// designResetCommand creates the "design reset" subcommand.
func (c *CLI) designResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default design",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sess.Design = design.New()
			if err := c.saveSession(ctx, store, sess); err != nil {
				return err
			}
			printSuccess("Design reset")
			printDesign(sess.Design)
			return nil
		},
	}
}

// designApplyCommand creates the "design apply" subcommand.
func (c *CLI) designApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply the suggested spacing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, sess, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if !sess.Design.ApplySuggestion() {
				printWarning("No suggestion to apply")
				printNextStep("Get one first", "fontastic suggest")
				return nil
			}
			if err := c.saveSession(ctx, store, sess); err != nil {
				return err
			}
			printSuccess("Spacing set to %s", design.FormatSpacing(sess.Design.Spacing))
			return nil
		},
	}
}
