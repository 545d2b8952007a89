package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/export"
	"github.com/matzehuels/fontastic/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags   designFlags
		output  string
		dataURI bool
	)

	cmd := &cobra.Command{
		Use:   "export [svg|png]",
		Short: "Write the logo as SVG or 2x PNG",
		Long: `Write the saved design as an SVG document or a PNG at twice its size.

The file is named after the text, e.g. "My Logo" becomes My_Logo_logo.svg.
--text, --size and --spacing change this export only; the saved design is
left as it is.`,
		Example: `  fontastic export svg
  fontastic export png --output ./brand --text "Acme Labs"
  fontastic export svg --data-uri`,
		ValidArgs: []string{pipeline.FormatSVG, pipeline.FormatPNG},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format := args[0]

			store, sess, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			store.Close()

			d := sess.Design
			flags.apply(cmd, &d)

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			var spinner *Spinner
			if format == pipeline.FormatPNG {
				spinner = newSpinnerWithContext(ctx, "Rendering PNG...")
				spinner.Start()
			}
			dl, err := runner.Export(ctx, d, format)
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				printError("Export Error")
				printDetail("%s", errors.UserMessage(err))
				return ErrReported
			}
			prog.done("exported " + dl.FileName)

			var sink export.Sink = export.DirSink{Dir: output}
			if dataURI {
				sink = export.WriterSink{W: os.Stdout, DataURI: true}
			}
			path, err := sink.Save(dl)
			if err != nil {
				return fmt.Errorf("save %s: %w", dl.FileName, err)
			}
			if dataURI {
				return nil
			}

			printSuccess("%s Exported!", strings.ToUpper(format))
			printDetail("Your logo has been downloaded.")
			printFile(path)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&dataURI, "data-uri", false, "print a data URI instead of writing a file")

	return cmd
}
