package suggest

import (
	"strconv"
	"strings"
	"text/template"
)

const promptText = `You are an AI expert in typography and logo design.

You are given the following text, font and spacing:
Text: {{.Text}}
Font: {{.Font}}
Spacing: {{.Spacing}}

Based on these inputs, suggest an optimal spacing and some layout suggestions for the text.
Consider the legibility and visual appeal of the text when making your suggestions.

Output the suggested spacing as a number and the layout suggestions as a short paragraph.
`

var promptTmpl = template.Must(template.New("suggestLayout").Parse(promptText))

// Prompt renders the instruction prompt for r. Values are interpolated
// verbatim; spacing is printed in its shortest decimal form.
func Prompt(r LayoutRequest) (string, error) {
	var sb strings.Builder
	err := promptTmpl.Execute(&sb, struct {
		Text, Font, Spacing string
	}{
		Text:    r.Text,
		Font:    r.Font,
		Spacing: strconv.FormatFloat(r.Spacing, 'f', -1, 64),
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
