package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontastic/pkg/design"
	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/export"
	"github.com/matzehuels/fontastic/pkg/pipeline"
)

// studioCommand creates the interactive studio command.
func (c *CLI) studioCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Edit the design interactively",
		Long: `Open the interactive studio for the saved design.

Type to edit the text, use tab to move between the controls and the arrow
keys to move a slider. The design is saved when you quit.`,
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

			// Log lines would tear the alt screen.
			c.SetLogLevel(LogError)
			model := newStudioModel(ctx, runner, sess.Design, output)
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("studio: %w", err)
			}

			if m, ok := final.(studioModel); ok {
				sess.Design = m.design
			}
			if err := c.saveSession(ctx, store, sess); err != nil {
				return err
			}
			printSuccess("Design saved")
			printDesign(sess.Design)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "directory for exported files")

	return cmd
}

// =============================================================================
// Model
// =============================================================================

// studioField is the control that has keyboard focus.
type studioField int

const (
	fieldText studioField = iota
	fieldFontSize
	fieldSpacing
	fieldCount
)

// noticeKind picks the notification style.
type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// notice is an inline notification, shown until esc dismisses it or another
// notice replaces it.
type notice struct {
	kind   noticeKind
	title  string
	detail string
}

// suggestionMsg carries the result of a suggestion request.
type suggestionMsg struct {
	suggestion design.Suggestion
	cached     bool
	err        error
}

// exportMsg carries the result of an export.
type exportMsg struct {
	format string
	path   string
	err    error
}

// sliderWidth is the number of cells a slider track occupies.
const sliderWidth = 32

// studioModel is the bubbletea model for the studio.
type studioModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	sink   export.Sink
	design design.Design
	focus  studioField
	notice *notice

	// In-flight background commands, by kind.
	suggesting int
	exporting  int
	width      int
}

func newStudioModel(ctx context.Context, runner *pipeline.Runner, d design.Design, outDir string) studioModel {
	return studioModel{
		ctx:    ctx,
		runner: runner,
		sink:   export.DirSink{Dir: outDir},
		design: d,
	}
}

func (m studioModel) Init() tea.Cmd {
	return nil
}

func (m studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case suggestionMsg:
		m.suggesting--
		m.handleSuggestion(msg)
	case exportMsg:
		m.exporting--
		m.handleExport(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m studioModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m, tea.Quit
	case "esc":
		m.notice = nil
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % fieldCount
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, nil
	case "ctrl+g":
		return m.requestSuggestion()
	case "ctrl+a":
		m.applySuggestion()
		return m, nil
	case "ctrl+e":
		return m.export(pipeline.FormatSVG)
	case "ctrl+p":
		return m.export(pipeline.FormatPNG)
	}

	switch m.focus {
	case fieldText:
		m.editText(msg)
	case fieldFontSize:
		if steps := sliderSteps(msg); steps != 0 {
			m.design.NudgeFontSize(steps)
		}
	case fieldSpacing:
		if steps := sliderSteps(msg); steps != 0 {
			m.design.NudgeSpacing(steps)
		}
	}
	return m, nil
}

// editText applies a key press to the text field.
func (m *studioModel) editText(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		m.design.SetText(m.design.Text + string(msg.Runes))
	case tea.KeyBackspace:
		if r := []rune(m.design.Text); len(r) > 0 {
			m.design.SetText(string(r[:len(r)-1]))
		}
	case tea.KeyCtrlU:
		m.design.SetText("")
	}
}

// sliderSteps maps a key to a slider movement.
func sliderSteps(msg tea.KeyMsg) int {
	switch msg.String() {
	case "right", "l":
		return 1
	case "left", "h":
		return -1
	case "pgup", "shift+right":
		return 10
	case "pgdown", "shift+left":
		return -10
	}
	return 0
}

// requestSuggestion starts a suggestion request for the current design.
// A request still in flight is left to finish; its result lands when it
// arrives.
func (m studioModel) requestSuggestion() (tea.Model, tea.Cmd) {
	if m.design.IsBlank() {
		m.notice = &notice{noticeError, "Input Required", "Please enter some text to get AI suggestions."}
		return m, nil
	}

	m.suggesting++
	ctx, runner := m.ctx, m.runner
	req := pipeline.Request(m.design, pipeline.SuggestOptions{})
	return m, func() tea.Msg {
		s, cached, err := runner.SuggestWithCacheInfo(ctx, req, pipeline.SuggestOptions{})
		return suggestionMsg{suggestion: s, cached: cached, err: err}
	}
}

func (m *studioModel) handleSuggestion(msg suggestionMsg) {
	switch {
	case msg.err == nil:
		m.design.SetSuggestion(msg.suggestion)
		detail := "Check out the creative suggestions below."
		if msg.cached {
			detail = "Loaded from cache."
		}
		m.notice = &notice{noticeSuccess, "AI Suggestions Ready!", detail}
	case errors.Is(msg.err, errors.ErrCodeInvalidInput):
		m.notice = &notice{noticeError, "Invalid Input", errors.UserMessage(msg.err)}
	default:
		m.design.ClearSuggestion()
		m.notice = &notice{noticeError, "AI Suggestion Error", errors.UserMessage(msg.err)}
	}
}

func (m *studioModel) applySuggestion() {
	if err := m.runner.ApplySuggestion(&m.design); err != nil {
		m.notice = &notice{noticeInfo, "Nothing to Apply", errors.UserMessage(err)}
		return
	}
	m.notice = &notice{noticeSuccess, "Spacing Applied", "Letter spacing set to " + design.FormatSpacing(m.design.Spacing) + "."}
}

// export renders the current design in the background and hands the file
// to the sink.
func (m studioModel) export(format string) (tea.Model, tea.Cmd) {
	m.exporting++
	ctx, runner, sink, d := m.ctx, m.runner, m.sink, m.design
	return m, func() tea.Msg {
		dl, err := runner.Export(ctx, d, format)
		if err != nil {
			return exportMsg{format: format, err: err}
		}
		path, err := sink.Save(dl)
		return exportMsg{format: format, path: path, err: err}
	}
}

func (m *studioModel) handleExport(msg exportMsg) {
	if msg.err != nil {
		m.notice = &notice{noticeError, "Export Error", errors.UserMessage(msg.err)}
		return
	}
	m.notice = &notice{noticeSuccess, strings.ToUpper(msg.format) + " Exported!", "Your logo has been downloaded to " + msg.path + "."}
}

// =============================================================================
// View
// =============================================================================

var (
	studioLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	studioFocusStyle   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Width(14)
	studioPreviewStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(1, 4).
				Foreground(colorWhite).
				Bold(true)
	studioSuggestStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorCyan).
				PaddingLeft(1)
)

func (m studioModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Fontastic Studio"))
	if m.suggesting > 0 {
		b.WriteString("  " + styleIconSpinner.Render("Generating creative ideas..."))
	}
	if m.exporting > 0 {
		b.WriteString("  " + styleIconSpinner.Render("Exporting..."))
	}
	b.WriteString("\n\n")

	b.WriteString(studioPreviewStyle.Render(letterSpaced(m.design.PreviewText(), m.design.Spacing)))
	b.WriteString("\n\n")

	text := m.design.Text
	if m.focus == fieldText {
		text += "█"
	}
	b.WriteString(m.label(fieldText, "Text") + StyleValue.Render(text) + "\n")
	b.WriteString(m.label(fieldFontSize, "Font Size") +
		slider(float64(m.design.FontSize), design.MinFontSize, design.MaxFontSize) + " " +
		StyleValue.Render(design.FormatFontSize(m.design.FontSize)) + "\n")
	b.WriteString(m.label(fieldSpacing, "Spacing") +
		slider(m.design.Spacing, design.MinSpacing, design.MaxSpacing) + " " +
		StyleValue.Render(design.FormatSpacing(m.design.Spacing)) + "\n")

	if s := m.design.Suggestion; s != nil {
		body := StyleHighlight.Render("Suggested spacing "+design.FormatSpacing(s.SuggestedSpacing)) + "\n" + s.LayoutSuggestions
		if m.width > 8 {
			b.WriteString("\n" + studioSuggestStyle.Width(m.width-4).Render(body) + "\n")
		} else {
			b.WriteString("\n" + studioSuggestStyle.Render(body) + "\n")
		}
	}

	if n := m.notice; n != nil {
		b.WriteString("\n" + renderNotice(*n) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab focus  ←/→ adjust  ^g suggest  ^a apply  ^e svg  ^p png  esc dismiss  ^q quit"))
	return b.String()
}

func (m studioModel) label(f studioField, name string) string {
	if m.focus == f {
		return studioFocusStyle.Render("▸ " + name)
	}
	return studioLabelStyle.Render("  " + name)
}

func renderNotice(n notice) string {
	var icon, title string
	switch n.kind {
	case noticeSuccess:
		icon, title = styleIconSuccess.Render(iconSuccess), StyleSuccess.Render(n.title)
	case noticeError:
		icon, title = styleIconError.Render(iconError), StyleError.Render(n.title)
	default:
		icon, title = styleIconInfo.Render(iconInfo), StyleValue.Render(n.title)
	}
	line := icon + " " + title
	if n.detail != "" {
		line += "\n  " + StyleDim.Render(n.detail)
	}
	return line
}

// slider draws a track with the knob at v's position in [lo, hi].
func slider(v, lo, hi float64) string {
	pos := int(math.Round((v - lo) / (hi - lo) * float64(sliderWidth-1)))
	pos = min(max(pos, 0), sliderWidth-1)
	return StyleHighlight.Render(strings.Repeat("━", pos)) +
		StyleValue.Render("●") +
		StyleDim.Render(strings.Repeat("─", sliderWidth-1-pos))
}

// letterSpaced approximates letter spacing in a terminal: one blank cell
// per 10px of spacing, none for tight or negative spacing.
func letterSpaced(text string, spacing float64) string {
	gap := int(spacing / 10)
	if gap <= 0 {
		return text
	}
	return strings.Join(strings.Split(text, ""), strings.Repeat(" ", gap))
}
