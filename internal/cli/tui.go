package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/folio-reports/folio/pkg/pipeline"
)

var (
	batchPendingStyle = lipgloss.NewStyle().Foreground(colorDim)
	batchActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	batchDoneStyle    = lipgloss.NewStyle().Foreground(colorWhite)
)

// batchResult is the outcome of rendering one definition in a batch.
type batchResult struct {
	input   string
	layouts int
	cached  bool
	err     error
}

// batchResultMsg delivers a finished render back to the model.
type batchResultMsg batchResult

// batchModel is the bubbletea model for the batch render progress display.
// Inputs render sequentially; each completion advances the cursor until the
// list is exhausted.
type batchModel struct {
	inputs  []string
	results []batchResult
	current int
	run     func(input string) batchResult
}

func newBatchModel(inputs []string, run func(input string) batchResult) batchModel {
	return batchModel{inputs: inputs, run: run}
}

func (m batchModel) Init() tea.Cmd {
	return m.renderNext()
}

// renderNext produces the command that renders the current input.
func (m batchModel) renderNext() tea.Cmd {
	input := m.inputs[m.current]
	run := m.run
	return func() tea.Msg {
		return batchResultMsg(run(input))
	}
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case batchResultMsg:
		m.results = append(m.results, batchResult(msg))
		m.current++
		if m.current >= len(m.inputs) {
			return m, tea.Quit
		}
		return m, m.renderNext()
	}
	return m, nil
}

func (m batchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Rendering definitions"))
	b.WriteString("\n\n")

	for i, input := range m.inputs {
		switch {
		case i < len(m.results):
			res := m.results[i]
			if res.err != nil {
				b.WriteString(styleIconError.Render(iconError) + " " + batchDoneStyle.Render(input))
			} else {
				status := iconFresh
				if res.cached {
					status = iconCached
				}
				b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + batchDoneStyle.Render(input) +
					StyleDim.Render(fmt.Sprintf("  %d layouts · %s", res.layouts, status)))
			}
		case i == m.current:
			b.WriteString(styleIconSpinner.Render(iconInfo) + " " + batchActiveStyle.Render(input))
		default:
			b.WriteString("  " + batchPendingStyle.Render(input))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", len(m.results), len(m.inputs))))
	b.WriteString("\n")

	return b.String()
}

// renderBatch runs the batch progress UI and returns per-input results.
// A quit before completion (ctrl+c) returns the results gathered so far.
func renderBatch(ctx context.Context, runner *pipeline.Runner, inputs []string, opts *renderOpts) ([]batchResult, error) {
	model := newBatchModel(inputs, func(input string) batchResult {
		return renderOne(ctx, runner, input, opts)
	})

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	return final.(batchModel).results, nil
}
