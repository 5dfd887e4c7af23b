package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// entry is one question/answer exchange in the transcript.
type entry struct {
	query   string
	answer  string
	sources []string
	err     error
}

// App is the chat TUI application. It implements tea.Model.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles

	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model

	entries []entry
	waiting bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  DefaultStyles(),
		input:   input,
		spinner: sp,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("sercha-rag - Chat"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 4
		// Header, input line, and footer take three rows.
		a.transcript = viewport.New(msg.Width, max(msg.Height-3, 1))
		a.transcript.SetContent(a.renderTranscript())
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			if a.waiting {
				return a, nil
			}
			query := strings.TrimSpace(a.input.Value())
			if query == "" {
				return a, nil
			}
			a.input.Reset()
			a.waiting = true
			return a, tea.Batch(a.spinner.Tick, a.ask(query))
		}

	case answerReceived:
		a.waiting = false
		e := entry{query: msg.query, err: msg.err}
		if msg.answer != nil {
			e.answer = msg.answer.Text
			e.sources = msg.answer.Sources
		}
		a.entries = append(a.entries, e)
		if a.ready {
			a.transcript.SetContent(a.renderTranscript())
			a.transcript.GotoBottom()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	if a.ready {
		a.transcript, cmd = a.transcript.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// ask runs the query pipeline off the UI goroutine.
func (a *App) ask(query string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Chat.Ask(a.ctx, query, domain.AskOptions{})
		return answerReceived{query: query, answer: answer, err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("sercha-rag chat"))
	b.WriteString("\n")
	b.WriteString(a.transcript.View())
	b.WriteString("\n")

	if a.waiting {
		b.WriteString(a.spinner.View() + " thinking...")
	} else {
		b.WriteString(a.input.View())
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter: ask • esc: quit"))

	return b.String()
}

// renderTranscript formats the question/answer history.
func (a *App) renderTranscript() string {
	if len(a.entries) == 0 {
		return a.styles.Help.Render("Ask a question about your ingested documents.")
	}

	var b strings.Builder
	for i := range a.entries {
		e := &a.entries[i]

		b.WriteString(a.styles.Question.Render("> " + e.query))
		b.WriteString("\n")

		if e.err != nil {
			b.WriteString(a.styles.Error.Render("error: " + e.err.Error()))
		} else {
			b.WriteString(a.styles.Answer.Render(e.answer))
			if len(e.sources) > 0 {
				b.WriteString("\n")
				b.WriteString(a.styles.Sources.Render("sources: " + strings.Join(e.sources, ", ")))
			}
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
