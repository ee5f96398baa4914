package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/resc/log"
	"github.com/ardnew/resc/resource"
)

// Loader builds the resolved tree the inspector evaluates against. It is
// called once at start and again by the reload command.
type Loader func(context.Context) (*resource.Tree, error)

// reloadMsg carries the outcome of a reload.
type reloadMsg struct {
	tree *resource.Tree
	err  error
}

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this cruft
  list [NS]     List the members of a namespace (default: root)
  paths [TEXT]  List qualified declaration paths, fuzzy-filtered by TEXT
  reload        Rediscover and recompile the sources
  clear         Clear screen
  quit          Exit

Usage:
  Type an expression to evaluate it (namespaces are variables)
  Templates are functions: auth.greet("Ada")
  lookup("auth/errors/title") reads any declaration by path
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = suggestionStyle.Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// model is the Bubble Tea model of the inspector.
type model struct {
	ctxFunc      func() context.Context
	load         Loader
	sess         *session
	history      *history
	logger       log.Logger
	input        textinput.Model
	matches      fuzzy.Matches // current fuzzy match results
	parent       string        // member-access chain of the current word
	evalText     string
	ctrlText     string
	preTabText   string // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int
	evalCursor   int
	ctrlCursor   int
	width        int
	mode         inputMode
	tabActive    bool
	quitting     bool
}

// Run loads the resources and starts the inspector. History is kept in
// cacheDir.
func Run(ctx context.Context, load Loader, cacheDir string, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if load == nil {
		return ErrNoLoader
	}

	t, err := load(ctx)
	if err != nil {
		return err
	}

	logger.TraceContext(ctx, "inspect tree loaded",
		slog.String("cache_dir", cacheDir),
		slog.Int("declarations", t.Len()),
	)

	hist := newHistory(filepath.Join(cacheDir, baseHistory))
	if err := hist.load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.String("error", err.Error()))
	}

	p := tea.NewProgram(newModel(ctx, load, t, hist, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, load Loader, t *resource.Tree, hist *history, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		load:       load,
		sess:       newSession(t),
		history:    hist,
		logger:     logger,
		input:      ti,
		historyIdx: hist.len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case reloadMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("reload failed: " + msg.err.Error()))
		}

		m.sess = newSession(msg.tree)
		refreshMatches(&m)

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("reloaded %d declarations", msg.tree.Len())))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch c, inCall := detectCall(input, m.input.Position()); {
	case m.historyIdx < m.history.len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.len())))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			b.WriteString(hintStyle.Render("Type an expression or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"))
		}

	case m.mode == modeEval && inCall && !m.tabActive:
		if params, ok := m.sess.params(c.name); ok {
			b.WriteString(renderSignature(c.name, params, c.arg))

			break
		}

		b.WriteString(m.candidateBar())

	default:
		b.WriteString(m.candidateBar())
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) candidateBar() string {
	selected := -1
	if m.tabActive {
		selected = m.suggIdx
	}

	return renderCandidateBar(m.matches, selected, m.width, func(name string) bool {
		return m.mode == modeEval && m.sess.isFunc(m.parent, name)
	})
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.len()
		refreshMatches(&m)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			refreshMatches(&m)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1), nil

	case tea.KeyDown:
		return m.historyStep(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

// cycle moves the selected candidate by step and writes it into the input.
// A single candidate is completed immediately.
func (m model) cycle(step int) model {
	switch n := len(m.matches); {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves
// the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the completions for the current input.
func refreshMatches(m *model) {
	m.matches, m.parent, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	result, err := m.sess.eval(input)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "inspect eval failed",
			slog.String("input", input),
			slog.String("error", err.Error()),
		)

		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	m.logger.TraceContext(m.ctxFunc(), "inspect eval",
		slog.String("input", input),
		slog.String("type", fmt.Sprintf("%T", result)),
	)

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(formatResult(result))))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd, arg := parts[0], strings.Join(parts[1:], " ")

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "inspect command",
		slog.String("command", cmd),
		slog.String("arg", arg),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		out, err := m.sess.list(arg)
		if err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(out))

	case "p", "paths":
		return m, tea.Sequence(echo, tea.Println(m.listPaths(arg)))

	case "r", "reload":
		ctx, load := m.ctxFunc(), m.load

		return m, tea.Sequence(echo, func() tea.Msg {
			t, err := load(ctx)

			return reloadMsg{tree: t, err: err}
		})

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(errorStyle.Render("Unknown command: " + cmd + " (try 'help')"))
	}
}

// listPaths renders the declaration paths matching filter, best first.
func (m model) listPaths(filter string) string {
	paths := m.sess.paths()

	if filter != "" {
		matches := fuzzy.Find(filter, paths)

		paths = paths[:0]
		for _, match := range matches {
			paths = append(paths, match.Str)
		}
	}

	if len(paths) == 0 {
		return hintStyle.Render("  (no matches)")
	}

	return "  " + strings.Join(paths, "\n  ")
}

// historyStep moves through history, switching to the mode each entry was
// entered in. Stepping past the newest entry clears the input.
func (m model) historyStep(step int) model {
	idx := m.historyIdx + step
	if idx < 0 {
		return m
	}

	e, err := m.history.at(idx)
	if err != nil {
		m.historyIdx = m.history.len()
		m.input.SetValue("")
		refreshMatches(&m)

		return m
	}

	m.historyIdx = idx

	if e.Mode != m.mode {
		m = m.switchToMode(e.Mode)
	}

	m.input.SetValue(e.Line)
	m.input.SetCursor(len(e.Line))
	refreshMatches(&m)

	return m
}

// switchToMode switches input modes, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m)

	return m
}
