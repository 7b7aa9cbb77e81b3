package repl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/envlet/eval"
	"github.com/ardnew/envlet/lang"
	"github.com/ardnew/envlet/log"
	"github.com/ardnew/envlet/option"
)

const (
	stmtPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  vars     List environment variables and how they changed
  options  List options and their values
  clear    Clear screen
  quit     Exit REPL

Statements:
  let $NAME = expr        Set an environment variable
  let $NAME .= expr       Append to an environment variable
  let &[g:|l:]name = expr Set an option (also +=, -=)
  unlet $NAME...          Unset environment variables
  echo expr...            Print the value of expressions

Usage:
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between statement and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeStmt inputMode = iota
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
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func formatStatement(input string) string {
	return promptStyle.Render(stmtPrompt) + inputStyle.Render(input)
}

func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Session is the statement engine a REPL operates on.
type Session struct {
	Engine  *lang.Engine
	Options *option.Store
	Eval    *eval.Evaluator
}

// result is one line of output of an executed statement.
type result struct {
	text string
	err  bool
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	sess         Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current match results
	candidates   []string      // backing candidate list
	parent       string        // member path the current word belongs to
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	stmtText     string
	stmtCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL on sess. History is kept in cacheDir, or in memory
// if cacheDir is empty.
func Run(
	ctx context.Context,
	sess Session,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if sess.Engine == nil {
		return ErrNoEngine
	}

	logger.TraceContext(ctx, "repl start", slog.String("cache_dir", cacheDir))

	var path string

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o700); err != nil {
			logger.WarnContext(ctx, "history not persisted", slog.Any("error", err))
		} else {
			path = filepath.Join(cacheDir, baseHistory)
		}
	}

	history := NewHistory(path, historyLimit(sess.Options))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()))

	m := newModel(ctx, sess, history, logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

// historyLimit returns the value of the global history option, the number
// of entries to retain.
func historyLimit(opts *option.Store) int {
	if opts == nil {
		return 0
	}

	o, ok := opts.Find("history", option.Global)
	if !ok {
		return 0
	}

	n, _ := o.Value().(int)

	return n
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	sess Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(stmtPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		sess:       sess,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeStmt,
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
		m.input.Width = msg.Width - len(stmtPrompt) - 2

		return m, nil
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
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a let, unlet, or echo statement or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width,
			func(s string) bool { return isFunction(m.lookup, joinPath(m.parent, s)) }))

	case call.inCall && m.mode == modeStmt:
		if sig, params := signatureOf(m.lookup, call.name); sig != "" {
			b.WriteString(renderSignatureHint(sig, params, call.argIndex))
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) lookup(path string) (any, bool) {
	if m.sess.Eval == nil {
		return nil, false
	}

	return m.sess.Eval.Builtin(path)
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "." + name
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeStmt {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeStmt), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows) edits without completing.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle selects the next (dir > 0) or previous candidate and substitutes
// it for the current word. A sole candidate is accepted immediately.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	next := input[:m.wordStart] + replacement + input[m.wordEnd:]
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(next)
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes matches for the current input state. With
// autoConfirm set, a sole candidate equal to the typed word is accepted.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.parent, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.stmtText, m.stmtCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	refreshMatches(&m, false)

	if _, err := m.history.WriteWithMode(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "history not saved", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	cmds := []tea.Cmd{tea.Println(formatStatement(input))}

	for _, r := range m.run(input) {
		if r.err {
			cmds = append(cmds, tea.Println(errorStyle.Render("error: "+r.text)))
		} else {
			cmds = append(cmds, tea.Println(resultStyle.Render(r.text)))
		}
	}

	return m, tea.Sequence(cmds...)
}

// run executes a statement line and returns its output, or a line for each
// failure it reports.
func (m model) run(line string) []result {
	out, err := m.sess.Engine.Execute(m.ctxFunc(), line)
	if err != nil {
		var diags lang.Lines

		lang.Report(&diags, err)

		m.logger.TraceContext(m.ctxFunc(), "repl statement failed",
			slog.String("input", line), slog.Any("error", err))

		results := make([]result, len(diags))
		for i, d := range diags {
			results[i] = result{text: d, err: true}
		}

		return results
	}

	m.logger.TraceContext(m.ctxFunc(), "repl statement", slog.String("input", line))

	if out == "" {
		return nil
	}

	return []result{{text: out}}
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", parts[0]))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVars()))

	case "o", "options":
		return m, tea.Sequence(echo, tea.Println(m.listOptions()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

// varLines returns a line for each variable of vars, marked "+" if created,
// "~" if modified, and "-" if unset since the REPL started.
func varLines(vars *lang.Registry) []string {
	var lines []string

	for rec := range vars.All() {
		mark := " "

		switch {
		case rec.Removed:
			lines = append(lines, "- "+rec.Name)

			continue
		case !rec.Inherited:
			mark = "+"
		case rec.Value != rec.Initial:
			mark = "~"
		}

		lines = append(lines, mark+" "+rec.Name+"="+rec.Value)
	}

	return lines
}

func (m model) listVars() string {
	var b strings.Builder

	for _, line := range varLines(m.sess.Engine.Registry()) {
		b.WriteString("  " + hintStyle.Render(line[:1]) + line[1:] + "\n")
	}

	return b.String()
}

// optionLines returns a line for each option of opts with its scope and
// value.
func optionLines(opts *option.Store) []string {
	if opts == nil {
		return nil
	}

	var lines []string

	for o := range opts.All() {
		name := o.Name
		if o.Abbr != "" {
			name += " (" + o.Abbr + ")"
		}

		lines = append(lines, fmt.Sprintf("%s %s=%s", o.Scope.String()[:1], name, o.String()))
	}

	return lines
}

func (m model) listOptions() string {
	var b strings.Builder

	for _, line := range optionLines(m.sess.Options) {
		scope, rest, _ := strings.Cut(line, " ")
		b.WriteString("  " + hintStyle.Render(scope) + " " + rest + "\n")
	}

	return b.String()
}

// historyStep moves through history by dir entries, restricted to entries
// of the current mode if inMode is set. Otherwise the mode follows the
// entry. Stepping past the newest entry clears the input.
func (m model) historyStep(dir int, inMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.GetEntry(i)
		if err != nil {
			break
		}

		if inMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to the specified mode, preserving the input of
// each mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeStmt {
		m.stmtText, m.stmtCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	if mode == modeStmt {
		m.input.Prompt = promptStyle.Render(stmtPrompt)
		m.input.SetValue(m.stmtText)
		m.input.SetCursor(m.stmtCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
