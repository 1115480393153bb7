package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"murmur/config"
	"murmur/dictation"
	"murmur/log"
)

type stateMsg struct {
	state  dictation.State
	detail string
}
type resultMsg struct{ text string }
type errorMsg struct {
	kind dictation.ErrorKind
	text string
}
type diagMsg struct {
	kind dictation.ErrorKind
	text string
}
type tickMsg time.Time

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
	tuiDone    = make(chan struct{})
)

// tuiSend forwards an event to the TUI when one is running, or prints a
// plain line in headless mode.
func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
		return
	}
	switch m := msg.(type) {
	case resultMsg:
		fmt.Printf("> %s\n", m.text)
	case errorMsg:
		fmt.Printf("error (%s): %s\n", m.kind, m.text)
	case diagMsg:
		fmt.Printf("warning (%s): %s\n", m.kind, m.text)
	}
}

// startTUI launches the bubbletea program on its own goroutine; tuiDone
// closes when the user quits it.
func startTUI(cfg config.Config, deviceName string) {
	mode := cfg.ModelProfile
	if cfg.Endpoint != "" {
		mode += " @ " + cfg.Endpoint
	}
	if cfg.Language != "" {
		mode += " (" + cfg.Language + ")"
	}
	if cfg.Enhancement.Enabled {
		mode += " +enhance"
	}
	m := tuiModel{
		state:      dictation.StateIdle,
		modeLine:   "[" + mode + "]",
		deviceLine: "mic: " + deviceName,
		helpLine:   fmt.Sprintf("hold %s / toggle %s to dictate, q to quit", cfg.Shortcuts.Hold, cfg.Shortcuts.Toggle),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()

	go func() {
		if _, err := p.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
		}
		tuiMu.Lock()
		tuiProgram = nil
		tuiMu.Unlock()
		close(tuiDone)
	}()
}

var (
	styleRec    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleProc   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	styleIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleText   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleErr    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleResult = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type tuiModel struct {
	state         dictation.State
	detail        string
	recordStart   time.Time
	frame         int
	width, height int

	modeLine   string
	deviceLine string
	helpLine   string

	lastText  string
	lastError string
	lastDiag  string
	count     int
}

func tuiTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case stateMsg:
		prev := m.state
		m.state = msg.state
		m.detail = msg.detail
		if msg.state == dictation.StateRecording && prev != dictation.StateRecording {
			m.recordStart = time.Now()
			m.lastError = ""
			m.lastDiag = ""
		}

	case resultMsg:
		m.count++
		m.lastText = msg.text
		m.lastError = ""

	case errorMsg:
		m.lastError = fmt.Sprintf("%s: %s", msg.kind, msg.text)

	case diagMsg:
		m.lastDiag = fmt.Sprintf("%s: %s", msg.kind, msg.text)
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString("\n")

	switch m.state {
	case dictation.StateRecording:
		b.WriteString("  " + styleRec.Render(fmt.Sprintf("● REC %.1fs", time.Since(m.recordStart).Seconds())))
	case dictation.StateProcessing:
		detail := m.detail
		if detail == "" {
			detail = "processing"
		}
		b.WriteString("  " + styleProc.Render("◌ "+strings.ToUpper(detail)+dots(m.frame)))
	default:
		b.WriteString("  " + styleIdle.Render("○ STANDBY"))
		if m.detail != "" {
			b.WriteString(" " + styleDim.Render("("+m.detail+")"))
		}
	}
	b.WriteString("\n\n")

	if m.modeLine != "" {
		b.WriteString("  " + styleInfo.Render(m.modeLine) + "\n")
	}
	if m.deviceLine != "" {
		b.WriteString("  " + styleIdle.Render(m.deviceLine) + "\n")
	}
	b.WriteString("\n")

	wrapWidth := m.width - 4
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	if m.lastError != "" {
		for _, line := range wrapText(m.lastError, wrapWidth) {
			b.WriteString("  " + styleErr.Render(line) + "\n")
		}
		b.WriteString("\n")
	} else if m.lastText != "" {
		b.WriteString("  " + styleDim.Render(fmt.Sprintf("Last dictation (#%d)", m.count)) + "\n")
		for _, line := range wrapText(m.lastText, wrapWidth) {
			b.WriteString("  " + styleText.Render(line) + "\n")
		}
		b.WriteString("  " + styleResult.Render("[✓ inserted]") + "\n")
		if m.lastDiag != "" {
			b.WriteString("  " + styleErr.Render("fallback: "+m.lastDiag) + "\n")
		}
		b.WriteString("\n")
	} else {
		b.WriteString("  " + styleIdle.Render("No dictations yet") + "\n\n")
	}

	if m.helpLine != "" {
		b.WriteString("  " + styleDim.Render(m.helpLine) + "\n")
	}
	b.WriteString("  " + styleDim.Render("murmur "+version) + "\n")
	return b.String()
}

func dots(frame int) string {
	return strings.Repeat(".", frame%4)
}

func wrapText(text string, width int) []string {
	var lines []string
	words := strings.Fields(text)
	var cur string
	for _, w := range words {
		if cur == "" {
			cur = w
		} else if len(cur)+1+len(w) <= width {
			cur += " " + w
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func stopTUI() {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Quit()
	}
}
