package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/transport"
)

const gap = "\n\n"

// streamTimeout bounds a single task from enqueue to its DONE payload.
const streamTimeout = 5 * time.Minute

func startSession(conf *config, cmd *openCmd) error {
	sessionID := cmd.Session
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	c := newClient(conf.Transport)
	defer c.Close()

	p := tea.NewProgram(initialModel(c, sessionID, cmd.File), tea.WithAltScreen())

	_, err := p.Run()
	return err
}

type (
	errMsg error
)

type streamMsg struct {
	Content string
	Paper   *api.CandidatePaper
	Warn    bool
	Err     string
	Done    bool
}

type model struct {
	client    *client
	sessionID string
	filePath  string

	history []*api.ChatMessage
	sub     chan streamMsg

	pendingChat bool
	lastQuery   string
	respLabel   string
	acc         string
	busy        bool

	viewport viewport.Model
	entries  []string
	textarea textarea.Model

	userStyle   lipgloss.Style
	modelStyle  lipgloss.Style
	systemStyle lipgloss.Style
	err         error
}

func initialModel(c *client, sessionID, filePath string) model {
	ta := textarea.New()
	ta.Placeholder = "Ask about the paper, or /cite, /related..."
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 280

	ta.SetWidth(30)
	ta.SetHeight(3)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false

	vp := viewport.New(30, 5)
	vp.SetContent(`Reading your document...
Type a question and press Enter, or use /cite and /related.`)

	ta.KeyMap.InsertNewline.SetEnabled(false)

	return model{
		client:      c,
		sessionID:   sessionID,
		filePath:    filePath,
		sub:         make(chan streamMsg),
		textarea:    ta,
		entries:     []string{},
		viewport:    vp,
		userStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		modelStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("31")),
		systemStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		err:         nil,
	}
}

// tailStream forwards payloads from a task's message stream into the
// model's sub channel until a terminal payload arrives.
func tailStream(sub chan streamMsg, ms transport.MessageStream) tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), streamTimeout)

	return func() tea.Msg {
		defer cancel()
		for {
			payload, err := ms.Recv(ctx)
			if err != nil {
				return streamMsg{Err: err.Error(), Done: true}
			}

			switch payload.Status {
			case transport.StatusDone:
				return streamMsg{Done: true}
			case transport.StatusErr:
				return streamMsg{Err: payload.Content, Done: true}
			case transport.StatusWarn:
				sub <- streamMsg{Content: payload.Content, Warn: true}
				continue
			}

			switch payload.Type {
			case transport.MessageTypeContent:
				sub <- streamMsg{Content: payload.Content}
			case transport.MessageTypePaper:
				sub <- streamMsg{Paper: payload.Paper}
			}
		}
	}
}

func waitForActivity(sub chan streamMsg) tea.Cmd {
	return func() tea.Msg {
		return streamMsg(<-sub)
	}
}

func (m model) startUpload() tea.Cmd {
	ms, err := m.client.Upload(m.sessionID, m.filePath)
	if err != nil {
		return func() tea.Msg { return errMsg(err) }
	}
	return tailStream(m.sub, ms)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForActivity(m.sub),
		m.startUpload(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.textarea.SetWidth(msg.Width)
		m.viewport.Height = msg.Height - m.textarea.Height() - lipgloss.Height(gap)

		if len(m.entries) > 0 {
			// Wrap content before setting it.
			m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(strings.Join(m.entries, "\n")))
		}
		m.viewport.GotoBottom()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" || m.busy {
				return m, tea.Batch(tiCmd, vpCmd)
			}
			return m.submit(input)
		}

	case streamMsg:
		return m.applyStreamMsg(msg)

	case errMsg:
		m.err = msg
		m.entries = append(m.entries, m.systemStyle.Render("Error: ")+msg.Error())
		m.refreshViewport()
		return m, nil
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m model) submit(input string) (tea.Model, tea.Cmd) {
	var (
		ms  transport.MessageStream
		err error
	)

	switch input {
	case "/cite":
		m.respLabel = "Citations: "
		m.pendingChat = false
		ms, err = m.client.Citation(m.sessionID)
	case "/related":
		m.respLabel = "Related papers:"
		m.pendingChat = false
		ms, err = m.client.Related(m.sessionID)
	default:
		m.respLabel = "Assistant: "
		m.pendingChat = true
		m.lastQuery = input
		ms, err = m.client.Chat(m.sessionID, input, m.history)
	}
	if err != nil {
		m.err = err
		m.entries = append(m.entries, m.systemStyle.Render("Error: ")+err.Error())
		m.refreshViewport()
		return m, nil
	}

	m.entries = append(m.entries, m.userStyle.Render("You: ")+input)
	m.entries = append(m.entries, m.modelStyle.Render(m.respLabel))

	m.refreshViewport()
	m.textarea.Reset()
	m.viewport.GotoBottom()
	m.textarea.Blur()
	m.busy = true
	return m, tailStream(m.sub, ms)
}

func (m model) applyStreamMsg(msg streamMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Paper != nil:
		m.entries = append(m.entries, formatPaper(msg.Paper))
	case msg.Warn:
		m.entries = append(m.entries, m.systemStyle.Render(msg.Content))
	case msg.Content != "":
		if len(m.entries) == 0 {
			// first chunk of the upload summary
			m.entries = append(m.entries, m.modelStyle.Render("Summary: "))
			m.respLabel = "Summary: "
		}
		m.acc += msg.Content
		m.entries[len(m.entries)-1] = m.modelStyle.Render(m.respLabel) + strings.TrimSpace(m.acc)
	}

	m.refreshViewport()
	m.viewport.GotoBottom()

	if msg.Done {
		m.busy = false
		m.textarea.Focus()
		if msg.Err != "" {
			m.entries = append(m.entries, m.systemStyle.Render("Error: ")+msg.Err)
			m.refreshViewport()
		}
		if m.pendingChat && msg.Err == "" {
			m.history = append(m.history,
				&api.ChatMessage{
					Role:    api.RoleUser,
					Content: m.lastQuery,
				},
				&api.ChatMessage{
					Role:    api.RoleAssistant,
					Content: strings.TrimSpace(m.acc),
				})
		}
		m.pendingChat = false
		m.acc = ""
	}
	return m, waitForActivity(m.sub)
}

func (m *model) refreshViewport() {
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(strings.Join(m.entries, "\n")))
}

func formatPaper(p *api.CandidatePaper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s (%s)\n", p.Title, p.Published)
	if len(p.Authors) > 0 {
		fmt.Fprintf(&b, "    %s\n", strings.Join(p.Authors, ", "))
	}
	if p.DOI != api.DOIUnknown {
		fmt.Fprintf(&b, "    doi: %s\n", p.DOI)
	}
	if p.PDFURL != "" {
		fmt.Fprintf(&b, "    pdf: %s", p.PDFURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) View() string {
	return fmt.Sprintf(
		"%s%s%s",
		m.viewport.View(),
		gap,
		m.textarea.View(),
	)
}
