package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// DefaultUsername is recorded against answers when no user is given.
const DefaultUsername = "tui"

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input      *input.QuestionInput
	transcript *transcript.Transcript
	status     *status.Bar

	documentID string
	username   string
	title      string

	// sessionID identifies this chat with the chat service.
	sessionID string

	// inbox receives typing, answer and error deliveries.
	inbox        <-chan domain.SessionMessage
	closeSession func()

	// pending counts questions still awaiting an answer.
	pending int

	width  int
	height int
	ready  bool
	closed bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp opens a chat session about one document.
// Call Close when the program exits.
func NewApp(ports *Ports, documentID, username string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("creating app: %w", ErrMissingDocumentID)
	}
	if username == "" {
		username = DefaultUsername
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sessionID := uuid.New().String()
	inbox, closeSession := ports.Chat.Open(sessionID)

	bar := status.NewBar(s, km)
	bar.SetDocument(documentID)

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		input:        input.NewQuestionInput(s),
		transcript:   transcript.New(s),
		status:       bar,
		documentID:   documentID,
		username:     username,
		title:        documentID,
		sessionID:    sessionID,
		inbox:        inbox,
		closeSession: closeSession,
	}, nil
}

// WithContext sets the context used for questions and lookups.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Close ends the chat session. Safe to call more than once.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.closeSession()
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("askdoc - "+a.documentID),
		a.input.Init(),
		a.loadDocument(),
		waitForMessage(a.inbox),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.DocumentLoaded:
		if msg.Err != nil {
			a.status.SetState(status.StateError)
			a.status.SetMessage(msg.Err.Error())
			return a, nil
		}
		if msg.Document != nil && msg.Document.Title != "" {
			a.title = msg.Document.Title
			a.status.SetDocument(a.title)
		}
		return a, nil

	case messages.SessionMessageReceived:
		a.handleSessionMessage(msg.Message)
		return a, waitForMessage(a.inbox)

	case messages.SessionClosed:
		a.status.SetState(status.StateError)
		a.status.SetMessage("session closed")
		return a, nil

	case messages.QuestionSubmitted:
		logger.Debug("tui: question submitted for %s", a.documentID)
		return a, nil

	case messages.AskFailed:
		a.pending--
		if a.pending < 0 {
			a.pending = 0
		}
		a.transcript.AddError(fmt.Sprintf("Could not send question: %v", msg.Err))
		a.status.SetPending(a.pending)
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		a.Close()
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Send):
		question := strings.TrimSpace(a.input.Value())
		if question == "" {
			return a, nil
		}
		a.input.Reset()
		a.transcript.AddQuestion(question)
		a.pending++
		a.status.SetPending(a.pending)
		a.status.SetState(status.StateThinking)
		return a, a.ask(question)

	case keymap.Matches(key, a.keymap.ScrollUp):
		a.transcript.ScrollUp()
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollDown):
		a.transcript.ScrollDown()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleSessionMessage(m domain.SessionMessage) {
	switch m.Type {
	case domain.MessageTyping:
		a.status.SetState(status.StateThinking)

	case domain.MessageAnswer:
		a.settle()
		a.transcript.AddAnswer(m.Content, m.Tier, m.Degraded)
		a.status.SetTier(m.Tier, m.Degraded)

	case domain.MessageError:
		a.settle()
		a.transcript.AddError(m.Content)
		if a.pending == 0 {
			a.status.SetState(status.StateError)
			a.status.SetMessage("question failed")
		}
	}
}

// settle marks one pending question as answered.
func (a *App) settle() {
	if a.pending > 0 {
		a.pending--
	}
	a.status.SetPending(a.pending)
	if a.pending == 0 {
		a.status.Clear()
	}
}

func (a *App) ask(question string) tea.Cmd {
	ctx := a.ctx
	chat := a.ports.Chat
	sessionID, documentID, username := a.sessionID, a.documentID, a.username

	return func() tea.Msg {
		if err := chat.Ask(ctx, sessionID, documentID, question, username); err != nil {
			return messages.AskFailed{Question: question, Err: err}
		}
		return messages.QuestionSubmitted{Question: question}
	}
}

func (a *App) loadDocument() tea.Cmd {
	if a.ports.Document == nil {
		return nil
	}
	ctx := a.ctx
	docs := a.ports.Document
	documentID := a.documentID

	return func() tea.Msg {
		doc, err := docs.Get(ctx, documentID)
		return messages.DocumentLoaded{Document: doc, Err: err}
	}
}

// waitForMessage blocks on the session inbox; it is re-issued after each delivery.
func waitForMessage(inbox <-chan domain.SessionMessage) tea.Cmd {
	return func() tea.Msg {
		m, ok := <-inbox
		if !ok {
			return messages.SessionClosed{}
		}
		return messages.SessionMessageReceived{Message: m}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("askdoc") + " " + a.styles.Muted.Render(a.title)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.transcript.View(),
		a.input.View(),
		a.status.View(),
	)
}

// SetDimensions sizes every component for the terminal.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// header, bordered input (3 lines) and status bar
	a.transcript.SetSize(width, height-5)
	a.input.SetWidth(width)
	a.status.SetWidth(width)
}

// SessionID returns the chat session identifier.
func (a *App) SessionID() string {
	return a.sessionID
}

// Title returns the title of the document being discussed.
func (a *App) Title() string {
	return a.title
}

// Pending returns the number of unanswered questions.
func (a *App) Pending() int {
	return a.pending
}

// Transcript returns the conversation so far.
func (a *App) Transcript() []transcript.Entry {
	return a.transcript.Entries()
}

// Status returns the status bar state.
func (a *App) Status() status.State {
	return a.status.State()
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}
