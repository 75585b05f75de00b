package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui"
	"github.com/custodia-labs/askdoc/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat [doc-id]",
	Short: "Chat about a document",
	Long: `Open an interactive chat about one document.

Questions are answered in the background; a typing indicator is shown until
the answer arrives. On a terminal the full screen chat is used; otherwise,
or with --plain, questions are read line by line from stdin.

Controls:
  Enter      - Ask
  PgUp/PgDn  - Scroll the conversation
  Esc        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

var (
	chatUser  string
	chatPlain bool
)

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "", "Username recorded with the answers")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "Read questions line by line instead of the full screen chat")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errNotConfigured("chat")
	}

	docID := args[0]
	if documentService != nil {
		if _, err := documentService.Get(commandContext(cmd), docID); err != nil {
			return fmt.Errorf("failed to open document: %w", err)
		}
	}

	if !chatPlain && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return runChatTUI(cmd, docID)
	}
	return runChatLines(commandContext(cmd), cmd, cmd.InOrStdin(), docID)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func runChatTUI(cmd *cobra.Command, docID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("chat crashed: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Chat: chatService, Document: documentService}, docID, chatUser)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	defer app.Close()

	app.WithContext(commandContext(cmd))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	chatService.Wait()
	return nil
}

// runChatLines asks one question per input line and prints each answer
// before reading the next. "exit" or "quit" ends the chat.
func runChatLines(ctx context.Context, cmd *cobra.Command, in io.Reader, docID string) error {
	sessionID := uuid.New().String()
	inbox, closeSession := chatService.Open(sessionID)
	defer closeSession()

	cmd.Printf("Chatting about %s. Type 'exit' to quit.\n", docID)

	scanner := bufio.NewScanner(in)
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := chatService.Ask(ctx, sessionID, docID, question, chatUser); err != nil {
			return fmt.Errorf("failed to ask question: %w", err)
		}
		if err := printReply(ctx, cmd, inbox); err != nil {
			return err
		}
	}
}

// printReply prints session messages until the answer or error arrives.
func printReply(ctx context.Context, cmd *cobra.Command, inbox <-chan domain.SessionMessage) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-inbox:
			if !ok {
				return domain.ErrSessionClosed
			}
			switch m.Type {
			case domain.MessageTyping:
				cmd.Println(m.Content)
			case domain.MessageAnswer:
				cmd.Println(m.Content)
				cmd.Println(answerTag(m.Tier, m.Degraded))
				cmd.Println()
				return nil
			default:
				cmd.Println(m.Content)
				cmd.Println()
				return nil
			}
		}
	}
}
