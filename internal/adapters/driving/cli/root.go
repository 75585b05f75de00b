// Package cli provides the askdoc command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Command annotations read by the bootstrap hook.
const (
	annotationSkipBootstrap = "askdoc.skip-bootstrap"
	annotationAsyncDocs     = "askdoc.async-documents"
)

// Services wired by the bootstrapper and used by the commands.
var (
	documentService driving.DocumentService
	chatService     driving.ChatService
	settingsService driving.SettingsService
	qaService       driving.QAService
	folderService   driving.FolderService
	cacheSize       func(ctx context.Context) int
	metricsHandler  http.Handler
	startupWarnings []string
	closeServices   func()
)

// Global flags.
var (
	verbose   bool
	configDir string
	ephemeral bool
)

// Options are the global settings passed to the bootstrapper.
type Options struct {
	// ConfigDir overrides ~/.askdoc.
	ConfigDir string

	// Ephemeral keeps settings and documents in memory only.
	Ephemeral bool

	// AsyncDocuments processes uploads in the background.
	AsyncDocuments bool
}

// Services is the set of driving ports the commands use.
type Services struct {
	Document driving.DocumentService
	Chat     driving.ChatService
	Settings driving.SettingsService
	QA       driving.QAService

	// Folders uploads and watches local folders. Optional.
	Folders driving.FolderService

	// CacheSize reports the number of cached embeddings, or -1 when the
	// cache cannot tell. Optional.
	CacheSize func(ctx context.Context) int

	// Metrics serves Prometheus metrics. Optional.
	Metrics http.Handler

	// Warnings lists tiers or backends that could not be enabled.
	Warnings []string

	// Close releases stores and connections. Optional.
	Close func()
}

// Bootstrapper builds the services for one invocation.
type Bootstrapper func(ctx context.Context, opts Options) (*Services, error)

var bootstrap Bootstrapper

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your documents",
	Long: `askdoc answers questions about uploaded documents.

Answers come from the first available tier: semantic vector search with an
LLM, then keyword retrieval, then keyword retrieval with an LLM. Without an
OpenAI API key only keyword answers are available.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.askdoc)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep settings and documents in memory only")
}

// SetBootstrap sets the function that wires services before a command runs.
func SetBootstrap(b Bootstrapper) {
	bootstrap = b
}

// SetServices installs already wired services. Commands run against them
// without calling the bootstrapper.
func SetServices(s *Services) {
	if s == nil {
		documentService, chatService, settingsService, qaService = nil, nil, nil, nil
		folderService, cacheSize = nil, nil
		metricsHandler, startupWarnings, closeServices = nil, nil, nil
		return
	}
	documentService = s.Document
	chatService = s.Chat
	settingsService = s.Settings
	qaService = s.QA
	folderService = s.Folders
	cacheSize = s.CacheSize
	metricsHandler = s.Metrics
	startupWarnings = s.Warnings
	closeServices = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

func shutdown() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationSkipBootstrap] == "true" || cmd.Name() == "help" {
		return nil
	}
	if documentService != nil || bootstrap == nil {
		return nil
	}

	opts := Options{
		ConfigDir:      configDir,
		Ephemeral:      ephemeral,
		AsyncDocuments: cmd.Annotations[annotationAsyncDocs] == "true",
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	services, err := bootstrap(ctx, opts)
	if err != nil {
		return fmt.Errorf("starting askdoc: %w", err)
	}
	SetServices(services)
	return nil
}

// errNotConfigured reports a service the bootstrapper did not provide.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}

// commandContext returns the command's context or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
