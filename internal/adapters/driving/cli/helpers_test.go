package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdoc/internal/connectors/filesystem"
	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/core/services"
	"github.com/custodia-labs/askdoc/internal/extractors"
	"github.com/custodia-labs/askdoc/internal/postprocessors"
)

// testServices exposes the wired services to assertions.
type testServices struct {
	documents *services.DocumentService
	settings  *services.SettingsService
	chat      *services.ChatDispatcher
	folders   *services.FolderSync
	qa        *services.Orchestrator
}

// setupTestServices wires the real services over memory stores.
// Without an API key only the keyword tier is active.
func setupTestServices() (*testServices, func()) {
	docs := memory.NewDocumentStore()
	settings := services.NewSettingsService(memory.NewConfigStore(), nil)
	appSettings, _ := settings.Get() //nolint:errcheck // memory store never fails

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	strategies, warnings, _ := services.BuildStrategies(services.TierDeps{ //nolint:errcheck // default chunker config
		Settings: appSettings,
		Pipelines: func(maxLength int) (driven.PostProcessorPipeline, error) {
			return postprocessors.ChunkingPipeline(registry, maxLength)
		},
		Loader: services.DocumentContentLoader(docs),
	})
	qa := services.NewOrchestrator(strategies, nil)
	documents := services.NewDocumentService(docs, memory.NewAnswerLog(), extractors.NewDefaultRegistry(), qa)
	chat := services.NewChatDispatcher(documents, 0)
	folders := services.NewFolderSync(documents, func(path string) driven.DocumentSource {
		return filesystem.New(path, filesystem.WithMIMETypes(extractors.NewDefaultRegistry().SupportedMIMETypes()))
	})

	SetServices(&Services{
		Document: documents,
		Chat:     chat,
		Settings: settings,
		QA:       qa,
		Folders:  folders,
		Warnings: warnings,
	})

	return &testServices{documents: documents, settings: settings, chat: chat, folders: folders, qa: qa}, func() {
		SetServices(nil)
		resetFlags()
	}
}

func resetFlags() {
	ingestTitle = ""
	askUser = ""
	askJSON = false
	historyUser = ""
	historyMax = 20
	chatUser = ""
	chatPlain = false
	watchNoSync = false
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// ingestText uploads a text document directly through the service.
func ingestText(t *testing.T, ts *testServices, title, content string) *domain.Document {
	t.Helper()
	doc, err := ts.documents.Ingest(context.Background(), &domain.RawDocument{
		URI:      title + ".txt",
		MIMEType: "text/plain",
		Content:  []byte(content),
		Metadata: map[string]any{"title": title},
	})
	require.NoError(t, err)
	return doc
}

// writeFile creates a file under a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const handbook = "Annual leave is 20 days per year.\n\nSick leave requires a doctor's note.\n\nThe office opens at 9am."
