package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/extractors"
)

const timeFormat = "2006-01-02 15:04:05"

var ingestCmd = &cobra.Command{
	Use:   "ingest [file|dir]",
	Short: "Upload a document or a folder of documents",
	Long: `Extract text from a file, store it and index it for every available tier.

Supported formats: plain text, markdown, HTML and PDF. Indexing or summary
failures are reported as warnings and never fail the upload.

When given a directory, every supported file below it is uploaded. Hidden
files and files uploaded before are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocs,
}

var docCmd = &cobra.Command{
	Use:   "doc [doc-id]",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDoc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its indexed chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var reprocessCmd = &cobra.Command{
	Use:   "reprocess [doc-id]",
	Short: "Index a document again",
	Long:  `Clear a document from every tier and process its stored content again.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReprocess,
}

// ingestTitle is a flag for the ingest command.
var ingestTitle string

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "Document title (default from file name)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(reprocessCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	path := args[0]
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return runIngestFolder(cmd, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	metadata := map[string]any{"source": "cli"}
	if ingestTitle != "" {
		metadata["title"] = ingestTitle
	}

	raw := &domain.RawDocument{
		URI:      filepath.Clean(path),
		MIMEType: extractors.DetectMIMEType(path),
		Content:  content,
		Metadata: metadata,
	}

	doc, err := documentService.Ingest(commandContext(cmd), raw)
	if err != nil {
		return fmt.Errorf("failed to ingest document: %w", err)
	}
	documentService.Wait()

	cmd.Printf("Ingested: %s\n", doc.ID)
	cmd.Printf("  Title:   %s\n", doc.Title)
	cmd.Printf("  Type:    %s\n", raw.MIMEType)
	cmd.Printf("  Length:  %d characters\n", len(doc.Content))

	if stored, err := documentService.Get(commandContext(cmd), doc.ID); err == nil && stored.Summary != "" {
		cmd.Printf("\nSummary:\n  %s\n", stored.Summary)
	}
	return nil
}

func runIngestFolder(cmd *cobra.Command, dir string) error {
	if folderService == nil {
		return errNotConfigured("folder")
	}
	if ingestTitle != "" {
		return errors.New("--title cannot be used with a directory")
	}

	report, err := folderService.Sync(commandContext(cmd), dir)
	if err != nil {
		return fmt.Errorf("failed to ingest folder: %w", err)
	}
	documentService.Wait()

	cmd.Printf("Ingested %d documents from %s\n", len(report.Ingested), dir)
	for _, id := range report.Ingested {
		cmd.Printf("  %s\n", id)
	}
	if report.Skipped > 0 {
		cmd.Printf("Skipped %d already uploaded\n", report.Skipped)
	}
	if len(report.Failed) > 0 {
		cmd.Printf("Failed %d:\n", len(report.Failed))
		uris := make([]string, 0, len(report.Failed))
		for uri := range report.Failed {
			uris = append(uris, uri)
		}
		sort.Strings(uris)
		for _, uri := range uris {
			cmd.Printf("  %s: %s\n", uri, report.Failed[uri])
		}
	}
	return nil
}

func runDocs(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	docs, err := documentService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded yet.")
		cmd.Println("Run 'askdoc ingest <file>' to add one.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title:    %s\n", docs[i].Title)
		cmd.Printf("    Uploaded: %s\n", docs[i].CreatedAt.Format(timeFormat))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDoc(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	details, err := documentService.GetDetails(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document details: %w", err)
	}

	cmd.Printf("Document: %s\n\n", details.ID)
	cmd.Printf("  Title:     %s\n", details.Title)
	cmd.Printf("  URI:       %s\n", details.URI)
	cmd.Printf("  Length:    %d characters\n", details.ContentLength)
	cmd.Printf("  Questions: %d\n", details.Questions)
	cmd.Printf("  Created:   %s\n", details.CreatedAt.Format(timeFormat))
	cmd.Printf("  Updated:   %s\n", details.UpdatedAt.Format(timeFormat))

	if details.Summary != "" {
		cmd.Printf("\n  Summary:\n    %s\n", details.Summary)
	}

	if len(details.Metadata) > 0 {
		keys := make([]string, 0, len(details.Metadata))
		for k := range details.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		cmd.Println("\n  Metadata:")
		for _, k := range keys {
			cmd.Printf("    %s: %s\n", k, details.Metadata[k])
		}
	}

	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	if err := documentService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}

func runReprocess(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	doc, err := documentService.Reprocess(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to reprocess document: %w", err)
	}
	documentService.Wait()

	cmd.Printf("Reprocessed document: %s (%s)\n", doc.ID, doc.Title)
	return nil
}
