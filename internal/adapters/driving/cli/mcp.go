package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve the streamable HTTP transport instead; --metrics then also serves
Prometheus metrics on /metrics.

Tools: ask, ingest, clear, list_documents.
Resources: askdoc://documents, askdoc://documents/{documentId}.

Examples:
  # Stdio mode
  askdoc mcp serve

  # HTTP mode with metrics
  askdoc mcp serve --port 8080 --metrics`,
	Annotations: map[string]string{annotationAsyncDocs: "true"},
	RunE:        runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("metrics", false, "Serve Prometheus metrics on /metrics in HTTP mode")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	withMetrics, err := cmd.Flags().GetBool("metrics")
	if err != nil {
		return fmt.Errorf("getting metrics flag: %w", err)
	}

	ports := &mcp.Ports{
		Document: documentService,
		QA:       qaService,
	}
	if withMetrics {
		ports.Metrics = metricsHandler
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		if ports.Metrics != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Metrics at http://localhost%s%s\n", addr, mcp.MetricsPath)
		}
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
