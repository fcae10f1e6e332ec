/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/josephgoksu/DBAtlas/internal/catalog"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	mcppresenter "github.com/josephgoksu/DBAtlas/internal/mcp"
	"github.com/josephgoksu/DBAtlas/store"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can browse the
database catalog, get recommendations and generate schemas.

The server runs over stdin/stdout and provides the tools:
- catalog: list, get, search, categories, highlights and ratings
- recommend: one-shot recommendation from a description or requirements
- consult: multi-turn consultation that asks for missing requirements
- schema: starter schema as a summary, SQL, Mermaid or MongoDB validators

The server will run until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// mcpMarkdownResponse wraps Markdown content in an MCP tool result.
func mcpMarkdownResponse(markdown string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}, nil
}

// mcpErrorResponse wraps an error in an MCP tool result with IsError=true so
// the client sees it instead of a protocol error.
func mcpErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: mcppresenter.FormatError(err.Error())}},
		IsError: true,
	}, nil
}

// mcpToolResponse converts a handler result into an MCP tool result.
func mcpToolResponse(result *mcppresenter.ToolResult, err error) (*mcpsdk.CallToolResultFor[any], error) {
	if err != nil {
		return mcpErrorResponse(err)
	}
	if result.Error != "" {
		return &mcpsdk.CallToolResultFor[any]{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: mcppresenter.FormatError(result.Error)}},
			IsError: true,
		}, nil
	}
	return mcpMarkdownResponse(result.Content)
}

func runMCPServer(ctx context.Context) error {
	// NOTE: MCP uses stdio transport. stdout MUST be pure JSON-RPC.
	// All status/debug output goes to stderr only.
	fmt.Fprintln(os.Stderr, "DBAtlas MCP Server starting...")

	rules, err := loadRules()
	if err != nil {
		return err
	}

	return withCatalog(ctx, func(svc *catalog.Service, _ store.Store) error {
		handlers := mcppresenter.NewHandlers(svc, consultant.NewScorer(rules))

		impl := &mcpsdk.Implementation{
			Name:    "dbatlas-mcp",
			Version: version,
		}
		serverOpts := &mcpsdk.ServerOptions{
			InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
				fmt.Fprintf(os.Stderr, "✓ MCP connection established\n")
				if viper.GetBool("verbose") {
					fmt.Fprintf(os.Stderr, "[DEBUG] Client initialized\n")
				}
			},
		}
		server := mcpsdk.NewServer(impl, serverOpts)
		registerMCPTools(server, handlers)

		if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
			return fmt.Errorf("MCP server failed: %w", err)
		}
		return nil
	})
}

func registerMCPTools(server *mcpsdk.Server, handlers *mcppresenter.Handlers) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "catalog",
		Description: `Browse the database catalog. Use action parameter to select operation:
- list: All databases, optionally filtered by category
- get: Full profile of one database by slug
- search: Match name, description, category, features and use cases
- categories: Category names with entry counts
- highlights: Newest, most popular and recently updated (limit 1-50, default 3)
- ratings: Community rating summary of one database by slug`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.CatalogToolParams]) (*mcpsdk.CallToolResultFor[any], error) {
		logToolCall("catalog", params.Arguments)
		return mcpToolResponse(handlers.HandleCatalogTool(ctx, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "recommend",
		Description: `Recommend a database with alternatives, architecture, plan and costs.
Give a free-text description, explicit requirements, or both (explicit values win):
- project_type: web application, mobile application, analytics platform, iot application, e-commerce platform
- load: low, medium, high
- budget: limited, enterprise
- team: solo, small, large
- performance: any of high performance, real-time, scalability`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.RecommendParams]) (*mcpsdk.CallToolResultFor[any], error) {
		logToolCall("recommend", params.Arguments)
		return mcpToolResponse(handlers.HandleRecommendTool(ctx, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "consult",
		Description: `Multi-turn database consultation. Send the user's words as message; the
consultant asks for missing requirements until it can recommend. Set report=true
to get the Markdown report of the latest recommendation, reset=true to start over.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.ConsultParams]) (*mcpsdk.CallToolResultFor[any], error) {
		logToolCall("consult", params.Arguments)
		defaultSessionID := ""
		if session != nil {
			defaultSessionID = strings.TrimSpace(session.ID())
		}
		return mcpToolResponse(handlers.HandleConsultTool(ctx, params.Arguments, defaultSessionID))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "schema",
		Description: `Generate a starter schema for a use case (e.g. "online store", "blog", "crm").
Target a catalog database by slug with database, or name one with database_name
and database_type (default PostgreSQL). format: summary (default), sql, mermaid, validators.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.SchemaToolParams]) (*mcpsdk.CallToolResultFor[any], error) {
		logToolCall("schema", params.Arguments)
		return mcpToolResponse(handlers.HandleSchemaTool(ctx, params.Arguments))
	})
}

func logToolCall(toolName string, params any) {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "[MCP TOOL] %s called with params: %+v\n", toolName, params)
	}
}
