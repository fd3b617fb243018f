package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"salescoach/app/service/answer"
	"salescoach/app/service/coach"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

// MCPServer exposes the knowledge base and tip synthesis as MCP tools over
// stdio, so desktop assistants can call into the coach.
type MCPServer struct {
	srv *server.MCPServer
}

func NewMCP(di *do.Injector) (*MCPServer, error) {
	answerSvc := do.MustInvoke[*answer.Service](di)
	coachSvc := do.MustInvoke[*coach.Service](di)

	srv := server.NewMCPServer(
		"salescoach",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	askTool := mcp.NewTool("ask_knowledge_base",
		mcp.WithDescription("Answer a sales question grounded in the product knowledge base"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
		mcp.WithString("product_id",
			mcp.Description("Optional product to scope retrieval to"),
		),
	)

	srv.AddTool(askTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		productID := request.GetString("product_id", "")

		result, err := answerSvc.Answer(ctx, question, productID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatAnswer(result)), nil
	})

	tipsTool := mcp.NewTool("suggest_coaching_tips",
		mcp.WithDescription("Synthesize coaching tips for a customer statement from a sales conversation"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What the customer said"),
		),
	)

	srv.AddTool(tipsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tips, err := coachSvc.Synthesize(ctx, text, nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(tips, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	})

	return &MCPServer{srv: srv}, nil
}

// Serve blocks on stdio until the client disconnects.
func (m *MCPServer) Serve() error {
	return server.ServeStdio(m.srv)
}

func formatAnswer(result *answer.Result) string {
	var builder strings.Builder

	builder.WriteString(result.AnswerText)
	builder.WriteString(fmt.Sprintf("\n\nKonfidens: %s\n", result.Confidence))

	for _, source := range result.Sources {
		builder.WriteString(fmt.Sprintf("- %s: %s\n", source.Title, source.Excerpt))
	}

	return builder.String()
}
