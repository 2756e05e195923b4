package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcpforge/mcpforge/internal/detect"
	"github.com/mcpforge/mcpforge/internal/ops"
)

// RegisterAll registers the mcpforge tools.
func RegisterAll(s *server.MCPServer, svc *ops.Service) {
	s.AddTools(
		createServerTool(svc),
		buildServerTool(svc),
		installServerTool(svc),
	)
}

func createServerTool(svc *ops.Service) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("create-server",
			mcp.WithDescription("Scaffold a new MCP server project in typescript, python, or java."),
			mcp.WithString("name",
				mcp.Description("Server name used in manifests and the registry"),
				mcp.Required(),
			),
			mcp.WithString("language",
				mcp.Description("One of typescript, python, java (defaults to the configured default language)"),
			),
			mcp.WithString("directory",
				mcp.Description("Target path for the new project; must not exist yet"),
				mcp.Required(),
			),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			name, errText := requiredString(args, "name")
			if errText != "" {
				return mcp.NewToolResultError(errText), nil
			}
			directory, errText := requiredString(args, "directory")
			if errText != "" {
				return mcp.NewToolResultError(errText), nil
			}

			language, _ := args["language"].(string)
			if strings.TrimSpace(language) == "" {
				language = svc.DefaultLanguage()
			}
			kind, err := detect.ParseLanguage(language)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			result, opErr := svc.Create(ctx, name, kind, directory)
			if opErr != nil {
				return mcp.NewToolResultError(opErr.Error()), nil
			}
			return jsonResult(result)
		},
	}
}

func buildServerTool(svc *ops.Service) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("build-server",
			mcp.WithDescription("Run the ecosystem build tool for an existing MCP server project."),
			mcp.WithString("directory",
				mcp.Description("Project directory to build"),
				mcp.Required(),
			),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			directory, errText := requiredString(req.GetArguments(), "directory")
			if errText != "" {
				return mcp.NewToolResultError(errText), nil
			}

			result, opErr := svc.Build(ctx, directory)
			if opErr != nil {
				return mcp.NewToolResultError(opErr.Error()), nil
			}
			return jsonResult(result)
		},
	}
}

func installServerTool(svc *ops.Service) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("install-server",
			mcp.WithDescription("Register a built MCP server in the Claude Desktop configuration."),
			mcp.WithString("directory",
				mcp.Description("Project directory holding the built server"),
				mcp.Required(),
			),
			mcp.WithString("name",
				mcp.Description("Registry entry name (defaults to the directory basename)"),
			),
			mcp.WithString("configPath",
				mcp.Description("Config file override (defaults to the platform's Claude Desktop path)"),
			),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			directory, errText := requiredString(args, "directory")
			if errText != "" {
				return mcp.NewToolResultError(errText), nil
			}
			name, _ := args["name"].(string)
			configPath, _ := args["configPath"].(string)

			result, opErr := svc.Install(ctx, directory, strings.TrimSpace(name), strings.TrimSpace(configPath))
			if opErr != nil {
				return mcp.NewToolResultError(opErr.Error()), nil
			}
			return jsonResult(result)
		},
	}
}

func requiredString(args map[string]any, key string) (string, string) {
	value, _ := args[key].(string)
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Sprintf("%s is required", key)
	}
	return value, ""
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal tool response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}
