package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sorcerai/packfs/pkg/intent"
)

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error marshaling response: %s", err)), nil
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// AccessTool translates access_file calls into FileAccessIntents.
func AccessTool(config Config) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		in := intent.FileAccessIntent{
			Purpose: intent.AccessPurpose(stringArg(args, "purpose")),
			Target: intent.FileTarget{
				Path:          stringArg(args, "path"),
				Pattern:       stringArg(args, "pattern"),
				SemanticQuery: stringArg(args, "semanticQuery"),
			},
		}
		if boolArg(args, "includeMetadata") {
			in.Preferences = &intent.AccessPreferences{IncludeMetadata: true}
		}
		return jsonResult(config.Engine.AccessFile(ctx, in))
	}
}

// UpdateTool translates update_content calls into ContentUpdateIntents.
func UpdateTool(config Config) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		in := intent.ContentUpdateIntent{
			Purpose: intent.UpdatePurpose(stringArg(args, "purpose")),
			Target:  intent.FileTarget{Path: stringArg(args, "path")},
			Content: stringArg(args, "content"),
		}
		in.Options.CreatePath = boolArg(args, "createPath")
		return jsonResult(config.Engine.UpdateContent(ctx, in))
	}
}

// OrganizeTool translates organize_files calls into OrganizeIntents.
func OrganizeTool(config Config) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		in := intent.OrganizeIntent{
			Purpose: intent.OrganizePurpose(stringArg(args, "purpose")),
			Source: intent.FileTarget{
				Path:    stringArg(args, "source"),
				Pattern: stringArg(args, "sourcePattern"),
			},
			Destination: intent.FileTarget{Path: stringArg(args, "destination")},
		}
		in.Options.Recursive = boolArg(args, "recursive")
		return jsonResult(config.Engine.OrganizeFiles(ctx, in))
	}
}

// DiscoverTool translates discover_files calls into DiscoverIntents.
func DiscoverTool(config Config) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		in := intent.DiscoverIntent{
			Purpose: intent.DiscoverPurpose(stringArg(args, "purpose")),
			Target: intent.FileTarget{
				Path:          stringArg(args, "path"),
				Pattern:       stringArg(args, "pattern"),
				SemanticQuery: stringArg(args, "query"),
			},
		}
		if max, ok := args["maxResults"].(float64); ok {
			in.Options.MaxResults = int(max)
		}
		in.Options.IncludeContent = boolArg(args, "includeContent")
		return jsonResult(config.Engine.DiscoverFiles(ctx, in))
	}
}

// RemoveTool translates remove_files calls into RemoveIntents.
func RemoveTool(config Config) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		in := intent.RemoveIntent{
			Purpose: intent.RemovePurpose(stringArg(args, "purpose")),
			Target: intent.FileTarget{
				Path:    stringArg(args, "path"),
				Pattern: stringArg(args, "pattern"),
			},
		}
		in.Options.DryRun = boolArg(args, "dryRun")
		in.Options.MoveToTrash = boolArg(args, "moveToTrash")
		return jsonResult(config.Engine.RemoveFiles(ctx, in))
	}
}

// queryResponse is the JSON shape of the natural_query tool.
type queryResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	Result     any     `json:"result,omitempty"`
}

// QueryTool routes free-text queries through the NL parser.
func QueryTool(config Config) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		query := stringArg(args, "query")
		if query == "" {
			return mcp.NewToolResultError("query parameter is required"), nil
		}
		interp, err := config.Engine.InterpretQuery(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(queryResponse{
			Category:   string(interp.Intent.Category()),
			Confidence: interp.Confidence,
			Success:    interp.Success,
			Message:    interp.Message,
			Result:     interp.Result,
		})
	}
}
