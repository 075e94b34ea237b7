// Package mcp exposes the intent engine as Model Context Protocol tools.
// Every tool is a thin translation between the MCP argument shape and one
// engine method; no behavior lives here.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sorcerai/packfs/pkg/engine"
)

// Config carries the adapter's collaborators.
type Config struct {
	Engine *engine.Engine
}

// RegisterAll registers the intent tools with the given server.
func RegisterAll(s *server.MCPServer, config Config) {
	accessTool := mcp.NewTool("access_file",
		mcp.WithDescription(`Read a file, fetch its preview or metadata, check existence, or create-or-get it. Response: {success,exists,path,content?,preview?,metadata?,suggestions?}`),
		mcp.WithString("purpose", mcp.Required(), mcp.Description("read | preview | metadata | verify_exists | create_or_get")),
		mcp.WithString("path", mcp.Description("Sandbox-relative file path")),
		mcp.WithString("pattern", mcp.Description("Glob pattern resolving the target when no path is given")),
		mcp.WithString("semanticQuery", mcp.Description("Semantic query resolving the target when no path is given")),
		mcp.WithBoolean("includeMetadata", mcp.Description("Include file metadata with read results")),
	)
	s.AddTool(accessTool, AccessTool(config))

	updateTool := mcp.NewTool("update_content",
		mcp.WithDescription(`Write file content. Purposes: create (fails on existing unless createPath), append (requires existing), overwrite, merge (joins with a newline), patch. Response: {success,path,created,bytesWritten}`),
		mcp.WithString("purpose", mcp.Required(), mcp.Description("create | append | overwrite | merge | patch")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Sandbox-relative file path")),
		mcp.WithString("content", mcp.Description("Content payload; required for every purpose except create")),
		mcp.WithBoolean("createPath", mcp.Description("Allow create to replace an existing file and create parent directories")),
	)
	s.AddTool(updateTool, UpdateTool(config))

	organizeTool := mcp.NewTool("organize_files",
		mcp.WithDescription(`Create directories, move or copy files (bulk moves from a pattern are supported), or compute keyword/semantic groupings over the index. Response: {success,filesAffected,newPaths?,groups?}`),
		mcp.WithString("purpose", mcp.Required(), mcp.Description("create_directory | move | copy | group_semantic | group_keywords")),
		mcp.WithString("source", mcp.Description("Source path for move/copy")),
		mcp.WithString("sourcePattern", mcp.Description("Source glob for bulk move/copy")),
		mcp.WithString("destination", mcp.Description("Destination path")),
		mcp.WithBoolean("recursive", mcp.Description("Create parent directories for create_directory")),
	)
	s.AddTool(organizeTool, OrganizeTool(config))

	discoverTool := mcp.NewTool("discover_files",
		mcp.WithDescription(`List a directory or search the index. Purposes: list, find (path/pattern/criteria), search_content, search_semantic, search_integrated. Response: {success,files:[{path,size,mtime,relevance?,preview?,snippet?}],totalFound,suggestions?}`),
		mcp.WithString("purpose", mcp.Required(), mcp.Description("list | find | search_content | search_semantic | search_integrated")),
		mcp.WithString("path", mcp.Description("Directory for list, or exact path for find")),
		mcp.WithString("pattern", mcp.Description("Glob pattern for find")),
		mcp.WithString("query", mcp.Description("Query string for the search purposes")),
		mcp.WithNumber("maxResults", mcp.Description("Result cap (default from engine config)"), mcp.Min(1)),
		mcp.WithBoolean("includeContent", mcp.Description("Include file contents in list results")),
	)
	s.AddTool(discoverTool, DiscoverTool(config))

	removeTool := mcp.NewTool("remove_files",
		mcp.WithDescription(`Delete files or directories resolved through the same targeting as discover. dryRun previews the deletion; moveToTrash renames instead of unlinking. Response: {success,filesDeleted,directoriesDeleted,freedSpace,deletedPaths}`),
		mcp.WithString("purpose", mcp.Required(), mcp.Description("delete_file | delete_directory | delete_by_criteria")),
		mcp.WithString("path", mcp.Description("Target path")),
		mcp.WithString("pattern", mcp.Description("Target glob for delete_by_criteria")),
		mcp.WithBoolean("dryRun", mcp.Description("Report what would be deleted without touching disk")),
		mcp.WithBoolean("moveToTrash", mcp.Description("Rename to <path>.deleted.<millis> instead of unlinking")),
	)
	s.AddTool(removeTool, RemoveTool(config))

	queryTool := mcp.NewTool("natural_query",
		mcp.WithDescription(`Run a natural-language query through the intent parser and execute the resulting operation. Response: {category,confidence,success,message?,result?}`),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text request, e.g. \"read notes.md\" or \"find meeting notes\"")),
	)
	s.AddTool(queryTool, QueryTool(config))
}
