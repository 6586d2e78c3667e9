// Package driving holds the interfaces the CLI, TUI and MCP server call
// into: chapter loading, splitting, rendering and search.
package driving
