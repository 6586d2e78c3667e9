// Package memory provides in-memory implementations of driven ports.
// They back tests, the MCP server's scratch mode and short-lived CLI runs
// that do not need a persistent index.
package memory
