// Package mcp exposes the game over the Model Context Protocol.
//
// The Client here is deliberately thin: every tool call is proxied to the
// REST API, so MCP clients and HTTP clients always observe the same
// sessions. The only logic that lives in this package is presentation,
// rendering snapshots and move outcomes as text an LLM can read.
//
// Tools: create_session, list_sessions, get_session, snapshot, move,
// reset_game, move_history, list_levels, game_instructions.
package mcp
