// Package model defines the provider-agnostic surface for the language model
// collaborator driving an execution loop.
//
// Core goals:
//   - One synchronous Call per conversation turn; the loop has no other
//     suspension point
//   - Normalized tool / function call representation (ToolDefinition, ToolCall)
//   - A flat role/content transcript shape shared by all providers
//   - Lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so the agent layer stays decoupled from vendor SDKs.
package model
