package mcp

import "github.com/mark3labs/mcp-go/mcp"

// analyzeTextTool defines the analyze_text MCP tool.
var analyzeTextTool = mcp.NewTool("analyze_text",
	mcp.WithDescription("Analyze a Spanish text against the RAE Libro de estilo and return a JSON array of corrections, each with rule, originalFragment, correctedFragment and explanation. An empty array means the text needs no changes."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The Spanish text to review"),
	),
)

// explainCorrectionTool defines the explain_correction MCP tool.
var explainCorrectionTool = mcp.NewTool("explain_correction",
	mcp.WithDescription("Give an alternative, more detailed explanation of one correction returned by analyze_text."),
	mcp.WithString("rule",
		mcp.Required(),
		mcp.Description("Name of the grammar or style rule"),
	),
	mcp.WithString("original_fragment",
		mcp.Required(),
		mcp.Description("Fragment of the original text"),
	),
	mcp.WithString("corrected_fragment",
		mcp.Required(),
		mcp.Description("Suggested replacement"),
	),
	mcp.WithString("explanation",
		mcp.Description("The explanation given so far"),
	),
)

// callHistoryTool defines the call_history MCP tool.
var callHistoryTool = mcp.NewTool("call_history",
	mcp.WithDescription("Summarize recent generation calls made by the tutor: totals, failures, tokens and estimated cost."),
	mcp.WithNumber("limit",
		mcp.Description("Number of recent calls to list (default 10)"),
	),
)
