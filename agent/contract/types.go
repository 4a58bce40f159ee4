package contract

// ToolRequest is one tool invocation the model asked for, with its decoded
// arguments. Arguments stay loosely typed here; each tool validates them
// into strict records at its own boundary.
type ToolRequest struct {
	ID   string         `json:"id"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the tagged outcome of a tool invocation. Tool-level failures
// travel in Error as a human-readable message the model can relay verbatim;
// a Go error from the executor means the dispatch itself broke.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	File   string `json:"file,omitempty"`
}
