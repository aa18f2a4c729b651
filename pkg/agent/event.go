package agent

// Event names, one per state transition of the loop. They are streamed to
// the client in the order produced.
const (
	EventReasoning   = "reasoning"
	EventToolInvoked = "tool_invoked"
	EventToolResult  = "tool_result"
	EventAnswer      = "answer"
	EventCitations   = "citations"
	EventError       = "error"
	EventDone        = "done"
)

// Event is one step of an agent run as seen by the client.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Emitter receives events as they occur. Implementations must not block
// for long; the loop is sequential and a stuck emitter stalls the run.
type Emitter func(Event)

type ToolInvokedData struct {
	Tool      string `json:"tool"`
	Arguments string `json:"arguments"`
}

type ToolResultData struct {
	Tool      string     `json:"tool"`
	Content   string     `json:"content"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
	Failed    bool       `json:"failed,omitempty"`
}

type AnswerData struct {
	Content string `json:"content"`
}

type ErrorData struct {
	Message string `json:"message"`
}
