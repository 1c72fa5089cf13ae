// Package n8n contains the wire types and REST client for the external
// workflow engine's public API.
package n8n

import "time"

// Workflow is the engine's native representation: a node array plus an
// adjacency map of named connections.
type Workflow struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"createdAt,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt,omitempty"`
	Nodes       []Node            `json:"nodes"`
	Connections Connections       `json:"connections"`
	Settings    *WorkflowSettings `json:"settings,omitempty"`
	StaticData  map[string]any    `json:"staticData,omitempty"`
	Tags        []Tag             `json:"tags,omitempty"`
}

// Node is one vertex of the workflow graph. Position is a layout hint for
// the engine's editor and carries no semantic weight.
type Node struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	TypeVersion int               `json:"typeVersion,omitempty"`
	Position    [2]int            `json:"position"`
	Parameters  map[string]any    `json:"parameters"`
	Credentials map[string]string `json:"credentials,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"`
}

// Target is one directed edge endpoint in the connection map.
type Target struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// NodePorts groups a node's outgoing edges by output kind. Main is a list
// of connection groups, each group a list of targets.
type NodePorts struct {
	Main [][]Target `json:"main"`
}

// Connections maps a source node name to its outgoing edges.
type Connections map[string]NodePorts

// FirstMain returns the first target of the first main connection group for
// the named node, or false when the node has no outgoing main edge.
func (c Connections) FirstMain(node string) (Target, bool) {
	ports, ok := c[node]
	if !ok || len(ports.Main) == 0 || len(ports.Main[0]) == 0 {
		return Target{}, false
	}

	return ports.Main[0][0], true
}

// OutDegree counts every main-edge target leaving the named node across all
// connection groups.
func (c Connections) OutDegree(node string) int {
	total := 0
	for _, group := range c[node].Main {
		total += len(group)
	}

	return total
}

// WorkflowSettings mirrors the engine's per-workflow execution settings.
type WorkflowSettings struct {
	SaveExecutionProgress    bool   `json:"saveExecutionProgress,omitempty"`
	SaveManualExecutions     bool   `json:"saveManualExecutions,omitempty"`
	SaveDataErrorExecution   string `json:"saveDataErrorExecution,omitempty"`
	SaveDataSuccessExecution string `json:"saveDataSuccessExecution,omitempty"`
	ExecutionTimeout         int    `json:"executionTimeout,omitempty"`
	ErrorWorkflow            string `json:"errorWorkflow,omitempty"`
	Timezone                 string `json:"timezone,omitempty"`
	ExecutionOrder           string `json:"executionOrder,omitempty"`
}

// Execution is one engine execution record.
type Execution struct {
	ID         int64          `json:"id"`
	Data       *ExecutionData `json:"data,omitempty"`
	Finished   bool           `json:"finished"`
	Mode       string         `json:"mode"`
	RetryOf    *int64         `json:"retryOf,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	StoppedAt  *time.Time     `json:"stoppedAt,omitempty"`
	WorkflowID string         `json:"workflowId"`
	WaitTill   *time.Time     `json:"waitTill,omitempty"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// ExecutionData is the engine's nested execution payload. Only the fields
// the status mapping needs are modelled; the rest passes through ResultData.
type ExecutionData struct {
	StartData        map[string]any `json:"startData,omitempty"`
	ResultData       ResultData     `json:"resultData"`
	LastNodeExecuted string         `json:"lastNodeExecuted,omitempty"`
}

// ResultData carries the terminal outcome of an execution.
type ResultData struct {
	Error   map[string]any `json:"error,omitempty"`
	RunData map[string]any `json:"runData,omitempty"`
}

// Credential is the engine's stored credential. Secrets are write-only: the
// engine never returns Data on reads.
type Credential struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty"`
}

// Tag is the engine's workflow label. Folders are simulated with tags.
type Tag struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Page is one page of an engine listing.
type Page[T any] struct {
	Data       []T    `json:"data"`
	NextCursor string `json:"nextCursor,omitempty"`
}
