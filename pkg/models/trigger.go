package models

// TriggerType is the coarse category tag for a trigger step.
type TriggerType string

const (
	TriggerTypePiece    TriggerType = "PIECE_TRIGGER"
	TriggerTypeWebhook  TriggerType = "WEBHOOK"
	TriggerTypeSchedule TriggerType = "SCHEDULE"
)

// ActionType is the coarse category tag for an action step.
type ActionType string

const (
	ActionTypePiece  ActionType = "PIECE_ACTION"
	ActionTypeCode   ActionType = "CODE"
	ActionTypeBranch ActionType = "BRANCH"
)

// StepSettings carries the configuration of a single step. Input is the
// arbitrary key/value bag consumed by the engine node's parameters.
type StepSettings struct {
	PieceName    string         `json:"piece_name,omitempty"`
	PieceVersion string         `json:"piece_version,omitempty"`
	TriggerName  string         `json:"trigger_name,omitempty"`
	ActionName   string         `json:"action_name,omitempty"`
	Input        map[string]any `json:"input,omitempty"`
}

// FlowTrigger is the unique entry point of a flow. Actions hang off it as a
// singly-linked list via NextAction: no branching, no fan-in, no cycles.
type FlowTrigger struct {
	Name        string       `json:"name" validate:"required"`
	DisplayName string       `json:"display_name"`
	Valid       bool         `json:"valid"`
	Type        TriggerType  `json:"type"`
	Settings    StepSettings `json:"settings"`
	NextAction  *FlowAction  `json:"next_action,omitempty"`
}

// FlowAction is one link of the action chain.
type FlowAction struct {
	Name        string       `json:"name" validate:"required"`
	DisplayName string       `json:"display_name"`
	Valid       bool         `json:"valid"`
	Type        ActionType   `json:"type"`
	Settings    StepSettings `json:"settings"`
	NextAction  *FlowAction  `json:"next_action,omitempty"`
}

// Actions flattens the action chain in order, excluding the trigger itself.
func (t *FlowTrigger) Actions() []*FlowAction {
	var out []*FlowAction
	for a := t.NextAction; a != nil; a = a.NextAction {
		out = append(out, a)
	}

	return out
}

// Length is the total number of steps in the chain, trigger included.
func (t *FlowTrigger) Length() int {
	if t == nil {
		return 0
	}

	return 1 + len(t.Actions())
}

// ChainEqual reports whether two chains have the same shape: same step
// count, same names and same category tags, walked front to back. Step
// settings are intentionally not compared; the engine echoes parameters
// back with formatting differences.
func ChainEqual(a, b *FlowTrigger) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Name != b.Name || a.Type != b.Type {
		return false
	}

	x, y := a.NextAction, b.NextAction
	for x != nil && y != nil {
		if x.Name != y.Name || x.Type != y.Type {
			return false
		}

		x, y = x.NextAction, y.NextAction
	}

	return x == nil && y == nil
}
