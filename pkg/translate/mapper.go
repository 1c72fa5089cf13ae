// Package translate maps the internal flow model (one trigger, a singly
// linked chain of actions) onto the engine's node/connection graph and back.
// The forward direction is exact; the reverse is a best-effort projection
// used only when no side-channel copy of the original chain exists.
package translate

import (
	"strings"

	"github.com/consuelo/flowbridge/pkg/models"
)

// Engine node type identifiers the mapper knows about.
const (
	NodeTypeStart           = "n8n-nodes-base.start"
	NodeTypeWebhook         = "n8n-nodes-base.webhook"
	NodeTypeScheduleTrigger = "n8n-nodes-base.scheduleTrigger"
	NodeTypeEmailTrigger    = "n8n-nodes-base.emailTrigger"
	NodeTypeFormTrigger     = "n8n-nodes-base.formTrigger"
	NodeTypeEmailSend       = "n8n-nodes-base.emailSend"
	NodeTypeTwilio          = "n8n-nodes-base.twilio"
	NodeTypeHTTPRequest     = "n8n-nodes-base.httpRequest"
	NodeTypeWait            = "n8n-nodes-base.wait"
	NodeTypeIf              = "n8n-nodes-base.if"
	NodeTypeCode            = "n8n-nodes-base.code"
)

// triggerNodeTypes maps internal trigger names to engine node types.
var triggerNodeTypes = map[string]string{
	"webhook":  NodeTypeWebhook,
	"schedule": NodeTypeScheduleTrigger,
	"email":    NodeTypeEmailTrigger,
	"form":     NodeTypeFormTrigger,
}

// actionNodeTypes maps internal action names to engine node types.
var actionNodeTypes = map[string]string{
	"email":   NodeTypeEmailSend,
	"sms":     NodeTypeTwilio,
	"webhook": NodeTypeHTTPRequest,
	"delay":   NodeTypeWait,
	"branch":  NodeTypeIf,
	"code":    NodeTypeCode,
}

// TriggerNodeType resolves the engine node type for a trigger step. The
// explicit category tag wins; otherwise the trigger name is matched against
// the known set. Unmatched input resolves to the webhook node type: this is
// a total function with a documented default, never a failure.
func TriggerNodeType(trigger *models.FlowTrigger) string {
	if trigger == nil {
		return NodeTypeWebhook
	}

	switch trigger.Type {
	case models.TriggerTypeWebhook:
		return NodeTypeWebhook
	case models.TriggerTypeSchedule:
		return NodeTypeScheduleTrigger
	case models.TriggerTypePiece:
	}

	if nodeType, ok := triggerNodeTypes[trigger.Settings.TriggerName]; ok {
		return nodeType
	}

	return NodeTypeWebhook
}

// ActionNodeType resolves the engine node type for an action step, keyed by
// the action name in settings (falling back to the step name). Unmatched
// input resolves to the generic HTTP request node.
func ActionNodeType(action *models.FlowAction) string {
	if action == nil {
		return NodeTypeHTTPRequest
	}

	name := action.Settings.ActionName
	if name == "" {
		name = action.Name
	}

	if nodeType, ok := actionNodeTypes[name]; ok {
		return nodeType
	}

	return NodeTypeHTTPRequest
}

// IsTriggerNodeType classifies an engine node type as trigger-like. Used
// when reconstructing a chain from a fetched graph.
func IsTriggerNodeType(nodeType string) bool {
	return strings.Contains(nodeType, "trigger") ||
		strings.Contains(nodeType, "Trigger") ||
		nodeType == NodeTypeWebhook ||
		nodeType == NodeTypeStart
}

// TriggerCategory infers the internal trigger category from an engine node
// type string. Lossy: many engine types collapse into PIECE_TRIGGER.
func TriggerCategory(nodeType string) models.TriggerType {
	switch {
	case strings.Contains(nodeType, "webhook"):
		return models.TriggerTypeWebhook
	case strings.Contains(nodeType, "schedule"):
		return models.TriggerTypeSchedule
	default:
		return models.TriggerTypePiece
	}
}
