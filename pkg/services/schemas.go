package services

import (
	"github.com/consuelo/flowbridge/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// triggerSchemas and actionSchemas declare the required configuration for
// the step kinds the dashboard editor produces. A step failing its schema
// is encoded with Valid=false so the editor can surface the gap; unknown
// kinds are never rejected, matching the mapper's default-safe behavior.
var triggerSchemas = map[string]string{
	"webhook": `{
		"type": "object",
		"properties": {
			"path":   {"type": "string"},
			"method": {"type": "string"}
		}
	}`,
	"schedule": `{
		"type": "object",
		"required": ["rule"],
		"properties": {
			"rule": {
				"type": "object",
				"properties": {
					"cronExpression": {"type": "string"}
				}
			}
		}
	}`,
	"email": `{
		"type": "object",
		"required": ["mailbox"],
		"properties": {
			"mailbox": {"type": "string", "minLength": 1}
		}
	}`,
	"form": `{
		"type": "object",
		"properties": {
			"fields": {"type": "array"}
		}
	}`,
}

var actionSchemas = map[string]string{
	"email": `{
		"type": "object",
		"required": ["to", "subject"],
		"properties": {
			"to":      {"type": "string", "minLength": 1},
			"subject": {"type": "string", "minLength": 1},
			"body":    {"type": "string"}
		}
	}`,
	"sms": `{
		"type": "object",
		"required": ["to", "message"],
		"properties": {
			"to":      {"type": "string", "minLength": 1},
			"message": {"type": "string", "minLength": 1}
		}
	}`,
	"webhook": `{
		"type": "object",
		"required": ["url"],
		"properties": {
			"url":    {"type": "string", "minLength": 1},
			"method": {"type": "string"}
		}
	}`,
	"delay": `{
		"type": "object",
		"required": ["amount"],
		"properties": {
			"amount": {"type": "number", "minimum": 0},
			"unit":   {"type": "string", "enum": ["seconds", "minutes", "hours", "days"]}
		}
	}`,
	"branch": `{
		"type": "object",
		"required": ["condition"],
		"properties": {
			"condition": {"type": "string", "minLength": 1}
		}
	}`,
	"code": `{
		"type": "object",
		"required": ["source"],
		"properties": {
			"source":   {"type": "string", "minLength": 1},
			"language": {"type": "string"}
		}
	}`,
}

// validateStepSettings checks a step's input against the schema for its
// kind. Unknown kinds validate trivially.
func validateStepSettings(schemas map[string]string, kind string, input map[string]any) bool {
	schema, ok := schemas[kind]
	if !ok {
		return true
	}

	if input == nil {
		input = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewGoLoader(input),
	)
	if err != nil {
		return false
	}

	return result.Valid()
}

// markValidity recomputes the Valid flag of every step in the chain from
// its settings schema.
func markValidity(trigger *models.FlowTrigger) {
	if trigger == nil {
		return
	}

	kind := trigger.Settings.TriggerName
	if kind == "" {
		kind = trigger.Name
	}

	trigger.Valid = validateStepSettings(triggerSchemas, kind, trigger.Settings.Input)

	for action := trigger.NextAction; action != nil; action = action.NextAction {
		name := action.Settings.ActionName
		if name == "" {
			name = action.Name
		}

		action.Valid = validateStepSettings(actionSchemas, name, action.Settings.Input)
	}
}
