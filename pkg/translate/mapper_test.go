package translate

import (
	"testing"

	"github.com/consuelo/flowbridge/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestTriggerNodeType(t *testing.T) {
	tests := []struct {
		name    string
		trigger *models.FlowTrigger
		want    string
	}{
		{name: "nil trigger", trigger: nil, want: NodeTypeWebhook},
		{
			name:    "webhook category",
			trigger: &models.FlowTrigger{Type: models.TriggerTypeWebhook},
			want:    NodeTypeWebhook,
		},
		{
			name:    "schedule category",
			trigger: &models.FlowTrigger{Type: models.TriggerTypeSchedule},
			want:    NodeTypeScheduleTrigger,
		},
		{
			name: "piece trigger resolved by name",
			trigger: &models.FlowTrigger{
				Type:     models.TriggerTypePiece,
				Settings: models.StepSettings{TriggerName: "email"},
			},
			want: NodeTypeEmailTrigger,
		},
		{
			name: "form trigger",
			trigger: &models.FlowTrigger{
				Type:     models.TriggerTypePiece,
				Settings: models.StepSettings{TriggerName: "form"},
			},
			want: NodeTypeFormTrigger,
		},
		{
			name: "unknown name falls back to webhook",
			trigger: &models.FlowTrigger{
				Type:     models.TriggerTypePiece,
				Settings: models.StepSettings{TriggerName: "carrier-pigeon"},
			},
			want: NodeTypeWebhook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TriggerNodeType(tt.trigger))
		})
	}
}

func TestActionNodeType(t *testing.T) {
	tests := []struct {
		name   string
		action *models.FlowAction
		want   string
	}{
		{name: "nil action", action: nil, want: NodeTypeHTTPRequest},
		{
			name:   "email",
			action: &models.FlowAction{Settings: models.StepSettings{ActionName: "email"}},
			want:   NodeTypeEmailSend,
		},
		{
			name:   "sms",
			action: &models.FlowAction{Settings: models.StepSettings{ActionName: "sms"}},
			want:   NodeTypeTwilio,
		},
		{
			name:   "delay",
			action: &models.FlowAction{Settings: models.StepSettings{ActionName: "delay"}},
			want:   NodeTypeWait,
		},
		{
			name:   "branch",
			action: &models.FlowAction{Settings: models.StepSettings{ActionName: "branch"}},
			want:   NodeTypeIf,
		},
		{
			name:   "code",
			action: &models.FlowAction{Settings: models.StepSettings{ActionName: "code"}},
			want:   NodeTypeCode,
		},
		{
			name:   "step name used when action name is empty",
			action: &models.FlowAction{Name: "webhook"},
			want:   NodeTypeHTTPRequest,
		},
		{
			name:   "unknown name falls back to http request",
			action: &models.FlowAction{Settings: models.StepSettings{ActionName: "fax"}},
			want:   NodeTypeHTTPRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionNodeType(tt.action))
		})
	}
}

func TestIsTriggerNodeType(t *testing.T) {
	assert.True(t, IsTriggerNodeType(NodeTypeWebhook))
	assert.True(t, IsTriggerNodeType(NodeTypeScheduleTrigger))
	assert.True(t, IsTriggerNodeType(NodeTypeStart))
	assert.True(t, IsTriggerNodeType("n8n-nodes-base.gmailTrigger"))
	assert.False(t, IsTriggerNodeType(NodeTypeEmailSend))
	assert.False(t, IsTriggerNodeType(NodeTypeHTTPRequest))
}

func TestTriggerCategory(t *testing.T) {
	assert.Equal(t, models.TriggerTypeWebhook, TriggerCategory(NodeTypeWebhook))
	assert.Equal(t, models.TriggerTypeSchedule, TriggerCategory(NodeTypeScheduleTrigger))
	assert.Equal(t, models.TriggerTypePiece, TriggerCategory(NodeTypeFormTrigger))
	assert.Equal(t, models.TriggerTypePiece, TriggerCategory(NodeTypeStart))
}
