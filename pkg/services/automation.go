package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/consuelo/flowbridge/pkg/eventbus"
	"github.com/consuelo/flowbridge/pkg/events"
	"github.com/consuelo/flowbridge/pkg/models"
	"github.com/consuelo/flowbridge/pkg/n8n"
	"github.com/consuelo/flowbridge/pkg/otelhelper"
	"github.com/consuelo/flowbridge/pkg/translate"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultProjectID labels flows for the dashboard. The engine has no
// project concept, so this is fixed.
const DefaultProjectID = "consuelo"

// Automation is the CRUD facade between the dashboard's flow model and the
// engine API. Every method is an independent call with no shared mutable
// state; the struct is safe for concurrent use.
type Automation struct {
	engine    *n8n.Client
	bus       eventbus.EventPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
	projectID string
}

// NewAutomation builds the facade. The event bus may be nil when no
// observer cares about lifecycle events.
func NewAutomation(engine *n8n.Client, bus eventbus.EventPublisher, logger *slog.Logger) *Automation {
	if logger == nil {
		logger = slog.Default()
	}

	return &Automation{
		engine:    engine,
		bus:       bus,
		logger:    logger,
		tracer:    noop.NewTracerProvider().Tracer("flowbridge"),
		projectID: DefaultProjectID,
	}
}

// UseTracer swaps the no-op tracer for a real one.
func (a *Automation) UseTracer(tracer trace.Tracer) {
	if tracer != nil {
		a.tracer = tracer
	}
}

// CreateFlowData is the inbound payload for creating a flow.
type CreateFlowData struct {
	DisplayName string              `json:"display_name" validate:"required"`
	FolderID    string              `json:"folder_id,omitempty"`
	Metadata    map[string]any      `json:"metadata,omitempty"`
	Trigger     *models.FlowTrigger `json:"trigger,omitempty"`
}

// UpdateFlowData is the inbound payload for a partial flow update. Nil
// fields are preserved from the engine's current copy.
type UpdateFlowData struct {
	DisplayName *string               `json:"display_name,omitempty"`
	Active      *bool                 `json:"active,omitempty"`
	Nodes       []n8n.Node            `json:"nodes,omitempty"`
	Connections n8n.Connections       `json:"connections,omitempty"`
	Settings    *n8n.WorkflowSettings `json:"settings,omitempty"`
	Trigger     *models.FlowTrigger   `json:"trigger,omitempty"`

	// ExpectedUpdatedAt turns the read-modify-write into a compare-and-swap:
	// when set, the update is rejected with ErrFlowModified if the engine
	// copy changed since that timestamp. Leave zero for last-write-wins.
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at,omitempty"`
}

// ListFlowsParams filter the flow listing. The cursor is opaque.
type ListFlowsParams struct {
	Active *bool  `json:"active,omitempty"`
	Tags   string `json:"tags,omitempty"`
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

// CreateFlow encodes the trigger chain into a node graph, stores the
// original chain verbatim in the workflow's static data so future reads
// bypass the lossy structural reconstruction, and POSTs the result.
func (a *Automation) CreateFlow(ctx context.Context, data CreateFlowData) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.create_flow",
		attribute.String(otelhelper.FlowNameKey, data.DisplayName))
	defer span.End()

	if data.DisplayName == "" {
		return nil, ErrDisplayNameRequired
	}

	markValidity(data.Trigger)

	graph := translate.Encode(data.Trigger)

	staticData := map[string]any{}
	for k, v := range data.Metadata {
		staticData[k] = v
	}

	if data.Trigger != nil {
		staticData[translate.TriggerMetadataKey] = data.Trigger
	}

	workflow := &n8n.Workflow{
		Name:        data.DisplayName,
		Nodes:       graph.Nodes,
		Connections: graph.Connections,
		Settings: &n8n.WorkflowSettings{
			SaveExecutionProgress:    true,
			SaveManualExecutions:     true,
			SaveDataErrorExecution:   "all",
			SaveDataSuccessExecution: "all",
		},
		StaticData: staticData,
	}

	a.logger.InfoContext(ctx, "creating flow",
		"display_name", data.DisplayName, "steps", data.Trigger.Length())

	created, err := a.engine.CreateWorkflow(ctx, workflow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if data.FolderID != "" {
		// Tag attach is best-effort: the workflow exists either way.
		if err := a.engine.UpdateWorkflowTags(ctx, created.ID, []string{data.FolderID}); err != nil {
			a.logger.WarnContext(ctx, "failed to attach flow to folder",
				"flow_id", created.ID, "folder_id", data.FolderID, "error", err)
		}
	}

	flow := a.toFlow(created, data.Trigger)
	span.SetAttributes(attribute.String(otelhelper.FlowIDKey, flow.ID))

	a.publish(ctx, flow.ID, events.FlowCreated{
		BaseEvent:   events.NewBaseEvent(events.FlowCreatedEvent, flow.ID),
		DisplayName: flow.Version.DisplayName,
		StepCount:   flow.Version.Trigger.Length(),
	})

	return flow, nil
}

// UpdateFlow is a read-modify-write: the current engine copy is fetched,
// the supplied fields are overlaid, and the merged result is PUT back.
// Without ExpectedUpdatedAt the last write wins.
func (a *Automation) UpdateFlow(ctx context.Context, id string, data UpdateFlowData) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.update_flow",
		attribute.String(otelhelper.FlowIDKey, id))
	defer span.End()

	if id == "" {
		return nil, ErrFlowIDRequired
	}

	existing, err := a.engine.GetWorkflow(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	if data.ExpectedUpdatedAt != nil && !existing.UpdatedAt.Equal(*data.ExpectedUpdatedAt) {
		otelhelper.SetError(span, ErrFlowModified)

		return nil, ErrFlowModified
	}

	nodes := existing.Nodes
	connections := existing.Connections

	if data.Trigger != nil {
		markValidity(data.Trigger)
		graph := translate.Encode(data.Trigger)
		nodes = graph.Nodes
		connections = graph.Connections
	}

	if data.Nodes != nil {
		nodes = data.Nodes
	}

	if data.Connections != nil {
		connections = data.Connections
	}

	merged := *existing
	merged.Nodes = nodes
	merged.Connections = connections

	if data.DisplayName != nil {
		merged.Name = *data.DisplayName
	}

	if data.Active != nil {
		merged.Active = *data.Active
	}

	staticData := map[string]any{}
	for k, v := range existing.StaticData {
		staticData[k] = v
	}

	if data.Trigger != nil {
		staticData[translate.TriggerMetadataKey] = data.Trigger
	}

	merged.Settings = mergedSettings(existing.Settings, data.Settings)
	merged.StaticData = staticData

	a.logger.InfoContext(ctx, "updating flow", "flow_id", id)

	updated, err := a.engine.UpdateWorkflow(ctx, id, &merged)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	flow := a.toFlow(updated, data.Trigger)

	a.publish(ctx, flow.ID, events.FlowUpdated{
		BaseEvent:   events.NewBaseEvent(events.FlowUpdatedEvent, flow.ID),
		DisplayName: flow.Version.DisplayName,
	})

	return flow, nil
}

// mergedSettings overlays the supplied settings onto the current ones,
// preserving engine-side fields the caller did not touch.
func mergedSettings(current, override *n8n.WorkflowSettings) *n8n.WorkflowSettings {
	if override == nil {
		return current
	}

	if current == nil {
		return override
	}

	merged := *override
	if merged.Timezone == "" {
		merged.Timezone = current.Timezone
	}

	if merged.ErrorWorkflow == "" {
		merged.ErrorWorkflow = current.ErrorWorkflow
	}

	if merged.ExecutionOrder == "" {
		merged.ExecutionOrder = current.ExecutionOrder
	}

	return &merged
}

// GetFlow fetches one flow by ID.
func (a *Automation) GetFlow(ctx context.Context, id string) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.get_flow",
		attribute.String(otelhelper.FlowIDKey, id))
	defer span.End()

	if id == "" {
		return nil, ErrFlowIDRequired
	}

	workflow, err := a.engine.GetWorkflow(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return a.toFlow(workflow, nil), nil
}

// ListFlows pages through the engine workflows, translating each one.
func (a *Automation) ListFlows(ctx context.Context, params ListFlowsParams) (*models.Page[*models.Flow], error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.list_flows")
	defer span.End()

	page, err := a.engine.ListWorkflows(ctx, n8n.ListWorkflowsParams{
		Active: params.Active,
		Tags:   params.Tags,
		Name:   params.Name,
		Limit:  params.Limit,
		Cursor: params.Cursor,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	flows := make([]*models.Flow, 0, len(page.Data))
	for i := range page.Data {
		flows = append(flows, a.toFlow(&page.Data[i], nil))
	}

	return &models.Page[*models.Flow]{
		Data:       flows,
		NextCursor: cursorOrNil(page.NextCursor),
	}, nil
}

// DeleteFlow removes the flow immediately. There is no soft delete.
func (a *Automation) DeleteFlow(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.delete_flow",
		attribute.String(otelhelper.FlowIDKey, id))
	defer span.End()

	if id == "" {
		return ErrFlowIDRequired
	}

	a.logger.InfoContext(ctx, "deleting flow", "flow_id", id)

	if err := a.engine.DeleteWorkflow(ctx, id); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	a.publish(ctx, id, events.FlowDeleted{
		BaseEvent: events.NewBaseEvent(events.FlowDeletedEvent, id),
	})

	return nil
}

// ActivateFlow enables the flow on the engine.
func (a *Automation) ActivateFlow(ctx context.Context, id string) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.activate_flow",
		attribute.String(otelhelper.FlowIDKey, id))
	defer span.End()

	workflow, err := a.engine.ActivateWorkflow(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	flow := a.toFlow(workflow, nil)

	a.publish(ctx, id, events.FlowActivated{
		BaseEvent: events.NewBaseEvent(events.FlowActivatedEvent, id),
	})

	return flow, nil
}

// DeactivateFlow disables the flow on the engine.
func (a *Automation) DeactivateFlow(ctx context.Context, id string) (*models.Flow, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.deactivate_flow",
		attribute.String(otelhelper.FlowIDKey, id))
	defer span.End()

	workflow, err := a.engine.DeactivateWorkflow(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	flow := a.toFlow(workflow, nil)

	a.publish(ctx, id, events.FlowDeactivated{
		BaseEvent: events.NewBaseEvent(events.FlowDeactivatedEvent, id),
	})

	return flow, nil
}

// WebhookURL synthesizes the public webhook address for a flow.
func (a *Automation) WebhookURL(flowID, webhookPath string) string {
	return a.engine.WebhookURL(flowID, webhookPath)
}

// HealthCheck verifies the engine is reachable and the key is accepted.
func (a *Automation) HealthCheck(ctx context.Context) error {
	_, err := a.engine.ListWorkflows(ctx, n8n.ListWorkflowsParams{Limit: 1})

	return err
}

// toFlow decodes an engine workflow, preferring the side-channel chain and
// falling back to the caller's own trigger when the engine did not echo the
// static data back.
func (a *Automation) toFlow(workflow *n8n.Workflow, fallback *models.FlowTrigger) *models.Flow {
	flow := translate.Decode(workflow)
	flow.ProjectID = a.projectID

	if translate.SideChannelTrigger(workflow) == nil && fallback != nil {
		flow.Version.Trigger = fallback
	}

	return flow
}

// publish sends a lifecycle event. Failures are logged, never surfaced: the
// engine write already succeeded and must not be reported as failed.
func (a *Automation) publish(ctx context.Context, key string, event eventbus.Event) {
	if a.bus == nil {
		return
	}

	if err := a.bus.Publish(ctx, key, event); err != nil {
		a.logger.WarnContext(ctx, "failed to publish event",
			"event_type", event.GetType(), "key", key, "error", err)
	}
}

func cursorOrNil(cursor string) *string {
	if cursor == "" {
		return nil
	}

	return &cursor
}

// mapExecutionStatus translates an engine execution record to the internal
// run status. PAUSED and STOPPED are never produced here; the engine does
// not expose enough to distinguish them today.
func mapExecutionStatus(execution *n8n.Execution) models.FlowRunStatus {
	if !execution.Finished {
		return models.FlowRunStatusRunning
	}

	if execution.Data != nil && execution.Data.ResultData.Error != nil {
		return models.FlowRunStatusFailed
	}

	return models.FlowRunStatusSucceeded
}

func mapExecutionEnvironment(mode string) models.FlowRunEnvironment {
	if mode == "manual" {
		return models.FlowRunEnvironmentTesting
	}

	return models.FlowRunEnvironmentProduction
}

func (a *Automation) toFlowRun(execution *n8n.Execution) *models.FlowRun {
	updated := execution.StartedAt
	if execution.StoppedAt != nil {
		updated = *execution.StoppedAt
	}

	steps := map[string]any{}
	if execution.Data != nil && execution.Data.ResultData.RunData != nil {
		steps = execution.Data.ResultData.RunData
	}

	return &models.FlowRun{
		ID:              strconv.FormatInt(execution.ID, 10),
		Created:         execution.StartedAt,
		Updated:         updated,
		ProjectID:       a.projectID,
		FlowID:          execution.WorkflowID,
		FlowVersionID:   execution.WorkflowID,
		FlowDisplayName: "Workflow",
		Status:          mapExecutionStatus(execution),
		StartTime:       execution.StartedAt,
		FinishTime:      execution.StoppedAt,
		Environment:     mapExecutionEnvironment(execution.Mode),
		Steps:           steps,
	}
}

// GetFlowRun fetches one execution record.
func (a *Automation) GetFlowRun(ctx context.Context, id string) (*models.FlowRun, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.get_flow_run",
		attribute.String(otelhelper.RunIDKey, id))
	defer span.End()

	execution, err := a.engine.GetExecution(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return a.toFlowRun(execution), nil
}

// ListFlowRunsParams filter the run listing.
type ListFlowRunsParams struct {
	FlowID string `json:"flow_id,omitempty"`
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

// ListFlowRuns pages through engine executions.
func (a *Automation) ListFlowRuns(ctx context.Context, params ListFlowRunsParams) (*models.Page[*models.FlowRun], error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.list_flow_runs")
	defer span.End()

	page, err := a.engine.ListExecutions(ctx, n8n.ListExecutionsParams{
		WorkflowID: params.FlowID,
		Status:     params.Status,
		Limit:      params.Limit,
		Cursor:     params.Cursor,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	runs := make([]*models.FlowRun, 0, len(page.Data))
	for i := range page.Data {
		runs = append(runs, a.toFlowRun(&page.Data[i]))
	}

	return &models.Page[*models.FlowRun]{
		Data:       runs,
		NextCursor: cursorOrNil(page.NextCursor),
	}, nil
}
