package translate

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/consuelo/flowbridge/pkg/models"
	"github.com/consuelo/flowbridge/pkg/n8n"
)

// TriggerMetadataKey is where the original chain travels inside the engine
// workflow's static data. The copy stored there is authoritative; the graph
// is a derived projection regenerated on every write.
const TriggerMetadataKey = "trigger"

var (
	// ErrNoTriggerNode is returned by DecodeStrict when no trigger-like
	// node exists in the fetched graph.
	ErrNoTriggerNode = errors.New("workflow has no trigger node")

	// ErrUnsupportedTopology is returned by DecodeStrict when the graph is
	// not chain-shaped: branching, fan-in, a cycle, or a dangling edge.
	ErrUnsupportedTopology = errors.New("workflow graph is not a linear chain")
)

// Decode reconstructs a flow from an engine workflow. When the workflow
// carries a side-channel copy of the original chain, that copy wins; the
// structural walk is a lossy fallback for workflows authored directly in
// the engine's own editor. Branches beyond the first outgoing edge are
// silently dropped, and a missing trigger node yields a placeholder
// trigger with Valid=false rather than an error.
func Decode(workflow *n8n.Workflow) *models.Flow {
	flow := decodeEnvelope(workflow)
	flow.Version.Trigger = decodeChain(workflow)

	if stored := SideChannelTrigger(workflow); stored != nil {
		flow.Version.Trigger = stored
	}

	return flow
}

// DecodeStrict is Decode with the lossiness made explicit: any graph the
// chain model cannot represent faithfully is rejected with a typed error
// instead of being silently projected. The side channel, when present, is
// still preferred over the structural walk.
func DecodeStrict(workflow *n8n.Workflow) (*models.Flow, error) {
	if err := checkLinear(workflow); err != nil {
		return nil, err
	}

	return Decode(workflow), nil
}

// decodeEnvelope maps everything except the trigger chain.
func decodeEnvelope(workflow *n8n.Workflow) *models.Flow {
	status := models.FlowStatusDisabled
	if workflow.Active {
		status = models.FlowStatusEnabled
	}

	var folderID *string
	if len(workflow.Tags) > 0 {
		folderID = &workflow.Tags[0].ID
	}

	return &models.Flow{
		ID:         workflow.ID,
		Created:    workflow.CreatedAt,
		Updated:    workflow.UpdatedAt,
		ExternalID: workflow.ID,
		FolderID:   folderID,
		Status:     status,
		Schedule:   ExtractSchedule(workflow),
		Metadata:   workflow.StaticData,
		Version: models.FlowVersion{
			ID:            workflow.ID,
			Created:       workflow.CreatedAt,
			Updated:       workflow.UpdatedAt,
			FlowID:        workflow.ID,
			DisplayName:   workflow.Name,
			Valid:         true,
			State:         models.FlowVersionStateLocked,
			ConnectionIDs: ExtractConnectionIDs(workflow),
		},
	}
}

// decodeChain rebuilds the trigger chain from the graph structure alone.
func decodeChain(workflow *n8n.Workflow) *models.FlowTrigger {
	triggerNode := findTriggerNode(workflow)
	if triggerNode == nil {
		// Untranslatable workflow: a defined placeholder state, not an
		// error, so listings over mixed workflows stay usable.
		return &models.FlowTrigger{
			Name:        "trigger",
			DisplayName: "Trigger",
			Valid:       false,
			Type:        models.TriggerTypePiece,
			Settings:    models.StepSettings{Input: map[string]any{}},
		}
	}

	return &models.FlowTrigger{
		Name:        triggerNode.Name,
		DisplayName: triggerNode.Name,
		Valid:       !triggerNode.Disabled,
		Type:        TriggerCategory(triggerNode.Type),
		Settings: models.StepSettings{
			PieceName:   triggerNode.Type,
			TriggerName: triggerNode.Type,
			Input:       triggerNode.Parameters,
		},
		NextAction: buildNextActions(workflow, triggerNode.Name, map[string]bool{triggerNode.Name: true}),
	}
}

// buildNextActions walks forward following only the first target of the
// first main connection group. Additional edges are the designed lossy
// reduction: a general graph projected onto the chain model. A dangling
// edge or a revisited node terminates the chain.
func buildNextActions(workflow *n8n.Workflow, nodeName string, visited map[string]bool) *models.FlowAction {
	target, ok := workflow.Connections.FirstMain(nodeName)
	if !ok {
		return nil
	}

	next := findNode(workflow, target.Node)
	if next == nil || visited[next.Name] {
		return nil
	}

	visited[next.Name] = true

	return &models.FlowAction{
		Name:        next.Name,
		DisplayName: next.Name,
		Valid:       !next.Disabled,
		Type:        models.ActionTypePiece,
		Settings: models.StepSettings{
			PieceName:  next.Type,
			ActionName: next.Type,
			Input:      next.Parameters,
		},
		NextAction: buildNextActions(workflow, next.Name, visited),
	}
}

// checkLinear verifies the graph is representable as a chain: a trigger
// exists, every node has at most one incoming and one outgoing main edge,
// and every edge points at a known node.
func checkLinear(workflow *n8n.Workflow) error {
	if findTriggerNode(workflow) == nil {
		return ErrNoTriggerNode
	}

	known := make(map[string]bool, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		known[node.Name] = true
	}

	inbound := map[string]int{}

	for source, ports := range workflow.Connections {
		if workflow.Connections.OutDegree(source) > 1 {
			return ErrUnsupportedTopology
		}

		for _, group := range ports.Main {
			for _, target := range group {
				if !known[target.Node] {
					return ErrUnsupportedTopology
				}

				inbound[target.Node]++
				if inbound[target.Node] > 1 {
					return ErrUnsupportedTopology
				}
			}
		}
	}

	return nil
}

func findTriggerNode(workflow *n8n.Workflow) *n8n.Node {
	for i := range workflow.Nodes {
		if IsTriggerNodeType(workflow.Nodes[i].Type) {
			return &workflow.Nodes[i]
		}
	}

	return nil
}

func findNode(workflow *n8n.Workflow, name string) *n8n.Node {
	for i := range workflow.Nodes {
		if workflow.Nodes[i].Name == name {
			return &workflow.Nodes[i]
		}
	}

	return nil
}

// SideChannelTrigger recovers the chain stored in the workflow's static
// data, if any. The value round-trips through JSON because the engine hands
// static data back as untyped maps.
func SideChannelTrigger(workflow *n8n.Workflow) *models.FlowTrigger {
	if workflow.StaticData == nil {
		return nil
	}

	raw, ok := workflow.StaticData[TriggerMetadataKey]
	if !ok || raw == nil {
		return nil
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	var trigger models.FlowTrigger
	if err := json.Unmarshal(payload, &trigger); err != nil {
		return nil
	}

	if trigger.Name == "" {
		return nil
	}

	return &trigger
}

// ExtractSchedule derives the cron descriptor from a schedule trigger node.
// Pure projection with documented defaults, never a failure path.
func ExtractSchedule(workflow *n8n.Workflow) *models.Schedule {
	node := findNodeByType(workflow, NodeTypeScheduleTrigger)
	if node == nil {
		return nil
	}

	expression := ""
	if rule, ok := node.Parameters["rule"].(map[string]any); ok {
		expression, _ = rule["cronExpression"].(string)
	}

	timezone := ""
	if workflow.Settings != nil {
		timezone = workflow.Settings.Timezone
	}

	return models.NewSchedule(expression, timezone)
}

func findNodeByType(workflow *n8n.Workflow, nodeType string) *n8n.Node {
	for i := range workflow.Nodes {
		if workflow.Nodes[i].Type == nodeType {
			return &workflow.Nodes[i]
		}
	}

	return nil
}

// ExtractConnectionIDs collects every credential reference across all
// nodes, deduplicated. Order follows the sorted ID set, not node order.
func ExtractConnectionIDs(workflow *n8n.Workflow) []string {
	seen := map[string]bool{}

	for _, node := range workflow.Nodes {
		for _, credentialID := range node.Credentials {
			if credentialID != "" {
				seen[credentialID] = true
			}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
