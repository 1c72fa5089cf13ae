package translate

import (
	"fmt"

	"github.com/consuelo/flowbridge/pkg/models"
	"github.com/consuelo/flowbridge/pkg/n8n"
)

// Synthetic layout lane. Positions are hints for the engine's editor so
// nodes do not overlap; they carry no semantic weight.
const (
	laneX       = 250
	triggerY    = 300
	stepSpacing = 150
)

// StartNodeName labels the placeholder node emitted for an empty chain.
const StartNodeName = "Start"

// Graph is the encoded node/connection pair.
type Graph struct {
	Nodes       []n8n.Node
	Connections n8n.Connections
}

// Encode converts a trigger chain into the engine's graph shape. A chain of
// N steps yields exactly N nodes and N-1 edges on a single vertical lane.
// A nil trigger yields one placeholder start node and no edges: the graph
// is never empty.
func Encode(trigger *models.FlowTrigger) Graph {
	graph := Graph{Connections: n8n.Connections{}}

	if trigger == nil {
		graph.Nodes = append(graph.Nodes, n8n.Node{
			Name:        StartNodeName,
			Type:        NodeTypeStart,
			TypeVersion: 1,
			Position:    [2]int{laneX, triggerY},
			Parameters:  map[string]any{},
		})

		return graph
	}

	triggerNode := n8n.Node{
		Name:        nodeName(trigger.Name, "Trigger"),
		Type:        TriggerNodeType(trigger),
		TypeVersion: 1,
		Position:    [2]int{laneX, triggerY},
		Parameters:  parameters(trigger.Settings),
	}
	graph.Nodes = append(graph.Nodes, triggerNode)

	previous := triggerNode.Name
	y := triggerY + stepSpacing

	for action := trigger.NextAction; action != nil; action = action.NextAction {
		node := n8n.Node{
			Name:        nodeName(action.Name, fmt.Sprintf("Action_%d", len(graph.Nodes))),
			Type:        ActionNodeType(action),
			TypeVersion: 1,
			Position:    [2]int{laneX, y},
			Parameters:  parameters(action.Settings),
		}
		graph.Nodes = append(graph.Nodes, node)

		// The source chain is strictly linear, so each node sources at
		// most one edge: a single main group with a single target.
		ports := graph.Connections[previous]
		ports.Main = append(ports.Main, []n8n.Target{{
			Node:  node.Name,
			Type:  "main",
			Index: 0,
		}})
		graph.Connections[previous] = ports

		previous = node.Name
		y += stepSpacing
	}

	return graph
}

func nodeName(name, fallback string) string {
	if name == "" {
		return fallback
	}

	return name
}

func parameters(settings models.StepSettings) map[string]any {
	if settings.Input == nil {
		return map[string]any{}
	}

	return settings.Input
}
