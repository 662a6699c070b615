package entity

// WorkflowGraph is a directed host-transition graph without self loops.
type WorkflowGraph struct {
	Nodes []WorkflowNode `json:"nodes"`
	Edges []WorkflowEdge `json:"edges"`
}

type WorkflowNode struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Host  string         `json:"host"`
	Stats map[string]int `json:"stats"`
}

// WorkflowEdge counts consecutive transitions Source -> Target. Label is nil for
// transitions seen exactly once.
type WorkflowEdge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Count  int     `json:"count"`
	Label  *string `json:"label"`
}
