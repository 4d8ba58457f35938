package domain

// GraphSnapshot is a point-in-time view of every structure the engine keeps in sync.
type GraphSnapshot struct {
	Phase     Phase                       `json:"phase"`
	Execution []NodeSnapshot              `json:"execution"`
	Published []NodeSnapshot              `json:"published"`
	Registry  map[string]RegistrySnapshot `json:"registry"`
	Help      []HelpTopic                 `json:"help"`
}

// SnapshotNodes captures a list of top-level nodes.
func SnapshotNodes(nodes []*CommandNode) []NodeSnapshot {
	out := make([]NodeSnapshot, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Snapshot())
	}
	return out
}
