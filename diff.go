package flipbook

import "sort"

// GraphDiff is the structural delta between two snapshots. Derived, never
// stored: Session computes one per cel pair at encode time.
//
// Comparison is by structural identity only — an edge whose color or weight
// changed while its endpoints stayed put is neither added nor removed, and
// nodes present in both snapshots are common regardless of attribute changes
// (attributes interpolate; existence does not).
type GraphDiff struct {
	CommonNodes  []NodeID
	AddedNodes   []NodeID
	RemovedNodes []NodeID

	AddedEdges   []GraphEdge
	RemovedEdges []GraphEdge

	AddedArrows   []GraphArrow
	RemovedArrows []GraphArrow
}

// DiffStates computes the structural delta from start to end in
// O(|nodes|+|edges|+|arrows|). Node id slices are sorted so output is
// deterministic regardless of map iteration order.
func DiffStates(start, end *GraphState) *GraphDiff {
	d := &GraphDiff{}

	for id := range start.Nodes {
		if _, ok := end.Nodes[id]; ok {
			d.CommonNodes = append(d.CommonNodes, id)
		} else {
			d.RemovedNodes = append(d.RemovedNodes, id)
		}
	}
	for id := range end.Nodes {
		if _, ok := start.Nodes[id]; !ok {
			d.AddedNodes = append(d.AddedNodes, id)
		}
	}
	sortNodeIDs(d.CommonNodes)
	sortNodeIDs(d.AddedNodes)
	sortNodeIDs(d.RemovedNodes)

	startEdges := make(map[edgeKey]struct{}, len(start.Edges))
	for _, e := range start.Edges {
		startEdges[e.key()] = struct{}{}
	}
	endEdges := make(map[edgeKey]struct{}, len(end.Edges))
	for _, e := range end.Edges {
		endEdges[e.key()] = struct{}{}
	}
	for _, e := range start.Edges {
		if _, ok := endEdges[e.key()]; !ok {
			d.RemovedEdges = append(d.RemovedEdges, e)
		}
	}
	for _, e := range end.Edges {
		if _, ok := startEdges[e.key()]; !ok {
			d.AddedEdges = append(d.AddedEdges, e)
		}
	}

	startArrows := make(map[arrowKey]struct{}, len(start.Arrows))
	for _, a := range start.Arrows {
		startArrows[a.key()] = struct{}{}
	}
	endArrows := make(map[arrowKey]struct{}, len(end.Arrows))
	for _, a := range end.Arrows {
		endArrows[a.key()] = struct{}{}
	}
	for _, a := range start.Arrows {
		if _, ok := endArrows[a.key()]; !ok {
			d.RemovedArrows = append(d.RemovedArrows, a)
		}
	}
	for _, a := range end.Arrows {
		if _, ok := startArrows[a.key()]; !ok {
			d.AddedArrows = append(d.AddedArrows, a)
		}
	}

	return d
}

func sortNodeIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
