package domain

import "fmt"

type NodeKind string

const (
	NodeProject     NodeKind = "project"
	NodePhase       NodeKind = "phase"
	NodeWorkPackage NodeKind = "work_package"
	NodeActivity    NodeKind = "activity"
	NodeTask        NodeKind = "task"
)

// nodeLevels maps every kind to its fixed depth in the hierarchy.
var nodeLevels = map[NodeKind]int{
	NodeProject:     1,
	NodePhase:       2,
	NodeWorkPackage: 3,
	NodeActivity:    4,
	NodeTask:        5,
}

// ParseNodeKind converts a user-supplied string into a NodeKind.
func ParseNodeKind(s string) (NodeKind, error) {
	k := NodeKind(s)
	if _, ok := nodeLevels[k]; !ok {
		return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown node kind %q (project|phase|work_package|activity|task)", s)}
	}
	return k, nil
}

// Level returns the 1-based depth of the kind, or 0 for an unknown kind.
func (k NodeKind) Level() int {
	return nodeLevels[k]
}

func (k NodeKind) IsLeaf() bool {
	return k == NodeTask
}

// ChildKind returns the kind expected directly below k. Tasks have no children.
func (k NodeKind) ChildKind() (NodeKind, bool) {
	switch k {
	case NodeProject:
		return NodePhase, true
	case NodePhase:
		return NodeWorkPackage, true
	case NodeWorkPackage:
		return NodeActivity, true
	case NodeActivity:
		return NodeTask, true
	default:
		return "", false
	}
}

// RelationKind is the closed set of scheduling relations between two tasks.
// The relation only labels an edge; it never changes graph topology.
type RelationKind string

const (
	FinishToStart  RelationKind = "finish_to_start"
	StartToStart   RelationKind = "start_to_start"
	FinishToFinish RelationKind = "finish_to_finish"
	StartToFinish  RelationKind = "start_to_finish"
)

// AllRelationKinds lists the relation kinds in display order.
var AllRelationKinds = []RelationKind{FinishToStart, StartToStart, FinishToFinish, StartToFinish}

func (r RelationKind) Valid() bool {
	switch r {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Short returns the conventional two-letter abbreviation (FS, SS, FF, SF).
func (r RelationKind) Short() string {
	switch r {
	case FinishToStart:
		return "FS"
	case StartToStart:
		return "SS"
	case FinishToFinish:
		return "FF"
	case StartToFinish:
		return "SF"
	}
	return "??"
}

// ParseRelationKind accepts either the full name or the two-letter abbreviation.
func ParseRelationKind(s string) (RelationKind, error) {
	for _, k := range AllRelationKinds {
		if s == string(k) || s == k.Short() {
			return k, nil
		}
	}
	return "", &ValidationError{Field: "relation", Message: fmt.Sprintf("unknown relation kind %q (FS|SS|FF|SF)", s)}
}
