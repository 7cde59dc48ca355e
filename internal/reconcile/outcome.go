package reconcile

// Outcome reports what an engine operation did to the local tree. Failures
// are returned as classified errors alongside OutcomeFailed.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	// OutcomeApplied means the remote service confirmed the operation and
	// the local tree was updated.
	OutcomeApplied
	// OutcomeNoOp means the requested status equals the current one; no
	// remote call was made.
	OutcomeNoOp
	// OutcomeEmptyProject means generation succeeded but produced no
	// tasks; the tree is now empty.
	OutcomeEmptyProject
	// OutcomeIncompleteRefresh means the remote confirmed the update but
	// the response could not be matched to a cached node, so only a
	// repaint was triggered.
	OutcomeIncompleteRefresh
)

var outcomeNames = map[Outcome]string{
	OutcomeFailed:            "failed",
	OutcomeApplied:           "applied",
	OutcomeNoOp:              "no-op",
	OutcomeEmptyProject:      "empty project",
	OutcomeIncompleteRefresh: "incomplete refresh",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}
