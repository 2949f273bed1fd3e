package workflow

// TransitionKind classifies a sales-letter status transition. The kind
// selects the side effects applied alongside the status write; the status
// values themselves come from reference-value data, so any resolvable status
// is reachable and the only gate is the current-status precondition.
type TransitionKind string

const (
	KindUpdate           TransitionKind = "UPDATE"
	KindNotified         TransitionKind = "NOTIFIED"
	KindReleased         TransitionKind = "RELEASED"
	KindEscalationUpdate TransitionKind = "ESCALATION_UPDATE"
	KindRework           TransitionKind = "REWORK"
	KindReworkRequested  TransitionKind = "REWORK_REQUESTED"
	KindEscalated        TransitionKind = "ESCALATED"
	KindAccepted         TransitionKind = "ACCEPTED"
)

var validKinds = map[TransitionKind]bool{
	KindUpdate:           true,
	KindNotified:         true,
	KindReleased:         true,
	KindEscalationUpdate: true,
	KindRework:           true,
	KindReworkRequested:  true,
	KindEscalated:        true,
	KindAccepted:         true,
}

// IsValid reports whether the kind is one of the known transition kinds.
func (k TransitionKind) IsValid() bool {
	return validKinds[k]
}

// String returns the string representation of the kind.
func (k TransitionKind) String() string {
	return string(k)
}
