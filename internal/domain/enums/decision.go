package enums

// Decision is the per-side state of a matching negotiation. Accepted and
// refused are terminal: once a team has responded the decision never changes.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionAccepted Decision = "accepted"
	DecisionRefused  Decision = "refused"
)

func (d Decision) Responded() bool {
	return d == DecisionAccepted || d == DecisionRefused
}
