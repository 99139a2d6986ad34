package node

import (
	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
)

// Notify handles an unsolicited "I may be your predecessor" message from
// candidate. It is accepted when no predecessor is currently known, or when
// candidate lies strictly between the current predecessor and self —
// i.e. candidate is a closer predecessor than the one already recorded.
//
// Replica ownership is not adjusted here: stores are owner-keyed and
// replicated by AddKey's eager fan-out plus the periodic replication loop,
// so a predecessor change does not by itself move any data.
func (n *Node) Notify(candidate *domain.Node) {
	if candidate == nil || candidate.ID.Equal(n.self.ID) {
		return
	}
	pred := n.rt.GetPredecessor()
	if pred == nil || candidate.ID.InOpenRange(pred.ID, n.self.ID) {
		n.rt.SetPredecessor(candidate)
		n.lgr.Debug("Notify: accepted new predecessor", logger.FNode("candidate", candidate))
	}
}
