package game

// State is the controller's position in the round lifecycle.
type State int

const (
	// StateIdle means no match is running.
	StateIdle State = iota
	// StatePlayback means the sequence is being presented; input is ignored.
	StatePlayback
	// StatePlayerTurn means the controller is collecting the replication.
	StatePlayerTurn
	// StateCalculating is the suspense window between the last tap and the
	// reveal. Scoring is already determined; the delay is presentation.
	StateCalculating
	// StateScoring means the round's outcome is available and the match
	// waits for NextRound.
	StateScoring
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlayback:
		return "playback"
	case StatePlayerTurn:
		return "player_turn"
	case StateCalculating:
		return "calculating"
	case StateScoring:
		return "scoring"
	default:
		return "unknown"
	}
}
