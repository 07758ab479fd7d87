package engine

// State is the session state machine.
//
//	NotStarted --game start signal--> InGame
//	InGame --reset / save and quit--> NotStarted
//	InGame --victory / end credits--> PostCredits
//
// PostCredits is terminal; only a clear command leaves it.
type State int32

const (
	NotStarted State = iota
	InGame
	PostCredits
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InGame:
		return "in_game"
	case PostCredits:
		return "post_credits"
	}
	return "unknown"
}

// Session control ids from the declarative data.
const (
	// ResetEventID is the console reset event.
	ResetEventID = 0

	// SaveQuitEventID is the save and quit event.
	SaveQuitEventID = 15

	// VictoryEventID is the event that ends a run.
	VictoryEventID = 5

	// EndCreditsTileID is the tile shown once the run is over.
	EndCreditsTileID = 556
)

// pausesGame reports whether a detected event takes the session out of the
// game until the start signal is seen again.
func pausesGame(id int) bool {
	return id == ResetEventID || id == SaveQuitEventID
}
