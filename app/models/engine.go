package models

// mateScore anchors mate-in-N scores on the centipawn scale.
const mateScore = 32000

type UCIScore struct {
	// Exactly one of these will be set:
	CP   *int `json:"cp,omitempty"`   // centipawns, positive means advantage for side to move
	Mate *int `json:"mate,omitempty"` // in N, sign indicates who is mating (+ means side to move mates)
}

// Centipawns folds the score onto a single centipawn scale so that loss
// arithmetic stays total when the engine reports a forced mate. "mate 0"
// means the side to move is already checkmated. Returns false when the
// engine gave no score at all.
func (s UCIScore) Centipawns() (int, bool) {
	if s.CP != nil {
		return *s.CP, true
	}
	if s.Mate != nil {
		if *s.Mate > 0 {
			return mateScore - *s.Mate, true
		}
		return -mateScore - *s.Mate, true
	}
	return 0, false
}

// AnalysisLine is one ranked principal variation from a MultiPV search.
// Slices of these are ordered best-first.
type AnalysisLine struct {
	Rank  int      `json:"rank"`
	Score UCIScore `json:"score"`
	PV    []string `json:"pv"` // UCI moves; PV[0] is the line's first move
}

// EngineSettings drives how we query Stockfish for a position.
type EngineSettings struct {
	Depth      int  `json:"depth"`
	MoveTimeMS int  `json:"move_time_ms"`
	UseDepth   bool `json:"use_depth"` // if false, use movetime
	Lines      int  `json:"lines"`     // MultiPV count; <=1 requests a single line
}
