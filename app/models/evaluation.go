package models

// EvaluateRequest is the handler input envelope.
type EvaluateRequest struct {
	FEN        string `json:"fen"`
	LLMMoveSAN string `json:"llm_move_san"`
	TopN       int    `json:"top_n"`   // defaults to 3 when omitted
	MultiPV    bool   `json:"multipv"` // report all requested lines, not just the best
}

// EvaluationReport is what we return to the caller. Numeric fields are
// pointers so a failed evaluation carries no accidental zeros; on failure
// only Error (and LLMColor, when known) are set. The illegal-move case is
// the one exception: it carries the sentinel eval/loss alongside Error.
type EvaluationReport struct {
	StockfishMoves []string `json:"stockfish_moves,omitempty"` // engine's ranked first moves, UCI
	StockfishEval  *int     `json:"stockfish_eval,omitempty"`  // best score, relative to side to move
	LLMMove        string   `json:"llm_move,omitempty"`        // resolved UCI, or raw text if illegal
	PostMoveFEN    string   `json:"post_move_fen,omitempty"`
	LLMEval        *int     `json:"llm_eval,omitempty"` // score after the move, relative to opponent
	CentipawnLoss  *int     `json:"centipawn_loss,omitempty"`
	MoveQuality    string   `json:"move_quality,omitempty"`
	LLMColor       string   `json:"llm_color,omitempty"` // "white" or "black"
	Error          string   `json:"error,omitempty"`
}

// Failed reports whether the evaluation produced an error.
func (r EvaluationReport) Failed() bool {
	return r.Error != ""
}
