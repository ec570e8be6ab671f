// --- evaluate.go ---
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rwforest/chess-eval/app/config"
	"github.com/rwforest/chess-eval/app/models"

	"github.com/notnil/chess"
)

// Centipawn-loss thresholds, from the mover's point of view.
const (
	GoodThreshold       = 20  // 0.20 pawns
	InaccuracyThreshold = 50  // 0.50 pawns
	MistakeThreshold    = 100 // 1.00 pawns
	BlunderThreshold    = 300 // 3.00 pawns
)

// illegalMoveLoss is the sentinel eval/loss reported for moves that fail to
// parse; such moves never reach the engine.
const illegalMoveLoss = 10000

const unexpectedResultMsg = "Stockfish analysis returned unexpected result format."

// analyzer is the slice of UCIEngine that EvaluateMove needs. Tests stub it.
type analyzer interface {
	AnalyzeFEN(ctx context.Context, fen string, settings models.EngineSettings) ([]models.AnalysisLine, error)
	Close() error
}

// newAnalyzer launches the engine for one evaluation; swapped out in tests.
var newAnalyzer = func(path string) (analyzer, error) {
	return NewUCIEngine(path)
}

// DescribeQuality labels a centipawn loss. Total over all ints: a negative
// loss (the move beat the engine's top choice at this depth) is still
// "Excellent", never clamped.
func DescribeQuality(loss int) string {
	switch {
	case loss < GoodThreshold:
		return "Excellent"
	case loss < InaccuracyThreshold:
		return "Good"
	case loss < MistakeThreshold:
		return "Inaccuracy"
	case loss < BlunderThreshold:
		return "Mistake"
	default:
		return "Blunder"
	}
}

// EvaluateMove scores one candidate SAN move against the engine's best
// line(s) for the position. The engine process is launched at the start and
// closed on every exit path; it never outlives the call. topN ranked lines
// are requested when multiPV is set (a single line otherwise), and the loss
// is sign-corrected for the mover: the second analysis is relative to the
// opponent, so white's loss = best - actual while black's = actual - best.
func EvaluateMove(ctx context.Context, cfg *config.Config, fen, moveSAN string, topN int, multiPV bool) models.EvaluationReport {
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return models.EvaluationReport{Error: fmt.Sprintf("invalid FEN: %v", err)}
	}
	pos := chess.NewGame(fenOpt).Position()

	color := "white"
	if pos.Turn() == chess.Black {
		color = "black"
	}

	move, err := chess.AlgebraicNotation{}.Decode(pos, moveSAN)
	if err != nil {
		eval, loss := illegalMoveLoss, illegalMoveLoss
		return models.EvaluationReport{
			LLMMove:       moveSAN,
			LLMEval:       &eval,
			CentipawnLoss: &loss,
			MoveQuality:   "Illegal",
			LLMColor:      color,
			Error:         "Illegal move format or invalid move.",
		}
	}
	moveUCI := chess.UCINotation{}.Encode(pos, move)

	eng, err := newAnalyzer(cfg.Engine.Path)
	if err != nil {
		return engineFailure(err, color)
	}
	defer eng.Close()

	settings := models.EngineSettings{
		Depth:      cfg.Engine.Depth,
		MoveTimeMS: cfg.Engine.MoveTime,
		UseDepth:   cfg.Engine.DepthOrTime,
		Lines:      1,
	}
	if multiPV && topN > 1 {
		settings.Lines = topN
	}

	ranked, err := eng.AnalyzeFEN(ctx, fen, settings)
	if err != nil {
		return engineFailure(err, color)
	}
	topMoves, bestScore, ok := rankedSummary(ranked)
	if !ok {
		return models.EvaluationReport{Error: unexpectedResultMsg, LLMColor: color}
	}

	// Apply the move and evaluate the resulting position with a single
	// line. Position.Update returns a fresh position, so the original is
	// never mutated and both queries see consistent state.
	settings.Lines = 1
	postMoveFEN := pos.Update(move).String()

	post, err := eng.AnalyzeFEN(ctx, postMoveFEN, settings)
	if err != nil {
		return engineFailure(err, color)
	}
	llmScore, ok := firstScore(post)
	if !ok {
		return models.EvaluationReport{Error: unexpectedResultMsg, LLMColor: color}
	}

	// Centipawn loss from the mover's POV
	var loss int
	if color == "white" {
		loss = bestScore - llmScore
	} else {
		loss = llmScore - bestScore
	}

	return models.EvaluationReport{
		StockfishMoves: topMoves,
		StockfishEval:  &bestScore,
		LLMMove:        moveUCI,
		PostMoveFEN:    postMoveFEN,
		LLMEval:        &llmScore,
		CentipawnLoss:  &loss,
		MoveQuality:    DescribeQuality(loss),
		LLMColor:       color,
	}
}

// engineFailure converts any engine-boundary error into an error-only
// report; nothing from the engine interaction escapes as a fault.
func engineFailure(err error, color string) models.EvaluationReport {
	msg := fmt.Sprintf("An error occurred during Stockfish analysis: %v", err)
	if errors.Is(err, ErrEngineTerminated) {
		msg = "Stockfish engine terminated unexpectedly. Check path and permissions."
	}
	return models.EvaluationReport{Error: msg, LLMColor: color}
}

// rankedSummary extracts each line's first move plus the top line's score.
// Any line missing a move or the top line missing a score means the engine
// response was structurally unexpected.
func rankedSummary(lines []models.AnalysisLine) ([]string, int, bool) {
	if len(lines) == 0 {
		return nil, 0, false
	}
	moves := make([]string, 0, len(lines))
	for _, l := range lines {
		if len(l.PV) == 0 {
			return nil, 0, false
		}
		moves = append(moves, l.PV[0])
	}
	best, ok := lines[0].Score.Centipawns()
	if !ok {
		return nil, 0, false
	}
	return moves, best, true
}

func firstScore(lines []models.AnalysisLine) (int, bool) {
	if len(lines) == 0 {
		return 0, false
	}
	return lines[0].Score.Centipawns()
}
