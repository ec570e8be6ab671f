package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rwforest/chess-eval/app/models"
)

func newTestEngine(outputLines []string) (*UCIEngine, *strings.Builder) {
	pr, pw := io.Pipe()
	go func() {
		for _, line := range outputLines {
			_, _ = fmt.Fprintln(pw, line)
		}
		_ = pw.Close()
	}()

	var sb strings.Builder
	eng := &UCIEngine{
		in:    bufio.NewWriter(&sb),
		out:   bufio.NewScanner(pr),
		ready: true,
	}
	return eng, &sb
}

func TestAnalyzeFENUsesMovetimeAndParsesScore(t *testing.T) {
	eng, sb := newTestEngine([]string{
		"info depth 10 score cp 23 pv e2e4 e7e5",
		"bestmove e2e4",
	})

	lines, err := eng.AnalyzeFEN(context.Background(), "test-fen", models.EngineSettings{MoveTimeMS: 75})
	if err != nil {
		t.Fatalf("AnalyzeFEN error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("AnalyzeFEN returned %d lines, want 1", len(lines))
	}
	if lines[0].Score.CP == nil || *lines[0].Score.CP != 23 || lines[0].PV[0] != "e2e4" {
		t.Fatalf("AnalyzeFEN unexpected line: %+v", lines[0])
	}

	sent := sb.String()
	if !strings.Contains(sent, "setoption name MultiPV value 1") {
		t.Fatalf("AnalyzeFEN did not set MultiPV: %q", sent)
	}
	if !strings.Contains(sent, "position fen test-fen") {
		t.Fatalf("AnalyzeFEN did not send position command: %q", sent)
	}
	if !strings.Contains(sent, "go movetime 75") {
		t.Fatalf("AnalyzeFEN did not use movetime: %q", sent)
	}
}

func TestAnalyzeFENUsesDepthWhenConfigured(t *testing.T) {
	eng, sb := newTestEngine([]string{
		"info depth 12 score cp 5 pv d2d4",
		"bestmove d2d4",
	})
	if _, err := eng.AnalyzeFEN(context.Background(), "fen-depth", models.EngineSettings{UseDepth: true, Depth: 12}); err != nil {
		t.Fatalf("AnalyzeFEN error: %v", err)
	}
	if !strings.Contains(sb.String(), "go depth 12") {
		t.Fatalf("AnalyzeFEN should send depth command, got %q", sb.String())
	}
}

func TestAnalyzeFENMultiPVRanksLines(t *testing.T) {
	eng, sb := newTestEngine([]string{
		// shallow pass, later superseded for ranks 1 and 2
		"info depth 9 multipv 1 score cp 30 pv e2e4 e7e5",
		"info depth 9 multipv 2 score cp 12 pv d2d4 d7d5",
		"info depth 9 multipv 3 score cp -4 pv g1f3 g8f6",
		"info depth 10 multipv 1 score cp 34 pv e2e4 c7c5",
		"info depth 10 multipv 2 score cp 15 pv d2d4 g8f6",
		"bestmove e2e4",
	})

	lines, err := eng.AnalyzeFEN(context.Background(), "fen-multi", models.EngineSettings{MoveTimeMS: 50, Lines: 3})
	if err != nil {
		t.Fatalf("AnalyzeFEN error: %v", err)
	}
	if !strings.Contains(sb.String(), "setoption name MultiPV value 3") {
		t.Fatalf("AnalyzeFEN did not request 3 lines: %q", sb.String())
	}
	if len(lines) != 3 {
		t.Fatalf("AnalyzeFEN returned %d lines, want 3", len(lines))
	}

	wantMoves := []string{"e2e4", "d2d4", "g1f3"}
	wantCPs := []int{34, 15, -4}
	for i, l := range lines {
		if l.Rank != i+1 || l.PV[0] != wantMoves[i] || l.Score.CP == nil || *l.Score.CP != wantCPs[i] {
			t.Fatalf("line %d mismatch: %+v", i, l)
		}
	}
}

func TestAnalyzeFENParsesMateScore(t *testing.T) {
	eng, _ := newTestEngine([]string{
		"info depth 5 multipv 1 score mate 2 pv h5f7",
		"bestmove h5f7",
	})

	lines, err := eng.AnalyzeFEN(context.Background(), "fen-mate", models.EngineSettings{MoveTimeMS: 50})
	if err != nil {
		t.Fatalf("AnalyzeFEN error: %v", err)
	}
	if len(lines) != 1 || lines[0].Score.Mate == nil || *lines[0].Score.Mate != 2 {
		t.Fatalf("AnalyzeFEN mate line mismatch: %+v", lines)
	}
}

func TestAnalyzeFENSkipsInfoWithoutScoreOrPV(t *testing.T) {
	eng, _ := newTestEngine([]string{
		"info string NNUE evaluation enabled",
		"info depth 8 currmove e2e4 currmovenumber 1",
		"info depth 8 score cp 11 pv c2c4",
		"bestmove c2c4",
	})

	lines, err := eng.AnalyzeFEN(context.Background(), "fen-noise", models.EngineSettings{MoveTimeMS: 50})
	if err != nil {
		t.Fatalf("AnalyzeFEN error: %v", err)
	}
	if len(lines) != 1 || lines[0].PV[0] != "c2c4" {
		t.Fatalf("AnalyzeFEN should keep only the scored line: %+v", lines)
	}
}

func TestAnalyzeFENNotReady(t *testing.T) {
	eng := &UCIEngine{}
	if _, err := eng.AnalyzeFEN(context.Background(), "fen", models.EngineSettings{MoveTimeMS: 10}); err == nil {
		t.Fatalf("AnalyzeFEN should fail when engine not ready")
	}
}

func TestAnalyzeFENEngineTerminated(t *testing.T) {
	// Output ends before any bestmove: the process died mid-search.
	eng, _ := newTestEngine([]string{
		"info depth 3 score cp 8 pv e2e4",
	})

	_, err := eng.AnalyzeFEN(context.Background(), "fen-dead", models.EngineSettings{MoveTimeMS: 10})
	if !errors.Is(err, ErrEngineTerminated) {
		t.Fatalf("AnalyzeFEN error = %v, want ErrEngineTerminated", err)
	}
}
