//starts the engine process, speaks UCI over stdin/stdout, and exposes an AnalyzeFEN method.

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rwforest/chess-eval/app/models"
)

// ErrEngineTerminated means the engine process died or never came up:
// its stdout closed (or stdin broke) before the search finished.
var ErrEngineTerminated = errors.New("engine terminated")

type UCIEngine struct {
	cmd   *exec.Cmd
	in    *bufio.Writer
	out   *bufio.Scanner
	mu    sync.Mutex
	ready bool
}

func NewUCIEngine(path string) (*UCIEngine, error) {
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	e := &UCIEngine{
		cmd: cmd,
		in:  bufio.NewWriter(stdin),
		out: bufio.NewScanner(stdout),
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineTerminated, err)
	}
	// Handshake: "uci" -> wait for "uciok"; also "isready" -> "readyok"
	if err := e.send("uci"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineTerminated, err)
	}
	if !e.waitFor("uciok") {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("%w: no uciok", ErrEngineTerminated)
	}
	if err := e.send("isready"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineTerminated, err)
	}
	if !e.waitFor("readyok") {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("%w: no readyok", ErrEngineTerminated)
	}
	e.ready = true
	return e, nil
}

func (e *UCIEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.send("quit")
	if e.cmd == nil {
		return nil
	}
	return e.cmd.Wait()
}

// AnalyzeFEN runs one search on a position and returns the ranked lines,
// best first. settings.Lines > 1 turns on MultiPV; the engine then reports
// one "info ... multipv K ..." stream per line and we keep the deepest
// score seen for each rank.
func (e *UCIEngine) AnalyzeFEN(ctx context.Context, fen string, settings models.EngineSettings) ([]models.AnalysisLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready {
		return nil, errors.New("engine not ready")
	}

	lines := settings.Lines
	if lines < 1 {
		lines = 1
	}
	if err := e.send(fmt.Sprintf("setoption name MultiPV value %d", lines)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineTerminated, err)
	}

	// Load position
	if err := e.send(fmt.Sprintf("position fen %s", fen)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineTerminated, err)
	}

	if settings.UseDepth {
		depth := settings.Depth
		if depth <= 0 {
			depth = 12
		}
		if err := e.send(fmt.Sprintf("go depth %d", depth)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngineTerminated, err)
		}
	} else {
		if err := e.send(fmt.Sprintf("go movetime %d", settings.MoveTimeMS)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngineTerminated, err)
		}
	}

	byRank := make(map[int]models.AnalysisLine)

	// Read until "bestmove ..." or context cancels
	readDone := make(chan error, 1)
	go func() {
		sawBestmove := false
		for e.out.Scan() {
			line := e.out.Text()
			// Examples we parse:
			// info depth 18 multipv 1 ... score cp 23 ... pv e2e4 e7e5
			// info depth 20 ... score mate 3 ... pv h5f7
			// bestmove e2e4
			if strings.HasPrefix(line, "info ") {
				if rank, parsed, ok := parseInfoLine(line); ok {
					byRank[rank] = parsed
				}
			} else if strings.HasPrefix(line, "bestmove ") {
				sawBestmove = true
				break
			}
		}
		if err := e.out.Err(); err != nil {
			readDone <- err
			return
		}
		if !sawBestmove {
			readDone <- ErrEngineTerminated
			return
		}
		readDone <- nil
	}()

	var err error
	select {
	case <-ctx.Done():
		_ = e.send("stop")
		select {
		case err = <-readDone:
		case <-time.After(500 * time.Millisecond):
			err = ctx.Err()
		}
	case err = <-readDone:
	}
	if err != nil {
		return nil, err
	}

	ranked := make([]models.AnalysisLine, 0, len(byRank))
	for _, l := range byRank {
		ranked = append(ranked, l)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })
	return ranked, nil
}

// parseInfoLine pulls multipv rank, score, and pv out of one info line.
// Lines without a score or pv (e.g. "info string ...", currmove updates)
// are skipped.
func parseInfoLine(line string) (int, models.AnalysisLine, bool) {
	parsed := models.AnalysisLine{Rank: 1}
	hasScore := false

	parts := strings.Fields(line)
	for i, part := range parts {
		switch part {
		case "multipv":
			if i+1 < len(parts) {
				fmt.Sscanf(parts[i+1], "%d", &parsed.Rank)
			}
		case "score":
			if i+2 < len(parts) {
				var v int
				if _, err := fmt.Sscanf(parts[i+2], "%d", &v); err == nil {
					switch parts[i+1] {
					case "cp":
						parsed.Score = models.UCIScore{CP: &v}
						hasScore = true
					case "mate":
						parsed.Score = models.UCIScore{Mate: &v}
						hasScore = true
					}
				}
			}
		case "pv":
			if i+1 < len(parts) {
				parsed.PV = parts[i+1:]
			}
		}
	}

	if !hasScore || len(parsed.PV) == 0 {
		return 0, models.AnalysisLine{}, false
	}
	return parsed.Rank, parsed, true
}

func (e *UCIEngine) waitFor(token string) bool {
	for e.out.Scan() {
		if e.out.Text() == token {
			return true
		}
	}
	return false
}

func (e *UCIEngine) send(cmd string) error {
	_, err := fmt.Fprintln(e.in, cmd)
	if err != nil {
		return err
	}
	return e.in.Flush()
}
