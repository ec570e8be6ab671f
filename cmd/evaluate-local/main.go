package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/rwforest/chess-eval/app"
	"github.com/rwforest/chess-eval/app/config"
)

func main() {
	fen := flag.String("fen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "position to evaluate (FEN)")
	move := flag.String("move", "e4", "candidate move (SAN)")
	topN := flag.Int("top", 3, "number of engine lines to request")
	multiPV := flag.Bool("multipv", false, "report all requested lines, not just the best")
	flag.Parse()

	start := time.Now()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report := app.EvaluateMove(ctx, cfg, *fen, *move, *topN, *multiPV)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal report: %v", err)
	}
	os.Stdout.Write(append(out, '\n'))
	log.Printf("Took %s", time.Since(start))
}
