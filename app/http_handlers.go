package app

import (
	"log"
	"net/http"

	"github.com/rwforest/chess-eval/app/config"
	"github.com/rwforest/chess-eval/app/models"

	"github.com/gin-gonic/gin"
)

const missingParamsMsg = "Missing required parameters: 'fen' and 'llm_move_san' must be provided."

// Health is a liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// EvaluateLLMMove scores one candidate move against engine-best play and
// returns the full evaluation report.
func EvaluateLLMMove(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FEN == "" || req.LLMMoveSAN == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingParamsMsg})
		return
	}
	if req.TopN <= 0 {
		req.TopN = 3
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("LoadConfig failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}

	report := EvaluateMove(c.Request.Context(), cfg, req.FEN, req.LLMMoveSAN, req.TopN, req.MultiPV)
	if report.Failed() {
		log.Printf("evaluation failed fen=%q move=%q err=%s", req.FEN, req.LLMMoveSAN, report.Error)
	}
	c.JSON(statusForReport(cfg, report), report)
}

// statusForReport maps a report to an HTTP status. An illegal move is a
// client mistake but historically surfaced as 500; the status is config so
// deployments can opt into 400 without breaking existing callers.
func statusForReport(cfg *config.Config, r models.EvaluationReport) int {
	switch {
	case !r.Failed():
		return http.StatusOK
	case r.MoveQuality == "Illegal":
		return cfg.HTTP.IllegalMoveStatus
	default:
		return http.StatusInternalServerError
	}
}
