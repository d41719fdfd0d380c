package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-template-platform/internal/logger"
	"social-template-platform/services"
	"social-template-platform/utils"
)

// Analyzer is the analysis pipeline surface consumed by these handlers.
type Analyzer interface {
	Run(ctx context.Context, instagramAccountID, username string) (*services.AnalyzeResult, error)
}

type analyzeRequest struct {
	InstagramAccountID string `json:"instagramAccountId"`
	InstagramUsername  string `json:"instagramUsername"`
}

func SetupAnalyzeRoutes(api *gin.RouterGroup, svc Analyzer) {
	api.POST("/analyze", handleAnalyze(svc))
}

func handleAnalyze(svc Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req analyzeRequest
		_ = c.ShouldBindJSON(&req)

		if req.InstagramAccountID == "" && req.InstagramUsername == "" {
			utils.RespondWithBadRequest(c, "Instagram account ID or username is required")
			return
		}

		result, err := svc.Run(c.Request.Context(), req.InstagramAccountID, req.InstagramUsername)
		if err != nil {
			if errors.Is(err, services.ErrAccountNotFound) {
				utils.RespondWithNotFound(c, "Account not found. Please crawl posts first.")
				return
			}
			logger.Error("analysis failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to analyze posts")
			return
		}

		account := result.Account
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"accountId":           account.ID.Hex(),
				"instagramAccountId":  account.InstagramAccountID,
				"totalPostsToAnalyze": result.TotalConsidered,
				"analyzedCount":       result.AnalyzedCount,
				"errorCount":          result.ErrorCount,
				"lastAnalyzedAt":      account.LastAnalyzedAt,
			},
		})
	}
}
