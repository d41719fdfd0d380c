package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"

	"social-template-platform/internal/logger"
	"social-template-platform/models"
)

// CaptionAnalyzer is the language-model surface the analysis pipeline uses.
type CaptionAnalyzer interface {
	AnalyzeCaption(ctx context.Context, caption string) (*models.AnalysisResult, error)
}

type AnalyzeAccountStore interface {
	AccountFinder
	TouchAnalyzed(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type AnalyzePostStore interface {
	FindUnanalyzedWithCaption(ctx context.Context, accountID primitive.ObjectID, limit int) ([]models.Post, error)
	SetAnalysis(ctx context.Context, id primitive.ObjectID, analysis *models.AnalysisResult) error
}

// AnalyzeResult reports one analysis batch.
type AnalyzeResult struct {
	Account         *models.Account
	TotalConsidered int
	AnalyzedCount   int
	ErrorCount      int
}

// AnalyzeService runs batched per-post caption analysis. Posts are processed
// strictly sequentially with a fixed pacing interval between language-model
// calls; the interval respects the upstream rate-limit contract and must not
// be parallelized away.
type AnalyzeService struct {
	llm        CaptionAnalyzer
	accounts   AnalyzeAccountStore
	posts      AnalyzePostStore
	batchLimit int
	pacing     *rate.Limiter
	now        func() time.Time
}

func NewAnalyzeService(llm CaptionAnalyzer, accounts AnalyzeAccountStore, posts AnalyzePostStore, batchLimit int, pacing time.Duration) *AnalyzeService {
	return &AnalyzeService{
		llm:        llm,
		accounts:   accounts,
		posts:      posts,
		batchLimit: batchLimit,
		pacing:     rate.NewLimiter(rate.Every(pacing), 1),
		now:        time.Now,
	}
}

// Run analyzes up to batchLimit unanalyzed captioned posts for the account
// identified by external id or username. A failure on one post is counted
// and never aborts the rest of the batch.
func (s *AnalyzeService) Run(ctx context.Context, instagramAccountID, username string) (*AnalyzeResult, error) {
	account, err := resolveAccount(ctx, s.accounts, instagramAccountID, username)
	if err != nil {
		return nil, err
	}

	selected, err := s.posts.FindUnanalyzedWithCaption(ctx, account.ID, s.batchLimit)
	if err != nil {
		return nil, err
	}

	result := &AnalyzeResult{Account: account, TotalConsidered: len(selected)}
	if len(selected) == 0 {
		return result, nil
	}

	for _, post := range selected {
		if err := s.pacing.Wait(ctx); err != nil {
			return nil, err
		}

		analysis, err := s.llm.AnalyzeCaption(ctx, post.Caption)
		if err != nil {
			logger.Error("post analysis failed", "post_id", post.ID.Hex(), "error", err)
			result.ErrorCount++
			continue
		}
		if err := s.posts.SetAnalysis(ctx, post.ID, analysis); err != nil {
			logger.Error("failed to persist analysis", "post_id", post.ID.Hex(), "error", err)
			result.ErrorCount++
			continue
		}
		result.AnalyzedCount++
	}

	analyzedAt := s.now()
	if err := s.accounts.TouchAnalyzed(ctx, account.ID, analyzedAt); err != nil {
		return nil, err
	}
	account.LastAnalyzedAt = &analyzedAt

	logger.Info("analysis batch completed",
		"instagram_account_id", account.InstagramAccountID,
		"considered", result.TotalConsidered,
		"analyzed", result.AnalyzedCount,
		"errors", result.ErrorCount)

	return result, nil
}
