package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-template-platform/internal/instagram"
	"social-template-platform/internal/logger"
	"social-template-platform/models"
)

// SourceClient is the Instagram adapter surface the crawl pipeline depends on.
type SourceClient interface {
	ValidateToken(ctx context.Context) bool
	GetAccountInfo(ctx context.Context) (*instagram.User, error)
	GetRecentPosts(ctx context.Context, limit int) ([]instagram.Media, error)
}

type CrawlAccountStore interface {
	FindByInstagramID(ctx context.Context, instagramAccountID string) (*models.Account, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	FindLatestCrawled(ctx context.Context) (*models.Account, error)
	Insert(ctx context.Context, account *models.Account) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, username, accountType string, mediaCount int) error
	TouchCrawled(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type CrawlPostStore interface {
	FindByMediaID(ctx context.Context, instagramMediaID string) (*models.Post, error)
	Insert(ctx context.Context, post *models.Post) error
	ApplyPatch(ctx context.Context, id primitive.ObjectID, patch models.PostPatch) error
	FindByAccount(ctx context.Context, accountID primitive.ObjectID) ([]models.Post, error)
	FindAll(ctx context.Context) ([]models.Post, error)
}

// CrawlResult reports one crawl run.
type CrawlResult struct {
	Account      *models.Account
	TotalFetched int
	NewPosts     int
	UpdatedPosts int
	SkippedPosts int
}

// PostListing is a set of posts with the owning account when known.
type PostListing struct {
	Account *models.Account
	Posts   []models.Post
}

// CrawlService reconciles fetched Instagram media against stored posts.
type CrawlService struct {
	source   SourceClient
	accounts CrawlAccountStore
	posts    CrawlPostStore
	pageSize int
	now      func() time.Time
}

func NewCrawlService(source SourceClient, accounts CrawlAccountStore, posts CrawlPostStore, pageSize int) *CrawlService {
	return &CrawlService{
		source:   source,
		accounts: accounts,
		posts:    posts,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Run crawls the authenticated account: upserts the account profile, inserts
// unseen posts, sparse-patches known ones and stamps the crawl time.
func (s *CrawlService) Run(ctx context.Context) (*CrawlResult, error) {
	if !s.source.ValidateToken(ctx) {
		return nil, ErrSourceUnauthorized
	}

	info, err := s.source.GetAccountInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account info: %w", err)
	}

	account, err := s.accounts.FindByInstagramID(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &models.Account{
			InstagramAccountID: info.ID,
			Username:           info.Username,
			AccountType:        info.AccountType,
			MediaCount:         info.MediaCount,
		}
		if err := s.accounts.Insert(ctx, account); err != nil {
			return nil, err
		}
	} else {
		// Profile fields are authoritative-latest, unlike post fields.
		if err := s.accounts.UpdateProfile(ctx, account.ID, info.Username, info.AccountType, info.MediaCount); err != nil {
			return nil, err
		}
		account.Username = info.Username
		account.AccountType = info.AccountType
		account.MediaCount = info.MediaCount
	}

	media, err := s.source.GetRecentPosts(ctx, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent posts: %w", err)
	}

	result := &CrawlResult{Account: account, TotalFetched: len(media)}
	for _, item := range media {
		existing, err := s.posts.FindByMediaID(ctx, item.ID)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			post := &models.Post{
				InstagramMediaID: item.ID,
				AccountID:        account.ID,
				Caption:          item.Caption,
				MediaURL:         item.MediaURL,
				ThumbnailURL:     item.ThumbnailURL,
				MediaType:        item.MediaType,
				LikesCount:       item.LikeCount,
				CommentsCount:    item.CommentsCount,
				Timestamp:        item.Timestamp,
				Analyzed:         false,
			}
			if err := s.posts.Insert(ctx, post); err != nil {
				return nil, err
			}
			result.NewPosts++
			continue
		}

		patch := buildPostPatch(existing, item)
		if patch.IsEmpty() {
			result.SkippedPosts++
			continue
		}
		if err := s.posts.ApplyPatch(ctx, existing.ID, patch); err != nil {
			return nil, err
		}
		result.UpdatedPosts++
	}

	crawledAt := s.now()
	if err := s.accounts.TouchCrawled(ctx, account.ID, crawledAt); err != nil {
		return nil, err
	}
	account.LastCrawledAt = &crawledAt

	logger.Info("crawl completed",
		"instagram_account_id", account.InstagramAccountID,
		"fetched", result.TotalFetched,
		"new", result.NewPosts,
		"updated", result.UpdatedPosts,
		"skipped", result.SkippedPosts)

	return result, nil
}

// buildPostPatch fills only gaps: empty strings and zero counters. Existing
// non-empty values are never clobbered.
func buildPostPatch(existing *models.Post, item instagram.Media) models.PostPatch {
	var patch models.PostPatch
	if existing.ThumbnailURL == "" && item.ThumbnailURL != "" {
		patch.ThumbnailURL = &item.ThumbnailURL
	}
	if existing.MediaType == "" && item.MediaType != "" {
		patch.MediaType = &item.MediaType
	}
	if existing.LikesCount == 0 && item.LikeCount != 0 {
		patch.LikesCount = &item.LikeCount
	}
	if existing.CommentsCount == 0 && item.CommentsCount != 0 {
		patch.CommentsCount = &item.CommentsCount
	}
	return patch
}

// ListPosts returns all posts for one account, or all posts globally when
// accountID is empty, newest first.
func (s *CrawlService) ListPosts(ctx context.Context, accountID string) (*PostListing, error) {
	if accountID == "" {
		posts, err := s.posts.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return &PostListing{Posts: posts}, nil
	}

	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return nil, ErrInvalidAccountID
	}

	posts, err := s.posts.FindByAccount(ctx, oid)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return &PostListing{Account: account, Posts: posts}, nil
}

// LatestAccount returns the most recently crawled account and its posts, or
// nil when nothing has been crawled yet.
func (s *CrawlService) LatestAccount(ctx context.Context) (*PostListing, error) {
	account, err := s.accounts.FindLatestCrawled(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	posts, err := s.posts.FindByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &PostListing{Account: account, Posts: posts}, nil
}
