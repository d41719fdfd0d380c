package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-template-platform/internal/logger"
	"social-template-platform/models"
	"social-template-platform/services"
	"social-template-platform/utils"
)

// Crawler is the crawl pipeline surface consumed by these handlers.
type Crawler interface {
	Run(ctx context.Context) (*services.CrawlResult, error)
	ListPosts(ctx context.Context, accountID string) (*services.PostListing, error)
	LatestAccount(ctx context.Context) (*services.PostListing, error)
}

type crawlRequest struct {
	// Informational only; the crawl targets the authenticated session.
	InstagramUsername string `json:"instagramUsername"`
}

func SetupCrawlRoutes(api *gin.RouterGroup, svc Crawler) {
	api.POST("/crawl", handleCrawl(svc))
	api.GET("/posts", handleListPosts(svc))
	api.GET("/posts/:accountId", handleListPosts(svc))
	api.GET("/latest-account", handleLatestAccount(svc))
}

func handleCrawl(svc Crawler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req crawlRequest
		// Body is optional; ignore malformed bodies the same as empty ones.
		_ = c.ShouldBindJSON(&req)

		result, err := svc.Run(c.Request.Context())
		if err != nil {
			if errors.Is(err, services.ErrSourceUnauthorized) {
				utils.RespondWithUnauthorized(c, "Instagram API access token is invalid or not provided. Please check your INSTAGRAM_ACCESS_TOKEN environment variable.")
				return
			}
			logger.Error("crawl failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to crawl Instagram posts")
			return
		}

		account := result.Account
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"accountId":            account.ID.Hex(),
				"instagramAccountId":   account.InstagramAccountID,
				"username":             account.Username,
				"accountType":          account.AccountType,
				"mediaCount":           account.MediaCount,
				"totalPostsFetched":    result.TotalFetched,
				"newPostsAdded":        result.NewPosts,
				"existingPostsUpdated": result.UpdatedPosts,
				"skippedDuplicates":    result.SkippedPosts,
				"lastCrawledAt":        account.LastCrawledAt,
			},
		})
	}
}

func handleListPosts(svc Crawler) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := svc.ListPosts(c.Request.Context(), c.Param("accountId"))
		if err != nil {
			if errors.Is(err, services.ErrInvalidAccountID) {
				utils.RespondWithBadRequest(c, "Invalid account id")
				return
			}
			logger.Error("failed to fetch posts", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch posts")
			return
		}

		posts := listing.Posts
		if posts == nil {
			posts = []models.Post{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"posts":      posts,
				"account":    listing.Account,
				"totalCount": len(posts),
			},
		})
	}
}

func handleLatestAccount(svc Crawler) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := svc.LatestAccount(c.Request.Context())
		if err != nil {
			logger.Error("failed to fetch latest account", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch latest account")
			return
		}
		if listing == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": nil})
			return
		}

		posts := listing.Posts
		if posts == nil {
			posts = []models.Post{}
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"account":    listing.Account,
				"posts":      posts,
				"totalCount": len(posts),
			},
		})
	}
}
