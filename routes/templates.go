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

// TemplateManager is the synthesis and content-generation surface consumed
// by these handlers.
type TemplateManager interface {
	Synthesize(ctx context.Context, instagramAccountID, username, accountTheme string) (*services.SynthesisResult, error)
	ListForAccount(ctx context.Context, identifier string) (*services.TemplateListing, error)
	GenerateContent(ctx context.Context, templateID, baseText, extraContext string) (*services.GeneratedContent, error)
}

type generateTemplatesRequest struct {
	InstagramAccountID string `json:"instagramAccountId"`
	InstagramUsername  string `json:"instagramUsername"`
	AccountTheme       string `json:"accountTheme"`
}

type generateContentRequest struct {
	TemplateID        string `json:"templateId"`
	BaseText          string `json:"baseText"`
	AdditionalContext string `json:"additionalContext"`
}

func SetupTemplateRoutes(api *gin.RouterGroup, svc TemplateManager) {
	api.POST("/generate-templates", handleGenerateTemplates(svc))
	api.GET("/templates/:identifier", handleListTemplates(svc))
	api.POST("/generate-content-with-template", handleGenerateContent(svc))
}

func handleGenerateTemplates(svc TemplateManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateTemplatesRequest
		_ = c.ShouldBindJSON(&req)

		if req.InstagramAccountID == "" && req.InstagramUsername == "" {
			utils.RespondWithBadRequest(c, "Instagram account ID or username is required")
			return
		}

		result, err := svc.Synthesize(c.Request.Context(), req.InstagramAccountID, req.InstagramUsername, req.AccountTheme)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAccountNotFound):
				utils.RespondWithNotFound(c, "Account not found. Please crawl posts first.")
			case errors.Is(err, services.ErrNoAnalyzedPosts):
				utils.RespondWithBadRequest(c, "No analyzed posts found. Please analyze posts first.")
			default:
				logger.Error("template generation failed", "error", err)
				utils.RespondWithInternalError(c, "Failed to generate templates")
			}
			return
		}

		summaries := make([]gin.H, 0, len(result.Templates))
		for _, template := range result.Templates {
			summaries = append(summaries, gin.H{
				"id":               template.ID.Hex(),
				"title":            template.Title,
				"tone":             template.Tone,
				"structure":        template.Structure,
				"tags":             template.Tags,
				"examplePostCount": len(template.ExamplePostIDs),
			})
		}

		account := result.Account
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"accountId":          account.ID.Hex(),
				"instagramAccountId": account.InstagramAccountID,
				"templatesGenerated": len(result.Templates),
				"templates":          summaries,
				"basedOnPosts":       result.BasedOnPosts,
			},
		})
	}
}

func handleListTemplates(svc TemplateManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := svc.ListForAccount(c.Request.Context(), c.Param("identifier"))
		if err != nil {
			if errors.Is(err, services.ErrAccountNotFound) {
				utils.RespondWithNotFound(c, "Account not found")
				return
			}
			logger.Error("failed to fetch templates", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch templates")
			return
		}

		templates := listing.Templates
		if templates == nil {
			templates = []services.TemplateWithExamples{}
		}
		account := listing.Account
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"accountId":          account.ID.Hex(),
				"instagramAccountId": account.InstagramAccountID,
				"templates":          templates,
			},
		})
	}
}

func handleGenerateContent(svc TemplateManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateContentRequest
		_ = c.ShouldBindJSON(&req)

		if req.TemplateID == "" || req.BaseText == "" {
			utils.RespondWithBadRequest(c, "Template ID and base text are required")
			return
		}

		result, err := svc.GenerateContent(c.Request.Context(), req.TemplateID, req.BaseText, req.AdditionalContext)
		if err != nil {
			if errors.Is(err, services.ErrTemplateNotFound) {
				utils.RespondWithNotFound(c, "Template not found")
				return
			}
			logger.Error("content generation failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to generate content")
			return
		}

		template := result.Template
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"templateId":       template.ID.Hex(),
				"templateTitle":    template.Title,
				"baseText":         result.BaseText,
				"generatedContent": result.Content,
				"tone":             template.Tone,
				"structure":        template.Structure,
				"tags":             template.Tags,
			},
		})
	}
}
