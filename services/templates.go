package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-template-platform/internal/ai"
	"social-template-platform/internal/logger"
	"social-template-platform/models"
)

// TemplateGenerator is the language-model surface the synthesis pipeline and
// content generation use.
type TemplateGenerator interface {
	SynthesizeTemplates(ctx context.Context, posts []models.Post, themeHint string) ([]ai.TemplateProposal, error)
	GenerateCaption(ctx context.Context, baseText, promptTemplate, tone, extraContext string) (string, error)
}

type TemplatePostStore interface {
	FindAnalyzed(ctx context.Context, accountID primitive.ObjectID, limit int) ([]models.Post, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
}

type TemplateStore interface {
	Insert(ctx context.Context, template *models.Template) error
	DeleteByAccount(ctx context.Context, accountID primitive.ObjectID) error
	FindByAccount(ctx context.Context, accountID primitive.ObjectID) ([]models.Template, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Template, error)
}

// SynthesisResult reports one template synthesis run.
type SynthesisResult struct {
	Account      *models.Account
	Templates    []models.Template
	BasedOnPosts int
}

// TemplateExample is a resolved example post reference.
type TemplateExample struct {
	ID               primitive.ObjectID `json:"id"`
	InstagramMediaID string             `json:"instagramMediaId"`
	Caption          string             `json:"caption"`
}

// TemplateWithExamples is a stored template with its example references
// resolved. Dangling references resolve to absence, not an error.
type TemplateWithExamples struct {
	models.Template
	Examples []TemplateExample `json:"examples"`
}

// TemplateListing is an account's template set with examples resolved.
type TemplateListing struct {
	Account   *models.Account
	Templates []TemplateWithExamples
}

// GeneratedContent is a caption rendered from a stored template.
type GeneratedContent struct {
	Template *models.Template
	BaseText string
	Content  string
}

// TemplateService synthesizes an account's template set from analyzed posts
// and generates captions from stored templates.
type TemplateService struct {
	llm          TemplateGenerator
	accounts     AccountFinder
	posts        TemplatePostStore
	templates    TemplateStore
	sampleLimit  int
	exampleLimit int
}

func NewTemplateService(llm TemplateGenerator, accounts AccountFinder, posts TemplatePostStore, templates TemplateStore, sampleLimit, exampleLimit int) *TemplateService {
	return &TemplateService{
		llm:          llm,
		accounts:     accounts,
		posts:        posts,
		templates:    templates,
		sampleLimit:  sampleLimit,
		exampleLimit: exampleLimit,
	}
}

// Synthesize replaces the account's template set with a freshly generated
// one. The existing set is deleted only after the language-model response has
// been successfully parsed, so a failed synthesis leaves it intact.
func (s *TemplateService) Synthesize(ctx context.Context, instagramAccountID, username, accountTheme string) (*SynthesisResult, error) {
	account, err := resolveAccount(ctx, s.accounts, instagramAccountID, username)
	if err != nil {
		return nil, err
	}

	sample, err := s.posts.FindAnalyzed(ctx, account.ID, s.sampleLimit)
	if err != nil {
		return nil, err
	}
	if len(sample) == 0 {
		return nil, ErrNoAnalyzedPosts
	}

	proposals, err := s.llm.SynthesizeTemplates(ctx, sample, accountTheme)
	if err != nil {
		return nil, fmt.Errorf("template synthesis failed: %w", err)
	}

	if err := s.templates.DeleteByAccount(ctx, account.ID); err != nil {
		return nil, err
	}

	result := &SynthesisResult{Account: account, BasedOnPosts: len(sample)}
	for _, proposal := range proposals {
		tags := proposal.Tags
		if tags == nil {
			tags = []string{}
		}
		template := &models.Template{
			AccountID:      account.ID,
			Title:          proposal.Title,
			PromptTemplate: proposal.PromptTemplate,
			Tone:           proposal.Tone,
			Structure:      proposal.Structure,
			Tags:           tags,
			ExamplePostIDs: matchExamplePosts(proposal, sample, s.exampleLimit),
			Editable:       true,
		}
		if err := s.templates.Insert(ctx, template); err != nil {
			return nil, err
		}
		result.Templates = append(result.Templates, *template)
	}

	logger.Info("template set replaced",
		"instagram_account_id", account.InstagramAccountID,
		"templates", len(result.Templates),
		"based_on_posts", result.BasedOnPosts)

	return result, nil
}

// matchExamplePosts picks up to limit posts, in selection order, whose
// analysis tone contains the proposal's tone or whose themes contain any
// proposal tag. All matching is case-insensitive substring containment.
func matchExamplePosts(proposal ai.TemplateProposal, posts []models.Post, limit int) []primitive.ObjectID {
	ids := []primitive.ObjectID{}
	for _, post := range posts {
		if len(ids) >= limit {
			break
		}
		if post.AnalysisResult == nil {
			continue
		}
		if matchesProposal(post.AnalysisResult, proposal) {
			ids = append(ids, post.ID)
		}
	}
	return ids
}

func matchesProposal(analysis *models.AnalysisResult, proposal ai.TemplateProposal) bool {
	if strings.Contains(strings.ToLower(analysis.Tone), strings.ToLower(proposal.Tone)) {
		return true
	}
	for _, tag := range proposal.Tags {
		for _, theme := range analysis.Themes {
			if strings.Contains(strings.ToLower(theme), strings.ToLower(tag)) {
				return true
			}
		}
	}
	return false
}

// ListForAccount returns the template set for the account matching the given
// identifier (external account id first, then username), with example post
// references resolved.
func (s *TemplateService) ListForAccount(ctx context.Context, identifier string) (*TemplateListing, error) {
	account, err := s.accounts.FindByInstagramID(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account, err = s.accounts.FindByUsername(ctx, identifier)
		if err != nil {
			return nil, err
		}
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	templates, err := s.templates.FindByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	var exampleIDs []primitive.ObjectID
	for _, template := range templates {
		exampleIDs = append(exampleIDs, template.ExamplePostIDs...)
	}
	examplePosts, err := s.posts.FindByIDs(ctx, exampleIDs)
	if err != nil {
		return nil, err
	}
	postsByID := make(map[primitive.ObjectID]models.Post, len(examplePosts))
	for _, post := range examplePosts {
		postsByID[post.ID] = post
	}

	listing := &TemplateListing{Account: account}
	for _, template := range templates {
		withExamples := TemplateWithExamples{Template: template, Examples: []TemplateExample{}}
		for _, id := range template.ExamplePostIDs {
			post, ok := postsByID[id]
			if !ok {
				// The referenced post was deleted out-of-band; skip it.
				continue
			}
			withExamples.Examples = append(withExamples.Examples, TemplateExample{
				ID:               post.ID,
				InstagramMediaID: post.InstagramMediaID,
				Caption:          post.Caption,
			})
		}
		listing.Templates = append(listing.Templates, withExamples)
	}
	return listing, nil
}

// GenerateContent renders a new caption from a stored template.
func (s *TemplateService) GenerateContent(ctx context.Context, templateID, baseText, extraContext string) (*GeneratedContent, error) {
	oid, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	template, err := s.templates.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	content, err := s.llm.GenerateCaption(ctx, baseText, template.PromptTemplate, template.Tone, extraContext)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	return &GeneratedContent{Template: template, BaseText: baseText, Content: content}, nil
}
