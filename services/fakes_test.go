package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-template-platform/internal/ai"
	"social-template-platform/internal/instagram"
	"social-template-platform/models"
)

type fakeAccountStore struct {
	accounts []*models.Account
}

func (f *fakeAccountStore) FindByInstagramID(_ context.Context, id string) (*models.Account, error) {
	for _, account := range f.accounts {
		if account.InstagramAccountID == id {
			return account, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountStore) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	for _, account := range f.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	for _, account := range f.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountStore) FindLatestCrawled(_ context.Context) (*models.Account, error) {
	var latest *models.Account
	for _, account := range f.accounts {
		if account.LastCrawledAt == nil {
			continue
		}
		if latest == nil || account.LastCrawledAt.After(*latest.LastCrawledAt) {
			latest = account
		}
	}
	return latest, nil
}

func (f *fakeAccountStore) Insert(_ context.Context, account *models.Account) error {
	account.ID = primitive.NewObjectID()
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	f.accounts = append(f.accounts, account)
	return nil
}

func (f *fakeAccountStore) UpdateProfile(_ context.Context, id primitive.ObjectID, username, accountType string, mediaCount int) error {
	for _, account := range f.accounts {
		if account.ID == id {
			account.Username = username
			account.AccountType = accountType
			account.MediaCount = mediaCount
			account.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (f *fakeAccountStore) TouchCrawled(_ context.Context, id primitive.ObjectID, at time.Time) error {
	for _, account := range f.accounts {
		if account.ID == id {
			account.LastCrawledAt = &at
		}
	}
	return nil
}

func (f *fakeAccountStore) TouchAnalyzed(_ context.Context, id primitive.ObjectID, at time.Time) error {
	for _, account := range f.accounts {
		if account.ID == id {
			account.LastAnalyzedAt = &at
		}
	}
	return nil
}

type fakePostStore struct {
	posts          []*models.Post
	setAnalysisErr map[string]error // keyed by instagram media id
}

func (f *fakePostStore) byID(id primitive.ObjectID) *models.Post {
	for _, post := range f.posts {
		if post.ID == id {
			return post
		}
	}
	return nil
}

func (f *fakePostStore) FindByMediaID(_ context.Context, mediaID string) (*models.Post, error) {
	for _, post := range f.posts {
		if post.InstagramMediaID == mediaID {
			copied := *post
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePostStore) Insert(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	stored := *post
	f.posts = append(f.posts, &stored)
	return nil
}

func (f *fakePostStore) ApplyPatch(_ context.Context, id primitive.ObjectID, patch models.PostPatch) error {
	post := f.byID(id)
	if post == nil {
		return nil
	}
	if patch.ThumbnailURL != nil {
		post.ThumbnailURL = *patch.ThumbnailURL
	}
	if patch.MediaType != nil {
		post.MediaType = *patch.MediaType
	}
	if patch.LikesCount != nil {
		post.LikesCount = *patch.LikesCount
	}
	if patch.CommentsCount != nil {
		post.CommentsCount = *patch.CommentsCount
	}
	post.UpdatedAt = time.Now()
	return nil
}

func (f *fakePostStore) SetAnalysis(_ context.Context, id primitive.ObjectID, analysis *models.AnalysisResult) error {
	post := f.byID(id)
	if post == nil {
		return nil
	}
	if err, ok := f.setAnalysisErr[post.InstagramMediaID]; ok {
		return err
	}
	post.AnalysisResult = analysis
	post.Analyzed = true
	return nil
}

func (f *fakePostStore) FindUnanalyzedWithCaption(_ context.Context, accountID primitive.ObjectID, limit int) ([]models.Post, error) {
	var selected []models.Post
	for _, post := range f.posts {
		if len(selected) >= limit {
			break
		}
		if post.AccountID == accountID && !post.Analyzed && post.Caption != "" {
			selected = append(selected, *post)
		}
	}
	return selected, nil
}

func (f *fakePostStore) FindAnalyzed(_ context.Context, accountID primitive.ObjectID, limit int) ([]models.Post, error) {
	var selected []models.Post
	for _, post := range f.posts {
		if len(selected) >= limit {
			break
		}
		if post.AccountID == accountID && post.Analyzed && post.AnalysisResult != nil {
			selected = append(selected, *post)
		}
	}
	return selected, nil
}

func (f *fakePostStore) FindByAccount(_ context.Context, accountID primitive.ObjectID) ([]models.Post, error) {
	var selected []models.Post
	for _, post := range f.posts {
		if post.AccountID == accountID {
			selected = append(selected, *post)
		}
	}
	sortNewestFirst(selected)
	return selected, nil
}

func (f *fakePostStore) FindAll(_ context.Context) ([]models.Post, error) {
	var selected []models.Post
	for _, post := range f.posts {
		selected = append(selected, *post)
	}
	sortNewestFirst(selected)
	return selected, nil
}

func (f *fakePostStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	var selected []models.Post
	for _, id := range ids {
		if post := f.byID(id); post != nil {
			selected = append(selected, *post)
		}
	}
	return selected, nil
}

func sortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Timestamp, posts[j].Timestamp
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
}

type fakeTemplateStore struct {
	templates   []*models.Template
	deleteCalls int
}

func (f *fakeTemplateStore) Insert(_ context.Context, template *models.Template) error {
	template.ID = primitive.NewObjectID()
	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now
	stored := *template
	f.templates = append(f.templates, &stored)
	return nil
}

func (f *fakeTemplateStore) DeleteByAccount(_ context.Context, accountID primitive.ObjectID) error {
	f.deleteCalls++
	kept := f.templates[:0]
	for _, template := range f.templates {
		if template.AccountID != accountID {
			kept = append(kept, template)
		}
	}
	f.templates = kept
	return nil
}

func (f *fakeTemplateStore) FindByAccount(_ context.Context, accountID primitive.ObjectID) ([]models.Template, error) {
	var selected []models.Template
	for _, template := range f.templates {
		if template.AccountID == accountID {
			selected = append(selected, *template)
		}
	}
	return selected, nil
}

func (f *fakeTemplateStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Template, error) {
	for _, template := range f.templates {
		if template.ID == id {
			copied := *template
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeSource struct {
	valid    bool
	user     *instagram.User
	media    []instagram.Media
	userErr  error
	mediaErr error
}

func (f *fakeSource) ValidateToken(_ context.Context) bool { return f.valid }

func (f *fakeSource) GetAccountInfo(_ context.Context) (*instagram.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeSource) GetRecentPosts(_ context.Context, _ int) ([]instagram.Media, error) {
	if f.mediaErr != nil {
		return nil, f.mediaErr
	}
	return f.media, nil
}

type fakeLLM struct {
	analysis      *models.AnalysisResult
	failCaptions  map[string]bool
	analyzeCalls  []string
	proposals     []ai.TemplateProposal
	synthesizeErr error
	generated     string
	generateErr   error
}

func (f *fakeLLM) AnalyzeCaption(_ context.Context, caption string) (*models.AnalysisResult, error) {
	f.analyzeCalls = append(f.analyzeCalls, caption)
	if f.failCaptions[caption] {
		return nil, context.DeadlineExceeded
	}
	if f.analysis != nil {
		copied := *f.analysis
		return &copied, nil
	}
	return &models.AnalysisResult{
		Tone:           "casual",
		Structure:      "hook-story-CTA",
		Prompt:         "Write a casual post about [TOPIC]",
		Themes:         []string{"lifestyle"},
		SentimentScore: 0.4,
	}, nil
}

func (f *fakeLLM) SynthesizeTemplates(_ context.Context, _ []models.Post, _ string) ([]ai.TemplateProposal, error) {
	if f.synthesizeErr != nil {
		return nil, f.synthesizeErr
	}
	return f.proposals, nil
}

func (f *fakeLLM) GenerateCaption(_ context.Context, _, _, _, _ string) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.generated, nil
}
