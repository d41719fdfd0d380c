package services

import (
	"context"
	"errors"

	"social-template-platform/models"
)

var (
	// ErrSourceUnauthorized means the Instagram session failed validation.
	ErrSourceUnauthorized = errors.New("instagram access token is invalid or not provided")
	// ErrAccountNotFound means no stored account matched the identifiers.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAccountID means a path parameter was not a valid object id.
	ErrInvalidAccountID = errors.New("invalid account id")
	// ErrNoAnalyzedPosts means synthesis was requested before analysis.
	ErrNoAnalyzedPosts = errors.New("no analyzed posts found")
	// ErrTemplateNotFound means no stored template matched the given id.
	ErrTemplateNotFound = errors.New("template not found")
)

// AccountFinder is the account lookup surface shared by the analysis and
// synthesis pipelines.
type AccountFinder interface {
	FindByInstagramID(ctx context.Context, instagramAccountID string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}

// resolveAccount looks an account up by external id first, then username.
func resolveAccount(ctx context.Context, accounts AccountFinder, instagramAccountID, username string) (*models.Account, error) {
	if instagramAccountID != "" {
		account, err := accounts.FindByInstagramID(ctx, instagramAccountID)
		if err != nil {
			return nil, err
		}
		if account != nil {
			return account, nil
		}
	} else if username != "" {
		account, err := accounts.FindByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if account != nil {
			return account, nil
		}
	}
	return nil, ErrAccountNotFound
}
