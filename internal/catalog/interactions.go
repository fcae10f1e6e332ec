package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/josephgoksu/DBAtlas/models"
)

// RatingInput is the user supplied part of a rating.
type RatingInput struct {
	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
	Email       string `json:"email,omitempty"`
	Experience  string `json:"experience,omitempty"`
	UseCase     string `json:"useCase,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
	Industry    string `json:"industry,omitempty"`
}

// CommentInput is the user supplied part of a comment.
type CommentInput struct {
	Content    string `json:"content"`
	Email      string `json:"email,omitempty"`
	Experience string `json:"experience,omitempty"`
	UseCase    string `json:"useCase,omitempty"`
}

func requireUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	return nil
}

// AddRating records username's rating of slug, replacing any earlier
// rating by the same user, and returns the updated summary.
func (s *Service) AddRating(ctx context.Context, slug, username string, in RatingInput) (models.RatingSummary, error) {
	if err := requireUsername(username); err != nil {
		return models.RatingSummary{}, err
	}
	r := models.Rating{
		Username:    username,
		Email:       in.Email,
		Rating:      in.Rating,
		Comment:     in.Comment,
		Date:        s.now(),
		Experience:  in.Experience,
		UseCase:     in.UseCase,
		CompanySize: in.CompanySize,
		Industry:    in.Industry,
	}
	if err := models.ValidateStruct(r); err != nil {
		return models.RatingSummary{}, err
	}

	e, err := s.load(ctx, slug)
	if err != nil {
		return models.RatingSummary{}, err
	}
	e.UpsertRating(r)
	if err := s.save(ctx, e); err != nil {
		return models.RatingSummary{}, err
	}
	return models.Summarize(e.Ratings), nil
}

// Ratings returns the rating summary of slug.
func (s *Service) Ratings(ctx context.Context, slug string) (models.RatingSummary, error) {
	e, err := s.load(ctx, slug)
	if err != nil {
		return models.RatingSummary{}, err
	}
	return models.Summarize(e.Ratings), nil
}

// UserRating returns the rating username left on slug, if any.
func (s *Service) UserRating(ctx context.Context, slug, username string) (models.Rating, bool, error) {
	if err := requireUsername(username); err != nil {
		return models.Rating{}, false, err
	}
	e, err := s.load(ctx, slug)
	if err != nil {
		return models.Rating{}, false, err
	}
	r, ok := e.RatingBy(username)
	return r, ok, nil
}

// AddComment appends a comment by username to slug.
func (s *Service) AddComment(ctx context.Context, slug, username string, in CommentInput) (models.Comment, error) {
	if err := requireUsername(username); err != nil {
		return models.Comment{}, err
	}
	c := models.Comment{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      in.Email,
		Content:    strings.TrimSpace(in.Content),
		Date:       s.now(),
		Experience: in.Experience,
		UseCase:    in.UseCase,
	}
	if err := models.ValidateStruct(c); err != nil {
		return models.Comment{}, err
	}

	e, err := s.load(ctx, slug)
	if err != nil {
		return models.Comment{}, err
	}
	e.Comments = append(e.Comments, c)
	if err := s.save(ctx, e); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// SubmitUseCase records a user's use case as a specially formatted comment.
func (s *Service) SubmitUseCase(ctx context.Context, slug, username, title, description string) (models.Comment, error) {
	content := fmt.Sprintf("**Use Case Submission**\n\n**Title:** %s\n\n**Description:** %s", title, description)
	return s.AddComment(ctx, slug, username, CommentInput{Content: content, UseCase: title})
}

// Comments returns the comments on slug in the order they were made.
func (s *Service) Comments(ctx context.Context, slug string) ([]models.Comment, error) {
	e, err := s.load(ctx, slug)
	if err != nil {
		return nil, err
	}
	return e.Comments, nil
}

// DeleteComment removes comment id from slug. Only its author may do so.
func (s *Service) DeleteComment(ctx context.Context, slug, id, username string) error {
	if err := requireUsername(username); err != nil {
		return err
	}
	e, err := s.load(ctx, slug)
	if err != nil {
		return err
	}
	for i, c := range e.Comments {
		if c.ID != id {
			continue
		}
		if c.Username != username {
			return fmt.Errorf("%w: comment %s belongs to %s", ErrForbidden, id, c.Username)
		}
		e.Comments = append(e.Comments[:i], e.Comments[i+1:]...)
		return s.save(ctx, e)
	}
	return fmt.Errorf("%w: %s", ErrCommentNotFound, id)
}
