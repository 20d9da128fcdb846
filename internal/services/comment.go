package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-supplies/internal/models"
	"github.com/diewo77/go-supplies/internal/repository"
)

type CommentService struct {
	store repository.Store
}

func NewCommentService(store repository.Store) *CommentService {
	return &CommentService{store: store}
}

// Append adds a comment to an existing contract.
func (s *CommentService) Append(ctx context.Context, contractID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("text", "required")
	}
	c := &models.Comment{ContractID: contractID, Text: text}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Contracts().FindByID(ctx, contractID); err != nil {
			return lookupErr(err, "contract", contractID)
		}
		return tx.Comments().Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) Edit(ctx context.Context, id uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("text", "required")
	}
	c, err := s.store.Comments().FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "comment", id)
	}
	c.Text = text
	if err := s.store.Comments().UpdateText(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, id uint) error {
	return lookupErr(s.store.Comments().Delete(ctx, id), "comment", id)
}

// List returns the contract's comments oldest first.
func (s *CommentService) List(ctx context.Context, contractID uint) ([]models.Comment, error) {
	return s.store.Comments().ListByContract(ctx, contractID)
}
