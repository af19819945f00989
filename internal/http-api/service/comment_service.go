package service

import (
	"context"

	"blogapi/internal/config"
	"blogapi/internal/http-api/dto"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/repository"
)

const (
	msgCommentNotFound = "Comment with id %d was not found.!!"
	msgParentNotFound  = "Parent comment with id %d was not found.!!"
)

type CommentService interface {
	ListByArticle(ctx context.Context, articleID uint64) ([]dto.CommentNode, error)
	Create(ctx context.Context, userID, articleID uint64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, userID, commentID uint64) error
}

type commentService struct {
	comments  repository.CommentRepository
	articles  repository.ArticleRepository
	recorder  Recorder
	recipient string
}

// NewCommentService builds the comment workflow. recipient selects who is
// notified about a comment: the article owner or the commenting user.
func NewCommentService(
	comments repository.CommentRepository,
	articles repository.ArticleRepository,
	recorder Recorder,
	recipient string,
) CommentService {
	if recipient != config.RecipientActor {
		recipient = config.RecipientOwner
	}
	return &commentService{
		comments:  comments,
		articles:  articles,
		recorder:  recorder,
		recipient: recipient,
	}
}

func (s *commentService) article(ctx context.Context, articleID uint64) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError(msgArticleNotFound, articleID)
		}
		return nil, internalError(err)
	}
	return article, nil
}

// ListByArticle returns the comment threads of an article, newest first.
func (s *commentService) ListByArticle(ctx context.Context, articleID uint64) ([]dto.CommentNode, error) {
	if _, err := s.article(ctx, articleID); err != nil {
		return nil, err
	}
	list, err := s.comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, internalError(err)
	}
	return dto.BuildCommentTree(dto.FromModelsToCommentNodes(list)), nil
}

func (s *commentService) Create(ctx context.Context, userID, articleID uint64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	article, err := s.article(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *req.ParentID)
		if err != nil && !repository.IsNotFound(err) {
			return nil, internalError(err)
		}
		if err != nil || parent.ArticleID != article.ID {
			return nil, notFoundError(msgParentNotFound, *req.ParentID)
		}
	}

	comment := &models.Comment{
		ParentID:  req.ParentID,
		ArticleID: article.ID,
		UserID:    userID,
		Message:   req.Comment,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, internalError(err)
	}

	event := "Create comment to article"
	description := "Comment of article " + article.Title + " as been created"
	if req.ParentID != nil {
		event = "Reply comment to article"
		description = "Comment of article " + article.Title + " as been replied"
	}
	s.recorder.Record(ctx, userID, event, description)

	if userID != article.UserID {
		to := article.UserID
		if s.recipient == config.RecipientActor {
			to = userID
		}
		s.recorder.Notify(ctx, to, event, description)
	}

	if _, err := s.articles.RefreshCommentCount(ctx, article.ID); err != nil {
		return nil, internalError(err)
	}
	return dto.FromModelToCommentResponse(comment), nil
}

// Delete removes the caller's comment and the replies below it.
func (s *commentService) Delete(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.comments.GetOwned(ctx, commentID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFoundError(msgCommentNotFound, commentID)
		}
		return internalError(err)
	}

	if _, err := s.comments.DeleteWithReplies(ctx, comment.ID); err != nil {
		return internalError(err)
	}
	if _, err := s.articles.RefreshCommentCount(ctx, comment.ArticleID); err != nil {
		return internalError(err)
	}

	title := ""
	if article, err := s.articles.GetByID(ctx, comment.ArticleID); err == nil {
		title = article.Title
	}
	s.recorder.Record(ctx, userID, "Delete comment", "The user delete comment of article with title "+title)
	return nil
}
