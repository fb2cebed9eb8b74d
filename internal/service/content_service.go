package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/internal/repository"
	"github.com/d60-Lab/social-core/pkg/logger"
	"github.com/d60-Lab/social-core/pkg/pagination"
)

var (
	ErrNotOwner       = errors.New("not the content owner")
	ErrTargetNotFound = errors.New("target not found")
)

// ResolvedTarget 目标探测结果：存在性 + 字段快照。快照与存在性是两个独立事实，
// 举报台账只在创建时取一次快照，存在性每次读取现算。
type ResolvedTarget struct {
	Exists   bool
	OwnerID  string
	Snapshot map[string]any
}

// ContentService 内容协作方：帖子/评论的最小闭环，驱动提及同步与通知扇出。
// 写入顺序固定：内容先提交，再同步提及，再扇出，最后推计数。
type ContentService interface {
	CreatePost(ctx context.Context, authorID, body string) (*model.Post, error)
	EditPost(ctx context.Context, actorID, postID, body string) (*model.Post, error)
	DeletePost(ctx context.Context, actorID string, isStaff bool, postID string) error

	CreateComment(ctx context.Context, authorID, postID, body string) (*model.Comment, error)
	EditComment(ctx context.Context, actorID, commentID, body string) (*model.Comment, error)
	DeleteComment(ctx context.Context, actorID string, isStaff bool, commentID string) error
	ListComments(ctx context.Context, viewerID, postID string, cur *pagination.Cursor, limit int) (pagination.Page[*model.Comment], error)

	// Resolve (kind,id) 的存在性探测 + 可序列化字段快照
	Resolve(ctx context.Context, ref model.TargetRef) (*ResolvedTarget, error)
}

type contentService struct {
	db        *gorm.DB
	posts     repository.PostRepository
	comments  repository.CommentRepository
	users     repository.UserRepository
	blocks    repository.BlockRepository
	mentions  MentionService
	notifier  NotificationService
}

func NewContentService(db *gorm.DB, posts repository.PostRepository, comments repository.CommentRepository, users repository.UserRepository, blocks repository.BlockRepository, mentions MentionService, notifier NotificationService) ContentService {
	return &contentService{db: db, posts: posts, comments: comments, users: users, blocks: blocks, mentions: mentions, notifier: notifier}
}

func (s *contentService) CreatePost(ctx context.Context, authorID, body string) (*model.Post, error) {
	p := &model.Post{AuthorID: authorID, Body: body}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	ref := model.TargetRef{Kind: model.TargetPost, ID: p.ID}
	mentioned, err := s.mentions.Sync(ctx, authorID, ref, body)
	if err != nil {
		// 内容已提交，提及/扇出失败不回滚
		logger.Warn("post mention sync failed", zap.String("post", p.ID), zap.Error(err))
		return p, nil
	}
	s.notifier.FanoutPost(ctx, p, mentioned)
	return p, nil
}

func (s *contentService) EditPost(ctx context.Context, actorID, postID, body string) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actorID {
		return nil, ErrNotOwner
	}
	if err := s.posts.UpdateBody(ctx, postID, body); err != nil {
		return nil, err
	}
	p.Body = body
	// 编辑整组重建提及、不做二次扇出：被移出正文的用户丢掉提及记录，已发通知不撤回
	ref := model.TargetRef{Kind: model.TargetPost, ID: postID}
	if _, err := s.mentions.Sync(ctx, actorID, ref, body); err != nil {
		logger.Warn("post mention resync failed", zap.String("post", postID), zap.Error(err))
	}
	return p, nil
}

func (s *contentService) DeletePost(ctx context.Context, actorID string, isStaff bool, postID string) error {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != actorID && !isStaff {
		return ErrNotOwner
	}
	// 提及/回应随内容消亡；评论级联；举报快照保持不动
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		if err := tx.Model(&model.Comment{}).Where("post_id = ?", postID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_kind = ? AND target_id IN ?", model.TargetComment, commentIDs).
				Delete(&model.Mention{}).Error; err != nil {
				return err
			}
			if err := tx.Where("target_kind = ? AND target_id IN ?", model.TargetComment, commentIDs).
				Delete(&model.Reaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", model.TargetPost, postID).
			Delete(&model.Mention{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", model.TargetPost, postID).
			Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", postID).Delete(&model.Post{}).Error
	})
}

func (s *contentService) CreateComment(ctx context.Context, authorID, postID, body string) (*model.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	c := &model.Comment{PostID: postID, AuthorID: authorID, Body: body}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	ref := model.TargetRef{Kind: model.TargetComment, ID: c.ID}
	mentioned, err := s.mentions.Sync(ctx, authorID, ref, body)
	if err != nil {
		logger.Warn("comment mention sync failed", zap.String("comment", c.ID), zap.Error(err))
		return c, nil
	}
	s.notifier.FanoutComment(ctx, c, post, mentioned)
	return c, nil
}

func (s *contentService) EditComment(ctx context.Context, actorID, commentID, body string) (*model.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != actorID {
		return nil, ErrNotOwner
	}
	if err := s.comments.UpdateBody(ctx, commentID, body); err != nil {
		return nil, err
	}
	c.Body = body
	ref := model.TargetRef{Kind: model.TargetComment, ID: commentID}
	if _, err := s.mentions.Sync(ctx, actorID, ref, body); err != nil {
		logger.Warn("comment mention resync failed", zap.String("comment", commentID), zap.Error(err))
	}
	return c, nil
}

func (s *contentService) DeleteComment(ctx context.Context, actorID string, isStaff bool, commentID string) error {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != actorID && !isStaff {
		return ErrNotOwner
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", model.TargetComment, commentID).
			Delete(&model.Mention{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", model.TargetComment, commentID).
			Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", commentID).Delete(&model.Comment{}).Error
	})
}

func (s *contentService) ListComments(ctx context.Context, viewerID, postID string, cur *pagination.Cursor, limit int) (pagination.Page[*model.Comment], error) {
	limit = pagination.ClampLimit(limit)
	var excluded []string
	if viewerID != "" {
		var err error
		excluded, err = s.blocks.ExcludedIDs(ctx, viewerID)
		if err != nil {
			return pagination.Page[*model.Comment]{}, err
		}
	}
	rows, err := s.comments.ListByPost(ctx, postID, excluded, cur, limit)
	if err != nil {
		return pagination.Page[*model.Comment]{}, err
	}
	return pagination.BuildPage(rows, limit, cur), nil
}

func (s *contentService) Resolve(ctx context.Context, ref model.TargetRef) (*ResolvedTarget, error) {
	switch ref.Kind {
	case model.TargetPost:
		p, err := s.posts.GetByID(ctx, ref.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ResolvedTarget{}, nil
		}
		if err != nil {
			return nil, err
		}
		return &ResolvedTarget{
			Exists:  true,
			OwnerID: p.AuthorID,
			Snapshot: map[string]any{
				"id": p.ID, "author_id": p.AuthorID, "body": p.Body, "created_at": p.CreatedAt,
			},
		}, nil
	case model.TargetComment:
		c, err := s.comments.GetByID(ctx, ref.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ResolvedTarget{}, nil
		}
		if err != nil {
			return nil, err
		}
		return &ResolvedTarget{
			Exists:  true,
			OwnerID: c.AuthorID,
			Snapshot: map[string]any{
				"id": c.ID, "post_id": c.PostID, "author_id": c.AuthorID, "body": c.Body, "created_at": c.CreatedAt,
			},
		}, nil
	case model.TargetUser:
		u, err := s.users.GetByID(ctx, ref.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ResolvedTarget{}, nil
		}
		if err != nil {
			return nil, err
		}
		return &ResolvedTarget{
			Exists:  true,
			OwnerID: u.ID,
			Snapshot: map[string]any{
				"id": u.ID, "username": u.Username, "role": u.Role, "is_active": u.IsActive,
			},
		}, nil
	}
	return &ResolvedTarget{}, nil
}
