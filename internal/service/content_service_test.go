package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-core/internal/model"
)

func TestEditPost_ResyncsMentionsWithoutRefanout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	bob := env.seedUser(t, "bob", model.RoleUser)
	carol := env.seedUser(t, "carol", model.RoleUser)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "hello @bob")
	require.NoError(t, err)
	require.Len(t, env.notificationsFor(t, bob.ID), 1)

	_, err = env.contentSvc.EditPost(ctx, author.ID, post.ID, "hello @carol")
	require.NoError(t, err)

	// 提及记录整组替换
	ref := model.TargetRef{Kind: model.TargetPost, ID: post.ID}
	rows, err := env.mentions.ListForTarget(ctx, ref)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, carol.ID, rows[0].UserID)

	// 编辑不补发通知：carol 没有新通知，bob 的旧通知不撤回
	assert.Empty(t, env.notificationsFor(t, carol.ID))
	assert.Len(t, env.notificationsFor(t, bob.ID), 1)
}

func TestEditPost_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	other := env.seedUser(t, "other", model.RoleUser)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "body")
	require.NoError(t, err)

	_, err = env.contentSvc.EditPost(ctx, other.ID, post.ID, "hacked")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDeletePost_CascadesInteractions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	bob := env.seedUser(t, "bob", model.RoleUser)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "ping @bob")
	require.NoError(t, err)
	comment, err := env.contentSvc.CreateComment(ctx, bob.ID, post.ID, "reply @author")
	require.NoError(t, err)

	postRef := model.TargetRef{Kind: model.TargetPost, ID: post.ID}
	commentRef := model.TargetRef{Kind: model.TargetComment, ID: comment.ID}
	_, err = env.reactionSvc.Toggle(ctx, bob.ID, postRef, "👍")
	require.NoError(t, err)
	_, err = env.reactionSvc.Toggle(ctx, author.ID, commentRef, "👍")
	require.NoError(t, err)

	require.NoError(t, env.contentSvc.DeletePost(ctx, author.ID, false, post.ID))

	_, err = env.posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = env.comments.GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	env.db.Model(&model.Mention{}).Count(&count)
	assert.Equal(t, int64(0), count)
	env.db.Model(&model.Reaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteContent_StaffOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	other := env.seedUser(t, "other", model.RoleUser)
	post, err := env.contentSvc.CreatePost(ctx, author.ID, "body")
	require.NoError(t, err)
	comment, err := env.contentSvc.CreateComment(ctx, author.ID, post.ID, "c")
	require.NoError(t, err)

	err = env.contentSvc.DeleteComment(ctx, other.ID, false, comment.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	// 版主可删任意内容
	require.NoError(t, env.contentSvc.DeleteComment(ctx, other.ID, true, comment.ID))
	require.NoError(t, env.contentSvc.DeletePost(ctx, other.ID, true, post.ID))
}

func TestListComments_FiltersBlockedAuthors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	viewer := env.seedUser(t, "viewer", model.RoleUser)
	blocked := env.seedUser(t, "blocked", model.RoleUser)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "body")
	require.NoError(t, err)
	_, err = env.contentSvc.CreateComment(ctx, author.ID, post.ID, "visible")
	require.NoError(t, err)
	_, err = env.contentSvc.CreateComment(ctx, blocked.ID, post.ID, "hidden for viewer")
	require.NoError(t, err)

	_, err = env.relationSvc.ToggleBlock(ctx, viewer.ID, blocked.ID)
	require.NoError(t, err)

	page, err := env.contentSvc.ListComments(ctx, viewer.ID, post.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, author.ID, page.Items[0].AuthorID)

	// 匿名查看不过滤
	anon, err := env.contentSvc.ListComments(ctx, "", post.ID, nil, 10)
	require.NoError(t, err)
	assert.Len(t, anon.Items, 2)
}

func TestResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	post, err := env.contentSvc.CreatePost(ctx, author.ID, "body")
	require.NoError(t, err)

	got, err := env.contentSvc.Resolve(ctx, model.TargetRef{Kind: model.TargetPost, ID: post.ID})
	require.NoError(t, err)
	assert.True(t, got.Exists)
	assert.Equal(t, author.ID, got.OwnerID)
	assert.Equal(t, "body", got.Snapshot["body"])

	got, err = env.contentSvc.Resolve(ctx, model.TargetRef{Kind: model.TargetPost, ID: "missing"})
	require.NoError(t, err)
	assert.False(t, got.Exists)

	got, err = env.contentSvc.Resolve(ctx, model.TargetRef{Kind: model.TargetUser, ID: author.ID})
	require.NoError(t, err)
	assert.True(t, got.Exists)
	assert.Equal(t, "author", got.Snapshot["username"])
}
