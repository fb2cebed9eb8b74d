package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-core/internal/model"
)

func TestCreateReport_SnapshotFrozenAtCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	reporter := env.seedUser(t, "reporter", model.RoleUser)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "offensive text")
	require.NoError(t, err)

	ref := model.TargetRef{Kind: model.TargetPost, ID: post.ID}
	out, err := env.reportSvc.Create(ctx, reporter.ID, ref, "please review")
	require.NoError(t, err)
	assert.True(t, out.Created)

	// 作者事后改正文，快照仍是举报时刻的样子
	_, err = env.contentSvc.EditPost(ctx, author.ID, post.ID, "cleaned up")
	require.NoError(t, err)

	detail, err := env.reportSvc.Get(ctx, out.Report.ID)
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(detail.Report.Snapshot), &snap))
	assert.Equal(t, "offensive text", snap["body"])
	assert.True(t, detail.ReportableExists)

	// 目标删除后：快照可读，存在性变 false
	require.NoError(t, env.contentSvc.DeletePost(ctx, author.ID, false, post.ID))
	detail, err = env.reportSvc.Get(ctx, out.Report.ID)
	require.NoError(t, err)
	assert.False(t, detail.ReportableExists)
	require.NoError(t, json.Unmarshal([]byte(detail.Report.Snapshot), &snap))
	assert.Equal(t, "offensive text", snap["body"])
}

func TestCreateReport_IdempotentWhileOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	reporter := env.seedUser(t, "reporter", model.RoleUser)
	mod := env.seedUser(t, "mod", model.RoleModerator)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "text")
	require.NoError(t, err)
	ref := model.TargetRef{Kind: model.TargetPost, ID: post.ID}

	first, err := env.reportSvc.Create(ctx, reporter.ID, ref, "note 1")
	require.NoError(t, err)
	assert.True(t, first.Created)

	// 同人同目标未结时重复举报：返回既有单子，不新建
	second, err := env.reportSvc.Create(ctx, reporter.ID, ref, "note 2")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Report.ID, second.Report.ID)

	var count int64
	env.db.Model(&model.Report{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// 关闭后同一人可以再开新单
	_, err = env.reportSvc.Close(ctx, first.Report.ID, mod.ID, "done", false)
	require.NoError(t, err)
	third, err := env.reportSvc.Create(ctx, reporter.ID, ref, "again")
	require.NoError(t, err)
	assert.True(t, third.Created)
	assert.NotEqual(t, first.Report.ID, third.Report.ID)
}

func TestCreateReport_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	reporter := env.seedUser(t, "reporter", model.RoleUser)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "text")
	require.NoError(t, err)

	_, err = env.reportSvc.Create(ctx, reporter.ID, model.TargetRef{Kind: model.TargetPost, ID: "missing"}, "")
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = env.reportSvc.Create(ctx, reporter.ID, model.TargetRef{Kind: model.TargetUser, ID: reporter.ID}, "")
	assert.ErrorIs(t, err, ErrReportSelf)

	_, err = env.reportSvc.Create(ctx, author.ID, model.TargetRef{Kind: model.TargetPost, ID: post.ID}, "")
	assert.ErrorIs(t, err, ErrReportOwnContent)
}

func TestCloseReport_BatchCloseSameTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	r1 := env.seedUser(t, "r1", model.RoleUser)
	r2 := env.seedUser(t, "r2", model.RoleUser)
	r3 := env.seedUser(t, "r3", model.RoleUser)
	mod := env.seedUser(t, "mod", model.RoleModerator)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "text")
	require.NoError(t, err)
	other, err := env.contentSvc.CreatePost(ctx, author.ID, "other")
	require.NoError(t, err)
	ref := model.TargetRef{Kind: model.TargetPost, ID: post.ID}

	first, err := env.reportSvc.Create(ctx, r1.ID, ref, "")
	require.NoError(t, err)
	_, err = env.reportSvc.Create(ctx, r2.ID, ref, "")
	require.NoError(t, err)
	// 别的目标的单子不受影响
	otherOut, err := env.reportSvc.Create(ctx, r3.ID, model.TargetRef{Kind: model.TargetPost, ID: other.ID}, "")
	require.NoError(t, err)

	out, err := env.reportSvc.Close(ctx, first.Report.ID, mod.ID, "batch resolved", true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.ClosedCount)
	assert.False(t, out.Report.Open())
	require.NotNil(t, out.Report.ResolverID)
	assert.Equal(t, mod.ID, *out.Report.ResolverID)

	// 同目标全部同一处理人、同一备注落地
	var rows []*model.Report
	require.NoError(t, env.db.Where("target_id = ?", post.ID).Find(&rows).Error)
	for _, rep := range rows {
		assert.False(t, rep.Open())
		assert.Equal(t, "batch resolved", rep.ResolverNote)
	}

	stillOpen, err := env.reports.GetByID(ctx, otherOut.Report.ID)
	require.NoError(t, err)
	assert.True(t, stillOpen.Open())
}

func TestCloseReport_AlreadyClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	reporter := env.seedUser(t, "reporter", model.RoleUser)
	mod := env.seedUser(t, "mod", model.RoleModerator)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "text")
	require.NoError(t, err)
	out, err := env.reportSvc.Create(ctx, reporter.ID, model.TargetRef{Kind: model.TargetPost, ID: post.ID}, "")
	require.NoError(t, err)

	_, err = env.reportSvc.Close(ctx, out.Report.ID, mod.ID, "done", false)
	require.NoError(t, err)
	_, err = env.reportSvc.Close(ctx, out.Report.ID, mod.ID, "again", false)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
}

func TestGetReport_RelatedOpenOnlyWhileOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	r1 := env.seedUser(t, "r1", model.RoleUser)
	r2 := env.seedUser(t, "r2", model.RoleUser)
	mod := env.seedUser(t, "mod", model.RoleModerator)

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "text")
	require.NoError(t, err)
	ref := model.TargetRef{Kind: model.TargetPost, ID: post.ID}
	a, err := env.reportSvc.Create(ctx, r1.ID, ref, "")
	require.NoError(t, err)
	b, err := env.reportSvc.Create(ctx, r2.ID, ref, "")
	require.NoError(t, err)

	detail, err := env.reportSvc.Get(ctx, a.Report.ID)
	require.NoError(t, err)
	require.Len(t, detail.RelatedOpen, 1)
	assert.Equal(t, b.Report.ID, detail.RelatedOpen[0].ID)

	_, err = env.reportSvc.Close(ctx, a.Report.ID, mod.ID, "", false)
	require.NoError(t, err)

	// 已结单不再带关联列表
	detail, err = env.reportSvc.Get(ctx, a.Report.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.RelatedOpen)
}

func TestListReports_OpenFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	r1 := env.seedUser(t, "r1", model.RoleUser)
	r2 := env.seedUser(t, "r2", model.RoleUser)
	mod := env.seedUser(t, "mod", model.RoleModerator)

	p1, err := env.contentSvc.CreatePost(ctx, author.ID, "one")
	require.NoError(t, err)
	p2, err := env.contentSvc.CreatePost(ctx, author.ID, "two")
	require.NoError(t, err)
	a, err := env.reportSvc.Create(ctx, r1.ID, model.TargetRef{Kind: model.TargetPost, ID: p1.ID}, "")
	require.NoError(t, err)
	_, err = env.reportSvc.Create(ctx, r2.ID, model.TargetRef{Kind: model.TargetPost, ID: p2.ID}, "")
	require.NoError(t, err)

	_, err = env.reportSvc.Close(ctx, a.Report.ID, mod.ID, "", false)
	require.NoError(t, err)

	open, err := env.reportSvc.List(ctx, true, nil, 10)
	require.NoError(t, err)
	assert.Len(t, open.Items, 1)

	all, err := env.reportSvc.List(ctx, false, nil, 10)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}
