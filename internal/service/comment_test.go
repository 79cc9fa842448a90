package service

import (
	"context"
	"testing"

	"ViewTube/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentService(f *fixture) CommentService {
	return NewCommentService(f.comments, f.videos, f.uow, f.events)
}

func TestCreateCommentMissingVideo(t *testing.T) {
	f := newFixture()
	svc := newCommentService(f)
	u := f.addUser("alice")

	_, err := svc.Create(context.Background(), u.ID, 999, "first")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateCommentRecomputesCount(t *testing.T) {
	f := newFixture()
	svc := newCommentService(f)
	owner := f.addUser("owner")
	u := f.addUser("alice")
	v := f.addVideo(owner.ID, "demo")

	created, err := svc.Create(context.Background(), u.ID, v.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, "first", created.Content)
	assert.Equal(t, "alice", created.User.Username)

	stored, _ := f.videos.FindByID(context.Background(), v.ID)
	assert.Equal(t, uint64(1), stored.CommentsCount)

	_, err = svc.Create(context.Background(), u.ID, v.ID, "second")
	require.NoError(t, err)
	stored, _ = f.videos.FindByID(context.Background(), v.ID)
	assert.Equal(t, uint64(2), stored.CommentsCount)
}

func TestDeleteCommentByAuthor(t *testing.T) {
	f := newFixture()
	svc := newCommentService(f)
	owner := f.addUser("owner")
	u := f.addUser("alice")
	v := f.addVideo(owner.ID, "demo")

	created, err := svc.Create(context.Background(), u.ID, v.ID, "first")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), u.ID, v.ID, created.ID)
	require.NoError(t, err)

	stored, _ := f.videos.FindByID(context.Background(), v.ID)
	assert.Equal(t, uint64(0), stored.CommentsCount)

	comments, total, err := svc.List(context.Background(), v.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, comments)
}

func TestDeleteCommentByOtherUserForbidden(t *testing.T) {
	f := newFixture()
	svc := newCommentService(f)
	owner := f.addUser("owner")
	author := f.addUser("alice")
	other := f.addUser("bob")
	v := f.addVideo(owner.ID, "demo")

	created, err := svc.Create(context.Background(), author.ID, v.ID, "first")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), other.ID, v.ID, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// 被拒绝的删除不产生任何状态变化
	stored, _ := f.videos.FindByID(context.Background(), v.ID)
	assert.Equal(t, uint64(1), stored.CommentsCount)
	_, total, _ := svc.List(context.Background(), v.ID, 1, 10)
	assert.Equal(t, int64(1), total)
}

func TestDeleteCommentMissing(t *testing.T) {
	f := newFixture()
	svc := newCommentService(f)
	owner := f.addUser("owner")
	u := f.addUser("alice")
	v := f.addVideo(owner.ID, "demo")

	err := svc.Delete(context.Background(), u.ID, v.ID, 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteCommentWrongVideo(t *testing.T) {
	f := newFixture()
	svc := newCommentService(f)
	owner := f.addUser("owner")
	u := f.addUser("alice")
	v1 := f.addVideo(owner.ID, "one")
	v2 := f.addVideo(owner.ID, "two")

	created, err := svc.Create(context.Background(), u.ID, v1.ID, "first")
	require.NoError(t, err)

	// 评论属于v1，通过v2的路径删除应视为不存在
	err = svc.Delete(context.Background(), u.ID, v2.ID, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	stored, _ := f.videos.FindByID(context.Background(), v1.ID)
	assert.Equal(t, uint64(1), stored.CommentsCount)
}

func TestListCommentsPagination(t *testing.T) {
	f := newFixture()
	svc := newCommentService(f)
	owner := f.addUser("owner")
	u := f.addUser("alice")
	v := f.addVideo(owner.ID, "demo")

	for _, content := range []string{"a", "b", "c"} {
		_, err := svc.Create(context.Background(), u.ID, v.ID, content)
		require.NoError(t, err)
	}

	comments, total, err := svc.List(context.Background(), v.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, comments, 2)
	// 最新的评论排在前面
	assert.Equal(t, "c", comments[0].Content)

	comments, _, err = svc.List(context.Background(), v.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "a", comments[0].Content)
}
