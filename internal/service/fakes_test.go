package service

import (
	"ViewTube/internal/data"
	"ViewTube/internal/model"
	"ViewTube/internal/repository"
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// 内存版Repository实现，行为对齐MySQL语义：
// 找不到记录返回gorm.ErrRecordNotFound，条件插入吸收重复键

type pairKey struct {
	a, b uint64
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint64]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, userID uint64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateSubscribersCount(_ context.Context, channelID uint64, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[channelID]; ok {
		u.SubscribersCount = uint64(count)
	}
	return nil
}

func (r *fakeUserRepo) WithTx(*gorm.DB) repository.UserRepository { return r }

type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	users *fakeUserRepo
	subs  map[pairKey]*model.Subscription
}

func newFakeSubscriptionRepo(users *fakeUserRepo) *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{users: users, subs: make(map[pairKey]*model.Subscription)}
}

func (r *fakeSubscriptionRepo) Find(_ context.Context, userID, channelID uint64) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[pairKey{userID, channelID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSubscriptionRepo) Insert(_ context.Context, userID, channelID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{userID, channelID}
	if _, ok := r.subs[key]; ok {
		return false, nil
	}
	r.subs[key] = &model.Subscription{UserID: userID, ChannelID: channelID}
	return true, nil
}

func (r *fakeSubscriptionRepo) Delete(_ context.Context, userID, channelID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{userID, channelID}
	if _, ok := r.subs[key]; !ok {
		return false, nil
	}
	delete(r.subs, key)
	return true, nil
}

func (r *fakeSubscriptionRepo) Exists(ctx context.Context, userID, channelID uint64) (bool, error) {
	_, err := r.Find(ctx, userID, channelID)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeSubscriptionRepo) ListByUser(_ context.Context, userID uint64) ([]model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Subscription
	for _, s := range r.subs {
		if s.UserID != userID {
			continue
		}
		copied := *s
		if ch, ok := r.users.users[s.ChannelID]; ok {
			copied.Channel = *ch
		}
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ChannelID < result[j].ChannelID })
	return result, nil
}

func (r *fakeSubscriptionRepo) ChannelIDsByUser(_ context.Context, userID uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint64
	for _, s := range r.subs {
		if s.UserID == userID {
			ids = append(ids, s.ChannelID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeSubscriptionRepo) CountByChannel(_ context.Context, channelID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, s := range r.subs {
		if s.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) WithTx(*gorm.DB) repository.SubscriptionRepository { return r }

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[pairKey]*model.VideoLike
	seq   []pairKey // 记录插入顺序，模拟按时间排序
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[pairKey]*model.VideoLike)}
}

func (r *fakeLikeRepo) Find(_ context.Context, userID, videoID uint64) (*model.VideoLike, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.likes[pairKey{userID, videoID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *fakeLikeRepo) Upsert(_ context.Context, userID, videoID uint64, polarity int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{userID, videoID}
	if l, ok := r.likes[key]; ok {
		l.Polarity = polarity
		return nil
	}
	r.likes[key] = &model.VideoLike{UserID: userID, VideoID: videoID, Polarity: polarity}
	r.seq = append(r.seq, key)
	return nil
}

func (r *fakeLikeRepo) Delete(_ context.Context, userID, videoID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{userID, videoID}
	if _, ok := r.likes[key]; !ok {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakeLikeRepo) CountByVideo(_ context.Context, videoID uint64, polarity int8) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, l := range r.likes {
		if l.VideoID == videoID && l.Polarity == polarity {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) LikedVideoIDs(_ context.Context, userID uint64, offset, limit int) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint64
	for _, key := range r.seq {
		l, ok := r.likes[key]
		if !ok || l.UserID != userID || l.Polarity != model.PolarityLike {
			continue
		}
		ids = append(ids, l.VideoID)
	}
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *fakeLikeRepo) CountLikedByUser(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, l := range r.likes {
		if l.UserID == userID && l.Polarity == model.PolarityLike {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) DeleteByVideo(_ context.Context, videoID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, l := range r.likes {
		if l.VideoID == videoID {
			delete(r.likes, key)
		}
	}
	return nil
}

func (r *fakeLikeRepo) WithTx(*gorm.DB) repository.LikeRepository { return r }

type fakeVideoRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  *fakeUserRepo
	videos map[uint64]*model.Video
	cache  map[uint64]*model.Video
}

func newFakeVideoRepo(users *fakeUserRepo) *fakeVideoRepo {
	return &fakeVideoRepo{
		nextID: 1,
		users:  users,
		videos: make(map[uint64]*model.Video),
		cache:  make(map[uint64]*model.Video),
	}
}

func (r *fakeVideoRepo) Create(_ context.Context, video *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	video.ID = r.nextID
	r.nextID++
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) FindByID(_ context.Context, videoID uint64) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[videoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *v
	if u, ok := r.users.users[v.UserID]; ok {
		copied.User = *u
	}
	return &copied, nil
}

func (r *fakeVideoRepo) sorted(filter func(*model.Video) bool) []model.Video {
	var result []model.Video
	for _, v := range r.videos {
		if filter(v) {
			result = append(result, *v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func page(videos []model.Video, offset, limit int) []model.Video {
	if offset >= len(videos) {
		return nil
	}
	videos = videos[offset:]
	if limit < len(videos) {
		videos = videos[:limit]
	}
	return videos
}

func (r *fakeVideoRepo) FindLatest(_ context.Context, offset, limit int) ([]model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.sorted(func(*model.Video) bool { return true }), offset, limit), nil
}

func (r *fakeVideoRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.videos)), nil
}

func (r *fakeVideoRepo) FindByUser(_ context.Context, userID uint64, offset, limit int) ([]model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.sorted(func(v *model.Video) bool { return v.UserID == userID }), offset, limit), nil
}

func (r *fakeVideoRepo) CountByUser(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sorted(func(v *model.Video) bool { return v.UserID == userID }))), nil
}

func (r *fakeVideoRepo) FindByChannels(_ context.Context, channelIDs []uint64, offset, limit int) ([]model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in := make(map[uint64]bool, len(channelIDs))
	for _, id := range channelIDs {
		in[id] = true
	}
	return page(r.sorted(func(v *model.Video) bool { return in[v.UserID] }), offset, limit), nil
}

func (r *fakeVideoRepo) CountByChannels(_ context.Context, channelIDs []uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in := make(map[uint64]bool, len(channelIDs))
	for _, id := range channelIDs {
		in[id] = true
	}
	return int64(len(r.sorted(func(v *model.Video) bool { return in[v.UserID] }))), nil
}

func (r *fakeVideoRepo) FindByIDs(_ context.Context, videoIDs []uint64) ([]model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Video
	for _, id := range videoIDs {
		if v, ok := r.videos[id]; ok {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (r *fakeVideoRepo) Update(_ context.Context, video *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, videoID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.videos, videoID)
	return nil
}

func (r *fakeVideoRepo) UpdateLikeCounts(_ context.Context, videoID uint64, likes, dislikes int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[videoID]; ok {
		v.LikesCount = uint64(likes)
		v.DislikesCount = uint64(dislikes)
	}
	return nil
}

func (r *fakeVideoRepo) UpdateCommentsCount(_ context.Context, videoID uint64, count int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[videoID]; ok {
		v.CommentsCount = uint64(count)
	}
	return nil
}

func (r *fakeVideoRepo) GetVideoCache(_ context.Context, videoID uint64) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.cache[videoID]
	if !ok {
		return nil, nil
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVideoRepo) SetVideoCache(_ context.Context, video *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *video
	r.cache[video.ID] = &copied
	return nil
}

func (r *fakeVideoRepo) DeleteVideoCache(_ context.Context, videoID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, videoID)
	return nil
}

func (r *fakeVideoRepo) WithTx(*gorm.DB) repository.VideoRepository { return r }

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   uint64
	users    *fakeUserRepo
	comments map[uint64]*model.Comment
}

func newFakeCommentRepo(users *fakeUserRepo) *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, users: users, comments: make(map[uint64]*model.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.nextID
	r.nextID++
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, commentID uint64) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	if u, ok := r.users.users[c.UserID]; ok {
		copied.User = *u
	}
	return &copied, nil
}

func (r *fakeCommentRepo) ListByVideo(_ context.Context, videoID uint64, offset, limit int) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeCommentRepo) CountByVideo(_ context.Context, videoID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.comments {
		if c.VideoID == videoID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, commentID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, commentID)
	return nil
}

func (r *fakeCommentRepo) DeleteByVideo(_ context.Context, videoID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.VideoID == videoID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) WithTx(*gorm.DB) repository.CommentRepository { return r }

// fakeUnitOfWork 直接调用业务函数，不做真正的事务隔离
type fakeUnitOfWork struct {
	repos *data.TransactionalRepositories
}

func (u *fakeUnitOfWork) Execute(_ context.Context, fn func(repos *data.TransactionalRepositories) error) error {
	return fn(u.repos)
}

// fakePublisher 记录发出的互动事件
type fakePublisher struct {
	mu       sync.Mutex
	messages []EngagementMessage
}

func (p *fakePublisher) PublishEngagement(msg EngagementMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

// fixture 把全套fake组装起来，给各个service测试共用
type fixture struct {
	users    *fakeUserRepo
	videos   *fakeVideoRepo
	comments *fakeCommentRepo
	subs     *fakeSubscriptionRepo
	likes    *fakeLikeRepo
	uow      *fakeUnitOfWork
	events   *fakePublisher
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	videos := newFakeVideoRepo(users)
	comments := newFakeCommentRepo(users)
	subs := newFakeSubscriptionRepo(users)
	likes := newFakeLikeRepo()
	return &fixture{
		users:    users,
		videos:   videos,
		comments: comments,
		subs:     subs,
		likes:    likes,
		uow: &fakeUnitOfWork{repos: &data.TransactionalRepositories{
			UserRepo:         users,
			VideoRepo:        videos,
			CommentRepo:      comments,
			SubscriptionRepo: subs,
			LikeRepo:         likes,
		}},
		events: &fakePublisher{},
	}
}

func (f *fixture) addUser(username string) *model.User {
	user := &model.User{Username: username, Email: username + "@test.com", Password: "x"}
	_ = f.users.Create(context.Background(), user)
	return user
}

func (f *fixture) addVideo(ownerID uint64, title string) *model.Video {
	video := &model.Video{UserID: ownerID, Title: title, VodVideoID: "vod-" + title}
	_ = f.videos.Create(context.Background(), video)
	return video
}
