package service

import (
	"Voz/models"
	"Voz/types"
	"context"
	"fmt"
	"sync"
	"testing"

	mysqlerr "github.com/go-sql-driver/mysql"
)

type fakeVoteStore struct {
	mu         sync.Mutex
	votes      map[string]*models.Vote
	nextID     int64
	createHook func(vote *models.Vote) error
}

func newFakeVoteStore() *fakeVoteStore {
	return &fakeVoteStore{votes: map[string]*models.Vote{}}
}

func voteKey(userID, targetID int64, kind string) string {
	return fmt.Sprintf("%d/%d/%s", userID, targetID, kind)
}

func (f *fakeVoteStore) GetByUserTarget(ctx context.Context, userID, targetID int64, kind string) (*models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vote, ok := f.votes[voteKey(userID, targetID, kind)]
	if !ok {
		return nil, nil
	}
	clone := *vote
	return &clone, nil
}

func (f *fakeVoteStore) Create(ctx context.Context, vote *models.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createHook != nil {
		hook := f.createHook
		f.createHook = nil
		if err := hook(vote); err != nil {
			return err
		}
	}
	key := voteKey(vote.UserID, vote.TargetID, vote.TargetKind)
	if _, ok := f.votes[key]; ok {
		return &mysqlerr.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	clone := *vote
	f.votes[key] = &clone
	return nil
}

func (f *fakeVoteStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, vote := range f.votes {
		if vote.ID == id {
			delete(f.votes, key)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeVoteStore) UpdateValue(ctx context.Context, id int64, value int8) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, vote := range f.votes {
		if vote.ID == id {
			vote.Value = value
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeVoteStore) DeleteByUserTarget(ctx context.Context, userID, targetID int64, kind string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := voteKey(userID, targetID, kind)
	if _, ok := f.votes[key]; !ok {
		return 0, nil
	}
	delete(f.votes, key)
	return 1, nil
}

func (f *fakeVoteStore) CountByValue(ctx context.Context, targetID int64, kind string, value int8) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, vote := range f.votes {
		if vote.TargetID == targetID && vote.TargetKind == kind && vote.Value == value {
			count++
		}
	}
	return count, nil
}

func (f *fakeVoteStore) seed(userID, targetID int64, kind string, value int8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.votes[voteKey(userID, targetID, kind)] = &models.Vote{
		ID: f.nextID, UserID: userID, TargetID: targetID, TargetKind: kind, Value: value,
	}
}

type fakeTargets struct {
	authorID int64
	ok       bool
}

func (f *fakeTargets) ResolveTarget(ctx context.Context, targetID int64, kind types.VoteKind) (int64, bool, error) {
	return f.authorID, f.ok, nil
}

type voteNotice struct {
	actorID     int64
	recipientID int64
	value       int8
}

type fakeNotifier struct {
	INotificationService
	mu      sync.Mutex
	notices []voteNotice
}

func (f *fakeNotifier) NotifyVoteReceived(ctx context.Context, actorID, recipientID, targetID int64, kind types.VoteKind, value int8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, voteNotice{actorID: actorID, recipientID: recipientID, value: value})
}

func newVoteService(store *fakeVoteStore, authorID int64) (*VoteService, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return &VoteService{
		VoteDAO:  store,
		Targets:  &fakeTargets{authorID: authorID, ok: true},
		Notifier: notifier,
	}, notifier
}

func TestCastVoteToggle(t *testing.T) {
	store := newFakeVoteStore()
	svc, _ := newVoteService(store, 200)
	ctx := context.Background()

	result, err := svc.CastVote(ctx, 100, 1, types.VoteKindThread, 1)
	if err != nil {
		t.Fatalf("first cast: %v", err)
	}
	if !result.Voted || result.Value != 1 {
		t.Fatalf("first cast got %+v", result)
	}

	// 同值再投视为取消
	result, err = svc.CastVote(ctx, 100, 1, types.VoteKindThread, 1)
	if err != nil {
		t.Fatalf("second cast: %v", err)
	}
	if result.Voted {
		t.Fatalf("second cast should cancel, got %+v", result)
	}
	if len(store.votes) != 0 {
		t.Fatalf("expected no rows, got %d", len(store.votes))
	}
}

func TestCastVoteFlip(t *testing.T) {
	store := newFakeVoteStore()
	svc, _ := newVoteService(store, 200)
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, 100, 1, types.VoteKindPost, 1); err != nil {
		t.Fatalf("cast up: %v", err)
	}
	result, err := svc.CastVote(ctx, 100, 1, types.VoteKindPost, -1)
	if err != nil {
		t.Fatalf("cast down: %v", err)
	}
	if !result.Voted || result.Value != -1 {
		t.Fatalf("flip got %+v", result)
	}

	vote, _ := store.GetByUserTarget(ctx, 100, 1, "post")
	if vote == nil || vote.Value != -1 {
		t.Fatalf("row after flip: %+v", vote)
	}
	if len(store.votes) != 1 {
		t.Fatalf("expected 1 row, got %d", len(store.votes))
	}
}

func TestCastVoteInvalidInput(t *testing.T) {
	svc, _ := newVoteService(newFakeVoteStore(), 200)
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, 100, 1, types.VoteKindThread, 0); err != ErrInvalidVoteValue {
		t.Errorf("value 0: got %v", err)
	}
	if _, err := svc.CastVote(ctx, 100, 1, types.VoteKindThread, 2); err != ErrInvalidVoteValue {
		t.Errorf("value 2: got %v", err)
	}
	if _, err := svc.CastVote(ctx, 100, 1, "comment", 1); err != ErrInvalidVoteKind {
		t.Errorf("bad kind: got %v", err)
	}
}

func TestCastVoteTargetNotFound(t *testing.T) {
	svc := &VoteService{
		VoteDAO: newFakeVoteStore(),
		Targets: &fakeTargets{ok: false},
	}
	if _, err := svc.CastVote(context.Background(), 100, 999, types.VoteKindThread, 1); err != ErrTargetNotFound {
		t.Fatalf("got %v", err)
	}
}

// 并发同键插入:先到者赢,后到者踩到 1062 重读后按同值取消收敛
func TestCastVoteDupKeyConverges(t *testing.T) {
	store := newFakeVoteStore()
	store.createHook = func(vote *models.Vote) error {
		// 模拟另一请求先插入了同键同值的行
		clone := *vote
		clone.ID = 9999
		store.votes[voteKey(vote.UserID, vote.TargetID, vote.TargetKind)] = &clone
		return &mysqlerr.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	svc, _ := newVoteService(store, 200)

	result, err := svc.CastVote(context.Background(), 100, 1, types.VoteKindThread, 1)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if result.Voted {
		t.Fatalf("expected converge to cancel, got %+v", result)
	}
	if len(store.votes) != 0 {
		t.Fatalf("expected no rows, got %d", len(store.votes))
	}
}

func TestCastVoteNotifiesAuthor(t *testing.T) {
	store := newFakeVoteStore()
	svc, notifier := newVoteService(store, 200)
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, 100, 1, types.VoteKindThread, 1); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if len(notifier.notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notifier.notices))
	}
	if n := notifier.notices[0]; n.actorID != 100 || n.recipientID != 200 || n.value != 1 {
		t.Fatalf("notice: %+v", n)
	}

	// 翻转不重复通知
	if _, err := svc.CastVote(ctx, 100, 1, types.VoteKindThread, -1); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if len(notifier.notices) != 1 {
		t.Fatalf("flip should not notify, got %d", len(notifier.notices))
	}
}

func TestCastVoteSelfNoNotify(t *testing.T) {
	store := newFakeVoteStore()
	svc, notifier := newVoteService(store, 100) // 作者即投票人
	if _, err := svc.CastVote(context.Background(), 100, 1, types.VoteKindPost, 1); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if len(notifier.notices) != 0 {
		t.Fatalf("self vote should not notify, got %d", len(notifier.notices))
	}
}

func TestRemoveVote(t *testing.T) {
	store := newFakeVoteStore()
	store.seed(100, 1, "thread", 1)
	svc, _ := newVoteService(store, 200)
	ctx := context.Background()

	if err := svc.RemoveVote(ctx, 100, 1, types.VoteKindThread); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveVote(ctx, 100, 1, types.VoteKindThread); err != ErrVoteNotFound {
		t.Fatalf("second remove: got %v", err)
	}
}

func TestGetVoteStats(t *testing.T) {
	store := newFakeVoteStore()
	store.seed(100, 1, "thread", 1)
	store.seed(101, 1, "thread", 1)
	store.seed(102, 1, "thread", -1)
	store.seed(103, 2, "thread", 1) // 其他目标不计入
	svc, _ := newVoteService(store, 200)

	stats, err := svc.GetVoteStats(context.Background(), 1, types.VoteKindThread)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Upvotes != 2 || stats.Downvotes != 1 || stats.Score != 1 || stats.Total != 3 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestGetUserVote(t *testing.T) {
	store := newFakeVoteStore()
	store.seed(100, 1, "post", -1)
	svc, _ := newVoteService(store, 200)
	ctx := context.Background()

	vote, err := svc.GetUserVote(ctx, 100, 1, types.VoteKindPost)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !vote.Voted || vote.Value != -1 {
		t.Fatalf("vote: %+v", vote)
	}

	vote, err = svc.GetUserVote(ctx, 999, 1, types.VoteKindPost)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if vote.Voted {
		t.Fatalf("expected not voted, got %+v", vote)
	}
}
