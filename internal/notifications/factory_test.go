package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/travo-app/travo-server/internal/models"
	"github.com/travo-app/travo-server/internal/realtime"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeStore struct {
	notifications []models.Notification
	nextID        uint
	now           func() time.Time
	createErr     error
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{now: now}
}

func (s *fakeStore) CreateNotification(n *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	n.ID = s.nextID
	n.CreatedAt = s.now()
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *fakeStore) FindRecent(recipientID, actorID uint, kind models.NotificationKind, targetPostID string, since time.Time) (*models.Notification, error) {
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.RecipientID == recipientID && n.ActorID == actorID && n.Kind == kind &&
			n.TargetPostID == targetPostID && !n.CreatedAt.Before(since) {
			return &n, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetNotificationByID(id uint) (*models.Notification, error) {
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			return &s.notifications[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (s *fakeStore) GetByRecipientID(recipientID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeStore) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) MarkAsRead(id uint) error { return nil }

func (s *fakeStore) MarkAllAsRead(recipientID uint) (int64, error) { return 0, nil }

type fakeUsers struct {
	users map[uint]*models.User
	err   error
}

func (f *fakeUsers) GetUserByID(id uint) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeUsers) CreateUser(*models.User) error                        { return nil }
func (f *fakeUsers) GetUserByEmail(string) (*models.User, error)          { return nil, errors.New("not found") }
func (f *fakeUsers) GetUserByUsername(string) (*models.User, error)       { return nil, errors.New("not found") }
func (f *fakeUsers) UpdateUser(*models.User) error                        { return nil }
func (f *fakeUsers) DeleteUser(uint) error                                { return nil }
func (f *fakeUsers) SearchUsers(string) ([]models.User, error)            { return nil, nil }
func (f *fakeUsers) IncrementFollowersCount(uint) error                   { return nil }
func (f *fakeUsers) DecrementFollowersCount(uint) error                   { return nil }
func (f *fakeUsers) IncrementFollowingCount(uint) error                   { return nil }
func (f *fakeUsers) DecrementFollowingCount(uint) error                   { return nil }

type fakePosts struct {
	posts map[string]*models.Post
}

func (f *fakePosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, errors.New("post not found")
}

func (f *fakePosts) CreatePost(context.Context, *models.Post) error { return nil }
func (f *fakePosts) GetPostsByAuthorID(context.Context, uint, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (f *fakePosts) GetPostsByAuthorIDs(context.Context, []uint, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (f *fakePosts) GetAllPosts(context.Context, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (f *fakePosts) UpdatePost(context.Context, string, *models.Post) error { return nil }
func (f *fakePosts) DeletePost(context.Context, string) error               { return nil }
func (f *fakePosts) IncrementLikesCount(context.Context, string) error      { return nil }
func (f *fakePosts) DecrementLikesCount(context.Context, string) error      { return nil }
func (f *fakePosts) IncrementCommentsCount(context.Context, string) error   { return nil }
func (f *fakePosts) DecrementCommentsCount(context.Context, string) error   { return nil }

type fakeDevices struct {
	tokens map[uint][]models.DeviceToken
}

func (f *fakeDevices) RegisterToken(*models.DeviceToken) error { return nil }
func (f *fakeDevices) GetTokensByUserID(userID uint) ([]models.DeviceToken, error) {
	return f.tokens[userID], nil
}
func (f *fakeDevices) DeleteToken(string) error { return nil }

type fakePusher struct {
	mu     sync.Mutex
	events map[uint][]realtime.Event
	err    error
}

func newFakePusher() *fakePusher {
	return &fakePusher{events: make(map[uint][]realtime.Event)}
}

func (p *fakePusher) Push(userID uint, e realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events[userID] = append(p.events[userID], e)
	return nil
}

func (p *fakePusher) pushed(userID uint) []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Event(nil), p.events[userID]...)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestFactory(t *testing.T) (*Factory, *fakeStore, *fakePusher, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
	store := newFakeStore(clock.Now)
	users := &fakeUsers{users: map[uint]*models.User{
		1: {ID: 1, Username: "alice", DisplayName: "Alice"},
		2: {ID: 2, Username: "bob", DisplayName: "Bob"},
	}}
	postID := primitive.NewObjectID()
	posts := &fakePosts{posts: map[string]*models.Post{
		postID.Hex(): {ID: postID, AuthorID: 1, ImageURLs: []string{"https://img.travo.app/1.jpg"}},
	}}
	pusher := newFakePusher()
	f := NewFactory(store, users, posts, &fakeDevices{}, pusher, nil, zap.NewNop())
	f.now = clock.Now
	return f, store, pusher, clock
}

func testPostID(f *Factory) string {
	posts := f.posts.(*fakePosts)
	for id := range posts.posts {
		return id
	}
	return ""
}

func TestNotifySelfActionSuppressed(t *testing.T) {
	f, store, pusher, _ := newTestFactory(t)

	n, err := f.Notify(context.Background(), 1, 1, models.NotificationLike,
		NotifyOptions{TargetPostID: testPostID(f)})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if n != nil {
		t.Error("self-triggered action should produce no notification")
	}
	if len(store.notifications) != 0 {
		t.Error("nothing should be persisted for a self-triggered action")
	}
	if len(pusher.pushed(1)) != 0 {
		t.Error("nothing should be pushed for a self-triggered action")
	}
}

func TestNotifyDeduplicatesWithinWindow(t *testing.T) {
	f, store, _, clock := newTestFactory(t)
	postID := testPostID(f)

	if _, err := f.Notify(context.Background(), 1, 2, models.NotificationLike, NotifyOptions{TargetPostID: postID}); err != nil {
		t.Fatalf("first Notify: %v", err)
	}

	clock.Advance(30 * time.Minute)
	n, err := f.Notify(context.Background(), 1, 2, models.NotificationLike, NotifyOptions{TargetPostID: postID})
	if err != nil {
		t.Fatalf("duplicate Notify: %v", err)
	}
	if n != nil {
		t.Error("duplicate inside the window should be suppressed")
	}
	if len(store.notifications) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(store.notifications))
	}

	clock.Advance(31 * time.Minute)
	n, err = f.Notify(context.Background(), 1, 2, models.NotificationLike, NotifyOptions{TargetPostID: postID})
	if err != nil {
		t.Fatalf("Notify after window: %v", err)
	}
	if n == nil {
		t.Error("a like after the window expires should notify again")
	}
	if len(store.notifications) != 2 {
		t.Fatalf("expected 2 persisted notifications, got %d", len(store.notifications))
	}
}

func TestNotifyDedupKeyIncludesTargetPost(t *testing.T) {
	f, store, _, _ := newTestFactory(t)

	if _, err := f.Notify(context.Background(), 1, 2, models.NotificationLike, NotifyOptions{TargetPostID: testPostID(f)}); err != nil {
		t.Fatalf("first Notify: %v", err)
	}
	n, err := f.Notify(context.Background(), 1, 2, models.NotificationLike,
		NotifyOptions{TargetPostID: primitive.NewObjectID().Hex()})
	if err != nil {
		t.Fatalf("second Notify: %v", err)
	}
	if n == nil {
		t.Error("a like on a different post must not be deduplicated")
	}
	if len(store.notifications) != 2 {
		t.Fatalf("expected 2 persisted notifications, got %d", len(store.notifications))
	}
}

func TestNotifyValidatesKind(t *testing.T) {
	f, store, _, _ := newTestFactory(t)

	cases := []struct {
		name string
		kind models.NotificationKind
		opts NotifyOptions
	}{
		{"unknown kind", "poke", NotifyOptions{}},
		{"like without post", models.NotificationLike, NotifyOptions{}},
		{"comment without post", models.NotificationComment, NotifyOptions{}},
		{"mention without comment", models.NotificationMention, NotifyOptions{TargetPostID: testPostID(f), Message: "hi @alice"}},
		{"mention without message", models.NotificationMention, NotifyOptions{TargetPostID: testPostID(f), TargetCommentID: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Notify(context.Background(), 1, 2, tc.kind, tc.opts)
			if !IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(store.notifications) != 0 {
		t.Errorf("invalid Notify calls must persist nothing, got %d", len(store.notifications))
	}
}

func TestNotifyFollowNeedsNoTarget(t *testing.T) {
	f, store, _, _ := newTestFactory(t)

	n, err := f.Notify(context.Background(), 1, 2, models.NotificationFollow, NotifyOptions{})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	if n == nil || len(store.notifications) != 1 {
		t.Fatal("expected a persisted follow notification")
	}
}

func TestNotifyPushesResolvedEvent(t *testing.T) {
	f, _, pusher, _ := newTestFactory(t)

	if _, err := f.Notify(context.Background(), 1, 2, models.NotificationLike, NotifyOptions{TargetPostID: testPostID(f)}); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	events := pusher.pushed(1)
	if len(events) != 1 {
		t.Fatalf("expected 1 pushed event, got %d", len(events))
	}
	if events[0].Event != "notification" {
		t.Errorf("expected event type %q, got %q", "notification", events[0].Event)
	}
	resolved, ok := events[0].Data.(*ResolvedNotification)
	if !ok {
		t.Fatalf("expected ResolvedNotification payload, got %T", events[0].Data)
	}
	if resolved.Actor.Username != "bob" {
		t.Errorf("expected actor bob, got %q", resolved.Actor.Username)
	}
	if resolved.PostThumbnail != "https://img.travo.app/1.jpg" {
		t.Errorf("unexpected thumbnail %q", resolved.PostThumbnail)
	}
}

func TestNotifyPushFailureDoesNotFailNotify(t *testing.T) {
	f, store, pusher, _ := newTestFactory(t)
	pusher.err = errors.New("connection gone")

	n, err := f.Notify(context.Background(), 1, 2, models.NotificationFollow, NotifyOptions{})
	if err != nil {
		t.Fatalf("delivery failure must not surface, got %v", err)
	}
	if n == nil || len(store.notifications) != 1 {
		t.Fatal("the record must be persisted even when the push fails")
	}
}

func TestNotifyResolutionFailureKeepsRecord(t *testing.T) {
	f, store, pusher, _ := newTestFactory(t)
	f.users.(*fakeUsers).err = errors.New("postgres down")

	n, err := f.Notify(context.Background(), 1, 2, models.NotificationFollow, NotifyOptions{})
	if err != nil {
		t.Fatalf("resolution failure must not surface, got %v", err)
	}
	if n == nil || len(store.notifications) != 1 {
		t.Fatal("the record must survive a resolution failure")
	}
	if len(pusher.pushed(1)) != 0 {
		t.Error("an unresolvable notification must not be pushed")
	}
}

func TestNotifyPersistenceFailurePropagates(t *testing.T) {
	f, _, _, _ := newTestFactory(t)
	f.store.(*fakeStore).createErr = errors.New("postgres down")

	if _, err := f.Notify(context.Background(), 1, 2, models.NotificationFollow, NotifyOptions{}); err == nil {
		t.Fatal("a persistence failure must be returned to the caller")
	}
}
