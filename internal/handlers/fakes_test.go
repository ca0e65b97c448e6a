package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/travo-app/travo-server/internal/models"
	"gorm.io/gorm"
)

type fakeNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) FindRecent(recipientID, actorID uint, kind models.NotificationKind, targetPostID string, since time.Time) (*models.Notification, error) {
	for i := len(f.notifications) - 1; i >= 0; i-- {
		n := f.notifications[i]
		if n.RecipientID == recipientID && n.ActorID == actorID && n.Kind == kind &&
			n.TargetPostID == targetPostID && !n.CreatedAt.Before(since) {
			return &n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) GetNotificationByID(id uint) (*models.Notification, error) {
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			n := f.notifications[i]
			return &n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(id uint) error {
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].Read = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(recipientID uint) (int64, error) {
	var updated int64
	for i := range f.notifications {
		if f.notifications[i].RecipientID == recipientID && !f.notifications[i].Read {
			f.notifications[i].Read = true
			updated++
		}
	}
	return updated, nil
}

type fakeUserRepo struct {
	users    map[uint]*models.User
	countErr error // returned by the follower/following counter methods
}

func (f *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) CreateUser(u *models.User) error                  { return nil }
func (f *fakeUserRepo) GetUserByEmail(string) (*models.User, error)      { return nil, gorm.ErrRecordNotFound }
func (f *fakeUserRepo) UpdateUser(*models.User) error                    { return nil }
func (f *fakeUserRepo) DeleteUser(uint) error                            { return nil }
func (f *fakeUserRepo) SearchUsers(string) ([]models.User, error)        { return nil, nil }
func (f *fakeUserRepo) IncrementFollowersCount(uint) error               { return f.countErr }
func (f *fakeUserRepo) DecrementFollowersCount(uint) error               { return f.countErr }
func (f *fakeUserRepo) IncrementFollowingCount(uint) error               { return f.countErr }
func (f *fakeUserRepo) DecrementFollowingCount(uint) error               { return f.countErr }

type fakePostRepo struct {
	posts map[string]*models.Post
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, errors.New("post not found")
}

func (f *fakePostRepo) CreatePost(context.Context, *models.Post) error { return nil }
func (f *fakePostRepo) GetPostsByAuthorID(context.Context, uint, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (f *fakePostRepo) GetPostsByAuthorIDs(context.Context, []uint, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (f *fakePostRepo) GetAllPosts(context.Context, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (f *fakePostRepo) UpdatePost(context.Context, string, *models.Post) error { return nil }
func (f *fakePostRepo) DeletePost(context.Context, string) error               { return nil }
func (f *fakePostRepo) IncrementLikesCount(context.Context, string) error      { return nil }
func (f *fakePostRepo) DecrementLikesCount(context.Context, string) error      { return nil }
func (f *fakePostRepo) IncrementCommentsCount(context.Context, string) error   { return nil }
func (f *fakePostRepo) DecrementCommentsCount(context.Context, string) error   { return nil }

type fakeFollowRepo struct {
	follows []models.Follow
}

func (f *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	f.follows = append(f.follows, *follow)
	return nil
}

func (f *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	for i, fl := range f.follows {
		if fl.FollowerID == followerID && fl.FollowingID == followingID {
			f.follows = append(f.follows[:i], f.follows[i+1:]...)
			return nil
		}
	}
	return errors.New("follow relationship not found")
}

func (f *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, fl := range f.follows {
		if fl.FollowerID == followerID && fl.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) GetFollowers(uint) ([]models.User, error) { return nil, nil }
func (f *fakeFollowRepo) GetFollowing(uint) ([]models.User, error) { return nil, nil }

func (f *fakeFollowRepo) GetFollowingIDs(followerID uint) ([]uint, error) {
	var ids []uint
	for _, fl := range f.follows {
		if fl.FollowerID == followerID {
			ids = append(ids, fl.FollowingID)
		}
	}
	return ids, nil
}

type fakeLikeRepo struct {
	likes []models.Like
}

func (f *fakeLikeRepo) CreateLike(like *models.Like) error {
	f.likes = append(f.likes, *like)
	return nil
}

func (f *fakeLikeRepo) DeleteLike(postID string, userID uint) error {
	for i, l := range f.likes {
		if l.PostID == postID && l.UserID == userID {
			f.likes = append(f.likes[:i], f.likes[i+1:]...)
			return nil
		}
	}
	return errors.New("like not found")
}

func (f *fakeLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	for _, l := range f.likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (f *fakeLikeRepo) HasUserLikedPost(postID string, userID uint) (bool, error) {
	for _, l := range f.likes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// newTestContext builds an Echo context for handler tests, authenticated as
// userID when it is non-zero.
func newTestContext(method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}
