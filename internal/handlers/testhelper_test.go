package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fridayblog/backend/internal/models"
	"github.com/fridayblog/backend/internal/notifier"
	"github.com/fridayblog/backend/internal/repositories"
	"github.com/fridayblog/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

func testClaims(user *models.User) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{
		UserID:            user.ID.Hex(),
		Email:             user.Email,
		FullName:          user.FullName,
		PhoneNumber:       user.PhoneNumber,
		PreferredHashtags: user.PreferredHashtags,
		Preferences:       user.Preferences,
	}
}

// fakeBlogRepo is an in-memory BlogRepository honoring the same contracts as
// the Mongo implementation: (nil, nil) misses, conditional like updates,
// idempotent bulk deletes.
type fakeBlogRepo struct {
	mu    sync.Mutex
	blogs map[string]*models.Blog
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[string]*models.Blog)}
}

func (r *fakeBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blog.ID = primitive.NewObjectID()
	if blog.LikedByUsers == nil {
		blog.LikedByUsers = []models.LikedByUser{}
	}
	cp := *blog
	r.blogs[blog.ID.Hex()] = &cp
	return nil
}

func (r *fakeBlogRepo) GetBlogs(_ context.Context) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Blog{}
	for _, b := range r.blogs {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBlogRepo) GetBlogByID(_ context.Context, id string) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBlogRepo) UpdateBlog(_ context.Context, id string, req *models.UpdateBlogRequest) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, nil
	}
	if req.Title != "" {
		b.Title = req.Title
	}
	if req.Content != "" {
		b.Content = req.Content
	}
	if req.Category != "" {
		b.Category = req.Category
	}
	if req.Hashtags != nil {
		b.Hashtags = req.Hashtags
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBlogRepo) DeleteBlog(_ context.Context, id string) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, nil
	}
	delete(r.blogs, id)
	return b, nil
}

func (r *fakeBlogRepo) sortedByLikes(filter func(*models.Blog) bool) []models.Blog {
	out := []models.Blog{}
	for _, b := range r.blogs {
		if filter == nil || filter(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LikesCount != out[j].LikesCount {
			return out[i].LikesCount > out[j].LikesCount
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out
}

func (r *fakeBlogRepo) GetPopularBlogs(_ context.Context) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedByLikes(nil), nil
}

func (r *fakeBlogRepo) GetPopularBlogsByCategory(_ context.Context, category string) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedByLikes(func(b *models.Blog) bool { return b.Category == category }), nil
}

func (r *fakeBlogRepo) GetRecommendedBlogs(_ context.Context, hashtags []string) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Blog{}
	for _, b := range r.blogs {
		for _, want := range hashtags {
			matched := false
			for _, have := range b.Hashtags {
				if have == want {
					out = append(out, *b)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBlogRepo) SearchBlogsByKeywords(_ context.Context, keywords string) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	words := strings.Fields(strings.ToLower(keywords))
	out := []models.Blog{}
	for _, b := range r.blogs {
		haystack := strings.ToLower(b.Title + " " + b.Content + " " + b.Author + " " + b.Category)
		for _, w := range words {
			if strings.Contains(haystack, w) {
				out = append(out, *b)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBlogRepo) AddLike(_ context.Context, blogID, userID string) (*models.Blog, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[blogID]
	if !ok {
		return nil, false, nil
	}
	for _, l := range b.LikedByUsers {
		if l.UserID.Hex() == userID {
			cp := *b
			return &cp, true, nil
		}
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false, err
	}
	b.LikedByUsers = append(b.LikedByUsers, models.LikedByUser{UserID: uid})
	b.LikesCount++
	cp := *b
	return &cp, false, nil
}

func (r *fakeBlogRepo) RemoveLike(_ context.Context, blogID, userID string) (*models.Blog, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[blogID]
	if !ok {
		return nil, false, nil
	}
	for i, l := range b.LikedByUsers {
		if l.UserID.Hex() == userID {
			b.LikedByUsers = append(b.LikedByUsers[:i], b.LikedByUsers[i+1:]...)
			b.LikesCount--
			cp := *b
			return &cp, false, nil
		}
	}
	cp := *b
	return &cp, true, nil
}

func (r *fakeBlogRepo) GetBlogsByAuthor(_ context.Context, userID string) ([]models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Blog{}
	for _, b := range r.blogs {
		if b.UserID.Hex() == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBlogRepo) DeleteBlogsByAuthor(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, b := range r.blogs {
		if b.UserID.Hex() == userID {
			delete(r.blogs, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeBlogRepo) RemoveUserLikes(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.blogs {
		for i, l := range b.LikedByUsers {
			if l.UserID.Hex() == userID {
				b.LikedByUsers = append(b.LikedByUsers[:i], b.LikedByUsers[i+1:]...)
				b.LikesCount--
				n++
				break
			}
		}
	}
	return n, nil
}

// fakeCommentRepo is an in-memory CommentRepository
type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	cp := *comment
	r.comments[comment.ID.Hex()] = &cp
	return nil
}

func (r *fakeCommentRepo) GetComments(_ context.Context) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.comments {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) UpdateComment(_ context.Context, id string, req *models.UpdateCommentRequest) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	c.Content = req.Content
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	delete(r.comments, id)
	return c, nil
}

func (r *fakeCommentRepo) GetCommentsByBlog(_ context.Context, blogID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.BlogID.Hex() == blogID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) DeleteCommentsByBlog(_ context.Context, blogID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.comments {
		if c.BlogID.Hex() == blogID {
			delete(r.comments, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) DeleteCommentsByAuthor(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.comments {
		if c.UserID.Hex() == userID {
			delete(r.comments, id)
			n++
		}
	}
	return n, nil
}

// fakeReadingListRepo is an in-memory ReadingListRepository
type fakeReadingListRepo struct {
	mu    sync.Mutex
	lists map[string]*models.ReadingList
}

func newFakeReadingListRepo() *fakeReadingListRepo {
	return &fakeReadingListRepo{lists: make(map[string]*models.ReadingList)}
}

func (r *fakeReadingListRepo) CreateReadingList(_ context.Context, list *models.ReadingList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list.ID = primitive.NewObjectID()
	if list.Blogs == nil {
		list.Blogs = []models.ReadingListBlog{}
	}
	cp := *list
	r.lists[list.ID.Hex()] = &cp
	return nil
}

func (r *fakeReadingListRepo) GetReadingLists(_ context.Context) ([]models.ReadingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ReadingList{}
	for _, l := range r.lists {
		out = append(out, *l)
	}
	return out, nil
}

func (r *fakeReadingListRepo) GetReadingListByID(_ context.Context, id string) (*models.ReadingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeReadingListRepo) UpdateReadingList(_ context.Context, id string, req *models.UpdateReadingListRequest) (*models.ReadingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[id]
	if !ok {
		return nil, nil
	}
	l.Name = req.Name
	cp := *l
	return &cp, nil
}

func (r *fakeReadingListRepo) DeleteReadingList(_ context.Context, id string) (*models.ReadingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[id]
	if !ok {
		return nil, nil
	}
	delete(r.lists, id)
	return l, nil
}

func (r *fakeReadingListRepo) AddBlog(_ context.Context, listID, blogID string) (*models.ReadingList, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[listID]
	if !ok {
		return nil, false, nil
	}
	for _, b := range l.Blogs {
		if b.BlogID.Hex() == blogID {
			cp := *l
			return &cp, true, nil
		}
	}
	bid, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, false, err
	}
	l.Blogs = append(l.Blogs, models.ReadingListBlog{BlogID: bid})
	cp := *l
	return &cp, false, nil
}

func (r *fakeReadingListRepo) RemoveBlog(_ context.Context, listID, blogID string) (*models.ReadingList, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[listID]
	if !ok {
		return nil, false, nil
	}
	for i, b := range l.Blogs {
		if b.BlogID.Hex() == blogID {
			l.Blogs = append(l.Blogs[:i], l.Blogs[i+1:]...)
			cp := *l
			return &cp, false, nil
		}
	}
	cp := *l
	return &cp, true, nil
}

func (r *fakeReadingListRepo) GetReadingListsContainingBlog(_ context.Context, blogID string) ([]models.ReadingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ReadingList{}
	for _, l := range r.lists {
		for _, b := range l.Blogs {
			if b.BlogID.Hex() == blogID {
				out = append(out, *l)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeReadingListRepo) RemoveBlogFromAll(_ context.Context, blogID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.lists {
		for i, b := range l.Blogs {
			if b.BlogID.Hex() == blogID {
				l.Blogs = append(l.Blogs[:i], l.Blogs[i+1:]...)
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeReadingListRepo) DeleteReadingListsByOwner(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, l := range r.lists {
		if l.UserID.Hex() == userID {
			delete(r.lists, id)
			n++
		}
	}
	return n, nil
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[user.ID.Hex()] = &cp
	return nil
}

func (r *fakeUserRepo) GetUsers(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.PhoneNumber != "" {
		u.PhoneNumber = req.PhoneNumber
	}
	if req.PreferredHashtags != nil {
		u.PreferredHashtags = req.PreferredHashtags
	}
	if req.Preferences != nil {
		u.Preferences = *req.Preferences
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.Password = passwordHash
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePasswordByEmail(_ context.Context, email, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.Password = passwordHash
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	delete(r.users, id)
	return u, nil
}

// fakeIntentRepo is an in-memory IntentRepository
type fakeIntentRepo struct {
	mu            sync.Mutex
	nextID        uint
	cascades      []*models.CascadeIntent
	notifications []*models.NotificationIntent
}

func newFakeIntentRepo() *fakeIntentRepo {
	return &fakeIntentRepo{}
}

func (r *fakeIntentRepo) CreateCascadeIntent(kind, rootID string) (*models.CascadeIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	intent := &models.CascadeIntent{Kind: kind, RootID: rootID, Status: models.CascadeStatusPending}
	intent.ID = r.nextID
	r.cascades = append(r.cascades, intent)
	return intent, nil
}

func (r *fakeIntentRepo) MarkCascadeCompleted(id uint, step string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.cascades {
		if i.ID == id {
			i.Status = models.CascadeStatusCompleted
			i.Step = step
		}
	}
	return nil
}

func (r *fakeIntentRepo) MarkCascadePartialFailure(id uint, step, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.cascades {
		if i.ID == id {
			i.Status = models.CascadeStatusPartialFailure
			i.Step = step
			i.Detail = detail
		}
	}
	return nil
}

func (r *fakeIntentRepo) CreateNotificationIntent(channel, recipient, subject, body string) (*models.NotificationIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	intent := &models.NotificationIntent{
		Channel:   channel,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Status:    models.NotificationStatusPending,
	}
	intent.ID = r.nextID
	r.notifications = append(r.notifications, intent)
	return intent, nil
}

func (r *fakeIntentRepo) MarkNotificationSent(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.notifications {
		if i.ID == id {
			i.Status = models.NotificationStatusSent
		}
	}
	return nil
}

func (r *fakeIntentRepo) MarkNotificationFailed(id uint, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.notifications {
		if i.ID == id {
			i.Status = models.NotificationStatusFailed
			i.Detail = detail
		}
	}
	return nil
}

func (r *fakeIntentRepo) GetPendingNotifications(limit int) ([]models.NotificationIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.NotificationIntent{}
	for _, i := range r.notifications {
		if i.Status == models.NotificationStatusPending {
			out = append(out, *i)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// recordingNotifier captures delivered intents
type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.NotificationIntent
}

func (n *recordingNotifier) Send(_ context.Context, intent *models.NotificationIntent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, *intent)
	return nil
}

func newTestOutbox(store repositories.IntentRepository) (*notifier.Outbox, *recordingNotifier, *recordingNotifier) {
	email := &recordingNotifier{}
	sms := &recordingNotifier{}
	return notifier.NewOutbox(store, email, sms), email, sms
}
