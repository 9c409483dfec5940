package cascade

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fridayblog/backend/internal/models"
	"github.com/fridayblog/backend/internal/repositories"
)

// ErrRootNotFound is returned when the entity a cascade targets does not exist
var ErrRootNotFound = errors.New("cascade root not found")

// PartialFailureError reports a cascade that mutated some dependents before a
// step failed. The root was not removed; every completed step is idempotent,
// so retrying the same cascade converges.
type PartialFailureError struct {
	Kind string
	Step string
	Err  error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s cascade stopped at step %q, dependents pending cleanup: %v", e.Kind, e.Step, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

// Result summarizes what a completed cascade touched
type Result struct {
	RemovedBlogs        int64 `json:"removed_blogs,omitempty"`
	RemovedComments     int64 `json:"removed_comments"`
	UpdatedReadingLists int64 `json:"updated_reading_lists"`
	RemovedReadingLists int64 `json:"removed_reading_lists,omitempty"`
	RemovedLikes        int64 `json:"removed_likes,omitempty"`
}

// Coordinator runs the multi-entity deletions as ordered sagas. Each step is
// awaited before the next starts and the HTTP response is gated on the whole
// chain, unlike the fire-and-forget fan-out this replaces. A durable intent
// row brackets every run.
type Coordinator struct {
	blogs        repositories.BlogRepository
	comments     repositories.CommentRepository
	readingLists repositories.ReadingListRepository
	users        repositories.UserRepository
	intents      repositories.IntentRepository
}

// NewCoordinator creates a new cascade Coordinator
func NewCoordinator(
	blogs repositories.BlogRepository,
	comments repositories.CommentRepository,
	readingLists repositories.ReadingListRepository,
	users repositories.UserRepository,
	intents repositories.IntentRepository,
) *Coordinator {
	return &Coordinator{
		blogs:        blogs,
		comments:     comments,
		readingLists: readingLists,
		users:        users,
		intents:      intents,
	}
}

// DeleteBlog removes a blog together with its dependents: every comment on
// the blog and every reading-list reference to it. The root is removed last
// so a partial run leaves nothing orphaned.
func (c *Coordinator) DeleteBlog(ctx context.Context, blogID string) (*Result, error) {
	blog, err := c.blogs.GetBlogByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, ErrRootNotFound
	}

	intent, err := c.intents.CreateCascadeIntent(models.CascadeKindBlogDelete, blogID)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	res.RemovedComments, err = c.comments.DeleteCommentsByBlog(ctx, blogID)
	if err != nil {
		return nil, c.fail(intent.ID, models.CascadeKindBlogDelete, "delete-comments", err)
	}
	log.Printf("cascade %d: %d comments removed for blog %s", intent.ID, res.RemovedComments, blogID)

	res.UpdatedReadingLists, err = c.readingLists.RemoveBlogFromAll(ctx, blogID)
	if err != nil {
		return nil, c.fail(intent.ID, models.CascadeKindBlogDelete, "clean-reading-lists", err)
	}
	log.Printf("cascade %d: blog %s pulled from %d reading lists", intent.ID, blogID, res.UpdatedReadingLists)

	if _, err = c.blogs.DeleteBlog(ctx, blogID); err != nil {
		return nil, c.fail(intent.ID, models.CascadeKindBlogDelete, "delete-root", err)
	}

	if err := c.intents.MarkCascadeCompleted(intent.ID, "delete-root"); err != nil {
		log.Printf("cascade %d: completed but intent not resolved: %v", intent.ID, err)
	}
	return res, nil
}

// DeleteUser removes a user together with everything they touched: authored
// blogs (each via the blog cascade so their comments and reading-list
// references go too), authored comments, owned reading lists, and the user's
// entries in every blog's likedByUsers with counters adjusted. Author-owned
// deletions run before like cleanup so blogs about to be deleted anyway are
// not reprocessed.
func (c *Coordinator) DeleteUser(ctx context.Context, userID string) (*Result, error) {
	user, err := c.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrRootNotFound
	}

	intent, err := c.intents.CreateCascadeIntent(models.CascadeKindUserDelete, userID)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	authored, err := c.blogs.GetBlogsByAuthor(ctx, userID)
	if err != nil {
		return nil, c.fail(intent.ID, models.CascadeKindUserDelete, "resolve-blogs", err)
	}
	for _, blog := range authored {
		blogRes, err := c.DeleteBlog(ctx, blog.ID.Hex())
		if err != nil && !errors.Is(err, ErrRootNotFound) {
			return nil, c.fail(intent.ID, models.CascadeKindUserDelete, "delete-blogs", err)
		}
		if blogRes != nil {
			res.RemovedBlogs++
			res.RemovedComments += blogRes.RemovedComments
			res.UpdatedReadingLists += blogRes.UpdatedReadingLists
		}
	}

	removedComments, err := c.comments.DeleteCommentsByAuthor(ctx, userID)
	if err != nil {
		return nil, c.fail(intent.ID, models.CascadeKindUserDelete, "delete-comments", err)
	}
	res.RemovedComments += removedComments

	res.RemovedReadingLists, err = c.readingLists.DeleteReadingListsByOwner(ctx, userID)
	if err != nil {
		return nil, c.fail(intent.ID, models.CascadeKindUserDelete, "delete-reading-lists", err)
	}

	res.RemovedLikes, err = c.blogs.RemoveUserLikes(ctx, userID)
	if err != nil {
		return nil, c.fail(intent.ID, models.CascadeKindUserDelete, "remove-likes", err)
	}
	log.Printf("cascade %d: user %s stripped from likedByUsers on %d blogs", intent.ID, userID, res.RemovedLikes)

	if _, err = c.users.DeleteUser(ctx, userID); err != nil {
		return nil, c.fail(intent.ID, models.CascadeKindUserDelete, "delete-root", err)
	}

	if err := c.intents.MarkCascadeCompleted(intent.ID, "delete-root"); err != nil {
		log.Printf("cascade %d: completed but intent not resolved: %v", intent.ID, err)
	}
	return res, nil
}

func (c *Coordinator) fail(intentID uint, kind, step string, err error) error {
	pf := &PartialFailureError{Kind: kind, Step: step, Err: err}
	log.Printf("cascade %d PARTIAL FAILURE: %v", intentID, pf)
	if markErr := c.intents.MarkCascadePartialFailure(intentID, step, err.Error()); markErr != nil {
		log.Printf("cascade %d: failed to record partial failure: %v", intentID, markErr)
	}
	return pf
}
