package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/feedline/backend/internal/domain/entity"
	repo "github.com/feedline/backend/internal/domain/repository"
	"github.com/feedline/backend/pkg/helpers"
	"github.com/feedline/backend/pkg/mailer"
)

var (
	ErrTextRequired    = errors.New("text is required")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAuthorized   = errors.New("user not authorized")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post has not yet been liked")
)

const feedCacheKey = "posts:feed"

// PostService implements the engagement rules on top of the post store.
// ES, Redis, and the publisher are optional; a nil client disables the
// corresponding side channel without affecting core behavior.
type PostService struct {
	Posts        repo.PostRepository
	Users        repo.UserRepository
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESPostsIndex string
	Pub          *helpers.RabbitPublisher
	FeedCacheTTL time.Duration
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esPostsIndex string, pub *helpers.RabbitPublisher, feedCacheTTL time.Duration) *PostService {
	return &PostService{
		Posts:        posts,
		Users:        users,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESPostsIndex: esPostsIndex,
		Pub:          pub,
		FeedCacheTTL: feedCacheTTL,
	}
}

// CreatePost persists a new post, denormalizing the author's current name
// and avatar. The copies are never re-synced with later profile changes.
func (s *PostService) CreatePost(ctx context.Context, authorID, text string) (*entity.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	u, err := s.Users.GetByID(authorID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p := &entity.Post{
		ID:           uuid.NewString(),
		AuthorID:     u.ID,
		Text:         text,
		AuthorName:   u.Name,
		AuthorAvatar: u.AvatarURL,
		Likes:        []entity.Like{},
		Comments:     []entity.Comment{},
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)
	s.indexPost(ctx, p)
	return p, nil
}

// ListPosts returns all posts newest-first, served from the Redis feed cache
// when warm.
func (s *PostService) ListPosts(ctx context.Context) ([]*entity.Post, error) {
	if s.Redis != nil {
		var cached []*entity.Post
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, feedCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	posts, err := s.Posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, feedCacheKey, posts, s.FeedCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("feed cache set failed")
		}
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeletePost removes the aggregate and everything it owns. Only the post's
// author may delete it.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	p, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != requesterID {
		return ErrNotAuthorized
	}
	if err := s.Posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	s.invalidateFeed(ctx)
	s.deletePostIndex(ctx, postID)
	return nil
}

// LikePost records a like for userID. A user can hold at most one like per
// post; a repeat is reported, not silently absorbed.
func (s *PostService) LikePost(ctx context.Context, postID, userID string) ([]entity.Like, error) {
	p, err := s.Posts.Mutate(ctx, postID, func(p *entity.Post) error {
		if p.LikeBy(userID) != nil {
			return ErrAlreadyLiked
		}
		p.AddLike(entity.Like{
			ID:        uuid.NewString(),
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.invalidateFeed(ctx)
	s.notifyEngagement(ctx, p, userID, "like", "")
	return p.Likes, nil
}

// UnlikePost removes exactly the like held by userID, looked up by user id
// rather than position.
func (s *PostService) UnlikePost(ctx context.Context, postID, userID string) ([]entity.Like, error) {
	p, err := s.Posts.Mutate(ctx, postID, func(p *entity.Post) error {
		if !p.RemoveLikeBy(userID) {
			return ErrNotLiked
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.invalidateFeed(ctx)
	return p.Likes, nil
}

// AddComment prepends a new comment, denormalizing the commenting user's
// current name and avatar.
func (s *PostService) AddComment(ctx context.Context, postID, authorID, text string) ([]entity.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	u, err := s.Users.GetByID(authorID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p, err := s.Posts.Mutate(ctx, postID, func(p *entity.Post) error {
		p.AddComment(entity.Comment{
			ID:           uuid.NewString(),
			UserID:       u.ID,
			Text:         text,
			AuthorName:   u.Name,
			AuthorAvatar: u.AvatarURL,
			CreatedAt:    time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.invalidateFeed(ctx)
	s.notifyEngagement(ctx, p, u.ID, "comment", text)
	return p.Comments, nil
}

// DeleteComment removes the comment with the given id. The comment id is the
// removal key; the requester only gates authorization.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID, requesterID string) ([]entity.Comment, error) {
	p, err := s.Posts.Mutate(ctx, postID, func(p *entity.Post) error {
		c := p.CommentByID(commentID)
		if c == nil {
			return ErrCommentNotFound
		}
		if c.UserID != requesterID {
			return ErrNotAuthorized
		}
		p.RemoveCommentByID(commentID)
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.invalidateFeed(ctx)
	return p.Comments, nil
}

func (s *PostService) invalidateFeed(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, feedCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("feed cache invalidation failed")
	}
}

// notifyEngagement queues an email to the post author. Best-effort: a queue
// or lookup failure is logged and otherwise ignored.
func (s *PostService) notifyEngagement(ctx context.Context, p *entity.Post, actorID, kind, excerpt string) {
	if s.Pub == nil || actorID == p.AuthorID {
		return
	}
	author, err := s.Users.GetByID(p.AuthorID)
	if err != nil {
		return
	}
	actor, err := s.Users.GetByID(actorID)
	if err != nil {
		return
	}
	job := mailer.NotificationJob{
		To:        author.Email,
		Recipient: author.Name,
		Actor:     actor.Name,
		Kind:      kind,
		PostID:    p.ID,
		Excerpt:   excerpt,
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("notification publish failed")
	}
}

func (s *PostService) indexPost(ctx context.Context, p *entity.Post) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"user_id":     p.AuthorID,
		"text":        p.Text,
		"author_name": p.AuthorName,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPostsIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post_id", p.ID).Warn("es index response error")
	}
}

func (s *PostService) deletePostIndex(ctx context.Context, postID string) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESPostsIndex, DocumentID: postID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", postID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchPosts performs a simple multi_match search on post text and author name.
func (s *PostService) SearchPosts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"text^2", "author_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESPostsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
