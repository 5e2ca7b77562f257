package entity

import (
	"time"
)

// Post is the aggregate root for the engagement domain. It exclusively owns
// its embedded likes and comments; they are only ever read or mutated through
// the post itself.
//
// AuthorName and AuthorAvatar are denormalized from the author at creation
// time and intentionally never re-synced with later profile changes.
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"user"`
	Text         string    `json:"text"`
	AuthorName   string    `json:"name"`
	AuthorAvatar string    `json:"avatar"`
	Likes        []Like    `json:"likes"`
	Comments     []Comment `json:"comments"`
	CreatedAt    time.Time `json:"date"`
}

// Like is an embedded value owned by a Post. Invariant: at most one like per
// user id on a given post.
type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"date"`
}

// Comment is an embedded value owned by a Post. Its ID is unique within the
// post and is the only key used for removal.
type Comment struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user"`
	Text         string    `json:"text"`
	AuthorName   string    `json:"name"`
	AuthorAvatar string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}

// LikeBy returns the like placed by the given user, or nil.
func (p *Post) LikeBy(userID string) *Like {
	for i := range p.Likes {
		if p.Likes[i].UserID == userID {
			return &p.Likes[i]
		}
	}
	return nil
}

// AddLike prepends a like so the sequence stays newest-first.
func (p *Post) AddLike(l Like) {
	p.Likes = append([]Like{l}, p.Likes...)
}

// RemoveLikeBy removes the like whose user id matches. Removal is keyed by
// identity, never by position. Reports whether a like was removed.
func (p *Post) RemoveLikeBy(userID string) bool {
	for i := range p.Likes {
		if p.Likes[i].UserID == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// CommentByID returns the comment with the given id, or nil.
func (p *Post) CommentByID(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// AddComment prepends a comment so the sequence stays newest-first.
func (p *Post) AddComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

// RemoveCommentByID removes the comment with the given id. The comment's own
// id is the removal key; matching on the author would remove the wrong
// comment when a user has several comments on the same post.
func (p *Post) RemoveCommentByID(commentID string) bool {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}
