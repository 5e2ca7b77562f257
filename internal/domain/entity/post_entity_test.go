package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLikePrependsNewestFirst(t *testing.T) {
	t.Parallel()

	p := &Post{}
	p.AddLike(Like{ID: "l1", UserID: "u1"})
	p.AddLike(Like{ID: "l2", UserID: "u2"})

	require.Len(t, p.Likes, 2)
	assert.Equal(t, "l2", p.Likes[0].ID)
	assert.Equal(t, "l1", p.Likes[1].ID)
}

func TestRemoveLikeBy_KeyedByUser(t *testing.T) {
	t.Parallel()

	p := &Post{Likes: []Like{
		{ID: "l3", UserID: "u3"},
		{ID: "l2", UserID: "u2"},
		{ID: "l1", UserID: "u1"},
	}}

	assert.True(t, p.RemoveLikeBy("u2"))
	require.Len(t, p.Likes, 2)
	assert.Nil(t, p.LikeBy("u2"))
	assert.NotNil(t, p.LikeBy("u1"))
	assert.NotNil(t, p.LikeBy("u3"))

	assert.False(t, p.RemoveLikeBy("u2"))
}

func TestRemoveCommentByID_SameAuthorTwice(t *testing.T) {
	t.Parallel()

	// The same user has two comments; removing by comment id must take
	// exactly the requested one, not the author's first.
	p := &Post{Comments: []Comment{
		{ID: "c3", UserID: "alice", Text: "third"},
		{ID: "c2", UserID: "alice", Text: "second"},
		{ID: "c1", UserID: "bob", Text: "first"},
	}}

	assert.True(t, p.RemoveCommentByID("c2"))
	require.Len(t, p.Comments, 2)
	assert.Equal(t, "c3", p.Comments[0].ID)
	assert.Equal(t, "c1", p.Comments[1].ID)

	assert.False(t, p.RemoveCommentByID("c2"))
	assert.Nil(t, p.CommentByID("c2"))
}
