package domain

import (
	"time"
)

// Comment belongs to one post and one author. Comments are append-only:
// the app offers no way to edit or delete them, they only disappear when
// their post (or its author) is deleted.
type Comment struct {
	ID       int    `json:"id"`
	Text     string `json:"text" gorm:"type:text;notNull"`
	AuthorID int    `json:"author_id" gorm:"notNull;index"`
	Author   User   `json:"author" gorm:"constraint:OnDelete:CASCADE"`
	PostID   int    `json:"post_id" gorm:"notNull;index"`
	Post     Post   `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Comment) String() string {
	return c.Text
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	ByPost(postID int) ([]Comment, error)
	Create(comment *Comment) error
}
