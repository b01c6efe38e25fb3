package domain

import (
	"time"
)

// PreviewLength is the number of runes of a post's text shown
// in short renderings (page titles, list snippets).
const PreviewLength = 30

// Post is the central entity of the app. A Post always belongs to an author
// and may optionally belong to a Group and carry one uploaded image.
// Posts are ordered newest first everywhere they are listed.
type Post struct {
	ID       int    `json:"id"`
	Text     string `json:"text" gorm:"type:text;default:null"`
	AuthorID int    `json:"author_id" gorm:"notNull;index"`
	Author   User   `json:"author" gorm:"constraint:OnDelete:CASCADE"`

	// GroupID stays NULL for posts published outside any group.
	// When a group is deleted its posts survive with the reference nulled.
	GroupID int    `json:"group_id,omitempty" gorm:"default:null"`
	Group   *Group `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL"`

	// ImageURL points into the object store. Empty means no image.
	ImageURL string `json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String renders the post by its text, the way lists and logs refer to it.
func (p Post) String() string {
	return p.Text
}

// Preview returns the first PreviewLength runes of the post's text.
func (p Post) Preview() string {
	runes := []rune(p.Text)
	if len(runes) <= PreviewLength {
		return p.Text
	}
	return string(runes[:PreviewLength])
}

// PostService is a set of methods to manipulate and work with the Post model.
type PostService interface {
	ByID(id int) (*Post, error)
	All(page int) (*Page, error)
	ByGroup(groupID int, page int) (*Page, error)
	ByAuthor(authorID int, page int) (*Page, error)
	ByFollowed(userID int, page int) (*Page, error)
	CountByAuthor(authorID int) (int, error)
	Create(post *Post) error
	Update(post *Post) error
}
