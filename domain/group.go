package domain

import (
	"time"
)

// Group is a named community that posts can be published into.
// Groups are created by administrators and only ever referenced,
// never owned, by posts.
type Group struct {
	ID          int    `json:"id"`
	Title       string `json:"title" gorm:"notNull"`
	Slug        string `json:"slug" gorm:"notNull;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g Group) String() string {
	return g.Title
}

type GroupService interface {
	BySlug(slug string) (*Group, error)
	// All lists every group, for the post form's group picker.
	All() ([]Group, error)
	Create(group *Group) error
}
