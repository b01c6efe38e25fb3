package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users. A Follow is created when one user subscribes to an author's posts.
// The UserID is the ID of the subscribing user, the AuthorID is the ID of the
// user being followed. The composite unique index keeps the edge single even
// when two identical requests race past the handler-level duplicate check.
type Follow struct {
	ID       int  `json:"id"`
	UserID   int  `json:"-" gorm:"notNull;index;uniqueIndex:idx_follow_edge"`
	User     User `json:"user" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID int  `json:"-" gorm:"notNull;index;uniqueIndex:idx_follow_edge"`
	Author   User `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
	Exists(userID, authorID int) (bool, error)
}
