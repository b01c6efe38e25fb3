package crud

import (
	"strings"

	"gorm.io/gorm"

	"yatube/domain"
	"yatube/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.authorIDValid,
		pv.textRequired,
		pv.groupExists)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(post)
}

// Update runs validations needed for updating existing Post database records.
// The author never changes, so it is not validated here.
func (pv *postValidator) Update(post *domain.Post) error {
	err := runPostValFns(post,
		pv.idValid,
		pv.textRequired,
		pv.groupExists)
	if err != nil {
		return err
	}
	return pv.postGorm.Update(post)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn = func(post *domain.Post) error

// authorIDValid ensures that the author ID is not empty.
func (pv *postValidator) authorIDValid(post *domain.Post) error {
	if post.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post author is required.")
	}
	return nil
}

// idValid makes sure that the passed in ID of a Post to be updated is greater than 0.
func (pv *postValidator) idValid(post *domain.Post) error {
	if post.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post ID is invalid.")
	}
	return nil
}

// textRequired makes sure that the Post's text is not empty. The text column
// is nullable at the database level, but the form always requires it.
func (pv *postValidator) textRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Post text must not be empty.")
	}
	return nil
}

// groupExists makes sure that the Group the post is published into actually exists.
// This check only runs if the incoming Post object carries a group ID at all.
func (pv *postValidator) groupExists(post *domain.Post) error {
	if post.GroupID != 0 {
		err := pv.db.First(&domain.Group{}, "id = ?", post.GroupID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.Errorf(errs.EINVALID, "The selected group does not exist.")
			}
			return err
		}
	}
	return nil
}

// ByID retrieves a single Post by ID, along with its Author and Group.
// If the record doesn't exist, it returns ENOTFOUND.
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.
		Preload("Author").
		Preload("Group").
		First(&post, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	return &post, nil
}

// All returns one page of all posts, newest first.
func (pg *postGorm) All(page int) (*domain.Page, error) {
	return pg.page(func(db *gorm.DB) *gorm.DB {
		return db
	}, page)
}

// ByGroup returns one page of the given group's posts, newest first.
func (pg *postGorm) ByGroup(groupID int, page int) (*domain.Page, error) {
	return pg.page(func(db *gorm.DB) *gorm.DB {
		return db.Where("group_id = ?", groupID)
	}, page)
}

// ByAuthor returns one page of the given author's posts, newest first.
func (pg *postGorm) ByAuthor(authorID int, page int) (*domain.Page, error) {
	return pg.page(func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id = ?", authorID)
	}, page)
}

// ByFollowed returns one page of posts by every author the given user follows,
// newest first. A user who follows nobody gets an empty page.
func (pg *postGorm) ByFollowed(userID int, page int) (*domain.Page, error) {
	followed := pg.db.Model(&domain.Follow{}).
		Select("author_id").
		Where("user_id = ?", userID)
	return pg.page(func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id IN (?)", followed)
	}, page)
}

// CountByAuthor returns the total number of posts by the given author.
func (pg *postGorm) CountByAuthor(authorID int) (int, error) {
	var count int64
	err := pg.db.Model(&domain.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// page runs the shared pagination query: count the filtered posts, clamp the
// requested page number, then fetch one fixed-size slice with associations.
func (pg *postGorm) page(where func(db *gorm.DB) *gorm.DB, number int) (*domain.Page, error) {
	var total int64
	if err := where(pg.db.Model(&domain.Post{})).Count(&total).Error; err != nil {
		return nil, err
	}
	number, totalPages := domain.ClampPage(number, int(total))
	var posts []domain.Post
	err := where(pg.db.Model(&domain.Post{})).
		Preload("Author").
		Preload("Group").
		Order("created_at desc, id desc").
		Offset((number - 1) * domain.PostsPerPage).
		Limit(domain.PostsPerPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &domain.Page{
		Posts:      posts,
		Number:     number,
		TotalPages: totalPages,
		TotalCount: int(total),
	}, nil
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(post *domain.Post) error {
	if err := pg.db.Create(post).Error; err != nil {
		return err
	}
	return pg.db.Preload("Author").Preload("Group").First(post).Error
}

// Update writes the mutable fields of an existing Post record in place.
// Only text, group and image may change, the author is immutable.
func (pg *postGorm) Update(post *domain.Post) error {
	err := pg.db.Model(&domain.Post{ID: post.ID}).
		Select("text", "group_id", "image_url").
		Updates(map[string]interface{}{
			"text":      post.Text,
			"group_id":  nullableID(post.GroupID),
			"image_url": post.ImageURL,
		}).Error
	if err != nil {
		return err
	}
	return pg.db.Preload("Author").Preload("Group").First(post, "id = ?", post.ID).Error
}

// nullableID maps the zero ID onto NULL so clearing a post's group
// actually clears the column.
func nullableID(id int) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
