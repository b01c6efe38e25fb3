package crud

import (
	"regexp"
	"strings"

	"gorm.io/gorm"

	"yatube/domain"
	"yatube/errs"
)

// GroupService manages Groups.
// It implements the domain.GroupService interface.
type GroupService struct {
	groupValidator
}

type groupValidator struct {
	slugRegex *regexp.Regexp
	groupGorm
}

type groupGorm struct {
	db *gorm.DB
}

// NewGroupService returns an instance of GroupService.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{
		groupValidator{
			slugRegex: regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`),
			groupGorm: groupGorm{
				db: db,
			},
		},
	}
}

var _ domain.GroupService = &GroupService{}

// Create runs validations needed for creating new Group database records.
// Groups are only created through admin tooling, never through a public route.
func (gv *groupValidator) Create(group *domain.Group) error {
	err := runGroupValFns(group,
		gv.titleRequired,
		gv.slugRequired,
		gv.slugFormat,
		gv.slugTaken)
	if err != nil {
		return err
	}
	return gv.groupGorm.Create(group)
}

func runGroupValFns(group *domain.Group, fns ...groupValFn) error {
	for _, fn := range fns {
		if err := fn(group); err != nil {
			return err
		}
	}
	return nil
}

type groupValFn = func(group *domain.Group) error

func (gv *groupValidator) titleRequired(group *domain.Group) error {
	if strings.TrimSpace(group.Title) == "" {
		return errs.Errorf(errs.EINVALID, "Group title is required.")
	}
	return nil
}

func (gv *groupValidator) slugRequired(group *domain.Group) error {
	if group.Slug == "" {
		return errs.Errorf(errs.EINVALID, "Group slug is required.")
	}
	return nil
}

func (gv *groupValidator) slugFormat(group *domain.Group) error {
	if !gv.slugRegex.MatchString(group.Slug) {
		return errs.Errorf(errs.EINVALID, "Group slug may only contain lowercase letters, digits and dashes.")
	}
	return nil
}

func (gv *groupValidator) slugTaken(group *domain.Group) error {
	err := gv.db.First(&domain.Group{}, "slug = ?", group.Slug).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "Group slug is already taken.")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}

// BySlug retrieves a single Group by its unique slug.
// If the record doesn't exist, it returns ENOTFOUND.
func (gg *groupGorm) BySlug(slug string) (*domain.Group, error) {
	var group domain.Group
	err := gg.db.First(&group, "slug = ?", slug).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The group does not exist.")
		}
		return nil, err
	}
	return &group, nil
}

// All retrieves every group, ordered by title for the post form's picker.
func (gg *groupGorm) All() ([]domain.Group, error) {
	var groups []domain.Group
	if err := gg.db.Order("title asc").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Create stores the data from the Group object in a new database record.
func (gg *groupGorm) Create(group *domain.Group) error {
	return gg.db.Create(group).Error
}
