package tag

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTag(ctx context.Context, id string) (domain.Tag, error)
		CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.Tag, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func ToTag(t entities.Tag) domain.Tag {
	return domain.Tag{
		ID:    t.ID.String(),
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		res = append(res, ToTag(t))
	}
	return res, nil
}

func (s *tagService) GetTag(ctx context.Context, id string) (domain.Tag, error) {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return domain.Tag{}, domain.ErrTagNotFound
	}

	tag, err := s.tagRepository.GetTagByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Tag{}, domain.ErrTagNotFound
		}
		return domain.Tag{}, err
	}
	return ToTag(tag), nil
}

func (s *tagService) CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.Tag, error) {
	exists, err := s.tagRepository.CheckSlugExists(ctx, req.Slug)
	if err != nil {
		return domain.Tag{}, err
	}
	if exists {
		return domain.Tag{}, domain.ErrTagSlugExists
	}

	tag := entities.Tag{
		Name:  req.Name,
		Slug:  req.Slug,
		Color: strings.ToUpper(req.Color),
	}
	if err := s.tagRepository.CreateTag(ctx, &tag); err != nil {
		return domain.Tag{}, err
	}
	return ToTag(tag), nil
}
