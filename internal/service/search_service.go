package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/es"
	"context"
	"strings"
	"time"

	"github.com/jinzhu/copier"
)

type SearchService interface {
	SearchPosts(ctx context.Context, keyword string, page, pageSize int) ([]*dto.PostSearchDTO, error)
}

type searchServiceImpl struct {
	postESRepo es.PostRepo
}

func NewSearchService(postESRepo es.PostRepo) SearchService {
	return &searchServiceImpl{postESRepo: postESRepo}
}

// SearchPosts 关键词检索帖子，空关键词退化为最新帖子
func (s *searchServiceImpl) SearchPosts(ctx context.Context, keyword string, page, pageSize int) ([]*dto.PostSearchDTO, error) {
	from := (page - 1) * pageSize

	var (
		posts []*es.PostES
		err   error
	)
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		posts, err = s.postESRepo.GetLatestPosts(ctx, from, pageSize)
	} else {
		posts, err = s.postESRepo.SearchPosts(ctx, keyword, from, pageSize)
	}
	if err != nil {
		return nil, err
	}

	list := make([]*dto.PostSearchDTO, 0, len(posts))
	for _, post := range posts {
		item := &dto.PostSearchDTO{}
		_ = copier.Copy(item, post)
		item.CreatedAt = post.CreatedAt.UTC().Format(time.RFC3339)
		item.Media = nil
		for _, m := range post.Media {
			item.Media = append(item.Media, &dto.MediaBaseDTO{MediaType: m.Type, URL: m.URL})
		}
		list = append(list, item)
	}
	return list, nil
}
