package es

import (
	"context"
	"errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

type PostRepo interface {
	SearchPosts(ctx context.Context, keyword string, from, size int) ([]*PostES, error)
	GetLatestPosts(ctx context.Context, from, size int) ([]*PostES, error)
	IndexPost(ctx context.Context, post *PostES) error
	DeletePost(ctx context.Context, id string) error
}

type PostRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPostRepo(client *elasticsearch.TypedClient) PostRepo {
	return &PostRepoImpl{client: client}
}

// SearchPosts 按关键词全文检索帖子
func (s *PostRepoImpl) SearchPosts(ctx context.Context, keyword string, from, size int) ([]*PostES, error) {
	if keyword == "" {
		return []*PostES{}, nil
	}

	searchReq := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Should: []types.Query{
					{
						MultiMatch: &types.MultiMatchQuery{
							Query:  keyword,
							Fields: []string{"content^2", "author_name"},
						},
					},
					{
						MatchPhrasePrefix: map[string]types.MatchPhrasePrefixQuery{
							"content": {Query: keyword},
						},
					},
				},
			},
		}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, searchReq)
}

// GetLatestPosts 获取最新的帖子列表
func (s *PostRepoImpl) GetLatestPosts(ctx context.Context, from, size int) ([]*PostES, error) {
	searchReq := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			MatchAll: &types.MatchAllQuery{},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, searchReq)
}

// IndexPost 写入或覆盖帖子文档
func (s *PostRepoImpl) IndexPost(ctx context.Context, post *PostES) error {
	_, err := s.client.Index(PostIndex).
		Id(post.ID).
		Document(post).
		Do(ctx)
	return err
}

// DeletePost 删除帖子文档，文档不存在视为成功
func (s *PostRepoImpl) DeletePost(ctx context.Context, id string) error {
	_, err := s.client.Delete(PostIndex, id).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}
	return nil
}

func (s *PostRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PostES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PostES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var post PostES
		if hit.Source_ == nil {
			continue
		}
		if err = json.Unmarshal(hit.Source_, &post); err != nil {
			continue
		}
		results = append(results, &post)
	}
	return results, nil
}
