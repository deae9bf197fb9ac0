package handler

import (
	"Ripple/internal/api/dto"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// stubSearchService 只回放预置结果
type stubSearchService struct {
	posts []*dto.PostSearchDTO
	err   error

	gotPage     int
	gotPageSize int
}

func (s *stubSearchService) SearchPosts(_ context.Context, _ string, page, pageSize int) ([]*dto.PostSearchDTO, error) {
	s.gotPage = page
	s.gotPageSize = pageSize
	return s.posts, s.err
}

func TestSearch_DegradesToEmpty(t *testing.T) {
	searchSvc := &stubSearchService{err: context.DeadlineExceeded}
	h := NewPostHandler(nil, searchSvc)

	w := performRequest(h.Search, 0, "/api/posts/search?q=hello")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Code int               `json:"code"`
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Code != 200 || len(resp.Data) != 0 {
		t.Errorf("response = code %d len %d, want 200/empty", resp.Code, len(resp.Data))
	}
}

func TestSearch_ClampsPagination(t *testing.T) {
	searchSvc := &stubSearchService{}
	h := NewPostHandler(nil, searchSvc)

	w := performRequest(h.Search, 0, "/api/posts/search?q=hi&page=0&page_size=-3")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if searchSvc.gotPage != 1 || searchSvc.gotPageSize != 20 {
		t.Errorf("page/pageSize = %d/%d, want 1/20", searchSvc.gotPage, searchSvc.gotPageSize)
	}
}

func TestPageQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 20},
		{"explicit values", "page=3&page_size=50", 3, 50},
		{"zero page clamps to first", "page=0", 1, 20},
		{"negative page clamps to first", "page=-2&page_size=10", 1, 10},
		{"zero size falls back to default", "page_size=0", 1, 20},
		{"oversized page_size capped", "page_size=5000", 1, 100},
		{"garbage values fall back", "page=abc&page_size=def", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/posts/feed?"+tt.query, nil)

			page, pageSize := pageQuery(c, 20)
			if page != tt.wantPage || pageSize != tt.wantPageSize {
				t.Errorf("pageQuery() = %d/%d, want %d/%d", page, pageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}
