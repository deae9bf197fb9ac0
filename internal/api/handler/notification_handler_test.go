package handler

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/mongo"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubNotificationService 只回放预置结果
type stubNotificationService struct {
	unread    *dto.NotificationUnreadDTO
	unreadErr error
	list      []*dto.NotificationDTO
	listErr   error
}

func (s *stubNotificationService) Push(context.Context, *mongo.NotificationModel) error { return nil }

func (s *stubNotificationService) Create(context.Context, uint64, *dto.NotificationCreateDTO) error {
	return nil
}

func (s *stubNotificationService) GetNotificationList(context.Context, uint64, int, int) ([]*dto.NotificationDTO, error) {
	return s.list, s.listErr
}

func (s *stubNotificationService) GetUnreadCount(_ context.Context, userID uint64) (*dto.NotificationUnreadDTO, error) {
	if userID == 0 {
		return &dto.NotificationUnreadDTO{Count: 0}, nil
	}
	return s.unread, s.unreadErr
}

func (s *stubNotificationService) MarkRead(context.Context, uint64, string) error    { return nil }
func (s *stubNotificationService) MarkAllRead(context.Context, uint64) error         { return nil }
func (s *stubNotificationService) ClearAll(context.Context, uint64) error            { return nil }
func (s *stubNotificationService) DeleteLike(context.Context, uint64, uint64, primitive.ObjectID) error {
	return nil
}
func (s *stubNotificationService) DeleteForEntities(context.Context, []primitive.ObjectID) error {
	return nil
}
func (s *stubNotificationService) DeleteForUser(context.Context, uint64) error { return nil }

func performRequest(h gin.HandlerFunc, userID uint64, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if userID > 0 {
		c.Set("user_id", userID)
	}
	h(c)
	return w
}

func TestGetUnreadCount_Anonymous(t *testing.T) {
	h := NewNotificationHandler(&stubNotificationService{})

	w := performRequest(h.GetUnreadCount, 0, "/api/notifications/unread")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Code != 200 || resp.Data.Count != 0 {
		t.Errorf("response = code %d count %d, want 200/0", resp.Code, resp.Data.Count)
	}
}

func TestGetUnreadCount_DegradesToZero(t *testing.T) {
	h := NewNotificationHandler(&stubNotificationService{
		unreadErr: context.DeadlineExceeded,
	})

	w := performRequest(h.GetUnreadCount, 5, "/api/notifications/unread")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.Count != 0 {
		t.Errorf("count = %d, want 0 on read failure", resp.Data.Count)
	}
}

func TestGetNotificationList_DegradesToEmpty(t *testing.T) {
	h := NewNotificationHandler(&stubNotificationService{
		listErr: context.DeadlineExceeded,
	})

	w := performRequest(h.GetNotificationList, 5, "/api/notifications/list")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("data length = %d, want empty list", len(resp.Data))
	}
}
