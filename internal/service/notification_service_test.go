package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/mongo"
	"context"
	"errors"
	"testing"
	"time"
)

func TestRelativeAge(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-5 * time.Second), "5s"},
		{"minutes", now.Add(-3 * time.Minute), "3m"},
		{"hours", now.Add(-7 * time.Hour), "7h"},
		{"days", now.Add(-3 * 24 * time.Hour), "3d"},
		{"edge of a week", now.Add(-7*24*time.Hour + time.Second), "6d"},
		{"older than a week", now.Add(-10 * 24 * time.Hour), "2026-03-05"},
		{"future timestamp clamps to zero", now.Add(time.Minute), "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeAge(tt.t, now); got != tt.want {
				t.Errorf("RelativeAge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPush_SkipsSelfNotification(t *testing.T) {
	notifyRepo := newFakeNotificationRepo()
	svc := NewNotificationService(notifyRepo, newFakeUserRepo())

	err := svc.Push(context.Background(), &mongo.NotificationModel{
		RecipientID: 7,
		SenderID:    7,
		Type:        mongo.NotifyTypeLike,
	})
	if err != nil {
		t.Fatalf("Push error = %v", err)
	}
	if got := notifyRepo.byRecipient(7); len(got) != 0 {
		t.Errorf("self notifications = %d, want 0", len(got))
	}
}

func TestGetUnreadCount(t *testing.T) {
	notifyRepo := newFakeNotificationRepo()
	svc := NewNotificationService(notifyRepo, newFakeUserRepo())
	ctx := context.Background()

	// 未登录恒为 0
	unread, err := svc.GetUnreadCount(ctx, 0)
	if err != nil {
		t.Fatalf("GetUnreadCount(0) error = %v", err)
	}
	if unread.Count != 0 {
		t.Errorf("anonymous unread = %d, want 0", unread.Count)
	}

	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 5, SenderID: 6, Type: mongo.NotifyTypeLike})
	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 5, SenderID: 6, Type: mongo.NotifyTypeFollow})

	unread, err = svc.GetUnreadCount(ctx, 5)
	if err != nil {
		t.Fatalf("GetUnreadCount(5) error = %v", err)
	}
	if unread.Count != 2 {
		t.Errorf("unread = %d, want 2", unread.Count)
	}
}

func TestMarkRead(t *testing.T) {
	notifyRepo := newFakeNotificationRepo()
	svc := NewNotificationService(notifyRepo, newFakeUserRepo())
	ctx := context.Background()

	msg := &mongo.NotificationModel{RecipientID: 5, SenderID: 6, Type: mongo.NotifyTypeLike}
	if err := svc.Push(ctx, msg); err != nil {
		t.Fatalf("Push error = %v", err)
	}

	if err := svc.MarkRead(ctx, 5, "not-hex"); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("bad id error = %v, want ErrParamInvalid", err)
	}
	if err := svc.MarkRead(ctx, 5, missingEntityID); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("missing id error = %v, want ErrNotificationNotFound", err)
	}
	// 只能标记自己的通知
	if err := svc.MarkRead(ctx, 6, msg.ID.Hex()); !errors.Is(err, ForbiddenError) {
		t.Errorf("wrong owner error = %v, want ForbiddenError", err)
	}

	if err := svc.MarkRead(ctx, 5, msg.ID.Hex()); err != nil {
		t.Fatalf("MarkRead error = %v", err)
	}
	count, _ := notifyRepo.CountUnread(ctx, 5)
	if count != 0 {
		t.Errorf("unread after MarkRead = %d, want 0", count)
	}
	// 重复标记幂等
	if err := svc.MarkRead(ctx, 5, msg.ID.Hex()); err != nil {
		t.Errorf("repeated MarkRead error = %v, want nil", err)
	}
}

func TestClearAll(t *testing.T) {
	notifyRepo := newFakeNotificationRepo()
	svc := NewNotificationService(notifyRepo, newFakeUserRepo())
	ctx := context.Background()

	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 5, SenderID: 6, Type: mongo.NotifyTypeLike})
	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 5, SenderID: 7, Type: mongo.NotifyTypeFollow})
	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 6, SenderID: 5, Type: mongo.NotifyTypeLike})

	if err := svc.ClearAll(ctx, 5); err != nil {
		t.Fatalf("ClearAll error = %v", err)
	}
	if got := notifyRepo.byRecipient(5); len(got) != 0 {
		t.Errorf("notifications after ClearAll = %d, want 0", len(got))
	}
	// 其他用户的通知不受影响
	if got := notifyRepo.byRecipient(6); len(got) != 1 {
		t.Errorf("other user notifications = %d, want 1", len(got))
	}
}

func TestCreateNotification(t *testing.T) {
	notifyRepo := newFakeNotificationRepo()
	userRepo := newFakeUserRepo(&model.User{ID: 5, Username: "alice"}, &model.User{ID: 6, Username: "bob"})
	svc := NewNotificationService(notifyRepo, userRepo)
	ctx := context.Background()

	err := svc.Create(ctx, 6, &dto.NotificationCreateDTO{RecipientID: 5, Type: mongo.NotifyTypeMention, Preview: "look"})
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	got := notifyRepo.byRecipient(5)
	if len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
	if got[0].SenderID != 6 || got[0].Type != mongo.NotifyTypeMention || got[0].Preview != "look" {
		t.Errorf("notification = %+v, want sender 6 mention look", got[0])
	}

	// 给自己发通知静默忽略
	if err = svc.Create(ctx, 5, &dto.NotificationCreateDTO{RecipientID: 5, Type: mongo.NotifyTypeMention}); err != nil {
		t.Fatalf("self Create error = %v", err)
	}
	if got = notifyRepo.byRecipient(5); len(got) != 1 {
		t.Errorf("notifications after self create = %d, want 1", len(got))
	}

	if err = svc.Create(ctx, 6, &dto.NotificationCreateDTO{RecipientID: 5, Type: "bogus"}); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("unknown type error = %v, want ErrParamInvalid", err)
	}
	if err = svc.Create(ctx, 6, &dto.NotificationCreateDTO{RecipientID: 5, Type: mongo.NotifyTypeSystem}); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("system type error = %v, want ErrParamInvalid", err)
	}
	if err = svc.Create(ctx, 6, &dto.NotificationCreateDTO{RecipientID: 99, Type: mongo.NotifyTypeMention}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("missing recipient error = %v, want ErrUserNotFound", err)
	}
	if err = svc.Create(ctx, 6, &dto.NotificationCreateDTO{RecipientID: 5, Type: mongo.NotifyTypeLike, EntityID: "not-hex"}); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("bad entity id error = %v, want ErrParamInvalid", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	notifyRepo := newFakeNotificationRepo()
	svc := NewNotificationService(notifyRepo, newFakeUserRepo())
	ctx := context.Background()

	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 5, SenderID: 6, Type: mongo.NotifyTypeLike})
	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 5, SenderID: 7, Type: mongo.NotifyTypeFollow})
	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 6, SenderID: 5, Type: mongo.NotifyTypeLike})

	if err := svc.MarkAllRead(ctx, 5); err != nil {
		t.Fatalf("MarkAllRead error = %v", err)
	}
	if count, _ := notifyRepo.CountUnread(ctx, 5); count != 0 {
		t.Errorf("unread after MarkAllRead = %d, want 0", count)
	}
	// 通知仍在，只是已读
	if got := notifyRepo.byRecipient(5); len(got) != 2 {
		t.Errorf("notifications after MarkAllRead = %d, want 2", len(got))
	}
	// 其他用户不受影响
	if count, _ := notifyRepo.CountUnread(ctx, 6); count != 1 {
		t.Errorf("other user unread = %d, want 1", count)
	}
}

func TestGetNotificationList_RenderedContent(t *testing.T) {
	notifyRepo := newFakeNotificationRepo()
	userRepo := newFakeUserRepo(&model.User{ID: 6, Username: "bob"})
	svc := NewNotificationService(notifyRepo, userRepo)
	ctx := context.Background()

	_ = svc.Push(ctx, &mongo.NotificationModel{RecipientID: 5, SenderID: 6, Type: mongo.NotifyTypeLike, Preview: "hello"})

	list, err := svc.GetNotificationList(ctx, 5, 1, 10)
	if err != nil {
		t.Fatalf("GetNotificationList error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list length = %d, want 1", len(list))
	}
	got := list[0]
	if got.Content != "点赞了你的帖子" {
		t.Errorf("Content = %q, want rendered like text", got.Content)
	}
	if got.Sender == nil || got.Sender.Username != "bob" {
		t.Errorf("Sender = %+v, want bob", got.Sender)
	}
	if got.Preview != "hello" {
		t.Errorf("Preview = %q, want hello", got.Preview)
	}
	if got.RelativeAge == "" {
		t.Error("RelativeAge is empty")
	}
}
