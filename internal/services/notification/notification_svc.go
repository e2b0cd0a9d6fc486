// Package notification generates user notifications from auction events and
// serves the per-user notification inbox.
package notification

import (
	"context"
	"time"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type NotificationDTO struct {
	ID        uuid.UUID                `json:"id"`
	Title     string                   `json:"title"`
	Message   string                   `json:"message"`
	Type      auction.NotificationType `json:"type" example:"Outbid"`
	IsRead    bool                     `json:"is_read"`
	ReadAt    *time.Time               `json:"read_at,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
} // @name Notification

type ListQuery struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type INotificationService interface {
	List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]NotificationDTO, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	store auction.NotificationStore
	now   func() time.Time
}

func NewNotificationService(store auction.NotificationStore) INotificationService {
	return &notificationService{store: store, now: time.Now}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, q ListQuery) ([]NotificationDTO, error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	ns, err := s.store.ListNotifications(ctx, userID, q.UnreadOnly, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]NotificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, NotificationDTO{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead only touches notifications owned by userID; anything else reads
// as not found.
func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.MarkNotificationRead(ctx, userID, id, s.now().UTC())
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.store.MarkAllNotificationsRead(ctx, userID, s.now().UTC())
	if err != nil {
		return 0, err
	}
	zap.L().Debug("notifications_marked_read", zap.Stringer("user_id", userID), zap.Int64("count", n))
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.DeleteNotification(ctx, userID, id)
}

func (s *notificationService) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.store.DeleteAllNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	zap.L().Debug("notifications_deleted", zap.Stringer("user_id", userID), zap.Int64("count", n))
	return n, nil
}
