package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nirman/internal/model"
	"nirman/internal/repository"
	"nirman/pkg/apperror"
)

// Broadcaster pushes realtime events to connected clients. The websocket
// hub implements it; a nil broadcaster disables realtime delivery.
type Broadcaster interface {
	BroadcastToOrg(orgID uuid.UUID, payload []byte)
}

// NotificationService writes durable in-app notifications and mirrors them
// onto the websocket feed. The Notify* methods are best-effort: a submitter
// must never see their mutation fail because a notification insert did.
type NotificationService interface {
	NotifyAdmins(ctx context.Context, actor Actor, kind, title, body string)
	NotifyUser(ctx context.Context, orgID, userID uuid.UUID, kind, title, body string)
	List(ctx context.Context, actor Actor, page, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, actor Actor, id uuid.UUID) error
}

type notificationService struct {
	db    *gorm.DB
	users repository.UserRepository
	hub   Broadcaster
}

// NewNotificationService creates a new NotificationService instance.
func NewNotificationService(db *gorm.DB, users repository.UserRepository, hub Broadcaster) NotificationService {
	return &notificationService{db: db, users: users, hub: hub}
}

// NotifyAdmins fans a notification out to every admin of the actor's
// organization except the actor themselves.
func (s *notificationService) NotifyAdmins(ctx context.Context, actor Actor, kind, title, body string) {
	admins, err := s.users.ListAdmins(ctx, actor.OrganizationID)
	if err != nil {
		log.Printf("notification: failed to list admins for %s: %v", actor.OrganizationID, err)
		return
	}
	for _, admin := range admins {
		if admin.ID == actor.UserID {
			continue
		}
		s.NotifyUser(ctx, actor.OrganizationID, admin.ID, kind, title, body)
	}
}

func (s *notificationService) NotifyUser(ctx context.Context, orgID, userID uuid.UUID, kind, title, body string) {
	n := model.Notification{
		OrganizationID: orgID,
		UserID:         userID,
		Kind:           kind,
		Title:          title,
		Body:           body,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		log.Printf("notification: failed to store %q for user %s: %v", kind, userID, err)
		return
	}

	if s.hub != nil {
		if payload, err := json.Marshal(n); err == nil {
			s.hub.BroadcastToOrg(orgID, payload)
		}
	}
}

func (s *notificationService) List(ctx context.Context, actor Actor, page, limit int) ([]model.Notification, int64, error) {
	var items []model.Notification
	var total int64

	query := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("organization_id = ? AND user_id = ?", actor.OrganizationID, actor.UserID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := s.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", actor.OrganizationID, actor.UserID).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor Actor, id uuid.UUID) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND organization_id = ? AND user_id = ?", id, actor.OrganizationID, actor.UserID).
		Update("read_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("notification not found")
	}
	return nil
}
