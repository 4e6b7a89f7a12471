package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"nirman/internal/model"
	"nirman/internal/repository"
	"nirman/pkg/apperror"
)

const inviteTTL = 7 * 24 * time.Hour

type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=admin user"`
}

type AcceptInviteRequest struct {
	Token    string `json:"token" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// InviteService brings new members into an organization. Creating an invite
// mints a single-use token; the email carrying it is delivered by an
// external collaborator, so the token is returned to the caller here.
type InviteService interface {
	Create(ctx context.Context, actor Actor, req CreateInviteRequest) (*model.Invite, error)
	Accept(ctx context.Context, req AcceptInviteRequest) (*UserResponse, error)
	List(ctx context.Context, actor Actor) ([]model.Invite, error)
}

type inviteService struct {
	db    *gorm.DB
	txm   repository.TransactionManager
	users repository.UserRepository
	audit AuditService
}

// NewInviteService returns a new instance of InviteService
func NewInviteService(db *gorm.DB, txm repository.TransactionManager, users repository.UserRepository, audit AuditService) InviteService {
	return &inviteService{db: db, txm: txm, users: users, audit: audit}
}

func (s *inviteService) Create(ctx context.Context, actor Actor, req CreateInviteRequest) (*model.Invite, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins invite members")
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Validation("email already belongs to a member")
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	invite := model.Invite{
		OrganizationID: actor.OrganizationID,
		Email:          req.Email,
		Role:           role,
		Token:          uuid.NewString(),
		InvitedBy:      actor.UserID,
		ExpiresAt:      time.Now().Add(inviteTTL),
	}
	if err := s.db.WithContext(ctx).Create(&invite).Error; err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionCreateInvite, "invite", invite.ID, map[string]any{"email": req.Email, "role": role})
	return &invite, nil
}

// Accept redeems an invite token, creating the member account inside the
// inviting organization.
func (s *inviteService) Accept(ctx context.Context, req AcceptInviteRequest) (*UserResponse, error) {
	var invite model.Invite
	err := s.db.WithContext(ctx).First(&invite, "token = ?", req.Token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("invite not found")
	}
	if err != nil {
		return nil, err
	}
	if invite.AcceptedAt != nil {
		return nil, apperror.InvalidState("invite already accepted")
	}
	if time.Now().After(invite.ExpiresAt) {
		return nil, apperror.InvalidState("invite expired")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		OrganizationID: invite.OrganizationID,
		Name:           req.Name,
		Email:          invite.Email,
		Phone:          req.Phone,
		Password:       string(hashed),
		Role:           invite.Role,
	}
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return err
		}
		now := time.Now()
		return repository.GetDB(txCtx, s.db).Model(&invite).Update("accepted_at", &now).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, invite.OrganizationID, &user.ID, model.ActionAcceptInvite, "invite", invite.ID, nil)
	return mapUserResponse(user), nil
}

func (s *inviteService) List(ctx context.Context, actor Actor) ([]model.Invite, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins list invites")
	}
	var invites []model.Invite
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", actor.OrganizationID).
		Order("created_at desc").
		Find(&invites).Error
	return invites, err
}
