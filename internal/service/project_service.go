package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"nirman/internal/approval"
	"nirman/internal/model"
	"nirman/pkg/apperror"
)

type CreateProjectRequest struct {
	Name      string          `json:"name" binding:"required"`
	Address   string          `json:"address"`
	Budget    decimal.Decimal `json:"budget"`
	StartDate *time.Time      `json:"start_date"`
}

type UpdateProjectRequest struct {
	Name    string           `json:"name"`
	Address string           `json:"address"`
	Status  string           `json:"status" binding:"omitempty,oneof=active on-hold completed"`
	Budget  *decimal.Decimal `json:"budget"`
}

// ProjectService manages projects and project assignments. Projects are
// admin-managed and not governed by the approval matrix; assignment rows are
// what the access checks consult.
type ProjectService interface {
	Create(ctx context.Context, actor Actor, req CreateProjectRequest) (*model.Project, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateProjectRequest) (*model.Project, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Project, error)
	ListAccessible(ctx context.Context, actor Actor) ([]model.Project, error)
	Assign(ctx context.Context, actor Actor, projectID, userID uuid.UUID) (*model.ProjectAssignment, error)
	Unassign(ctx context.Context, actor Actor, projectID, userID uuid.UUID) error
}

type projectService struct {
	db    *gorm.DB
	audit AuditService
}

// NewProjectService returns a new instance of ProjectService
func NewProjectService(db *gorm.DB, audit AuditService) ProjectService {
	return &projectService{db: db, audit: audit}
}

func (s *projectService) Create(ctx context.Context, actor Actor, req CreateProjectRequest) (*model.Project, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins create projects")
	}
	project := model.Project{
		OrganizationID: actor.OrganizationID,
		Name:           req.Name,
		Address:        req.Address,
		Status:         model.ProjectActive,
		Budget:         req.Budget,
		StartDate:      req.StartDate,
	}
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionCreateProject, "project", project.ID, nil)
	return &project, nil
}

func (s *projectService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateProjectRequest) (*model.Project, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins update projects")
	}
	project, err := s.loadOwned(ctx, id, actor.OrganizationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}
	if len(updates) == 0 {
		return project, nil
	}
	if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.Project, error) {
	project, err := s.loadOwned(ctx, id, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		assignments, err := s.userAssignments(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !approval.CanAccessProject(id, actor.UserID, actor.Role, assignments) {
			// Same answer as a missing project: no existence leak.
			return nil, apperror.NotFound("project not found")
		}
	}
	return project, nil
}

// ListAccessible returns every project the actor can see: all of them for
// admins, assigned ones for everyone else.
func (s *projectService) ListAccessible(ctx context.Context, actor Actor) ([]model.Project, error) {
	var projects []model.Project
	if err := s.db.WithContext(ctx).
		Where("organization_id = ?", actor.OrganizationID).
		Order("created_at asc").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return projects, nil
	}
	assignments, err := s.userAssignments(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return approval.FilterAccessibleProjects(projects, actor.UserID, actor.Role, assignments), nil
}

func (s *projectService) Assign(ctx context.Context, actor Actor, projectID, userID uuid.UUID) (*model.ProjectAssignment, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins assign projects")
	}
	if _, err := s.loadOwned(ctx, projectID, actor.OrganizationID); err != nil {
		return nil, err
	}

	// Reactivate an existing row instead of stacking duplicates.
	var existing model.ProjectAssignment
	err := s.db.WithContext(ctx).
		First(&existing, "project_id = ? AND user_id = ?", projectID, userID).Error
	if err == nil {
		if !existing.Active {
			if err := s.db.WithContext(ctx).Model(&existing).Update("active", true).Error; err != nil {
				return nil, err
			}
			existing.Active = true
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	assignment := model.ProjectAssignment{ProjectID: projectID, UserID: userID, Active: true}
	if err := s.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionAssignProject, "project", projectID, map[string]any{"user_id": userID.String()})
	return &assignment, nil
}

func (s *projectService) Unassign(ctx context.Context, actor Actor, projectID, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperror.Forbidden("only admins manage assignments")
	}
	res := s.db.WithContext(ctx).Model(&model.ProjectAssignment{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("assignment not found")
	}
	return nil
}

func (s *projectService) loadOwned(ctx context.Context, id, orgID uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).First(&project, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *projectService) userAssignments(ctx context.Context, userID uuid.UUID) ([]model.ProjectAssignment, error) {
	var assignments []model.ProjectAssignment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = true", userID).
		Find(&assignments).Error
	return assignments, err
}
