package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nirman/internal/approval"
	"nirman/internal/model"
	"nirman/pkg/apperror"
)

// Actor is the already-resolved identity of the caller. Authentication
// happens in the middleware; services trust these values.
type Actor struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           string
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// DeleteResult reports what a delete call actually did.
type DeleteResult struct {
	Status string `json:"status"` // "deleted" or "pending-delete"
}

// ResolveResult wraps an admin decision outcome. Resource is nil when the
// resolution performed the real deletion.
type ResolveResult struct {
	Action   string                 `json:"action"` // approved, edited, deleted, rejected
	Resource model.GovernedResource `json:"resource,omitempty"`
}

// ResourceService is the single governed-resource operation set shared by
// all nine modules. Whether a mutation applies immediately or lands in the
// pending queue is decided by the approval matrix and the caller's role.
type ResourceService interface {
	Create(ctx context.Context, actor Actor, m model.Module, payload map[string]any, requestMessage string) (model.GovernedResource, error)
	Edit(ctx context.Context, actor Actor, m model.Module, id uuid.UUID, diff map[string]any, requestMessage string) (model.GovernedResource, error)
	Delete(ctx context.Context, actor Actor, m model.Module, id uuid.UUID, requestMessage string) (DeleteResult, error)
	Get(ctx context.Context, actor Actor, m model.Module, id uuid.UUID) (model.GovernedResource, error)
	List(ctx context.Context, actor Actor, m model.Module, projectID *uuid.UUID, page, limit int) (any, int64, error)
	Resolve(ctx context.Context, actor Actor, m model.Module, id uuid.UUID, decision approval.Decision, remarks string) (ResolveResult, error)
	ListPending(ctx context.Context, actor Actor) (map[model.Module]any, error)
}

type resourceService struct {
	db       *gorm.DB
	audit    AuditService
	notifier NotificationService
}

// NewResourceService creates the governed-resource service.
func NewResourceService(db *gorm.DB, audit AuditService, notifier NotificationService) ResourceService {
	return &resourceService{db: db, audit: audit, notifier: notifier}
}

// protectedColumns may never be set through a create payload or an edit
// diff; they are owned by the service itself or derived elsewhere.
var protectedColumns = map[string]bool{
	"id":              true,
	"organization_id": true,
	"approval_status": true,
	"pending_data":    true,
	"submitted_by":    true,
	"request_message": true,
	"review_remarks":  true,
	"rejection_count": true,
	"created_at":      true,
	"updated_at":      true,
}

// derivedRecordColumns are additionally off-limits on the record module:
// settlement recalculation owns them.
var derivedRecordColumns = map[string]bool{
	"paid_amount":    true,
	"balance_amount": true,
	"status":         true,
}

func sanitizePayload(m model.Module, payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if protectedColumns[k] {
			continue
		}
		if m == model.ModuleRecord && derivedRecordColumns[k] {
			continue
		}
		out[k] = v
	}
	return out
}

// decodeInto fills a typed governed model from a generic payload by going
// through JSON, so date strings and decimal strings parse the same way they
// would from a request body.
func decodeInto(res model.GovernedResource, payload map[string]any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperror.Validation("payload is not serializable")
	}
	if err := json.Unmarshal(raw, res); err != nil {
		return apperror.Validation(fmt.Sprintf("payload does not match resource shape: %v", err))
	}
	return nil
}

// approvalColumns is the column map for persisting just the workflow fields
// of a resource, leaving live columns untouched.
func approvalColumns(g *model.Governed) map[string]any {
	return map[string]any{
		"approval_status": g.ApprovalStatus,
		"pending_data":    g.PendingData,
		"submitted_by":    g.SubmittedBy,
		"request_message": g.RequestMessage,
		"review_remarks":  g.ReviewRemarks,
		"rejection_count": g.RejectionCount,
	}
}

// loadOwned fetches a governed resource by id scoped to the caller's
// organization. A miss and a cross-tenant hit are the same NotFound.
func (s *resourceService) loadOwned(db *gorm.DB, m model.Module, id, orgID uuid.UUID) (model.GovernedResource, error) {
	res, ok := model.NewGovernedResource(m)
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unknown resource module %q", m))
	}
	err := db.First(res, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound(fmt.Sprintf("%s not found", m))
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *resourceService) Create(ctx context.Context, actor Actor, m model.Module, payload map[string]any, requestMessage string) (model.GovernedResource, error) {
	res, ok := model.NewGovernedResource(m)
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unknown resource module %q", m))
	}
	if err := decodeInto(res, sanitizePayload(m, payload)); err != nil {
		return nil, err
	}
	res.SetOrganizationID(actor.OrganizationID)

	pending := approval.RequiresApproval(m, approval.ActionCreate, actor.Role)
	if pending {
		approval.SubmitCreate(res.Approval(), actor.UserID, requestMessage)
	} else {
		approval.MarkApproved(res.Approval())
		res.Approval().SubmittedBy = &actor.UserID
	}

	if err := s.db.WithContext(ctx).Create(res).Error; err != nil {
		return nil, err
	}

	if pending {
		s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionSubmitCreate, string(m), res.GetID(), map[string]any{"message": requestMessage})
		s.notifier.NotifyAdmins(ctx, actor, model.NotifyApprovalRequested,
			fmt.Sprintf("New %s awaiting approval", m), requestMessage)
	} else {
		s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionCreateResource, string(m), res.GetID(), nil)
	}
	return res, nil
}

func (s *resourceService) Edit(ctx context.Context, actor Actor, m model.Module, id uuid.UUID, diff map[string]any, requestMessage string) (model.GovernedResource, error) {
	diff = sanitizePayload(m, diff)
	if len(diff) == 0 {
		return nil, apperror.Validation("edit carries no applicable changes")
	}

	res, err := s.loadOwned(s.db.WithContext(ctx), m, id, actor.OrganizationID)
	if err != nil {
		return nil, err
	}

	if approval.RequiresApproval(m, approval.ActionEdit, actor.Role) {
		if err := approval.SubmitEdit(res.Approval(), diff, actor.UserID, requestMessage); err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(res).Updates(approvalColumns(res.Approval())).Error; err != nil {
			return nil, err
		}
		s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionSubmitEdit, string(m), id, map[string]any{"changes": diff, "message": requestMessage})
		s.notifier.NotifyAdmins(ctx, actor, model.NotifyApprovalRequested,
			fmt.Sprintf("Edit to %s awaiting approval", m), requestMessage)
		return res, nil
	}

	approval.MarkApproved(res.Approval())
	updates := make(map[string]any, len(diff)+2)
	for k, v := range diff {
		updates[k] = v
	}
	updates["approval_status"] = model.ApprovalApproved
	updates["pending_data"] = ""
	if err := s.db.WithContext(ctx).Model(res).Updates(updates).Error; err != nil {
		return nil, err
	}
	// Reload so the response carries the applied values, not the stale struct.
	res, err = s.loadOwned(s.db.WithContext(ctx), m, id, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionEditResource, string(m), id, map[string]any{"changes": diff})
	return res, nil
}

func (s *resourceService) Delete(ctx context.Context, actor Actor, m model.Module, id uuid.UUID, requestMessage string) (DeleteResult, error) {
	res, err := s.loadOwned(s.db.WithContext(ctx), m, id, actor.OrganizationID)
	if err != nil {
		return DeleteResult{}, err
	}

	if approval.RequiresApproval(m, approval.ActionDelete, actor.Role) {
		approval.SubmitDelete(res.Approval(), actor.UserID, requestMessage)
		if err := s.db.WithContext(ctx).Model(res).Updates(approvalColumns(res.Approval())).Error; err != nil {
			return DeleteResult{}, err
		}
		s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionSubmitDelete, string(m), id, map[string]any{"message": requestMessage})
		s.notifier.NotifyAdmins(ctx, actor, model.NotifyApprovalRequested,
			fmt.Sprintf("Deletion of %s awaiting approval", m), requestMessage)
		return DeleteResult{Status: model.ApprovalPendingDelete}, nil
	}

	if err := s.db.WithContext(ctx).Delete(res).Error; err != nil {
		return DeleteResult{}, err
	}
	s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionDeleteResource, string(m), id, nil)
	return DeleteResult{Status: "deleted"}, nil
}

func (s *resourceService) Get(ctx context.Context, actor Actor, m model.Module, id uuid.UUID) (model.GovernedResource, error) {
	return s.loadOwned(s.db.WithContext(ctx), m, id, actor.OrganizationID)
}

func (s *resourceService) List(ctx context.Context, actor Actor, m model.Module, projectID *uuid.UUID, page, limit int) (any, int64, error) {
	slice, ok := model.NewGovernedSlice(m)
	if !ok {
		return nil, 0, apperror.Validation(fmt.Sprintf("unknown resource module %q", m))
	}
	probe, _ := model.NewGovernedResource(m)

	query := s.db.WithContext(ctx).Model(probe).Where("organization_id = ?", actor.OrganizationID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(slice).Error; err != nil {
		return nil, 0, err
	}
	return slice, total, nil
}

func (s *resourceService) Resolve(ctx context.Context, actor Actor, m model.Module, id uuid.UUID, decision approval.Decision, remarks string) (ResolveResult, error) {
	if !actor.IsAdmin() {
		return ResolveResult{}, apperror.Forbidden("only admins resolve approval requests")
	}

	var (
		res        model.GovernedResource
		resolution approval.Resolution
		submitter  *uuid.UUID
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = s.loadOwned(tx, m, id, actor.OrganizationID)
		if err != nil {
			return err
		}
		submitter = res.Approval().SubmittedBy

		resolution, err = approval.Resolve(res.Approval(), decision, remarks)
		if err != nil {
			return err
		}

		switch resolution.Action {
		case approval.ResolutionDeleted:
			return tx.Delete(res).Error

		case approval.ResolutionEdited:
			updates := make(map[string]any, len(resolution.Changes)+6)
			for k, v := range sanitizePayload(m, resolution.Changes) {
				updates[k] = v
			}
			for k, v := range approvalColumns(res.Approval()) {
				updates[k] = v
			}
			return tx.Model(res).Updates(updates).Error

		default: // approved or rejected: workflow columns only
			return tx.Model(res).Updates(approvalColumns(res.Approval())).Error
		}
	})
	if err != nil {
		return ResolveResult{}, err
	}

	auditAction := model.ActionApproveRequest
	if resolution.Action == approval.ResolutionRejected {
		auditAction = model.ActionRejectRequest
	}
	s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, auditAction, string(m), id, map[string]any{
		"action":  string(resolution.Action),
		"remarks": remarks,
	})
	if submitter != nil {
		s.notifier.NotifyUser(ctx, actor.OrganizationID, *submitter, model.NotifyApprovalResolved,
			fmt.Sprintf("Your %s request was %s", m, resolution.Action), remarks)
	}

	result := ResolveResult{Action: string(resolution.Action)}
	if resolution.Action != approval.ResolutionDeleted {
		// Return the resolved row as persisted.
		if reloaded, err := s.loadOwned(s.db.WithContext(ctx), m, id, actor.OrganizationID); err == nil {
			result.Resource = reloaded
		}
	}
	return result, nil
}

// ListPending fans out over all nine governed tables and returns, per
// module, every resource whose status is one of the pending variants.
// Within a module, rows come back oldest first; there is no ordering
// guarantee across modules.
func (s *resourceService) ListPending(ctx context.Context, actor Actor) (map[model.Module]any, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins list pending approvals")
	}

	out := make(map[model.Module]any, len(model.GovernedModules()))
	for _, m := range model.GovernedModules() {
		slice, _ := model.NewGovernedSlice(m)
		probe, _ := model.NewGovernedResource(m)
		err := s.db.WithContext(ctx).Model(probe).
			Where("organization_id = ? AND approval_status LIKE ?", actor.OrganizationID, "pending%").
			Order("created_at asc").
			Find(slice).Error
		if err != nil {
			return nil, fmt.Errorf("listing pending %s: %w", m, err)
		}
		out[m] = slice
	}
	return out, nil
}
