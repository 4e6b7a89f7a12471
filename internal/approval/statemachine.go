package approval

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"nirman/internal/model"
	"nirman/pkg/apperror"
)

// Decision is the admin's verdict on a pending item.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ResolutionAction tells the caller what a resolution did, so the
// persistence layer knows whether to merge, delete, or just flip status.
type ResolutionAction string

const (
	ResolutionApproved ResolutionAction = "approved"
	ResolutionEdited   ResolutionAction = "edited"
	ResolutionDeleted  ResolutionAction = "deleted"
	ResolutionRejected ResolutionAction = "rejected"
)

// Resolution is the outcome of resolving a pending item. Changes carries the
// decoded pending diff when Action is ResolutionEdited, nil otherwise.
type Resolution struct {
	Action  ResolutionAction
	Changes map[string]any
}

// SubmitCreate marks a freshly built resource as awaiting creation approval.
func SubmitCreate(g *model.Governed, submitter uuid.UUID, message string) {
	g.ApprovalStatus = model.ApprovalPendingCreate
	g.SubmittedBy = &submitter
	g.RequestMessage = message
}

// SubmitEdit stashes the proposed diff without touching live fields. A
// second edit request on the same resource overwrites the previous pending
// diff: last write wins, requests do not queue.
func SubmitEdit(g *model.Governed, diff map[string]any, submitter uuid.UUID, message string) error {
	if len(diff) == 0 {
		return apperror.Validation("edit request carries no changes")
	}
	raw, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("encoding pending changes: %w", err)
	}
	g.ApprovalStatus = model.ApprovalPendingEdit
	g.PendingData = string(raw)
	g.SubmittedBy = &submitter
	g.RequestMessage = message
	return nil
}

// SubmitDelete flags the resource for deletion. It stays fully readable and
// functional until an admin resolves the request.
func SubmitDelete(g *model.Governed, submitter uuid.UUID, message string) {
	g.ApprovalStatus = model.ApprovalPendingDelete
	g.SubmittedBy = &submitter
	g.RequestMessage = message
}

// MarkApproved is the direct path taken by admins and by actions the matrix
// does not govern.
func MarkApproved(g *model.Governed) {
	g.ApprovalStatus = model.ApprovalApproved
	g.PendingData = ""
}

// Resolve applies an admin decision to a pending resource and reports what
// the persistence layer must do next. Resolving an item that is not in a
// pending state is an invalid-state error, not an idempotent no-op.
//
// Rejection is a label, not a rollback: the live data is left untouched and
// RejectionCount is bumped. The pending diff is cleared on rejection so a
// later approval cycle can never replay stale changes.
func Resolve(g *model.Governed, decision Decision, remarks string) (Resolution, error) {
	if !g.Pending() {
		return Resolution{}, apperror.InvalidState(fmt.Sprintf("resource is %s, not pending", g.ApprovalStatus))
	}

	if decision == DecisionRejected {
		g.ApprovalStatus = model.ApprovalRejected
		g.PendingData = ""
		g.ReviewRemarks = remarks
		g.RejectionCount++
		return Resolution{Action: ResolutionRejected}, nil
	}
	if decision != DecisionApproved {
		return Resolution{}, apperror.Validation(fmt.Sprintf("unknown decision %q", decision))
	}

	switch g.ApprovalStatus {
	case model.ApprovalPendingDelete:
		g.ReviewRemarks = remarks
		return Resolution{Action: ResolutionDeleted}, nil

	case model.ApprovalPendingEdit:
		if g.PendingData != "" {
			var changes map[string]any
			if err := json.Unmarshal([]byte(g.PendingData), &changes); err != nil {
				return Resolution{}, fmt.Errorf("decoding pending changes: %w", err)
			}
			g.ApprovalStatus = model.ApprovalApproved
			g.PendingData = ""
			g.ReviewRemarks = remarks
			return Resolution{Action: ResolutionEdited, Changes: changes}, nil
		}
		fallthrough

	default:
		g.ApprovalStatus = model.ApprovalApproved
		g.PendingData = ""
		g.ReviewRemarks = remarks
		return Resolution{Action: ResolutionApproved}, nil
	}
}
