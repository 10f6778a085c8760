// Package workflow is the authoritative request lifecycle engine. Every status
// change on a content request goes through one of its five transitions; handlers
// and services never mutate status directly.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated party performing a transition
type Actor struct {
	ID       uuid.UUID
	Role     model.UserRole
	ClientID *uuid.UUID // client scope; set only for client-role actors
}

// Store persists content requests. FindByID returns (nil, nil) when the id does
// not resolve. UpdateWhereStatus applies fn to the record only while its status
// still equals expected — a conditional read-modify-write, so two concurrent
// transitions on the same request race safely and exactly one wins.
type Store interface {
	Create(ctx context.Context, req *model.ContentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ContentRequest, error)
	UpdateWhereStatus(ctx context.Context, id uuid.UUID, expected model.RequestStatus, fn func(*model.ContentRequest)) (*model.ContentRequest, bool, error)
}

// Directory resolves acting and referenced users. FindByID returns (nil, nil)
// when the id does not resolve.
type Directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FirstManager(ctx context.Context) (*model.User, error)
}

// Engine validates and applies request transitions against a Store and Directory
type Engine struct {
	store Store
	users Directory
	now   func() time.Time
}

// NewEngine returns a workflow engine backed by the given collaborators
func NewEngine(store Store, users Directory) *Engine {
	return &Engine{store: store, users: users, now: time.Now}
}

// CreateInput carries the client's ask for a new content request
type CreateInput struct {
	Message        string
	ContentType    model.ContentType
	Requirements   string
	CalendarItemID *uuid.UUID
	Media          []model.RequestMedia
}

// SubmitInput carries the editor's completed work
type SubmitInput struct {
	Message string
	WorkURL string // optional; previous completed_work_url is retained when empty
}

// ReviewInput carries an approve/reject decision with optional feedback
type ReviewInput struct {
	Approve  bool
	Feedback string
}

// Create starts a new request in pending_manager_review and routes it to a manager.
func (e *Engine) Create(ctx context.Context, actor Actor, in CreateInput) (*model.ContentRequest, error) {
	if !roleAllowed(TransitionCreate, actor.Role) {
		return nil, &ForbiddenError{Reason: "only clients may create requests"}
	}
	if actor.ClientID == nil {
		return nil, &ForbiddenError{Reason: "actor has no client scope"}
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, &ValidationError{Field: "message", Reason: "required"}
	}
	if !in.ContentType.Valid() {
		return nil, &ValidationError{Field: "content_type", Reason: "must be post, reel or story"}
	}

	manager, err := e.users.FirstManager(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve manager", Err: err}
	}
	if manager == nil {
		return nil, &NotFoundError{Entity: "manager", ID: "any"}
	}

	now := e.now()
	req := &model.ContentRequest{
		ClientID:       *actor.ClientID,
		FromUserID:     actor.ID,
		Message:        in.Message,
		ContentType:    in.ContentType,
		Requirements:   in.Requirements,
		CalendarItemID: in.CalendarItemID,
		Media:          in.Media,
		Status:         model.StatusPendingManagerReview,
		ToUserID:       &manager.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.store.Create(ctx, req); err != nil {
		return nil, &PersistenceError{Op: "create request", Err: err}
	}
	return req, nil
}

// Assign hands a pending request to an editor.
func (e *Engine) Assign(ctx context.Context, actor Actor, requestID, editorID uuid.UUID) (*model.ContentRequest, error) {
	req, err := e.load(ctx, TransitionAssign, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !statusAllowed(TransitionAssign, req.Status) {
		return nil, &InvalidStateError{Transition: TransitionAssign, Current: req.Status}
	}

	editor, err := e.users.FindByID(ctx, editorID)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve editor", Err: err}
	}
	if editor == nil || editor.Role != model.RoleEditor {
		return nil, &ValidationError{Field: "editor_id", Reason: "must reference a user with the editor role"}
	}

	return e.apply(ctx, TransitionAssign, requestID, req.Status, func(r *model.ContentRequest) {
		id := editor.ID
		r.Status = model.StatusAssignedToEditor
		r.AssignedEditorID = &id
		r.ToUserID = &id
	})
}

// Submit records the assigned editor's work and moves the request to review.
// Resubmission after a rejection clears both feedback fields; an omitted work
// reference keeps the previously stored one.
func (e *Engine) Submit(ctx context.Context, actor Actor, requestID uuid.UUID, in SubmitInput) (*model.ContentRequest, error) {
	req, err := e.load(ctx, TransitionSubmit, actor, requestID)
	if err != nil {
		return nil, err
	}
	if req.AssignedEditorID == nil || *req.AssignedEditorID != actor.ID {
		return nil, &ForbiddenError{Reason: "only the assigned editor may submit this request"}
	}
	if !statusAllowed(TransitionSubmit, req.Status) {
		return nil, &InvalidStateError{Transition: TransitionSubmit, Current: req.Status}
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, &ValidationError{Field: "message", Reason: "required"}
	}

	manager, err := e.users.FirstManager(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "resolve manager", Err: err}
	}
	if manager == nil {
		return nil, &NotFoundError{Entity: "manager", ID: "any"}
	}

	return e.apply(ctx, TransitionSubmit, requestID, req.Status, func(r *model.ContentRequest) {
		managerID := manager.ID
		r.Status = model.StatusSubmittedForReview
		r.EditorMessage = in.Message
		if in.WorkURL != "" {
			r.CompletedWorkURL = in.WorkURL
		}
		r.ManagerFeedback = ""
		r.ClientFeedback = ""
		r.ToUserID = &managerID
	})
}

// ManagerReview decides a submitted request. Approval routes it to the requesting
// client user; rejection requires feedback and sends it back to the editor.
func (e *Engine) ManagerReview(ctx context.Context, actor Actor, requestID uuid.UUID, in ReviewInput) (*model.ContentRequest, error) {
	req, err := e.load(ctx, TransitionManagerReview, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !statusAllowed(TransitionManagerReview, req.Status) {
		return nil, &InvalidStateError{Transition: TransitionManagerReview, Current: req.Status}
	}
	if !in.Approve && strings.TrimSpace(in.Feedback) == "" {
		return nil, &ValidationError{Field: "feedback", Reason: "required when rejecting"}
	}

	return e.apply(ctx, TransitionManagerReview, requestID, req.Status, func(r *model.ContentRequest) {
		if in.Approve {
			fromID := r.FromUserID
			r.Status = model.StatusManagerApproved
			r.ToUserID = &fromID
			return
		}
		r.Status = model.StatusManagerRejected
		r.ManagerFeedback = in.Feedback
		if r.AssignedEditorID != nil {
			editorID := *r.AssignedEditorID
			r.ToUserID = &editorID
		}
	})
}

// ClientReview is the final approval by the requesting client. Approval is
// terminal; rejection (feedback optional) sends the request back to the editor.
func (e *Engine) ClientReview(ctx context.Context, actor Actor, requestID uuid.UUID, in ReviewInput) (*model.ContentRequest, error) {
	req, err := e.load(ctx, TransitionClientReview, actor, requestID)
	if err != nil {
		return nil, err
	}
	if actor.ClientID == nil || *actor.ClientID != req.ClientID {
		return nil, &ForbiddenError{Reason: "request belongs to a different client"}
	}
	if !statusAllowed(TransitionClientReview, req.Status) {
		return nil, &InvalidStateError{Transition: TransitionClientReview, Current: req.Status}
	}

	return e.apply(ctx, TransitionClientReview, requestID, req.Status, func(r *model.ContentRequest) {
		r.ClientFeedback = in.Feedback
		if in.Approve {
			r.Status = model.StatusClientApproved
			r.ToUserID = nil
			return
		}
		r.Status = model.StatusClientRejected
		if r.AssignedEditorID != nil {
			editorID := *r.AssignedEditorID
			r.ToUserID = &editorID
		}
	})
}

// load checks the actor's role against the transition table and fetches the request
func (e *Engine) load(ctx context.Context, t Transition, actor Actor, id uuid.UUID) (*model.ContentRequest, error) {
	if !roleAllowed(t, actor.Role) {
		return nil, &ForbiddenError{Reason: fmt.Sprintf("role %s may not perform %s", actor.Role, t)}
	}
	req, err := e.store.FindByID(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "load request", Err: err}
	}
	if req == nil {
		return nil, &NotFoundError{Entity: "request", ID: id.String()}
	}
	return req, nil
}

// apply runs the conditional update. A zero-row match means another transition won
// the race between our read and write; re-read and report the real current status.
func (e *Engine) apply(ctx context.Context, t Transition, id uuid.UUID, expected model.RequestStatus, fn func(*model.ContentRequest)) (*model.ContentRequest, error) {
	updated, matched, err := e.store.UpdateWhereStatus(ctx, id, expected, func(r *model.ContentRequest) {
		fn(r)
		r.UpdatedAt = e.now()
	})
	if err != nil {
		return nil, &PersistenceError{Op: string(t), Err: err}
	}
	if !matched {
		cur, findErr := e.store.FindByID(ctx, id)
		if findErr == nil && cur != nil {
			return nil, &InvalidStateError{Transition: t, Current: cur.Status}
		}
		return nil, &NotFoundError{Entity: "request", ID: id.String()}
	}
	return updated, nil
}
