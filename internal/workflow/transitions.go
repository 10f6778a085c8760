package workflow

import "backend/internal/model"

// Transition is a named, validated state change on a request
type Transition string

const (
	TransitionCreate        Transition = "create"
	TransitionAssign        Transition = "assign"
	TransitionSubmit        Transition = "submit"
	TransitionManagerReview Transition = "manager_review"
	TransitionClientReview  Transition = "client_review"
)

// transitionRole maps each transition to the single role allowed to perform it.
// Authorization is decided here, in one place, rather than scattered per handler.
type transitionRule struct {
	role model.UserRole
	from []model.RequestStatus // allowed current statuses; empty for create (new entity)
}

var transitionRules = map[Transition]transitionRule{
	TransitionCreate: {
		role: model.RoleClient,
	},
	TransitionAssign: {
		role: model.RoleManager,
		from: []model.RequestStatus{model.StatusPendingManagerReview},
	},
	TransitionSubmit: {
		role: model.RoleEditor,
		from: []model.RequestStatus{
			model.StatusAssignedToEditor,
			model.StatusManagerRejected,
			model.StatusClientRejected,
		},
	},
	TransitionManagerReview: {
		role: model.RoleManager,
		from: []model.RequestStatus{model.StatusSubmittedForReview},
	},
	TransitionClientReview: {
		role: model.RoleClient,
		from: []model.RequestStatus{model.StatusManagerApproved},
	},
}

// roleAllowed reports whether the actor role may perform the transition at all
func roleAllowed(t Transition, role model.UserRole) bool {
	rule, ok := transitionRules[t]
	return ok && rule.role == role
}

// statusAllowed reports whether the transition may fire from the given status.
// Terminal states are never listed, so nothing moves out of them.
func statusAllowed(t Transition, s model.RequestStatus) bool {
	rule, ok := transitionRules[t]
	if !ok {
		return false
	}
	for _, from := range rule.from {
		if from == s {
			return true
		}
	}
	return false
}
