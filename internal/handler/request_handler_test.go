package handler

import (
	"errors"
	"net/http"
	"testing"

	"backend/internal/model"
	"backend/internal/workflow"

	"github.com/stretchr/testify/require"
)

func TestStatusFromWorkflowError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &workflow.NotFoundError{Entity: "request", ID: "x"}, http.StatusNotFound},
		{"forbidden", &workflow.ForbiddenError{Reason: "nope"}, http.StatusForbidden},
		{"invalid state", &workflow.InvalidStateError{Transition: workflow.TransitionAssign, Current: model.StatusClientApproved}, http.StatusConflict},
		{"validation", &workflow.ValidationError{Field: "message", Reason: "required"}, http.StatusBadRequest},
		{"persistence", &workflow.PersistenceError{Op: "create", Err: errors.New("connection reset")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, statusFromWorkflowError(tc.err))
		})
	}
}
