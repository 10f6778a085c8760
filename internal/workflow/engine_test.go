package workflow

import (
	"context"
	"sync"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes ---

type fakeStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.ContentRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{requests: make(map[uuid.UUID]*model.ContentRequest)}
}

func (s *fakeStore) Create(_ context.Context, req *model.ContentRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	clone := *req
	s.requests[req.ID] = &clone
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*model.ContentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	clone := *req
	return &clone, nil
}

func (s *fakeStore) UpdateWhereStatus(_ context.Context, id uuid.UUID, expected model.RequestStatus, fn func(*model.ContentRequest)) (*model.ContentRequest, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok || req.Status != expected {
		return nil, false, nil
	}
	clone := *req
	fn(&clone)
	s.requests[id] = &clone
	result := clone
	return &result, true, nil
}

type fakeDirectory struct {
	users   map[uuid.UUID]*model.User
	manager *model.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[uuid.UUID]*model.User)}
}

func (d *fakeDirectory) add(role model.UserRole) *model.User {
	u := &model.User{ID: uuid.New(), Role: role}
	d.users[u.ID] = u
	if role == model.RoleManager && d.manager == nil {
		d.manager = u
	}
	return u
}

func (d *fakeDirectory) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return d.users[id], nil
}

func (d *fakeDirectory) FirstManager(_ context.Context) (*model.User, error) {
	return d.manager, nil
}

// --- fixture ---

type fixture struct {
	engine  *Engine
	store   *fakeStore
	dir     *fakeDirectory
	manager Actor
	editor  Actor
	client  Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	dir := newFakeDirectory()

	managerUser := dir.add(model.RoleManager)
	editorUser := dir.add(model.RoleEditor)
	clientUser := dir.add(model.RoleClient)
	clientID := uuid.New()
	clientUser.ClientID = &clientID

	return &fixture{
		engine:  NewEngine(store, dir),
		store:   store,
		dir:     dir,
		manager: Actor{ID: managerUser.ID, Role: model.RoleManager},
		editor:  Actor{ID: editorUser.ID, Role: model.RoleEditor},
		client:  Actor{ID: clientUser.ID, Role: model.RoleClient, ClientID: &clientID},
	}
}

func (f *fixture) create(t *testing.T) *model.ContentRequest {
	t.Helper()
	req, err := f.engine.Create(context.Background(), f.client, CreateInput{
		Message:     "Need a launch post",
		ContentType: model.ContentTypePost,
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) assigned(t *testing.T) *model.ContentRequest {
	t.Helper()
	req := f.create(t)
	req, err := f.engine.Assign(context.Background(), f.manager, req.ID, f.editor.ID)
	require.NoError(t, err)
	return req
}

func (f *fixture) submitted(t *testing.T) *model.ContentRequest {
	t.Helper()
	req := f.assigned(t)
	req, err := f.engine.Submit(context.Background(), f.editor, req.ID, SubmitInput{
		Message: "First draft attached",
		WorkURL: "https://drive.example.com/v1",
	})
	require.NoError(t, err)
	return req
}

// --- create ---

func TestCreateStartsPendingAndRoutesToManager(t *testing.T) {
	f := newFixture(t)

	req := f.create(t)

	require.Equal(t, model.StatusPendingManagerReview, req.Status)
	require.Equal(t, *f.client.ClientID, req.ClientID)
	require.Equal(t, f.client.ID, req.FromUserID)
	require.NotNil(t, req.ToUserID)
	require.Equal(t, f.manager.ID, *req.ToUserID)
}

func TestCreateRejectsNonClientRoles(t *testing.T) {
	f := newFixture(t)

	for _, actor := range []Actor{f.manager, f.editor} {
		_, err := f.engine.Create(context.Background(), actor, CreateInput{
			Message:     "hi",
			ContentType: model.ContentTypePost,
		})
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	}
}

func TestCreateRequiresClientScope(t *testing.T) {
	f := newFixture(t)

	actor := Actor{ID: uuid.New(), Role: model.RoleClient} // no workspace binding
	_, err := f.engine.Create(context.Background(), actor, CreateInput{
		Message:     "hi",
		ContentType: model.ContentTypePost,
	})

	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

func TestCreateValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(context.Background(), f.client, CreateInput{
		Message:     "   ",
		ContentType: model.ContentTypePost,
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "message", validation.Field)

	_, err = f.engine.Create(context.Background(), f.client, CreateInput{
		Message:     "hi",
		ContentType: model.ContentType("banner"),
	})
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "content_type", validation.Field)
}

func TestCreateFailsWithoutAnyManager(t *testing.T) {
	store := newFakeStore()
	dir := newFakeDirectory()
	clientUser := dir.add(model.RoleClient)
	clientID := uuid.New()
	clientUser.ClientID = &clientID
	engine := NewEngine(store, dir)

	_, err := engine.Create(context.Background(), Actor{ID: clientUser.ID, Role: model.RoleClient, ClientID: &clientID}, CreateInput{
		Message:     "hi",
		ContentType: model.ContentTypeReel,
	})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

// --- assign ---

func TestAssignMovesRequestToEditor(t *testing.T) {
	f := newFixture(t)

	req := f.assigned(t)

	require.Equal(t, model.StatusAssignedToEditor, req.Status)
	require.NotNil(t, req.AssignedEditorID)
	require.Equal(t, f.editor.ID, *req.AssignedEditorID)
	require.Equal(t, f.editor.ID, *req.ToUserID)
}

func TestAssignRejectsNonEditorAssignee(t *testing.T) {
	f := newFixture(t)
	req := f.create(t)

	_, err := f.engine.Assign(context.Background(), f.manager, req.ID, f.manager.ID)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "editor_id", validation.Field)
}

func TestAssignUnknownRequestIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Assign(context.Background(), f.manager, uuid.New(), f.editor.ID)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAssignTwiceIsInvalidState(t *testing.T) {
	f := newFixture(t)
	req := f.assigned(t)

	_, err := f.engine.Assign(context.Background(), f.manager, req.ID, f.editor.ID)

	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, model.StatusAssignedToEditor, invalid.Current)
}

// --- submit ---

func TestSubmitRecordsWorkAndRoutesToManager(t *testing.T) {
	f := newFixture(t)

	req := f.submitted(t)

	require.Equal(t, model.StatusSubmittedForReview, req.Status)
	require.Equal(t, "First draft attached", req.EditorMessage)
	require.Equal(t, "https://drive.example.com/v1", req.CompletedWorkURL)
	require.Equal(t, f.manager.ID, *req.ToUserID)
}

func TestSubmitByOtherEditorIsForbidden(t *testing.T) {
	f := newFixture(t)
	req := f.assigned(t)

	otherEditor := f.dir.add(model.RoleEditor)
	_, err := f.engine.Submit(context.Background(), Actor{ID: otherEditor.ID, Role: model.RoleEditor}, req.ID, SubmitInput{Message: "done"})

	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

func TestSubmitRequiresMessage(t *testing.T) {
	f := newFixture(t)
	req := f.assigned(t)

	_, err := f.engine.Submit(context.Background(), f.editor, req.ID, SubmitInput{Message: ""})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestResubmitClearsFeedbackAndKeepsWorkURL(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)

	req, err := f.engine.ManagerReview(context.Background(), f.manager, req.ID, ReviewInput{Approve: false, Feedback: "logo too small"})
	require.NoError(t, err)
	require.Equal(t, "logo too small", req.ManagerFeedback)

	// Resubmission without a new work reference retains the old one and wipes feedback
	req, err = f.engine.Submit(context.Background(), f.editor, req.ID, SubmitInput{Message: "Logo resized"})
	require.NoError(t, err)
	require.Equal(t, model.StatusSubmittedForReview, req.Status)
	require.Empty(t, req.ManagerFeedback)
	require.Empty(t, req.ClientFeedback)
	require.Equal(t, "https://drive.example.com/v1", req.CompletedWorkURL)
}

// --- manager review ---

func TestManagerApproveRoutesToRequestingClient(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)

	req, err := f.engine.ManagerReview(context.Background(), f.manager, req.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	require.Equal(t, model.StatusManagerApproved, req.Status)
	require.Equal(t, req.FromUserID, *req.ToUserID)
}

func TestManagerRejectRequiresFeedback(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)

	_, err := f.engine.ManagerReview(context.Background(), f.manager, req.ID, ReviewInput{Approve: false, Feedback: "  "})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "feedback", validation.Field)
}

func TestManagerRejectReturnsToEditor(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)

	req, err := f.engine.ManagerReview(context.Background(), f.manager, req.ID, ReviewInput{Approve: false, Feedback: "redo the caption"})
	require.NoError(t, err)

	require.Equal(t, model.StatusManagerRejected, req.Status)
	require.Equal(t, "redo the caption", req.ManagerFeedback)
	require.Equal(t, f.editor.ID, *req.ToUserID)
}

// --- client review ---

func TestClientApproveIsTerminal(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)
	req, err := f.engine.ManagerReview(context.Background(), f.manager, req.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	req, err = f.engine.ClientReview(context.Background(), f.client, req.ID, ReviewInput{Approve: true, Feedback: "love it"})
	require.NoError(t, err)

	require.Equal(t, model.StatusClientApproved, req.Status)
	require.Equal(t, "love it", req.ClientFeedback)
	require.Nil(t, req.ToUserID)

	// Nothing moves out of the terminal state
	_, err = f.engine.ClientReview(context.Background(), f.client, req.ID, ReviewInput{Approve: false, Feedback: "changed my mind"})
	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
}

func TestClientRejectReturnsToEditor(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)
	req, err := f.engine.ManagerReview(context.Background(), f.manager, req.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	req, err = f.engine.ClientReview(context.Background(), f.client, req.ID, ReviewInput{Approve: false, Feedback: "wrong tone"})
	require.NoError(t, err)

	require.Equal(t, model.StatusClientRejected, req.Status)
	require.Equal(t, "wrong tone", req.ClientFeedback)
	require.Equal(t, f.editor.ID, *req.ToUserID)
}

func TestClientReviewFromOtherWorkspaceIsForbidden(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)
	_, err := f.engine.ManagerReview(context.Background(), f.manager, req.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	otherClientID := uuid.New()
	stranger := Actor{ID: uuid.New(), Role: model.RoleClient, ClientID: &otherClientID}
	_, err = f.engine.ClientReview(context.Background(), stranger, req.ID, ReviewInput{Approve: true})

	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

// --- races ---

func TestLostConditionalUpdateSurfacesCurrentStatus(t *testing.T) {
	f := newFixture(t)
	req := f.submitted(t)

	// Flip the status behind the engine's back, as a concurrent winner would
	_, matched, err := f.store.UpdateWhereStatus(context.Background(), req.ID, model.StatusSubmittedForReview, func(r *model.ContentRequest) {
		r.Status = model.StatusManagerApproved
	})
	require.NoError(t, err)
	require.True(t, matched)

	_, err = f.engine.ManagerReview(context.Background(), f.manager, req.ID, ReviewInput{Approve: false, Feedback: "late"})

	var invalid *InvalidStateError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, model.StatusManagerApproved, invalid.Current)
}

// --- full lifecycle ---

func TestFullLifecycleWithBothRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.create(t)
	req, err := f.engine.Assign(ctx, f.manager, req.ID, f.editor.ID)
	require.NoError(t, err)

	req, err = f.engine.Submit(ctx, f.editor, req.ID, SubmitInput{Message: "v1", WorkURL: "https://files.example.com/v1"})
	require.NoError(t, err)

	req, err = f.engine.ManagerReview(ctx, f.manager, req.ID, ReviewInput{Approve: false, Feedback: "tighten the copy"})
	require.NoError(t, err)

	req, err = f.engine.Submit(ctx, f.editor, req.ID, SubmitInput{Message: "v2", WorkURL: "https://files.example.com/v2"})
	require.NoError(t, err)
	require.Empty(t, req.ManagerFeedback)

	req, err = f.engine.ManagerReview(ctx, f.manager, req.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	req, err = f.engine.ClientReview(ctx, f.client, req.ID, ReviewInput{Approve: false, Feedback: "different angle please"})
	require.NoError(t, err)
	require.Equal(t, model.StatusClientRejected, req.Status)

	req, err = f.engine.Submit(ctx, f.editor, req.ID, SubmitInput{Message: "v3"})
	require.NoError(t, err)
	require.Empty(t, req.ClientFeedback)
	require.Equal(t, "https://files.example.com/v2", req.CompletedWorkURL)

	req, err = f.engine.ManagerReview(ctx, f.manager, req.ID, ReviewInput{Approve: true})
	require.NoError(t, err)

	req, err = f.engine.ClientReview(ctx, f.client, req.ID, ReviewInput{Approve: true})
	require.NoError(t, err)
	require.Equal(t, model.StatusClientApproved, req.Status)
	require.True(t, req.Status.Terminal())
}
