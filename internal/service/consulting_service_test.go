package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokerclub/internal/models"
)

type stubConsultingRepo struct {
	sessions map[uint]*models.ConsultingSession
	nextID   uint
}

func newStubConsultingRepo() *stubConsultingRepo {
	return &stubConsultingRepo{sessions: make(map[uint]*models.ConsultingSession), nextID: 1}
}

func (r *stubConsultingRepo) Create(_ context.Context, session *models.ConsultingSession) error {
	session.ID = r.nextID
	r.nextID++
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *stubConsultingRepo) GetByID(_ context.Context, id uint) (*models.ConsultingSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, models.NewNotFoundError("Consulting session", id)
	}
	copied := *session
	return &copied, nil
}

func (r *stubConsultingRepo) ListAll(_ context.Context, _, _ int) ([]models.ConsultingSession, error) {
	var out []models.ConsultingSession
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubConsultingRepo) ListByUser(_ context.Context, userID uint, _, _ int) ([]models.ConsultingSession, error) {
	var out []models.ConsultingSession
	for _, s := range r.sessions {
		if s.ClientID == userID || s.ConsultantID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubConsultingRepo) Update(_ context.Context, session *models.ConsultingSession) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

type stubUserRepo struct {
	users map[uint]*models.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return u, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return nil, models.NewNotFoundError("User", email)
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return nil, models.NewNotFoundError("User", username)
}

func (r *stubUserRepo) GetProfile(_ context.Context, username string, _ uint) (*models.User, error) {
	return nil, models.NewNotFoundError("User", username)
}

func (r *stubUserRepo) Create(_ context.Context, _ *models.User) error { return nil }

func (r *stubUserRepo) Update(_ context.Context, _ *models.User) error { return nil }

func (r *stubUserRepo) Delete(_ context.Context, _ uint) error { return nil }

func (r *stubUserRepo) List(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil }

func (r *stubUserRepo) Search(_ context.Context, _ string, _, _ int) ([]models.User, error) {
	return nil, nil
}

func newConsultingTestService(admins map[uint]bool) (*ConsultingService, *stubConsultingRepo) {
	repo := newStubConsultingRepo()
	users := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Username: "client"},
		2: {ID: 2, Username: "consultant"},
	}}
	isAdmin := func(_ context.Context, userID uint) (bool, error) {
		return admins[userID], nil
	}
	svc := NewConsultingService(repo, users, isAdmin)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestBookSession_Defaults(t *testing.T) {
	svc, _ := newConsultingTestService(nil)

	session, err := svc.BookSession(context.Background(), BookSessionInput{
		ClientID:     1,
		ConsultantID: 2,
		SessionTime:  time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
		ClientNotes:  "need help with my opening",
	})
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.Equal(t, 60, session.DurationMinutes)
	assert.NotZero(t, session.ID)
}

func TestBookSession_Validation(t *testing.T) {
	svc, _ := newConsultingTestService(nil)
	ctx := context.Background()
	future := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	_, err := svc.BookSession(ctx, BookSessionInput{ClientID: 1, ConsultantID: 1, SessionTime: future})
	assert.Error(t, err)

	_, err = svc.BookSession(ctx, BookSessionInput{
		ClientID: 1, ConsultantID: 2,
		SessionTime: time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)

	_, err = svc.BookSession(ctx, BookSessionInput{
		ClientID: 1, ConsultantID: 2, SessionTime: future, DurationMinutes: 5,
	})
	assert.Error(t, err)

	// Unknown consultant.
	_, err = svc.BookSession(ctx, BookSessionInput{ClientID: 1, ConsultantID: 99, SessionTime: future})
	assert.Error(t, err)
}

func TestUpdateSession_Transitions(t *testing.T) {
	svc, _ := newConsultingTestService(map[uint]bool{9: true})
	ctx := context.Background()

	session, err := svc.BookSession(ctx, BookSessionInput{
		ClientID: 1, ConsultantID: 2,
		SessionTime: time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// A pending session cannot jump straight to completed.
	_, err = svc.UpdateSession(ctx, UpdateSessionInput{
		UserID: 9, SessionID: session.ID, Status: models.SessionStatusCompleted,
	})
	assert.Error(t, err)

	updated, err := svc.UpdateSession(ctx, UpdateSessionInput{
		UserID: 9, SessionID: session.ID,
		Status:      models.SessionStatusConfirmed,
		MeetingLink: "https://meet.example.com/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusConfirmed, updated.Status)
	assert.Equal(t, "https://meet.example.com/abc", updated.MeetingLink)

	updated, err = svc.UpdateSession(ctx, UpdateSessionInput{
		UserID: 9, SessionID: session.ID, Status: models.SessionStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, updated.Status)

	// Completed is terminal.
	_, err = svc.UpdateSession(ctx, UpdateSessionInput{
		UserID: 9, SessionID: session.ID, Status: models.SessionStatusCancelled,
	})
	assert.Error(t, err)
}

func TestUpdateSession_AdminOnly(t *testing.T) {
	svc, _ := newConsultingTestService(nil)
	ctx := context.Background()

	session, err := svc.BookSession(ctx, BookSessionInput{
		ClientID: 1, ConsultantID: 2,
		SessionTime: time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.UpdateSession(ctx, UpdateSessionInput{
		UserID: 1, SessionID: session.ID, Status: models.SessionStatusConfirmed,
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

func TestListSessions_Scoping(t *testing.T) {
	svc, _ := newConsultingTestService(map[uint]bool{9: true})
	ctx := context.Background()

	_, err := svc.BookSession(ctx, BookSessionInput{
		ClientID: 1, ConsultantID: 2,
		SessionTime: time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	mine, err := svc.ListMySessions(ctx, 1, 20, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	asConsultant, err := svc.ListMySessions(ctx, 2, 20, 0)
	require.NoError(t, err)
	assert.Len(t, asConsultant, 1)

	none, err := svc.ListMySessions(ctx, 5, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.ListAllSessions(ctx, 1, 20, 0)
	assert.Error(t, err)

	all, err := svc.ListAllSessions(ctx, 9, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
