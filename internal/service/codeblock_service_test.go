package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokerclub/internal/models"
	"jokerclub/internal/repository"
	"jokerclub/internal/visibility"
)

type stubCodeblockRepo struct {
	blocks map[uint]*models.Codeblock
	nextID uint
}

func newStubCodeblockRepo() *stubCodeblockRepo {
	return &stubCodeblockRepo{blocks: make(map[uint]*models.Codeblock), nextID: 1}
}

func (r *stubCodeblockRepo) Create(_ context.Context, cb *models.Codeblock) error {
	cb.ID = r.nextID
	r.nextID++
	copied := *cb
	r.blocks[cb.ID] = &copied
	return nil
}

func (r *stubCodeblockRepo) GetByID(_ context.Context, id uint) (*models.Codeblock, error) {
	cb, ok := r.blocks[id]
	if !ok {
		return nil, models.NewNotFoundError("Codeblock", id)
	}
	copied := *cb
	return &copied, nil
}

func (r *stubCodeblockRepo) List(_ context.Context, opts repository.CodeblockListOptions) ([]models.Codeblock, error) {
	var out []models.Codeblock
	for _, cb := range r.blocks {
		if !opts.ViewerIsAdmin && !cb.IsPublic && cb.CreatedBy != opts.ViewerID {
			continue
		}
		out = append(out, *cb)
	}
	return out, nil
}

func (r *stubCodeblockRepo) Update(_ context.Context, cb *models.Codeblock) error {
	copied := *cb
	r.blocks[cb.ID] = &copied
	return nil
}

func (r *stubCodeblockRepo) Delete(_ context.Context, id uint) error {
	delete(r.blocks, id)
	return nil
}

func (r *stubCodeblockRepo) ReplaceLinks(_ context.Context, codeblockID uint, links []models.CodeblockLink) error {
	if cb, ok := r.blocks[codeblockID]; ok {
		cb.Links = links
	}
	return nil
}

type stubGrantRepo struct {
	grants map[[2]uint]*models.CodeblockGrant
	err    error
}

func newStubGrantRepo() *stubGrantRepo {
	return &stubGrantRepo{grants: make(map[[2]uint]*models.CodeblockGrant)}
}

func (r *stubGrantRepo) HasGrant(_ context.Context, codeblockID, userID uint) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.grants[[2]uint{codeblockID, userID}]
	return ok, nil
}

func (r *stubGrantRepo) Create(_ context.Context, grant *models.CodeblockGrant) error {
	key := [2]uint{grant.CodeblockID, grant.UserID}
	if _, exists := r.grants[key]; exists {
		return models.NewDuplicateGrantError(grant.CodeblockID, grant.UserID)
	}
	r.grants[key] = grant
	return nil
}

func (r *stubGrantRepo) Revoke(_ context.Context, codeblockID, userID uint) error {
	delete(r.grants, [2]uint{codeblockID, userID})
	return nil
}

func (r *stubGrantRepo) ListByCodeblock(_ context.Context, codeblockID uint) ([]models.CodeblockGrant, error) {
	var out []models.CodeblockGrant
	for key, g := range r.grants {
		if key[0] == codeblockID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *stubGrantRepo) ListByUser(_ context.Context, userID uint) ([]models.CodeblockGrant, error) {
	var out []models.CodeblockGrant
	for key, g := range r.grants {
		if key[1] == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func adminOnly(adminID uint) func(ctx context.Context, userID uint) (bool, error) {
	return func(_ context.Context, userID uint) (bool, error) {
		return userID == adminID, nil
	}
}

func newCodeblockService(t *testing.T) (*CodeblockService, *stubCodeblockRepo, *stubGrantRepo) {
	t.Helper()
	cbRepo := newStubCodeblockRepo()
	grantRepo := newStubGrantRepo()
	svc := NewCodeblockService(cbRepo, grantRepo, adminOnly(99))
	return svc, cbRepo, grantRepo
}

func TestCreateCodeblockValidation(t *testing.T) {
	svc, _, _ := newCodeblockService(t)
	ctx := context.Background()

	_, err := svc.CreateCodeblock(ctx, CreateCodeblockInput{UserID: 1, Content: "code"})
	assert.Error(t, err, "title required")

	_, err = svc.CreateCodeblock(ctx, CreateCodeblockInput{UserID: 1, Title: "t"})
	assert.Error(t, err, "content required")

	cb, err := svc.CreateCodeblock(ctx, CreateCodeblockInput{
		UserID:  1,
		Title:   "Snippet",
		Content: "package main",
	})
	require.NoError(t, err)
	assert.True(t, cb.IsPublic, "public by default")
	assert.False(t, cb.IsBlurred)
}

func TestCreateCodeblockUnpacksLegacyLinks(t *testing.T) {
	svc, _, _ := newCodeblockService(t)

	cb, err := svc.CreateCodeblock(context.Background(), CreateCodeblockInput{
		UserID:      1,
		Title:       "Snippet",
		Content:     "code",
		Links:       []CodeblockLinkInput{{Name: "Docs", URL: "https://example.com/docs"}},
		LegacyLinks: []string{"Repo|https://example.com/repo", "https://example.com/bare"},
	})
	require.NoError(t, err)
	require.Len(t, cb.Links, 3)
	assert.Equal(t, "Docs", cb.Links[0].Name)
	assert.Equal(t, "Repo", cb.Links[1].Name)
	assert.Equal(t, "https://example.com/repo", cb.Links[1].URL)
	assert.Empty(t, cb.Links[2].Name)
	for i, l := range cb.Links {
		assert.Equal(t, i, l.Position)
	}

	_, err = svc.CreateCodeblock(context.Background(), CreateCodeblockInput{
		UserID:      1,
		Title:       "Bad",
		Content:     "code",
		LegacyLinks: []string{"name|"},
	})
	assert.Error(t, err)
}

func TestGetCodeblockVisibility(t *testing.T) {
	svc, _, grants := newCodeblockService(t)
	ctx := context.Background()

	isPrivate := false
	blurred, err := svc.CreateCodeblock(ctx, CreateCodeblockInput{
		UserID:      1,
		Title:       "Paid",
		Description: "a description well over thirty characters long",
		Content:     "the full secret content of this paid snippet",
		IsBlurred:   true,
	})
	require.NoError(t, err)
	private, err := svc.CreateCodeblock(ctx, CreateCodeblockInput{
		UserID:   1,
		Title:    "Private",
		Content:  "owner only",
		IsPublic: &isPrivate,
	})
	require.NoError(t, err)

	owner := visibility.Viewer{UserID: 1, Authenticated: true}
	stranger := visibility.Viewer{UserID: 2, Authenticated: true}

	// Owner sees everything in full.
	view, err := svc.GetCodeblock(ctx, blurred.ID, owner)
	require.NoError(t, err)
	assert.False(t, view.Redacted)

	// Stranger gets a redacted preview of paid content.
	view, err = svc.GetCodeblock(ctx, blurred.ID, stranger)
	require.NoError(t, err)
	assert.True(t, view.Redacted)
	assert.NotContains(t, view.Codeblock.Content, "secret")

	// Anonymous gets the same redacted preview.
	view, err = svc.GetCodeblock(ctx, blurred.ID, visibility.Anonymous)
	require.NoError(t, err)
	assert.True(t, view.Redacted)

	// A grant unlocks the full content.
	grants.grants[[2]uint{blurred.ID, 2}] = &models.CodeblockGrant{CodeblockID: blurred.ID, UserID: 2}
	svc.Resolver().InvalidateAccess(blurred.ID, 2)
	view, err = svc.GetCodeblock(ctx, blurred.ID, stranger)
	require.NoError(t, err)
	assert.False(t, view.Redacted)
	assert.Contains(t, view.Codeblock.Content, "secret")

	// Private content reads as not found for a stranger.
	_, err = svc.GetCodeblock(ctx, private.ID, stranger)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	// But the admin sees it.
	view, err = svc.GetCodeblock(ctx, private.ID, visibility.Viewer{UserID: 99, Authenticated: true, Admin: true})
	require.NoError(t, err)
	assert.False(t, view.Redacted)
}

func TestGrantAccess(t *testing.T) {
	svc, _, _ := newCodeblockService(t)
	ctx := context.Background()

	cb, err := svc.CreateCodeblock(ctx, CreateCodeblockInput{
		UserID:    1,
		Title:     "Paid",
		Content:   "content",
		IsBlurred: true,
	})
	require.NoError(t, err)

	// A non-owner non-admin cannot manage grants.
	_, err = svc.GrantAccess(ctx, GrantAccessInput{ActorID: 2, CodeblockID: cb.ID, UserID: 3})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)

	// The owner can.
	grant, err := svc.GrantAccess(ctx, GrantAccessInput{ActorID: 1, CodeblockID: cb.ID, UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, uint(1), grant.GrantedBy)

	// A second grant for the same user is reported as a duplicate.
	_, err = svc.GrantAccess(ctx, GrantAccessInput{ActorID: 1, CodeblockID: cb.ID, UserID: 3})
	require.Error(t, err)
	assert.True(t, models.IsDuplicateGrant(err))

	// The grantee now sees full content.
	view, err := svc.GetCodeblock(ctx, cb.ID, visibility.Viewer{UserID: 3, Authenticated: true})
	require.NoError(t, err)
	assert.False(t, view.Redacted)
}

func TestRevokeAccess(t *testing.T) {
	svc, _, _ := newCodeblockService(t)
	ctx := context.Background()

	cb, err := svc.CreateCodeblock(ctx, CreateCodeblockInput{
		UserID:    1,
		Title:     "Paid",
		Content:   "content",
		IsBlurred: true,
	})
	require.NoError(t, err)

	_, err = svc.GrantAccess(ctx, GrantAccessInput{ActorID: 1, CodeblockID: cb.ID, UserID: 3})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAccess(ctx, GrantAccessInput{ActorID: 1, CodeblockID: cb.ID, UserID: 3}))

	view, err := svc.GetCodeblock(ctx, cb.ID, visibility.Viewer{UserID: 3, Authenticated: true})
	require.NoError(t, err)
	assert.True(t, view.Redacted, "revocation takes effect immediately")

	// Revoking again is a quiet no-op.
	assert.NoError(t, svc.RevokeAccess(ctx, GrantAccessInput{ActorID: 1, CodeblockID: cb.ID, UserID: 3}))
}

func TestListCodeblocksFiltersByViewer(t *testing.T) {
	svc, _, _ := newCodeblockService(t)
	ctx := context.Background()

	isPrivate := false
	_, err := svc.CreateCodeblock(ctx, CreateCodeblockInput{UserID: 1, Title: "Pub", Content: "a"})
	require.NoError(t, err)
	_, err = svc.CreateCodeblock(ctx, CreateCodeblockInput{UserID: 1, Title: "Paid", Content: "b", IsBlurred: true})
	require.NoError(t, err)
	_, err = svc.CreateCodeblock(ctx, CreateCodeblockInput{UserID: 1, Title: "Priv", Content: "c", IsPublic: &isPrivate})
	require.NoError(t, err)

	views, err := svc.ListCodeblocks(ctx, ListCodeblocksInput{Viewer: visibility.Anonymous})
	require.NoError(t, err)
	assert.Len(t, views, 2, "anonymous sees public and redacted paid, never private")

	views, err = svc.ListCodeblocks(ctx, ListCodeblocksInput{Viewer: visibility.Viewer{UserID: 1, Authenticated: true}})
	require.NoError(t, err)
	assert.Len(t, views, 3, "owner sees their private rows")
}

func TestUpdateCodeblockTierChange(t *testing.T) {
	svc, repo, _ := newCodeblockService(t)
	ctx := context.Background()

	cb, err := svc.CreateCodeblock(ctx, CreateCodeblockInput{UserID: 1, Title: "T", Content: "c"})
	require.NoError(t, err)

	blur := true
	updated, err := svc.UpdateCodeblock(ctx, UpdateCodeblockInput{
		UserID:      1,
		CodeblockID: cb.ID,
		IsBlurred:   &blur,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsBlurred)
	assert.True(t, repo.blocks[cb.ID].IsBlurred)

	// Only owner or admin may update.
	_, err = svc.UpdateCodeblock(ctx, UpdateCodeblockInput{UserID: 2, CodeblockID: cb.ID, Title: "X"})
	assert.Error(t, err)

	_, err = svc.UpdateCodeblock(ctx, UpdateCodeblockInput{UserID: 99, CodeblockID: cb.ID, Title: "ByAdmin"})
	assert.NoError(t, err)
}
