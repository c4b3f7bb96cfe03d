package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jokerclub/internal/config"
	"jokerclub/internal/models"
	"jokerclub/internal/repository"
	"jokerclub/internal/service"
	"jokerclub/internal/visibility"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCodeblockRepo struct {
	blocks map[uint]*models.Codeblock
	nextID uint
}

func newFakeCodeblockRepo() *fakeCodeblockRepo {
	return &fakeCodeblockRepo{blocks: make(map[uint]*models.Codeblock), nextID: 1}
}

func (r *fakeCodeblockRepo) Create(_ context.Context, cb *models.Codeblock) error {
	cb.ID = r.nextID
	r.nextID++
	copied := *cb
	r.blocks[cb.ID] = &copied
	return nil
}

func (r *fakeCodeblockRepo) GetByID(_ context.Context, id uint) (*models.Codeblock, error) {
	cb, ok := r.blocks[id]
	if !ok {
		return nil, models.NewNotFoundError("Codeblock", id)
	}
	copied := *cb
	return &copied, nil
}

func (r *fakeCodeblockRepo) List(_ context.Context, opts repository.CodeblockListOptions) ([]models.Codeblock, error) {
	var out []models.Codeblock
	for _, cb := range r.blocks {
		if !opts.ViewerIsAdmin && !cb.IsPublic && cb.CreatedBy != opts.ViewerID {
			continue
		}
		out = append(out, *cb)
	}
	return out, nil
}

func (r *fakeCodeblockRepo) Update(_ context.Context, cb *models.Codeblock) error {
	copied := *cb
	r.blocks[cb.ID] = &copied
	return nil
}

func (r *fakeCodeblockRepo) Delete(_ context.Context, id uint) error {
	delete(r.blocks, id)
	return nil
}

func (r *fakeCodeblockRepo) ReplaceLinks(_ context.Context, codeblockID uint, links []models.CodeblockLink) error {
	if cb, ok := r.blocks[codeblockID]; ok {
		cb.Links = links
	}
	return nil
}

type fakeGrantRepo struct {
	grants map[[2]uint]*models.CodeblockGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: make(map[[2]uint]*models.CodeblockGrant)}
}

func (r *fakeGrantRepo) HasGrant(_ context.Context, codeblockID, userID uint) (bool, error) {
	_, ok := r.grants[[2]uint{codeblockID, userID}]
	return ok, nil
}

func (r *fakeGrantRepo) Create(_ context.Context, grant *models.CodeblockGrant) error {
	key := [2]uint{grant.CodeblockID, grant.UserID}
	if _, exists := r.grants[key]; exists {
		return models.NewDuplicateGrantError(grant.CodeblockID, grant.UserID)
	}
	r.grants[key] = grant
	return nil
}

func (r *fakeGrantRepo) Revoke(_ context.Context, codeblockID, userID uint) error {
	delete(r.grants, [2]uint{codeblockID, userID})
	return nil
}

func (r *fakeGrantRepo) ListByCodeblock(_ context.Context, codeblockID uint) ([]models.CodeblockGrant, error) {
	var out []models.CodeblockGrant
	for key, g := range r.grants {
		if key[0] == codeblockID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGrantRepo) ListByUser(_ context.Context, userID uint) ([]models.CodeblockGrant, error) {
	var out []models.CodeblockGrant
	for key, g := range r.grants {
		if key[1] == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

type fakeRoleRepo struct {
	admins map[uint]bool
}

func (r *fakeRoleRepo) GetRoles(_ context.Context, userID uint) ([]string, error) {
	if r.admins[userID] {
		return []string{models.RoleAdmin}, nil
	}
	return nil, nil
}

func (r *fakeRoleRepo) IsAdmin(_ context.Context, userID uint) (bool, error) {
	return r.admins[userID], nil
}

func (r *fakeRoleRepo) Grant(_ context.Context, userID uint, _ string) error {
	r.admins[userID] = true
	return nil
}

func (r *fakeRoleRepo) Revoke(_ context.Context, userID uint, _ string) error {
	delete(r.admins, userID)
	return nil
}

func newCodeblockTestServer(t *testing.T) (*Server, *fakeCodeblockRepo, *fakeGrantRepo) {
	t.Helper()
	cbRepo := newFakeCodeblockRepo()
	grantRepo := newFakeGrantRepo()
	roleRepo := &fakeRoleRepo{admins: map[uint]bool{}}

	s := &Server{
		config:   &config.Config{JWTSecret: "test-secret-0123456789abcdefghij"},
		roleRepo: roleRepo,
	}
	s.codeblockService = service.NewCodeblockService(cbRepo, grantRepo, s.isAdminByUserID)
	return s, cbRepo, grantRepo
}

func newCodeblockTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Get("/codeblocks", s.GetCodeblocks)
	app.Get("/codeblocks/:id", s.GetCodeblock)

	authed := app.Group("", s.AuthRequired())
	authed.Post("/codeblocks/:id/grants", s.GrantCodeblockAccess)
	authed.Delete("/codeblocks/:id/grants/:userId", s.RevokeCodeblockAccess)
	return app
}

func seedPaidCodeblock(t *testing.T, repo *fakeCodeblockRepo, owner uint) *models.Codeblock {
	t.Helper()
	cb := &models.Codeblock{
		Title:       "Joker opening theory",
		Description: "A very long description that goes well past the preview cut",
		Content:     strings.Repeat("secret analysis line\n", 20),
		IsPublic:    true,
		IsBlurred:   true,
		CreatedBy:   owner,
		Links: []models.CodeblockLink{
			{Name: "Video", URL: "https://example.com/v", Position: 0},
		},
	}
	require.NoError(t, repo.Create(context.Background(), cb))
	return cb
}

func getView(t *testing.T, app *fiber.App, url, token string) (*visibility.View, int) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode
	}
	var view visibility.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return &view, resp.StatusCode
}

func TestGetCodeblock_AnonymousSeesRedactedPaidContent(t *testing.T) {
	s, cbRepo, _ := newCodeblockTestServer(t)
	app := newCodeblockTestApp(s)
	cb := seedPaidCodeblock(t, cbRepo, 1)

	view, status := getView(t, app, "/codeblocks/1", "")
	require.Equal(t, http.StatusOK, status)

	assert.True(t, view.Redacted)
	assert.NotEqual(t, cb.Content, view.Codeblock.Content)
	assert.True(t, strings.HasSuffix(view.Codeblock.Content, "..."))
	assert.Nil(t, view.Codeblock.Links)
}

func TestGetCodeblock_OwnerSeesFullContent(t *testing.T) {
	s, cbRepo, _ := newCodeblockTestServer(t)
	app := newCodeblockTestApp(s)
	cb := seedPaidCodeblock(t, cbRepo, 1)

	token, err := s.generateToken(1, "owner")
	require.NoError(t, err)

	view, status := getView(t, app, "/codeblocks/1", token)
	require.Equal(t, http.StatusOK, status)

	assert.False(t, view.Redacted)
	assert.Equal(t, cb.Content, view.Codeblock.Content)
	assert.Len(t, view.Codeblock.Links, 1)
}

func TestGetCodeblock_PrivateReadsAsNotFoundForStranger(t *testing.T) {
	s, cbRepo, _ := newCodeblockTestServer(t)
	app := newCodeblockTestApp(s)

	cb := &models.Codeblock{
		Title:     "Members only",
		Content:   "hidden",
		IsPublic:  false,
		CreatedBy: 1,
	}
	require.NoError(t, cbRepo.Create(context.Background(), cb))

	token, err := s.generateToken(2, "stranger")
	require.NoError(t, err)

	_, status := getView(t, app, "/codeblocks/1", token)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGrantCodeblockAccess_UnlocksPaidContent(t *testing.T) {
	s, cbRepo, _ := newCodeblockTestServer(t)
	app := newCodeblockTestApp(s)
	cb := seedPaidCodeblock(t, cbRepo, 1)

	ownerToken, err := s.generateToken(1, "owner")
	require.NoError(t, err)
	granteeToken, err := s.generateToken(2, "grantee")
	require.NoError(t, err)

	// Before the grant, user 2 only gets the preview.
	view, status := getView(t, app, "/codeblocks/1", granteeToken)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, view.Redacted)

	// Owner grants access.
	body, _ := json.Marshal(map[string]uint{"user_id": 2})
	req := httptest.NewRequest(http.MethodPost, "/codeblocks/1/grants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// The same request again conflicts.
	req = httptest.NewRequest(http.MethodPost, "/codeblocks/1/grants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	resp2, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)

	// After the grant, user 2 sees the full content.
	view, status = getView(t, app, "/codeblocks/1", granteeToken)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, view.Redacted)
	assert.Equal(t, cb.Content, view.Codeblock.Content)
}

func TestGrantCodeblockAccess_StrangerForbidden(t *testing.T) {
	s, cbRepo, _ := newCodeblockTestServer(t)
	app := newCodeblockTestApp(s)
	seedPaidCodeblock(t, cbRepo, 1)

	strangerToken, err := s.generateToken(5, "stranger")
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]uint{"user_id": 2})
	req := httptest.NewRequest(http.MethodPost, "/codeblocks/1/grants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strangerToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetCodeblocks_AnonymousListOmitsPrivate(t *testing.T) {
	s, cbRepo, _ := newCodeblockTestServer(t)
	app := newCodeblockTestApp(s)

	require.NoError(t, cbRepo.Create(context.Background(), &models.Codeblock{
		Title: "Public", Content: "open", IsPublic: true, CreatedBy: 1,
	}))
	require.NoError(t, cbRepo.Create(context.Background(), &models.Codeblock{
		Title: "Private", Content: "hidden", IsPublic: false, CreatedBy: 1,
	}))

	req := httptest.NewRequest(http.MethodGet, "/codeblocks", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var views []visibility.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, "Public", views[0].Codeblock.Title)
}
