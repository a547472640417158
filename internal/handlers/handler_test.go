// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"inkwell/internal/middleware"
	"inkwell/internal/mocks"
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/session"
)

// fixture wires every handler group over one in-memory DB with no
// response cache.
type fixture struct {
	db       *mocks.DB
	posts    *Posts
	comments *Comments
	taxonomy *Taxonomy
	auth     *Auth
	sessions *fakeSessions

	postService *service.PostService
	admin       *models.User
	reader      *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := mocks.NewDB()
	postStore := mocks.NewPostStore(db)
	categoryStore := mocks.NewCategoryStore(db)
	tagStore := mocks.NewTagStore(db)

	postService := service.NewPostService(postStore, categoryStore, tagStore, service.DefaultPaging)
	commentService := service.NewCommentService(mocks.NewCommentStore(db), postStore, models.CommentStatusApproved, service.DefaultPaging)
	sessions := &fakeSessions{}

	return &fixture{
		db:          db,
		posts:       NewPosts(postService, nil),
		comments:    NewComments(commentService, nil),
		taxonomy:    NewTaxonomy(service.NewCategoryService(categoryStore), service.NewTagService(tagStore), nil),
		auth:        NewAuth(sessions, mocks.NewUserStore(db)),
		sessions:    sessions,
		postService: postService,
		admin:       db.AddUser("admin@example.com", "secret", "Ada Admin", models.RoleAdmin),
		reader:      db.AddUser("reader@example.com", "secret", "Rex Reader", models.RoleReader),
	}
}

// publish creates a PUBLISHED post owned by the admin.
func (f *fixture) publish(t *testing.T, title, content string) *models.Post {
	t.Helper()
	status := "PUBLISHED"
	p, err := f.postService.Create(context.Background(), service.PostInput{
		Title:   &title,
		Content: &content,
		Status:  &status,
	}, f.admin.ID)
	require.NoError(t, err)
	return p
}

// fakeSessions records Create and Destroy calls instead of talking to Valkey.
type fakeSessions struct {
	created   []*session.Data
	destroyed int
	err       error
}

func (s *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.created = append(s.created, data)
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "test-session"})
	return "test-session", nil
}

func (s *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	s.destroyed++
	return s.err
}

// request builds a request with an optional JSON body.
func request(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

// withParams attaches chi URL parameters as key/value pairs.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// as signs the request in as user.
func as(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}))
}

// serve runs h and returns the recorder.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

// decode unmarshals the response body into dst.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), "body: %s", rr.Body.String())
}

// requireError asserts the status and the error envelope code.
func requireError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rr.Code, "body: %s", rr.Body.String())
	var body errorResponse
	decode(t, rr, &body)
	require.Equal(t, code, body.Error.Code)
	require.NotEmpty(t, body.Error.Message)
}
