package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calmavatar/internal/app/avatar"
	"calmavatar/internal/app/identity"
	"calmavatar/internal/app/media"
	"calmavatar/internal/configs"
	"calmavatar/internal/pkg/auth/jwt"
	"calmavatar/internal/pkg/errs"
)

const testSecret = "test-secret"

// memoryDB stands in for the PostgreSQL queries.
type memoryDB struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*identity.User
	posts       map[uuid.UUID]*identity.Post
	comments    map[uuid.UUID]*identity.Comment
	attachments map[uuid.UUID]*media.Attachment
	setErr      error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:       map[uuid.UUID]*identity.User{},
		posts:       map[uuid.UUID]*identity.Post{},
		comments:    map[uuid.UUID]*identity.Comment{},
		attachments: map[uuid.UUID]*media.Attachment{},
	}
}

func (m *memoryDB) GetUser(_ context.Context, id uuid.UUID) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errs.NewError(errs.ErrUserNotFound)
	}
	c := *u
	return &c, nil
}

func (m *memoryDB) GetPost(_ context.Context, id uuid.UUID) (*identity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, errs.NewError(errs.ErrPostNotFound)
	}
	return p, nil
}

func (m *memoryDB) GetComment(_ context.Context, id uuid.UUID) (*identity.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, errs.NewError(errs.ErrCommentNotFound)
	}
	return c, nil
}

func (m *memoryDB) ListPostTerms(context.Context, uuid.UUID) ([]identity.Term, error) {
	return nil, nil
}

func (m *memoryDB) SetUserAvatar(_ context.Context, userID, attachmentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	u, ok := m.users[userID]
	if !ok {
		return errs.NewError(errs.ErrUserNotFound)
	}
	u.AvatarID = &attachmentID
	return nil
}

func (m *memoryDB) CreateAttachment(_ context.Context, a *media.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	m.attachments[a.ID] = a
	return nil
}

func (m *memoryDB) GetAttachment(_ context.Context, id uuid.UUID) (*media.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attachments[id]
	if !ok {
		return nil, errs.NewError(errs.ErrAttachmentNotFound)
	}
	return a, nil
}

func (m *memoryDB) DeleteAttachment(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attachments[id]; !ok {
		return errs.NewError(errs.ErrAttachmentNotFound)
	}
	delete(m.attachments, id)
	return nil
}

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (o *memoryObjects) Upload(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.objects[key] = data
	o.mu.Unlock()
	return nil
}

func (o *memoryObjects) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	delete(o.objects, key)
	o.mu.Unlock()
	return nil
}

func (o *memoryObjects) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (o *memoryObjects) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.objects)
}

type testEnv struct {
	handler http.Handler
	db      *memoryDB
	objects *memoryObjects
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db := newMemoryDB()
	objects := &memoryObjects{objects: map[string][]byte{}}
	library := media.NewLibrary(db, objects)
	factory := avatar.NewFactory(avatar.NewMutators(), library)

	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment:       "development",
			JWTSecret:         testSecret,
			AvatarDefaultSize: 96,
			AvatarMaxSize:     512,
		},
		Avatars:  factory,
		Resolver: identity.NewResolver(db, library, factory),
		Media:    library,
		Users:    db,
	}
	return &testEnv{handler: Router(ctx, deps), db: db, objects: objects}
}

func (e *testEnv) addUser(name, email string) *identity.User {
	u := &identity.User{ID: uuid.New(), DisplayName: name, Email: email}
	e.db.users[u.ID] = u
	return u
}

func (e *testEnv) do(t *testing.T, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, r)
	return rec
}

func bearer(t *testing.T, r *http.Request, userID uuid.UUID, role string) *http.Request {
	t.Helper()
	token, err := jwt.GenerateToken(&jwt.Payload{ID: userID.String(), Role: role}, testSecret, jwt.UserIdentityExpiration)
	require.NoError(t, err)
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

type envelope struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/me/avatar", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec).Data["status"])
}

func TestUserAvatarRoute(t *testing.T) {
	env := newTestEnv(t)
	u := env.addUser("Ann Lee", "ann@example.com")

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/avatars/users/"+u.ID.String()+"?w=50&h=60", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, avatar.NewTextBased("Ann Lee", "ann@example.com", nil).HTML(50, 60), rec.Body.String())
}

func TestAvatarDimensions(t *testing.T) {
	env := newTestEnv(t)
	u := env.addUser("Ann Lee", "ann@example.com")
	path := "/avatars/users/" + u.ID.String()

	rec := env.do(t, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "width:96px;height:96px")

	rec = env.do(t, httptest.NewRequest(http.MethodGet, path+"?w=30", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "width:30px;height:30px")

	tests := []struct {
		name     string
		query    string
		wantCode int
	}{
		{"too large", "?w=513", errs.ErrDimensionsTooLarge},
		{"too tall", "?w=10&h=1000", errs.ErrDimensionsTooLarge},
		{"zero", "?w=0", errs.ErrInvalidDimensions},
		{"negative height", "?w=10&h=-1", errs.ErrInvalidDimensions},
		{"not a number", "?w=big", errs.ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, httptest.NewRequest(http.MethodGet, path+tt.query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decode(t, rec).Code)
		})
	}
}

func TestAvatarRouteErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/avatars/users/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrInvalidParams, decode(t, rec).Code)

	for path, code := range map[string]int{
		"/avatars/users/":    errs.ErrUserNotFound,
		"/avatars/posts/":    errs.ErrPostNotFound,
		"/avatars/comments/": errs.ErrCommentNotFound,
	} {
		rec := env.do(t, httptest.NewRequest(http.MethodGet, path+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, code, decode(t, rec).Code, path)
	}
}

func TestPostAndCommentRoutes(t *testing.T) {
	env := newTestEnv(t)
	author := env.addUser("Ann Lee", "ann@example.com")
	post := &identity.Post{ID: uuid.New(), AuthorID: &author.ID}
	guest := &identity.Comment{ID: uuid.New(), PostID: post.ID, AuthorName: "Guest Writer", AuthorEmail: "guest@example.com"}
	env.db.posts[post.ID] = post
	env.db.comments[guest.ID] = guest

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/avatars/posts/"+post.ID.String()+"?w=48", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">AL</span>")

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/avatars/comments/"+guest.ID.String()+"?w=48", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">GW</span>")
}

func TestPreviewRoute(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/avatars/preview?name=Ann+Lee&email=ann@example.com&w=48", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, avatar.NewTextBased("Ann Lee", "ann@example.com", nil).HTML(48, 48), rec.Body.String())

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/avatars/preview?w=20", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, avatar.Blank{}.HTML(20, 20), rec.Body.String())
}

func TestMyAvatarRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/me/avatar", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	r := httptest.NewRequest(http.MethodGet, "/api/me/avatar", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	rec = env.do(t, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyAvatar(t *testing.T) {
	env := newTestEnv(t)
	u := env.addUser("Ann Lee", "ann@example.com")

	rec := env.do(t, bearer(t, httptest.NewRequest(http.MethodGet, "/api/me/avatar?w=40", nil), u.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, avatar.NewTextBased("Ann Lee", "ann@example.com", nil).HTML(40, 40), body.Data["html"])
	assert.EqualValues(t, 40, body.Data["width"])
}

func TestUploadMyAvatar(t *testing.T) {
	env := newTestEnv(t)
	u := env.addUser("Ann Lee", "ann@example.com")

	rec := env.do(t, bearer(t, uploadRequest(t, "face.png", "image/png", []byte("png-bytes")), u.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	id, err := uuid.Parse(body.Data["attachmentId"].(string))
	require.NoError(t, err)
	assert.Contains(t, body.Data["html"], `alt="face.png"`)
	require.NotNil(t, env.db.users[u.ID].AvatarID)
	assert.Equal(t, id, *env.db.users[u.ID].AvatarID)
	assert.Equal(t, 1, env.objects.count())

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/avatars/users/"+u.ID.String()+"?w=32", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<img")
	assert.Contains(t, rec.Body.String(), "https://cdn.example.com/attachments/")
}

func TestUploadRejectsBadFiles(t *testing.T) {
	env := newTestEnv(t)
	u := env.addUser("Ann Lee", "ann@example.com")

	rec := env.do(t, bearer(t, uploadRequest(t, "notes.txt", "text/plain", []byte("hi")), u.ID, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrFileTypeInvalid, decode(t, rec).Code)

	r := httptest.NewRequest(http.MethodPost, "/api/me/avatar", strings.NewReader("not multipart"))
	r.Header.Set("Content-Type", "text/plain")
	rec = env.do(t, bearer(t, r, u.ID, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.objects.count())
}

func TestUploadRollsBackWhenAvatarCannotBeSet(t *testing.T) {
	env := newTestEnv(t)
	u := env.addUser("Ann Lee", "ann@example.com")
	env.db.setErr = errors.New("write failed")

	rec := env.do(t, bearer(t, uploadRequest(t, "face.png", "image/png", []byte("png-bytes")), u.ID, ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, env.objects.count())
	assert.Empty(t, env.db.attachments)
}

func TestDeleteAttachment(t *testing.T) {
	env := newTestEnv(t)
	u := env.addUser("Ann Lee", "ann@example.com")
	admin := env.addUser("Site Admin", "admin@example.com")

	rec := env.do(t, bearer(t, uploadRequest(t, "face.png", "image/png", []byte("png-bytes")), u.ID, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode(t, rec).Data["attachmentId"].(string)

	rec = env.do(t, bearer(t, httptest.NewRequest(http.MethodDelete, "/api/attachments/"+id, nil), u.ID, "subscriber"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, bearer(t, httptest.NewRequest(http.MethodDelete, "/api/attachments/"+id, nil), admin.ID, jwt.RoleAdministrator))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, env.objects.count())

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/avatars/users/"+u.ID.String()+"?w=48", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, avatar.NewTextBased("Ann Lee", "ann@example.com", nil).HTML(48, 48), rec.Body.String())

	rec = env.do(t, bearer(t, httptest.NewRequest(http.MethodDelete, "/api/attachments/"+id, nil), admin.ID, jwt.RoleAdministrator))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
