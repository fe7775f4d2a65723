package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/client/store"
	"github.com/you/neuraread/internal/logging"
)

type heldScheduler struct{}

func (heldScheduler) AfterFunc(time.Duration, func()) {}

// route is one canned reply keyed by "METHOD /path"
type route struct {
	code int
	body string
}

type fakeServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func newFakeServer(t *testing.T, routes map[string]route) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		fs.mu.Lock()
		fs.requests = append(fs.requests, r)
		fs.bodies = append(fs.bodies, string(raw))
		fs.mu.Unlock()
		rt, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/auth/login") && rt.code == http.StatusOK {
			http.SetCookie(w, &http.Cookie{Name: "user_cred", Value: "cookie-token", Path: "/"})
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.code)
		_, _ = io.WriteString(w, rt.body)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func newDispatcher(t *testing.T, routes map[string]route) (*Dispatcher, *fakeServer) {
	t.Helper()
	fs := newFakeServer(t, routes)
	api := NewAPI(fs.URL + "/api/v1")
	return NewDispatcher(api, store.New(store.WithScheduler(heldScheduler{})), logging.NewNop()), fs
}

func TestRun_Lifecycle(t *testing.T) {
	st := store.New(store.WithScheduler(heldScheduler{}))
	d := NewDispatcher(NewAPI("http://unused"), st, logging.NewNop())

	var seenLoading bool
	v, err := Run(context.Background(), d, Action[int]{
		ID: store.TotalBooks,
		Call: func(context.Context) (Result[int], error) {
			seenLoading = st.State().Request(store.TotalBooks).Loading
			return Result[int]{Value: 7}, nil
		},
		Commit:          func(n int) []store.Action { return []store.Action{store.TotalBooksLoaded{Total: int64(n)}} },
		SuccessFallback: "done",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, seenLoading)

	s := st.State()
	assert.Equal(t, store.RequestState{}, s.Request(store.TotalBooks))
	require.NotNil(t, s.Data.Totals.Books)
	assert.EqualValues(t, 7, *s.Data.Totals.Books)
	assert.Equal(t, "done", s.Notification.Message)
	assert.Equal(t, store.SeveritySuccess, s.Notification.Severity)
}

func TestRun_FailureUsesFallbackForPlainErrors(t *testing.T) {
	st := store.New(store.WithScheduler(heldScheduler{}))
	d := NewDispatcher(NewAPI("http://unused"), st, logging.NewNop())

	boom := errors.New("boom")
	_, err := Run(context.Background(), d, Action[int]{
		ID:              store.TotalUsers,
		Call:            func(context.Context) (Result[int], error) { return Result[int]{}, boom },
		Quiet:           true,
		FailureFallback: "Failed to fetch total users",
	})
	assert.ErrorIs(t, err, boom)

	s := st.State()
	assert.Equal(t, store.RequestState{Error: true}, s.Request(store.TotalUsers))
	assert.True(t, s.Notification.Open)
	assert.Equal(t, "Failed to fetch total users", s.Notification.Message)
	assert.Equal(t, store.SeverityError, s.Notification.Severity)
}

func TestRun_QuietSuccessDoesNotNotify(t *testing.T) {
	st := store.New(store.WithScheduler(heldScheduler{}))
	d := NewDispatcher(NewAPI("http://unused"), st, logging.NewNop())

	_, err := Run(context.Background(), d, Action[int]{
		ID:    store.TotalImages,
		Call:  func(context.Context) (Result[int], error) { return Result[int]{Value: 1}, nil },
		Quiet: true,
	})
	require.NoError(t, err)
	assert.False(t, st.State().Notification.Open)
}

func TestDispatcher_Login(t *testing.T) {
	d, fs := newDispatcher(t, map[string]route{
		"POST /api/v1/auth/login":                  {http.StatusOK, `{"status":"success","message":"Login successful","user":{"_id":3,"email":"a@b.co","role":"admin"},"token":"tok","expires_in":60}`},
		"GET /api/v1/book-admin/get-admin-details": {http.StatusOK, `{"status":"success","user":{"_id":3,"userName":"root"}}`},
	})

	user, err := d.Login(context.Background(), Credentials{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)

	var sent Credentials
	require.NoError(t, json.Unmarshal([]byte(fs.bodies[0]), &sent))
	assert.Equal(t, "a@b.co", sent.Email)

	s := d.Store().State()
	assert.True(t, s.Auth.IsLoggedIn)
	assert.Equal(t, "Login successful", s.Notification.Message)

	_, err = d.AdminProfile(context.Background())
	require.NoError(t, err)
	last := fs.requests[len(fs.requests)-1]
	assert.Equal(t, "Bearer tok", last.Header.Get("Authorization"))
	cookie, err := last.Cookie("user_cred")
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", cookie.Value)
	require.NotNil(t, d.Store().State().Auth.AdminData)
	assert.Equal(t, "root", d.Store().State().Auth.AdminData.UserName)
}

func TestDispatcher_LoginFailure(t *testing.T) {
	tests := []struct {
		name    string
		route   route
		wantMsg string
	}{
		{name: "server message", route: route{http.StatusUnauthorized, `{"status":"error","message":"Invalid email or password"}`}, wantMsg: "Invalid email or password"},
		{name: "server error", route: route{http.StatusInternalServerError, `{"status":"error","message":"db down"}`}, wantMsg: MsgServerError},
		{name: "not found", route: route{http.StatusNotFound, `{}`}, wantMsg: MsgNotFound},
		{name: "no envelope", route: route{http.StatusBadGateway, `<html>`}, wantMsg: "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newDispatcher(t, map[string]route{"POST /api/v1/auth/login": tt.route})

			_, err := d.Login(context.Background(), Credentials{Email: "a@b.co", Password: "x"})
			require.Error(t, err)
			assert.True(t, IsStatus(err, tt.route.code))

			s := d.Store().State()
			assert.False(t, s.Auth.IsLoggedIn)
			assert.Equal(t, store.RequestState{Error: true}, s.Request(store.Login))
			assert.Equal(t, tt.wantMsg, s.Notification.Message)
		})
	}
}

func TestDispatcher_NoResponse(t *testing.T) {
	fs := httptest.NewServer(http.NotFoundHandler())
	url := fs.URL
	fs.Close()

	d := NewDispatcher(NewAPI(url), store.New(store.WithScheduler(heldScheduler{})), logging.NewNop())
	_, err := d.Books(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, 0))
	assert.Equal(t, MsgNoResponse, d.Store().State().Notification.Message)
}

func TestDispatcher_LogoutResetsEvenOnFailure(t *testing.T) {
	d, _ := newDispatcher(t, map[string]route{
		"POST /api/v1/auth/login":  {http.StatusOK, `{"status":"success","user":{"_id":1},"token":"tok"}`},
		"POST /api/v1/auth/logout": {http.StatusUnauthorized, `{"status":"error","message":"Unauthorized"}`},
	})
	_, err := d.Login(context.Background(), Credentials{})
	require.NoError(t, err)

	err = d.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, d.Store().State().Auth.IsLoggedIn)
	assert.Empty(t, d.api.token)
}

func TestDispatcher_CategoriesEmptyIsNotAnError(t *testing.T) {
	d, _ := newDispatcher(t, map[string]route{
		"GET /api/v1/book-admin/get-all-category": {http.StatusNotFound, `{"status":"error","message":"No categories found"}`},
	})
	d.Store().Dispatch(store.CategoriesLoaded{Categories: []domain.Category{{ID: 1, Name: "old"}}})

	cats, err := d.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)

	s := d.Store().State()
	assert.Equal(t, 0, s.Data.Categories.Len())
	assert.Equal(t, store.RequestState{}, s.Request(store.ListCategories))
	assert.False(t, s.Notification.Open)
}

func TestDispatcher_CategoryWrites(t *testing.T) {
	d, fs := newDispatcher(t, map[string]route{
		"POST /api/v1/book-admin/create-category":     {http.StatusCreated, `{"status":"success","message":"Category created successfully","category":{"_id":4,"name":"Poetry"}}`},
		"PUT /api/v1/book-admin/update-category/4":    {http.StatusOK, `{"status":"success","category":{"_id":4,"name":"Verse"}}`},
		"DELETE /api/v1/book-admin/delete-category/4": {http.StatusOK, `{"status":"success","message":"Category deleted successfully","id":4}`},
	})
	ctx := context.Background()

	_, err := d.CreateCategory(ctx, "Poetry")
	require.NoError(t, err)
	assert.JSONEq(t, `{"categoryName":"Poetry"}`, fs.bodies[0])

	_, err = d.UpdateCategory(ctx, 4, "Verse")
	require.NoError(t, err)
	cat, ok := d.Store().State().Data.Categories.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Verse", cat.Name)
	assert.Equal(t, "Category updated successfully", d.Store().State().Notification.Message)

	require.NoError(t, d.DeleteCategory(ctx, 4))
	assert.Equal(t, 0, d.Store().State().Data.Categories.Len())
}

func TestDispatcher_CreateBook(t *testing.T) {
	d, fs := newDispatcher(t, map[string]route{
		"POST /api/v1/book-admin/upload-books": {http.StatusCreated, `{"status":"success","message":"Book and cover uploaded successfully","book":{"_id":9,"title":"Dune"}}`},
	})

	book, err := d.CreateBook(context.Background(), BookForm{
		Title:      "Dune",
		Author:     "Herbert",
		CategoryID: 2,
		Book:       &File{Name: "dune.pdf", Data: []byte("%PDF-1.4")},
		Cover:      &File{Name: "c.png", Data: []byte("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), book.ID)

	req := fs.requests[0]
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))
	assert.Contains(t, fs.bodies[0], `name="category"`)
	assert.Contains(t, fs.bodies[0], `name="book"; filename="dune.pdf"`)
	assert.Contains(t, fs.bodies[0], `name="cover"; filename="c.png"`)

	_, ok := d.Store().State().Data.Books.Get(9)
	assert.True(t, ok)
}

func TestDispatcher_CreateBookRequiresFiles(t *testing.T) {
	d, fs := newDispatcher(t, nil)
	_, err := d.CreateBook(context.Background(), BookForm{Title: "x"})
	require.Error(t, err)
	assert.Empty(t, fs.requests)
	assert.Equal(t, store.SeverityError, d.Store().State().Notification.Severity)
}

func TestDispatcher_UpdateBookSendsOnlySetFields(t *testing.T) {
	d, fs := newDispatcher(t, map[string]route{
		"PUT /api/v1/book-admin/update-books/9": {http.StatusOK, `{"status":"success","book":{"_id":9,"title":"Dune II"}}`},
	})
	d.Store().Dispatch(store.BooksLoaded{Books: []domain.Book{{ID: 9, Title: "Dune"}}})

	_, err := d.UpdateBook(context.Background(), 9, BookForm{Title: "Dune II", CategoryID: 3})
	require.NoError(t, err)
	assert.Contains(t, fs.bodies[0], `name="categoryId"`)
	assert.NotContains(t, fs.bodies[0], `name="author"`)
	assert.NotContains(t, fs.bodies[0], `name="book"`)

	b, _ := d.Store().State().Data.Books.Get(9)
	assert.Equal(t, "Dune II", b.Title)
}

func TestDispatcher_Dashboard(t *testing.T) {
	d, _ := newDispatcher(t, map[string]route{
		"GET /api/v1/admin-stats/get-total-users":           {http.StatusOK, `{"status":"success","totalUsers":2,"users":[{"_id":1},{"_id":2}]}`},
		"GET /api/v1/admin-stats/get-total-contacts":        {http.StatusOK, `{"status":"success","totalContacts":5}`},
		"GET /api/v1/admin-stats/get-total-images":          {http.StatusOK, `{"status":"success","totalImages":3}`},
		"GET /api/v1/admin-stats/get-total-books":           {http.StatusOK, `{"status":"success","totalBooks":6}`},
		"GET /api/v1/admin-stats/get-total-book-categories": {http.StatusOK, `{"status":"success","totalBookCategories":0}`},
		"GET /api/v1/admin-stats/get-avaerage-books":        {http.StatusOK, `{"status":"success","averageBooksPerCategory":0}`},
	})

	require.NoError(t, d.Dashboard(context.Background()))

	tot := d.Store().State().Data.Totals
	require.NotNil(t, tot.Users)
	require.NotNil(t, tot.Categories)
	require.NotNil(t, tot.Average)
	assert.EqualValues(t, 2, *tot.Users)
	assert.EqualValues(t, 5, *tot.Contacts)
	assert.EqualValues(t, 3, *tot.Images)
	assert.EqualValues(t, 6, *tot.Books)
	assert.EqualValues(t, 0, *tot.Categories)
	assert.Zero(t, *tot.Average)
	assert.Equal(t, 2, d.Store().State().Data.Users.Len())
	assert.False(t, d.Store().State().Notification.Open)
}

func TestDispatcher_UserContactsNormalizesLegacyShapes(t *testing.T) {
	d, _ := newDispatcher(t, map[string]route{
		"GET /api/v1/admin-stats/get-specific-user-contacts/5": {http.StatusOK,
			`{"status":"success","contacts":[{"name":" Ann ","phoneNumbers":"1, 2"},{"name":"Bob","numbers":[" 3 "]}]}`},
	})

	_, err := d.UserContacts(context.Background(), 5)
	require.NoError(t, err)

	got := d.Store().State().Data.ContactsByUser[5]
	assert.Equal(t, []domain.Contact{
		{Name: "Ann", PhoneNumbers: []string{"1", "2"}},
		{Name: "Bob", PhoneNumbers: []string{"3"}},
	}, got)
}

func TestDispatcher_DeleteUser(t *testing.T) {
	d, _ := newDispatcher(t, map[string]route{
		"GET /api/v1/book-admin/get-all-users":                {http.StatusOK, `{"status":"success","users":[{"_id":1},{"_id":2}]}`},
		"DELETE /api/v1/book-admin/delete-user/2":             {http.StatusOK, `{"status":"success","message":"User deleted successfully","id":2}`},
		"GET /api/v1/admin-stats/get-specific-user-gallery/2": {http.StatusOK, `{"status":"success","photos":[{"secureUrl":"https://x/p.jpg"}]}`},
	})
	ctx := context.Background()

	_, err := d.Users(ctx)
	require.NoError(t, err)
	_, err = d.UserGallery(ctx, 2)
	require.NoError(t, err)
	require.Len(t, d.Store().State().Data.ImagesByUser[2], 1)

	require.NoError(t, d.DeleteUser(ctx, 2))
	s := d.Store().State()
	assert.Equal(t, 1, s.Data.Users.Len())
	assert.NotContains(t, s.Data.ImagesByUser, uint(2))
	assert.Equal(t, "User deleted successfully", s.Notification.Message)
}

func TestDispatcher_PasswordReset(t *testing.T) {
	d, fs := newDispatcher(t, map[string]route{
		"POST /api/v1/auth/mobile-forgot-password": {http.StatusOK, `{"status":"success","message":"OTP sent successfully"}`},
		"POST /api/v1/auth/mobile-reset-password":  {http.StatusBadRequest, `{"status":"error","message":"Invalid or expired OTP"}`},
	})
	ctx := context.Background()

	require.NoError(t, d.ForgotPassword(ctx, "a@b.co"))
	assert.JSONEq(t, `{"email":"a@b.co"}`, fs.bodies[0])

	err := d.ResetPassword(ctx, "a@b.co", "000000", "newpass1")
	require.Error(t, err)
	assert.JSONEq(t, `{"email":"a@b.co","otp":"000000","newPassword":"newpass1"}`, fs.bodies[1])
	assert.Equal(t, "Invalid or expired OTP", d.Store().State().Notification.Message)
}
