package e2e

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/you/neuraread/internal/app"
	"github.com/you/neuraread/internal/client"
	"github.com/you/neuraread/internal/client/store"
	"github.com/you/neuraread/internal/config"
	"github.com/you/neuraread/internal/infrastructure/auth"
	"github.com/you/neuraread/internal/infrastructure/database"
	"github.com/you/neuraread/internal/infrastructure/storage"
	"github.com/you/neuraread/internal/logging"
)

const (
	apiBase       = "/api/v1"
	adminEmail    = "admin@neuraread.test"
	adminPassword = "admin-secret"
)

// TestServer is the whole service on real sqlite, miniredis and casbin,
// with blobs kept in memory and text messages captured.
type TestServer struct {
	Server    *httptest.Server
	Container *app.Container
	Blobs     *storage.MemoryStore
	SMS       *MockNotificationService
	Redis     *miniredis.Miniredis
	BaseURL   string
}

func testConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		GinMode:          gin.TestMode,
		APIBase:          apiBase,
		JWTSecret:        "e2e-secret",
		JWTIssuer:        "neuraread-e2e",
		TokenTTL:         time.Hour,
		OTP_TTL:          10 * time.Minute,
		OTP_Length:       6,
		OTP_MaxAttempts:  3,
		OTP_ResendWindow: time.Minute,
		MaxBookBytes:     5_000_000,
		MaxPhotoBytes:    20_000_000,
		MaxPhotos:        10,
		AdminEmail:       adminEmail,
		AdminPassword:    adminPassword,
		AdminUserName:    "admin",
	}
}

// NewTestServer starts a fresh service; everything is torn down with t
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "e2e.db"), "silent")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cas, err := auth.NewCasbinService(db)
	require.NoError(t, err)
	_, err = cas.SeedDefaults(cfg.APIBase)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	blobs := storage.NewMemoryStore("blobs.test")
	sms := NewMockNotificationService()

	c := app.Build(cfg, logging.NewNop(), app.Infra{
		DB:       db,
		Redis:    rdb,
		Blobs:    blobs,
		Enforcer: cas.E,
		Notifier: sms,
	})
	require.NoError(t, c.SeedAdmin(context.Background()))

	srv := httptest.NewServer(c.Router())
	t.Cleanup(func() {
		srv.Close()
		_ = c.Close()
	})

	return &TestServer{
		Server:    srv,
		Container: c,
		Blobs:     blobs,
		SMS:       sms,
		Redis:     mr,
		BaseURL:   srv.URL + apiBase,
	}
}

// NewClient returns a dispatcher with its own cookie jar and store
func (ts *TestServer) NewClient() *client.Dispatcher {
	return client.NewDispatcher(client.NewAPI(ts.BaseURL), store.New(store.WithScheduler(heldScheduler{})), logging.NewNop())
}

// AdminClient returns a dispatcher already logged in as the seeded admin
func (ts *TestServer) AdminClient(t *testing.T) *client.Dispatcher {
	t.Helper()
	d := ts.NewClient()
	_, err := d.Login(context.Background(), client.Credentials{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	return d
}

type heldScheduler struct{}

func (heldScheduler) AfterFunc(time.Duration, func()) {}

// MockNotificationService records outgoing messages
type MockNotificationService struct {
	mu       sync.Mutex
	messages []MockMessage
}

type MockMessage struct {
	To      string
	Message string
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, MockMessage{To: to, Message: message})
	return nil
}

func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	return m.SendSMS(to, subject+"\n"+body)
}

// Last returns the newest message, or nil
func (m *MockNotificationService) Last() *MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return nil
	}
	msg := m.messages[len(m.messages)-1]
	return &msg
}

var codePattern = regexp.MustCompile(`code is: (\d+)`)

// LastCode extracts the reset code from the newest message
func (m *MockNotificationService) LastCode(t *testing.T) string {
	t.Helper()
	msg := m.Last()
	require.NotNil(t, msg, "no message sent")
	match := codePattern.FindStringSubmatch(msg.Message)
	require.Len(t, match, 2, "no code in %q", msg.Message)
	return match[1]
}

// pngBytes encodes a solid w×h image
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
