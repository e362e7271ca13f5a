package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/api/middleware"
	"github.com/qs3c/blogmind_server/internal/pkg/jwt"
	"github.com/qs3c/blogmind_server/internal/pkg/oauth"
	"github.com/qs3c/blogmind_server/internal/pkg/pubsub"
	"github.com/qs3c/blogmind_server/internal/pkg/queue"
	"github.com/qs3c/blogmind_server/internal/pkg/response"
	"github.com/qs3c/blogmind_server/internal/repository"
	"github.com/qs3c/blogmind_server/internal/service"
	"github.com/qs3c/blogmind_server/internal/testutil"
)

const testJWTSecret = "test-secret-key"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: testJWTSecret, ExpireHours: 24},
		Membership: config.MembershipConfig{
			Plans: map[string]config.PlanConfig{
				"standard": {QuotaGrant: 10, Price: 49900, DisplayName: "Standard"},
				"premium":  {QuotaGrant: 25, Price: 99900, DisplayName: "Premium"},
			},
		},
		AI:          config.AIConfig{TimeoutSeconds: 5},
		ImageSearch: config.ImageSearchConfig{TimeoutSeconds: 5},
		Payment:     config.PaymentConfig{Currency: "INR", OrderTTLHours: 24},
		Upload: config.UploadConfig{
			MaxSize:           1024,
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp", ".gif"},
		},
		OAuth: config.OAuthConfig{
			Github: config.GithubOAuthConfig{
				ClientID:     "test-client-id",
				ClientSecret: "test-client-secret",
				RedirectURI:  "http://localhost:8080/api/v1/auth/github/callback",
			},
		},
	}
}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

type fakeImages struct {
	urls []string
	err  error
}

func (f *fakeImages) Search(ctx context.Context, query string) ([]string, error) {
	return f.urls, f.err
}

type nopProgress struct{}

func (nopProgress) PublishProgress(ctx context.Context, msg *pubsub.ProgressMessage) error {
	return nil
}

// fakeGateway 签名等于 "valid" 时校验通过
type fakeGateway struct {
	mu     sync.Mutex
	orders int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders++
	return "order_handler_" + string(rune('A'+f.orders-1)), nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "valid"
}

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

type fakeMailQueue struct {
	mu   sync.Mutex
	jobs []*queue.MailJob
}

func (f *fakeMailQueue) Push(ctx context.Context, job *queue.MailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeMailQueue) Last() *queue.MailJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return nil
	}
	return f.jobs[len(f.jobs)-1]
}

type fakeImageStore struct{}

func (fakeImageStore) UploadImage(folder string, ownerID int64, data []byte, ext string) (string, error) {
	return "https://cdn.example.com/" + folder + "/img" + ext, nil
}

// testEnv 一套接好 SQLite 和假外部服务的 service
type testEnv struct {
	DB         *gorm.DB
	Cfg        *config.Config
	Mails      *fakeMailQueue
	Generator  *fakeGenerator
	Images     *fakeImages
	States     *oauth.StateStore
	Auth       *service.AuthService
	Users      *service.UserService
	Blogs      *service.BlogService
	Comments   *service.CommentService
	Uploads    *service.UploadService
	Membership *service.MembershipService
	Payments   *service.PaymentService
	Generation *service.GenerationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	_, rdb := testutil.SetupTestRedis(t)

	cfg := testConfig()
	env := &testEnv{
		DB:        db,
		Cfg:       cfg,
		Mails:     &fakeMailQueue{},
		Generator: &fakeGenerator{text: "A generated story about Go."},
		Images:    &fakeImages{urls: []string{"https://images.example.com/go.jpg"}},
		States:    oauth.NewStateStore(rdb),
	}

	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	orderRepo := repository.NewPaymentOrderRepository(db)

	env.Membership = service.NewMembershipService(repository.NewMembershipRepository(db))
	env.Auth = service.NewAuthService(userRepo, env.Membership, env.Mails, cfg)
	env.Uploads = service.NewUploadService(fakeImageStore{}, cfg)
	env.Users = service.NewUserService(userRepo, env.Membership, env.Uploads)
	env.Blogs = service.NewBlogService(blogRepo, repository.NewLikeRepository(db))
	env.Comments = service.NewCommentService(repository.NewCommentRepository(db), blogRepo)
	env.Payments = service.NewPaymentService(orderRepo, &fakeGateway{}, cfg)
	env.Generation = service.NewGenerationService(
		db, env.Membership, blogRepo, repository.NewGenerationJobRepository(db), orderRepo,
		env.Generator, env.Images, nopProgress{}, cfg,
	)

	return env
}

func (e *testEnv) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := jwt.GenerateToken(userID, testJWTSecret, 24)
	require.NoError(t, err)
	return token
}

// authed 挂上 Auth 中间件的路由组
func authed(router *gin.Engine) *gin.RouterGroup {
	return router.Group("", middleware.Auth(testJWTSecret))
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	return performAuthedRequest(r, method, path, "", body)
}

func performAuthedRequest(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performUpload(t *testing.T, r http.Handler, path, token, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// decodeData 把 envelope 里的 data 解到 out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
