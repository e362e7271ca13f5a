package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/pkg/pubsub"
	"github.com/qs3c/blogmind_server/internal/pkg/queue"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key-for-testing",
			ExpireHours: 24,
		},
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
				RedirectURI:  "http://localhost:8080/callback",
			},
		},
	}
}

type fakeGenerator struct {
	calls int32
	text  string
	err   error
	block bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeGenerator) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

type fakeImages struct {
	calls int32
	urls  []string
	err   error
}

func (f *fakeImages) Search(ctx context.Context, query string) ([]string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.urls, nil
}

func (f *fakeImages) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

type fakeProgress struct {
	mu   sync.Mutex
	msgs []pubsub.ProgressMessage
}

func (f *fakeProgress) PublishProgress(ctx context.Context, msg *pubsub.ProgressMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, *msg)
	return nil
}

func (f *fakeProgress) Steps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	steps := make([]string, len(f.msgs))
	for i, m := range f.msgs {
		steps[i] = m.Step
	}
	return steps
}

// fakeGateway 签名等于 "valid" 时校验通过
type fakeGateway struct {
	orders int32
	err    error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	n := atomic.AddInt32(&f.orders, 1)
	if f.err != nil {
		return "", f.err
	}
	return "order_test_" + string(rune('A'+n-1)), nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "valid"
}

func (f *fakeGateway) KeyID() string {
	return "rzp_test_key"
}

type fakeMailQueue struct {
	mu   sync.Mutex
	jobs []*queue.MailJob
	err  error
}

func (f *fakeMailQueue) Push(ctx context.Context, job *queue.MailJob) error {
	if f.err != nil {
		return f.err
	}
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
