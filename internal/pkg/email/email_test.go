package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/blogmind_server/config"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(sent *[]sentMail, failWith error) *Service {
	s := NewService(&config.EmailConfig{
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		Username: "bot",
		Password: "secret",
		From:     "noreply@example.com",
	})
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		if failWith != nil {
			return failWith
		}
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return s
}

func TestSendVerificationCode(t *testing.T) {
	var sent []sentMail
	s := newTestService(&sent, nil)

	require.NoError(t, s.SendVerificationCode("reader@example.com", "reader", "482913"))
	require.Len(t, sent, 1)

	assert.Equal(t, "smtp.example.com:587", sent[0].addr)
	assert.Equal(t, []string{"reader@example.com"}, sent[0].to)
	assert.Contains(t, sent[0].msg, "Subject: Verify your BlogMind account\r\n")
	assert.Contains(t, sent[0].msg, "482913")
	assert.Contains(t, sent[0].msg, "Hi reader")
}

func TestSendWelcome_Error(t *testing.T) {
	var sent []sentMail
	s := newTestService(&sent, errors.New("connection refused"))

	err := s.SendWelcome("reader@example.com", "reader")
	assert.EqualError(t, err, "connection refused")
	assert.Empty(t, sent)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("a@x.com", "b@x.com", "Hi", "<p>body</p>"))

	headerEnd := strings.Index(msg, "\r\n\r\n")
	require.Greater(t, headerEnd, 0)
	assert.True(t, strings.HasPrefix(msg, "From: a@x.com\r\nTo: b@x.com\r\n"))
	assert.Equal(t, "<p>body</p>", msg[headerEnd+4:])
}
