package emailsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/core"
	logsvc "github.com/alfurqan/portal/services/logger"
)

func newTestSendgrid(t *testing.T, handler http.HandlerFunc) *sendgridService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	origHost := host
	host = srv.URL
	t.Cleanup(func() { host = origHost })

	conf := core.NewTestConfig()
	conf.SendgridApiKey = "SG.test"
	conf.MailTimeout = 5 * time.Second
	return NewSendgridService(conf, logsvc.NewTestLogger(conf))
}

func testMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:      []mail.Address{{Name: "Jane Doe", Address: "jane@example.com"}},
		Subject: "Hello",
		BodyStr: "Hello Jane",
	}
}

func TestSendgridSend(t *testing.T) {
	var gotAuth, gotPath string
	svc := newTestSendgrid(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotPath = r.Header.Get("Authorization"), r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	})

	require.NoError(t, svc.Send(context.Background(), testMessage()))
	assert.Equal(t, "Bearer SG.test", gotAuth)
	assert.Equal(t, endpoint, gotPath)
}

func TestSendgridSendRejected(t *testing.T) {
	svc := newTestSendgrid(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	})

	err := svc.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 401")
}

func TestSendgridSendAbortsOnContextDone(t *testing.T) {
	aborted := make(chan struct{})
	svc := newTestSendgrid(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(aborted)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := svc.Send(ctx, testMessage())
	assert.Equal(t, context.DeadlineExceeded, errors.Cause(err))

	select {
	case <-aborted:
	case <-time.After(time.Second):
		t.Fatal("request still in flight after the context expired")
	}
}
