package notify_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matheuscscp/splitynab/config"
	"github.com/matheuscscp/splitynab/services/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramSend(t *testing.T) {
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Bot","username":"splitynab_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "42", r.PostForm.Get("chat_id"))
			sent = append(sent, r.PostForm.Get("text"))
			w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	svc, err := notify.NewServiceWithEndpoint(&config.Telegram{Token: "token", ChatID: 42}, srv.URL+"/bot%s/%s")
	require.NoError(t, err)
	require.NoError(t, svc.Send("2 transactions imported"))
	assert.Equal(t, []string{"2 transactions imported"}, sent)
}

func TestNoopWithoutToken(t *testing.T) {
	svc, err := notify.NewService(&config.Telegram{})
	require.NoError(t, err)
	assert.NoError(t, svc.Send("ignored"))
}
