package bot

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/armyhq/restockbot/model"
)

// fakeAPIServer answers getMe and holds every getUpdates round open until
// release closes, mimicking an idle long poll with no traffic.
func fakeAPIServer(release <-chan struct{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"restock","username":"restockbot"}}`)
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			<-release
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":true}`)
		}
	}))
}

func TestRunReturnsPromptlyOnStop(t *testing.T) {
	release := make(chan struct{})
	srv := fakeAPIServer(release)
	defer srv.Close()
	defer close(release)

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", srv.URL+"/bot%s/%s")
	assert.Nil(t, err)
	b := &Bot{api: api, conf: &model.Config{}}

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- b.Run(stop) }()

	time.Sleep(50 * time.Millisecond) // let the first poll get in flight
	close(stop)

	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(time.Second):
		t.Fatal("shutdown waited on the long poll")
	}
}
