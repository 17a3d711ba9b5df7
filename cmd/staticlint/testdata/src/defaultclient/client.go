package defaultclient

import (
	"net/http"
	"net/url"
	"time"
)

func bad() {
	_, _ = http.Get("http://example.com") // want "http.Get uses http.DefaultClient"

	_, _ = http.PostForm("http://example.com", url.Values{}) // want "http.PostForm uses http.DefaultClient"

	_, _ = http.DefaultClient.Get("http://example.com") // want "http.DefaultClient has no timeout"
}

func good() {
	client := &http.Client{Timeout: time.Second}
	_, _ = client.Get("http://example.com")
	_, _ = http.NewRequest(http.MethodGet, "http://example.com", nil)
}
