package a

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

func bad() {
	_, _ = http.Get("http://example.com")                          // want "http.Get использует клиент без таймаута"
	_, _ = http.Post("http://example.com", "text/plain", nil)      // want "http.Post использует клиент без таймаута"
	_, _ = http.Head("http://example.com")                         // want "http.Head использует клиент без таймаута"
	_, _ = http.PostForm("http://example.com", url.Values{})       // want "http.PostForm использует клиент без таймаута"
	_, _ = http.DefaultClient.Do(&http.Request{})                  // want "http.DefaultClient использует клиент без таймаута"
}

func good() {
	client := &http.Client{Timeout: time.Second}
	_, _ = client.Get("http://example.com")
	_, _ = client.Post("http://example.com", "text/plain", strings.NewReader(""))
	_, _ = http.NewRequest(http.MethodGet, "http://example.com", nil)
}
