package a

import "net/http"

func inTest() {
	_, _ = http.Get("http://example.com")
}
