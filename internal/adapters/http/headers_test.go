package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeUA  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"
	firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0"
	edgeUA    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36 Edg/136.0.0.0"
	safariUA  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"
	mobileUA  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Mobile Safari/537.36"
)

func TestGenerateHeadersChrome(t *testing.T) {
	headers := GenerateHeaders(chromeUA)

	assert.Equal(t, chromeUA, headers["User-Agent"])
	assert.Equal(t, `"Chromium";v="128", "Not.A/Brand";v="99", "Google Chrome";v="128"`, headers["sec-ch-ua"])
	assert.Equal(t, `"macOS"`, headers["sec-ch-ua-platform"])
	assert.Equal(t, "?0", headers["sec-ch-ua-mobile"])
}

func TestGenerateHeadersFirefox(t *testing.T) {
	headers := GenerateHeaders(firefoxUA)

	assert.NotContains(t, headers, "sec-ch-ua")
	assert.Equal(t, "trailers", headers["TE"])
	assert.Equal(t, `"Linux"`, headers["sec-ch-ua-platform"])
}

func TestGenerateHeadersEdge(t *testing.T) {
	headers := GenerateHeaders(edgeUA)

	assert.Contains(t, headers["sec-ch-ua"], `"Microsoft Edge";v="136"`)
	assert.Equal(t, `"Windows"`, headers["sec-ch-ua-platform"])
}

func TestGenerateHeadersSafari(t *testing.T) {
	headers := GenerateHeaders(safariUA)

	assert.Equal(t, `"Safari";v="17.4", "Apple WebKit";v="605.1.15"`, headers["sec-ch-ua"])
	assert.Equal(t, "application/json,text/plain,*/*", headers["Accept"])
}

func TestGenerateHeadersMobile(t *testing.T) {
	headers := GenerateHeaders(mobileUA)

	assert.Equal(t, "?1", headers["sec-ch-ua-mobile"])
	assert.Equal(t, `"Android"`, headers["sec-ch-ua-platform"])
}
