package http

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	safariVersion = regexp.MustCompile(`Version/(\d+\.\d+)`)
	edgeVersion   = regexp.MustCompile(`Edg/(\d+)\.`)
	operaVersion  = regexp.MustCompile(`OPR/(\d+)\.`)
	chromeVersion = regexp.MustCompile(`Chrome/(\d+)`)
)

// GenerateHeaders synthesizes a browser-plausible header set for the given
// identity profile. Client-hint headers are derived from the User-Agent so
// the fingerprint stays internally consistent.
func GenerateHeaders(userAgent string) map[string]string {
	headers := map[string]string{
		"User-Agent":         userAgent,
		"Accept":             "application/json, text/plain, */*",
		"Accept-Language":    "uk,en;q=0.9,en-GB;q=0.8,en-US;q=0.7",
		"Accept-Encoding":    "gzip, deflate, br, zstd",
		"Content-Type":       "application/json",
		"Connection":         "keep-alive",
		"Cache-Control":      "no-cache",
		"Pragma":             "no-cache",
		"DNT":                "1",
		"sec-ch-ua":          `"Microsoft Edge";v="136", "Microsoft Edge WebView2";v="136", "Not.A/Brand";v="99", "Chromium";v="136"`,
		"sec-ch-ua-mobile":   "?0",
		"sec-ch-ua-platform": `"Windows"`,
		"sec-fetch-dest":     "empty",
		"sec-fetch-mode":     "cors",
		"sec-fetch-site":     "same-site",
		"priority":           "u=1, i",
	}

	switch {
	case strings.Contains(userAgent, "Firefox/"):
		delete(headers, "sec-ch-ua")
		delete(headers, "sec-ch-ua-platform")
		headers["TE"] = "trailers"
	case isPlainSafari(userAgent):
		if m := safariVersion.FindStringSubmatch(userAgent); m != nil {
			headers["sec-ch-ua"] = fmt.Sprintf(`"Safari";v="%s", "Apple WebKit";v="605.1.15"`, m[1])
			headers["Accept"] = "application/json,text/plain,*/*"
		}
	case strings.Contains(userAgent, "Edg/"):
		if m := edgeVersion.FindStringSubmatch(userAgent); m != nil {
			v := m[1]
			headers["sec-ch-ua"] = fmt.Sprintf(`"Microsoft Edge";v="%s", "Microsoft Edge WebView2";v="%s", "Not.A/Brand";v="99", "Chromium";v="%s"`, v, v, v)
		}
	case strings.Contains(userAgent, "OPR/"):
		if m := operaVersion.FindStringSubmatch(userAgent); m != nil {
			headers["sec-ch-ua"] = fmt.Sprintf(`"Opera";v="%s", "Chromium";v="%s", "Not.A/Brand";v="99"`, m[1], m[1])
		}
	case strings.Contains(userAgent, "Chrome/"):
		if m := chromeVersion.FindStringSubmatch(userAgent); m != nil {
			headers["sec-ch-ua"] = fmt.Sprintf(`"Chromium";v="%s", "Not.A/Brand";v="99", "Google Chrome";v="%s"`, m[1], m[1])
		}
	}

	if isMobile(userAgent) {
		headers["sec-ch-ua-mobile"] = "?1"
	}

	if platform := platformHint(userAgent); platform != "" {
		headers["sec-ch-ua-platform"] = `"` + platform + `"`
	}

	return headers
}

func isPlainSafari(userAgent string) bool {
	return strings.Contains(userAgent, "Safari/") &&
		!strings.Contains(userAgent, "Chrome/") &&
		!strings.Contains(userAgent, "Edg/")
}

func isMobile(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	return strings.Contains(lower, "mobile") ||
		strings.Contains(userAgent, "iPhone") ||
		strings.Contains(userAgent, "iPad") ||
		strings.Contains(userAgent, "iPod") ||
		strings.Contains(userAgent, "Android")
}

func platformHint(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Android"):
		return "Android"
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"), strings.Contains(userAgent, "iPod"):
		return "iOS"
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	case strings.Contains(userAgent, "Macintosh"), strings.Contains(userAgent, "Mac OS X"):
		return "macOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	}
	return ""
}
