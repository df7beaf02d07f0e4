package session

import (
	"regexp"
	"strings"

	"github.com/amoylab/npipe-admin/internal/transport"
)

var cookiePairRe = regexp.MustCompile(`[^;=\s]+=[^;]*`)

// ExtractCookies returns the leading name=value pair of every Set-Cookie
// header, in header order. Attributes such as Path or HttpOnly are dropped.
func ExtractCookies(headers []transport.Header) []string {
	var cookies []string
	for _, h := range headers {
		if !strings.EqualFold(h.Name, "Set-Cookie") {
			continue
		}
		if pair := strings.TrimSpace(cookiePairRe.FindString(h.Value)); pair != "" {
			cookies = append(cookies, pair)
		}
	}
	return cookies
}
