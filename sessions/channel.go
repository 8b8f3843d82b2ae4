package sessions

import "net/http"

// Channel is the transport the session cookies travel on.
type Channel interface {
	// Cookie returns the value of the named cookie as the channel currently
	// sees it.
	Cookie(name string) (string, bool)
	// SetCookie writes a cookie. A negative MaxAge deletes it.
	SetCookie(c *http.Cookie)
}

// HTTPChannel is a Channel over one HTTP request/response pair. Cookies set
// during the request are visible to later reads in the same request.
type HTTPChannel struct {
	w       http.ResponseWriter
	r       *http.Request
	written map[string]*http.Cookie
}

var _ Channel = (*HTTPChannel)(nil)

// NewHTTPChannel wraps w and r.
func NewHTTPChannel(w http.ResponseWriter, r *http.Request) *HTTPChannel {
	return &HTTPChannel{w: w, r: r, written: make(map[string]*http.Cookie)}
}

func (c *HTTPChannel) Cookie(name string) (string, bool) {
	if written, ok := c.written[name]; ok {
		if written.MaxAge < 0 || written.Value == "" {
			return "", false
		}
		return written.Value, true
	}
	if c.r == nil {
		return "", false
	}
	cookie, err := c.r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *HTTPChannel) SetCookie(cookie *http.Cookie) {
	c.written[cookie.Name] = cookie
	if c.w != nil {
		http.SetCookie(c.w, cookie)
	}
}
