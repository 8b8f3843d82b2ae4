package server

import (
	"net/http"

	"github.com/jrsteele09/go-session-gateway/identity"
)

// DashboardHandler renders the signed-in landing page
func (s *Server) DashboardHandler() ProtectedHandler {
	tmpl, err := ParseTemplate("dashboard.html")
	if err != nil {
		panic("Failed to parse dashboard template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request, id identity.Identity) {
		data := s.newPageData(s.language(w, r), "page.dashboard.title")
		data.Identity = &id
		renderPage(w, r, tmpl, data)
	}
}
