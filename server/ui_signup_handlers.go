package server

import (
	"net/http"
)

// SignupGetHandler renders the signup page
func (s *Server) SignupGetHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("signup.html")
	if err != nil {
		panic("Failed to parse signup template: " + err.Error())
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tag := s.language(w, r)
		data := s.newPageData(tag, "page.signup.title")
		data.Email = s.takeFlashEmail(w, r, RouteSignup)
		data.Error = errorMessage(tag, r.URL.Query().Get("error"))
		renderPage(w, r, tmpl, data)
	}
}

// SignupPostHandler handles registration form submission
func (s *Server) SignupPostHandler() http.HandlerFunc {
	return s.credentialSubmission(RouteSignup, "signUp", s.auth.SignUp)
}
