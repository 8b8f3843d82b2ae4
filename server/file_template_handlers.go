package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/internal/i18n"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

//go:embed templates/*
var templateFiles embed.FS

const (
	contentTypeHTML = "text/html; charset=utf-8"
	layoutTemplate  = "layout.html"
)

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page together with the shared layout from the
// embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	return template.ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

// PageData is the template model shared by all pages.
type PageData struct {
	AppName  string
	Lang     string
	TitleKey string
	Error    string
	Email    string
	Identity *identity.Identity
	T        func(key string, args ...any) string
	Langs    []LangOption
}

// LangOption is one entry of the language switcher.
type LangOption struct {
	Code    string
	Name    string
	Current bool
}

func (s *Server) newPageData(tag language.Tag, titleKey string) PageData {
	return PageData{
		AppName:  s.config.GetAppName(),
		Lang:     tag.String(),
		TitleKey: titleKey,
		T: func(key string, args ...any) string {
			return i18n.T(tag, key, args...)
		},
		Langs: langOptions(tag),
	}
}

func langOptions(current language.Tag) []LangOption {
	var opts []LangOption
	for _, tag := range i18n.Supported() {
		opts = append(opts, LangOption{
			Code:    tag.String(),
			Name:    display.Self.Name(tag),
			Current: tag == current,
		})
	}
	return opts
}

func renderPage(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data PageData) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.Header().Set("Cache-Control", "no-store")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		zerolog.Ctx(r.Context()).Err(err).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// errorMessage localises an error code taken from the query string. Unknown
// codes are dropped.
func errorMessage(tag language.Tag, code string) string {
	if code == errCodeRequired {
		return i18n.T(tag, "form.required")
	}
	if reason, ok := identity.ParseReason(code); ok {
		return reason.Message(tag)
	}
	return ""
}
