package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// page is the data every HTML template receives.
type page struct {
	Title              string
	LoggedIn           bool
	LatestQuestionList []*domain.Question
	Question           *domain.Question
	Results            []domain.ChoiceResult
	ErrorMessage       string
	Next               string
	Username           string
}

type Renderer struct {
	templates *template.Template
	logger    *zap.Logger
}

func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"url": Reverse,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl, logger: logger}, nil
}

// HTML renders into a buffer first so a failing template never sends a partial page.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	data.LoggedIn = isLoggedIn(r)

	var buf bytes.Buffer
	if err := rd.templates.ExecuteTemplate(&buf, name, data); err != nil {
		rd.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.HTML(w, r, http.StatusNotFound, "404", page{Title: "Not Found"})
}
