package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/mmynk/billtracker/internal/auth"
	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	pageSetup    = "setup.html"
	pageIndex    = "index.html"
	pageAddBill  = "add_bill.html"
	pageEditBill = "edit_bill.html"
)

// pageData is the value every page template executes against.
type pageData struct {
	User    *models.User
	Flashes []auth.Flash
	Today   time.Time

	// setup
	Email       string
	PhoneNumber string

	// index
	Dashboard *calculator.Dashboard

	// add_bill
	Form service.BillInput

	// edit_bill
	Bill *models.Bill
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format(models.DateLayout)
	},
	"longDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"amount": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return "$" + strconv.FormatFloat(*v, 'f', 2, 64)
	},
	"money": func(v float64) string {
		return "$" + strconv.FormatFloat(v, 'f', 2, 64)
	},
	"amountValue": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
	"alertClass": func(category string) string {
		if category == auth.FlashError {
			return "danger"
		}
		return category
	},
}

// renderer holds one parsed template set per page, each combined with the
// shared layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageSetup, pageIndex, pageAddBill, pageEditBill} {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, err
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// render drains the session's notices into the page, saves the session and
// writes the page. The template runs into a buffer first so a failure can
// still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, sess *auth.Session, status int, page string, data *pageData) {
	data.Flashes = sess.PopFlashes()
	data.Today = s.bills.Today()

	var buf bytes.Buffer
	if err := s.views.pages[page].Execute(&buf, data); err != nil {
		s.serverError(w, r, err)
		return
	}

	if err := s.sessions.Save(w, sess); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirect saves the session and sends a 302 to target.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, sess *auth.Session, target string) {
	if err := s.sessions.Save(w, sess); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("Request handling failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
