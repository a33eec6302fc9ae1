package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/avask/game-collection/internal/model"
)

// Renderer owns the parsed HTML templates and the data envelope every view
// receives. Templates are parsed once at startup — parsing is expensive,
// executing is cheap.
//
// Each page template is parsed together with layout.html so {{template
// "content" .}} in the layout resolves to that page's {{define "content"}}.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// pageNames lists every view the application renders.
var pageNames = []string{
	"index.html",
	"login.html",
	"register.html",
	"add_game.html",
	"game_detail.html",
}

// NewRenderer parses all templates under templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	layout := filepath.Join(templateDir, "layout.html")

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFiles(layout, filepath.Join(templateDir, name))
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// ViewData is the envelope handed to every template. Page handlers fill the
// fields their view uses and leave the rest zero.
type ViewData struct {
	Notice  *Notice     // pending one-shot message, if any
	User    *model.User // logged-in user, nil when anonymous
	Games   []model.Game
	Game    *model.Game
	Query   string // search box echo
	MyGames bool   // index.html renders in "my collection" mode
	Next    string // login form's post-login destination
}

// Render executes the named page inside the layout. The pending notice is
// popped here so every page shows it without each handler repeating the
// dance.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, page string, data ViewData) {
	t, ok := rn.pages[page]
	if !ok {
		rn.logger.Error("unknown template requested", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if notice, found := PopNotice(w, r); found {
		data.Notice = &notice
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}
