// Package link serves the one-time form that links a bank account and stores
// the provider access token.
package link

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/dailyspend/dailyspend/internal/config"
)

// TokenExchanger is the part of the provider client the link flow needs.
type TokenExchanger interface {
	CreateLinkToken(ctx context.Context, clientName, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
}

// Server handles the link page and the token exchange callback.
type Server struct {
	Plaid       TokenExchanger
	TokenPath   string
	Environment string
	Logger      *log.Logger
	// Done, if set, is called once the access token has been saved.
	Done func()
}

var page = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>dailyspend: link account</title></head>
<body>
<button id="link-button">Link account</button>
<script src="https://cdn.plaid.com/link/v2/stable/link-initialize.js"></script>
<script>
const handler = Plaid.create({
  token: {{.LinkToken}},
  onSuccess: function(public_token) {
    const body = new URLSearchParams({public_token: public_token});
    fetch("/get_access_token", {method: "POST", body: body})
      .then(r => r.ok ? "Account linked. You may close this window." : r.text())
      .then(msg => { document.body.textContent = msg; });
  },
});
document.getElementById("link-button").onclick = function() { handler.open(); };
</script>
<p>Environment: {{.Environment}}</p>
</body>
</html>
`))

// Handler returns the HTTP routes of the link flow.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /get_access_token", s.handleExchange)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tok, err := s.Plaid.CreateLinkToken(r.Context(), "dailyspend", "dailyspend-user")
	if err != nil {
		s.Logger.Error("creating link token", "err", err)
		http.Error(w, "could not create link token", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ LinkToken, Environment string }{tok, s.Environment}
	if err := page.Execute(w, data); err != nil {
		s.Logger.Error("rendering link page", "err", err)
	}
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	publicToken := r.FormValue("public_token")
	if publicToken == "" {
		http.Error(w, "public_token is required", http.StatusBadRequest)
		return
	}

	accessToken, itemID, err := s.Plaid.ExchangePublicToken(r.Context(), publicToken)
	if err != nil {
		s.Logger.Error("exchanging public token", "err", err)
		http.Error(w, "token exchange failed", http.StatusBadGateway)
		return
	}
	if err := config.SaveToken(s.TokenPath, accessToken); err != nil {
		s.Logger.Error("saving access token", "err", err)
		http.Error(w, "could not save access token", http.StatusInternalServerError)
		return
	}
	s.Logger.Info("access token saved", "path", s.TokenPath, "item_id", itemID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"item_id": itemID})
	if s.Done != nil {
		s.Done()
	}
}
