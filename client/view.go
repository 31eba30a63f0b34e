package main

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gosuda/cbor-chat/chatlog"
	"github.com/gosuda/cbor-chat/render"
	"github.com/gosuda/cbor-chat/session"
)

type sessionView interface {
	State() session.State
	Messages() []chatlog.Message
}

// NewHandler builds the read-only mirror of the chat table:
// "/" shows the table, "/status" the connection state, "/messages" the log as JSON.
func NewHandler(name string, s sessionView, page *render.HTML) http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		st := s.State()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = indexTmpl.Execute(w, struct {
			Name        string
			Status      string
			StatusClass string
			Table       template.HTML
		}{
			Name:        name,
			Status:      st.String(),
			StatusClass: statusClass(st),
			Table:       page.Markup(),
		})
	})
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		st := s.State()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = statusTmpl.Execute(w, struct {
			Now         string
			Name        string
			Status      string
			StatusClass string
		}{
			Now:         time.Now().Format(time.RFC1123),
			Name:        name,
			Status:      st.String(),
			StatusClass: statusClass(st),
		})
	})
	r.Get("/messages", func(w http.ResponseWriter, r *http.Request) {
		type item struct {
			Content string `json:"content"`
			Author  string `json:"author"`
		}
		msgs := s.Messages()
		out := make([]item, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, item{Content: render.Text(m.Content), Author: render.Text(m.Author)})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func statusClass(st session.State) string {
	switch st {
	case session.StateOpen:
		return "connected"
	case session.StateClosed:
		return "disconnected"
	default:
		return "connecting"
	}
}

const statusStyle = `
    .stat { display:inline-flex; align-items:center; gap:8px; padding:6px 10px; border-radius:999px; font-weight:700; font-size:14px }
    .stat.connected { background:#ecfdf5; color:#065f46 }
    .stat.connecting { background:#fef9c3; color:#854d0e }
    .stat.disconnected { background:#fee2e2; color:#b91c1c }
    .stat .dot { width:8px; height:8px; border-radius:999px; background:#10b981; display:inline-block }
    .stat.connecting .dot { background:#eab308 }
    .stat.disconnected .dot { background:#ef4444 }`

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta http-equiv="refresh" content="2">
  <title>{{.Name}}</title>
  <style>
    body { font-family: sans-serif; background: #f9f9f9; padding: 40px; }
    table.chatMessages { border-collapse: collapse; background: white; min-width: 480px; }
    table.chatMessages th, table.chatMessages td { border-bottom: 1px solid #e5e7eb; padding: 6px 12px; text-align: left; }
` + statusStyle + `
  </style>
</head>
<body>
  <h1>{{.Name}}</h1>
  <p><span class="stat {{.StatusClass}}"><span class="dot"></span>{{.Status}}</span></p>
  {{.Table}}
</body>
</html>`))

var statusTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Name}} status</title>
  <style>
    body { font-family: sans-serif; background: #f9f9f9; padding: 40px; }
    .card { background: white; border-radius: 12px; padding: 24px; box-shadow: 0 2px 6px rgba(0,0,0,0.1); }
` + statusStyle + `
  </style>
</head>
<body>
  <div class="card">
    <h1>{{.Name}}</h1>
    <p>Current time: <b>{{.Now}}</b></p>
    <p>Chat Server: <span class="stat {{.StatusClass}}"><span class="dot"></span>{{.Status}}</span></p>
  </div>
</body>
</html>`))
