package server

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/blocklang/designer/internal/types"
	"github.com/blocklang/designer/internal/vdom"
	"github.com/blocklang/designer/internal/version"
	"github.com/blocklang/designer/internal/widgets"
)

// maxBodySize bounds every JSON request body
const maxBodySize = 1 << 20

// eventRequest is a UI event forwarded by the shell
type eventRequest struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
	Text  string `json:"text"`
}

type eventResponse struct {
	Handled   bool                    `json:"handled"`
	Focused   string                  `json:"focused,omitempty"`
	Highlight *types.HighlightPayload `json:"highlight,omitempty"`
}

type attachRequest struct {
	ParentID   string `json:"parentId"`
	WidgetName string `json:"widgetName"`
}

var dispatchable = map[string]bool{
	vdom.EventMouseUp:   true,
	vdom.EventMouseOver: true,
	vdom.EventMouseOut:  true,
	vdom.EventInput:     true,
}

func (s *PreviewServer) handleIndex() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		title := s.session.Model().Name
		if title == "" {
			title = "Designer"
		}
		templ.Handler(shell(title, s.frameComponent())).ServeHTTP(w, r)
	})
}

// frameComponent renders the session's current frame
func (s *PreviewServer) frameComponent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return s.session.Frame(ctx).WriteHTML(w)
	})
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": version.GetVersion(),
		"mode":    s.session.Mode(),
		"widgets": s.session.Extensions().Count(),
	})
}

func (s *PreviewServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.frameComponent().Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "Failed to render frame")
	}
}

func (s *PreviewServer) handleDataPath(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	path := s.session.DataPath(id)
	if path == "" {
		writeError(w, http.StatusNotFound, "data item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "path": path})
}

func (s *PreviewServer) handleDataValue(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	value, ok := s.session.DataValue(id)
	if !ok {
		writeError(w, http.StatusNotFound, "data item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "value": value})
}

func (s *PreviewServer) handleLayout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var layouts map[string]types.Dimensions
	if !decodeBody(w, r, &layouts) {
		return
	}

	if err := s.session.RecordLayout(r.Context(), layouts); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *PreviewServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req eventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Key == "" || !dispatchable[req.Type] {
		writeError(w, http.StatusBadRequest, "event needs a key and one of mouseup, mouseover, mouseout, input")
		return
	}

	handled := s.session.Dispatch(r.Context(), req.Key, &vdom.Event{
		Type:  req.Type,
		Value: req.Value,
		Text:  req.Text,
	})
	if !handled {
		writeError(w, http.StatusNotFound, "no node with key "+req.Key)
		return
	}

	resp := eventResponse{Handled: true}
	resp.Focused, _ = s.session.Focused()
	if highlight, ok := s.session.Highlighted(); ok {
		resp.Highlight = &highlight
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *PreviewServer) handleWidgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, widgets.Definitions())
	case http.MethodPost:
		var req attachRequest
		if !decodeBody(w, r, &req) {
			return
		}
		def, ok := widgets.Definition(req.WidgetName)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown widget "+req.WidgetName)
			return
		}
		attached, err := s.session.AttachWidget(r.Context(), req.ParentID, def)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, attached)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *PreviewServer) handleProperties(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.session.PropertiesLayout(r.URL.Query().Get("id")))
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
