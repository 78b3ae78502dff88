package server

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// shellScript forwards pointer and input events on keyed nodes to
// /api/events, reports the layout of every keyed node to /api/layout after
// each frame swap, and swaps the canvas on websocket updates.
const shellScript = `
(function () {
  const canvas = document.getElementById('designer-canvas');

  function reportLayout() {
    const layouts = {};
    canvas.querySelectorAll('[data-key]').forEach(function (el) {
      const r = el.getBoundingClientRect();
      layouts[el.dataset.key] = {
        offsetTop: r.top + window.scrollY,
        offsetLeft: r.left + window.scrollX,
        width: r.width,
        height: r.height
      };
    });
    return fetch('/api/layout', {method: 'POST', body: JSON.stringify(layouts)});
  }

  function refresh() {
    return fetch('/api/frame').then(function (r) { return r.text(); }).then(function (html) {
      canvas.innerHTML = html;
    });
  }

  function forward(e) {
    let el = e.target.closest('[data-on]');
    while (el && !el.dataset.on.split(' ').includes(e.type)) {
      el = el.parentElement && el.parentElement.closest('[data-on]');
    }
    if (!el) {
      return;
    }
    e.stopPropagation();
    const body = {key: el.dataset.key, type: e.type};
    if (e.type === 'input') {
      body.value = e.target.value || '';
      body.text = e.target.isContentEditable ? e.target.textContent : '';
    }
    fetch('/api/events', {method: 'POST', body: JSON.stringify(body)}).then(function (r) {
      if (r.ok && e.type !== 'input' && e.type !== 'mouseover') {
        refresh();
      }
    });
  }

  ['mouseup', 'mouseover', 'mouseout', 'input'].forEach(function (type) {
    canvas.addEventListener(type, forward);
  });

  function connect() {
    const protocol = window.location.protocol === 'https:' ? 'wss:' : 'ws:';
    const ws = new WebSocket(protocol + '//' + window.location.host + '/ws');
    ws.onmessage = function (event) {
      const message = JSON.parse(event.data);
      if (message.type === 'reload') {
        refresh().then(reportLayout);
      } else if (message.type === 'error') {
        console.error('designer:', message.content);
      }
    };
    ws.onclose = function () { setTimeout(connect, 2000); };
  }

  reportLayout();
  connect();
})();
`

const shellStyle = `
body { margin: 0; font-family: system-ui, -apple-system, sans-serif; }
#designer-canvas { position: relative; min-height: 100vh; }
.designer-overlay { cursor: pointer; }
.unknown-widget { color: #dc3545; border: 1px dashed #dc3545; padding: 4px; }
`

// shell renders the host page around body.
func shell(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</title><style>")
		b.WriteString(shellStyle)
		b.WriteString("</style></head><body><div id=\"designer-canvas\">")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</div><script>"+shellScript+"</script></body></html>")
		return err
	})
}
