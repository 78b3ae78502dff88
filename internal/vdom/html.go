package vdom

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML serializes nodes. Keys are written as data-key and bound event
// types as a space separated data-on attribute so a host page can forward
// browser events back to Dispatch.
func RenderHTML(w io.Writer, nodes []*Node) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := html.Render(w, toHTML(n)); err != nil {
			return err
		}
	}
	return nil
}

// HTML is RenderHTML into a string.
func HTML(nodes []*Node) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, nodes); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(n *Node) *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	tag := strings.ToLower(n.Tag)
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attributes(n),
	}
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		out.AppendChild(toHTML(child))
	}
	return out
}

func attributes(n *Node) []html.Attribute {
	attrs := make([]html.Attribute, 0, len(n.Attrs)+4)

	if n.Key != "" {
		attrs = append(attrs, html.Attribute{Key: "data-key", Val: n.Key})
	}
	if len(n.Classes) > 0 {
		attrs = append(attrs, html.Attribute{Key: "class", Val: strings.Join(n.Classes, " ")})
	}
	if len(n.Styles) > 0 {
		attrs = append(attrs, html.Attribute{Key: "style", Val: joinSorted(n.Styles, ": ", "; ")})
	}
	if len(n.On) > 0 {
		events := make([]string, 0, len(n.On))
		for event := range n.On {
			events = append(events, event)
		}
		sort.Strings(events)
		attrs = append(attrs, html.Attribute{Key: "data-on", Val: strings.Join(events, " ")})
	}

	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attrs = append(attrs, html.Attribute{Key: name, Val: n.Attrs[name]})
	}

	return attrs
}

func joinSorted(m map[string]string, kv, sep string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + kv + m[k]
	}
	return strings.Join(parts, sep)
}
