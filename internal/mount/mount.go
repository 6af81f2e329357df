// Package mount renders the root document with the application mounted into
// its DOM anchor and writes it where the host window loads it from.
package mount

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/picturedesk/picturedesk/internal/app"
	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/logger"
)

// BootstrapScriptID is the id of the script element holding the bootstrap payload.
const BootstrapScriptID = "picturedesk-bootstrap"

const (
	attrAppID   = "data-app-id"
	attrMounted = "data-mounted"
)

var idSelector = regexp.MustCompile(`^#([A-Za-z][A-Za-z0-9_-]*)$`)

// Payload is the JSON document injected into the mounted page.
type Payload struct {
	AppID      string            `json:"appId"`
	APIBase    string            `json:"apiBase"`
	Endpoints  map[string]string `json:"endpoints"`
	Components []string          `json:"components"`
	Routes     []app.Route       `json:"routes"`
	Icons      []string          `json:"icons"`
	MountedAt  time.Time         `json:"mountedAt"`
}

// PayloadFrom builds the payload for a mount request.
func PayloadFrom(req app.MountRequest) Payload {
	return Payload{
		AppID:      req.AppID,
		APIBase:    req.APIBase,
		Endpoints:  req.Endpoints,
		Components: req.Components,
		Routes:     req.Routes,
		Icons:      req.Icons,
		MountedAt:  req.MountedAt,
	}
}

// DocumentMounter mounts into the root document read from FS and writes the
// result to Output.
type DocumentMounter struct {
	FS       fs.FS
	Document string // root document name inside FS
	Output   string // destination path of the mounted document
	Logger   logger.Logger
}

// Mount implements app.Mounter.
func (m *DocumentMounter) Mount(ctx context.Context, req app.MountRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := m.Logger
	if log == nil {
		log = logger.Global().Module("mount")
	}

	anchorID, err := ParseSelector(req.Target)
	if err != nil {
		return err
	}

	src, err := fs.ReadFile(m.FS, m.Document)
	if err != nil {
		return errors.New(fmt.Errorf("read root document %s: %w", m.Document, err)).
			Component("mount").
			Category(errors.CategoryFileIO).
			Context("document", m.Document).
			Build()
	}

	rendered, err := Render(bytes.NewReader(src), anchorID, PayloadFrom(req))
	if err != nil {
		return err
	}

	if err := writeAtomic(m.Output, rendered); err != nil {
		return errors.FileError(err, m.Output, int64(len(rendered)))
	}

	log.Debug("root document written",
		logger.String("target", req.Target),
		logger.String("output", m.Output),
		logger.Int64("bytes", int64(len(rendered))))
	return nil
}

// ParseSelector returns the element id of a "#id" selector. Other selector
// forms are rejected.
func ParseSelector(selector string) (string, error) {
	match := idSelector.FindStringSubmatch(strings.TrimSpace(selector))
	if match == nil {
		return "", errors.Newf("unsupported selector %q, expected #id", selector).
			Component("mount").
			Category(errors.CategoryValidation).
			Context("selector", selector).
			Build()
	}
	return match[1], nil
}

// Render parses the document from r, mounts payload into the element with
// id anchorID and returns the rendered document.
func Render(r io.Reader, anchorID string, payload Payload) ([]byte, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.New(fmt.Errorf("parse root document: %w", err)).
			Component("mount").
			Category(errors.CategoryFileParsing).
			Build()
	}

	anchor := findByID(doc, anchorID)
	if anchor == nil {
		return nil, errors.Newf("mount anchor #%s not found", anchorID).
			Component("mount").
			Category(errors.CategoryNotFound).
			Context("selector", "#"+anchorID).
			Build()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode bootstrap payload: %w", err)
	}

	setAttr(anchor, attrAppID, payload.AppID)
	setAttr(anchor, attrMounted, "true")

	if old := findByID(anchor, BootstrapScriptID); old != nil && old != anchor {
		old.Parent.RemoveChild(old)
	}
	anchor.AppendChild(bootstrapScript(data))

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render root document: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadPayload extracts the bootstrap payload from a mounted document.
func ReadPayload(r io.Reader) (Payload, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Payload{}, fmt.Errorf("parse mounted document: %w", err)
	}

	script := findByID(doc, BootstrapScriptID)
	if script == nil || script.FirstChild == nil {
		return Payload{}, errors.Newf("bootstrap payload not found").
			Component("mount").
			Category(errors.CategoryNotFound).
			Build()
	}

	var p Payload
	if err := json.Unmarshal([]byte(script.FirstChild.Data), &p); err != nil {
		return Payload{}, errors.New(fmt.Errorf("decode bootstrap payload: %w", err)).
			Component("mount").
			Category(errors.CategoryFileParsing).
			Build()
	}
	return p, nil
}

func bootstrapScript(data []byte) *html.Node {
	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr: []html.Attribute{
			{Key: "type", Val: "application/json"},
			{Key: "id", Val: BootstrapScriptID},
		},
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: string(data)})
	return script
}

func findByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if found != nil {
			return
		}
		if node.Type == html.ElementNode && attr(node, "id") == id {
			found = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(root)
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// writeAtomic writes data to a temp file next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // page must be readable by the host window
		return fmt.Errorf("chmod temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}
