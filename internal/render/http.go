package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mermaid-live/internal/httpx"
)

// DefaultURL is the public mermaid.ink service.
const DefaultURL = "https://mermaid.ink"

// HTTP renders through a mermaid.ink compatible service: the diagram text
// travels base64url-encoded in the path.
type HTTP struct {
	base       string
	theme      string
	background string
	timeout    time.Duration
	client     *http.Client
}

func NewHTTP(opts Options, client *http.Client) *HTTP {
	base := strings.TrimRight(opts.URL, "/")
	if base == "" {
		base = DefaultURL
	}
	return &HTTP{
		base:       base,
		theme:      opts.Theme,
		background: opts.Background,
		timeout:    opts.Timeout,
		client:     client,
	}
}

func (h *HTTP) Name() string { return BackendHTTP + ":" + h.base }

func (h *HTTP) Render(ctx context.Context, id, text string) (Result, error) {
	body, err := h.get(ctx, id, "/svg/", text, nil)
	if err != nil {
		return Result{}, err
	}
	if !bytes.Contains(body, []byte("<svg")) {
		return Result{}, &RenderError{ID: id, Message: "renderer returned no SVG markup"}
	}
	return Result{SVG: string(body)}, nil
}

func (h *HTTP) Rasterize(ctx context.Context, id, text string, scale float64) (image.Image, error) {
	q := url.Values{"type": {"png"}}
	if scale > 0 {
		q.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))
	}
	body, err := h.get(ctx, id, "/img/", text, q)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", h.base, err)
	}
	return img, nil
}

func (h *HTTP) get(ctx context.Context, id, path, text string, q url.Values) ([]byte, error) {
	if q == nil {
		q = url.Values{}
	}
	if h.theme != "" {
		q.Set("theme", h.theme)
	}
	if h.background != "" {
		q.Set("bgColor", h.background)
	}
	u := h.base + path + base64.URLEncoding.EncodeToString([]byte(text))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	body, err := httpx.Get(ctx, h.client, u, h.timeout)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return nil, &RenderError{ID: id, Message: strings.TrimSpace(se.Body), Err: err}
		}
		return nil, &RenderError{ID: id, Err: err}
	}
	return body, nil
}
