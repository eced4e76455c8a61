package recinject

import (
	"context"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
)

// imageExtensions are the extensions tried, in order, when resolving an image
// base name.
var imageExtensions = [...]string{".png", ".jpeg", ".jpg"}

// Prober reports whether a resource exists.
type Prober interface {
	Exists(ctx context.Context, url string) bool
}

// HTTPProber checks for a resource with a HEAD request. Any transport error
// counts as "doesn't exist".
type HTTPProber struct {
	Client *http.Client
}

func (p HTTPProber) Exists(ctx context.Context, url string) bool {
	ctx, span := startSpan(ctx, "recinject.probe_image", attribute.String("url", url))
	var err error
	defer func() { endSpan(span, err) }()

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		logger(ctx).Debug("image probe failed", "url", url, "error", err)
		return false
	}
	resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// ImageResolver finds the file behind an image base name.
type ImageResolver struct {
	// Base is the URL candidates are resolved against before probing.
	// When nil, candidates are probed as-is.
	Base   *url.URL
	Prober Prober
}

// Resolve probes baseName with .png, .jpeg, and .jpg in turn and returns
// the first candidate that exists, as a path relative to Base. Probes run one
// at a time and stop at the first hit. When nothing exists, the candidate
// with the last extension is returned so the broken reference stays
// traceable; Resolve never fails.
func (r ImageResolver) Resolve(ctx context.Context, baseName string) string {
	ctx, span := startSpan(ctx, "recinject.resolve_image", attribute.String("image.base", baseName))
	defer span.End()

	prober := r.Prober
	if prober == nil {
		prober = HTTPProber{}
	}

	var candidate string
	for i, ext := range imageExtensions {
		candidate = baseName + ext
		if prober.Exists(ctx, r.absolute(candidate)) {
			span.SetAttributes(attribute.String("image.resolved", candidate), attribute.Int("image.probes", i+1))
			return candidate
		}
	}
	logger(ctx).Warn("no image found for base name, using fallback", "base", baseName, "fallback", candidate)
	span.SetAttributes(attribute.String("image.resolved", candidate), attribute.Bool("image.fallback", true))
	return candidate
}

func (r ImageResolver) absolute(candidate string) string {
	if r.Base == nil {
		return candidate
	}
	ref, err := url.Parse(candidate)
	if err != nil {
		return candidate
	}
	return r.Base.ResolveReference(ref).String()
}
