// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package provider

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultURLTemplate is the CurseForge CDN layout. The file id is split into
// {first} (id div 1000) and {second} (id mod 1000).
const DefaultURLTemplate URLTemplate = "https://mediafilez.forgecdn.net/files/{first}/{second}/{filename}"

// DefaultUserAgent is sent with every fetch unless overridden
const DefaultUserAgent = "packsync"

// sniffLen matches the default read limit of mimetype
const sniffLen = 3072

var (
	// ErrUnexpectedStatus is returned for any non-200 response
	ErrUnexpectedStatus = errors.Base("unexpected status code")

	// ErrUnexpectedContent is returned when the server answers with a page
	// instead of the artifact (login walls, CDN error pages)
	ErrUnexpectedContent = errors.Base("unexpected content type")
)

// 🔗 URLTemplate renders fetch locations for a file id and filename
type URLTemplate string

// Render fills the template. The filename is path-escaped so names with
// spaces map to valid URLs.
func (t URLTemplate) Render(fileID int64, filename string) string {
	r := strings.NewReplacer(
		"{first}", strconv.FormatInt(fileID/1000, 10),
		"{second}", strconv.FormatInt(fileID%1000, 10),
		"{filename}", url.PathEscape(filename),
	)
	return r.Replace(string(t))
}

// Validate checks that the template can address individual files
func (t URLTemplate) Validate() error {
	if !strings.Contains(string(t), "{filename}") {
		return errors.Errorf("url template %q has no {filename} placeholder", string(t))
	}
	if _, err := url.Parse(t.Render(0, "x")); err != nil {
		return errors.Errorf("url template %q: %w", string(t), err)
	}
	return nil
}

// 📥 Fetcher streams the bytes behind a URL into w
type Fetcher interface {
	Fetch(ctx context.Context, url string, w io.Writer) error
}

// Options configures an HTTPFetcher
type Options struct {
	// Client defaults to a client with Timeout
	Client    *http.Client
	UserAgent string
	// Timeout applies only when Client is nil. Zero means no timeout.
	Timeout time.Duration
}

// HTTPFetcher performs plain unauthenticated GETs
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

var _ Fetcher = (*HTTPFetcher)(nil)

// 🏭 NewHTTPFetcher creates a fetcher from opts
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &HTTPFetcher{client: client, userAgent: ua}
}

// 📥 Fetch downloads url into w. Nothing is written to w unless the response
// is a 200 whose body does not sniff as HTML.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, w io.Writer) error {
	logger := zerolog.Ctx(ctx).With().Str("url", rawURL).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body := bufio.NewReaderSize(resp.Body, sniffLen)
	head, err := body.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Errorf("reading response: %w", err)
	}

	if mt := mimetype.Detect(head); mt.Is("text/html") {
		return errors.Errorf("%w: %s", ErrUnexpectedContent, mt.String())
	}

	n, err := io.Copy(w, body)
	if err != nil {
		return errors.Errorf("writing response: %w", err)
	}

	logger.Debug().
		Int64("bytes", n).
		Dur("elapsed", time.Since(start)).
		Msg("fetched file")

	return nil
}
