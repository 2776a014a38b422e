package seolint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	// ErrNoSource is returned when a lint run has nothing to lint
	ErrNoSource = errors.New("no document source given")
	// ErrRobotsForbidden is returned when robots.txt does not allow to fetch a url
	ErrRobotsForbidden = errors.New("robots.txt does not allow access")
)

// Source of a document, the first non empty of URL, HTML, File and Reader
// is used
type Source struct {
	URL    string
	HTML   string
	File   string
	Reader io.Reader
}

const (
	sourceURL    = "url"
	sourceHTML   = "html"
	sourceFile   = "file"
	sourceReader = "reader"
)

func (s Source) kind() string {
	switch {
	case s.URL != "":
		return sourceURL
	case s.HTML != "":
		return sourceHTML
	case s.File != "":
		return sourceFile
	case s.Reader != nil:
		return sourceReader
	}
	return ""
}

// String names the source for logs and results
func (s Source) String() string {
	switch s.kind() {
	case sourceURL:
		return s.URL
	case sourceFile:
		return s.File
	case "":
		return ""
	}
	return s.kind()
}

// Fetcher loads documents, urls are fetched with its http client
type Fetcher struct {
	client         *http.Client
	agent          string
	maxContentSize int64
	ignoreRobots   bool
}

type FetcherOption func(f *Fetcher)

// FetcherWithClient replaces the http client
func FetcherWithClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// FetcherIgnoreRobots skips the robots.txt check
func FetcherIgnoreRobots(ignore bool) FetcherOption {
	return func(f *Fetcher) {
		f.ignoreRobots = ignore
	}
}

func NewFetcher(agent string, timeout time.Duration, maxContentSize int64, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		agent:          agent,
		maxContentSize: maxContentSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load acquires the document of src
func (f *Fetcher) Load(ctx context.Context, src Source) (*goquery.Document, error) {
	switch src.kind() {
	case sourceURL:
		return f.LoadURL(ctx, src.URL)
	case sourceHTML:
		return LoadHTML(src.HTML)
	case sourceFile:
		return LoadFile(src.File)
	case sourceReader:
		return LoadReader(src.Reader)
	}
	return nil, ErrNoSource
}

// LoadURL fetches and parses a http or https url
func (f *Fetcher) LoadURL(ctx context.Context, rawURL string) (*goquery.Document, error) {
	u, errParse := url.Parse(rawURL)
	if errParse != nil {
		return nil, fmt.Errorf("invalid url: %w", errParse)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url %q must be http or https", rawURL)
	}
	if !f.ignoreRobots {
		errRobots := f.checkRobots(ctx, u)
		if errRobots != nil {
			return nil, errRobots
		}
	}

	req, errRequest := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if errRequest != nil {
		return nil, fmt.Errorf("create request: %w", errRequest)
	}
	req.Header.Set("User-Agent", f.agent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, errGet := f.client.Do(req)
	if errGet != nil {
		return nil, fmt.Errorf("fetch: %w", errGet)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body := io.Reader(resp.Body)
	if f.maxContentSize > 0 {
		body = io.LimitReader(resp.Body, f.maxContentSize+1)
	}
	bodyBytes, errRead := io.ReadAll(body)
	if errRead != nil {
		return nil, fmt.Errorf("read body: %w", errRead)
	}
	if f.maxContentSize > 0 && int64(len(bodyBytes)) > f.maxContentSize {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", f.maxContentSize)
	}
	return parse(bytes.NewReader(bodyBytes))
}

// LoadHTML parses literal markup
func LoadHTML(markup string) (*goquery.Document, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, errors.New("html must not be empty")
	}
	return parse(strings.NewReader(markup))
}

// LoadFile parses a html file
func LoadFile(path string) (*goquery.Document, error) {
	if path == "" {
		return nil, errors.New("file path must not be empty")
	}
	f, errOpen := os.Open(path)
	if errOpen != nil {
		return nil, errOpen
	}
	defer f.Close()
	return parse(f)
}

// LoadReader parses the markup read from r
func LoadReader(r io.Reader) (*goquery.Document, error) {
	if r == nil {
		return nil, errors.New("reader must not be nil")
	}
	return parse(r)
}

func parse(r io.Reader) (*goquery.Document, error) {
	node, errParse := html.Parse(r)
	if errParse != nil {
		return nil, fmt.Errorf("parse html: %w", errParse)
	}
	return goquery.NewDocumentFromNode(node), nil
}
