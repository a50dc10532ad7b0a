// Package store implements the raw page store: a flat directory of saved
// listing-page HTML documents, one file per crawled page, named
// page_{keyword}_{page}.html. The crawler writes pages into the store and
// the ETL stage reads them back; saved pages are never mutated.
package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"indiamart-etl/pkg/errors"
)

// RawPage identifies one saved listing page in the store
type RawPage struct {
	Keyword string
	Page    int
	Path    string
}

// Store is a directory-backed raw page store
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory
func (s *Store) Dir() string {
	return s.dir
}

// PagePath returns the file path a page for keyword/page is saved under
func (s *Store) PagePath(keyword string, page int) string {
	return filepath.Join(s.dir, fmt.Sprintf("page_%s_%d.html", keyword, page))
}

// Save writes a fetched page body into the store, creating the store
// directory if needed. An existing file for the same keyword/page is
// overwritten.
func (s *Store) Save(keyword string, page int, body []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.NewIO("store", fmt.Sprintf("create store directory %q", s.dir), err)
	}

	path := s.PagePath(keyword, page)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", errors.NewIO("store", fmt.Sprintf("save page %q", path), err)
	}
	return path, nil
}

// List returns every saved page in the store, sorted by keyword and then
// page index so extraction order matches crawl order. Files that do not
// match the naming pattern are ignored.
func (s *Store) List() ([]RawPage, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.NewIO("store", fmt.Sprintf("read store directory %q", s.dir), err)
	}

	var pages []RawPage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		keyword, page, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		pages = append(pages, RawPage{
			Keyword: keyword,
			Page:    page,
			Path:    filepath.Join(s.dir, entry.Name()),
		})
	}

	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Keyword != pages[j].Keyword {
			return pages[i].Keyword < pages[j].Keyword
		}
		return pages[i].Page < pages[j].Page
	})

	return pages, nil
}

// Load reads a saved page and decodes it to UTF-8. Pages that are already
// valid UTF-8 pass through unchanged; anything else has its charset sniffed
// from the document itself.
func (s *Store) Load(p RawPage) ([]byte, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, errors.NewIO("store", fmt.Sprintf("read page %q", p.Path), err)
	}

	if utf8.Valid(data) {
		return data, nil
	}

	utf8Reader, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return nil, errors.NewIO("store", fmt.Sprintf("decode page %q", p.Path), err)
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, errors.NewIO("store", fmt.Sprintf("decode page %q", p.Path), err)
	}
	return body, nil
}

// parseName recovers keyword and page index from a page_{keyword}_{page}.html
// file name. Keywords may themselves contain underscores, so the page index
// is taken from the last underscore-separated part.
func parseName(name string) (string, int, bool) {
	if !strings.HasPrefix(name, "page_") || !strings.HasSuffix(name, ".html") {
		return "", 0, false
	}

	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "page_"), ".html")
	idx := strings.LastIndex(trimmed, "_")
	if idx <= 0 {
		return "", 0, false
	}

	keyword := trimmed[:idx]
	page, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return keyword, page, true
}
