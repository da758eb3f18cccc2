package location

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"yacs/internal/controllers"
)

// DefaultBase is the permalink prefix when none is configured
const DefaultBase = "yacs://selection"

// ErrInvalidPermalink is returned for links that do not point at a selection
var ErrInvalidPermalink = errors.New("invalid permalink")

// Service holds the query of the visible selection view. It is what a
// browser location bar would show, turned into a shareable permalink.
type Service struct {
	base   string
	values url.Values
}

var _ controllers.Location = (*Service)(nil)

// NewService creates an empty location
func NewService(base string) *Service {
	if base == "" {
		base = DefaultBase
	}
	return &Service{base: strings.TrimSuffix(base, "?"), values: url.Values{}}
}

// Search returns a copy of the current query
func (s *Service) Search() url.Values {
	return cloneValues(s.values)
}

// SetSearch replaces the current query
func (s *Service) SetSearch(values url.Values) {
	s.values = cloneValues(values)
}

// Permalink renders the current location, or "" before anything was set
func (s *Service) Permalink() string {
	if len(s.values) == 0 {
		return ""
	}
	return s.base + "?" + s.values.Encode()
}

// Open restores the location from a permalink and returns the selection id it names
func (s *Service) Open(permalink string) (int64, error) {
	id, values, err := Parse(permalink)
	if err != nil {
		return 0, err
	}
	s.values = values
	return id, nil
}

// Parse splits a permalink into the selection id and its query. Any scheme
// and host are accepted so links from other installs still open.
func Parse(permalink string) (int64, url.Values, error) {
	u, err := url.Parse(permalink)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidPermalink, err)
	}
	values := u.Query()
	id, err := strconv.ParseInt(values.Get("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("%w: missing selection id in %q", ErrInvalidPermalink, permalink)
	}
	if n := values.Get("n"); n != "" {
		if _, err := strconv.Atoi(n); err != nil {
			return 0, nil, fmt.Errorf("%w: bad schedule index %q", ErrInvalidPermalink, n)
		}
	}
	return id, values, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
