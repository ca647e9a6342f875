package loadtime

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefectHandler receives every soft defect the store reports. Defects never
// interrupt the caller; the handler is purely observational.
type DefectHandler func(err error)

// Sanitizer strips disallowed markup. Implementations receive the raw
// fragment plus any extra tags and attributes the caller wants to allow on
// top of their default subset, and return sanitized markup.
type Sanitizer interface {
	Sanitize(markup string, tags, attrs []string) (string, error)
}

// SanitizeOptions widens the sanitizer's default subset for one call.
type SanitizeOptions struct {
	Tags  []string
	Attrs []string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes defect logging through logger instead of slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefectHandler registers a callback invoked for every reported defect.
func WithDefectHandler(fn DefectHandler) Option {
	return func(s *Store) {
		s.onDefect = fn
	}
}

// WithLocation sets the page location included in defect log lines.
func WithLocation(location string) Option {
	return func(s *Store) {
		s.location = strings.TrimSpace(location)
	}
}

// WithSanitizer configures the collaborator used by SanitizeMarkup.
func WithSanitizer(sanitizer Sanitizer) Option {
	return func(s *Store) {
		s.sanitizer = sanitizer
	}
}

// Store holds the values available to a page as soon as it loads: localized
// strings plus any data the page needs right away. Data is installed once
// with SetData; afterwards only OverrideValues changes it.
type Store struct {
	mu   sync.RWMutex
	data map[string]Value

	logger    *slog.Logger
	onDefect  DefectHandler
	location  string
	sanitizer Sanitizer
}

// New constructs an empty store.
func New(options ...Option) *Store {
	s := &Store{logger: slog.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// NewWithData constructs a store and installs data in one step.
func NewWithData(data map[string]Value, options ...Option) *Store {
	s := New(options...)
	_ = s.SetData(data)
	return s
}

// SetData installs the backing mapping. A second call is reported, returns
// ErrDataAlreadySet and leaves the original mapping in place.
func (s *Store) SetData(data map[string]Value) error {
	s.mu.Lock()
	if s.data != nil {
		s.mu.Unlock()
		s.report(ErrDataAlreadySet)
		return ErrDataAlreadySet
	}
	s.data = make(map[string]Value, len(data))
	for k, v := range data {
		s.data[k] = v
	}
	s.mu.Unlock()
	return nil
}

// Loaded reports whether SetData has run.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Value fetches key, expecting that it exists. Missing data or a missing
// key is reported and the undefined Value returned.
func (s *Store) Value(key string) Value {
	s.mu.RLock()
	loaded := s.data != nil
	value, ok := s.data[key]
	s.mu.RUnlock()

	if !loaded {
		s.report(ErrNoData)
		return Value{}
	}
	if !ok || value.IsUndefined() {
		s.report(&MissingValueError{Key: key})
		return Value{}
	}
	return value
}

// GetString returns key as a string. A non-string value is reported and its
// coerced string form returned.
func (s *Store) GetString(key string) string {
	value := s.Value(key)
	str, err := value.AsString()
	if err != nil {
		s.reportType(key, value, KindString)
		return value.String()
	}
	return str
}

// GetStringF returns the stored template for key with $1..$9 replaced by
// args. An empty stored string yields "".
func (s *Store) GetStringF(key string, args ...any) string {
	template := s.GetString(key)
	if template == "" {
		return ""
	}
	return s.FormatString(template, args...)
}

// GetBoolean returns key as a boolean. A non-boolean value is reported and
// its truthiness returned.
func (s *Store) GetBoolean(key string) bool {
	value := s.Value(key)
	b, err := value.AsBool()
	if err != nil {
		s.reportType(key, value, KindBool)
		return value.Truthy()
	}
	return b
}

// GetNumber returns key as a number. A non-number value is reported and 0
// returned.
func (s *Store) GetNumber(key string) float64 {
	value := s.Value(key)
	f, err := value.AsNumber()
	if err != nil {
		s.reportType(key, value, KindNumber)
		return 0
	}
	return f
}

// GetInteger returns key as an integer. Non-numbers and fractional numbers
// are reported; a fractional number is still returned, truncated toward
// zero.
func (s *Store) GetInteger(key string) int {
	value := s.Value(key)
	i, err := value.AsInteger()
	if err == nil {
		return i
	}
	var notInt *NotIntegerError
	if errors.As(err, &notInt) {
		notInt.Key = key
		s.report(notInt)
		return i
	}
	s.reportType(key, value, KindNumber)
	return 0
}

// OverrideValues merges replacements into the store key by key, overwriting
// previous values and leaving unmentioned keys alone. A nil mapping is
// reported and ignored, as is an override before SetData.
func (s *Store) OverrideValues(replacements map[string]Value) error {
	if replacements == nil {
		s.report(ErrInvalidReplacements)
		return ErrInvalidReplacements
	}
	s.mu.Lock()
	if s.data == nil {
		s.mu.Unlock()
		s.report(ErrNoData)
		return ErrNoData
	}
	for k, v := range replacements {
		s.data[k] = v
	}
	s.mu.Unlock()
	return nil
}

// OverrideValue is OverrideValues for a Value that must hold an object.
func (s *Store) OverrideValue(replacements Value) error {
	obj, err := replacements.AsObject()
	if err != nil {
		s.report(fmt.Errorf("%w: got %s", ErrInvalidReplacements, replacements.Kind()))
		return ErrInvalidReplacements
	}
	return s.OverrideValues(obj)
}

// Snapshot returns a copy of the current mapping.
func (s *Store) Snapshot() map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Value, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// SanitizeMarkup makes raw safe for use as element markup. The input is
// wrapped in a <b> container, passed through the configured sanitizer, and
// the container's inner markup returned.
func (s *Store) SanitizeMarkup(raw string, opts SanitizeOptions) (string, error) {
	if s.sanitizer == nil {
		return "", ErrMissingSanitizer
	}
	cleaned, err := s.sanitizer.Sanitize("<b>"+raw+"</b>", opts.Tags, opts.Attrs)
	if err != nil {
		return "", fmt.Errorf("loadtime: sanitize: %w", err)
	}
	return wrapperInnerHTML(cleaned)
}

func wrapperInnerHTML(markup string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return "", fmt.Errorf("loadtime: parse sanitized markup: %w", err)
	}
	var wrapper *html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			wrapper = n
			break
		}
	}
	if wrapper == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for c := wrapper.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("loadtime: render sanitized markup: %w", err)
		}
	}
	return buf.String(), nil
}

func (s *Store) reportType(key string, value Value, want Kind) {
	s.report(&TypeError{Key: key, Want: want, Got: value.Kind(), Value: value.String()})
}

// Report logs err against the store location and hands it to the defect
// handler. Callers reading store data use it for their own soft failures.
func (s *Store) Report(err error) { s.report(err) }

func (s *Store) report(err error) {
	if err == nil {
		return
	}
	location := s.location
	if location == "" {
		location = "about:blank"
	}
	if s.logger != nil {
		s.logger.Error(fmt.Sprintf("Unexpected condition on %s: %s", location, err.Error()),
			slog.String("component", "loadtime"),
		)
	}
	if s.onDefect != nil {
		s.onDefect(err)
	}
}
