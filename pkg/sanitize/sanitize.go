// Package sanitize cleans untrusted markup down to the small HTML subset an
// interstitial page is allowed to inject into its own DOM.
package sanitize

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultTags are always allowed.
var DefaultTags = []string{"a", "b", "br", "div", "p", "pre", "span", "strong"}

// OptionalTags may be allowed per call.
var OptionalTags = []string{"code", "em", "i", "li", "ol", "ul"}

// OptionalAttrs may be allowed per call, on any element.
var OptionalAttrs = []string{
	"aria-describedby", "aria-hidden", "aria-label", "aria-labelledby",
	"class", "id", "is", "role", "src", "tabindex",
}

var targetBlank = regexp.MustCompile(`^_blank$`)

// Sanitizer builds and caches one bluemonday policy per distinct set of
// extra tags and attributes.
type Sanitizer struct {
	mu       sync.Mutex
	policies map[string]*bluemonday.Policy
}

// New returns a ready Sanitizer.
func New() *Sanitizer {
	return &Sanitizer{policies: make(map[string]*bluemonday.Policy)}
}

// Sanitize strips everything outside the default subset plus the requested
// extras. Requesting a tag or attribute outside the optional lists is an
// error, so callers cannot widen the subset arbitrarily.
func (s *Sanitizer) Sanitize(markup string, tags, attrs []string) (string, error) {
	policy, err := s.policy(tags, attrs)
	if err != nil {
		return "", err
	}
	return policy.Sanitize(markup), nil
}

func (s *Sanitizer) policy(tags, attrs []string) (*bluemonday.Policy, error) {
	tags, err := normalise(tags, OptionalTags, "tag")
	if err != nil {
		return nil, err
	}
	attrs, err = normalise(attrs, OptionalAttrs, "attribute")
	if err != nil {
		return nil, err
	}
	key := strings.Join(tags, ",") + "|" + strings.Join(attrs, ",")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policies == nil {
		s.policies = make(map[string]*bluemonday.Policy)
	}
	if policy, ok := s.policies[key]; ok {
		return policy, nil
	}
	policy := Policy(tags, attrs)
	s.policies[key] = policy
	return policy, nil
}

// Policy builds the bluemonday policy for the default subset plus extras.
// Extras are not validated here.
func Policy(tags, attrs []string) *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(DefaultTags...)
	if len(tags) > 0 {
		policy.AllowElements(tags...)
	}

	policy.RequireParseableURLs(true)
	policy.AllowURLSchemes("https", "chrome")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("target").Matching(targetBlank).OnElements("a")

	if len(attrs) > 0 {
		policy.AllowAttrs(attrs...).Globally()
	}
	return policy
}

func normalise(values, allowed []string, what string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		v := strings.ToLower(strings.TrimSpace(value))
		if v == "" {
			continue
		}
		if !slices.Contains(allowed, v) {
			return nil, fmt.Errorf("sanitize: %s %q is not allowed", what, value)
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}
