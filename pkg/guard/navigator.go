package guard

import (
	"context"
	"net/url"
	"slices"
	"sync"
)

// Query parameters attached to a denial redirect.
const (
	QueryAccessDenied = "accessDenied"
	QueryReason       = "reason"
	QueryAttemptedURL = "attemptedUrl"
)

// Redirect is a navigation target.
type Redirect struct {
	Path  string
	Query url.Values
}

// URL returns the path with the encoded query appended.
// Query values are encoded exactly once.
func (r Redirect) URL() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

func deniedRedirect(fallback, reason, attempted string) Redirect {
	return Redirect{
		Path: fallback,
		Query: url.Values{
			QueryAccessDenied: {"true"},
			QueryReason:       {reason},
			QueryAttemptedURL: {attempted},
		},
	}
}

// Navigator performs the redirect produced by a denied attempt.
type Navigator interface {
	Navigate(ctx context.Context, to Redirect) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, to Redirect) error

func (f NavigatorFunc) Navigate(ctx context.Context, to Redirect) error {
	return f(ctx, to)
}

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, Redirect) error { return nil }

// RecordingNavigator keeps every redirect it receives. Useful for tests and
// for shells that apply redirects asynchronously.
type RecordingNavigator struct {
	mu        sync.Mutex
	redirects []Redirect
}

// Navigate records to.
func (n *RecordingNavigator) Navigate(_ context.Context, to Redirect) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, to)
	return nil
}

// Redirects returns the recorded redirects in order.
func (n *RecordingNavigator) Redirects() []Redirect {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.redirects)
}

// Last returns the most recent redirect.
func (n *RecordingNavigator) Last() (Redirect, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.redirects) == 0 {
		return Redirect{}, false
	}
	return n.redirects[len(n.redirects)-1], true
}
