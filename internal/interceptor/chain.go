// Package interceptor builds the client's outgoing request pipeline as a
// chain of http.RoundTripper stages.
package interceptor

import "net/http"

type Middleware func(next http.RoundTripper) http.RoundTripper

type RoundTripperFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain wraps base with stages; the first stage sees the request first.
func Chain(base http.RoundTripper, stages ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	rt := base
	for i := len(stages) - 1; i >= 0; i-- {
		if stages[i] == nil {
			continue
		}
		rt = stages[i](rt)
	}

	return rt
}
