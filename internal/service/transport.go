package service

import "net/http"

// RoundTripper returns base wrapped by the configured middlewares, the
// first middleware outermost, with the default headers applied before any
// middleware runs. A nil base uses http.DefaultTransport.
func (s *Service) RoundTripper(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		rt = s.middlewares[i](rt)
	}
	if len(s.headers) == 0 {
		return rt
	}
	return headerTransport{next: rt, headers: s.headers}
}

type headerTransport struct {
	next    http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, vs := range t.headers {
		if r.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	return t.next.RoundTrip(r)
}
