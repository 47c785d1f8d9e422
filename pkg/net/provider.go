package net

import (
	"context"
	"sync"
)

// Kind says what a fetched resource will be used as.
type Kind uint8

const (
	KindImage Kind = iota
	KindStylesheet
)

// Resource is one completed fetch, success or failure.
type Resource struct {
	URL         string
	Kind        Kind
	Token       uint64
	Data        []byte
	ContentType string
	Err         error
}

// Provider issues fetches and delivers completions. Implementations
// must keep Completed open until Close; a closed provider drops further
// Fetch calls silently.
type Provider interface {
	// Fetch schedules a retrieval. Token is an opaque caller tag echoed
	// back on the Resource.
	Fetch(url string, kind Kind, token uint64)
	// Completed is drained by the embedder between frames.
	Completed() <-chan Resource
	// Close stops the workers and closes the completion channel once
	// in-flight fetches finish.
	Close()
}

// HTTPProvider runs fetches on a fixed worker pool.
type HTTPProvider struct {
	fetcher Fetcher

	ctx     context.Context
	cancel  context.CancelFunc
	queue   chan request
	done    chan Resource
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

type request struct {
	url   string
	kind  Kind
	token uint64
}

const defaultWorkers = 4

// NewHTTPProvider creates a provider fetching via the given fetcher.
// A nil fetcher gets a DefaultFetcher with no base URL.
func NewHTTPProvider(fetcher Fetcher) *HTTPProvider {
	if fetcher == nil {
		fetcher = NewFetcher("")
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &HTTPProvider{
		fetcher: fetcher,
		ctx:     ctx,
		cancel:  cancel,
		queue:   make(chan request, 64),
		done:    make(chan Resource, 64),
	}
	p.wg.Add(defaultWorkers)
	for i := 0; i < defaultWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *HTTPProvider) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case req, ok := <-p.queue:
			if !ok {
				return
			}
			body, ct, err := p.fetcher.Fetch(p.ctx, req.url)
			res := Resource{
				URL:         req.url,
				Kind:        req.kind,
				Token:       req.token,
				Data:        body,
				ContentType: ct,
				Err:         err,
			}
			select {
			case p.done <- res:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Fetch implements Provider.
func (p *HTTPProvider) Fetch(url string, kind Kind, token uint64) {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- request{url: url, kind: kind, token: token}:
	case <-p.ctx.Done():
	}
}

// Completed implements Provider.
func (p *HTTPProvider) Completed() <-chan Resource { return p.done }

// Close implements Provider.
func (p *HTTPProvider) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.closeMu.Unlock()

	p.wg.Wait()
	p.cancel()
	close(p.done)
}

// NopProvider never fetches anything. Documents without external
// resources (or tests) use it.
type NopProvider struct {
	ch chan Resource
}

// NewNopProvider returns a provider whose completion channel never
// delivers.
func NewNopProvider() *NopProvider {
	return &NopProvider{ch: make(chan Resource)}
}

// Fetch implements Provider.
func (*NopProvider) Fetch(string, Kind, uint64) {}

// Completed implements Provider.
func (p *NopProvider) Completed() <-chan Resource { return p.ch }

// Close implements Provider.
func (p *NopProvider) Close() { close(p.ch) }
