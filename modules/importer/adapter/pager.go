package adapter

import (
	"context"
	"encoding/json"
)

// pageFetchFunc retrieves the next page, advancing whatever pagination state
// the adapter closed over. done=true marks the returned page as the last one.
type pageFetchFunc func(ctx context.Context) (items []json.RawMessage, done bool, err error)

// streamPager drains pages one item at a time. Errors are sticky: once a
// fetch fails the pager is exhausted, matching the non-restartable contract.
type streamPager struct {
	fetch pageFetchFunc
	buf   []json.RawMessage
	done  bool
	err   error
}

func newStreamPager(fetch pageFetchFunc) *streamPager {
	return &streamPager{fetch: fetch}
}

func (p *streamPager) Next(ctx context.Context) (json.RawMessage, error) {
	if p.err != nil {
		return nil, p.err
	}

	for len(p.buf) == 0 {
		if p.done {
			p.err = ErrNoMorePages
			return nil, p.err
		}

		items, done, err := p.fetch(ctx)
		if err != nil {
			p.err = err
			return nil, err
		}
		p.buf = items
		p.done = done
	}

	item := p.buf[0]
	p.buf = p.buf[1:]
	return item, nil
}

// errorPager always surfaces one error; used when a pager cannot even start.
type errorPager struct {
	err error
}

func (p *errorPager) Next(context.Context) (json.RawMessage, error) {
	return nil, p.err
}
