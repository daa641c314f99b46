package xhr

import (
	"context"
	"time"

	"github.com/zishang520/engine.io/events"
	"github.com/zishang520/xhr-polyfill/errors"
	_http "github.com/zishang520/xhr-polyfill/http"
)

// Ready states.
const (
	UNSENT           = 0
	OPENED           = 1
	HEADERS_RECEIVED = 2
	LOADING          = 3
	DONE             = 4
)

// Event types, also used as emitter event names.
const (
	EVENT_READY_STATE_CHANGE = "readystatechange"
	EVENT_LOAD               = "load"
	EVENT_ERROR              = "error"
)

type Event struct {
	Type   string
	Target XMLHttpRequestInterface
}

// EventHandler is a single-slot callback (onreadystatechange, onload, onerror).
type EventHandler func(*Event)

// Fetcher is the asynchronous network primitive the adapter runs on.
// It returns when the response headers are available; cancelling ctx must
// abort the call and any later body read.
type Fetcher interface {
	Fetch(ctx context.Context, uri string, opts *_http.Options) (*_http.Response, error)
}

type FetcherFunc func(ctx context.Context, uri string, opts *_http.Options) (*_http.Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, uri string, opts *_http.Options) (*_http.Response, error) {
	return f(ctx, uri, opts)
}

type XMLHttpRequestInterface interface {
	events.EventEmitter

	Open(method string, uri string)
	SetRequestHeader(name string, value string)
	Send(body any)
	Abort()

	ReadyState() int
	Status() int
	StatusText() string
	ResponseText() string
	ResponseURL() string
	GetResponseHeader(name string) string
	GetAllResponseHeaders() string
	Err() *errors.RequestError

	ResponseType() string
	SetResponseType(string)
	Timeout() time.Duration
	SetTimeout(time.Duration)

	OnReadyStateChange() EventHandler
	SetOnReadyStateChange(EventHandler)
	OnLoad() EventHandler
	SetOnLoad(EventHandler)
	OnError() EventHandler
	SetOnError(EventHandler)

	// Wait blocks until the current send has delivered its terminal event
	// or was aborted, or ctx is done.
	Wait(ctx context.Context) error
}

// Factory creates a fresh session per request.
type Factory func() XMLHttpRequestInterface
