package xhr

import (
	"context"
	_errors "errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/zishang520/engine.io/events"
	"github.com/zishang520/engine.io/log"
	"github.com/zishang520/xhr-polyfill/config"
	"github.com/zishang520/xhr-polyfill/errors"
	_http "github.com/zishang520/xhr-polyfill/http"
)

var xhr_request_log = log.NewLog("xhr:request")

type XMLHttpRequest struct {
	events.EventEmitter

	fetcher Fetcher
	opts    config.RequestOptionsInterface

	method  string
	uri     string
	headers map[string]string
	body    any

	readyState   int
	status       int
	statusText   string
	responseText string
	responseType string
	timeout      time.Duration
	response     *_http.Response
	header       http.Header
	err          *errors.RequestError

	// token of the in-flight send, nil when none or after Abort.
	active *cancellation
	// token of the latest send, kept for Wait.
	last *cancellation
	sent bool

	onreadystatechange EventHandler
	onload             EventHandler
	onerror            EventHandler

	mu sync.RWMutex
}

// XMLHttpRequest constructor. A nil fetcher uses a Transport built from opts.
func NewXMLHttpRequest(fetcher Fetcher, opts config.RequestOptionsInterface) *XMLHttpRequest {
	r := &XMLHttpRequest{}

	r.EventEmitter = events.New()
	if opts == nil {
		opts = config.DefaultRequestOptions()
	}
	r.opts = opts
	if fetcher == nil {
		fetcher = NewTransport(opts)
	}
	r.fetcher = fetcher

	r.headers = map[string]string{}
	r.readyState = UNSENT
	r.responseType = opts.ResponseType()
	r.timeout = opts.Timeout()

	return r
}

// Initializes the request. Any send still in flight is dropped.
func (r *XMLHttpRequest) Open(method string, uri string) {
	r.mu.Lock()
	if r.active != nil {
		r.active.Cancel(errors.ErrAbort)
		r.active.Finish()
		r.active = nil
	}
	r.method = method
	r.uri = uri
	r.headers = map[string]string{}
	r.body = nil
	r.sent = false
	r.status = 0
	r.statusText = ""
	r.responseText = ""
	r.response = nil
	r.header = nil
	r.err = nil
	r.readyState = OPENED
	r.mu.Unlock()

	r.dispatch(EVENT_READY_STATE_CHANGE)
}

// Sets a request header. The last value for a name wins. Ignored once sent.
func (r *XMLHttpRequest) SetRequestHeader(name string, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sent {
		xhr_request_log.Debug("ignoring header %s set after send", name)
		return
	}
	r.headers[http.CanonicalHeaderKey(name)] = value
}

// Sends the request. Progress is reported through the event handlers; Send
// itself never fails.
func (r *XMLHttpRequest) Send(body any) {
	r.mu.Lock()
	if r.sent {
		r.mu.Unlock()
		xhr_request_log.Debug("send called twice, ignoring")
		return
	}
	r.sent = true
	r.body = body
	if r.responseType == "" {
		r.responseType = config.ResponseTypeText
	}
	r.readyState = HEADERS_RECEIVED

	token := newCancellation(r.timeout)
	r.active = token
	r.last = token

	opts := &_http.Options{
		Method:  r.method,
		Headers: r.snapshotHeaders(),
		Body:    r.body,
	}
	uri := r.uri
	r.mu.Unlock()

	r.dispatch(EVENT_READY_STATE_CHANGE)

	go r.create(token, uri, opts)
}

// Aborts the request. Nothing from the aborted send is delivered afterwards.
func (r *XMLHttpRequest) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token := r.active; token != nil {
		r.active = nil
		token.Cancel(errors.ErrAbort)
		token.Finish()
		r.status = 0
	}
	r.readyState = UNSENT
}

func (r *XMLHttpRequest) snapshotHeaders() map[string]string {
	extra := lo.MapKeys(r.opts.ExtraHeaders(), func(_ string, name string) string {
		return http.CanonicalHeaderKey(name)
	})
	return lo.Assign(extra, r.headers)
}

// Performs the fetch and drives the state machine to DONE.
func (r *XMLHttpRequest) create(token *cancellation, uri string, opts *_http.Options) {
	defer token.Finish()

	res, err := r.fetcher.Fetch(token.Context(), uri, opts)
	if err != nil {
		r.onError(token, err)
		return
	}
	if res == nil {
		r.onError(token, _http.ErrNilResponse)
		return
	}

	if !r.update(token, func() {
		r.response = res
		r.header = res.Header.Clone()
		r.status = res.StatusCode
		r.statusText = res.StatusText()
		r.readyState = LOADING
	}) {
		r.discard(res)
		return
	}
	r.dispatch(EVENT_READY_STATE_CHANGE)

	text, err := r.materialize(res)
	if err != nil {
		r.onError(token, err)
		return
	}

	// decoding drops Content-Encoding and Content-Length
	r.onLoad(token, text, res.Header.Clone())
}

func (r *XMLHttpRequest) materialize(res *_http.Response) (string, error) {
	switch r.ResponseType() {
	case config.ResponseTypeText, config.ResponseTypeDefault:
		return res.Text()
	case config.ResponseTypeJson:
		raw, err := res.Text()
		if err != nil {
			return "", err
		}
		return stringify(raw)
	default:
		r.discard(res)
		return "", nil
	}
}

// Called upon load.
func (r *XMLHttpRequest) onLoad(token *cancellation, text string, header http.Header) {
	token.Settle()
	if !r.update(token, func() {
		r.header = header
		r.responseText = text
		r.readyState = DONE
	}) {
		return
	}
	xhr_request_log.Debug("load with status %d", r.Status())
	r.dispatch(EVENT_READY_STATE_CHANGE)
	r.dispatch(EVENT_LOAD)
}

// Called upon error.
func (r *XMLHttpRequest) onError(token *cancellation, err error) {
	if cause := token.Cause(); _errors.Is(cause, errors.ErrTimeout) {
		err = _errors.Join(errors.ErrTimeout, err)
	}
	token.Settle()

	requestError := errors.NewRequestError("xhr request error", err)
	if !r.update(token, func() {
		r.status = 0
		r.statusText = requestError.Type
		r.err = requestError
		r.readyState = DONE
	}) {
		return
	}
	xhr_request_log.Debug("%s: %v", requestError.Type, err)
	r.dispatch(EVENT_READY_STATE_CHANGE)
	r.dispatch(EVENT_ERROR)
}

// Applies fn if token still owns the session.
func (r *XMLHttpRequest) update(token *cancellation, fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != token {
		return false
	}
	fn()
	if r.readyState == DONE {
		r.active = nil
	}
	return true
}

// Invokes the slot handler, then the emitter listeners. Runs without the lock.
func (r *XMLHttpRequest) dispatch(eventType string) {
	r.mu.RLock()
	var handler EventHandler
	switch eventType {
	case EVENT_READY_STATE_CHANGE:
		handler = r.onreadystatechange
	case EVENT_LOAD:
		handler = r.onload
	case EVENT_ERROR:
		handler = r.onerror
	}
	r.mu.RUnlock()

	ev := &Event{Type: eventType, Target: r}
	if handler != nil {
		handler(ev)
	}
	r.Emit(events.EventName(eventType), ev)
}

func (r *XMLHttpRequest) discard(res *_http.Response) {
	if res.Response != nil && res.Body != nil {
		res.Body.Close()
	}
}

// Blocks until the latest send is over: terminal event delivered or aborted.
// Returns at once when nothing was sent.
func (r *XMLHttpRequest) Wait(ctx context.Context) error {
	r.mu.RLock()
	token := r.last
	r.mu.RUnlock()

	if token == nil {
		return nil
	}
	select {
	case <-token.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *XMLHttpRequest) ReadyState() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.readyState
}

func (r *XMLHttpRequest) Status() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.status
}

func (r *XMLHttpRequest) StatusText() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.statusText
}

func (r *XMLHttpRequest) ResponseText() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.responseText
}

func (r *XMLHttpRequest) ResponseURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.response == nil {
		return ""
	}
	return r.response.URL()
}

// Returns the named response header, "" before headers are received.
func (r *XMLHttpRequest) GetResponseHeader(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return strings.Join(r.header.Values(name), ", ")
}

// Returns all response headers as lower-cased "name: value" lines joined by CRLF.
func (r *XMLHttpRequest) GetAllResponseHeaders() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(map[string][]string(r.header))
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(strings.ToLower(name))
		b.WriteString(": ")
		b.WriteString(strings.Join(r.header.Values(name), ", "))
		b.WriteString("\r\n")
	}
	return b.String()
}

func (r *XMLHttpRequest) Err() *errors.RequestError {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.err
}

func (r *XMLHttpRequest) ResponseType() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.responseType
}

func (r *XMLHttpRequest) SetResponseType(responseType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.responseType = responseType
}

func (r *XMLHttpRequest) Timeout() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.timeout
}

func (r *XMLHttpRequest) SetTimeout(timeout time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timeout = timeout
}

func (r *XMLHttpRequest) OnReadyStateChange() EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.onreadystatechange
}

func (r *XMLHttpRequest) SetOnReadyStateChange(handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onreadystatechange = handler
}

func (r *XMLHttpRequest) OnLoad() EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.onload
}

func (r *XMLHttpRequest) SetOnLoad(handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onload = handler
}

func (r *XMLHttpRequest) OnError() EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.onerror
}

func (r *XMLHttpRequest) SetOnError(handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onerror = handler
}
