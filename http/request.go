package http

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/zishang520/engine.io/log"
	"github.com/zishang520/engine.io/types"
)

var http_request_log = log.NewLog("xhr:http")

var (
	ErrBodyNotAllowed = errors.New("request with GET/HEAD method cannot have body")
	ErrNilResponse    = errors.New("nil response")
)

type Options struct {
	Method          string
	Headers         map[string]string
	Compress        bool
	Body            any
	Jar             http.CookieJar
	TLSClientConfig *tls.Config
	// Client overrides Jar and TLSClientConfig when set.
	Client *http.Client
}

// Response is available as soon as the status line and headers have been
// received. The body is read lazily by Text or Json.
type Response struct {
	*http.Response

	BodyBuffer types.BufferInterface

	mu   sync.Mutex
	read bool
	err  error
}

func NewResponse(response *http.Response) *Response {
	return &Response{Response: response}
}

type Request struct {
	uri     string
	options *Options
}

// Fetch issues the request and returns once the response headers are in.
// Cancelling ctx aborts both the round trip and any later body read.
func Fetch(ctx context.Context, uri string, opts *Options) (*Response, error) {
	r := &Request{}

	r.uri = uri
	r.options = opts
	if r.options == nil {
		r.options = &Options{}
	}

	return r.create(ctx)
}

func (r *Request) client() *http.Client {
	if r.options.Client != nil {
		return r.options.Client
	}
	client := &http.Client{}
	if r.options.Jar != nil {
		client.Jar = r.options.Jar
	}
	if r.options.TLSClientConfig != nil {
		client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: r.options.TLSClientConfig,
		}
	}
	return client
}

func (r *Request) create(ctx context.Context) (*Response, error) {
	method := strings.ToUpper(r.options.Method)
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := NewBody(r.options.Body)
	if err != nil {
		return nil, err
	}
	if body != nil && (method == http.MethodGet || method == http.MethodHead) {
		return nil, ErrBodyNotAllowed
	}

	request, err := http.NewRequestWithContext(ctx, method, r.uri, body)
	if err != nil {
		return nil, err
	}
	for key, value := range r.options.Headers {
		request.Header.Set(key, value)
	}
	if _, HasContentType := request.Header["Content-Type"]; contentType != "" && !HasContentType {
		request.Header.Set("Content-Type", contentType)
	}
	if _, HasAccept := request.Header["Accept"]; !HasAccept {
		request.Header.Set("Accept", "*/*")
	}
	if r.options.Compress {
		request.Header.Set("Accept-Encoding", "gzip, deflate, br")
	}

	http_request_log.Debug("%s %s", method, r.uri)

	response, err := r.client().Do(request)
	if err != nil {
		return nil, err
	}

	return NewResponse(response), nil
}

// StatusText returns the reason phrase of the status line, without the code.
func (res *Response) StatusText() string {
	if res.Response == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
}

// URL returns the final URL after redirects.
func (res *Response) URL() string {
	if res.Response == nil || res.Request == nil || res.Request.URL == nil {
		return ""
	}
	return res.Request.URL.String()
}

// Text reads the whole body (decoding any content encoding) and returns it
// as a string. The body is read once; later calls return the same result.
func (res *Response) Text() (string, error) {
	if err := res.readBody(); err != nil {
		return "", err
	}
	if res.BodyBuffer == nil {
		return "", nil
	}
	return res.BodyBuffer.String(), nil
}

// Json decodes the body as JSON.
func (res *Response) Json() (any, error) {
	if err := res.readBody(); err != nil {
		return nil, err
	}
	var data any
	if res.BodyBuffer == nil {
		return nil, io.ErrUnexpectedEOF
	}
	if err := json.Unmarshal([]byte(res.BodyBuffer.String()), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (res *Response) readBody() error {
	res.mu.Lock()
	defer res.mu.Unlock()

	if res.read {
		return res.err
	}
	res.read = true

	if res.Response == nil {
		res.err = ErrNilResponse
		return res.err
	}

	// apparently, Body can be nil in some cases
	if res.Body == nil {
		res.BodyBuffer = nil
		return nil
	}
	defer res.Body.Close()

	body := types.NewStringBuffer(nil)
	var reader io.Reader
	switch res.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(res.Body)
		if err != nil {
			res.err = err
			return err
		}
		defer gz.Close()
		reader = gz
		res.uncompressed()
	case "deflate":
		fl := flate.NewReader(res.Body)
		defer fl.Close()
		reader = fl
		res.uncompressed()
	case "br":
		reader = brotli.NewReader(res.Body)
		res.uncompressed()
	default:
		reader = res.Body
	}
	if _, err := io.Copy(body, reader); err != nil {
		res.err = err
		return err
	}
	res.BodyBuffer = body
	return nil
}

func (res *Response) uncompressed() {
	res.Header.Del("Content-Encoding")
	res.Header.Del("Content-Length")
	res.ContentLength = -1
	res.Uncompressed = true
}
