package xhr

import (
	"context"

	"github.com/zishang520/engine.io/log"
	"github.com/zishang520/xhr-polyfill/config"
	_http "github.com/zishang520/xhr-polyfill/http"
)

var xhr_transport_log = log.NewLog("xhr:transport")

// Transport is the default Fetcher. It applies the shared request options
// (compression, TLS, cookie jar, client) to every call.
type Transport struct {
	opts config.RequestOptionsInterface
}

func NewTransport(opts config.RequestOptionsInterface) *Transport {
	t := &Transport{}

	if opts == nil {
		opts = config.DefaultRequestOptions()
	}
	t.opts = opts

	return t
}

func (t *Transport) Fetch(ctx context.Context, uri string, opts *_http.Options) (*_http.Response, error) {
	if opts == nil {
		opts = &_http.Options{}
	}
	opts.Compress = opts.Compress || t.opts.Compress()
	if opts.TLSClientConfig == nil {
		opts.TLSClientConfig = t.opts.TLSClientConfig()
	}
	if opts.Jar == nil {
		opts.Jar = t.opts.Jar()
	}
	if opts.Client == nil {
		opts.Client = t.opts.Client()
	}

	res, err := _http.Fetch(ctx, uri, opts)
	if err != nil {
		xhr_transport_log.Debug("fetch %s failed: %v", uri, err)
		return nil, err
	}
	return res, nil
}
