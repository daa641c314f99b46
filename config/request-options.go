package config

import (
	"crypto/tls"
	"net/http"
	"time"
)

const (
	ResponseTypeDefault = ""
	ResponseTypeText    = "text"
	ResponseTypeJson    = "json"
)

type RequestOptions struct {

	// Timeout for each request. Zero disables it.
	// @default 0
	timeout *time.Duration

	// How the response body is materialized into responseText ("", "text" or "json").
	// @default ""
	responseType *string

	// Headers that will be passed for each request, before any header set by
	// the caller through setRequestHeader.
	extraHeaders map[string]string

	// Whether to advertise gzip, deflate and br in Accept-Encoding.
	// @default false
	compress *bool

	// TLSClientConfig specifies the TLS configuration to use with tls.Client.
	// If nil, the default configuration is used.
	// Ignored when a Client is set.
	tlsClientConfig *tls.Config

	// Cookie jar shared by every request of the factory.
	jar http.CookieJar

	// Client used to perform requests. When nil a client is built from the
	// other options.
	client *http.Client
}

func DefaultRequestOptions() *RequestOptions {
	return &RequestOptions{}
}

func (r *RequestOptions) Assign(data RequestOptionsInterface) RequestOptionsInterface {
	if data == nil {
		return r
	}

	if data.GetRawTimeout() != nil {
		r.SetTimeout(data.Timeout())
	}
	if data.GetRawResponseType() != nil {
		r.SetResponseType(data.ResponseType())
	}
	if data.GetRawExtraHeaders() != nil {
		r.SetExtraHeaders(data.ExtraHeaders())
	}
	if data.GetRawCompress() != nil {
		r.SetCompress(data.Compress())
	}
	if data.GetRawTLSClientConfig() != nil {
		r.SetTLSClientConfig(data.TLSClientConfig())
	}
	if data.GetRawJar() != nil {
		r.SetJar(data.Jar())
	}
	if data.GetRawClient() != nil {
		r.SetClient(data.Client())
	}

	return r
}

func (r *RequestOptions) Timeout() time.Duration {
	if r.timeout == nil {
		return 0
	}
	return *r.timeout
}
func (r *RequestOptions) GetRawTimeout() *time.Duration {
	return r.timeout
}
func (r *RequestOptions) SetTimeout(timeout time.Duration) {
	r.timeout = &timeout
}

func (r *RequestOptions) ResponseType() string {
	if r.responseType == nil {
		return ResponseTypeDefault
	}
	return *r.responseType
}
func (r *RequestOptions) GetRawResponseType() *string {
	return r.responseType
}
func (r *RequestOptions) SetResponseType(responseType string) {
	r.responseType = &responseType
}

func (r *RequestOptions) ExtraHeaders() map[string]string {
	return r.extraHeaders
}
func (r *RequestOptions) GetRawExtraHeaders() map[string]string {
	return r.extraHeaders
}
func (r *RequestOptions) SetExtraHeaders(extraHeaders map[string]string) {
	r.extraHeaders = extraHeaders
}

func (r *RequestOptions) Compress() bool {
	if r.compress == nil {
		return false
	}
	return *r.compress
}
func (r *RequestOptions) GetRawCompress() *bool {
	return r.compress
}
func (r *RequestOptions) SetCompress(compress bool) {
	r.compress = &compress
}

func (r *RequestOptions) TLSClientConfig() *tls.Config {
	return r.tlsClientConfig
}
func (r *RequestOptions) GetRawTLSClientConfig() *tls.Config {
	return r.tlsClientConfig
}
func (r *RequestOptions) SetTLSClientConfig(tlsClientConfig *tls.Config) {
	r.tlsClientConfig = tlsClientConfig
}

func (r *RequestOptions) Jar() http.CookieJar {
	return r.jar
}
func (r *RequestOptions) GetRawJar() http.CookieJar {
	return r.jar
}
func (r *RequestOptions) SetJar(jar http.CookieJar) {
	r.jar = jar
}

func (r *RequestOptions) Client() *http.Client {
	return r.client
}
func (r *RequestOptions) GetRawClient() *http.Client {
	return r.client
}
func (r *RequestOptions) SetClient(client *http.Client) {
	r.client = client
}
