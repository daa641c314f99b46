package config

import (
	"crypto/tls"
	"net/http"
	"time"
)

type RequestOptionsInterface interface {
	Timeout() time.Duration
	GetRawTimeout() *time.Duration
	SetTimeout(time.Duration)

	ResponseType() string
	GetRawResponseType() *string
	SetResponseType(string)

	ExtraHeaders() map[string]string
	GetRawExtraHeaders() map[string]string
	SetExtraHeaders(map[string]string)

	Compress() bool
	GetRawCompress() *bool
	SetCompress(bool)

	TLSClientConfig() *tls.Config
	GetRawTLSClientConfig() *tls.Config
	SetTLSClientConfig(*tls.Config)

	Jar() http.CookieJar
	GetRawJar() http.CookieJar
	SetJar(http.CookieJar)

	Client() *http.Client
	GetRawClient() *http.Client
	SetClient(*http.Client)
}
