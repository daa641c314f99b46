package http

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/zishang520/engine.io/types"
)

// NewBody converts a send payload into a request body and the Content-Type
// a browser would attach to it. A nil payload yields a nil reader.
func NewBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(v), "text/plain;charset=UTF-8", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case *types.StringBuffer:
		if v == nil {
			return nil, "", nil
		}
		return strings.NewReader(v.String()), "text/plain;charset=UTF-8", nil
	case *types.BytesBuffer:
		if v == nil {
			return nil, "", nil
		}
		return bytes.NewReader(v.Bytes()), "", nil
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded;charset=UTF-8", nil
	case *FormData:
		if v == nil {
			return nil, "", nil
		}
		return v.Encode()
	case io.Reader:
		return v, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported body type %T", body)
	}
}
