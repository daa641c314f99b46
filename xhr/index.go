package xhr

import (
	"sync"

	"github.com/samber/lo"
	"github.com/zishang520/xhr-polyfill/config"
)

// Scopes a factory can be installed into, mirroring the window and worker
// globals of a browser extension.
const (
	SCOPE_GLOBAL = "global"
	SCOPE_WORKER = "self"
)

var (
	_factories = map[string]Factory{
		SCOPE_GLOBAL: NewFactory(nil),
		SCOPE_WORKER: NewFactory(nil),
	}
	mu_factories sync.RWMutex
)

// NewFactory returns a constructor whose sessions share opts and one Transport.
func NewFactory(opts config.RequestOptionsInterface) Factory {
	if opts == nil {
		opts = config.DefaultRequestOptions()
	}
	transport := NewTransport(opts)
	return func() XMLHttpRequestInterface {
		return NewXMLHttpRequest(transport, opts)
	}
}

// Install replaces the ambient constructor for the given scopes, or for both
// scopes when none is given. It is meant for libraries that cannot take a
// Factory directly.
func Install(factory Factory, scopes ...string) {
	if factory == nil {
		factory = NewFactory(nil)
	}
	if len(scopes) == 0 {
		scopes = []string{SCOPE_GLOBAL, SCOPE_WORKER}
	}

	mu_factories.Lock()
	defer mu_factories.Unlock()

	for _, scope := range scopes {
		_factories[scope] = factory
	}
}

// Factories returns a copy of the installed constructors by scope.
func Factories() map[string]Factory {
	mu_factories.RLock()
	defer mu_factories.RUnlock()

	return lo.Assign(_factories)
}

// New creates a session from the constructor installed in the global scope.
func New() XMLHttpRequestInterface {
	return NewIn(SCOPE_GLOBAL)
}

// NewIn creates a session from the constructor installed in scope, falling
// back to the global one.
func NewIn(scope string) XMLHttpRequestInterface {
	mu_factories.RLock()
	factory, ok := _factories[scope]
	if !ok {
		factory = _factories[SCOPE_GLOBAL]
	}
	mu_factories.RUnlock()

	return factory()
}
