// Package socketio provides the "socketio" runtime provider: a socket.io
// client factory registered under the service interface it implements.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/declaration"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultInterface is the service interface a runtime is registered under
// when its declaration does not name one.
const DefaultInterface = "socketio.Client"

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Input defines the arguments of a 'socketio' runtime declaration.
type Input struct {
	Interface          string `cty:"interface"`
	URL                string `cty:"url"`
	Namespace          string `cty:"namespace"`
	Timeout            string `cty:"timeout"`
	InsecureSkipVerify bool   `cty:"insecure_skip_verify"`
}

// Runtime opens socket.io connections to one endpoint.
type Runtime struct {
	iface              string
	baseURL            string
	path               string
	namespace          string
	timeout            time.Duration
	insecureSkipVerify bool
}

var _ declaration.RuntimeService = (*Runtime)(nil)

// ServiceInterface implements declaration.RuntimeService.
func (r *Runtime) ServiceInterface() string { return r.iface }

// Endpoint returns the URL and namespace the runtime connects to.
func (r *Runtime) Endpoint() (string, string) {
	return r.baseURL + r.path, r.namespace
}

// New is the factory for the 'socketio' kind.
func New(_ context.Context, args catalog.Args) (declaration.RuntimeService, error) {
	input := Input{Interface: DefaultInterface, Namespace: "/", Timeout: "10s"}
	if err := args.Decode(&input); err != nil {
		return nil, err
	}
	if input.URL == "" {
		return nil, errors.New("missing required argument 'url'")
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q must be absolute", input.URL)
	}
	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
	}

	return &Runtime{
		iface:              input.Interface,
		baseURL:            fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		path:               parsedURL.Path,
		namespace:          input.Namespace,
		timeout:            timeout,
		insecureSkipVerify: input.InsecureSkipVerify,
	}, nil
}

func (r *Runtime) socket(ctx context.Context) *socket.Socket {
	opts := socket.DefaultOptions()
	if r.path != "" {
		opts.SetPath(r.path)
	}
	if r.insecureSkipVerify {
		ctxlog.FromContext(ctx).Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	manager := socket.NewManager(r.baseURL, opts)
	return manager.Socket(r.namespace, opts)
}

// Connect opens a connection and waits until it is established. The caller
// owns the returned socket and must Disconnect it.
func (r *Runtime) Connect(ctx context.Context) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("runtime", "socketio", "url", r.baseURL)

	connectChan := make(chan error, 1)
	io := r.socket(ctx)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- eventError(errs)
	})

	io.Connect()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", r.timeout)
	}
}

// Request connects, emits emitEvent with data once connected (when
// emitEvent is set) and returns the first payload received on onEvent.
func (r *Runtime) Request(ctx context.Context, emitEvent string, data map[string]any, onEvent string) (any, error) {
	logger := ctxlog.FromContext(ctx).With("runtime", "socketio", "url", r.baseURL, "onEvent", onEvent, "emitEvent", emitEvent)

	type result struct {
		value any
		err   error
	}

	var isConnected atomic.Bool
	done := make(chan result, 1)
	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	io := r.socket(ctx)
	defer io.Disconnect()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", r.namespace, "sid", io.Id())
		if emitEvent != "" {
			jsonData, _ := json.Marshal(data)
			logger.Debug("Emitting event", "event", emitEvent, "data", string(jsonData))
			io.Emit(emitEvent, data)
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		select {
		case done <- result{err: eventError(errs)}:
		default:
		}
	})
	io.On(types.EventName(onEvent), func(payload ...any) {
		var v any
		if len(payload) > 0 {
			v = payload[0]
		}
		select {
		case done <- result{value: v}:
		default:
		}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", onEvent)
		}
		return nil, errors.New("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}

func eventError(args []any) error {
	if len(args) > 0 {
		if err, ok := args[0].(error); ok {
			return err
		}
		return fmt.Errorf("%v", args[0])
	}
	return errors.New("unknown connection error")
}

// Register registers the factory with the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.RegisterRuntime("socketio", New)
}
