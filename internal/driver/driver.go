// internal/driver/driver.go
package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/synthmouse/internal/pointer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Finder locates elements on a page.
type Finder interface {
	QueryCSS(ctx context.Context, selector string) ([]pointer.Element, error)
	QueryXPath(ctx context.Context, expr string) ([]pointer.Element, error)
}

// Backend is a page the driver can both search and drive.
type Backend interface {
	pointer.Page
	Finder
}

// Command is one wire command. As optionally names the element a find
// command returns so later commands can refer to it by that name.
type Command struct {
	Name       string              `json:"name"`
	Parameters jsoniter.RawMessage `json:"parameters,omitempty"`
	As         string              `json:"as,omitempty"`
}

// Response is the reply to a Command.
type Response struct {
	Status Status      `json:"status"`
	Value  interface{} `json:"value"`
}

// OK reports whether the command succeeded.
func (r Response) OK() bool { return r.Status == StatusSuccess }

// ElementRef is the wire form of an element handle.
type ElementRef struct {
	ID string `json:"ELEMENT"`
}

// handler runs one command. A pointer.Result value is translated into the
// response status.
type handler func(ctx context.Context, params jsoniter.RawMessage) (interface{}, error)

// Driver executes wire commands against one page through a single
// pointer.Controller. Commands are serialized.
type Driver struct {
	backend    Backend
	controller *pointer.Controller
	logger     *zap.Logger

	mu       sync.Mutex
	elements map[string]pointer.Element
	ids      map[pointer.Element]string
	aliases  map[string]string
	handlers map[string]handler
}

// New creates a Driver for backend.
func New(backend Backend, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{
		backend:    backend,
		controller: pointer.New(backend, logger),
		logger:     logger.Named("driver"),
		elements:   make(map[string]pointer.Element),
		ids:        make(map[pointer.Element]string),
		aliases:    make(map[string]string),
		handlers:   make(map[string]handler),
	}
	d.registerHandlers()
	return d
}

// Controller exposes the underlying pointer controller.
func (d *Driver) Controller() *pointer.Controller { return d.controller }

// Execute runs one command and always produces a Response; failures are
// reported through its status.
func (d *Driver) Execute(ctx context.Context, cmd Command) Response {
	d.mu.Lock()
	defer d.mu.Unlock()

	logger := d.logger.With(zap.String("command", cmd.Name))
	h, ok := d.handlers[cmd.Name]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
		logger.Warn("Unknown command.")
		return Response{Status: statusOf(err), Value: errorValue(err.Error())}
	}

	logger.Debug("Executing command.")
	value, err := h(ctx, cmd.Parameters)
	if err != nil {
		status := statusOf(err)
		logger.Warn("Command failed.", zap.Int("status", int(status)), zap.Error(err))
		return Response{Status: status, Value: errorValue(err.Error())}
	}

	if res, ok := value.(pointer.Result); ok {
		if !res.OK() {
			logger.Info("Command refused.", zap.Stringer("reason", res.Status), zap.String("message", res.Message))
			return Response{Status: statusOfResult(res), Value: errorValue(res.Message)}
		}
		return Response{Status: StatusSuccess}
	}

	if ref, ok := value.(ElementRef); ok && cmd.As != "" {
		d.aliases[cmd.As] = ref.ID
	}
	return Response{Status: StatusSuccess, Value: value}
}

// Forget drops every element id and alias, for example after navigating.
func (d *Driver) Forget() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements = make(map[string]pointer.Element)
	d.ids = make(map[pointer.Element]string)
	d.aliases = make(map[string]string)
}

// register returns the id for el, issuing one on first sight.
func (d *Driver) register(el pointer.Element) string {
	if id, ok := d.ids[el]; ok {
		return id
	}
	id := uuid.NewString()
	d.elements[id] = el
	d.ids[el] = id
	return id
}

// lookup resolves an element id or alias. An empty id means no element.
func (d *Driver) lookup(id string) (pointer.Element, error) {
	if id == "" {
		return nil, nil
	}
	if el, ok := d.elements[id]; ok {
		return el, nil
	}
	if el, ok := d.elements[d.aliases[id]]; ok {
		return el, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrStaleElement, id)
}

func errorValue(message string) map[string]string {
	return map[string]string{"message": message}
}

func decode(params jsoniter.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}
