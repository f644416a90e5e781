// Package sidecar relays JSON-RPC traffic between the host UI and a companion
// process. The relay does not own the process: it numbers outgoing requests,
// publishes them as events for the bridge that writes the process's stdin,
// and republishes every line the bridge reads back.
package sidecar

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// JSONRPCVersion is the protocol version stamped on every request.
const JSONRPCVersion = "2.0"

// StatusReady is published once when the relay starts.
const StatusReady = "ready"

// Relay is safe for concurrent use.
type Relay struct {
	mu      sync.Mutex
	nextID  uint64
	started bool
	emitter types.Emitter
	logger  *logging.Logger
}

// NewRelay creates a relay whose first request id is 1.
func NewRelay(emitter types.Emitter, logger *logging.Logger) *Relay {
	if emitter == nil {
		emitter = types.NopEmitter{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Relay{
		nextID:  1,
		emitter: emitter,
		logger:  logger,
	}
}

// Start marks the relay started and announces it. Later calls do nothing.
func (r *Relay) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	r.emitter.Emit(types.NewSidecarStatusEvent(StatusReady))
}

// Started reports whether Start has been called.
func (r *Relay) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Send builds a request for method with the given raw JSON params, publishes
// it and returns its id. Empty params are sent as null.
func (r *Relay) Send(method string, params json.RawMessage) (uint64, error) {
	rawParams := strings.TrimSpace(string(params))
	if rawParams == "" {
		rawParams = "null"
	}
	if !gjson.Valid(rawParams) {
		return 0, fmt.Errorf("%w: sidecar params for %s", types.ErrInvalidJSON, method)
	}

	id := r.allocateID()

	request, err := encodeRequest(id, method, rawParams)
	if err != nil {
		return 0, fmt.Errorf("failed to encode sidecar request: %w", err)
	}

	r.emitter.Emit(types.NewSidecarRequestEvent(json.RawMessage(request)))
	r.logger.Debugf("sidecar request %d: %s", id, method)
	return id, nil
}

// Receive validates a line read from the sidecar and republishes it.
func (r *Relay) Receive(message string) error {
	if !gjson.Valid(message) {
		return fmt.Errorf("%w: from sidecar: %.80q", types.ErrInvalidJSON, message)
	}
	r.emitter.Emit(types.NewSidecarMessageEvent(json.RawMessage(gjson.Parse(message).Raw)))
	return nil
}

func (r *Relay) allocateID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	return id
}

// encodeRequest assembles {"jsonrpc","method","params","id"} in that order.
func encodeRequest(id uint64, method, rawParams string) (string, error) {
	request := `{"jsonrpc":"` + JSONRPCVersion + `"}`
	request, err := sjson.Set(request, "method", method)
	if err != nil {
		return "", err
	}
	request, err = sjson.SetRaw(request, "params", rawParams)
	if err != nil {
		return "", err
	}
	return sjson.Set(request, "id", id)
}
