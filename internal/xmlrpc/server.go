package xmlrpc

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/nmxmxh/rosmaster/pkg/contextx"
	"github.com/nmxmxh/rosmaster/pkg/utils"
	"go.uber.org/zap"
)

// Method is the uniform signature every dispatched RPC method has: the
// caller's identity is always argument zero on the wire (per §6's method
// surface), everything else decodes to a generic Value slice. Handlers are
// expected to type-assert their own arguments and return the
// (status, message, value) triple already assembled as a Value.
type Method func(ctx context.Context, params []Value) (Value, error)

// Handler dispatches decoded methodCalls to a table of named Methods. It
// implements http.Handler and is mounted at both "/" and "/RPC2" per §6.
type Handler struct {
	methods map[string]Method
	log     *zap.Logger
}

// NewHandler builds a dispatch table. Unknown method names fault.
func NewHandler(methods map[string]Method, log *zap.Logger) *Handler {
	return &Handler{methods: methods, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		h.writeFault(w, 400, "failed to read request body")
		return
	}
	call, err := UnmarshalCall(body)
	if err != nil {
		h.writeFault(w, 400, err.Error())
		return
	}
	method, ok := h.methods[call.MethodName]
	if !ok {
		h.writeFault(w, 404, fmt.Sprintf("unknown method %q", call.MethodName))
		return
	}

	requestID := utils.NewUUIDOrDefault()
	reqLog := h.log.With(zap.String("request_id", requestID), zap.String("method", call.MethodName))
	ctx := contextx.WithRequestID(r.Context(), requestID)
	ctx = contextx.WithLogger(ctx, reqLog)

	result, err := method(ctx, call.Params)
	if err != nil {
		reqLog.Error("rpc method returned error", zap.Error(err))
		h.writeFault(w, 500, err.Error())
		return
	}
	resp, err := MarshalResponse(result)
	if err != nil {
		h.writeFault(w, 500, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write(resp)
}

func (h *Handler) writeFault(w http.ResponseWriter, code int, message string) {
	resp, err := MarshalFault(code, message)
	if err != nil {
		http.Error(w, message, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write(resp)
}

// Server binds the Handler at "/" and "/RPC2" on host:port (port 0 picks an
// ephemeral port). Addr() is only valid after Listen.
type Server struct {
	handler  *Handler
	listener net.Listener
	mux      *http.ServeMux
	srv      *http.Server
}

// NewServer constructs an unbound Server; call Listen then Serve.
func NewServer(handler *Handler) *Server {
	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/RPC2", handler)
	return &Server{handler: handler, mux: mux, srv: &http.Server{Handler: mux}}
}

// Handle mounts an additional debug/observability endpoint (e.g.
// /debug/state, /debug/live) alongside the XML-RPC routes on the same
// listener, so the master exposes one bind address for every surface.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Listen binds the TCP socket, making Addr() observable before Serve is
// called — required so the master can advertise its resolved ephemeral
// port (§6).
func (s *Server) Listen(host string, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("xmlrpc: listen: %w", err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve blocks, accepting connections until Shutdown is called.
func (s *Server) Serve() error {
	if err := s.srv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
