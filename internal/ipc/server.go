package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/config"
	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/geometry"
	"github.com/foliagewm/foliage/internal/runtimepath"
	"github.com/foliagewm/foliage/internal/tiling"
	"github.com/foliagewm/foliage/internal/wm"
)

// Server exposes the WM state's DTO tree and event channel over a Unix
// socket. Every exported operation takes the state's lock, so IPC commands
// run as if they were just another event-loop dispatch.
type Server struct {
	state      *wm.State
	log        *slog.Logger
	listener   net.Listener
	socketPath string
	reloadChan chan *config.Config

	shutdownMu sync.Mutex
	shutdown   bool
}

// NewServer creates a server bound to the standard runtime-dir socket
// path. reloadChan receives the freshly loaded config (non-blocking)
// whenever a RELOAD command is handled, the same channel config.Watcher
// publishes file-triggered reloads on, so the daemon's main loop applies
// both through one path.
func NewServer(state *wm.State, log *slog.Logger, reloadChan chan *config.Config) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("resolve IPC socket path: %w", err)
	}
	os.Remove(socketPath)

	return &Server{state: state, log: log, socketPath: socketPath, reloadChan: reloadChan}, nil
}

// Start begins listening for connections in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("create IPC socket: %w", err)
	}
	s.listener = listener
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("set IPC socket permissions: %w", err)
	}

	if s.log != nil {
		s.log.Info("ipc server listening", "socket", s.socketPath)
	}
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shutdown = true
	s.shutdownMu.Unlock()
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shutdown
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			if s.log != nil {
				s.log.Warn("ipc accept error", "error", err)
			}
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	line, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		if s.log != nil {
			s.log.Warn("ipc read error", "error", err)
		}
		return
	}

	req, err := ParseRequest(line)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(err.Error()))
		return
	}

	if req.Command == CommandSubscribe {
		s.streamEvents(conn)
		return
	}

	resp := s.handleCommand(req)
	s.writeResponse(conn, resp)
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		if s.log != nil {
			s.log.Warn("ipc marshal response failed", "error", err)
		}
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil && s.log != nil {
		s.log.Warn("ipc write response failed", "error", err)
	}
}

// streamEvents keeps the connection open, pushing each notification it
// receives from the WM state's Events() channel as a Response with Event
// set, until the client disconnects. All subscribers drain that one
// channel, so with several connected each notification reaches only one. It holds no lock between events: the state's Events()
// channel is safe to drain concurrently with handler dispatch.
func (s *Server) streamEvents(conn net.Conn) {
	ack, _ := NewOKResponse(nil)
	s.writeResponse(conn, ack)

	for notif := range s.state.Events() {
		payload := &Response{Event: &EventPayload{
			Kind:        string(notif.Kind),
			ContainerID: notif.ContainerID.String(),
		}}
		data, err := payload.Marshal()
		if err != nil {
			continue
		}
		data = append(data, '\n')
		if _, err := conn.Write(data); err != nil {
			return // client disconnected
		}
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetTree:
		return s.handleGetTree()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandFocusWorkspace:
		return s.handleFocusWorkspace(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetTree() *Response {
	s.state.Lock()
	defer s.state.Unlock()

	dto := container.ToDTO(s.state.Root, s.state.Focused(), s.workspaceRects())
	resp, err := NewOKResponse(dto)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// workspaceRects computes every workspace's effective content rect against
// its monitor's usable area, the same math the reconciler applies before
// laying out tiling windows, so the DTO's workspace width/height/x/y match
// what the reconciler actually targets.
func (s *Server) workspaceRects() map[uuid.UUID]geometry.Rect {
	out := make(map[uuid.UUID]geometry.Rect)
	if s.state.Config == nil {
		return out
	}
	for _, mon := range s.state.Monitors() {
		usable := mon.NativeMonitor.Usable
		working := geometry.NewRect(usable.X, usable.Y, usable.Width, usable.Height)
		for _, ws := range mon.Children() {
			if ws.Kind != container.KindWorkspace {
				continue
			}
			rect, err := tiling.WorkspaceRect(working, s.state.Config.Gaps, nil)
			if err != nil {
				if s.log != nil {
					s.log.Warn("workspace rect computation failed", "workspace", ws.Name, "error", err)
				}
				continue
			}
			out[ws.ID] = rect
		}
	}
	return out
}

func (s *Server) handleGetMonitors() *Response {
	s.state.Lock()
	defer s.state.Unlock()

	displays, err := s.state.Backend.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("list displays: %v", err))
	}

	infos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		infos[i] = MonitorInfo{ID: d.ID, Name: d.Name, X: d.Bounds.X, Y: d.Bounds.Y, Width: d.Bounds.Width, Height: d.Bounds.Height}
	}

	resp, err := NewOKResponse(MonitorsData{Monitors: infos})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleFocusWorkspace(payload json.RawMessage) *Response {
	var req FocusWorkspacePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid payload: %v", err))
	}

	s.state.Lock()
	defer s.state.Unlock()

	target := findWorkspaceByName(s.state, req.Name)
	if target == nil {
		return NewErrorResponse(fmt.Sprintf("no workspace named %q", req.Name))
	}
	s.state.FocusWorkspace(target)

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleReload() *Response {
	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("reload config: %v", err))
	}

	select {
	case s.reloadChan <- newCfg:
	default:
		<-s.reloadChan
		s.reloadChan <- newCfg
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func findWorkspaceByName(state *wm.State, name string) *container.Container {
	for _, mon := range state.Monitors() {
		for _, ws := range mon.Children() {
			if ws.Kind == container.KindWorkspace && ws.Name == name {
				return ws
			}
		}
	}
	return nil
}
