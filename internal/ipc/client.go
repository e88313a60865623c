package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/foliagewm/foliage/internal/container"
	"github.com/foliagewm/foliage/internal/runtimepath"
)

// NotificationKind is the client-side form of wm.NotificationKind as it is
// carried on the wire.
type NotificationKind string

// Notification is the client-side decoded form of an EventPayload.
type Notification struct {
	Kind        NotificationKind
	ContainerID uuid.UUID
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Client is a thin request/response wrapper over the daemon's Unix socket,
// used by cmd/foliage's subcommands.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client bound to the standard runtime-dir socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep construction non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w (is foliage running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// GetTree retrieves the full container-tree DTO.
func (c *Client) GetTree() (*container.DTO, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetTree})
	if err != nil {
		return nil, err
	}
	var dto container.DTO
	if err := json.Unmarshal(resp.Data, &dto); err != nil {
		return nil, fmt.Errorf("parse tree data: %w", err)
	}
	return &dto, nil
}

// GetMonitors retrieves the connected monitor list.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}
	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("parse monitors data: %w", err)
	}
	return &monitors, nil
}

// FocusWorkspace asks the daemon to activate the named workspace.
func (c *Client) FocusWorkspace(name string) error {
	payload, err := json.Marshal(FocusWorkspacePayload{Name: name})
	if err != nil {
		return fmt.Errorf("marshal focus-workspace payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: CommandFocusWorkspace, Payload: payload})
	return err
}

// Reload asks the daemon to re-read its config file from disk.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping checks whether the daemon is responding.
func (c *Client) Ping() error {
	_, err := c.GetTree()
	return err
}

// Subscribe opens a long-lived connection and streams events to the
// returned channel until ctx-less EOF or an error occurs; the channel is
// closed when the stream ends. Callers should run this in its own
// goroutine.
func (c *Client) Subscribe() (<-chan Notification, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w (is foliage running?)", err)
	}

	req := &Request{Command: CommandSubscribe}
	reqData, err := json.Marshal(req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send subscribe request: %w", err)
	}

	out := make(chan Notification, 32)
	go func() {
		defer conn.Close()
		defer close(out)
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				return
			}
			var resp Response
			if err := json.Unmarshal(line, &resp); err != nil {
				continue
			}
			if resp.Event == nil {
				continue // the initial subscribe ack
			}
			out <- Notification{Kind: NotificationKind(resp.Event.Kind), ContainerID: parseUUID(resp.Event.ContainerID)}
		}
	}()
	return out, nil
}
