package qusb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roach88/autotimer/internal/snes"
)

// ErrNoDevice is returned when the server lists no devices to attach to.
var ErrNoDevice = errors.New("qusb: no device available")

// DefaultTimeout bounds each request/response exchange.
const DefaultTimeout = 2 * time.Second

// Client is one attached QUsb2Snes connection.
//
// Requests are serialized; the protocol has no request ids, so replies are
// matched to requests by order.
type Client struct {
	conn    *websocket.Conn
	device  string
	timeout time.Duration
	mu      sync.Mutex
}

// Dial connects to url, lists devices and attaches to the first one.
func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{conn: conn, timeout: timeout}

	devices, err := c.DeviceList()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if len(devices) == 0 {
		conn.Close()
		return nil, ErrNoDevice
	}
	if err := c.Attach(devices[0]); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Device returns the attached device name, or "" before Attach.
func (c *Client) Device() string { return c.device }

// Close closes the websocket.
func (c *Client) Close() error {
	return c.conn.Close()
}

// DeviceList returns the devices the server can attach to.
func (c *Client) DeviceList() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.send(deviceListRequest()); err != nil {
		return nil, err
	}
	resp, err := c.receiveText()
	if err != nil {
		return nil, fmt.Errorf("device list: %w", err)
	}
	return resp.Results, nil
}

// Attach binds the connection to device. The server sends no reply.
func (c *Client) Attach(device string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.send(attachRequest(device)); err != nil {
		return err
	}
	c.device = device
	return nil
}

// Info returns the attached device's firmware description. A successful
// reply also confirms that Attach was accepted.
func (c *Client) Info() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.send(infoRequest(c.device)); err != nil {
		return nil, err
	}
	resp, err := c.receiveText()
	if err != nil {
		return nil, fmt.Errorf("info: %w", err)
	}
	return resp.Results, nil
}

// GetAddress reads size bytes starting at the bus address. The server may
// split the reply across several binary frames.
func (c *Client) GetAddress(address uint32, size int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.send(getAddressRequest(address, size)); err != nil {
		return nil, err
	}
	out := make([]byte, 0, size)
	for len(out) < size {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("get address 0x%X: %w", address, err)
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		out = append(out, data...)
	}
	if len(out) > size {
		return nil, fmt.Errorf("get address 0x%X: got %d bytes, want %d", address, len(out), size)
	}
	return out, nil
}

// ReadSnapshot fetches every tracked region.
func (c *Client) ReadSnapshot() (*snes.Snapshot, error) {
	chunks := make([][]byte, len(snes.Regions))
	for i, r := range snes.Regions {
		data, err := c.GetAddress(r.Address(), r.Size)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", r.Name, err)
		}
		chunks[i] = data
	}
	return snes.NewSnapshot(chunks[0], chunks[1], chunks[2])
}

// IsRaceROM reads the race flag of the loaded ROM.
func (c *Client) IsRaceROM() (bool, error) {
	data, err := c.GetAddress(RaceROMAddress, 1)
	if err != nil {
		return false, err
	}
	return data[0] == 1, nil
}

func (c *Client) send(req Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s: %w", req.Opcode, err)
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send %s: %w", req.Opcode, err)
	}
	return nil
}

func (c *Client) receiveText() (Response, error) {
	for {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return Response{}, err
		}
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return Response{}, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		var resp Response
		if err := json.Unmarshal(data, &resp); err != nil {
			return Response{}, fmt.Errorf("decode response: %w", err)
		}
		return resp, nil
	}
}
