package qusb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"
)

// fakeServer is a minimal QUsb2Snes server backed by a sparse memory map.
type fakeServer struct {
	t        *testing.T
	devices  []string
	memory   map[uint32]byte
	split    int // GetAddress replies are split into frames of this size
	failNext atomic.Bool
	conns    atomic.Int32

	mu       sync.Mutex
	requests []Request
	srv      *httptest.Server
}

func newFakeServer(t *testing.T, devices ...string) *fakeServer {
	t.Helper()
	f := &fakeServer{t: t, devices: devices, memory: map[uint32]byte{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func (f *fakeServer) set(address uint32, value byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memory[address] = value
}

func (f *fakeServer) opcodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		out = append(out, r.Opcode)
	}
	return out
}

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	f.conns.Add(1)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		switch req.Opcode {
		case OpDeviceList:
			f.reply(conn, Response{Results: f.devices})
		case OpInfo:
			f.reply(conn, Response{Results: []string{"1.9.0-usb-v9", "SD2SNES", "No Info"}})
		case OpGetAddress:
			if f.failNext.CompareAndSwap(true, false) {
				return
			}
			f.memoryReply(conn, req.Operands)
		}
	}
}

func (f *fakeServer) reply(conn *websocket.Conn, resp Response) {
	data, _ := json.Marshal(resp)
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (f *fakeServer) memoryReply(conn *websocket.Conn, operands []string) {
	address, _ := strconv.ParseUint(operands[0], 16, 32)
	size, _ := strconv.ParseUint(operands[1], 16, 32)

	f.mu.Lock()
	out := make([]byte, size)
	for i := range out {
		out[i] = f.memory[uint32(address)+uint32(i)]
	}
	f.mu.Unlock()

	step := f.split
	if step <= 0 {
		step = len(out)
	}
	for len(out) > 0 {
		n := min(step, len(out))
		_ = conn.WriteMessage(websocket.BinaryMessage, out[:n])
		out = out[n:]
	}
}
