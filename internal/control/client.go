package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cowby123/mirror-go/internal/logx"
	"github.com/cowby123/mirror-go/internal/metrics"
	"github.com/cowby123/mirror-go/internal/workerutil"
)

const (
	defaultRPCTimeout   = 500 * time.Millisecond
	clipboardRPCTimeout = 1 * time.Second
)

// Client owns two TCP connections to the same control port: an input
// connection that never waits for a reply (writes are fire-and-forget,
// decoupling keystroke latency from peer round-trip time), and an RPC
// connection used strictly for request/response commands. A background
// drain goroutine reads and discards everything the peer sends on the
// input connection — without it, once the peer's own write buffer fills
// up waiting for the host to read, the peer can block on write-back while
// the host blocks on write-forward, deadlocking both sides.
type Client struct {
	input net.Conn
	rpc   net.Conn

	writeMu sync.Mutex

	drainHandle workerutil.Handle
}

// Dial opens both control connections to host:port.
func Dial(host string, port int) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	input, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial input stream: %w", err)
	}
	rpc, err := net.Dial("tcp", addr)
	if err != nil {
		input.Close()
		return nil, fmt.Errorf("dial rpc stream: %w", err)
	}

	c := &Client{input: input, rpc: rpc}
	c.drainHandle.Start()
	workerutil.Go("control-drain", c.drainLoop)
	return c, nil
}

// drainLoop reads and discards everything on the input connection so the
// peer's send window never fills up behind our fire-and-forget writes.
func (c *Client) drainLoop() {
	defer c.drainHandle.Done()
	buf := make([]byte, 4096)
	for c.drainHandle.Running() {
		_ = c.input.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		_, err := c.input.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}
	}
}

// SendInput writes cmd as a single JSON line on the input connection and
// returns immediately without waiting for any reply.
func (c *Client) SendInput(cmd Command) error {
	line, err := encodeLine(cmd)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	_, err = c.input.Write(line)
	c.writeMu.Unlock()
	if err != nil {
		metrics.ControlWritesErr.Add(1)
		return fmt.Errorf("write input command: %w", err)
	}
	metrics.ControlWritesOK.Add(1)
	return nil
}

// RPC writes cmd on the RPC connection and reads one response line,
// raising the read timeout to clipboardRPCTimeout when the command is a
// clipboard read (the device side may take longer to assemble the
// clipboard contents).
func (c *Client) RPC(cmd Command) (map[string]interface{}, error) {
	timeout := defaultRPCTimeout
	if cmd.Cmd() == "get_clipboard" {
		timeout = clipboardRPCTimeout
	}

	line, err := encodeLine(cmd)
	if err != nil {
		return nil, err
	}

	metrics.ControlRPCCalls.Add(1)
	if _, err := c.rpc.Write(line); err != nil {
		metrics.ControlRPCErrs.Add(1)
		return nil, fmt.Errorf("write rpc command: %w", err)
	}

	_ = c.rpc.SetReadDeadline(time.Now().Add(timeout))
	reader := bufio.NewReader(c.rpc)
	respLine, err := reader.ReadString('\n')
	if err != nil && respLine == "" {
		metrics.ControlRPCErrs.Add(1)
		return nil, fmt.Errorf("read rpc response: %w", err)
	}

	if cmd.Cmd() == "get_clipboard" {
		text, ok := extractClipboardText(respLine)
		if ok {
			return map[string]interface{}{"text": text}, nil
		}
	}

	var resp map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(respLine)), &resp); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	return resp, nil
}

// Close stops the drain loop and closes both connections.
func (c *Client) Close() {
	c.drainHandle.Stop()
	_ = c.input.Close()
	if c.rpc != nil {
		_ = c.rpc.Close()
	}
}

func encodeLine(cmd Command) ([]byte, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode command %s: %w", cmd.Cmd(), err)
	}
	body = append(body, '\n')
	return body, nil
}

// extractClipboardText hand-scans a clipboard response line for the
// "text": "..." field instead of doing a strict json.Unmarshal, since the
// device's response is not guaranteed to be fully escaped JSON — it only
// promises backslash escapes for \", \\, and \n.
func extractClipboardText(line string) (string, bool) {
	idx := strings.Index(line, `"text"`)
	if idx < 0 {
		return "", false
	}
	rest := line[idx+len(`"text"`):]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return "", false
	}
	rest = strings.TrimSpace(rest[colon+1:])
	if len(rest) == 0 || rest[0] != '"' {
		return "", false
	}
	rest = rest[1:]

	var raw strings.Builder
	for i := 0; i < len(rest); i++ {
		if rest[i] == '\\' && i+1 < len(rest) {
			raw.WriteByte(rest[i])
			raw.WriteByte(rest[i+1])
			i++
			continue
		}
		if rest[i] == '"' {
			return ClipboardText(raw.String()), true
		}
		raw.WriteByte(rest[i])
	}
	logx.Debugf("CTRL", "clipboard response ended without closing quote")
	return ClipboardText(raw.String()), true
}
