package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// MaxFrameSize bounds the length prefix a reader will accept. Anything
// larger is treated as a corrupted stream.
const MaxFrameSize = 1 << 20

var (
	// ErrBadFrame marks a frame that was read off the stream but could
	// not be decoded. The stream itself is still usable; callers decide
	// whether to answer with an error or drop the frame.
	ErrBadFrame = errors.New("malformed frame")

	// ErrFrameTooLarge marks a length prefix above MaxFrameSize.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
)

// Codec reads and writes length-prefixed envelopes on a byte stream.
// Each frame is a 4-byte big-endian length followed by a JSON body, so a
// reader can find every message boundary without out-of-band information.
//
// Writes are serialized by an internal mutex: the broadcast path pushes
// notification frames into a connection owned by another goroutine, and
// those bytes must never interleave with response bytes.
type Codec struct {
	rw io.ReadWriter

	wmu sync.Mutex
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{rw: rw}
}

func (c *Codec) writeFrame(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	if len(body) > MaxFrameSize {
		return ErrFrameTooLarge
	}

	buf := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(body)))
	copy(buf[4:], body)

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if _, err := c.rw.Write(buf); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// readFrame reads one length-delimited body off the stream. A transport
// failure (EOF, closed socket) is returned as-is; a zero or oversized
// length prefix is returned as ErrBadFrame/ErrFrameTooLarge with the
// stream position already past the prefix.
func (c *Codec) readFrame() ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(c.rw, prefix[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(prefix[:])
	if length == 0 {
		return nil, fmt.Errorf("%w: zero-length frame", ErrBadFrame)
	}
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(c.rw, body); err != nil {
		// A partial body is a broken stream, not a bad frame.
		return nil, err
	}
	return body, nil
}

// WriteRequest frames and writes one request envelope.
func (c *Codec) WriteRequest(req *Request) error {
	return c.writeFrame(req)
}

// WriteResponse frames and writes one response envelope.
func (c *Codec) WriteResponse(resp *Response) error {
	return c.writeFrame(resp)
}

// ReadRequest reads and decodes one request envelope. Decode failures are
// reported as ErrBadFrame so the caller can keep the connection alive.
func (c *Codec) ReadRequest() (*Request, error) {
	body, err := c.readFrame()
	if err != nil {
		return nil, err
	}

	req := &Request{}
	if err := json.Unmarshal(body, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if req.Kind == "" {
		return nil, fmt.Errorf("%w: missing request kind", ErrBadFrame)
	}
	return req, nil
}

// ReadResponse reads and decodes one response envelope.
func (c *Codec) ReadResponse() (*Response, error) {
	body, err := c.readFrame()
	if err != nil {
		return nil, err
	}

	resp := &Response{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if resp.Kind == "" {
		return nil, fmt.Errorf("%w: missing response kind", ErrBadFrame)
	}
	return resp, nil
}
