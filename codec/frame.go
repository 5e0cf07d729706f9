package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// MaxFrameSize bounds the payload length Receive accepts.
const MaxFrameSize = 1 << 30

var errFrameTooLarge = errors.New("frame exceeds maximum size")

// Send wraps msg into a google.protobuf.Any and writes it as one frame.
// format is:
//
//	| length (8 bytes) | payload (length bytes) |
func Send(w io.Writer, msg proto.Message) error {
	payload, err := anypb.New(msg)
	if err != nil {
		return fmt.Errorf("wrap message: %w", err)
	}
	bytes, err := proto.MarshalOptions{Deterministic: true}.Marshal(payload)
	if err != nil {
		return err
	}
	length := uint64(len(bytes))
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return err
	}
	if _, err := w.Write(bytes); err != nil {
		return err
	}
	return nil
}

// Receive reads one frame written by Send and returns the unwrapped message.
// The concrete message type must be linked into the binary.
func Receive(r io.Reader) (proto.Message, error) {
	var length uint64
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", errFrameTooLarge, length)
	}
	bytes := make([]byte, length)
	if _, err := io.ReadFull(r, bytes); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	payload := &anypb.Any{}
	if err := proto.Unmarshal(bytes, payload); err != nil {
		return nil, err
	}
	return payload.UnmarshalNew()
}
