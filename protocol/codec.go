// Package protocol encodes client commands and decodes server payloads for the
// CBOR chat wire protocol.
//
// Outbound frames are either the bare text string "GetMessages" or a one-key
// map {"SendMessage": {"content": ..., "author": ...}}. Inbound frames carry no
// discriminant: an array of records is a snapshot, a single record is an
// incremental update.
package protocol

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/samber/lo"

	"github.com/gosuda/cbor-chat/chatlog"
)

var (
	ErrEncoding = errors.New("protocol: encode command")
	ErrDecoding = errors.New("protocol: decode payload")
)

const getMessagesTag = "GetMessages"

// CBOR major types of the first byte of a data item.
const (
	majorArray = 4
	majorMap   = 5
)

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	// Struct fields keep declaration order, so encoded commands are byte-stable.
	em, err := cbor.EncOptions{Sort: cbor.SortNone}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyQuiet}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

// Command is an outbound client command.
type Command interface {
	command()
}

// RequestSnapshot asks the server for its current message list.
type RequestSnapshot struct{}

// SendMessage posts a new chat message.
type SendMessage struct {
	Content string
	Author  string
}

func (RequestSnapshot) command() {}
func (SendMessage) command()     {}

type sendEnvelope struct {
	SendMessage record `cbor:"SendMessage"`
}

type record struct {
	Content string `cbor:"content"`
	Author  string `cbor:"author"`
}

// Encode returns the wire encoding of cmd.
func Encode(cmd Command) ([]byte, error) {
	var v any
	switch c := cmd.(type) {
	case RequestSnapshot, *RequestSnapshot:
		v = getMessagesTag
	case SendMessage:
		v = sendEnvelope{SendMessage: record{Content: c.Content, Author: c.Author}}
	case *SendMessage:
		if c == nil {
			return nil, fmt.Errorf("%w: nil SendMessage", ErrEncoding)
		}
		v = sendEnvelope{SendMessage: record{Content: c.Content, Author: c.Author}}
	default:
		return nil, fmt.Errorf("%w: unsupported command %T", ErrEncoding, cmd)
	}
	b, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return b, nil
}

// Kind tells a snapshot payload from an incremental one.
type Kind int

const (
	KindSnapshot Kind = iota + 1
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindSnapshot:
		return "snapshot"
	case KindUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Payload is a decoded server frame. Update payloads hold exactly one message.
type Payload struct {
	Kind     Kind
	Messages []chatlog.Message
}

// Decode decodes the first CBOR data item in data. Bytes after the first item
// are ignored.
func Decode(data []byte) (Payload, error) {
	var raw cbor.RawMessage
	if _, err := decMode.UnmarshalFirst(data, &raw); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrDecoding, err)
	}
	return decodeRaw(raw)
}

func decodeRaw(raw cbor.RawMessage) (Payload, error) {
	if len(raw) == 0 {
		return Payload{}, fmt.Errorf("%w: empty item", ErrDecoding)
	}
	switch major := raw[0] >> 5; major {
	case majorArray:
		var recs []record
		if err := decMode.Unmarshal(raw, &recs); err != nil {
			return Payload{}, fmt.Errorf("%w: snapshot: %w", ErrDecoding, err)
		}
		return Payload{Kind: KindSnapshot, Messages: lo.Map(recs, toMessage)}, nil
	case majorMap:
		var rec record
		if err := decMode.Unmarshal(raw, &rec); err != nil {
			return Payload{}, fmt.Errorf("%w: update: %w", ErrDecoding, err)
		}
		return Payload{Kind: KindUpdate, Messages: []chatlog.Message{toMessage(rec, 0)}}, nil
	default:
		return Payload{}, fmt.Errorf("%w: unexpected major type %d", ErrDecoding, major)
	}
}

func toMessage(r record, _ int) chatlog.Message {
	return chatlog.Message{Content: r.Content, Author: r.Author}
}
