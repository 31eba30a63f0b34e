package protocol

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/cbor-chat/chatlog"
)

func text(s string) []byte {
	return append([]byte{0x60 + byte(len(s))}, s...)
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := cbor.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestEncode_RequestSnapshot_Is_Bare_Text(t *testing.T) {
	req := require.New(t)

	b, err := Encode(RequestSnapshot{})

	req.NoError(err)
	req.Equal(text("GetMessages"), b)

	var tag string
	req.NoError(cbor.Unmarshal(b, &tag))
	req.Equal("GetMessages", tag)
}

func TestEncode_SendMessage_Is_Deterministic(t *testing.T) {
	req := require.New(t)

	b, err := Encode(SendMessage{Content: "hi", Author: "alice"})
	req.NoError(err)

	// {"SendMessage": {"content": "hi", "author": "alice"}}, content first
	want := []byte{0xa1}
	want = append(want, text("SendMessage")...)
	want = append(want, 0xa2)
	want = append(want, text("content")...)
	want = append(want, text("hi")...)
	want = append(want, text("author")...)
	want = append(want, text("alice")...)
	req.Equal(want, b)

	again, err := Encode(&SendMessage{Content: "hi", Author: "alice"})
	req.NoError(err)
	req.Equal(b, again)

	var decoded map[string]map[string]string
	req.NoError(cbor.Unmarshal(b, &decoded))
	req.Equal(map[string]map[string]string{
		"SendMessage": {"content": "hi", "author": "alice"},
	}, decoded)
}

func TestEncode_Rejects_Unknown_Commands(t *testing.T) {
	req := require.New(t)

	_, err := Encode(nil)
	req.ErrorIs(err, ErrEncoding)

	var nilSend *SendMessage
	_, err = Encode(nilSend)
	req.ErrorIs(err, ErrEncoding)
}

func TestDecode_Array_Is_Snapshot(t *testing.T) {
	req := require.New(t)
	data := mustMarshal(t, []map[string]string{
		{"content": "a", "author": "x"},
		{"author": "y", "content": "b"},
	})

	p, err := Decode(data)

	req.NoError(err)
	req.Equal(KindSnapshot, p.Kind)
	req.Equal([]chatlog.Message{{Content: "a", Author: "x"}, {Content: "b", Author: "y"}}, p.Messages)
}

func TestDecode_Single_Element_Array_Is_Still_Snapshot(t *testing.T) {
	req := require.New(t)
	data := mustMarshal(t, []map[string]string{{"content": "a", "author": "x"}})

	p, err := Decode(data)

	req.NoError(err)
	req.Equal(KindSnapshot, p.Kind)
	req.Len(p.Messages, 1)
}

func TestDecode_Empty_Array_Is_Empty_Snapshot(t *testing.T) {
	req := require.New(t)

	p, err := Decode([]byte{0x80})

	req.NoError(err)
	req.Equal(KindSnapshot, p.Kind)
	req.Empty(p.Messages)
}

func TestDecode_Map_Is_Update(t *testing.T) {
	req := require.New(t)
	data := mustMarshal(t, map[string]string{"content": "b", "author": "y", "extra": "ignored"})

	p, err := Decode(data)

	req.NoError(err)
	req.Equal(KindUpdate, p.Kind)
	req.Equal([]chatlog.Message{{Content: "b", Author: "y"}}, p.Messages)
}

func TestDecode_Missing_Fields_Are_Empty(t *testing.T) {
	req := require.New(t)
	data := mustMarshal(t, map[string]string{"content": "b"})

	p, err := Decode(data)

	req.NoError(err)
	req.Equal(chatlog.Message{Content: "b"}, p.Messages[0])
}

func TestDecode_Ignores_Trailing_Items(t *testing.T) {
	req := require.New(t)
	data := mustMarshal(t, map[string]string{"content": "b", "author": "y"})
	data = append(data, text("trailing")...)

	p, err := Decode(data)

	req.NoError(err)
	req.Equal(KindUpdate, p.Kind)
}

func TestDecode_Rejects_Malformed_Frames(t *testing.T) {
	cases := map[string][]byte{
		"empty":          {},
		"truncated map":  {0xa2, 0x67},
		"text string":    text("GetMessages"),
		"integer":        {0x01},
		"wrong type":     mustMarshal(t, map[string]int{"content": 1}),
		"array of texts": mustMarshal(t, []string{"a", "b"}),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			require.ErrorIs(t, err, ErrDecoding)
		})
	}
}

func TestKind_String(t *testing.T) {
	req := require.New(t)
	req.Equal("snapshot", KindSnapshot.String())
	req.Equal("update", KindUpdate.String())
	req.Equal("unknown", Kind(0).String())
}
