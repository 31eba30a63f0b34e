package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRelayCredential(t *testing.T) {
	req := require.New(t)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	req.NoError(err)
	encoded := base64.StdEncoding.EncodeToString(key)

	// Given the same key twice
	first, err := relayCredential(encoded)
	req.NoError(err)
	second, err := relayCredential(encoded)
	req.NoError(err)

	// Then the relay identity is stable
	req.Equal(first.ID(), second.ID())

	// And without a key each run gets a fresh one
	fresh, err := relayCredential("")
	req.NoError(err)
	req.NotEqual(first.ID(), fresh.ID())
}

func TestRelayCredential_Rejects_Bad_Keys(t *testing.T) {
	req := require.New(t)

	_, err := relayCredential("not base64!")
	req.Error(err)

	_, err = relayCredential(base64.StdEncoding.EncodeToString([]byte("short")))
	req.Error(err)
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error {
	c.n++
	return nil
}

func TestViews_Close_Stops_Listeners_And_Clients(t *testing.T) {
	req := require.New(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	client := &closeCounter{}

	// Given a listener that is already open and its relay client
	v := &views{clients: []io.Closer{client}, listeners: []net.Listener{ln}}

	// When the views are closed
	v.Close()

	// Then both are released
	req.Equal(1, client.n)
	_, err = ln.Accept()
	req.True(errors.Is(err, net.ErrClosed))
}

func TestServeViews_Without_Relays_Or_Port(t *testing.T) {
	req := require.New(t)
	cfg := defaultConfig()

	closeViews, err := serveViews(t.Context(), cfg, NewHandler(cfg.Name, fakeSession{}, nil))

	req.NoError(err)
	closeViews()
}
