package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gosuda.org/portal/portal/core/cryptoops"
	"gosuda.org/portal/sdk"

	"github.com/gosuda/cbor-chat/render"
	"github.com/gosuda/cbor-chat/session"
)

var rootCmd = &cobra.Command{
	Use:   "cbor-chat",
	Short: "Terminal client for the CBOR websocket chat",
	RunE:  runChat,
}

var (
	flagCfg Config
	envErr  error
)

func init() {
	env, err := loadEnv()
	envErr = err

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagCfg.Host, "host", env.Host, "chat server host (env CHAT_HOST)")
	flags.IntVar(&flagCfg.ChatPort, "chat-port", env.ChatPort, "chat server port (env CHAT_PORT)")
	flags.StringVar(&flagCfg.Path, "path", env.Path, "chat websocket path (env CHAT_PATH)")
	flags.StringVar(&flagCfg.Author, "author", env.Author, "author name attached to sent messages (env CHAT_AUTHOR, else $USER)")
	flags.IntVar(&flagCfg.HTTPPort, "port", env.HTTPPort, "optional local HTTP port for the table mirror (negative to disable, env CHAT_HTTP_PORT)")
	flags.StringSliceVar(&flagCfg.Relays, "server-url", env.Relays, "relay websocket URL(s) to publish the table mirror; repeat or comma-separated (env RELAY)")
	flags.StringVar(&flagCfg.CredKey, "cred-key", env.CredKey, "optional credential key to use for the relay listeners (base64 encoded, env CRED_KEY)")
	flags.StringVar(&flagCfg.Name, "name", env.Name, "backend display name on the relay")
	flags.StringVar(&flagCfg.LogLevel, "log-level", env.LogLevel, "log level: trace, debug, info, warn, error, disabled")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute chat command")
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	// The table owns stdout.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := flagCfg
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		return err
	}
	if envErr != nil {
		log.Warn().Err(envErr).Msg("[chat] environment ignored; using built-in defaults")
	}

	// Cancellation context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	page := render.NewHTML()
	table := render.NewTable(os.Stdout)
	table.ClearScreen = true
	sess := session.New(render.Multi(table, page))

	handler := NewHandler(cfg.Name, sess, page)
	closeViews, err := serveViews(ctx, cfg, handler)
	if err != nil {
		return err
	}
	defer closeViews()

	endpoint := session.Endpoint(cfg.Host, cfg.ChatPort, cfg.Path)
	log.Info().Str("endpoint", endpoint).Str("author", cfg.Author).Msg("[chat] connecting")
	printStatus(os.Stderr, sess.State())
	if err := sess.Dial(ctx, endpoint); err != nil {
		printStatus(os.Stderr, sess.State())
		return err
	}
	printStatus(os.Stderr, sess.State())

	go func() {
		if err := readInput(os.Stdin, sess, cfg.Author); err != nil {
			log.Warn().Err(err).Msg("[chat] stdin closed")
		}
	}()

	// No reconnect: once the read loop ends the session stays Closed.
	err = sess.Run(ctx)
	printStatus(os.Stderr, sess.State())
	if err != nil {
		return fmt.Errorf("chat connection: %w", err)
	}
	log.Info().Msg("[chat] shutdown complete")
	return nil
}

// relayCredential returns the listener identity: derived from key when set, so
// the mirror keeps its relay address across runs, otherwise a fresh one.
func relayCredential(key string) (*cryptoops.Credential, error) {
	if key == "" {
		return sdk.NewCredential(), nil
	}
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("decode cred key: %w", err)
	}
	cred, err := cryptoops.NewCredentialFromPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("new credential from private key: %w", err)
	}
	return cred, nil
}

// views holds everything serving the table mirror.
type views struct {
	clients   []io.Closer
	listeners []net.Listener
	httpSrv   *http.Server
}

// Close stops the listeners, then the relay clients and the local server.
func (v *views) Close() {
	for _, ln := range v.listeners {
		_ = ln.Close()
	}
	for _, c := range v.clients {
		_ = c.Close()
	}
	if v.httpSrv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := v.httpSrv.Shutdown(sctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("[chat] http server shutdown error")
		}
	}
}

// serveViews publishes the table mirror over the configured relays and the
// optional local port. The returned func stops all of them.
func serveViews(ctx context.Context, cfg Config, handler http.Handler) (func(), error) {
	v := &views{}
	if len(cfg.Relays) > 0 {
		// Shared credential across all relay listeners
		cred, err := relayCredential(cfg.CredKey)
		if err != nil {
			return nil, err
		}
		for _, u := range cfg.Relays {
			client, err := sdk.NewClient(func(c *sdk.RDClientConfig) { c.BootstrapServers = []string{u} })
			if err != nil {
				log.Error().Err(err).Str("url", u).Msg("new client failed")
				continue
			}
			v.clients = append(v.clients, client)
			ln, err := client.Listen(cred, cfg.Name, []string{"http/1.1"})
			if err != nil {
				v.Close()
				return nil, fmt.Errorf("listen (%s): %w", u, err)
			}
			v.listeners = append(v.listeners, ln)
		}
	}

	// Serve over each relay listener
	for i, ln := range v.listeners {
		idx := i
		go func() {
			if err := http.Serve(ln, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
				log.Error().Err(err).Int("listener", idx).Msg("[chat] relay http error")
			}
		}()
	}

	// Optional local server on --port
	if cfg.HTTPPort >= 0 {
		v.httpSrv = &http.Server{Addr: fmt.Sprintf(":%d", cfg.HTTPPort), Handler: handler, ReadHeaderTimeout: 5 * time.Second, IdleTimeout: 60 * time.Second}
		log.Info().Msgf("[chat] table mirror at http://127.0.0.1:%d", cfg.HTTPPort)
		srv := v.httpSrv
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn().Err(err).Msg("[chat] local http stopped")
			}
		}()
	}

	return v.Close, nil
}

func printStatus(w io.Writer, st session.State) {
	c := color.FgYellow
	switch st {
	case session.StateOpen:
		c = color.FgGreen
	case session.StateClosed:
		c = color.FgRed
	}
	_, _ = fmt.Fprintln(w, c.Sprintf("● %s", st))
}
