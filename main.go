// Command roomboard runs the collaborative whiteboard: the sync server, the
// desktop client and a few operator helpers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"RoomBoard/internal/api"
	"RoomBoard/internal/auth"
	"RoomBoard/internal/board"
	"RoomBoard/internal/config"
	"RoomBoard/internal/export"
	boardnet "RoomBoard/internal/net"
	"RoomBoard/internal/state"
	"RoomBoard/internal/store"
	"RoomBoard/internal/tool"
	"RoomBoard/internal/ui"
)

const usage = `usage: roomboard <command> [flags]

commands:
  serve    run the sync server
  client   open the desktop board (also: roomboard roomboard://host:port/room)
  token    mint a session token for local use
  room     create a room
  export   write a room's canvas to a PDF file
`

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch cmd := args[0]; {
	case cmd == "serve":
		err = runServe(args[1:])
	case cmd == "client":
		err = runClient(args[1:])
	case boardnet.IsShareLink(cmd):
		err = runClient(args)
	case cmd == "token":
		err = runToken(args[1:])
	case cmd == "room":
		err = runRoom(args[1:])
	case cmd == "export":
		err = runExport(args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("roomboard failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, error) {
	path := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config.Load(*path)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", "", "listen address (overrides config)")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := config.NewLogger(os.Stderr, cfg.Level(), true)
	slog.SetDefault(logger)

	st, err := store.OpenSQLite(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	hub := boardnet.NewHub(st, logger)
	hub.SetOutbox(cfg.Server.Outbox)
	srv := api.New(hub, st, []byte(cfg.Server.JWTSecret), cfg.Server.AllowedOrigins, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Server.Listen)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	port := listenPort(cfg.Server.Listen)
	logger.Info("share rooms as", "link", boardnet.ShareLink(boardnet.OutgoingIP(), port, "<room>"))
	if cfg.Server.MDNS {
		g.Go(func() error {
			m, err := boardnet.Advertise(port, []string{"roomboard"})
			if err != nil {
				logger.Warn("mDNS advertising disabled", "error", err)
				return nil
			}
			logger.Info("advertising on the local network", "service", boardnet.ServiceType)
			<-gctx.Done()
			return m.Shutdown()
		})
	}
	return g.Wait()
}

func listenPort(addr string) int {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 8080
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return 8080
	}
	return port
}

func runClient(args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	server := fs.String("server", "", "server address, e.g. http://localhost:8080")
	room := fs.String("room", "", "room id")
	token := fs.String("token", "", "session token")
	discover := fs.Bool("discover", false, "find a server on the local network")
	initial := fs.String("tool", string(tool.KindPencil), "tool selected at start")
	var link string
	if len(args) > 0 && boardnet.IsShareLink(args[0]) {
		link, args = args[0], args[1:]
	}
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if link == "" && fs.NArg() > 0 && boardnet.IsShareLink(fs.Arg(0)) {
		link = fs.Arg(0)
	}
	if link != "" {
		srv, r, err := boardnet.ParseShareLink(link)
		if err != nil {
			return err
		}
		cfg.Client.Server, cfg.Client.Room = srv, r
	}
	if *server != "" {
		cfg.Client.Server = *server
	}
	if *room != "" {
		cfg.Client.Room = *room
	}
	if *token != "" {
		cfg.Client.Token = *token
	}
	logger := config.NewLogger(os.Stderr, cfg.Level(), false)
	slog.SetDefault(logger)

	if *discover {
		found, err := boardnet.Discover(cfg.Client.Discover)
		if err != nil {
			return err
		}
		logger.Info("discovered server", "server", found)
		cfg.Client.Server = found
	}
	if err := cfg.ValidateClient(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	conn, err := boardnet.Dial(ctx, cfg.Client.Server, cfg.Client.Token, logger)
	if err != nil {
		return err
	}

	ui.RunApp(ui.AppOptions{
		Title:      "RoomBoard - " + cfg.Client.Room,
		ShareLink:  shareLinkFor(cfg.Client.Server, cfg.Client.Room),
		Tool:       tool.Kind(*initial),
		Logger:     logger,
		WheelScale: cfg.Client.WheelScale,
	}, func(b *ui.BoardWidget) *board.Session {
		s := board.New(b, conn, board.Options{Room: cfg.Client.Room, Logger: logger, Measurer: ui.TextMeasurer{}})
		go func() {
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("session stopped", "error", err)
			}
		}()
		s.Post(func() {
			if err := s.SelectTool(tool.Kind(*initial)); err != nil {
				logger.Warn("unknown tool, using pencil", "tool", *initial)
				_ = s.SelectTool(tool.KindPencil)
			}
			if err := s.Sync(ctx, conn, nil, cfg.Client.Server); err != nil {
				logger.Error("join room", "error", err)
				b.SetStatus("Could not join room")
			}
		})
		return s
	})
	cancel()
	return nil
}

func shareLinkFor(server, room string) string {
	u, err := url.Parse(server)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p, err := strconv.Atoi(u.Port()); err == nil {
		port = p
	}
	host := u.Hostname()
	if host == "localhost" || host == "127.0.0.1" {
		host = boardnet.OutgoingIP()
	}
	return boardnet.ShareLink(host, port, room)
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	user := fs.String("user", "", "user id (random when empty)")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *user == "" {
		*user = uuid.NewString()
	}
	tok, err := auth.Issue([]byte(cfg.Server.JWTSecret), *user, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func runRoom(args []string) error {
	fs := flag.NewFlagSet("room", flag.ContinueOnError)
	slug := fs.String("slug", "", "human-readable room name")
	admin := fs.String("admin", "cli", "admin user id")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *slug == "" {
		return errors.New("room: -slug is required")
	}
	st, err := store.OpenSQLite(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	r := store.Room{ID: uuid.NewString(), Slug: *slug, AdminID: *admin}
	if err := st.CreateRoom(context.Background(), r); err != nil {
		return err
	}
	fmt.Println(r.ID)
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	room := fs.String("room", "", "room id")
	out := fs.String("out", "board.pdf", "output file")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *room == "" {
		return errors.New("export: -room is required")
	}
	st, err := store.OpenSQLite(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	raw, err := st.Read(context.Background(), *room)
	if err != nil {
		return err
	}
	shapes, err := state.DecodeShapes(raw)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := export.File(*out, shapes, export.Options{Title: "Room " + *room}); err != nil {
		return err
	}
	fmt.Printf("wrote %d shapes to %s\n", len(shapes), *out)
	return nil
}
