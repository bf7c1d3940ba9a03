// Command server exposes episodes over websocket: one connection drives one
// session at a time. The client opens with HELLO, acts with ACT, and may
// RESET for a fresh episode on the same connection. Finished episodes are
// traced to disk, snapshotted, and recorded in the sqlite index.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"craftgrid.ai/internal/persistence/indexdb"
	"craftgrid.ai/internal/persistence/snapshot"
	"craftgrid.ai/internal/persistence/trace"
	"craftgrid.ai/internal/protocol"
	"craftgrid.ai/internal/sim/catalogs"
	"craftgrid.ai/internal/sim/session"
	"craftgrid.ai/internal/sim/tuning"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		profile    = flag.String("profile", "", "default tuning profile")
		worldSize  = flag.Int("world_size", session.DefaultWorldSize, "world side length")
		disableDB  = flag.Bool("disable_db", false, "disable the episode index database")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning file %s not found, using defaults", tp)
		tune = tuning.Defaults()
	}
	tune, err = tune.WithProfile(*profile)
	if err != nil {
		logger.Fatalf("tuning profile: %v", err)
	}

	var idx *indexdb.Index
	if !*disableDB {
		idx, err = indexdb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		_ = idx.SetMeta(context.Background(), "material_digest", cats.Materials.Digest)
		_ = idx.SetMeta(context.Background(), "recipe_digest", cats.Recipes.Digest)
	}

	srv := &server{
		logger:    logger,
		cats:      cats,
		tuning:    tune,
		dataDir:   *dataDir,
		worldSize: *worldSize,
		idx:       idx,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	logger.Printf("shut down")
}

type server struct {
	logger    *log.Logger
	cats      *catalogs.Catalogs
	tuning    tuning.Tuning
	dataDir   string
	worldSize int
	idx       *indexdb.Index
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 256 * 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// episode bundles one running session with its trace recording.
type episode struct {
	sess        *session.Session
	tw          *trace.Writer
	tracePath   string
	totalReward float64
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	ep, tune, err := s.handshake(conn)
	if err != nil {
		s.logger.Printf("handshake: %v", err)
		return
	}
	defer s.closeEpisode(ep, false)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			_ = conn.WriteJSON(protocol.NewError(protocol.ErrProtoBadRequest, "bad json"))
			continue
		}

		switch base.Type {
		case protocol.TypeAct:
			s.handleAct(conn, ep, msg)

		case protocol.TypeReset:
			var req protocol.Reset
			if err := json.Unmarshal(msg, &req); err != nil {
				_ = conn.WriteJSON(protocol.NewError(protocol.ErrProtoBadRequest, "bad RESET"))
				continue
			}
			s.closeEpisode(ep, true)
			seed := req.Seed
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			next, err := s.openEpisode(seed, tune)
			if err != nil {
				_ = conn.WriteJSON(protocol.NewError(protocol.ErrEpisodeFailed, err.Error()))
				return
			}
			*ep = *next
			_ = conn.WriteJSON(protocol.StateMsg{Type: protocol.TypeState, State: ep.sess.State()})

		default:
			_ = conn.WriteJSON(protocol.NewError(protocol.ErrProtoBadRequest,
				fmt.Sprintf("unexpected message type %q", base.Type)))
		}
	}
}

// handshake reads HELLO and answers with WELCOME plus the initial state.
// The returned tuning is the server default with the client's profile
// applied; RESET reuses it for the connection's later episodes.
func (s *server) handshake(conn *websocket.Conn) (*episode, tuning.Tuning, error) {
	tune := s.tuning

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, tune, err
	}
	var hello protocol.Hello
	if err := json.Unmarshal(msg, &hello); err != nil || hello.Type != protocol.TypeHello {
		_ = conn.WriteJSON(protocol.Error{Type: protocol.TypeError, Code: protocol.ErrProtoBadRequest, Message: "expected HELLO", Fatal: true})
		return nil, tune, fmt.Errorf("expected HELLO")
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteJSON(protocol.Error{Type: protocol.TypeError, Code: protocol.ErrProtoVersion,
			Message: fmt.Sprintf("server speaks %s", protocol.Version), Fatal: true})
		return nil, tune, fmt.Errorf("protocol version %q", hello.ProtocolVersion)
	}

	if hello.Profile != "" {
		tune, err = tune.WithProfile(hello.Profile)
		if err != nil {
			_ = conn.WriteJSON(protocol.Error{Type: protocol.TypeError, Code: protocol.ErrUnknownProfile, Message: err.Error(), Fatal: true})
			return nil, tune, err
		}
	}

	seed := hello.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	ep, err := s.openEpisode(seed, tune)
	if err != nil {
		_ = conn.WriteJSON(protocol.Error{Type: protocol.TypeError, Code: protocol.ErrEpisodeFailed, Message: err.Error(), Fatal: true})
		return nil, tune, err
	}

	welcome := protocol.Welcome{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		EpisodeID:       ep.sess.EpisodeID,
		Seed:            ep.sess.Seed(),
		Actions:         session.ActionNames(),
		MaterialDigest:  s.cats.Materials.Digest,
		RecipeDigest:    s.cats.Recipes.Digest,
	}
	if err := conn.WriteJSON(welcome); err != nil {
		s.closeEpisode(ep, false)
		return nil, tune, err
	}
	if err := conn.WriteJSON(protocol.StateMsg{Type: protocol.TypeState, State: ep.sess.State()}); err != nil {
		s.closeEpisode(ep, false)
		return nil, tune, err
	}
	s.logger.Printf("episode %s started seed=%d client=%s", ep.sess.EpisodeID, ep.sess.Seed(), hello.ClientName)
	return ep, tune, nil
}

func (s *server) handleAct(conn *websocket.Conn, ep *episode, msg []byte) {
	var act protocol.Act
	if err := json.Unmarshal(msg, &act); err != nil {
		_ = conn.WriteJSON(protocol.NewError(protocol.ErrProtoBadRequest, "bad ACT"))
		return
	}
	action, ok := session.ParseAction(act.Action)
	if !ok {
		_ = conn.WriteJSON(protocol.NewError(protocol.ErrInvalidAction, fmt.Sprintf("unknown action %q", act.Action)))
		return
	}
	out, err := ep.sess.Step(action)
	if err != nil {
		code := protocol.ErrInternal
		switch err {
		case session.ErrTerminated:
			code = protocol.ErrEpisodeDone
		case session.ErrInvalidAction:
			code = protocol.ErrInvalidAction
		}
		_ = conn.WriteJSON(protocol.NewError(code, err.Error()))
		return
	}

	ep.totalReward += out.Reward
	if ep.tw != nil {
		_ = ep.tw.WriteStep(trace.StepRecord{
			Tick:   out.Tick,
			Action: action.String(),
			Reward: out.Reward,
			Done:   out.Done,
			Digest: ep.sess.Digest(),
		})
	}
	_ = conn.WriteJSON(protocol.Step{Type: protocol.TypeStep, Outcome: out, State: ep.sess.State()})
}

func (s *server) openEpisode(seed uint64, tune tuning.Tuning) (*episode, error) {
	sess, err := session.New(session.Config{
		Seed:   seed,
		Width:  s.worldSize,
		Height: s.worldSize,
		Tuning: tune,
	}, s.cats)
	if err != nil {
		return nil, err
	}
	ep := &episode{sess: sess}

	ep.tracePath = filepath.Join(s.dataDir, "traces", sess.EpisodeID+".jsonl.zst")
	tw, err := trace.NewWriter(ep.tracePath, trace.NewHeader(sess))
	if err != nil {
		s.logger.Printf("trace writer: %v (continuing untraced)", err)
	} else {
		ep.tw = tw
	}

	if s.idx != nil {
		_ = s.idx.StartEpisode(context.Background(), sess.EpisodeID, sess.Seed(), ep.tracePath)
	}
	return ep, nil
}

// closeEpisode flushes the trace, snapshots terminal state, and records the
// episode in the index. Safe to call twice; the second call is a no-op.
func (s *server) closeEpisode(ep *episode, snapshotState bool) {
	if ep == nil || ep.sess == nil {
		return
	}
	if ep.tw != nil {
		_ = ep.tw.Close()
		ep.tw = nil
	}

	snapPath := ""
	if snapshotState || ep.sess.IsDone() {
		snapPath = filepath.Join(s.dataDir, "snapshots", ep.sess.EpisodeID+".snap.zst")
		if err := snapshot.Write(snapPath, ep.sess); err != nil {
			s.logger.Printf("write snapshot: %v", err)
			snapPath = ""
		}
	}
	if s.idx != nil {
		_ = s.idx.FinishEpisode(context.Background(), ep.sess.EpisodeID,
			ep.sess.Tick(), ep.totalReward, ep.sess.DoneReason(),
			ep.sess.Achievements().UnlockedNames(), snapPath)
	}
	s.logger.Printf("episode %s closed tick=%d reward=%.0f reason=%s",
		ep.sess.EpisodeID, ep.sess.Tick(), ep.totalReward, ep.sess.DoneReason())
	ep.sess = nil
}
