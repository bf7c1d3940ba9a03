// Command bot is a scripted survival client: it connects to the episode
// server, chops the nearest tree, drinks when thirsty, and otherwise
// wanders. Useful as a smoke test and as a minimal client example.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"craftgrid.ai/internal/protocol"
	"craftgrid.ai/internal/sim/session"
)

// Material palette indices the policy cares about; must match the server's
// material catalog order.
const (
	matWater = 0
	matTree  = 5
)

func main() {
	var (
		url      = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name     = flag.String("name", "bot", "client name")
		seed     = flag.Uint64("seed", 0, "episode seed (0 = server picks)")
		episodes = flag.Int("episodes", 1, "episodes to play before exiting")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.Hello{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
		Seed:            *seed,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	rnd := rand.New(rand.NewSource(int64(*seed) + 1))
	remaining := *episodes

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.Welcome
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME episode=%s seed=%d actions=%d", w.EpisodeID, w.Seed, len(w.Actions))

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			act(conn, rnd, st.State)

		case protocol.TypeStep:
			var step protocol.Step
			if err := json.Unmarshal(msg, &step); err != nil {
				continue
			}
			for _, name := range step.Outcome.Unlocked {
				logger.Printf("unlocked %s at tick %d", name, step.Outcome.Tick)
			}
			if step.Outcome.Done {
				logger.Printf("episode done tick=%d reason=%s", step.Outcome.Tick, step.Outcome.DoneReason)
				remaining--
				if remaining <= 0 {
					return
				}
				_ = conn.WriteJSON(protocol.Reset{Type: protocol.TypeReset})
				continue
			}
			act(conn, rnd, step.State)

		case protocol.TypeError:
			var e protocol.Error
			_ = json.Unmarshal(msg, &e)
			logger.Printf("server error %s: %s", e.Code, e.Message)
			if e.Fatal {
				return
			}
		}
	}
}

// act picks the next action from the current state and sends it.
func act(conn *websocket.Conn, rnd *rand.Rand, st session.State) {
	_ = conn.WriteJSON(protocol.Act{Type: protocol.TypeAct, Action: choose(rnd, st)})
}

// choose is a handful of greedy rules: harvest what we face, seek water
// when thirsty, seek wood otherwise, sleep through low energy.
func choose(rnd *rand.Rand, st session.State) string {
	if st.Player.Sleeping {
		return "noop"
	}
	if st.Inventory.Energy <= 2 {
		return "sleep"
	}

	want := matTree
	if st.Inventory.Drink <= 3 {
		want = matWater
	}

	// Facing the wanted tile already: harvest it.
	faced := tileAt(st, st.Player.Pos.X+st.Player.Facing.X, st.Player.Pos.Y+st.Player.Facing.Y)
	if faced == want {
		return "do"
	}

	// Adjacent to it: turn toward it.
	dirs := []struct {
		dx, dy int
		action string
	}{
		{0, -1, "move_up"}, {0, 1, "move_down"}, {-1, 0, "move_left"}, {1, 0, "move_right"},
	}
	for _, d := range dirs {
		if tileAt(st, st.Player.Pos.X+d.dx, st.Player.Pos.Y+d.dy) == want {
			return d.action
		}
	}

	// Otherwise wander on walkable-looking ground.
	d := dirs[rnd.Intn(len(dirs))]
	return d.action
}

// tileAt reads a world tile from the view window; outside the window it
// returns water, which the policy treats as blocked.
func tileAt(st session.State, x, y int) int {
	vx, vy := x-st.View.Origin.X, y-st.View.Origin.Y
	if vx < 0 || vx >= st.View.Width || vy < 0 || vy >= st.View.Height {
		return matWater
	}
	return st.View.Tiles[vy*st.View.Width+vx]
}
