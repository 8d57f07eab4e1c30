package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/ddx-510/opencode-pixel-office/internal/config"
	"github.com/ddx-510/opencode-pixel-office/internal/grid"
	"github.com/ddx-510/opencode-pixel-office/internal/sim"
	"github.com/ddx-510/opencode-pixel-office/internal/sim/simtest"
	"github.com/ddx-510/opencode-pixel-office/internal/wire"
)

// newTestServer builds a server over a small in-memory office: open floor
// with one desk, one door and one exit.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	classes := make([][]grid.Class, 5)
	for r := range classes {
		classes[r] = make([]grid.Class, 5)
		for c := range classes[r] {
			classes[r][c] = grid.Floor
		}
	}
	classes[2][2] = grid.WorkStation
	classes[0][4] = grid.Door
	classes[4][4] = grid.Exit

	g := grid.FromClasses(classes, 32)
	engine := sim.New(g, grid.ExtractLandmarks(g),
		sim.WithClock(simtest.NewFakeClock(time.Unix(1000, 0))),
		sim.WithRand(sim.NewRand(1)))

	cfg := &config.Config{
		Addr:           ":0",
		TileSize:       32,
		TickInterval:   33 * time.Millisecond,
		AllowedOrigins: []string{"*"},
	}
	return New(cfg, engine)
}

func TestServerMapEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/map", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var info wire.MapInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Equal(t, 5, info.Rows)
	require.Equal(t, 5, info.Cols)
	require.Equal(t, 32, info.TileSize)
	require.Len(t, info.Classes, 5)
	require.Contains(t, info.Marks.WorkTiles, grid.Tile{Row: 2, Col: 2})
	require.Contains(t, info.Marks.DoorTiles, grid.Tile{Row: 0, Col: 4})
	require.Contains(t, info.Marks.ExitTiles, grid.Tile{Row: 4, Col: 4})
}

func TestServerRosterFlowsIntoScene(t *testing.T) {
	s := newTestServer(t)

	body := `{"agents":[{"id":"a1","status":"working","shouldOccupyDesk":true}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/roster", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"agents":1}`, w.Body.String())

	// The roster is parked until the next tick boundary; the published
	// scene is still empty.
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/scene", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var before wire.SceneSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &before))
	require.Empty(t, before.Sprites)

	s.tickOnce(33 * time.Millisecond)

	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/scene", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var after wire.SceneSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	require.Equal(t, uint64(1), after.Tick)
	require.Len(t, after.Sprites, 1)
	require.Equal(t, "a1", after.Sprites[0].ID)
	require.Equal(t, "working", after.Sprites[0].Status)
	require.Len(t, after.Doors, 1)
}

func TestServerRejectsMalformedRoster(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/roster", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServerCloseIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	go s.loop()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Close()
		}()
	}
	wg.Wait()

	// A late Close after the loop has stopped is a no-op, not a panic.
	s.Close()
}

func TestServerStreamBroadcastsScene(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Give the handler a moment to register the client before broadcasting.
	time.Sleep(100 * time.Millisecond)

	body := `{"agents":[{"id":"a1","status":"idle"}]}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/roster", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	postResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	postResp.Body.Close()

	s.tickOnce(33 * time.Millisecond)

	var msg struct {
		Type    string             `json:"type"`
		Payload wire.SceneSnapshot `json:"payload"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, wire.MessageTypeScene, msg.Type)
	require.Len(t, msg.Payload.Sprites, 1)
	require.Equal(t, "a1", msg.Payload.Sprites[0].ID)
}
