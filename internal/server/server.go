// Package server exposes the simulation over HTTP: roster updates in, map
// info and live scene snapshots out, plus a websocket scene stream.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ddx-510/opencode-pixel-office/internal/config"
	"github.com/ddx-510/opencode-pixel-office/internal/sim"
	"github.com/ddx-510/opencode-pixel-office/internal/wire"
	"github.com/ddx-510/opencode-pixel-office/pkg/logger"
)

// Server owns the engine's single-threaded tick loop. Handlers never touch
// the engine directly: roster posts park the update for the next tick
// boundary, and scene reads serve the latest published snapshot.
type Server struct {
	cfg    *config.Config
	engine *sim.Engine
	router *gin.Engine
	hub    *hub

	mu            sync.Mutex
	pendingRoster []sim.RosterEntry
	hasPending    bool
	latest        wire.SceneSnapshot

	mapInfo wire.MapInfo

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New wires the router around an engine.
func New(cfg *config.Config, engine *sim.Engine) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		cfg:    cfg,
		engine: engine,
		hub:    newHub(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	g := engine.Grid()
	s.mapInfo = wire.MapInfo{
		Rows:     g.Rows(),
		Cols:     g.Cols(),
		TileSize: g.TileSize(),
		Classes:  g.Classes(),
		Marks:    *engine.Landmarks(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length"},
	}))
	router.Use(loggingMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "pixel office scene server")
	})
	v1 := router.Group("/v1")
	{
		v1.GET("/map", s.getMap)
		v1.GET("/scene", s.getScene)
		v1.POST("/roster", s.postRoster)
		v1.GET("/stream", s.hub.handleStream)
	}
	s.router = router
	return s
}

// Router exposes the gin router (tests, embedding).
func (s *Server) Router() *gin.Engine { return s.router }

// Run starts the tick loop and serves HTTP until the listener fails.
func (s *Server) Run() error {
	go s.loop()
	logger.Infof("scene server listening on %s", s.cfg.Addr)
	err := s.router.Run(s.cfg.Addr)
	s.Close()
	return err
}

// Close stops the tick loop. Safe to call more than once, including
// concurrently with Run's own teardown.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

// loop drives the engine: one full simulation step per tick, roster swaps
// applied only at tick boundaries.
func (s *Server) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			s.tickOnce(delta)
		}
	}
}

// tickOnce runs a single simulation step and publishes the snapshot.
func (s *Server) tickOnce(delta time.Duration) {
	s.mu.Lock()
	if s.hasPending {
		s.engine.Upsert(s.pendingRoster)
		s.pendingRoster = nil
		s.hasPending = false
	}
	s.engine.Tick(delta)
	snap := wire.FromSim(s.engine.Snapshot())
	s.latest = snap
	s.mu.Unlock()

	s.hub.broadcast(snap)
}

func (s *Server) getMap(c *gin.Context) {
	c.JSON(http.StatusOK, s.mapInfo)
}

func (s *Server) getScene(c *gin.Context) {
	s.mu.Lock()
	snap := s.latest
	s.mu.Unlock()
	c.JSON(http.StatusOK, snap)
}

// postRoster replaces the live roster at the next tick boundary.
func (s *Server) postRoster(c *gin.Context) {
	var update wire.RosterUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roster payload: " + err.Error()})
		return
	}
	s.mu.Lock()
	s.pendingRoster = update.ToSim()
	s.hasPending = true
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"agents": len(update.Agents)})
}
