package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/me/gomote/internal/sched"
	"github.com/me/gomote/pkg/model"
)

type healthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	PoolDepth int    `json:"pool_depth"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		PoolDepth: s.sched.Config().PoolDepth,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	st := s.sched.Stats()
	executed := make(map[string]uint64, sched.NumBands)
	for b := sched.BandID(0); b < sched.NumBands; b++ {
		executed[b.String()] = st.Executed[b]
	}

	respondOK(w, reqID, model.StatsSnapshot{
		NumTasksCur: st.NumTasksCur,
		NumTasksMax: st.NumTasksMax,
		Executed:    executed,
	})
}

func (s *Server) handleBands(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	cfg := s.sched.Config()
	bands := make([]model.BandInfo, 0, sched.NumBands)
	for b := sched.BandID(0); b < sched.NumBands; b++ {
		lo, hi := cfg.BandRange(b)
		bands = append(bands, model.BandInfo{
			Name: b.String(),
			Lo:   uint8(lo),
			Hi:   uint8(hi),
		})
	}
	respondOK(w, reqID, bands)
}
