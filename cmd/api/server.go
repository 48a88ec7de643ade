package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pefman/stfc-combat/internal/api"
	"github.com/pefman/stfc-combat/internal/battlelog"
	"github.com/pefman/stfc-combat/internal/combatlog"
	"github.com/pefman/stfc-combat/internal/config"
	"github.com/pefman/stfc-combat/internal/game"
	"github.com/pefman/stfc-combat/internal/gamedata"
	"github.com/pefman/stfc-combat/internal/models"
	"github.com/pefman/stfc-combat/internal/store"
)

type server struct {
	log   *zap.Logger
	store store.Store
	data  api.Provider
	sim   config.Simulator
}

func newServer(sim config.Simulator, log *zap.Logger, st store.Store, data api.Provider) *server {
	if log == nil {
		log = zap.NewNop()
	}
	return &server{log: log, store: st, data: data, sim: sim}
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	a := r.PathPrefix("/api").Subrouter()

	a.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	a.HandleFunc("/battlelog/parse", s.handleParseBattleLog).Methods(http.MethodPost)
	a.HandleFunc("/battlelog/tags", s.handleBattleLogTags).Methods(http.MethodPost)

	a.HandleFunc("/combatlogs", s.handleCreateCombatLog).Methods(http.MethodPost)
	a.HandleFunc("/combatlogs", s.handleListCombatLogs).Methods(http.MethodGet)
	a.HandleFunc("/combatlogs/{id}", s.handleGetCombatLog).Methods(http.MethodGet)

	a.HandleFunc("/sim/default", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.DefaultCombatData())
	}).Methods(http.MethodGet)
	a.HandleFunc("/sim/run", s.handleSimRun).Methods(http.MethodPost)
	a.HandleFunc("/sim/runs/{id}", s.handleGetSimRun).Methods(http.MethodGet)
	a.HandleFunc("/sim/ws", s.handleSimWS)

	g := a.PathPrefix("/gamedata").Subrouter()
	g.HandleFunc("/components/{id:[0-9]+}", s.handleComponent).Methods(http.MethodGet)
	g.HandleFunc("/officers/{id:[0-9]+}", s.handleOfficer).Methods(http.MethodGet)
	g.HandleFunc("/buffs/{buff:-?[0-9]+}/{activator:-?[0-9]+}", s.handleBuff).Methods(http.MethodGet)
	g.HandleFunc("/abilities/{id1:-?[0-9]+}/{id2:-?[0-9]+}", s.handleAbility).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "unsupported path")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
	})
	return withCORS(r)
}

// ========================= Battle log =========================

// POST /api/battlelog/parse with a JSON array of integers.
func (s *server) handleParseBattleLog(w http.ResponseWriter, r *http.Request) {
	var data []int64
	if !decodeBody(w, r, &data) {
		return
	}
	rounds, err := battlelog.Parse(data)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, map[string]any{"rounds": rounds})
}

func (s *server) handleBattleLogTags(w http.ResponseWriter, r *http.Request) {
	var data []int64
	if !decodeBody(w, r, &data) {
		return
	}
	writeJSON(w, map[string]any{"tags": battlelog.ExtractTags(data)})
}

// ========================= Combat logs =========================

type combatLogResponse struct {
	Log    store.CombatLogSummary `json:"log"`
	Parsed *combatlog.ParsedData  `json:"parsed"`
	Report combatlog.Report       `json:"report"`
}

// POST /api/combatlogs?name=... with the journal document as body.
func (s *server) handleCreateCombatLog(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !decodeBody(w, r, &raw) {
		return
	}
	var msg models.JournalMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid journal: "+err.Error())
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "combat log " + time.Now().UTC().Format(time.RFC3339)
	}
	rec, err := s.store.SaveCombatLog(r.Context(), name, raw)
	if err != nil {
		s.log.Error("save combat log", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save combat log")
		return
	}
	resp, err := s.analyze(r, rec, msg)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSONStatus(w, http.StatusCreated, resp)
}

func (s *server) handleListCombatLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.ListCombatLogs(r.Context(), 100)
	if err != nil {
		s.log.Error("list combat logs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list combat logs")
		return
	}
	writeJSON(w, logs)
}

// GET /api/combatlogs/{id}; ?raw=1 returns the stored document untouched.
func (s *server) handleGetCombatLog(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetCombatLog(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "combat log not found")
		return
	}
	if err != nil {
		s.log.Error("get combat log", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load combat log")
		return
	}
	if r.URL.Query().Get("raw") == "1" {
		writeJSON(w, rec)
		return
	}
	var msg models.JournalMessage
	if err := json.Unmarshal(rec.Journal, &msg); err != nil {
		writeError(w, http.StatusInternalServerError, "stored journal is unreadable")
		return
	}
	resp, err := s.analyze(r, rec, msg)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, resp)
}

func (s *server) analyze(r *http.Request, rec store.CombatLog, msg models.JournalMessage) (combatLogResponse, error) {
	gd, err := s.data.GameData(r.Context())
	if err != nil {
		s.log.Error("game data unavailable", zap.Error(err))
		return combatLogResponse{}, fmt.Errorf("game data unavailable: %w", err)
	}
	parsed := combatlog.Parse(s.log, msg, gd)
	return combatLogResponse{
		Log:    store.CombatLogSummary{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt},
		Parsed: parsed,
		Report: combatlog.BuildReport(parsed, gd),
	}, nil
}

// ========================= Simulator =========================

type simRequest struct {
	Data       models.CombatData `json:"data"`
	Iterations int               `json:"iterations"`
	Seed       int64             `json:"seed"`
}

type simResponse struct {
	ID     string                       `json:"id,omitempty"`
	Seed   int64                        `json:"seed"`
	Result models.CombatSimulatorResult `json:"result"`
}

// prepare fills defaults and checks limits. The seed is fixed here so the
// stored run can be replayed.
func (s *server) prepare(req *simRequest) error {
	switch {
	case req.Iterations == 0:
		req.Iterations = s.sim.DefaultIterations
	case req.Iterations < 0:
		return errors.New("iterations must be positive")
	case s.sim.MaxIterations > 0 && req.Iterations > s.sim.MaxIterations:
		return fmt.Errorf("iterations above limit %d", s.sim.MaxIterations)
	}
	if req.Seed == 0 {
		req.Seed = s.sim.Seed
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	if len(req.Data.Ships) == 0 {
		req.Data = models.DefaultCombatData()
	}
	return nil
}

func (s *server) simulator(seed int64) *game.Simulator {
	return &game.Simulator{Workers: s.sim.Workers, Seed: seed, Logger: s.log}
}

// finish stores a successful run. Failed runs are reported, not stored.
const msgNonFinite = "simulation produced non-finite results, check for overflowing stats"

func (s *server) finish(r *http.Request, req simRequest, res models.CombatSimulatorResult) (simResponse, error) {
	resp := simResponse{Seed: req.Seed, Result: res}
	if res.Iterations == 0 {
		return resp, nil
	}
	run, err := s.store.SaveSimRun(r.Context(), store.SimRun{
		Iterations: req.Iterations,
		Seed:       req.Seed,
		Input:      req.Data,
		Result:     res,
	})
	if err != nil {
		return resp, err
	}
	resp.ID = run.ID
	return resp, nil
}

func (s *server) handleSimRun(w http.ResponseWriter, r *http.Request) {
	var req simRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.prepare(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.simulator(req.Seed).Run(r.Context(), req.Data, req.Iterations)
	if res.Iterations == 0 {
		writeError(w, http.StatusUnprocessableEntity, res.ExampleLog)
		return
	}
	if !res.AverageOutcome.Finite() {
		writeError(w, http.StatusUnprocessableEntity, msgNonFinite)
		return
	}
	resp, err := s.finish(r, req, res)
	if err != nil {
		s.log.Error("save sim run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save simulation run")
		return
	}
	writeJSON(w, resp)
}

func (s *server) handleGetSimRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetSimRun(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "simulation run not found")
		return
	}
	if err != nil {
		s.log.Error("get sim run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load simulation run")
		return
	}
	writeJSON(w, run)
}

// ========================= Game data =========================

func (s *server) gameData(w http.ResponseWriter, r *http.Request) (*gamedata.GameData, bool) {
	gd, err := s.data.GameData(r.Context())
	if err != nil {
		s.log.Error("game data unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "game data unavailable")
		return nil, false
	}
	return gd, true
}

func (s *server) handleComponent(w http.ResponseWriter, r *http.Request) {
	id, _ := pathInt(r, "id")
	gd, ok := s.gameData(w, r)
	if !ok {
		return
	}
	res, found := gd.LookupComponent(id)
	if !found {
		writeError(w, http.StatusNotFound, "component not found")
		return
	}
	writeJSON(w, res)
}

func (s *server) handleOfficer(w http.ResponseWriter, r *http.Request) {
	id, _ := pathInt(r, "id")
	gd, ok := s.gameData(w, r)
	if !ok {
		return
	}
	writeJSON(w, gd.LookupOfficer(id))
}

func (s *server) handleBuff(w http.ResponseWriter, r *http.Request) {
	buff, _ := pathInt(r, "buff")
	activator, _ := pathInt(r, "activator")
	gd, ok := s.gameData(w, r)
	if !ok {
		return
	}
	writeJSON(w, gd.LookupBuff(buff, activator))
}

func (s *server) handleAbility(w http.ResponseWriter, r *http.Request) {
	id1, _ := pathInt(r, "id1")
	id2, _ := pathInt(r, "id2")
	gd, ok := s.gameData(w, r)
	if !ok {
		return
	}
	writeJSON(w, gd.LookupBattleLogAbility(id1, id2))
}
