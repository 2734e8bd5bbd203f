package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"station-mods/config"
	"station-mods/internal/accent"
	"station-mods/internal/api"
	"station-mods/internal/chem"
	"station-mods/internal/db"
	"station-mods/internal/laundry"
	"station-mods/internal/model"
	"station-mods/internal/recorder"
	"station-mods/internal/rng"
	"station-mods/internal/store"
	"station-mods/internal/world"
)

type station struct {
	db       *gorm.DB
	store    store.Store
	world    *world.World
	recorder *recorder.Service
	ctx      context.Context
}

// setupStation wires a seeded world, the recorder and an in-memory SQLite store together.
func setupStation(t *testing.T) *station {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "Failed to connect to the in-memory database")
	sqlDB, _ := testDB.DB()
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(testDB))

	dryer := laundry.DefaultMachineConfig()
	dryer.CanWash = false
	dryer.Mode = laundry.ModeDry
	dryer.TimeSettingMinutes = 1

	w := world.New(chem.DefaultRegistry(), accent.DefaultTable(), rng.Seeded(3), time.Hour, laundry.DefaultTimings(), log.New(io.Discard, "", 0))
	require.NoError(t, w.Seed(world.Scenario{
		Machines: []world.MachineSpec{{Label: "Dorms 2-1", Config: &dryer}},
		Garments: []world.GarmentSpec{{Label: "towel", Machine: "Dorms 2-1"}},
	}))

	cfg := &config.Config{
		Recorder:   config.RecorderConfig{Enabled: true, Interval: time.Hour},
		WorkerPool: config.WorkerPoolConfig{Size: 2},
	}
	gormStore := store.NewGormStore(testDB)
	svc := recorder.NewService(cfg, gormStore, w, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	return &station{db: testDB, store: gormStore, world: w, recorder: svc, ctx: ctx}
}

func (s *station) run(t *testing.T, fn func(w *world.World, m *world.Entity)) {
	t.Helper()
	err := s.world.Do(s.ctx, func(w *world.World) error {
		m, ok := w.Lookup("Dorms 2-1")
		if !ok {
			return world.ErrNotFound
		}
		fn(w, m)
		return nil
	})
	require.NoError(t, err)
}

// TestDryerCycleLifecycle records a dryer from start to finish and checks the rows left behind.
func TestDryerCycleLifecycle(t *testing.T) {
	s := setupStation(t)

	var firstObservedAt time.Time
	t.Run("Cycle 1: Dryer starts", func(t *testing.T) {
		var ok bool
		s.run(t, func(w *world.World, m *world.Entity) { ok = w.Laundry.Start(m.ID).OK })
		require.True(t, ok)

		s.recorder.RecordOnce(s.ctx)

		var location model.Location
		require.NoError(t, s.db.Preload("Machines").First(&location, "name = ?", "Dorms").Error)
		require.Len(t, location.Machines, 1)
		assert.Equal(t, "Dorms 2-1", location.Machines[0].ID)
		assert.Equal(t, 2, location.Machines[0].Deck)
		assert.Equal(t, 1, location.Machines[0].Seq)
		assert.False(t, location.Machines[0].CanWash)
		assert.True(t, location.Machines[0].CanDry)

		var status model.MachineStatus
		require.NoError(t, s.db.First(&status, "machine_id = ?", "Dorms 2-1").Error)
		assert.NotEqual(t, "Off", status.State)
		assert.Equal(t, "Dry", status.Mode)
		assert.Positive(t, status.TimeRemaining)
		firstObservedAt = status.ObservedAt

		var historyCount int64
		s.db.Model(&model.MachineHistory{}).Count(&historyCount)
		assert.Zero(t, historyCount)
	})

	t.Run("Cycle 2: Dryer finishes", func(t *testing.T) {
		s.run(t, func(w *world.World, m *world.Entity) {
			for i := 0; i < 120 && m.Machine.View().Running(); i++ {
				w.Step(time.Second)
			}
		})

		s.recorder.RecordOnce(s.ctx)

		var statusCount int64
		s.db.Model(&model.MachineStatus{}).Count(&statusCount)
		assert.Zero(t, statusCount, "idle machines have no status row")

		history, err := s.store.History(s.ctx, "Dorms 2-1", 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, firstObservedAt.Unix(), history[0].PeriodStart.Unix())
		assert.False(t, history[0].PeriodEnd.Before(history[0].PeriodStart))
		assert.True(t, history[0].ObservedAt.After(firstObservedAt) || history[0].ObservedAt.Equal(firstObservedAt))

		events, err := s.store.Events(s.ctx, "Dorms 2-1", 50)
		require.NoError(t, err)
		var kinds []string
		for _, ev := range events {
			kinds = append(kinds, ev.Kind)
		}
		assert.Contains(t, kinds, "Started")
		assert.Contains(t, kinds, "CycleCompleted")
	})

	t.Run("Cycle 3: Nothing changes", func(t *testing.T) {
		s.recorder.RecordOnce(s.ctx)

		var historyCount int64
		s.db.Model(&model.MachineHistory{}).Count(&historyCount)
		assert.Equal(t, int64(1), historyCount)
	})
}

func TestSubscriptionsAgainstRecordedMachines(t *testing.T) {
	s := setupStation(t)
	s.recorder.RecordOnce(s.ctx)

	router := api.NewRouter(config.ServerConfig{RateLimitPerSec: 100, RateLimitBurst: 100, CacheTTLSeconds: 1}, s.store, s.world, nil)
	send := func(method, target, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	resp := send("PUT", "/api/subscriptions", `{"endpoint":"https://push.example/1","p256dh":"k","auth":"a","subscribed_machines":["Dorms 2-1"]}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = send("GET", "/api/subscriptions?endpoint=https://push.example/1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var got struct {
		SubscribedMachines []string `json:"subscribed_machines"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, []string{"Dorms 2-1"}, got.SubscribedMachines)

	resp = send("PUT", "/api/subscriptions", `{"endpoint":"https://push.example/1","p256dh":"k","auth":"a","subscribed_machines":["Medbay 1-1"]}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = send("GET", "/api/machines/Dorms%202-1/history", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = send("DELETE", "/api/subscriptions", `{"endpoint":"https://push.example/1"}`)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = send("GET", "/api/subscriptions?endpoint=https://push.example/1", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
