package recorder

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"station-mods/config"
	"station-mods/internal/cocoon"
	"station-mods/internal/laundry"
	"station-mods/internal/model"
	"station-mods/internal/notification"
	"station-mods/internal/store"
	"station-mods/internal/world"
)

// Service periodically persists what the station's machines are doing.
type Service struct {
	cfg        *config.Config
	store      store.Store
	world      *world.World
	workerPool *notification.WorkerPool

	mu        sync.Mutex
	events    []model.MachineEvent
	adminLogs []model.AdminLog
	completed map[string]bool
}

// NewService creates the recorder and subscribes it to the world's event streams.
// It must be called before the world starts running. A nil webpushOptions disables notifications.
func NewService(cfg *config.Config, s store.Store, w *world.World, webpushOptions *webpush.Options) *Service {
	svc := &Service{
		cfg:       cfg,
		store:     s,
		world:     w,
		completed: make(map[string]bool),
	}
	if webpushOptions != nil {
		svc.workerPool = notification.NewWorkerPool(cfg.WorkerPool.Size, s.DB(), webpushOptions)
	}
	w.Laundry.Subscribe(svc.onLaundryEvent)
	w.Cocoons.Subscribe(svc.onCocoonEvent)
	return svc
}

// onLaundryEvent runs on the world goroutine.
func (s *Service) onLaundryEvent(ev laundry.Event) {
	label := s.world.Name(ev.Machine)
	entry := model.MachineEvent{
		MachineID:  label,
		ObservedAt: time.Now().UTC(),
		Kind:       ev.Kind.String(),
		State:      ev.View.State.String(),
		WashState:  ev.View.WashState.String(),
		Sound:      string(ev.Sound),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, entry)
	if ev.Kind == laundry.EventCycleCompleted {
		s.completed[label] = true
	}
}

// onCocoonEvent runs on the world goroutine.
func (s *Service) onCocoonEvent(ev cocoon.Event) {
	if ev.Log == nil {
		return
	}
	entry := model.AdminLog{
		ObservedAt: time.Now().UTC(),
		Impact:     ev.Log.Impact.String(),
		User:       s.world.Name(ev.Log.User),
		Target:     s.world.Name(ev.Log.Target),
		Message:    ev.Log.Message,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminLogs = append(s.adminLogs, entry)
}

func (s *Service) drain() ([]model.MachineEvent, []model.AdminLog, map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, logs, completed := s.events, s.adminLogs, s.completed
	s.events, s.adminLogs, s.completed = nil, nil, make(map[string]bool)
	return events, logs, completed
}

// requeue puts unsaved entries back in front of anything buffered since, and keeps completed
// cycles marked until a round gets to see the machines go idle.
func (s *Service) requeue(events []model.MachineEvent, logs []model.AdminLog, completed map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(events, s.events...)
	s.adminLogs = append(logs, s.adminLogs...)
	for id := range completed {
		s.completed[id] = true
	}
}

// Run records on a fixed interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Recorder.Enabled {
		log.Println("Recorder is disabled. Not starting.")
		return
	}
	log.Println("Starting recorder service...")

	if s.workerPool != nil {
		s.workerPool.Start(ctx)
	} else {
		log.Println("Push notifications are disabled.")
	}

	s.RecordOnce(ctx)

	timer := time.NewTimer(s.cfg.Recorder.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Recorder service shutting down.")
			return
		case <-timer.C:
			s.RecordOnce(ctx)
			timer.Reset(s.cfg.Recorder.Interval)
		}
	}
}

// RecordOnce snapshots every machine and persists status changes, transitions and admin logs.
func (s *Service) RecordOnce(ctx context.Context) {
	now := time.Now().UTC()

	var snaps []store.Snapshot
	err := s.world.Do(ctx, func(w *world.World) error {
		for _, m := range w.Machines() {
			snaps = append(snaps, store.Snapshot{Label: w.Name(m.Owner()), View: m.View()})
		}
		return nil
	})
	if err != nil {
		log.Printf("Record cycle aborted: could not snapshot machines: %v", err)
		return
	}
	events, logs, completed := s.drain()

	if err := s.store.UpsertLocationsAndMachines(ctx, snaps); err != nil {
		log.Printf("Error processing locations and machines: %v", err)
		s.requeue(events, logs, completed)
		return
	}

	idle, err := s.store.UpdateStatus(ctx, now, snaps)
	if err != nil {
		log.Printf("Error processing status changes: %v", err)
		s.requeue(nil, nil, completed)
	}

	var notify []string
	for _, id := range idle {
		if completed[id] {
			notify = append(notify, id)
		}
	}
	if len(notify) > 0 && s.workerPool != nil {
		log.Printf("Dispatching notifications for %d machines", len(notify))
		for _, id := range notify {
			s.workerPool.Dispatch(id)
		}
	}

	if err := s.store.AppendEvents(ctx, events); err != nil {
		log.Printf("Error saving machine events: %v", err)
		s.requeue(events, nil, nil)
	}
	if err := s.store.AppendAdminLogs(ctx, logs); err != nil {
		log.Printf("Error saving admin logs: %v", err)
		s.requeue(nil, logs, nil)
	}
}
