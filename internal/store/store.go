package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"station-mods/internal/model"
	"station-mods/internal/parse"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	UpsertLocationsAndMachines(ctx context.Context, snaps []Snapshot) error
	// UpdateStatus returns the machines that went idle since the previous call.
	UpdateStatus(ctx context.Context, now time.Time, snaps []Snapshot) ([]string, error)
	AppendEvents(ctx context.Context, events []model.MachineEvent) error
	AppendAdminLogs(ctx context.Context, logs []model.AdminLog) error
	History(ctx context.Context, machineID string, limit int) ([]model.MachineHistory, error)
	Events(ctx context.Context, machineID string, limit int) ([]model.MachineEvent, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// UpdateStatus processes state changes and updates the database transactionally.
func (s *gormStore) UpdateStatus(ctx context.Context, now time.Time, snaps []Snapshot) ([]string, error) {
	currentOpen, err := s.fetchAllStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch machine statuses: %w", err)
	}

	var becameIdle []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, snap := range snaps {
			old, exists := currentOpen[snap.Label]
			if !exists {
				// Not tracked yet; idle machines have no row.
				if !snap.Idle() {
					record := prepareStatus(snap, now)
					if err := tx.Create(&record).Error; err != nil {
						return fmt.Errorf("failed to create status record for machine %s: %w", snap.Label, err)
					}
				}
				continue
			}
			delete(currentOpen, snap.Label)

			if sameStatus(old, snap) {
				continue
			}
			if err := archiveRecord(tx, old, now); err != nil {
				return err
			}
			if snap.Idle() {
				if err := deleteStatus(tx, old.MachineID); err != nil {
					return err
				}
				becameIdle = append(becameIdle, snap.Label)
				continue
			}
			record := prepareStatus(snap, now)
			if err := tx.Save(&record).Error; err != nil {
				return fmt.Errorf("failed to update status record for machine %s: %w", snap.Label, err)
			}
		}

		// Machines that were running but are gone from the station.
		for _, remaining := range currentOpen {
			if err := archiveRecord(tx, remaining, now); err != nil {
				return err
			}
			if err := deleteStatus(tx, remaining.MachineID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return becameIdle, nil
}

func sameStatus(old model.MachineStatus, snap Snapshot) bool {
	return old.State == snap.View.State.String() &&
		old.WashState == snap.View.WashState.String() &&
		old.Paused == snap.View.Paused
}

func prepareStatus(snap Snapshot, now time.Time) model.MachineStatus {
	return model.MachineStatus{
		MachineID:     snap.Label,
		ObservedAt:    now,
		State:         snap.View.State.String(),
		WashState:     snap.View.WashState.String(),
		Mode:          snap.View.Mode.String(),
		Paused:        snap.View.Paused,
		TimeRemaining: int(snap.View.TimeRemaining.Seconds()),
	}
}

func deleteStatus(tx *gorm.DB, machineID string) error {
	if err := tx.Where("machine_id = ?", machineID).Delete(&model.MachineStatus{}).Error; err != nil {
		return fmt.Errorf("failed to delete status record for machine %s: %w", machineID, err)
	}
	return nil
}

// archiveRecord creates a historical record of a finished status period.
func archiveRecord(tx *gorm.DB, record model.MachineStatus, observationTime time.Time) error {
	startTime := record.ObservedAt
	// Timed stages predict their end; paused or untimed ones end when the change was observed.
	periodEnd := observationTime
	if record.TimeRemaining > 0 && !record.Paused {
		periodEnd = startTime.Add(time.Duration(record.TimeRemaining) * time.Second)
	}

	history := model.MachineHistory{
		MachineID:   record.MachineID,
		ObservedAt:  observationTime,
		State:       record.State,
		WashState:   record.WashState,
		PeriodStart: startTime,
		PeriodEnd:   periodEnd,
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to archive status record for machine %s: %w", record.MachineID, err)
	}
	return nil
}

// UpsertLocationsAndMachines handles the database updates for location and machine metadata.
func (s *gormStore) UpsertLocationsAndMachines(ctx context.Context, snaps []Snapshot) error {
	existingMachines, err := s.fetchAllMachines(ctx)
	if err != nil {
		log.Printf("Warning: could not pre-fetch machines: %v", err)
		existingMachines = make(map[string]model.Machine)
	}

	locationMap, err := s.processAndSaveLocations(ctx, snaps)
	if err != nil {
		return fmt.Errorf("failed to process locations: %w", err)
	}

	var machinesToUpsert []model.Machine
	for _, snap := range snaps {
		parsed, err := parse.ParseLabel(snap.Label)
		if err != nil {
			log.Printf("Error parsing label for machine %s: %v", snap.View.ID, err)
			continue
		}

		location, ok := locationMap[parsed.Location]
		if !ok {
			log.Printf("Error: could not find location %q after upserting. Skipping machine %s.", parsed.Location, snap.Label)
			continue
		}

		machine, needsUpsert := prepareMachine(snap, parsed, existingMachines, location.ID)
		if needsUpsert {
			machinesToUpsert = append(machinesToUpsert, machine)
		}
	}

	if len(machinesToUpsert) == 0 {
		return nil
	}
	log.Printf("Batch upserting %d machines...", len(machinesToUpsert))
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return batchUpsertMachines(tx, machinesToUpsert)
	})
}

// AppendEvents stores buffered machine transitions.
func (s *gormStore) AppendEvents(ctx context.Context, events []model.MachineEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&events).Error; err != nil {
		return fmt.Errorf("failed to append %d machine events: %w", len(events), err)
	}
	return nil
}

// AppendAdminLogs stores buffered admin log entries.
func (s *gormStore) AppendAdminLogs(ctx context.Context, logs []model.AdminLog) error {
	if len(logs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&logs).Error; err != nil {
		return fmt.Errorf("failed to append %d admin logs: %w", len(logs), err)
	}
	return nil
}

// History returns the newest archived status periods of a machine.
func (s *gormStore) History(ctx context.Context, machineID string, limit int) ([]model.MachineHistory, error) {
	var records []model.MachineHistory
	if err := s.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Order("observed_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch history for machine %s: %w", machineID, err)
	}
	return records, nil
}

// Events returns the newest transitions of a machine.
func (s *gormStore) Events(ctx context.Context, machineID string, limit int) ([]model.MachineEvent, error) {
	var events []model.MachineEvent
	if err := s.db.WithContext(ctx).
		Where("machine_id = ?", machineID).
		Order("observed_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch events for machine %s: %w", machineID, err)
	}
	return events, nil
}

func (s *gormStore) fetchAllStatuses(ctx context.Context) (map[string]model.MachineStatus, error) {
	var records []model.MachineStatus
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	recordMap := make(map[string]model.MachineStatus, len(records))
	for _, r := range records {
		recordMap[r.MachineID] = r
	}
	return recordMap, nil
}

func (s *gormStore) fetchAllMachines(ctx context.Context) (map[string]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Find(&machines).Error; err != nil {
		return nil, err
	}
	machineMap := make(map[string]model.Machine, len(machines))
	for _, m := range machines {
		machineMap[m.ID] = m
	}
	return machineMap, nil
}

func (s *gormStore) processAndSaveLocations(ctx context.Context, snaps []Snapshot) (map[string]model.Location, error) {
	toUpsert := make(map[string]model.Location)
	for _, snap := range snaps {
		parsed, err := parse.ParseLabel(snap.Label)
		if err != nil {
			continue
		}
		if _, exists := toUpsert[parsed.Location]; !exists {
			toUpsert[parsed.Location] = model.Location{Name: parsed.Location}
		}
	}

	if len(toUpsert) == 0 {
		return make(map[string]model.Location), nil
	}

	locations := make([]model.Location, 0, len(toUpsert))
	for _, l := range toUpsert {
		locations = append(locations, l)
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&locations).Error; err != nil {
		return nil, fmt.Errorf("batch upsert locations failed: %w", err)
	}

	var all []model.Location
	if err := s.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve locations after upsert: %w", err)
	}

	locationMap := make(map[string]model.Location, len(all))
	for _, l := range all {
		locationMap[l.Name] = l
	}
	return locationMap, nil
}

func prepareMachine(snap Snapshot, parsed parse.ParsedLabel, existing map[string]model.Machine, locationID int64) (model.Machine, bool) {
	m := model.Machine{
		ID:         snap.Label,
		EntityID:   snap.View.ID.String(),
		LocationID: locationID,
		Label:      snap.Label,
		Deck:       parsed.Deck,
		Seq:        parsed.Seq,
		CanWash:    snap.View.CanWash,
		CanDry:     snap.View.CanDry,
	}

	if old, exists := existing[m.ID]; exists {
		if old.EntityID == m.EntityID &&
			old.LocationID == m.LocationID &&
			old.Deck == m.Deck &&
			old.Seq == m.Seq &&
			old.CanWash == m.CanWash &&
			old.CanDry == m.CanDry {
			return m, false
		}
	}
	return m, true
}

func batchUpsertMachines(tx *gorm.DB, machines []model.Machine) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"entity_id", "location_id", "label", "deck", "seq", "can_wash", "can_dry", "updated_at"}),
	}).Create(&machines).Error
}
