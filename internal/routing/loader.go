// Package routing builds a tdp.InMemory transit network from the
// Postgres/PostGIS schema (stops, lines, line_stops, schedules) the teacher
// already queried for its simplified single-pattern RAPTOR, adapted to emit
// patterns/trips/transfers in the search core's vocabulary instead of ad hoc
// Route/Trip structs (spec SPEC_FULL.md §11).
package routing

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/tdp"
)

// Loader builds a Network from the database.
type Loader struct {
	db *pgxpool.Pool
}

func NewLoader(db *pgxpool.Pool) *Loader {
	return &Loader{db: db}
}

// Network is a built tdp.Provider plus the DB-ID lookup the HTTP layer needs
// to translate database stop IDs into model.StopIndex values for access and
// egress legs.
type Network struct {
	Provider     *tdp.InMemory
	DBIDToStop   map[int]model.StopIndex
	StopDBID     map[model.StopIndex]int
}

// LoadData loads every line/stop/schedule row in the database and builds a
// tdp.InMemory network, one pattern per (line, direction) the teacher used
// to call a "Route".
func (l *Loader) LoadData(ctx context.Context) (*Network, error) {
	log.Info().Msg("loading transit network from database")
	start := time.Now()

	dbIDToStop := make(map[int]model.StopIndex)
	stopDBID := make(map[model.StopIndex]int)
	var stops []model.Stop

	rows, err := l.db.Query(ctx, "SELECT id, stop_type FROM stops ORDER BY id")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var dbID int
		var stopType string
		if err := rows.Scan(&dbID, &stopType); err != nil {
			rows.Close()
			return nil, err
		}
		idx := model.StopIndex(len(stops))
		dbIDToStop[dbID] = idx
		stopDBID[idx] = dbID
		stops = append(stops, model.Stop{Index: idx, WheelchairAccessible: stopType != "inaccessible"})
	}
	rows.Close()
	log.Info().Int("stops", len(stops)).Msg("loaded stops")

	patterns, err := l.loadPatterns(ctx, dbIDToStop)
	if err != nil {
		return nil, err
	}
	log.Info().Int("patterns", len(patterns)).Msg("loaded patterns")

	transfers, err := l.loadTransfers(ctx, dbIDToStop)
	if err != nil {
		return nil, err
	}
	log.Info().Int("stops_with_transfers", len(transfers)).Msg("loaded transfers")

	provider, err := tdp.New(stops, patterns, transfers)
	if err != nil {
		return nil, err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("transit network load complete")
	return &Network{Provider: provider, DBIDToStop: dbIDToStop, StopDBID: stopDBID}, nil
}

func (l *Loader) loadPatterns(ctx context.Context, dbIDToStop map[int]model.StopIndex) ([]model.Pattern, error) {
	patternRows, err := l.db.Query(ctx, "SELECT DISTINCT line_id, direction FROM line_stops")
	if err != nil {
		return nil, err
	}
	defer patternRows.Close()

	type lineDir struct {
		lineID, direction int
	}
	var candidates []lineDir
	for patternRows.Next() {
		var lid, dir int
		if err := patternRows.Scan(&lid, &dir); err != nil {
			return nil, err
		}
		candidates = append(candidates, lineDir{lid, dir})
	}

	var patterns []model.Pattern
	for _, c := range candidates {
		stopRows, err := l.db.Query(ctx, "SELECT stop_id FROM line_stops WHERE line_id=$1 AND direction=$2 ORDER BY stop_sequence", c.lineID, c.direction)
		if err != nil {
			return nil, err
		}
		var stopIdx []model.StopIndex
		var dbStopIDs []int
		for stopRows.Next() {
			var sid int
			if err := stopRows.Scan(&sid); err != nil {
				stopRows.Close()
				return nil, err
			}
			if idx, ok := dbIDToStop[sid]; ok {
				stopIdx = append(stopIdx, idx)
				dbStopIDs = append(dbStopIDs, sid)
			}
		}
		stopRows.Close()

		if len(stopIdx) < 2 {
			continue
		}

		trips, err := l.loadTrips(ctx, c.lineID, c.direction, dbStopIDs, len(stopIdx))
		if err != nil {
			return nil, err
		}
		if len(trips) == 0 {
			continue
		}
		patterns = append(patterns, model.Pattern{Stops: stopIdx, Trips: trips})
	}
	return patterns, nil
}

// loadTrips builds one TripSchedule per departure at the pattern's first
// stop. The schedules table only carries exact times for the stops it was
// populated for; absent a full per-stop timetable the remaining stops are
// extrapolated at a fixed per-hop offset, matching the teacher's placeholder
// "3 minutes per stop" assumption until real per-stop schedules are loaded.
func (l *Loader) loadTrips(ctx context.Context, lineID, direction int, dbStopIDs []int, numStops int) ([]model.TripSchedule, error) {
	if len(dbStopIDs) == 0 {
		return nil, nil
	}
	firstStopDBID := dbStopIDs[0]

	var trips []model.TripSchedule
	for _, dayType := range []string{"weekday", "saturday", "sunday"} {
		rows, err := l.db.Query(ctx, `
			SELECT departure_time FROM schedules
			WHERE line_id=$1 AND direction=$2 AND stop_id=$3 AND day_type=$4
			ORDER BY departure_time
		`, lineID, direction, firstStopDBID, dayType)
		if err != nil {
			continue
		}

		var startTimes []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				rows.Close()
				return nil, err
			}
			startTimes = append(startTimes, t)
		}
		rows.Close()

		for _, st := range startTimes {
			startTime, err := time.Parse("15:04:05", st)
			if err != nil {
				continue
			}
			startSecs := int64(startTime.Hour()*3600 + startTime.Minute()*60 + startTime.Second())

			arr := make([]int64, numStops)
			dep := make([]int64, numStops)
			cur := startSecs
			for i := 0; i < numStops; i++ {
				arr[i] = cur
				dep[i] = cur
				cur += 180
			}
			trips = append(trips, model.TripSchedule{Arrival: arr, Departure: dep, ServiceID: serviceCalendar(dayType)})
		}
	}
	return trips, nil
}

// serviceCalendar maps the teacher's string day-type tag onto an opaque
// ServiceID the search core never interprets itself (spec §3: "the search
// excludes trips not in service via a caller-supplied predicate").
func serviceCalendar(dayType string) int32 {
	switch dayType {
	case "weekday":
		return 0
	case "saturday":
		return 1
	case "sunday":
		return 2
	default:
		return -1
	}
}

func (l *Loader) loadTransfers(ctx context.Context, dbIDToStop map[int]model.StopIndex) (map[model.StopIndex][]model.Transfer, error) {
	transfers := make(map[model.StopIndex][]model.Transfer)

	rows, err := l.db.Query(ctx, `
		SELECT s1.id, s2.id, ST_Distance(s1.location::geography, s2.location::geography)
		FROM stops s1
		JOIN stops s2 ON ST_DWithin(s1.location::geography, s2.location::geography, 300)
		WHERE s1.id != s2.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id1, id2 int
		var dist float64
		if err := rows.Scan(&id1, &id2, &dist); err != nil {
			return nil, err
		}
		idx1, ok1 := dbIDToStop[id1]
		idx2, ok2 := dbIDToStop[id2]
		if !ok1 || !ok2 {
			continue
		}
		// 1m/s walking speed, matching the teacher's approximation.
		transfers[idx1] = append(transfers[idx1], model.Transfer{FromStop: idx1, ToStop: idx2, Duration: int64(dist)})
	}
	return transfers, nil
}
