package ingest

import "github.com/fieldhq/fieldhq/store"

// Distribute assigns each normalized record to one agent from the roster
// using deterministic round-robin: record i goes to agents[i mod K].
//
// The function is pure: identical inputs always yield identical assignment,
// which keeps imports reproducible and fair (per-agent counts differ by at
// most one). Precondition: the caller passes the roster already sorted by
// its stable key (creation time); the engine does not sort internally.
func Distribute(records []NormalizedRecord, agents []store.Agent) ([]store.Record, error) {
	if len(agents) == 0 {
		return nil, ErrEmptyRoster
	}

	out := make([]store.Record, 0, len(records))
	for i, rec := range records {
		out = append(out, store.Record{
			FirstName:  rec.Name,
			Phone:      rec.Phone,
			Notes:      rec.Notes,
			AssignedTo: agents[i%len(agents)].ID,
		})
	}
	return out, nil
}
