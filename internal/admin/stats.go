package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mhalligan/clinicbook/pkg/logging"
)

// OpenStatsDB opens a database/sql handle over the pgx stdlib driver for the
// aggregate queries, which do not need the pool used by the repositories.
func OpenStatsDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("admin: open stats db: %w", err)
	}
	return db, nil
}

// Stats aggregates platform counts for the admin dashboard.
type Stats struct {
	Users                int64            `json:"users"`
	Patients             int64            `json:"patients"`
	Doctors              int64            `json:"doctors"`
	Appointments         int64            `json:"appointments"`
	AppointmentsByStatus map[string]int64 `json:"appointments_by_status"`
	ContactSubmissions   int64            `json:"contact_submissions"`
}

// StatsRepository queries platform metrics from the database.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	if db == nil {
		panic("admin: sql db required for stats")
	}
	return &StatsRepository{db: db}
}

// GetStats retrieves aggregated counts across the platform.
func (r *StatsRepository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{AppointmentsByStatus: make(map[string]int64)}

	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM users`, &stats.Users},
		{`SELECT COUNT(*) FROM users WHERE role = 'patient'`, &stats.Patients},
		{`SELECT COUNT(*) FROM doctors`, &stats.Doctors},
		{`SELECT COUNT(*) FROM appointments`, &stats.Appointments},
		{`SELECT COUNT(*) FROM contact_submissions`, &stats.ContactSubmissions},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("admin: stats query failed: %w", err)
		}
	}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("admin: status breakdown failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("admin: status scan failed: %w", err)
		}
		stats.AppointmentsByStatus[status] = n
	}
	return stats, rows.Err()
}

// StatsHandler serves the admin metrics endpoint.
type StatsHandler struct {
	repo   *StatsRepository
	logger *logging.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo *StatsRepository, logger *logging.Logger) *StatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsHandler{repo: repo, logger: logger}
}

// GetStats handles GET /admin/api/stats requests
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to load admin stats", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
