package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhalligan/clinicbook/pkg/logging"
)

func expectCounts(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE role = 'patient'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM doctors`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contact_submissions`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM appointments GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 5).
			AddRow("completed", 15))
}

func TestGetStats(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	expectCounts(mock)

	repo := NewStatsRepository(db)
	h := NewStatsHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(12), stats.Users)
	assert.Equal(t, int64(8), stats.Patients)
	assert.Equal(t, int64(4), stats.Doctors)
	assert.Equal(t, int64(20), stats.Appointments)
	assert.Equal(t, int64(3), stats.ContactSubmissions)
	assert.Equal(t, int64(5), stats.AppointmentsByStatus["pending"])
	assert.Equal(t, int64(15), stats.AppointmentsByStatus["completed"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatsQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users$`).WillReturnError(sqlmock.ErrCancelled)

	h := NewStatsHandler(NewStatsRepository(db), logging.Default())
	rec := httptest.NewRecorder()
	h.GetStats(rec, httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
