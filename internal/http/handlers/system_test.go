package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	intconfig "fleetdesk/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	prev := intconfig.DB
	intconfig.DB = conn
	t.Cleanup(func() {
		intconfig.DB = prev
		conn.Close()
	})
	return mock
}

func runDBCheck() *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/db-check", nil)
	DBCheck(c)
	return w
}

func TestDBCheckReportsAllocationsTable(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectPing()
	mock.ExpectQuery("information_schema\\.tables").WithArgs("allocations").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("allocations"))

	w := runDBCheck()
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"allocations_table":true`) {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDBCheckMissingAllocationsTable(t *testing.T) {
	mock := withMockDB(t)
	mock.ExpectPing()
	mock.ExpectQuery("information_schema\\.tables").WithArgs("allocations").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	w := runDBCheck()
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "tabel allocations belum ada") {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestDBCheckWithoutConnection(t *testing.T) {
	prev := intconfig.DB
	intconfig.DB = nil
	t.Cleanup(func() { intconfig.DB = prev })

	if w := runDBCheck(); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
