package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleetdesk/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestRespondDomainErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ValidationError{Field: "driver_id", Msg: "driver wajib dipilih"}, http.StatusBadRequest, "validation_error"},
		{domain.NotFoundError{Resource: "leg"}, http.StatusNotFound, "not_found"},
		{domain.ConflictError{Resource: "allocation"}, http.StatusConflict, "conflict"},
		{domain.StorageError{Op: "allocations.upsert", Err: errors.New("dial tcp: refused")}, http.StatusBadGateway, "storage_error"},
		{domain.InternalError{Msg: "gagal membuat duty sheet", Err: errors.New("font missing")}, http.StatusInternalServerError, "internal_error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		RespondDomainError(c, tc.err)

		if w.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.status)
		}
		if !strings.Contains(w.Body.String(), `"code":"`+tc.code+`"`) {
			t.Fatalf("%v: body %s lacks code %s", tc.err, w.Body.String(), tc.code)
		}
		if strings.Contains(w.Body.String(), "dial tcp") || strings.Contains(w.Body.String(), "font missing") {
			t.Fatalf("storage detail leaked: %s", w.Body.String())
		}
	}
}

func TestRespondDomainErrorInternalKeepsMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondDomainError(c, fmt.Errorf("duty sheet: %w", domain.InternalError{Msg: "gagal membuat duty sheet"}))
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "gagal membuat duty sheet") {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}
