package controllers

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"scholarship-portal-api/config"

	"github.com/gin-gonic/gin"
)

var scholarshipColumns = []string{
	"scholarship_id", "name", "amount", "deadline", "description",
	"criteria_json", "create_at", "update_at", "delete_at",
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func TestGetScholarshipsListsCatalog(t *testing.T) {
	steps := []*sqlStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `scholarships` WHERE delete_at IS NULL"),
			args:    []driver.Value{},
			columns: scholarshipColumns,
			rows: [][]driver.Value{
				{int64(1), "Global Merit Scholarship 2024", "5000", nil, "Merit award",
					`["Academic Excellence","Financial Need"]`, nil, nil, nil},
				{int64(2), "STEM Futures Grant", "3000", nil, "",
					`["Research Potential"]`, nil, nil, nil},
			},
		},
	}
	db, script, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	config.DB = db

	c, recorder := newTestContext(t)
	GetScholarships(c)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var body struct {
		Total        int `json:"total"`
		Scholarships []struct {
			Name     string   `json:"name"`
			Criteria []string `json:"criteria"`
		} `json:"scholarships"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("expected total 2, got %d", body.Total)
	}
	if body.Scholarships[0].Name != "Global Merit Scholarship 2024" {
		t.Errorf("unexpected first scholarship: %+v", body.Scholarships[0])
	}
	if len(body.Scholarships[0].Criteria) != 2 {
		t.Errorf("expected rubric exposed as a list, got %v", body.Scholarships[0].Criteria)
	}

	if err := script.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestGetScholarshipNotFound(t *testing.T) {
	steps := []*sqlStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`scholarship_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{"99"},
			columns: scholarshipColumns,
			rows:    [][]driver.Value{},
		},
	}
	db, script, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	config.DB = db

	c, recorder := newTestContext(t)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	GetScholarship(c)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if err := script.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestDeleteScholarshipBlockedByApplications(t *testing.T) {
	steps := []*sqlStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`scholarship_id = \? AND delete_at IS NULL`),
			args:    []driver.Value{int64(7)},
			columns: scholarshipColumns,
			rows: [][]driver.Value{
				{int64(7), "Global Merit Scholarship 2024", "5000", nil, "",
					`[]`, nil, nil, nil},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `applications` WHERE scholarship_id = \\?"),
			args:    []driver.Value{int64(7)},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(3)}},
		},
	}
	db, script, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	config.DB = db

	c, recorder := newTestContext(t)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	DeleteScholarship(c)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if err := script.verifyComplete(); err != nil {
		t.Error(err)
	}
}
