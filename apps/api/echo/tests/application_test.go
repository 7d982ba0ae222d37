package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/application"
	"github.com/trezcool/findgreatschool/core/institution"
	testutil "github.com/trezcool/findgreatschool/tests"
)

func Test_applicationApi(t *testing.T) {
	e := setup(t)

	dps := testutil.CreateInstitution(t, e.instRepo, "Delhi Public School", institution.CategorySchool, "New Delhi", testutil.Approved)
	allen := testutil.CreateInstitution(t, e.instRepo, "Allen", institution.CategoryCoaching, "Kota", testutil.Approved)
	pending := testutil.CreateInstitution(t, e.instRepo, "Pending", institution.CategoryCollege, "Pune")

	student := getToken(t, e.conf, "student-1")
	other := getToken(t, e.conf, "student-2")
	apply := func(id string) string { return "/v1/institutions/" + id + "/apply" }

	tests := []httpTest{
		{name: "Auth required", method: http.MethodPost, path: apply(dps.ID), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Unknown institution", method: http.MethodPost, path: apply("lol"), token: student,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: application.ErrInvalidInstitution.Error()}),
		},
		{
			name: "Pending institution", method: http.MethodPost, path: apply(pending.ID), token: student,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: application.ErrInvalidInstitution.Error()}),
		},
		{name: "Apply", method: http.MethodPost, path: apply(dps.ID), token: student, wantCode: http.StatusCreated},
		{
			name: "Apply twice", method: http.MethodPost, path: apply(dps.ID), token: student,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: application.ErrAlreadyApplied.Error()}),
		},
		{name: "Another student", method: http.MethodPost, path: apply(dps.ID), token: other, wantCode: http.StatusCreated},
		{name: "Another institution", method: http.MethodPost, path: apply(allen.ID), token: student, wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusCreated {
				checkCodeAndData(t, tt, rec)
				return
			}
			assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			var resp struct {
				Message     string                  `json:"message"`
				Application application.Application `json:"application"`
			}
			decode(t, rec, &resp)
			assert.Equal(t, application.SubmittedMessage, resp.Message)
			assert.Equal(t, application.StatusSubmitted, resp.Application.Status)
			assert.NotEmpty(t, resp.Application.ID)
			time.Sleep(time.Millisecond) // distinct submission times
		})
	}

	// institutions are notified
	sent := e.mail.SentMessages()
	if assert.Len(t, sent, 3) {
		assert.Equal(t, dps.ContactEmail, sent[0].To[0].Address)
		assert.Contains(t, sent[0].TextContent, "Delhi Public School")
	}
	assert.Len(t, e.events.OfType(core.EventApplicationSubmitted), 3)

	t.Run("Dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/applications", student)
		e.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var apps []application.StudentApplication
		decode(t, rec, &apps)
		if assert.Len(t, apps, 2) {
			// newest first
			assert.Equal(t, allen.ID, apps[0].InstitutionID)
			assert.Equal(t, "Allen", apps[0].InstitutionName)
			assert.Equal(t, institution.CategoryCoaching, apps[0].InstitutionType)
			assert.Equal(t, "Kota", apps[0].InstitutionCity)
			assert.Equal(t, dps.ID, apps[1].InstitutionID)
		}
	})

	t.Run("Dashboard: no applications", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/applications", getToken(t, e.conf, "student-3"))
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
	})

	t.Run("Dashboard: auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/applications")
		e.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})
}
