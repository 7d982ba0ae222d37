package tests

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/findgreatschool/core"
	"github.com/trezcool/findgreatschool/core/institution"
	testutil "github.com/trezcool/findgreatschool/tests"
)

func Test_adminApi_pending(t *testing.T) {
	e := setup(t)
	adminToken := getToken(t, e.conf, e.conf.Auth.AdminUserID)

	now := time.Now()
	pending := make([]institution.Institution, 0, 12)
	for i := 0; i < 12; i++ {
		name := "Pending School " + strconv.Itoa(i)
		if i == 3 {
			name = "Sunrise Academy"
		}
		pending = append(pending, testutil.CreateInstitution(t, e.instRepo, name, institution.CategorySchool, "Pune",
			testutil.CreatedAt(now.Add(time.Duration(i)*time.Minute))))
	}
	_ = testutil.CreateInstitution(t, e.instRepo, "Sunrise Approved", institution.CategorySchool, "Pune", testutil.Approved)

	path := func(search string, page int) string {
		v := make(url.Values)
		if search != "" {
			v.Set("search", search)
		}
		if page != 0 {
			v.Set("page", strconv.Itoa(page))
		}
		return "/v1/admin/institutions?" + v.Encode()
	}

	tests := []httpTest{
		{name: "Auth required", path: path("", 0), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: path("", 0), token: getToken(t, e.conf, "student-1"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "First page, oldest first", path: path("", 0), token: adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, institution.Page{Items: pending[:10], Page: 1, TotalPages: 2, Total: 12}),
		},
		{
			name: "Second page", path: path("", 2), token: adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, institution.Page{Items: pending[10:], Page: 2, TotalPages: 2, Total: 12}),
		},
		{
			name: "Past the end", path: path("", 5), token: adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, institution.Page{Items: []institution.Institution{}, Page: 5, TotalPages: 2, Total: 12}),
		},
		{
			name: "Search (case-insensitive)", path: path("sunRISE", 0), token: adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, institution.Page{Items: pending[3:4], Page: 1, TotalPages: 1, Total: 1}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_adminApi_moderation(t *testing.T) {
	e := setup(t)
	adminToken := getToken(t, e.conf, e.conf.Auth.AdminUserID)

	toApprove := testutil.CreateInstitution(t, e.instRepo, "To Approve", institution.CategoryCollege, "Chennai")
	toReject := testutil.CreateInstitution(t, e.instRepo, "To Reject", institution.CategoryCollege, "Chennai")
	notFound := marchallObj(t, httpErr{Error: institution.ErrNotFound.Error()})

	tests := []httpTest{
		{
			name: "Approve: admin required", method: http.MethodPost, path: "/v1/admin/institutions/" + toApprove.ID + "/approve",
			token: getToken(t, e.conf, "owner"), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Retrieve pending", method: http.MethodGet, path: "/v1/admin/institutions/" + toApprove.ID, token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, toApprove)},
		{name: "Retrieve unknown", method: http.MethodGet, path: "/v1/admin/institutions/lol", token: adminToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "Approve unknown", method: http.MethodPost, path: "/v1/admin/institutions/lol/approve", token: adminToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "Approve", method: http.MethodPost, path: "/v1/admin/institutions/" + toApprove.ID + "/approve", token: adminToken, wantCode: http.StatusNoContent},
		{name: "Reject unknown", method: http.MethodDelete, path: "/v1/admin/institutions/lol", token: adminToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "Reject", method: http.MethodDelete, path: "/v1/admin/institutions/" + toReject.ID, token: adminToken, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			e.app.ServeHTTP(rec, req)
			if tt.wantCode == http.StatusNoContent {
				assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// approved institutions are public, rejected ones are gone
	req, rec := newRequest(http.MethodGet, "/v1/institutions/"+toApprove.ID)
	e.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/institutions/"+toReject.ID, adminToken)
	e.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Len(t, e.events.OfType(core.EventInstitutionApproved), 1)
	assert.Len(t, e.events.OfType(core.EventInstitutionRejected), 1)
}
