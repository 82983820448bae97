package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/portal/core/interview"
	"github.com/skillbridge/portal/core/program"
	"github.com/skillbridge/portal/core/role"
)

func Test_interviewApi(t *testing.T) {
	env := setup(t)
	mentorToken := getToken(t, env.conf, "mentor@skillbridge.dev", role.Mentor, "")
	agentToken := getToken(t, env.conf, "agent@skillbridge.dev", role.SalesAgent, "north")
	studentToken := getToken(t, env.conf, "kid@skillbridge.dev", role.Student, "")
	forbidden := marchallObj(t, httpErr{Error: interview.ErrForbidden.Error()})

	runHTTPTests(t, env, []httpTest{
		{name: "Auth required", path: "/v1/interviews", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Role required", path: "/v1/interviews", token: studentToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "Invalid filter", path: "/v1/interviews?scheduledDate=02/01/2024", token: mentorToken, wantCode: http.StatusBadRequest},
		{
			name: "Read-only role", method: http.MethodPut, path: "/v1/interviews/i1", token: agentToken,
			body: []byte(`{"status": "completed"}`), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "No changes", method: http.MethodPut, path: "/v1/interviews/i1", token: mentorToken,
			body: []byte(`{}`), wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: interview.ErrNoChanges.Error()}),
		},
		{
			name: "Invalid status", method: http.MethodPut, path: "/v1/interviews/i1", token: mentorToken,
			body: []byte(`{"status": "lost"}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "Unknown interview", method: http.MethodPut, path: "/v1/interviews/nope", token: mentorToken,
			body: []byte(`{"status": "completed"}`), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: interview.ErrNotFound.Error()}),
		},
	})

	t.Run("list", func(t *testing.T) {
		rec := env.serve(http.MethodGet, "/v1/interviews?status=completed", agentToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var ivs []interview.Interview
		unmarchall(t, rec, &ivs)
		require.Len(t, ivs, 1)
		assert.Equal(t, "i2", ivs[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		rec := env.serve(http.MethodPut, "/v1/interviews/i1", mentorToken, []byte(`{"status": "completed", "feedback": "Solid."}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var iv interview.Interview
		unmarchall(t, rec, &iv)
		assert.Equal(t, interview.StatusCompleted, iv.Status)
		assert.Equal(t, "Solid.", iv.Feedback)
		assert.Equal(t, "Junior Developer", iv.JobTitle)
	})
}

func Test_programApi(t *testing.T) {
	env := setup(t)
	adminToken := getToken(t, env.conf, "admin@skillbridge.dev", role.Admin, "")
	studentToken := getToken(t, env.conf, "kid@skillbridge.dev", role.Student, "")
	forbidden := marchallObj(t, httpErr{Error: program.ErrForbidden.Error()})

	runHTTPTests(t, env, []httpTest{
		{name: "Auth required", path: "/v1/programs", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Editor required", method: http.MethodPost, path: "/v1/programs", token: studentToken,
			body: []byte(`{"title": "Hacking"}`), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{
			name: "Title required", method: http.MethodPost, path: "/v1/programs", token: adminToken,
			body: []byte(`{"title": "   "}`), wantCode: http.StatusBadRequest, wantData: []byte(`{"title": "this field is required"}`),
		},
		{
			name: "Unknown program", path: "/v1/programs/nope", token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: program.ErrNotFound.Error()}),
		},
		{
			name: "Unknown module", method: http.MethodPut, path: "/v1/programs/p1/modules/nope", token: adminToken,
			body: []byte(`{"title": "CSS"}`), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: program.ErrNotFound.Error()}),
		},
	})

	rec := env.serve(http.MethodPost, "/v1/programs", adminToken, []byte(`{"title": "  Data Track ", "description": "SQL and pandas"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p program.Program
	unmarchall(t, rec, &p)
	assert.Equal(t, "Data Track", p.Title)

	rec = env.serve(http.MethodPost, "/v1/programs/"+p.ID+"/modules", adminToken,
		[]byte(`{"title": "SQL", "order": 1, "objectives": [{"text": "Write joins"}, {"text": "  "}]}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var m program.Module
	unmarchall(t, rec, &m)
	require.Len(t, m.Objectives, 1, "blank objectives are dropped")
	assert.Equal(t, "Write joins", m.Objectives[0].Text)

	rec = env.serve(http.MethodPut, "/v1/programs/"+p.ID, adminToken, []byte(`{"title": "Data Track II"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.serve(http.MethodGet, "/v1/programs/"+p.ID, studentToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	unmarchall(t, rec, &p)
	assert.Equal(t, "Data Track II", p.Title)
	require.Len(t, p.Modules, 1)
	assert.Equal(t, m.ID, p.Modules[0].ID)

	rec = env.serve(http.MethodGet, "/v1/programs", studentToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var programs []program.Program
	unmarchall(t, rec, &programs)
	assert.Len(t, programs, 2)
}

func Test_teamApi(t *testing.T) {
	env := setup(t)

	runHTTPTests(t, env, []httpTest{
		{name: "Auth required", path: "/v1/sales-team", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Pipeline access required", path: "/v1/sales-team", token: getToken(t, env.conf, "kid@skillbridge.dev", role.Student, ""),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	})

	rec := env.serve(http.MethodGet, "/v1/sales-team", getToken(t, env.conf, "lead@skillbridge.dev", role.SalesLead, "north"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var members []map[string]interface{}
	unmarchall(t, rec, &members)
	assert.Len(t, members, 5)
}
