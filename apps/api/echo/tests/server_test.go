package tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillbridge/portal/core/role"
)

func Test_server_home(t *testing.T) {
	env := setup(t)

	rec := env.serve(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to SkillBridge API!", rec.Body.String())

	runHTTPTests(t, env, []httpTest{
		{name: "healthz", path: "/healthz", wantCode: http.StatusOK, wantData: []byte(`{"status": "ok"}`)},
		{name: "unknown route", path: "/v1/nope", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Not Found"})},
	})
}

func Test_server_metrics(t *testing.T) {
	env := setup(t)
	token := getToken(t, env.conf, "agent@skillbridge.dev", role.SalesAgent, "north")

	env.serve(http.MethodGet, "/v1/pipeline", token)
	env.serve(http.MethodPut, "/v1/pipeline/leads/l1/stage", token, []byte(`{"stage": "offer"}`))

	rec := env.serve(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `skillbridge_http_requests_total{method="GET",path="/v1/pipeline",status="200"} 1`), body)
	assert.True(t, strings.Contains(body, `skillbridge_pipeline_stage_transitions_total{from="primary_screening",to="offer"} 1`), body)
}
