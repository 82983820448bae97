package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/skillbridge/portal/core/role"
)

func Test_sessionApi_retrieve(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/session", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Invalid token", path: "/v1/session", token: "not.a.jwt",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "Token without identity", path: "/v1/session", token: getToken(t, env.conf, "", role.SalesAgent, ""),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{
			name: "Sales agent", path: "/v1/session", token: getToken(t, env.conf, " Agent@SkillBridge.dev", role.SalesAgent, "north"),
			wantCode: http.StatusOK,
			wantData: []byte(`{
				"email": "agent@skillbridge.dev",
				"role": "sales_agent",
				"team": "north",
				"authenticated": true,
				"dashboard": "/sales/dashboard",
				"tier": "individual_contributor"
			}`),
		},
		{
			name: "Legacy role", path: "/v1/session", token: getToken(t, env.conf, "pm@skillbridge.dev", "programManager", ""),
			wantCode: http.StatusOK,
			wantData: []byte(`{
				"email": "pm@skillbridge.dev",
				"role": "programManager",
				"authenticated": true,
				"dashboard": "/program-manager/dashboard",
				"tier": "none"
			}`),
		},
	}
	runHTTPTests(t, env, tests)
}

func Test_sessionApi_navigate(t *testing.T) {
	env := setup(t)
	path := func(p string) string { return "/v1/navigation?path=" + url.QueryEscape(p) }
	agentToken := getToken(t, env.conf, "agent@skillbridge.dev", role.SalesAgent, "north")
	studentToken := getToken(t, env.conf, "kid@skillbridge.dev", role.Student, "")

	tests := []httpTest{
		{
			name: "Anonymous on protected path", path: path("/sales/pipeline"), wantCode: http.StatusOK,
			wantData: []byte(`{"path": "/sales/pipeline", "allowed": false, "redirect": "/signin"}`),
		},
		{
			name: "Anonymous on sign in", path: path("/signin"), wantCode: http.StatusOK,
			wantData: []byte(`{"path": "/signin", "allowed": true}`),
		},
		{
			name: "Signed in on sign in", path: path("/signin"), token: agentToken, wantCode: http.StatusOK,
			wantData: []byte(`{"path": "/signin", "allowed": false, "redirect": "/sales/dashboard"}`),
		},
		{
			name: "Own area", path: path("/sales/pipeline/"), token: agentToken, wantCode: http.StatusOK,
			wantData: []byte(`{"path": "/sales/pipeline", "allowed": true}`),
		},
		{
			name: "Other area", path: path("/sales/pipeline"), token: studentToken, wantCode: http.StatusOK,
			wantData: []byte(`{"path": "/sales/pipeline", "allowed": false, "redirect": "/student/dashboard"}`),
		},
		{
			name: "Invalid token is rejected", path: path("/signin"), token: "not.a.jwt",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
	}
	runHTTPTests(t, env, tests)
}
