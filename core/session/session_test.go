package session

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name              string
		email, role, team string
		wantIdentity      string
		wantAuth          bool
	}{
		{name: "anonymous", wantAuth: false},
		{name: "whitespace email", email: "   ", wantAuth: false},
		{name: "email is cleaned", email: "  A@X.com ", role: " sales_agent", team: "north ", wantIdentity: "a@x.com", wantAuth: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := New(tt.email, tt.role, tt.team, "")
			if got := sess.Identity(); got != tt.wantIdentity {
				t.Errorf("Identity() = %q; want %q", got, tt.wantIdentity)
			}
			if got := sess.IsAuthenticated(); got != tt.wantAuth {
				t.Errorf("IsAuthenticated() = %v; want %v", got, tt.wantAuth)
			}
		})
	}

	sess := New("a@x.com", " sales_agent", "north ", "Ann")
	if sess.Role() != "sales_agent" || sess.Team() != "north" || sess.Name() != "Ann" {
		t.Errorf("New() = %+v; fields not cleaned", sess.View())
	}
}

func TestSession_Is(t *testing.T) {
	sess := New("a@x.com", "sales_agent", "", "")
	tests := []struct {
		identity string
		want     bool
	}{
		{identity: "a@x.com", want: true},
		{identity: " A@X.COM ", want: true},
		{identity: "b@x.com", want: false},
		{identity: "", want: false},
	}
	for _, tt := range tests {
		if got := sess.Is(tt.identity); got != tt.want {
			t.Errorf("Is(%q) = %v; want %v", tt.identity, got, tt.want)
		}
	}
	if Anonymous().Is("") {
		t.Error("anonymous session must not match an empty identity")
	}
}
