package role

// DefaultDashboard is where unknown roles land.
const DefaultDashboard = "/student/dashboard"

// dashboards maps roles to their landing path.
// Legacy camelCase keys are kept verbatim: they only match when the raw role is looked up.
var dashboards = map[string]string{
	Student:        "/student/dashboard",
	Tutor:          "/tutor/dashboard",
	LSM:            "/lsm/dashboard",
	Mentor:         "/mentor/dashboard",
	Placement:      "/placement/dashboard",
	ProgramManager: "/program-manager/dashboard",
	Admin:          "/admin/dashboard",
	Finance:        "/finance/dashboard",
	Marketing:      "/marketing/dashboard",
	HRPartner:      "/hr/dashboard",
	SalesAgent:     "/sales/dashboard",
	SalesLead:      "/sales/dashboard",
	SalesHead:      "/sales/dashboard",
	SalesAdmin:     "/sales/dashboard",

	// legacy keys
	"programManager": "/program-manager/dashboard",
	"hrPartner":      "/hr/dashboard",
	"salesAgent":     "/sales/dashboard",
	"salesLead":      "/sales/dashboard",
	"salesHead":      "/sales/dashboard",
}

// DashboardPath resolves the landing path of a free-form role string.
// The normalized role is looked up first, then the raw one; unknown roles get DefaultDashboard.
func DashboardPath(r string) string {
	if p, ok := dashboards[Normalize(r)]; ok {
		return p
	}
	if p, ok := dashboards[r]; ok {
		return p
	}
	return DefaultDashboard
}
