package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/skillbridge/portal/apps/api/echo"
	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/interview"
	"github.com/skillbridge/portal/core/lead"
	"github.com/skillbridge/portal/core/program"
	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/core/user"
	appfs "github.com/skillbridge/portal/fs"
	emailsvc "github.com/skillbridge/portal/services/email"
	metricsvc "github.com/skillbridge/portal/services/metrics"
	inmemdb "github.com/skillbridge/portal/storage/database/inmem"
	sqlxrepos "github.com/skillbridge/portal/storage/database/sqlx"
	"github.com/skillbridge/portal/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app     *Server
	conf    *core.Config
	backend *inmemdb.DB
	audit   lead.TransitionRepository
	metrics *metricsvc.Collector
	logger  *testutil.Logger
}

func setup(t *testing.T) testEnv {
	conf := testutil.NewConfig()
	logger := new(testutil.Logger)

	// set up backend & repos
	backend := testutil.OpenBackend(t)
	audit := sqlxrepos.NewTransitionRepository(testutil.OpenAuditDB(t))

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	role.InitValidators(validate, translator)
	lead.InitValidators(validate, translator)

	core.ParseEmailTemplates(appfs.FS, "templates/email", conf.FrontendBaseURL, true, logger)
	emailsvc.ResetSentMessages()

	// set up services
	metrics := metricsvc.NewCollector()
	teamSvc := user.NewService(inmemdb.NewMemberRepository(backend))
	pipelineSvc := lead.NewService(inmemdb.NewLeadRepository(backend), teamSvc, audit, logger)
	pipelineSvc.Observe(metrics, lead.NewOwnerNotifier(emailsvc.NewConsoleServiceMock(conf, logger)))

	// set up server
	app := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		Metrics:      metrics,
		PipelineSvc:  pipelineSvc,
		TeamSvc:      teamSvc,
		InterviewSvc: interview.NewService(inmemdb.NewInterviewRepository(backend), validate),
		ProgramSvc:   program.NewService(inmemdb.NewProgramRepository(backend), validate),
		Validate:     validate,
		Translator:   translator,
	})
	t.Cleanup(func() { _ = app.Close() })

	return testEnv{app: app, conf: conf, backend: backend, audit: audit, metrics: metrics, logger: logger}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func (env testEnv) serve(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	env.app.ServeHTTP(rec, req)
	return rec
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config, email, r, team string) string {
	claims := NewClaims(conf, email, r, team, "", time.Hour)
	token, err := GenerateToken(claims, conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchall() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, env testEnv, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			checkCodeAndData(t, tt, env.serve(method, tt.path, tt.token, tt.body))
		})
	}
}

func columnIDs(t *testing.T, b lead.Board) map[lead.Stage][]string {
	ids := make(map[lead.Stage][]string, len(b.Columns))
	for _, col := range b.Columns {
		assert.Equal(t, len(col.Cards), col.Count, "count of %s", col.Stage)
		for _, c := range col.Cards {
			ids[col.Stage] = append(ids[col.Stage], c.ID)
		}
	}
	return ids
}
