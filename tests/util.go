// Package testutil holds the helpers shared by the integration tests.
package testutil

import (
	"net/mail"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/skillbridge/portal/core"
	appfs "github.com/skillbridge/portal/fs"
	"github.com/skillbridge/portal/storage/database"
	inmemdb "github.com/skillbridge/portal/storage/database/inmem"
)

const SecretKey = "test-secret"

// NewConfig returns the configuration of the test server.
func NewConfig() *core.Config {
	return &core.Config{
		Env:             "TEST",
		AppName:         "SkillBridge",
		TestMode:        true,
		SecretKey:       SecretKey,
		FrontendBaseURL: "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			DisableReqLogs:     true,
			AllowedOrigins:     []string{"http://localhost:3000"},
		},
		Database: core.DatabaseConfig{Engine: "sqlite", Path: ":memory:"},
		Email: core.EmailConfig{
			Backend:          "console",
			DefaultFromEmail: mail.Address{Name: "SkillBridge", Address: "noreply@localhost"},
		},
	}
}

// OpenAuditDB returns a migrated in-memory audit database, closed at the end of the test.
func OpenAuditDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(NewConfig())
	if err != nil {
		t.Fatalf("OpenAuditDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err = database.Migrate(db); err != nil {
		t.Fatalf("OpenAuditDB() failed: %v", err)
	}
	return db
}

// OpenBackend returns a fake backend seeded with the fixtures.
func OpenBackend(t *testing.T) *inmemdb.DB {
	t.Helper()
	db, err := inmemdb.OpenFixtures(appfs.FS, inmemdb.FixturesPath)
	if err != nil {
		t.Fatalf("OpenBackend() failed: %v", err)
	}
	return db
}

// Logger records the messages of Error and Fatal.
type Logger struct {
	mu     sync.Mutex
	errors []string
}

func (l *Logger) Debug(string, ...interface{}) {}
func (l *Logger) Info(string, ...interface{})  {}
func (l *Logger) Warn(string, ...interface{})  {}
func (l *Logger) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}
func (l *Logger) Fatal(msg string, args ...interface{}) { l.Error(msg, args...) }

func (l *Logger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}
