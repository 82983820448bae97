package inmemdb

import (
	"encoding/json"
	"io/fs"
	"sync"

	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core/interview"
	"github.com/skillbridge/portal/core/lead"
	"github.com/skillbridge/portal/core/program"
	"github.com/skillbridge/portal/core/user"
)

// FixturesPath is the seed file of the debug backend in appfs.FS.
const FixturesPath = "fixtures/pipeline.json"

type (
	// DB stands in for the remote backend in debug mode and tests.
	DB struct {
		lead      *leadTable
		member    *memberTable
		interview *interviewTable
		program   *programTable
	}

	leadTable struct {
		table     []lead.Lead
		updateErr error
		updates   int
		lists     int
		mutex     sync.RWMutex
	}

	memberTable struct {
		table []user.TeamMember
		mutex sync.RWMutex
	}

	interviewTable struct {
		table []interview.Interview
		mutex sync.RWMutex
	}

	programTable struct {
		table []program.Program
		mutex sync.RWMutex
	}

	// Fixtures is the seed data of a DB.
	Fixtures struct {
		Members    []user.TeamMember     `json:"members"`
		Leads      []lead.Lead           `json:"leads"`
		Programs   []program.Program     `json:"programs"`
		Interviews []interview.Interview `json:"interviews"`
	}
)

// Open returns an empty DB.
func Open() *DB {
	return &DB{
		lead:      &leadTable{},
		member:    &memberTable{},
		interview: &interviewTable{},
		program:   &programTable{},
	}
}

// OpenFixtures returns a DB seeded with the JSON fixtures found at path in fsys.
func OpenFixtures(fsys fs.FS, path string) (*DB, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var fx Fixtures
	if err = json.Unmarshal(data, &fx); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	db := Open()
	db.Seed(fx)
	return db, nil
}

// Seed replaces the content of every table.
func (db *DB) Seed(fx Fixtures) {
	db.lead.mutex.Lock()
	db.lead.table = append([]lead.Lead(nil), fx.Leads...)
	db.lead.mutex.Unlock()

	db.member.mutex.Lock()
	db.member.table = append([]user.TeamMember(nil), fx.Members...)
	db.member.mutex.Unlock()

	db.interview.mutex.Lock()
	db.interview.table = append([]interview.Interview(nil), fx.Interviews...)
	db.interview.mutex.Unlock()

	db.program.mutex.Lock()
	db.program.table = make([]program.Program, 0, len(fx.Programs))
	for _, p := range fx.Programs {
		db.program.table = append(db.program.table, copyProgram(p))
	}
	db.program.mutex.Unlock()
}

// SetUpdateError makes every following lead stage update fail with err, until reset with nil.
func (db *DB) SetUpdateError(err error) {
	db.lead.mutex.Lock()
	defer db.lead.mutex.Unlock()
	db.lead.updateErr = err
}

// Lists returns the number of lead listings served.
func (db *DB) Lists() int {
	db.lead.mutex.RLock()
	defer db.lead.mutex.RUnlock()
	return db.lead.lists
}

// Updates returns the number of successful lead stage updates.
func (db *DB) Updates() int {
	db.lead.mutex.RLock()
	defer db.lead.mutex.RUnlock()
	return db.lead.updates
}
