package inmemdb

import (
	"sync"

	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
)

type (
	// DB is a process-local store used in tests and with `database.engine=memory`.
	DB struct {
		user    *userTable
		content *contentTable
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	contentTable struct {
		mutex sync.RWMutex
		table map[string]*content.Record
	}
)

func Open() *DB {
	return &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		content: &contentTable{table: make(map[string]*content.Record)},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.mutex.Unlock()

	db.content.mutex.Lock()
	db.content.table = make(map[string]*content.Record)
	db.content.mutex.Unlock()
}
