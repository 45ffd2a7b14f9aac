package inmemdb

import (
	"sync"
	"time"

	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

type (
	// DB is an in-memory store for accounts, student records and revoked tokens.
	DB struct {
		account *accountTable
		student *studentTable
		revoked *revokedTable
	}

	accountTable struct {
		table map[string]*session.Account // {uid: account}
		mutex sync.RWMutex
	}

	studentTable struct {
		table map[string]*student.Record // {id: record}
		order []string                   // insertion order of ids
		mutex sync.RWMutex
	}

	revokedTable struct {
		table map[string]time.Time // {token id: expiry}
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		account: &accountTable{table: make(map[string]*session.Account)},
		student: &studentTable{table: make(map[string]*student.Record)},
		revoked: &revokedTable{table: make(map[string]time.Time)},
	}
}
