package dummydb

import (
	"sync"

	"github.com/trezcool/findgreatschool/core/application"
	"github.com/trezcool/findgreatschool/core/contact"
	"github.com/trezcool/findgreatschool/core/institution"
)

type (
	// DB is an in-memory database, used for tests and for running the API without Postgres.
	DB struct {
		institution *institutionTable
		application *applicationTable
		contact     *contactTable
	}

	institutionTable struct {
		sync.RWMutex
		table map[string]*institution.Institution
	}

	applicationTable struct {
		sync.RWMutex
		table map[string]*application.Application
	}

	contactTable struct {
		sync.RWMutex
		table []contact.Message
	}
)

func Open() *DB {
	return &DB{
		institution: &institutionTable{table: make(map[string]*institution.Institution)},
		application: &applicationTable{table: make(map[string]*application.Application)},
		contact:     &contactTable{},
	}
}
