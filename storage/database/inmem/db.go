package inmemdb

import (
	"sync"

	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

type (
	// DB keeps every table in memory; used in debug mode and tests.
	DB struct {
		user    *userTable
		profile *profileTable
		form    *formTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	profileTable struct {
		table map[string]*profile.Profile
		mutex sync.RWMutex
	}

	formTable struct {
		templates map[string]*form.Template
		responses []form.Response // insertion order
		mutex     sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		profile: &profileTable{table: make(map[string]*profile.Profile)},
		form:    &formTable{templates: make(map[string]*form.Template)},
	}
}
