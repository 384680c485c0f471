package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

// Password satisfies the password policy.
const Password = "Pl4cement!Portal"

// NewConfig loads the TEST configuration rooted in a temporary directory.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	conf, err := core.LoadConfig("TEST", t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	conf.Database.Engine = "memory"
	conf.Upload.Driver = "local"
	conf.Upload.Dir = t.TempDir()
	return conf
}

// NewValidator returns a validator with every custom validation registered.
func NewValidator(t *testing.T, conf *core.Config) (*validator.Validate, ut.Translator, *form.Resolver) {
	t.Helper()
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	resolver, err := form.NewResolver(conf.Form.AutoFillKeys)
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}
	form.InitValidators(validate, translator, resolver)
	return validate, translator, resolver
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func CreateAdmin(t *testing.T, repo user.Repository, uname string) user.User {
	t.Helper()
	return CreateUser(t, repo, "Admin "+uname, uname, uname+"@iiitn.ac.in", Password, []string{user.RoleAdminTPO}, true)
}

func CreateStudent(t *testing.T, repo user.Repository, uname string) user.User {
	t.Helper()
	return CreateUser(t, repo, "Student "+uname, uname, uname+"@iiitn.ac.in", Password, []string{user.RoleStudent}, true)
}

func SaveProfile(t *testing.T, repo profile.Repository, p profile.Profile) profile.Profile {
	t.Helper()
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	p, err := repo.SaveProfile(context.Background(), p)
	if err != nil {
		t.Fatalf("saveProfile() failed: %v", err)
	}
	return p
}

func Float(f float64) *float64 { return &f }

func Int(i int) *int { return &i }
