package main

import (
	"context"
	"fmt"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

// findUser looks `uname` up first, then `email`.
func (cli *commandLine) findUser(ctx context.Context, uname, email string) (user.User, error) {
	for _, key := range []string{uname, email} {
		if key == "" {
			continue
		}
		usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, key)
		if err == nil {
			return usr, nil
		}
		if !core.IsNotFound(err) {
			return user.User{}, err
		}
	}
	return user.User{}, user.ErrNotFound
}

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(name, uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	roles := user.StudentRoles
	if isAdmin {
		roles = user.AdminRoles
	}

	usr, err := cli.findUser(ctx, uname, email)
	switch {
	case core.IsNotFound(err):
		if name == "" {
			name = uname
		}
		if name == "" {
			name = email
		}
		if err := cli.usrSvc.CheckUniqueness(uname, email); err != nil {
			return err
		}
		usr, err = cli.usrSvc.Create(ctx, user.NewUser{
			Name:     name,
			Username: uname,
			Email:    email,
			Password: pwd,
			Roles:    append([]string(nil), roles...),
		})
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		active := true
		uu := user.UpdateUser{
			Name:     name,
			Username: uname,
			Email:    email,
			IsActive: &active,
			Password: pwd,
		}
		if isAdmin {
			uu.Roles = append([]string(nil), roles...)
		}
		if uu.Name == "" {
			uu.Name = usr.Name
		}
		if uu.Username == "" {
			uu.Username = usr.Username
		}
		if uu.Email == "" {
			uu.Email = usr.Email
		}
		if err := cli.usrSvc.CheckUniqueness(uu.Username, uu.Email, usr); err != nil {
			return err
		}
		if usr, err = cli.usrSvc.Update(ctx, usr, uu); err != nil {
			return err
		}
	}
	fmt.Fprintf(cli.out, "user %s saved (id: %s)\n", usr.Name, usr.ID)
	return nil
}
