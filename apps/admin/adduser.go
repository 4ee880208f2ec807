package main

import (
	"context"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, role user.Role) error {
	var usr user.User
	var err error
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	if usr, err = cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname); err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			FullName:  uname,
			Username:  uname,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
