package main

import (
	"context"
	"fmt"

	"github.com/trezcool/edutube/core/user"
)

// addUser registers a user.User with the given role.
func (cli *commandLine) addUser(name, email, pwd, role string) error {
	usr, err := cli.usrSvc.Register(context.Background(), user.NewUser{
		FullName: name,
		Email:    email,
		Password: pwd,
		Role:     role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s %s registered (id %s)\n", usr.Role, usr.Email, usr.ID)
	return nil
}
