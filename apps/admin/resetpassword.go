package main

import (
	"context"
	"fmt"

	"github.com/trezcool/edutube/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	if err := cli.usrSvc.SetPassword(context.Background(), user.SetPassword{Email: email, Password: pwd}); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "password of %s updated\n", email)
	return nil
}
