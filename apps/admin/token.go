package main

import (
	"fmt"
	"time"

	echoapi "github.com/trezcool/findgreatschool/apps/api/echo"
)

// token prints a token signed with the configured secret, as the auth provider would issue.
func (cli *commandLine) token(userID, email string, ttl time.Duration) error {
	ss, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(userID, email, ttl))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, ss)
	return nil
}
