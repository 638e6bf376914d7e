// Command hashpw prints an AUTH_STATIC_USERS entry for an email and password.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/config"
)

func main() {
	email := flag.String("email", "", "account email")
	disabled := flag.Bool("disabled", false, "mark the account disabled")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	fmt.Fprint(os.Stderr, "password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		log.Fatalf("read password: %v", err)
	}
	password = strings.TrimRight(password, "\r\n")

	hash, err := auth.HashPassword(password, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	entry := strings.ToLower(strings.TrimSpace(*email)) + ":" + hash
	if *disabled {
		entry += ":disabled"
	}
	fmt.Println(entry)
}
