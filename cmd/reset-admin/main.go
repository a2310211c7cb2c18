// Command reset-admin resets a staff account password from the shell.
// Useful when the only admin is locked out.
//
//	go run ./cmd/reset-admin -email admin@sigmavie.local -password newpass
package main

import (
	"flag"
	"fmt"
	"os"

	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "staff account email")
	password := flag.String("password", "", "new password (min 6 chars)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if len(*password) < 6 {
		fmt.Fprintln(os.Stderr, "password must be at least 6 characters")
		os.Exit(2)
	}

	godotenv.Load()
	db := database.Connect()

	staffRepo := repository.NewStaffRepo(db)
	user, err := staffRepo.FindByEmail(*email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "no staff account for %s\n", *email)
		os.Exit(1)
	}

	if err := user.SetPassword(*password); err != nil {
		fmt.Fprintln(os.Stderr, "hash failed:", err)
		os.Exit(1)
	}
	// Rotating the token version kicks any live session.
	user.TokenVersion = uuid.NewString()
	user.UpdatedBy = "reset-admin"

	if err := staffRepo.Update(user); err != nil {
		fmt.Fprintln(os.Stderr, "update failed:", err)
		os.Exit(1)
	}

	fmt.Printf("password reset for %s (sessions revoked)\n", *email)
}
