// cmd/adduser/main.go
// Creates or updates a user in the database.
//
// Usage:
//
//	go run ./cmd/adduser -username padraic -password testing -role administrator
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/padraicbc/trialapi/config"
	bundb "github.com/padraicbc/trialapi/db"
	"github.com/padraicbc/trialapi/handlers"
	"github.com/padraicbc/trialapi/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	role := flag.String("role", "user", `"user" or "`+models.RoleAdministrator+`"`)
	flag.Parse()

	if *role != "user" && *role != models.RoleAdministrator {
		log.Fatalf("unknown role %q", *role)
	}

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.LoadCLI()
	if err := cfg.RequireDB(); err != nil {
		log.Fatal(err)
	}
	db := bundb.Setup(cfg)
	defer db.Close()

	user := &models.User{
		Username: *username,
		Password: hash,
		Role:     *role,
	}
	if err := bundb.NewUsers(db).Save(context.Background(), user); err != nil {
		log.Fatal("insert user:", err)
	}

	fmt.Printf("user %q saved with role %s\n", *username, *role)
}
