// Gen-jwt prints an access token signed with BACKEND_JWT_SECRET, for calling /api locally.
// Run from project root: go run ./scripts/gen-jwt -sub <user-id>
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"taskboard/internal/tokens"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	sub := flag.String("sub", "dev-user", "token subject (user id)")
	email := flag.String("email", "dev@example.com", "email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("BACKEND_JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	signed, err := tokens.Mint(secret, *sub, *email, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign failed:", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}
