package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	security "github.com/linemk/pandabuds-shop/internal/jwt-new"
)

// выпускает токен для /api/admin, секрет берется из JWT_SECRET
func main() {
	var (
		subject string
		ttl     time.Duration
	)
	flag.StringVar(&subject, "subject", "owner", "token subject")
	flag.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	flag.Parse()

	token, err := security.NewAdminToken(os.Getenv("JWT_SECRET"), subject, ttl)
	if err != nil {
		log.Fatalf("failed to create token: %v", err)
	}
	fmt.Println(token)
}
