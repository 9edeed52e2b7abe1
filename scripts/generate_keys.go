//go:build ignore

// This script generates secrets for API key and JWT authentication and
// mints a sample bearer token signed with the new JWT secret.
// Run with: go run scripts/generate_keys.go [subject]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/guttosm/packgenius/internal/middleware"
)

const sampleTokenTTL = 24 * time.Hour

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	subject := "packgenius-cli"
	if len(os.Args) > 1 {
		subject = os.Args[1]
	}

	fmt.Println("=== PackGenius Key Generator ===")
	fmt.Println()

	// 32 bytes = 256 bits, the HS256 key size
	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT secret: %v\n", err)
		os.Exit(1)
	}

	apiKey, err := generateSecureKey(24)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating API key: %v\n", err)
		os.Exit(1)
	}

	token, err := middleware.IssueToken(middleware.JWTConfig{SecretKey: jwtSecret, Issuer: "packgenius"}, subject, sampleTokenTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing sample token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("# Authentication")
	fmt.Println("AUTH_ENABLED=true")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	fmt.Println("JWT_ISSUER=packgenius")
	fmt.Printf("API_KEYS=%s\n", apiKey)
	fmt.Println()
	fmt.Printf("# Sample bearer token for %q, valid for %s\n", subject, sampleTokenTTL)
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Use different keys for each environment")
}
