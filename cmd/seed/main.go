// seed mints development credentials for a local gate: signing keys, bearer
// tokens, recovery and two_auth signature tokens, and approver TOTP secrets.
// It signs with JWT_PRIVATE_KEY, so tokens validate against a server sharing the key.
//
//	go run ./cmd/seed keygen
//	go run ./cmd/seed token -subject <addr>
//	go run ./cmd/seed sign-recover -signer <addr> -owner <addr> -source <addr> -new-owner <addr> -new-account <addr>
//	go run ./cmd/seed sign-two-auth -signer <addr> -owner <addr> -account <addr>
//	go run ./cmd/seed totp -approver <addr>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"transfer-gate/internal/address"
	"transfer-gate/internal/config"
	"transfer-gate/internal/mfa"
	"transfer-gate/internal/security"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "keygen":
		keygen()
	case "token":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		subject := fs.String("subject", "", "Caller address")
		_ = fs.Parse(args)
		tok, exp, err := provider().IssueAccess(mustAddr("subject", *subject))
		if err != nil {
			log.Fatalf("seed: issue token: %v", err)
		}
		fmt.Println(tok)
		fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
	case "sign-recover":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		signer := fs.String("signer", "", "Recovery authority address")
		owner := fs.String("owner", "", "Owner being recovered")
		source := fs.String("source", "", "Account being recovered")
		newOwner := fs.String("new-owner", "", "Owner of the new account")
		newAccount := fs.String("new-account", "", "Account receiving the balance")
		_ = fs.Parse(args)
		binding := security.RecoverBinding(mustAddr("owner", *owner), mustAddr("source", *source),
			mustAddr("new-owner", *newOwner), mustAddr("new-account", *newAccount))
		sign(mustAddr("signer", *signer), security.PurposeRecover, binding)
	case "sign-two-auth":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		signer := fs.String("signer", "", "Approver address")
		owner := fs.String("owner", "", "Account owner")
		account := fs.String("account", "", "Account under step-up")
		_ = fs.Parse(args)
		sign(mustAddr("signer", *signer), security.PurposeTwoAuth,
			security.TwoAuthBinding(mustAddr("owner", *owner), mustAddr("account", *account)))
	case "totp":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		approver := fs.String("approver", "", "Approver address")
		_ = fs.Parse(args)
		a := mustAddr("approver", *approver)
		secret, url, err := mfa.GenerateSecret("tgate", a)
		if err != nil {
			log.Fatalf("seed: totp: %v", err)
		}
		fmt.Printf("APPROVER_TOTP_SECRETS=%s=%s\n", a, secret)
		fmt.Println(url)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: seed keygen|token|sign-recover|sign-two-auth|totp [flags]")
	os.Exit(2)
}

func keygen() {
	_, pemBytes, err := security.GenerateDevKey()
	if err != nil {
		log.Fatalf("seed: keygen: %v", err)
	}
	fmt.Print(string(pemBytes))
}

func provider() *security.TokenProvider {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTPrivateKey == "" {
		log.Fatal("seed: JWT_PRIVATE_KEY is not set; create one with seed keygen")
	}
	signer, pub, err := security.LoadKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("seed: jwt keys: %v", err)
	}
	return security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.SignatureTokenTTL())
}

func sign(signer address.Address, purpose, binding string) {
	tok, err := provider().IssueSignature(signer, purpose, binding)
	if err != nil {
		log.Fatalf("seed: sign %s: %v", purpose, err)
	}
	fmt.Println(tok)
}

func mustAddr(flagName, s string) address.Address {
	a, err := address.Parse(s)
	if err != nil {
		log.Fatalf("seed: -%s: %v", flagName, err)
	}
	return a
}
