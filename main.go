package main

import (
	"github.com/joho/godotenv"

	"podkeep/cmd"

	// We need this to make TLS work in scratch containers when the
	// import command fetches feeds over https.
	_ "golang.org/x/crypto/x509roots/fallback"
)

func main() {
	// Pick up PODKEEP_* variables from a local .env if present.
	_ = godotenv.Load()

	cmd.Execute()
}
