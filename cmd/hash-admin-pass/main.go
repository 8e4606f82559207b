// Command hash-admin-pass prints the bcrypt hash of a password read from its
// single argument, for use as the ADMIN_PASS_HASH environment variable.
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/lromero/appointment-assistant/internal/utils"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <password>", os.Args[0])
	}
	hash, err := utils.HashPassword(os.Args[1], bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash failed: %v", err)
	}
	fmt.Println(hash)
}
