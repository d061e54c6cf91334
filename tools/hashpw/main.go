// hashpw prints the argon2id hash of a password for admin.password_hash.
//
//	go run ./tools/hashpw 'my-admin-password'
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexedwards/argon2id"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: hashpw <password>")
	}
	hash, err := argon2id.CreateHash(os.Args[1], argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	fmt.Println(hash)
}
