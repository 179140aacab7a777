package main

import (
	"fmt"
	"log"

	"github.com/studyhall/membership-backend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Secret Generator for Study Hall Membership")
	fmt.Println("===========================================")
	fmt.Println()

	jwtSecret, err := utils.GenerateSecret(48)
	if err != nil {
		log.Fatalf("Failed to generate JWT secret: %v", err)
	}
	helperToken, err := utils.GenerateSecret(32)
	if err != nil {
		log.Fatalf("Failed to generate helper token: %v", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", jwtSecret)
	fmt.Printf("BIOMETRIC_HELPER_TOKEN=%s\n", helperToken)
	fmt.Println()
	fmt.Println("Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
