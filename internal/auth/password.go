package auth

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\p{L}0-9_.@+-]{3,150}$`)
	passwordRegex = regexp.MustCompile(`^.{8,128}$`)
)

// ValidateCredentials renvoie, par champ, les règles non respectées
func ValidateCredentials(email, username, password string) map[string]string {
	errs := map[string]string{}
	if !emailRegex.MatchString(email) || len(email) > 254 {
		errs["email"] = "Adresse e-mail invalide"
	}
	if !usernameRegex.MatchString(username) {
		errs["username"] = "3 à 150 caractères : lettres, chiffres et @/./+/-/_"
	}
	if !passwordRegex.MatchString(password) {
		errs["password"] = "Le mot de passe doit contenir de 8 à 128 caractères"
	}
	return errs
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
