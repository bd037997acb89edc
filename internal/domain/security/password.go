// Package security contiene la política de contraseñas y el hashing con bcrypt.
package security

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cafecraft/internal/domain"
)

// MinPasswordLength longitud mínima exigida.
const MinPasswordLength = 12

// PolicyError detalla las reglas incumplidas. Envuelve domain.ErrWeakPassword.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrWeakPassword.Error(), strings.Join(e.Violations, "; "))
}

func (e *PolicyError) Unwrap() error { return domain.ErrWeakPassword }

// ValidatePassword verifica longitud mínima, minúscula, mayúscula, dígito y carácter especial.
func ValidatePassword(password string) error {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	var v []string
	if len([]rune(password)) < MinPasswordLength {
		v = append(v, fmt.Sprintf("debe tener al menos %d caracteres", MinPasswordLength))
	}
	if !lower {
		v = append(v, "debe incluir una letra minúscula")
	}
	if !upper {
		v = append(v, "debe incluir una letra mayúscula")
	}
	if !digit {
		v = append(v, "debe incluir un número")
	}
	if !special {
		v = append(v, "debe incluir un carácter especial")
	}
	if len(v) > 0 {
		return &PolicyError{Violations: v}
	}
	return nil
}

// PasswordStrength puntaje 0..5 (una unidad por regla cumplida), útil para indicadores en UI.
func PasswordStrength(password string) int {
	err := ValidatePassword(password)
	if err == nil {
		return 5
	}
	pe, ok := err.(*PolicyError)
	if !ok {
		return 0
	}
	return 5 - len(pe.Violations)
}

// HashPassword genera el hash bcrypt de la contraseña.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash contraseña: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compara la contraseña con el hash almacenado.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
