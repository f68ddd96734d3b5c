package utils

import (
	"strings"
	"unicode"

	"github.com/ougirez/roaddefects/internal/pkg/constants"
)

const MinPasswordLength = 8

// PasswordProblems lists the strength rules the password breaks.
func PasswordProblems(password string) []string {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	var problems []string
	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "at least 8 characters")
	}
	if !hasUpper {
		problems = append(problems, "an uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "a lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "a digit")
	}
	return problems
}

func CheckPasswordStrength(password string) error {
	if problems := PasswordProblems(password); len(problems) > 0 {
		return constants.ErrWeakPassword.Wrapf("password needs %s", strings.Join(problems, ", "))
	}
	return nil
}
