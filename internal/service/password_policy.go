package service

import (
	"unicode"
)

// PasswordMinLength 后台账号密码最小长度
const PasswordMinLength = 8

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// validatePassword 密码至少 8 位，且同时包含字母与数字
func validatePassword(password string) error {
	if len([]rune(password)) < PasswordMinLength {
		return passwordPolicyError{key: "error.password_weak", args: []interface{}{PasswordMinLength}}
	}

	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return passwordPolicyError{key: "error.password_weak", args: []interface{}{PasswordMinLength}}
	}
	return nil
}
