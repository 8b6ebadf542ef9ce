package utils

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 14

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

// CheckSecret сравнивает предъявленный пароль с настроенным секретом.
// Секрет может быть задан либо открытым текстом, либо bcrypt-хэшем
// (префикс $2); в обоих случаях сравнение устойчиво к таймингу.
func CheckSecret(provided, configured string) bool {
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(provided)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) == 1
}
