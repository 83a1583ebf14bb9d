// Package objectid генерирует и проверяет идентификаторы записей.
//
// Идентификатор — 24 hex-символа: 4 байта unix-времени и 8 случайных байт.
// Формат совместим с идентификаторами исходного сервиса, поэтому клиенты
// продолжают присылать и получать 24-символьные строки. Любая строка
// другой длины отклоняется до обращения к хранилищу.
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Len — длина идентификатора в символах.
const Len = 24

// New возвращает новый 24-символьный идентификатор.
func New() string {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[0:4], uint32(time.Now().Unix()))
	// rand.Read из crypto/rand по контракту не возвращает ошибку
	_, _ = rand.Read(raw[4:])
	return hex.EncodeToString(raw[:])
}

// IsValid проверяет формат идентификатора: длина 24 и только hex-символы.
// Это проверка формата, а не существования записи.
func IsValid(id string) bool {
	if len(id) != Len {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
