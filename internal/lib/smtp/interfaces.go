// Package smtp реализует транспорт для отправки почтовых уведомлений.
package smtp

import "io"

// Client описывает минимальный набор операций SMTP-клиента,
// необходимый сервису отправки. Позволяет подменять клиент в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
