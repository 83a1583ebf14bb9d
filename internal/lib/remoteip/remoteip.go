// Package remoteip извлекает сетевой адрес клиента из HTTP-запроса.
//
// Токены сессий привязаны к адресу выдачи, поэтому все обработчики обязаны
// определять адрес одинаково. За прокси реальный адрес восстанавливает
// chi middleware.RealIP, перезаписывающий RemoteAddr.
package remoteip

import (
	"net"
	"net/http"
)

// FromRequest возвращает адрес клиента без номера порта.
func FromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
