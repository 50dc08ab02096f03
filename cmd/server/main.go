// Package main содержит точку входа сервера сайта-витрины.
//
// Пакет передаёт информацию о сборке в CLI-слой, вся инициализация
// (конфиг, база, сессии, HTTP-сервер) живёт в internal/server/cli.
package main

import "github.com/IvanChernomyrdin/go-showcase/internal/server/cli"

var (
	// buildVersion содержит версию приложения, передаваемую при сборке.
	buildVersion = "dev"
	// buildDate содержит дату сборки приложения.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
