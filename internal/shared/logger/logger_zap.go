// Package logger содержит общий логгер сервера.
//
// Пакет предоставляет Zap-логгер, который пишет одновременно в консоль
// и в файл с ротацией (lumberjack), и удобный метод для логирования HTTP-запросов.
package logger

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options описывает куда и с каким уровнем писать логи.
type Options struct {
	Level      string // debug|info|warn|error
	File       string // путь к файлу логов, пустая строка — только консоль
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultOptions — настройки, с которыми логгер работает до загрузки конфига.
func DefaultOptions() Options {
	return Options{
		Level:      "info",
		File:       filepath.Join("runtime", "logs", "http.log"),
		MaxSizeMB:  100, // MB ≈ ~300 000 строк
		MaxBackups: 10,
		MaxAgeDays: 30,
	}
}

// Logger представляет обёртку над zap.Logger.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type Logger struct {
	*zap.Logger
}

// New создаёт zap-логгер по опциям.
//
// Консольный вывод нужен для сообщений о старте и подключении к БД,
// файл — для истории HTTP-запросов. Формат времени: "HH:MM:SS DD.MM.YYYY".
func New(opts Options) *Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Level != "" {
		if l, err := zapcore.ParseLevel(opts.Level); err == nil {
			level.SetLevel(l)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0755)

		// lumberjack отвечает за ротацию файлов
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), writer, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	return &Logger{Logger: logger}
}

// NewNop возвращает логгер, который ничего не пишет. Удобен в тестах.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах.
func (logger *Logger) LogRequest(method, uri string, status, responseSize int, duration float64) {
	logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	)
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
