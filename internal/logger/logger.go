package logger

import (
	"os"
	"time"

	"CnabCtrl/config"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init configura o logger global a partir da configuração da aplicação.
// Em development usa saída colorida no console; em produção, JSON puro.
func Init(cfg *config.Config) {
	level := zerolog.InfoLevel
	if cfg.App.Environment == "development" {
		level = zerolog.DebugLevel
	}

	if cfg.App.Environment == "development" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		log = zerolog.New(output).With().Timestamp().Logger().Level(level)
		return
	}

	log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
