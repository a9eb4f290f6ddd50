package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger é o destino das mensagens de diagnóstico das consultas de CEP.
type Logger interface {
	Log(message string)
}

type diagnosticLogger struct {
	l *logrus.Logger
}

func (d *diagnosticLogger) Log(message string) {
	d.l.Info(message)
}

type nopLogger struct{}

func (nopLogger) Log(string) {}

// Nop descarta tudo.
var Nop Logger = nopLogger{}

// New devolve um Logger que escreve "[<timestamp>] <mensagem>" em out.
// Com enabled=false nada é escrito.
func New(enabled bool, out io.Writer) Logger {
	if !enabled {
		return Nop
	}
	if out == nil {
		out = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(diagnosticFormatter{})
	return &diagnosticLogger{l: l}
}

type diagnosticFormatter struct{}

func (diagnosticFormatter) Format(e *logrus.Entry) ([]byte, error) {
	ts := e.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return []byte(fmt.Sprintf("[%s] %s\n", ts, e.Message)), nil
}

// NewStd monta o logger da aplicação (cmd/ e worker).
func NewStd(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
