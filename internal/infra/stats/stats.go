package stats

import (
	"context"
	"time"
)

// Event registra o resultado de um provedor dentro de uma resolução:
// Won=true quando foi ele quem devolveu o endereço.
type Event struct {
	Provider string
	Won      bool
	At       time.Time
}

type Counters struct {
	Won    int64 `json:"won"`
	Missed int64 `json:"missed"`
}

// Store guarda os contadores por provedor. Quem chama trata erro como
// best-effort (não derruba a consulta).
type Store interface {
	Record(ctx context.Context, ev Event) error
	Snapshot(ctx context.Context) (map[string]Counters, error)
}
