package app

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// newLogger returns a no-op logger unless verbose is set. Verbose logs are
// JSON on stderr, tagged with an id unique to this run.
func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	if !verbose {
		return zap.NewNop().Sugar(), nil
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("can't generate a unique run id: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "json"

	l, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return nil, fmt.Errorf("can't setup logger: %w", err)
	}

	return l.With(zap.String("run", id.String())).Sugar(), nil
}
