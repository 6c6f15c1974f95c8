package service

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// Reclaimer removes a job's temporary artifacts when the job ends. Input
// artifacts are registered at creation time and removed on every exit path;
// the output artifact is removed only when the job did not succeed, so a
// successful response can still stream it.
type Reclaimer struct {
	paths  []string
	output string
	done   bool
}

func NewReclaimer() *Reclaimer {
	return &Reclaimer{}
}

func (r *Reclaimer) Register(path string) {
	r.paths = append(r.paths, path)
}

func (r *Reclaimer) RegisterOutput(path string) {
	r.output = path
}

// Cleanup removes registered artifacts. It runs at most once per job, and
// failures are logged, never returned: cleanup must not mask the job's
// primary outcome.
func (r *Reclaimer) Cleanup(ctx context.Context, succeeded bool) {
	if r.done {
		return
	}
	r.done = true

	targets := r.paths
	if r.output != "" && !succeeded {
		targets = append(targets, r.output)
	}

	for _, path := range targets {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("failed to remove temporary artifact")
		}
	}
}
