// Package cmdutil contains the setup and output steps shared by the commands.
package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/config"
	"github.com/mpapenbr/racegap-go/pkg/model"
	"github.com/mpapenbr/racegap-go/pkg/processing/race"
	"github.com/mpapenbr/racegap-go/pkg/render"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the logger according to the log config values,
// installs it as default and returns it with a run id attached.
func SetupLogger() *log.Logger {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if config.LogFilter != "" {
		if filtered, err := logger.WithFilter(config.LogFilter); err == nil {
			logger = filtered
		} else {
			logger.Warn("Invalid log filter, ignoring", log.ErrorField(err))
		}
	}
	logger = logger.With(log.String("run", uuid.NewString()))
	log.ResetDefault(logger)
	return logger
}

// BaseName returns the file base name of a race, e.g. 2018_04
func BaseName(season, round int) string {
	return fmt.Sprintf("%d_%02d", season, round)
}

// OutPath returns the path of name within the output directory
func OutPath(name string) string {
	return filepath.Join(config.OutDir, name)
}

// RenderGaps computes the gap to the leader and to the winner and queues
// both charts as <base>_leader and <base>_winner.
// Tables without checkpoints are not rendered.
func RenderGaps(r *render.Renderer, t *model.Table, base string) {
	leader := race.Gap(t, race.LeaderRows(t))
	if leader.Outcome == race.GapComputed {
		r.Render(leader.Table, base+"_leader", fmt.Sprintf("%s gap to leader", base))
	}
	winner := race.Gap(t, race.WinnerRows(t))
	if winner.Outcome == race.GapComputed {
		r.Render(winner.Table, base+"_winner", fmt.Sprintf("%s gap to winner", base))
	}
}
