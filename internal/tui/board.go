package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"ecoquest/internal/backup"
	"ecoquest/internal/engine"
)

// Pusher sends completed missions to the remote backup.
type Pusher interface {
	Push(ctx context.Context, ev backup.PushEvent) error
}

// Deps are the collaborators the board drives.
type Deps struct {
	Service   *engine.Service
	Backup    Pusher
	Generator engine.MissionGenerator
	Geo       engine.Geocoder
	Weather   engine.WeatherProvider
	Lat, Lon  float64
	Mode      engine.Mode
}

func RunBoard(ctx context.Context, deps Deps, out io.Writer) error {
	if deps.Service == nil {
		return errNoService
	}
	if deps.Generator == nil {
		deps.Generator = engine.CatalogGenerator{}
	}
	m := newBoardModel(ctx, deps)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
