package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-offlinemaps/internal/data"
)

// addOptions значения флагов команды add
type addOptions struct {
	north, south, east, west float64
	minZoom, maxZoom         int
	state                    string
}

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand(ctx context.Context) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an offline area to the catalog",
		Long:  `Add an offline area with the given name, bounds and zoom range to the catalog.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.addArea(ctx, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.north, "north", 0, "северная граница (широта)")
	flags.Float64Var(&opts.south, "south", 0, "южная граница (широта)")
	flags.Float64Var(&opts.east, "east", 0, "восточная граница (долгота)")
	flags.Float64Var(&opts.west, "west", 0, "западная граница (долгота)")
	flags.IntVar(&opts.minZoom, "min-zoom", 10, "минимальный масштаб")
	flags.IntVar(&opts.maxZoom, "max-zoom", 16, "максимальный масштаб")
	flags.StringVar(&opts.state, "state", string(data.StatePending), "состояние: pending, in_progress, downloaded, failed")

	return cmd
}

func (app *Application) addArea(ctx context.Context, name string, opts *addOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	added, err := app.Manager.Add(ctx, data.OfflineArea{
		Name:    name,
		North:   opts.north,
		South:   opts.south,
		East:    opts.east,
		West:    opts.west,
		MinZoom: opts.minZoom,
		MaxZoom: opts.maxZoom,
		State:   data.AreaState(opts.state),
	})
	if err != nil {
		return fmt.Errorf("ошибка добавления области: %w", err)
	}

	fmt.Printf("✅ Область добавлена: %s\n", added)
	return nil
}

func (o *addOptions) validate() error {
	switch {
	case o.north < -90 || o.north > 90 || o.south < -90 || o.south > 90:
		return fmt.Errorf("широта должна быть от -90 до 90")
	case o.east < -180 || o.east > 180 || o.west < -180 || o.west > 180:
		return fmt.Errorf("долгота должна быть от -180 до 180")
	case o.south > o.north:
		return fmt.Errorf("южная граница %g севернее северной %g", o.south, o.north)
	case o.minZoom < 0 || o.maxZoom > 22 || o.minZoom > o.maxZoom:
		return fmt.Errorf("неверный диапазон масштабов %d-%d", o.minZoom, o.maxZoom)
	}

	switch data.AreaState(o.state) {
	case data.StatePending, data.StateInProgress, data.StateDownloaded, data.StateFailed:
		return nil
	default:
		return fmt.Errorf("неизвестное состояние %q", o.state)
	}
}
