// Package printer exposes the local printer's remote controls as the
// "printer" capability group.
package printer

import (
	"context"
	"fmt"

	"github.com/printwatch/printer-agent/pkg/capability"
)

const logPrefix = "printer:group"

// Controller is the narrow surface the capability group drives. Implemented
// by RESTController against the local print server; tests use fakes.
type Controller interface {
	SetTemperature(ctx context.Context, heater string, target float64) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Cancel(ctx context.Context) error
	Home(ctx context.Context, axes []string) error
	Jog(ctx context.Context, distances map[string]float64) error
}

// Group builds the "printer" capability group over c. Operation names match
// the server's command protocol.
func Group(c Controller) capability.FuncGroup {
	return capability.FuncGroup{
		"set_temperature": func(ctx context.Context, args []interface{}) (interface{}, error) {
			heater, target, err := temperatureArgs(args)
			if err != nil {
				return nil, err
			}
			return nil, c.SetTemperature(ctx, heater, target)
		},
		"pause": func(ctx context.Context, args []interface{}) (interface{}, error) {
			return nil, c.Pause(ctx)
		},
		"resume": func(ctx context.Context, args []interface{}) (interface{}, error) {
			return nil, c.Resume(ctx)
		},
		"cancel": func(ctx context.Context, args []interface{}) (interface{}, error) {
			return nil, c.Cancel(ctx)
		},
		"home": func(ctx context.Context, args []interface{}) (interface{}, error) {
			axes := make([]string, 0, len(args))
			for _, a := range args {
				s, ok := a.(string)
				if !ok {
					return nil, fmt.Errorf("%s - home: axis %v is not a string", logPrefix, a)
				}
				axes = append(axes, s)
			}
			if len(axes) == 0 {
				axes = []string{"x", "y", "z"}
			}
			return nil, c.Home(ctx, axes)
		},
		"jog": func(ctx context.Context, args []interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("%s - jog: want 1 arg, got %d", logPrefix, len(args))
			}
			raw, ok := args[0].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s - jog: arg %v is not a map", logPrefix, args[0])
			}
			distances := make(map[string]float64, len(raw))
			for axis, v := range raw {
				f, ok := toFloat(v)
				if !ok {
					return nil, fmt.Errorf("%s - jog: distance for %s is not numeric", logPrefix, axis)
				}
				distances[axis] = f
			}
			return nil, c.Jog(ctx, distances)
		},
	}
}

// temperatureArgs accepts [target] or [heater, target]; the bare form
// defaults to the primary hotend.
func temperatureArgs(args []interface{}) (string, float64, error) {
	switch len(args) {
	case 1:
		target, ok := toFloat(args[0])
		if !ok {
			return "", 0, fmt.Errorf("%s - set_temperature: target %v is not numeric", logPrefix, args[0])
		}
		return "tool0", target, nil
	case 2:
		heater, ok := args[0].(string)
		if !ok {
			return "", 0, fmt.Errorf("%s - set_temperature: heater %v is not a string", logPrefix, args[0])
		}
		target, ok := toFloat(args[1])
		if !ok {
			return "", 0, fmt.Errorf("%s - set_temperature: target %v is not numeric", logPrefix, args[1])
		}
		return heater, target, nil
	default:
		return "", 0, fmt.Errorf("%s - set_temperature: want 1 or 2 args, got %d", logPrefix, len(args))
	}
}

// toFloat accepts the numeric shapes JSON decoding produces.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
