package transport

import (
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/navigator-planner/entity"
	"google.golang.org/protobuf/types/known/structpb"
)

func headerFields(h Header) map[string]any {
	return map[string]any{
		"run_id": h.RunID,
		"seq":    h.Seq,
		"step":   h.Step,
		"stamp":  h.Stamp.Format(time.RFC3339Nano),
		"frame":  h.Frame,
	}
}

func pathFields(msg PathMessage) map[string]any {
	return map[string]any{
		"header": headerFields(msg.Header),
		"name":   msg.Path.Name,
		"points": lo.Map(msg.Path.Points, func(p r3.Vector, _ int) any {
			return []any{p.X, p.Y, p.Z}
		}),
		"routing_cost": msg.Path.RoutingCost,
		"safety_cost":  msg.Path.SafetyCost,
		"color": map[string]any{
			"r": msg.Color.R,
			"g": msg.Color.G,
			"b": msg.Color.B,
		},
	}
}

func zonesFields(msg ZonesMessage) map[string]any {
	return map[string]any{
		"header": headerFields(msg.Header),
		"state":  msg.State,
		"zones": lo.Map(msg.Zones, func(z entity.Zone, _ int) any {
			return z.Fields()
		}),
	}
}

func statusFields(s Status) map[string]any {
	return map[string]any{
		"step":               s.Step,
		"route":              s.Route,
		"state":              s.State,
		"localized":          s.Localized,
		"road":               s.Road,
		"lane":               s.Lane,
		"s":                  s.S,
		"speed":              s.Speed,
		"in_junction_zone":   s.InJunctionZone,
		"telemetry_received": s.TelemetryReceived,
	}
}

// poseFromStruct 解析{x, y, heading, xv, yv}格式的位姿，x与y必须存在
func poseFromStruct(s *structpb.Struct) (entity.CarPose, error) {
	fields := s.GetFields()
	number := func(key string, required bool) (float64, error) {
		v, ok := fields[key]
		if !ok {
			if required {
				return 0, fmt.Errorf("missing field %q", key)
			}
			return 0, nil
		}
		if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
			return 0, fmt.Errorf("field %q is not a number", key)
		}
		return v.GetNumberValue(), nil
	}
	var pose entity.CarPose
	var err error
	if pose.X, err = number("x", true); err != nil {
		return pose, err
	}
	if pose.Y, err = number("y", true); err != nil {
		return pose, err
	}
	if pose.Heading, err = number("heading", false); err != nil {
		return pose, err
	}
	if pose.XV, err = number("xv", false); err != nil {
		return pose, err
	}
	if pose.YV, err = number("yv", false); err != nil {
		return pose, err
	}
	return pose, nil
}
