package netperf

import (
	"github.com/tidwall/gjson"

	perferrors "virtperf/internal/errors"
)

// ThroughputUnit is the only throughput unit accepted from streaming tests
const ThroughputUnit = "10^6bits/s"

// Test families keyed by the SERIES_META entry name
var (
	StreamTests = []string{"TCP_STREAM", "TCP_MAERTS", "UDP_STREAM", "UDP_MAERTS"}
	RRTests     = []string{"TCP_RR", "TCP_CRR", "UDP_RR"}
)

// UnknownTestPolicy decides what a SERIES_META entry outside both families does
type UnknownTestPolicy int

const (
	// PolicyKeepEmpty keeps the row with empty size and rate cells
	PolicyKeepEmpty UnknownTestPolicy = iota
	// PolicyError fails the report
	PolicyError
)

// KPI is the tuple extracted from one result log
type KPI struct {
	Driver     Value
	Round      Value
	Test       Value
	MSize      Value
	RRSize     Value
	Throughput Value
	TransRate  Value
	Latency    Value

	// Source is the log the tuple was read from
	Source string
	// UnknownTests lists SERIES_META entries that matched no test family
	UnknownTests []string
}

func isIn(name string, set []string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}

// ExtractKPI reads the KPI tuple from rec. Every SERIES_META entry is
// visited in document order and a later entry overwrites an earlier one.
// A missing field or a wrong throughput unit is an error.
func ExtractKPI(rec *Record, policy UnknownTestPolicy) (*KPI, error) {
	metadata := rec.Get("metadata")
	if !metadata.IsObject() {
		return nil, perferrors.KPIExtraction(rec.Path, "metadata")
	}

	required := func(key string) (gjson.Result, error) {
		v := metadata.Get(key)
		if !v.Exists() {
			return v, perferrors.KPIExtraction(rec.Path, "metadata."+key)
		}
		return v, nil
	}

	kpi := &KPI{Source: rec.Path}
	for _, field := range []struct {
		key string
		dst *Value
	}{
		{"DRIVER", &kpi.Driver},
		{"ROUNDS", &kpi.Round},
		{"NAME", &kpi.Test},
	} {
		v, err := required(field.key)
		if err != nil {
			return nil, err
		}
		*field.dst = FromJSON(v)
	}

	series, err := required("SERIES_META")
	if err != nil {
		return nil, err
	}
	if !series.IsObject() {
		return nil, perferrors.KPIExtraction(rec.Path, "metadata.SERIES_META object")
	}

	var extractErr error
	series.ForEach(func(key, entry gjson.Result) bool {
		name := key.String()
		seriesField := func(field string) (Value, bool) {
			v := entry.Get(field)
			if !v.Exists() {
				extractErr = perferrors.KPIExtraction(rec.Path, "metadata.SERIES_META."+name+"."+field)
				return EmptyCell, false
			}
			return FromJSON(v), true
		}

		switch {
		case isIn(name, StreamTests):
			msize, err := required("M_SIZE")
			if err != nil {
				extractErr = err
				return false
			}
			unit, ok := seriesField("THROUGHPUT_UNITS")
			if !ok {
				return false
			}
			if unit.String() != ThroughputUnit {
				extractErr = perferrors.UnitMismatch(rec.Path, name, ThroughputUnit, unit.String())
				return false
			}
			throughput, ok := seriesField("THROUGHPUT")
			if !ok {
				return false
			}
			latency, ok := seriesField("MEAN_LATENCY")
			if !ok {
				return false
			}
			kpi.MSize = FromJSON(msize)
			kpi.RRSize = Zero
			kpi.Throughput = throughput
			kpi.TransRate = NotANum
			kpi.Latency = latency

		case isIn(name, RRTests):
			rrsize, err := required("RR_SIZE")
			if err != nil {
				extractErr = err
				return false
			}
			transrate, ok := seriesField("TRANSACTION_RATE")
			if !ok {
				return false
			}
			latency, ok := seriesField("MEAN_LATENCY")
			if !ok {
				return false
			}
			kpi.MSize = Zero
			kpi.RRSize = FromJSON(rrsize)
			kpi.Throughput = NotANum
			kpi.TransRate = transrate
			kpi.Latency = latency

		default:
			if policy == PolicyError {
				extractErr = perferrors.UnknownTestType(rec.Path, name)
				return false
			}
			kpi.UnknownTests = append(kpi.UnknownTests, name)
		}
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	return kpi, nil
}
