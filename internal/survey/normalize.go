package survey

import (
	"math"
	"strings"

	"github.com/banshee-data/buyer.atlas/internal/monitoring"
)

// Default source field names, in priority order.
var (
	DefaultModelFields   = []string{"model", "Model", "MODEL", "vehicle_model", "VEHICLE_MODEL", "MODEL_NAME"}
	DefaultEmbXFields    = []string{"embX", "emb_x", "EMB_X", "x"}
	DefaultEmbYFields    = []string{"embY", "emb_y", "EMB_Y", "y"}
	DefaultClusterFields = []string{"cluster", "Cluster", "CLUSTER"}
)

// NormalizeOptions lists the alternate source field names for each required
// field. Empty lists fall back to the defaults.
type NormalizeOptions struct {
	ModelFields   []string
	EmbXFields    []string
	EmbYFields    []string
	ClusterFields []string
}

func (o NormalizeOptions) withDefaults() NormalizeOptions {
	if len(o.ModelFields) == 0 {
		o.ModelFields = DefaultModelFields
	}
	if len(o.EmbXFields) == 0 {
		o.EmbXFields = DefaultEmbXFields
	}
	if len(o.EmbYFields) == 0 {
		o.EmbYFields = DefaultEmbYFields
	}
	if len(o.ClusterFields) == 0 {
		o.ClusterFields = DefaultClusterFields
	}
	return o
}

// NormalizeResult is the output of Normalize.
type NormalizeResult struct {
	Records []Record
	Dropped int
}

// Normalize validates raw rows and coerces them into Records. Rows without a
// model, a finite embedding coordinate pair, or a finite cluster are dropped
// silently; only the count is reported.
func Normalize(raw []RawRecord, opts NormalizeOptions) NormalizeResult {
	opts = opts.withDefaults()
	res := NormalizeResult{Records: make([]Record, 0, len(raw))}

	for _, row := range raw {
		rec, ok := normalizeRow(row, opts)
		if !ok {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if res.Dropped > 0 {
		monitoring.Logf("normalize: kept %d records, dropped %d", len(res.Records), res.Dropped)
	}
	return res
}

func normalizeRow(row RawRecord, opts NormalizeOptions) (Record, bool) {
	model, ok := firstModel(row, opts.ModelFields)
	if !ok {
		return Record{}, false
	}
	x, ok := firstNumber(row, opts.EmbXFields)
	if !ok {
		return Record{}, false
	}
	y, ok := firstNumber(row, opts.EmbYFields)
	if !ok {
		return Record{}, false
	}
	c, ok := firstNumber(row, opts.ClusterFields)
	if !ok {
		return Record{}, false
	}

	fields := make(map[string]any, len(row))
	for k, v := range row {
		fields[k] = v
	}
	return Record{
		Model:   model,
		EmbX:    x,
		EmbY:    y,
		Cluster: int(math.Trunc(c)),
		Fields:  fields,
	}, true
}

func firstModel(row RawRecord, names []string) (string, bool) {
	for _, name := range names {
		v, ok := row[name]
		if !ok || IsMissing(v) {
			continue
		}
		if s := strings.TrimSpace(FormatValue(v)); s != "" {
			return s, true
		}
	}
	return "", false
}

// firstNumber returns the first present candidate. A present but
// non-numeric value invalidates the row rather than falling through.
func firstNumber(row RawRecord, names []string) (float64, bool) {
	for _, name := range names {
		v, ok := row[name]
		if !ok || IsMissing(v) {
			continue
		}
		return ParseNumber(v)
	}
	return 0, false
}
