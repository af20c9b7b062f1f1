package game

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnknownVariant is returned by LoadMechanics for a variant name that is
// neither "pool-multiplier" nor "trigger-count".
var ErrUnknownVariant = errors.New("unknown mechanics variant")

// LoadOptions tunes mechanics loading. A zero value factor means 1 (no
// scaling). Log may be nil to silence the input-data summary.
type LoadOptions struct {
	BaseValueFactor    float64
	FeatureValueFactor float64
	Log                *zap.Logger
}

func (o LoadOptions) baseFactor() float64 {
	if o.BaseValueFactor == 0 {
		return 1
	}
	return o.BaseValueFactor
}

func (o LoadOptions) featureFactor() float64 {
	if o.FeatureValueFactor == 0 {
		return 1
	}
	return o.FeatureValueFactor
}

func (o LoadOptions) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// LoadMechanics reads a mechanics config file and builds the named variant.
func LoadMechanics(variant, path string, opts LoadOptions) (Mechanics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mechanics config: %w", err)
	}
	switch variant {
	case "pool-multiplier":
		return ParsePoolMultiplier(data, opts)
	case "trigger-count":
		return ParseTriggerCount(data, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// validateSchema checks raw JSON against a compiled schema. The document is
// re-decoded through encoding/json semantics because the validator walks
// plain interface{} trees.
func validateSchema(name string, data []byte, schema *jsonschema.Schema) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse %s config: %w", name, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid %s config: %w", name, err)
	}
	return nil
}

// Item rows come in two shapes: objects with named fields or compact numeric
// arrays. isObjectRow splits on the first non-space byte.
func isObjectRow(raw jsoniter.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

func decodeNums(raw jsoniter.RawMessage, want int, list string, i int) ([]float64, error) {
	var nums []float64
	if err := json.Unmarshal(raw, &nums); err != nil {
		return nil, fmt.Errorf("%s[%d]: %w", list, i, err)
	}
	if len(nums) < want {
		return nil, fmt.Errorf("%s[%d]: want %d fields, got %d", list, i, want, len(nums))
	}
	return nums, nil
}

type rawPoolConfig struct {
	BgItems         []jsoniter.RawMessage `json:"bg_items"`
	FgItems         []jsoniter.RawMessage `json:"fg_items"`
	MultiplierPools [][]int64             `json:"multiplier_pools"`
	ItemToPoolMap   map[string]int        `json:"item_to_pool_map"`
}

type poolBaseRow struct {
	Index  int     `json:"index"`
	Value  float64 `json:"value"`
	Flag   bool    `json:"flag"`
	Levels int     `json:"levels"`
}

type poolFeatureRow struct {
	Index  int     `json:"index"`
	Value  float64 `json:"value"`
	Flag   bool    `json:"flag"`
	Count  int     `json:"count"`
	Levels int     `json:"levels"`
}

// ParsePoolMultiplier builds the pool-multiplier variant from raw JSON.
func ParsePoolMultiplier(data []byte, opts LoadOptions) (*PoolMultiplier, error) {
	if err := validateSchema("pool-multiplier", data, poolMultiplierSchema); err != nil {
		return nil, err
	}
	var raw rawPoolConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse pool-multiplier config: %w", err)
	}

	g := &PoolMultiplier{
		base:       make([]poolBaseItem, 0, len(raw.BgItems)),
		feature:    make([]poolFeatureItem, 0, len(raw.FgItems)),
		pools:      raw.MultiplierPools,
		poolByItem: make(map[int]int, len(raw.ItemToPoolMap)),
	}
	bf, ff := opts.baseFactor(), opts.featureFactor()

	for i, r := range raw.BgItems {
		var it poolBaseItem
		if isObjectRow(r) {
			var row poolBaseRow
			if err := json.Unmarshal(r, &row); err != nil {
				return nil, fmt.Errorf("bg_items[%d]: %w", i, err)
			}
			it = poolBaseItem{Index: row.Index, Value: row.Value, Triggers: row.Flag, Levels: row.Levels}
		} else {
			nums, err := decodeNums(r, 4, "bg_items", i)
			if err != nil {
				return nil, err
			}
			it = poolBaseItem{Index: int(nums[0]), Value: nums[1], Triggers: nums[2] != 0, Levels: int(nums[3])}
		}
		it.Value *= bf
		g.base = append(g.base, it)
	}

	for i, r := range raw.FgItems {
		var it poolFeatureItem
		if isObjectRow(r) {
			var row poolFeatureRow
			if err := json.Unmarshal(r, &row); err != nil {
				return nil, fmt.Errorf("fg_items[%d]: %w", i, err)
			}
			it = poolFeatureItem{Index: row.Index, Value: row.Value, Continues: row.Flag, Draws: row.Count, Levels: row.Levels}
		} else {
			nums, err := decodeNums(r, 5, "fg_items", i)
			if err != nil {
				return nil, err
			}
			it = poolFeatureItem{Index: int(nums[0]), Value: nums[1], Continues: nums[2] != 0, Draws: int(nums[3]), Levels: int(nums[4])}
		}
		it.Value *= ff
		g.feature = append(g.feature, it)
	}

	for k, v := range raw.ItemToPoolMap {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("item_to_pool_map: non-numeric key %q", k)
		}
		g.poolByItem[idx] = v
	}

	logPoolSummary(opts.logger(), g)
	return g, nil
}

type rawTCConfig struct {
	BgItems []jsoniter.RawMessage `json:"bg_items"`
	FgItems []jsoniter.RawMessage `json:"fg_items"`
}

type tcBaseRow struct {
	Index      int     `json:"index"`
	Value      float64 `json:"value"`
	TriggerNum int     `json:"trigger_num"`
	Levels     int     `json:"levels"`
}

type tcFeatureRow struct {
	Index        int     `json:"index"`
	Value        float64 `json:"value"`
	RetriggerNum int     `json:"retrigger_num"`
	Levels       int     `json:"levels"`
}

// ParseTriggerCount builds the trigger-count variant from raw JSON.
func ParseTriggerCount(data []byte, opts LoadOptions) (*TriggerCount, error) {
	if err := validateSchema("trigger-count", data, triggerCountSchema); err != nil {
		return nil, err
	}
	var raw rawTCConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse trigger-count config: %w", err)
	}

	g := &TriggerCount{
		base:    make([]tcBaseItem, 0, len(raw.BgItems)),
		feature: make([]tcFeatureItem, 0, len(raw.FgItems)),
	}
	bf, ff := opts.baseFactor(), opts.featureFactor()

	for i, r := range raw.BgItems {
		var it tcBaseItem
		if isObjectRow(r) {
			var row tcBaseRow
			if err := json.Unmarshal(r, &row); err != nil {
				return nil, fmt.Errorf("bg_items[%d]: %w", i, err)
			}
			it = tcBaseItem{Index: row.Index, Value: row.Value, TriggerNum: row.TriggerNum, Levels: row.Levels}
		} else {
			nums, err := decodeNums(r, 4, "bg_items", i)
			if err != nil {
				return nil, err
			}
			it = tcBaseItem{Index: int(nums[0]), Value: nums[1], TriggerNum: int(nums[2]), Levels: int(nums[3])}
		}
		it.Value *= bf
		g.base = append(g.base, it)
	}

	for i, r := range raw.FgItems {
		var it tcFeatureItem
		if isObjectRow(r) {
			var row tcFeatureRow
			if err := json.Unmarshal(r, &row); err != nil {
				return nil, fmt.Errorf("fg_items[%d]: %w", i, err)
			}
			it = tcFeatureItem{Index: row.Index, Value: row.Value, RetriggerNum: row.RetriggerNum, Levels: row.Levels}
		} else {
			nums, err := decodeNums(r, 4, "fg_items", i)
			if err != nil {
				return nil, err
			}
			it = tcFeatureItem{Index: int(nums[0]), Value: nums[1], RetriggerNum: int(nums[2]), Levels: int(nums[3])}
		}
		it.Value *= ff
		g.feature = append(g.feature, it)
	}

	logTCSummary(opts.logger(), g)
	return g, nil
}

func logPoolSummary(log *zap.Logger, g *PoolMultiplier) {
	var triggers, bgNonzero int
	maxLevel := 0
	for _, it := range g.base {
		if it.Triggers {
			triggers++
		}
		if it.Value != 0 {
			bgNonzero++
		}
		if it.Levels > maxLevel {
			maxLevel = it.Levels
		}
		if it.Value == 0 && it.Levels != 1 {
			log.Warn("base item has zero value but levels != 1",
				zap.Int("index", it.Index), zap.Int("levels", it.Levels))
		}
	}
	var continues, fgNonzero int
	for _, it := range g.feature {
		if it.Continues {
			continues++
		}
		if it.Value != 0 {
			fgNonzero++
		}
		if it.Value == 0 && it.Levels != 1 {
			log.Warn("feature item has zero value but levels != 1",
				zap.Int("index", it.Index), zap.Int("levels", it.Levels))
		}
	}
	poolAvgs := make([]float64, len(g.pools))
	for i, pool := range g.pools {
		var sum int64
		for _, v := range pool {
			sum += v
		}
		if len(pool) > 0 {
			poolAvgs[i] = float64(sum) / float64(len(pool))
		}
	}
	log.Info("loaded pool-multiplier mechanics",
		zap.Int("bg_items", len(g.base)),
		zap.Float64("bg_trigger_share", share(triggers, len(g.base))),
		zap.Float64("bg_nonzero_share", share(bgNonzero, len(g.base))),
		zap.Int("bg_max_level", maxLevel),
		zap.Int("fg_items", len(g.feature)),
		zap.Float64("fg_continue_share", share(continues, len(g.feature))),
		zap.Float64("fg_nonzero_share", share(fgNonzero, len(g.feature))),
		zap.Int("pools", len(g.pools)),
		zap.Float64s("pool_averages", poolAvgs))
}

func logTCSummary(log *zap.Logger, g *TriggerCount) {
	var triggers, bgNonzero int
	triggerDist := map[int]int{}
	for _, it := range g.base {
		if it.TriggerNum > 0 {
			triggers++
			triggerDist[it.TriggerNum]++
		}
		if it.Value != 0 {
			bgNonzero++
		}
		if it.Value == 0 && it.Levels != 1 {
			log.Warn("base item has zero value but levels != 1",
				zap.Int("index", it.Index), zap.Int("levels", it.Levels))
		}
	}
	var retriggers, fgNonzero int
	for _, it := range g.feature {
		if it.RetriggerNum > 0 {
			retriggers++
		}
		if it.Value != 0 {
			fgNonzero++
		}
		if it.Value == 0 && it.Levels != 1 {
			log.Warn("feature item has zero value but levels != 1",
				zap.Int("index", it.Index), zap.Int("levels", it.Levels))
		}
	}
	log.Info("loaded trigger-count mechanics",
		zap.Int("bg_items", len(g.base)),
		zap.Float64("bg_trigger_share", share(triggers, len(g.base))),
		zap.Float64("bg_nonzero_share", share(bgNonzero, len(g.base))),
		zap.Any("trigger_distribution", triggerDist),
		zap.Int("fg_items", len(g.feature)),
		zap.Float64("fg_retrigger_share", share(retriggers, len(g.feature))),
		zap.Float64("fg_nonzero_share", share(fgNonzero, len(g.feature))))
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
