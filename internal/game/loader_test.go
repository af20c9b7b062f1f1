package game

import (
	"math"
	"testing"
)

const poolObjectCfg = `{
	"bg_items": [
		{"index": 0, "value": 0, "flag": false, "levels": 1},
		{"index": 1, "value": 10, "flag": true, "levels": 2}
	],
	"fg_items": [
		{"index": 0, "value": 5, "flag": false, "count": 2, "levels": 2},
		{"index": 1, "value": 0, "flag": true, "count": 0, "levels": 1}
	],
	"multiplier_pools": [[1, 2, 3]],
	"item_to_pool_map": {"0": 0}
}`

const poolCompactCfg = `{
	"bg_items": [
		[0, 0, 0, 1],
		[1, 10, 1, 2]
	],
	"fg_items": [
		[0, 5, 0, 2, 2],
		[1, 0, 1, 0, 1]
	],
	"multiplier_pools": [[1, 2, 3]],
	"item_to_pool_map": {"0": 0}
}`

func TestParsePoolMultiplierFormats(t *testing.T) {
	obj, err := ParsePoolMultiplier([]byte(poolObjectCfg), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	compact, err := ParsePoolMultiplier([]byte(poolCompactCfg), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if len(obj.base) != len(compact.base) || len(obj.feature) != len(compact.feature) {
		t.Fatalf("format mismatch: obj %d/%d, compact %d/%d",
			len(obj.base), len(obj.feature), len(compact.base), len(compact.feature))
	}
	for i := range obj.base {
		if obj.base[i] != compact.base[i] {
			t.Fatalf("bg_items[%d]: %+v != %+v", i, obj.base[i], compact.base[i])
		}
	}
	for i := range obj.feature {
		if obj.feature[i] != compact.feature[i] {
			t.Fatalf("fg_items[%d]: %+v != %+v", i, obj.feature[i], compact.feature[i])
		}
	}
	if got := obj.poolByItem[0]; got != 0 {
		t.Fatalf("poolByItem[0]=%d, want 0", got)
	}
}

func TestParsePoolMultiplierValueFactors(t *testing.T) {
	m, err := ParsePoolMultiplier([]byte(poolObjectCfg), LoadOptions{
		BaseValueFactor:    2,
		FeatureValueFactor: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.base[1].Value != 20 {
		t.Fatalf("base value=%f, want 20", m.base[1].Value)
	}
	if m.feature[0].Value != 2.5 {
		t.Fatalf("feature value=%f, want 2.5", m.feature[0].Value)
	}
}

func TestParsePoolMultiplierMissingField(t *testing.T) {
	missingPools := `{
		"bg_items": [[0, 0, 0, 1]],
		"fg_items": [[0, 5, 0, 2, 2]],
		"item_to_pool_map": {}
	}`
	if _, err := ParsePoolMultiplier([]byte(missingPools), LoadOptions{}); err == nil {
		t.Fatal("missing multiplier_pools must fail validation")
	}

	missingCount := `{
		"bg_items": [[0, 0, 0, 1]],
		"fg_items": [{"index": 0, "value": 5, "flag": false, "levels": 2}],
		"multiplier_pools": [[1]],
		"item_to_pool_map": {}
	}`
	if _, err := ParsePoolMultiplier([]byte(missingCount), LoadOptions{}); err == nil {
		t.Fatal("fg item without count must fail validation")
	}
}

func TestParseTriggerCountFormats(t *testing.T) {
	objectCfg := `{
		"bg_items": [
			{"index": 0, "value": 0, "trigger_num": 0, "levels": 1},
			{"index": 1, "value": 40, "trigger_num": 8, "levels": 3}
		],
		"fg_items": [
			{"index": 0, "value": 4, "retrigger_num": 0, "levels": 2},
			{"index": 1, "value": 0, "retrigger_num": 5, "levels": 1}
		]
	}`
	compactCfg := `{
		"bg_items": [[0, 0, 0, 1], [1, 40, 8, 3]],
		"fg_items": [[0, 4, 0, 2], [1, 0, 5, 1]]
	}`
	obj, err := ParseTriggerCount([]byte(objectCfg), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	compact, err := ParseTriggerCount([]byte(compactCfg), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range obj.base {
		if obj.base[i] != compact.base[i] {
			t.Fatalf("bg_items[%d]: %+v != %+v", i, obj.base[i], compact.base[i])
		}
	}
	for i := range obj.feature {
		if obj.feature[i] != compact.feature[i] {
			t.Fatalf("fg_items[%d]: %+v != %+v", i, obj.feature[i], compact.feature[i])
		}
	}
}

func TestLoadMechanicsUnknownVariant(t *testing.T) {
	if _, err := LoadMechanics("roulette", "nope.json", LoadOptions{}); err == nil {
		t.Fatal("unknown variant must error")
	}
}

func TestPoolMultiplierRoll(t *testing.T) {
	m, err := ParsePoolMultiplier([]byte(poolObjectCfg), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	rng := NewSeeded(11)

	// Item 0 draws 2 multipliers from pool {1,2,3}: sum in [2,6].
	for i := 0; i < 1000; i++ {
		out := m.ResolveFeature(0, rng)
		if out.Multiplier < 2 || out.Multiplier > 6 {
			t.Fatalf("multiplier=%d outside [2,6]", out.Multiplier)
		}
		if math.Abs(out.Contribution-5*float64(out.Multiplier)) > 1e-12 {
			t.Fatalf("contribution=%f, want value*multiplier", out.Contribution)
		}
	}

	// Item 1 has no draws and no pool mapping: multiplier falls back to 1.
	out := m.ResolveFeature(1, rng)
	if out.Multiplier != 1 {
		t.Fatalf("multiplier=%d, want fallback 1", out.Multiplier)
	}
	if out.ExtraPicks != DefaultTriggerPicks {
		t.Fatalf("ExtraPicks=%d, want %d for a continue item", out.ExtraPicks, DefaultTriggerPicks)
	}
}

func TestTriggerCountLevelMultipliers(t *testing.T) {
	baseCases := map[int]int64{0: 1, 1: 1, 2: 2, 3: 3, 4: 5, 9: 5}
	for lvl, want := range baseCases {
		if got := baseLevelMultiplier(lvl); got != want {
			t.Fatalf("baseLevelMultiplier(%d)=%d, want %d", lvl, got, want)
		}
	}
	featureCases := map[int]int64{0: 2, 1: 2, 2: 4, 3: 6, 4: 10, 9: 10}
	for lvl, want := range featureCases {
		if got := featureLevelMultiplier(lvl); got != want {
			t.Fatalf("featureLevelMultiplier(%d)=%d, want %d", lvl, got, want)
		}
	}
}
