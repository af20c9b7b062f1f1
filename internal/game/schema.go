package game

import "github.com/santhosh-tekuri/jsonschema/v5"

// Mechanics configs come in two shapes per item list: an array of objects
// or compact array rows. The schemas accept both and enforce the required
// fields before the lenient decode runs.

const poolMultiplierSchemaJSON = `{
  "type": "object",
  "required": ["bg_items", "fg_items", "multiplier_pools", "item_to_pool_map"],
  "properties": {
    "bg_items": {
      "type": "array",
      "items": {
        "oneOf": [
          {
            "type": "object",
            "required": ["index", "value", "flag", "levels"],
            "properties": {
              "index": {"type": "integer"},
              "value": {"type": "number"},
              "flag": {"type": "boolean"},
              "levels": {"type": "integer"}
            }
          },
          {"type": "array", "minItems": 4, "items": {"type": "number"}}
        ]
      }
    },
    "fg_items": {
      "type": "array",
      "items": {
        "oneOf": [
          {
            "type": "object",
            "required": ["index", "value", "flag", "count", "levels"],
            "properties": {
              "index": {"type": "integer"},
              "value": {"type": "number"},
              "flag": {"type": "boolean"},
              "count": {"type": "integer"},
              "levels": {"type": "integer"}
            }
          },
          {"type": "array", "minItems": 5, "items": {"type": "number"}}
        ]
      }
    },
    "multiplier_pools": {
      "type": "array",
      "items": {"type": "array", "items": {"type": "number"}}
    },
    "item_to_pool_map": {
      "type": "object",
      "additionalProperties": {"type": "integer"}
    }
  }
}`

const triggerCountSchemaJSON = `{
  "type": "object",
  "required": ["bg_items", "fg_items"],
  "properties": {
    "bg_items": {
      "type": "array",
      "items": {
        "oneOf": [
          {
            "type": "object",
            "required": ["index", "value", "trigger_num", "levels"],
            "properties": {
              "index": {"type": "integer"},
              "value": {"type": "number"},
              "trigger_num": {"type": "integer"},
              "levels": {"type": "integer"}
            }
          },
          {"type": "array", "minItems": 4, "items": {"type": "number"}}
        ]
      }
    },
    "fg_items": {
      "type": "array",
      "items": {
        "oneOf": [
          {
            "type": "object",
            "required": ["index", "value", "retrigger_num", "levels"],
            "properties": {
              "index": {"type": "integer"},
              "value": {"type": "number"},
              "retrigger_num": {"type": "integer"},
              "levels": {"type": "integer"}
            }
          },
          {"type": "array", "minItems": 4, "items": {"type": "number"}}
        ]
      }
    }
  }
}`

var (
	poolMultiplierSchema = jsonschema.MustCompileString("pool-multiplier.json", poolMultiplierSchemaJSON)
	triggerCountSchema   = jsonschema.MustCompileString("trigger-count.json", triggerCountSchemaJSON)
)
