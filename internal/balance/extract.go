package balance

import (
	"quotabalance/internal/core"

	"github.com/tidwall/gjson"
)

// Accepted field aliases for bucket-list payloads, checked in order; the
// first present alias wins.
var (
	bucketModelKeys    = []string{"modelId", "model_name", "model"}
	bucketFractionKeys = []string{"remainingFraction", "remaining_fraction", "fraction"}
)

// flatFractionKey is the only recognized fraction field in flat-map payloads.
const flatFractionKey = "remainingFraction"

// Extract converts one quota document into observations according to its
// declared shape. Unknown shapes, null payloads, and wrong-typed documents
// all yield an empty slice: partial upstream data is expected, not fatal.
func Extract(doc core.QuotaDocument) []Observation {
	switch doc.Shape {
	case core.ShapeFlatMap:
		return extractFlatMap(doc.Provider, doc.Payload)
	case core.ShapeBucketList:
		return extractBucketList(doc.Provider, doc.Payload)
	default:
		return nil
	}
}

func extractFlatMap(provider string, payload []byte) []Observation {
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return nil
	}

	var out []Observation
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		frac := value.Get(flatFractionKey)
		if frac.Type != gjson.Number {
			return true
		}
		out = append(out, Observation{
			Provider:  provider,
			ModelID:   key.String(),
			Remaining: frac.Float(),
		})
		return true
	})
	return out
}

func extractBucketList(provider string, payload []byte) []Observation {
	root := gjson.ParseBytes(payload)
	if !root.IsArray() {
		return nil
	}

	var out []Observation
	for _, bucket := range root.Array() {
		if !bucket.IsObject() {
			continue
		}
		modelID, ok := firstStringField(bucket, bucketModelKeys)
		if !ok {
			continue
		}
		fraction, ok := firstNumberField(bucket, bucketFractionKeys)
		if !ok {
			continue
		}
		out = append(out, Observation{
			Provider:  provider,
			ModelID:   modelID,
			Remaining: fraction,
		})
	}
	return out
}

func firstStringField(obj gjson.Result, keys []string) (string, bool) {
	for _, key := range keys {
		v := obj.Get(key)
		if v.Type == gjson.String && v.String() != "" {
			return v.String(), true
		}
	}
	return "", false
}

func firstNumberField(obj gjson.Result, keys []string) (float64, bool) {
	for _, key := range keys {
		v := obj.Get(key)
		if v.Type == gjson.Number {
			return v.Float(), true
		}
	}
	return 0, false
}
