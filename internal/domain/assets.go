package domain

import "strings"

// AssetClass identifies one of the aggregated investment buckets tracked by the projection
type AssetClass string

const (
	AssetEPF        AssetClass = "EPF"
	AssetPPF        AssetClass = "PPF"
	AssetNPS        AssetClass = "NPS"
	AssetMutualFund AssetClass = "MUTUAL_FUND"
	AssetFD         AssetClass = "FD"
	AssetRD         AssetClass = "RD"
	AssetOther      AssetClass = "OTHER"
)

// AllAssetClasses lists every class in a stable order (used for reporting and iteration)
var AllAssetClasses = []AssetClass{
	AssetEPF, AssetPPF, AssetNPS, AssetMutualFund, AssetFD, AssetRD, AssetOther,
}

var assetClassAliases = map[string]AssetClass{
	"EPF":               AssetEPF,
	"PF":                AssetEPF,
	"PROVIDENT_FUND":    AssetEPF,
	"PPF":               AssetPPF,
	"NPS":               AssetNPS,
	"MF":                AssetMutualFund,
	"MUTUAL_FUND":       AssetMutualFund,
	"MUTUALFUND":        AssetMutualFund,
	"SIP":               AssetMutualFund,
	"FD":                AssetFD,
	"FIXED_DEPOSIT":     AssetFD,
	"RD":                AssetRD,
	"RECURRING_DEPOSIT": AssetRD,
	"OTHER":             AssetOther,
}

// ParseAssetClass maps an investment type label onto an asset class.
// Unknown or empty labels classify as OTHER.
func ParseAssetClass(s string) AssetClass {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if c, ok := assetClassAliases[key]; ok {
		return c
	}
	return AssetOther
}

// ClassifyInvestment resolves the asset class of an optional type field
func ClassifyInvestment(t *string) AssetClass {
	if t == nil {
		return AssetOther
	}
	return ParseAssetClass(*t)
}
