package config

import "sync"

// TierLimits holds the numeric ceilings a subscription tier grants.
type TierLimits struct {
	Name              string `json:"name"`
	StorageLimitBytes int64  `json:"storage_limit_bytes"`
	MaxFileSizeBytes  int64  `json:"max_file_size_bytes"`
	RetentionDays     int    `json:"retention_days"` // default item lifetime, 0 = no default expiry
}

// TierConfig maps tier names to their limits.
type TierConfig struct {
	Tiers       map[string]TierLimits
	DefaultTier string
}

var TierConfigInstance *TierConfig
var tierConfigOnce sync.Once

// InitTierConfig initializes the tier table.
// 目前为静态表 后续可接计费系统
func InitTierConfig() {
	tierConfigOnce.Do(func() {
		TierConfigInstance = &TierConfig{
			DefaultTier: "free",
			Tiers: map[string]TierLimits{
				"free": {
					Name:              "free",
					StorageLimitBytes: 1 * 1024 * 1024 * 1024, // 1GB
					MaxFileSizeBytes:  50 * 1024 * 1024,       // 50MB
					RetentionDays:     30,
				},
				"pro": {
					Name:              "pro",
					StorageLimitBytes: 50 * 1024 * 1024 * 1024, // 50GB
					MaxFileSizeBytes:  2 * 1024 * 1024 * 1024,  // 2GB
					RetentionDays:     0,
				},
				"business": {
					Name:              "business",
					StorageLimitBytes: 500 * 1024 * 1024 * 1024, // 500GB
					MaxFileSizeBytes:  10 * 1024 * 1024 * 1024,  // 10GB
					RetentionDays:     0,
				},
			},
		}
	})
}

// LimitsForTier returns the limits for a tier, falling back to the default tier.
func LimitsForTier(tier string) TierLimits {
	InitTierConfig()
	if limits, ok := TierConfigInstance.Tiers[tier]; ok {
		return limits
	}
	return TierConfigInstance.Tiers[TierConfigInstance.DefaultTier]
}
