package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LenderPolicy holds the conservative underwriting defaults applied when a
// lender_id is supplied without a negotiated rule set. These are placeholder
// values banks can refine later, not a real underwriting policy.
type LenderPolicy struct {
	MinScore               int     `mapstructure:"minScore"`
	MaxExposurePerCustomer float64 `mapstructure:"maxExposurePerCustomer"`
	MaxTenorMonths         int     `mapstructure:"maxTenorMonths"`
	PricingStrategy        string  `mapstructure:"pricingStrategy"`
}

func DefaultLenderPolicy() LenderPolicy {
	return LenderPolicy{
		MinScore:               60,
		MaxExposurePerCustomer: 1_000_000,
		MaxTenorMonths:         24,
		PricingStrategy:        "base_rate_plus_margin_by_band",
	}
}

type LenderPolicyHolder struct {
	current atomic.Value // holds LenderPolicy
}

func NewLenderPolicyHolder() (*LenderPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("lender")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/silky")
	v.AddConfigPath(".") // dev mode

	v.SetEnvPrefix("SILKY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultLenderPolicy()
		v.SetDefault("lender.minScore", defaults.MinScore)
		v.SetDefault("lender.maxExposurePerCustomer", defaults.MaxExposurePerCustomer)
		v.SetDefault("lender.maxTenorMonths", defaults.MaxTenorMonths)
		v.SetDefault("lender.pricingStrategy", defaults.PricingStrategy)
	}

	var policy LenderPolicy
	if err := v.UnmarshalKey("lender", &policy); err != nil {
		return nil, err
	}
	if err := validateLenderPolicy(policy); err != nil {
		return nil, err
	}

	holder := &LenderPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated LenderPolicy
		if err := v.UnmarshalKey("lender", &updated); err != nil {
			log.Printf("[lender-config] reload failed: %v", err)
			return
		}
		if err := validateLenderPolicy(updated); err != nil {
			log.Printf("[lender-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[lender-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *LenderPolicyHolder) Get() LenderPolicy {
	return h.current.Load().(LenderPolicy)
}

func validateLenderPolicy(policy LenderPolicy) error {
	if policy.MinScore < 0 || policy.MinScore > 100 {
		return errors.New("lender.minScore must be within 0-100")
	}
	if policy.MaxTenorMonths <= 0 {
		return errors.New("lender.maxTenorMonths must be positive")
	}
	return nil
}
