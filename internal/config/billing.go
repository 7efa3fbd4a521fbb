package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig holds the billing knobs that operators tune without a deploy.
type BillingConfig struct {
	// TaxRateBps is the tax rate applied to activation subtotals, in basis
	// points (100 bps = 1%). Zero disables tax.
	TaxRateBps int64 `mapstructure:"taxRateBps"`

	// InvoiceDueDays is the number of days between invoice issue and due date.
	InvoiceDueDays int `mapstructure:"invoiceDueDays"`

	// ActivationTermDays is the length of a paid activation window.
	ActivationTermDays int `mapstructure:"activationTermDays"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		TaxRateBps:         0,
		InvoiceDueDays:     14,
		ActivationTermDays: 365,
	}
}

// BillingConfigHolder exposes the current billing config and hot-reloads it
// when the underlying file changes.
type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/aktiva/config")
	v.AddConfigPath("/etc/aktiva")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AKTIVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.taxRateBps", defaults.TaxRateBps)
	v.SetDefault("billing.invoiceDueDays", defaults.InvoiceDueDays)
	v.SetDefault("billing.activationTermDays", defaults.ActivationTermDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticBillingConfig returns a holder pinned to cfg, with no file
// watching. Used by tests and tooling.
func NewStaticBillingConfig(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.TaxRateBps < 0 {
		return errors.New("billing.taxRateBps cannot be negative")
	}
	if cfg.InvoiceDueDays < 0 {
		return errors.New("billing.invoiceDueDays cannot be negative")
	}
	if cfg.ActivationTermDays < 1 {
		return errors.New("billing.activationTermDays must be at least 1")
	}
	return nil
}
